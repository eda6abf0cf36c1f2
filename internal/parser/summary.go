package parser

import (
	"strings"

	"ett-connector/internal/models"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// sectionHeading marks the part of a meeting summary that carries candidate
// tickets
const sectionHeading = "suggested tickets"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseTicketsFromSummary extracts candidate tickets from a free-form
// markdown meeting summary. It looks for a level-2 "Suggested Tickets"
// heading and scans the tables beneath it for
// `| title | description | priority |` rows, in order.
//
// This is a best-effort extraction, not full markdown validation: a missing
// section or malformed rows yield fewer tickets, never an error. Parsed
// tickets start in the backlog with a normalized priority; the caller
// supplies board and reporter before submission.
func ParseTicketsFromSummary(summary string) []models.ParsedTicket {
	tickets := []models.ParsedTicket{}
	if strings.TrimSpace(summary) == "" {
		return tickets
	}

	source := []byte(summary)
	doc := markdown.Parser().Parse(text.NewReader(source))

	inSection := false
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*gast.Heading); ok {
			// The section runs until the next level-2 heading
			if heading.Level == 2 {
				title := strings.ToLower(nodeText(heading, source))
				inSection = strings.Contains(title, sectionHeading)
			}
			continue
		}

		if !inSection {
			continue
		}

		table, ok := node.(*extast.Table)
		if !ok {
			continue
		}

		for row := table.FirstChild(); row != nil; row = row.NextSibling() {
			if ticket, ok := ticketFromRow(row, source); ok {
				tickets = append(tickets, ticket)
			}
		}
	}

	return tickets
}

// ticketFromRow converts one table row into a parsed ticket. Header rows,
// dash rows, empty titles and rows without the three expected cells are
// skipped.
func ticketFromRow(row gast.Node, source []byte) (models.ParsedTicket, bool) {
	if _, isHeader := row.(*extast.TableHeader); isHeader {
		return models.ParsedTicket{}, false
	}
	if _, isRow := row.(*extast.TableRow); !isRow {
		return models.ParsedTicket{}, false
	}

	cells := make([]string, 0, 3)
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, nodeText(cell, source))
	}
	if len(cells) < 3 {
		return models.ParsedTicket{}, false
	}

	title := strings.TrimSpace(strings.Trim(cells[0], "*"))
	if title == "" || isDashRun(title) {
		return models.ParsedTicket{}, false
	}
	if strings.Contains(strings.ToLower(title), "title") {
		return models.ParsedTicket{}, false
	}

	return models.ParsedTicket{
		Title:       title,
		Description: cells[1],
		Priority:    models.NormalizePriority(cells[2]),
		Status:      models.StatusBacklog,
	}, true
}

// nodeText collects the plain text beneath a node, dropping inline markup
// such as bold markers
func nodeText(node gast.Node, source []byte) string {
	var b strings.Builder

	_ = gast.Walk(node, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *gast.Text:
			b.Write(t.Segment.Value(source))
		case *gast.String:
			b.Write(t.Value)
		}
		return gast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func isDashRun(s string) bool {
	return strings.Trim(s, "-") == ""
}
