package models

import "strings"

// Status represents the workflow state of an issue
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
	StatusBlocker    Status = "blocker"
)

// Priority represents the urgency of an issue
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

var validPriorities = map[Priority]bool{
	PriorityUrgent: true,
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
	PriorityNone:   true,
}

// NormalizePriority lower-cases and trims a raw priority value, substituting
// medium for anything outside the known set
func NormalizePriority(raw string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if validPriorities[p] {
		return p
	}
	return PriorityMedium
}

// IssueRequest is the payload for creating a single issue. BoardID and
// ReporterID must both be set before the request is sent.
type IssueRequest struct {
	BoardID        string   `json:"board_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         Status   `json:"status,omitempty"`
	Priority       Priority `json:"priority,omitempty"`
	AssigneeID     string   `json:"assignee_id,omitempty"`
	ReporterID     string   `json:"reporter_id"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	LabelIDs       []string `json:"label_ids,omitempty"`
}

// Issue represents an issue as returned by the tracker, including the
// server-assigned identifier
type Issue struct {
	ID             string   `json:"id"`
	BoardID        string   `json:"board_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	AssigneeID     string   `json:"assignee_id,omitempty"`
	ReporterID     string   `json:"reporter_id"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	LabelIDs       []string `json:"label_ids,omitempty"`
	Created        string   `json:"created_at,omitempty"`
	Updated        string   `json:"updated_at,omitempty"`
}

// ParsedTicket is a candidate issue extracted from a meeting summary. It is
// transient: review it, then promote it with a board and reporter.
type ParsedTicket struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
}

// ToIssueRequest promotes a parsed ticket by supplying the two fields the
// parser cannot know
func (t *ParsedTicket) ToIssueRequest(boardID, reporterID string) *IssueRequest {
	return &IssueRequest{
		BoardID:     boardID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ReporterID:  reporterID,
	}
}
