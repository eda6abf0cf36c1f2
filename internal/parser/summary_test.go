package parser

import (
	"testing"

	"ett-connector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketsFromSummary(t *testing.T) {
	summary := `# Weekly Sync

Some discussion notes.

## Suggested Tickets

| Title | Description | Priority |
|-------|-------------|----------|
| Fix login redirect | Users land on a blank page after SSO | high |
| **Update onboarding docs** | Screenshots are stale | LOW |
| Investigate flaky deploy | Pipeline fails intermittently | Critical |

## Action Items

- follow up with design
`

	tickets := ParseTicketsFromSummary(summary)
	require.Len(t, tickets, 3)

	assert.Equal(t, "Fix login redirect", tickets[0].Title)
	assert.Equal(t, "Users land on a blank page after SSO", tickets[0].Description)
	assert.Equal(t, models.PriorityHigh, tickets[0].Priority)
	assert.Equal(t, models.StatusBacklog, tickets[0].Status)

	// Bold markers around the title are tolerated
	assert.Equal(t, "Update onboarding docs", tickets[1].Title)
	assert.Equal(t, models.PriorityLow, tickets[1].Priority)

	// Unrecognized priority falls back to medium
	assert.Equal(t, models.PriorityMedium, tickets[2].Priority)
}

func TestParsePreservesRowOrder(t *testing.T) {
	summary := `## Suggested Tickets

| Title | Description | Priority |
|---|---|---|
| First | a | urgent |
| Second | b | high |
| Third | c | none |
`

	tickets := ParseTicketsFromSummary(summary)
	require.Len(t, tickets, 3)
	assert.Equal(t, "First", tickets[0].Title)
	assert.Equal(t, "Second", tickets[1].Title)
	assert.Equal(t, "Third", tickets[2].Title)
	assert.Equal(t, models.PriorityNone, tickets[2].Priority)
}

func TestParseWithoutSectionReturnsEmpty(t *testing.T) {
	assert.Empty(t, ParseTicketsFromSummary(""))
	assert.Empty(t, ParseTicketsFromSummary("just some prose, no headings"))

	summary := `## Action Items

| Title | Description | Priority |
|---|---|---|
| Not a ticket | wrong section | high |
`
	assert.Empty(t, ParseTicketsFromSummary(summary))
}

func TestParseHeadingIsCaseInsensitive(t *testing.T) {
	summary := `## suggested tickets

| Title | Description | Priority |
|---|---|---|
| Lowercase heading works | d | medium |
`

	tickets := ParseTicketsFromSummary(summary)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Lowercase heading works", tickets[0].Title)
}

func TestParseSectionEndsAtNextHeading(t *testing.T) {
	summary := `## Suggested Tickets

| Title | Description | Priority |
|---|---|---|
| Inside | yes | high |

## Decisions

| Title | Description | Priority |
|---|---|---|
| Outside | no | high |
`

	tickets := ParseTicketsFromSummary(summary)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Inside", tickets[0].Title)
}

func TestParseSkipsHeaderAndDashRows(t *testing.T) {
	summary := `## Suggested Tickets

| Title | Description | Priority |
|---|---|---|
| Title | repeated header row | high |
| --- | --- | --- |
| Real ticket | kept | low |
|  | empty title | high |
`

	tickets := ParseTicketsFromSummary(summary)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Real ticket", tickets[0].Title)
	assert.Equal(t, models.PriorityLow, tickets[0].Priority)
}
