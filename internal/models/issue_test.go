package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want Priority
	}{
		{"urgent", PriorityUrgent},
		{"HIGH", PriorityHigh},
		{" medium ", PriorityMedium},
		{"Low", PriorityLow},
		{"none", PriorityNone},
		{"", PriorityMedium},
		{"critical", PriorityMedium},
		{"p1", PriorityMedium},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePriority(tc.raw), "raw=%q", tc.raw)
	}
}

func TestToIssueRequest(t *testing.T) {
	ticket := ParsedTicket{
		Title:       "Fix login redirect",
		Description: "Users land on a blank page",
		Priority:    PriorityHigh,
		Status:      StatusBacklog,
	}

	req := ticket.ToIssueRequest("board-1", "user-9")

	assert.Equal(t, "board-1", req.BoardID)
	assert.Equal(t, "user-9", req.ReporterID)
	assert.Equal(t, ticket.Title, req.Title)
	assert.Equal(t, ticket.Description, req.Description)
	assert.Equal(t, PriorityHigh, req.Priority)
	assert.Equal(t, StatusBacklog, req.Status)
}
