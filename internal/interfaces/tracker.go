package interfaces

import (
	"ett-connector/internal/models"
)

// KeyValueStore is the storage capability injected into the session store.
// The bbolt implementation backs interactive use; the memory implementation
// stands in for headless contexts and tests.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// SessionStore owns the single active session/config record and its
// persisted copy
type SessionStore interface {
	// Configure replaces the active record and persists it
	Configure(record *models.SessionRecord) error
	// Clear removes the active record and its persisted copy, idempotently
	Clear() error
	// IsAuthenticated reports whether an active record carries both a base
	// URL and a non-empty credential
	IsAuthenticated() bool
	// Current returns a copy of the active record, or nil when logged out.
	// For use by the remote client only; callers get State.
	Current() *models.SessionRecord
	// State returns the redacted projection of the active record
	State() models.SessionState
}

// TrackerService is the caller-facing surface of the connector. UI and CLI
// layers call these operations and render the results.
type TrackerService interface {
	Login(email, password string) models.LoginResult
	Configure(apiURL, accessToken string) error
	Logout() error
	State() models.SessionState

	TestConnection() models.ConnectionResult
	GetBoards() ([]models.Board, error)
	GetTeamMembers() ([]models.TeamMember, error)
	GetLabels(boardID string) ([]models.Label, error)
	CreateIssue(req *models.IssueRequest) (*models.Issue, error)
	// CreateIssues submits requests one at a time, in input order. The first
	// failure aborts the remainder; the returned slice holds the issues
	// committed before the failure.
	CreateIssues(reqs []*models.IssueRequest) ([]*models.Issue, error)
}
