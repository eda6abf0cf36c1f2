package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "ett-connector/internal/common"
	. "ett-connector/internal/interfaces"
	"ett-connector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.Handler) (TrackerService, SessionStore, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := NewSessionStore(NewMemoryStore(), testLogger())
	service := NewTrackerService(&TrackerConfig{BaseURL: server.URL, Timeout: 5}, sessions, testLogger())
	return service, sessions, server
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func TestLoginStoresSession(t *testing.T) {
	service, sessions, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "ana@example.com", creds["email"])

		writeEnvelope(w, map[string]interface{}{
			"token": "tok-123",
			"user":  map[string]string{"id": "u1", "name": "Ana", "email": "ana@example.com"},
		})
	}))

	result := service.Login("ana@example.com", "hunter2")
	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.User)
	assert.Equal(t, "Ana", result.User.Name)

	assert.True(t, sessions.IsAuthenticated())

	state := service.State()
	assert.True(t, state.Authenticated)
	encoded, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "tok-123")
}

func TestLoginRejectedReportsMessage(t *testing.T) {
	service, sessions, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	}))

	result := service.Login("ana@example.com", "wrong")
	assert.False(t, result.Success)
	assert.Equal(t, "invalid credentials", result.Message)
	assert.False(t, sessions.IsAuthenticated())
}

func TestGetBoards(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/issue-tracker/boards", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		writeEnvelope(w, []models.Board{
			{ID: "b1", Name: "Platform", Type: models.BoardTypeTeam},
			{ID: "b2", Name: "Personal", Type: models.BoardTypePersonal},
		})
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	boards, err := service.GetBoards()
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "Platform", boards[0].Name)
	assert.Equal(t, models.BoardTypePersonal, boards[1].Type)
}

func TestGetLabels(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/issue-tracker/boards/b1/labels", r.URL.Path)
		writeEnvelope(w, []models.Label{{ID: "l1", BoardID: "b1", Name: "bug", Color: "#ff0000"}})
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	labels, err := service.GetLabels("b1")
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "bug", labels[0].Name)

	_, err = service.GetLabels("")
	assert.True(t, IsErrorType(err, ErrorTypeValidation))
}

func TestRemoteErrorTranslation(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "database unavailable")
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	_, err := service.GetBoards()
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeRemote))
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestEnvelopeFailureIsError(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "board not visible"}`))
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	_, err := service.GetBoards()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board not visible")
}

func TestUnauthorizedClearsSession(t *testing.T) {
	service, sessions, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "token expired")
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))
	require.True(t, sessions.IsAuthenticated())

	_, err := service.GetBoards()
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeAuth))
	assert.Contains(t, err.Error(), "token expired")

	// The bad credential is gone, locally and from the persisted copy
	assert.False(t, sessions.IsAuthenticated())
	assert.False(t, service.State().Authenticated)
}

func TestFailsFastWithoutConfiguration(t *testing.T) {
	requests := 0
	service, _, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, err := service.GetBoards()
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeConfiguration))
	assert.Zero(t, requests, "no request may be dispatched without a session")

	// An empty base URL is configuration, not a network problem
	require.NoError(t, service.Configure("", "some-token"))
	_, err = service.GetTeamMembers()
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeConfiguration))
	assert.Zero(t, requests)
}

func TestCreateIssue(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/issue-tracker/issues", r.URL.Path)

		var req models.IssueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		writeEnvelope(w, models.Issue{
			ID:         "i-1",
			BoardID:    req.BoardID,
			Title:      req.Title,
			Status:     req.Status,
			Priority:   req.Priority,
			ReporterID: req.ReporterID,
		})
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	issue, err := service.CreateIssue(&models.IssueRequest{
		BoardID:    "b1",
		Title:      "Fix login redirect",
		Status:     models.StatusBacklog,
		Priority:   models.PriorityHigh,
		ReporterID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-1", issue.ID)
	assert.Equal(t, "Fix login redirect", issue.Title)
}

func TestCreateIssueRequiresBoardAndReporter(t *testing.T) {
	requests := 0
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	_, err := service.CreateIssue(&models.IssueRequest{Title: "no board", ReporterID: "u1"})
	assert.True(t, IsErrorType(err, ErrorTypeValidation))

	_, err = service.CreateIssue(&models.IssueRequest{Title: "no reporter", BoardID: "b1"})
	assert.True(t, IsErrorType(err, ErrorTypeValidation))

	assert.Zero(t, requests)
}

func TestCreateIssuesSequentialAbortOnFailure(t *testing.T) {
	var received []string
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.IssueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = append(received, req.Title)

		if req.Title == "b" {
			writeError(w, http.StatusBadRequest, "title rejected")
			return
		}
		writeEnvelope(w, models.Issue{ID: "id-" + req.Title, Title: req.Title})
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	reqs := []*models.IssueRequest{
		{BoardID: "b1", ReporterID: "u1", Title: "a"},
		{BoardID: "b1", ReporterID: "u1", Title: "b"},
		{BoardID: "b1", ReporterID: "u1", Title: "c"},
	}

	created, err := service.CreateIssues(reqs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title rejected")

	// a committed, b failed, c never attempted
	require.Len(t, created, 1)
	assert.Equal(t, "id-a", created[0].ID)
	assert.Equal(t, []string{"a", "b"}, received)
}

func TestCreateIssuesAllSucceed(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.IssueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeEnvelope(w, models.Issue{ID: "id-" + req.Title, Title: req.Title})
	}))
	require.NoError(t, service.Configure(server.URL, "tok"))

	created, err := service.CreateIssues([]*models.IssueRequest{
		{BoardID: "b1", ReporterID: "u1", Title: "a"},
		{BoardID: "b1", ReporterID: "u1", Title: "b"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "id-a", created[0].ID)
	assert.Equal(t, "id-b", created[1].ID)
}

func TestTestConnection(t *testing.T) {
	service, _, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []models.Board{{ID: "b1", Name: "Platform", Type: models.BoardTypeTeam}})
	}))

	// Not configured: reports rather than raises
	result := service.TestConnection()
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	require.NoError(t, service.Configure(server.URL, "tok"))
	result = service.TestConnection()
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "1 boards")
}

func TestLogoutClearsState(t *testing.T) {
	service, sessions, server := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	require.NoError(t, service.Configure(server.URL, "tok"))
	require.True(t, sessions.IsAuthenticated())

	require.NoError(t, service.Logout())
	assert.False(t, sessions.IsAuthenticated())
	assert.Equal(t, models.SessionState{}, service.State())
}
