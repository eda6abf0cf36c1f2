package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	. "ett-connector/internal/common"
	. "ett-connector/internal/interfaces"
	"ett-connector/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
)

const (
	loginPath       = "/login"
	boardsPath      = "/issue-tracker/boards"
	teamMembersPath = "/issue-tracker/team-members"
	issuesPath      = "/issue-tracker/issues"
)

// apiEnvelope is the response shape of the tracker's list/fetch endpoints
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type trackerService struct {
	rest     *resty.Client
	config   *TrackerConfig
	sessions SessionStore
	logger   arbor.ILogger
}

// NewTrackerService creates the remote client over the given session store.
// The session store is the sole source of the credential used to authorize
// every outbound request.
func NewTrackerService(config *TrackerConfig, sessions SessionStore, logger arbor.ILogger) TrackerService {
	rest := resty.New().
		SetTimeout(time.Duration(config.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &trackerService{
		rest:     rest,
		config:   config,
		sessions: sessions,
		logger:   logger,
	}
}

// Login exchanges credentials for a bearer token and stores the resulting
// session. It reports rather than raises: a rejected login is a false
// Success with the server's message.
func (s *trackerService) Login(email, password string) models.LoginResult {
	baseURL := strings.TrimRight(s.config.BaseURL, "/")
	if baseURL == "" {
		return models.LoginResult{Message: "tracker base URL is not configured"}
	}

	body := map[string]string{"email": email, "password": password}

	resp, err := s.rest.R().SetBody(body).Post(baseURL + loginPath)
	if err != nil {
		return models.LoginResult{Message: fmt.Sprintf("login request failed: %v", err)}
	}

	if !resp.IsSuccess() {
		return models.LoginResult{Message: remoteMessage(resp.Body())}
	}

	var payload struct {
		Token string           `json:"token"`
		User  models.LoginUser `json:"user"`
	}
	if err := decodeEnvelope(resp.Body(), &payload); err != nil {
		return models.LoginResult{Message: err.Error()}
	}
	if payload.Token == "" {
		return models.LoginResult{Message: "login response did not include a token"}
	}

	record := &models.SessionRecord{
		APIURL:      baseURL,
		AccessToken: payload.Token,
		AuthMethod:  models.AuthMethodLogin,
		UserID:      payload.User.ID,
		UserName:    payload.User.Name,
		UserEmail:   payload.User.Email,
	}
	if err := s.sessions.Configure(record); err != nil {
		return models.LoginResult{Message: fmt.Sprintf("failed to store session: %v", err)}
	}

	s.logger.Info().
		Str("user_id", payload.User.ID).
		Msg("Login successful")

	user := payload.User
	return models.LoginResult{
		Success: true,
		Message: fmt.Sprintf("Logged in as %s", user.Name),
		User:    &user,
	}
}

// Configure stores a user-supplied API URL and access token as the active
// session. Values are stored as given; each authorized call checks them
// before any network I/O.
func (s *trackerService) Configure(apiURL, accessToken string) error {
	return s.sessions.Configure(&models.SessionRecord{
		APIURL:      strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		AccessToken: strings.TrimSpace(accessToken),
		AuthMethod:  models.AuthMethodToken,
	})
}

func (s *trackerService) Logout() error {
	return s.sessions.Clear()
}

func (s *trackerService) State() models.SessionState {
	return s.sessions.State()
}

// TestConnection attempts a lightweight read against the board listing. It
// never raises; failures come back as a message.
func (s *trackerService) TestConnection() models.ConnectionResult {
	boards, err := s.GetBoards()
	if err != nil {
		return models.ConnectionResult{Message: err.Error()}
	}
	return models.ConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connection OK, %d boards visible", len(boards)),
	}
}

func (s *trackerService) GetBoards() ([]models.Board, error) {
	var boards []models.Board
	if err := s.doAuthorized(http.MethodGet, boardsPath, nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *trackerService) GetTeamMembers() ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.doAuthorized(http.MethodGet, teamMembersPath, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *trackerService) GetLabels(boardID string) ([]models.Label, error) {
	if boardID == "" {
		return nil, NewValidationError("missing_board", "board id is required")
	}

	var labels []models.Label
	path := fmt.Sprintf("%s/%s/labels", boardsPath, boardID)
	if err := s.doAuthorized(http.MethodGet, path, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *trackerService) CreateIssue(req *models.IssueRequest) (*models.Issue, error) {
	if req == nil {
		return nil, NewValidationError("nil_request", "issue request is required")
	}
	if req.BoardID == "" {
		return nil, NewValidationError("missing_board", "issue request has no board id")
	}
	if req.ReporterID == "" {
		return nil, NewValidationError("missing_reporter", "issue request has no reporter id")
	}

	var issue models.Issue
	if err := s.doAuthorized(http.MethodPost, issuesPath, req, &issue); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("issue_id", issue.ID).
		Str("board_id", req.BoardID).
		Msg("Issue created")

	return &issue, nil
}

// CreateIssues submits requests one at a time, in input order, awaiting each
// before issuing the next. The first failure aborts the remainder; issues
// already created stay committed on the remote side and are returned so the
// caller can inspect the prefix.
func (s *trackerService) CreateIssues(reqs []*models.IssueRequest) ([]*models.Issue, error) {
	created := make([]*models.Issue, 0, len(reqs))

	for i, req := range reqs {
		issue, err := s.CreateIssue(req)
		if err != nil {
			s.logger.Warn().
				Int("created", len(created)).
				Int("total", len(reqs)).
				Err(err).
				Msg("Batch submission aborted")
			return created, fmt.Errorf("issue %d of %d: %w", i+1, len(reqs), err)
		}
		created = append(created, issue)
	}

	return created, nil
}

// requireSession asserts that a base URL and credential are present, failing
// fast before any network call otherwise
func (s *trackerService) requireSession() (*models.SessionRecord, error) {
	record := s.sessions.Current()
	if record == nil || record.APIURL == "" {
		return nil, NewConfigurationError("missing_base_url", "tracker API URL is not configured")
	}
	if record.AccessToken == "" {
		return nil, NewConfigurationError("missing_token", "tracker access token is not configured")
	}
	return record, nil
}

// doAuthorized performs one bearer-authorized request and decodes the
// {success, data} envelope into out. An HTTP 401 clears the active session
// before the error is returned, so the next call starts logged out instead
// of retrying a known-bad credential.
func (s *trackerService) doAuthorized(method, path string, body, out interface{}) error {
	record, err := s.requireSession()
	if err != nil {
		return err
	}

	req := s.rest.R().SetHeader("Authorization", "Bearer "+record.AccessToken)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, strings.TrimRight(record.APIURL, "/")+path)
	if err != nil {
		return NewRemoteError("request_failed", fmt.Sprintf("tracker request %s %s failed", method, path)).WithCause(err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if clearErr := s.sessions.Clear(); clearErr != nil {
			s.logger.Warn().Err(clearErr).Msg("Failed to clear session after auth failure")
		}
		return NewAuthError("unauthorized", remoteMessage(resp.Body()))
	}

	if !resp.IsSuccess() {
		return NewRemoteError(fmt.Sprintf("http_%d", resp.StatusCode()), remoteMessage(resp.Body()))
	}

	return decodeEnvelope(resp.Body(), out)
}

// decodeEnvelope unpacks a {success, data} envelope; any other shape is an
// error
func decodeEnvelope(body []byte, out interface{}) error {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return NewRemoteError("bad_response", "tracker returned an unexpected response shape").WithCause(err)
	}

	if !env.Success {
		message := env.Message
		if message == "" {
			message = "tracker reported failure without a message"
		}
		return NewRemoteError("request_rejected", message)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return NewRemoteError("bad_response", "tracker returned an unexpected data payload").WithCause(err)
	}
	return nil
}

// remoteMessage extracts the message field from an error response, falling
// back to generic text
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "tracker request failed"
}
