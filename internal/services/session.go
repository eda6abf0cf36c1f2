package services

import (
	"encoding/json"
	"sync"
	"time"

	. "ett-connector/internal/common"
	. "ett-connector/internal/interfaces"
	"ett-connector/internal/models"

	"github.com/ternarybob/arbor"
)

// sessionKey is the single fixed key the active record is persisted under
const sessionKey = "session:current"

type sessionStore struct {
	kv      KeyValueStore
	logger  arbor.ILogger
	mu      sync.RWMutex
	current *models.SessionRecord
}

// NewSessionStore creates a session store backed by the given key-value
// store. Loading the persisted record is attempted once here; missing or
// corrupt data is treated as "no session", never as an error.
func NewSessionStore(kv KeyValueStore, logger arbor.ILogger) SessionStore {
	s := &sessionStore{
		kv:     kv,
		logger: logger,
	}
	s.load()
	return s
}

func (s *sessionStore) load() {
	data, err := s.kv.Get(sessionKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read persisted session, starting logged out")
		return
	}
	if len(data) == 0 {
		return
	}

	var record models.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Warn().Err(err).Msg("Persisted session is corrupt, starting logged out")
		return
	}

	s.current = &record
}

func (s *sessionStore) Configure(record *models.SessionRecord) error {
	if record == nil {
		return NewValidationError("nil_record", "session record is required")
	}

	now := time.Now().Format(time.RFC3339)
	if record.Created == "" {
		record.Created = now
	}
	record.Updated = now

	data, err := json.Marshal(record)
	if err != nil {
		return NewInternalError("marshal_failed", "failed to encode session record").WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Put(sessionKey, data); err != nil {
		return err
	}

	copied := *record
	s.current = &copied

	s.logger.Debug().
		Str("api_url", record.APIURL).
		Str("auth_method", string(record.AuthMethod)).
		Msg("Session record replaced")

	return nil
}

func (s *sessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	if err := s.kv.Delete(sessionKey); err != nil {
		return err
	}

	s.logger.Debug().Msg("Session cleared")
	return nil
}

func (s *sessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current != nil && s.current.APIURL != "" && s.current.AccessToken != ""
}

func (s *sessionStore) Current() *models.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// State returns the redacted projection. The raw token is never included.
func (s *sessionStore) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.SessionState{}
	}

	return models.SessionState{
		Authenticated: s.current.APIURL != "" && s.current.AccessToken != "",
		HasToken:      s.current.AccessToken != "",
		APIURL:        s.current.APIURL,
		UserID:        s.current.UserID,
		UserName:      s.current.UserName,
	}
}
