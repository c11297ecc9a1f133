package app

import (
	"errors"
	"sync"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionUpdate carries the fields an update may change; nil means
// "leave the prior value".
type SessionUpdate struct {
	Name        *string
	IsRecording *bool
	IsPaused    *bool
}

// SessionStore is the authoritative in-memory mapping of session records.
// Pure data access, no broadcast logic.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domain.SessionID]*domain.Session)}
}

func (s *SessionStore) Create(sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[sess.ID] = sess
	log.Info().Str("module", "app.store").Str("session", string(sess.ID)).Str("name", sess.Name).Msg("session created")
	return nil
}

// Get returns a copy of the record so callers never alias store-owned state.
func (s *SessionStore) Get(id domain.SessionID) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return *sess, true
}

func (s *SessionStore) Update(id domain.SessionID, upd SessionUpdate) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	if upd.Name != nil {
		sess.Name = *upd.Name
	}
	if upd.IsRecording != nil {
		sess.IsRecording = *upd.IsRecording
	}
	if upd.IsPaused != nil {
		sess.IsPaused = *upd.IsPaused
	}
	return *sess, nil
}

func (s *SessionStore) Delete(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	log.Info().Str("module", "app.store").Str("session", string(id)).Msg("session deleted")
	return true
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
