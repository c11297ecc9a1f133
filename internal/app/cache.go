package app

import (
	"sync"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

// StateCache holds the per-session transient state (recording + music).
// Entries are seeded at session creation, replaced wholesale on each
// state-change event, and evicted when the last participant leaves.
type StateCache struct {
	mu     sync.RWMutex
	states map[domain.SessionID]*domain.SessionState
}

func NewStateCache() *StateCache {
	return &StateCache{states: make(map[domain.SessionID]*domain.SessionState)}
}

func (c *StateCache) Init(sid domain.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := domain.DefaultSessionState()
	c.states[sid] = &state
}

// Get returns a value copy of the current transient state.
func (c *StateCache) Get(sid domain.SessionID) (domain.SessionState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, ok := c.states[sid]
	if !ok {
		return domain.SessionState{}, false
	}
	return *state, true
}

// SetRecording replaces the recording sub-state. A missing entry is
// re-seeded with default music state, so a state change that races
// eviction never panics or resurrects stale music state.
func (c *StateCache) SetRecording(sid domain.SessionID, rs domain.RecordingState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[sid]
	if !ok {
		state = &domain.SessionState{Music: domain.DefaultMusicState()}
		c.states[sid] = state
	}
	state.Recording = rs
}

func (c *StateCache) SetMusic(sid domain.SessionID, ms domain.MusicPlayerState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[sid]
	if !ok {
		state = &domain.SessionState{Recording: domain.DefaultRecordingState()}
		c.states[sid] = state
	}
	state.Music = ms
}

func (c *StateCache) Evict(sid domain.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sid)
	log.Info().Str("module", "app.cache").Str("session", string(sid)).Msg("transient state evicted")
}
