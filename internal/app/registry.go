package app

import (
	"sync"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

// ParticipantUpdate carries the mutable participant fields; nil means
// "leave the prior value".
type ParticipantUpdate struct {
	IsMuted    *bool
	IsSpeaking *bool
	AudioLevel *float64
	Quality    *domain.ConnectionQuality
}

// ParticipantRegistry keeps the ordered participant list per session.
// Insertion order is the canonical display order. The registry is kept as a
// separate map from the session store and never assumes the two agree.
type ParticipantRegistry struct {
	mu      sync.RWMutex
	members map[domain.SessionID][]*domain.Participant
}

func NewParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{members: make(map[domain.SessionID][]*domain.Participant)}
}

// Add appends the participant, creating the session's list on first use.
// A rejoin with an id already present replaces the old record in place so
// the roster never carries duplicate ids. Reports whether the participant
// was appended rather than replaced.
func (r *ParticipantRegistry) Add(sid domain.SessionID, p *domain.Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.members[sid]
	for i, existing := range list {
		if existing.ID == p.ID {
			list[i] = p
			log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("participant", string(p.ID)).Msg("participant replaced")
			return false
		}
	}
	r.members[sid] = append(list, p)
	log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("participant", string(p.ID)).Str("name", p.Name).Msg("participant added")
	return true
}

// Snapshot returns value copies in join order; callers may hand the slice
// to the transport layer without further locking.
func (r *ParticipantRegistry) Snapshot(sid domain.SessionID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.members[sid]
	out := make([]domain.Participant, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	return out
}

// Update merges the non-nil fields. Linear scan; sessions stay small.
func (r *ParticipantRegistry) Update(sid domain.SessionID, pid domain.ParticipantID, upd ParticipantUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.members[sid] {
		if p.ID != pid {
			continue
		}
		if upd.IsMuted != nil {
			p.IsMuted = *upd.IsMuted
		}
		if upd.IsSpeaking != nil {
			p.IsSpeaking = *upd.IsSpeaking
		}
		if upd.AudioLevel != nil {
			p.AudioLevel = *upd.AudioLevel
		}
		if upd.Quality != nil {
			p.ConnectionQuality = *upd.Quality
		}
		return true
	}
	return false
}

func (r *ParticipantRegistry) Remove(sid domain.SessionID, pid domain.ParticipantID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.members[sid]
	for i, p := range list {
		if p.ID != pid {
			continue
		}
		r.members[sid] = append(list[:i], list[i+1:]...)
		if len(r.members[sid]) == 0 {
			delete(r.members, sid)
		}
		log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("participant", string(pid)).Msg("participant removed")
		return true
	}
	return false
}

func (r *ParticipantRegistry) Count(sid domain.SessionID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[sid])
}

// DropSession removes the whole list, used when a session record is deleted.
func (r *ParticipantRegistry) DropSession(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, sid)
}
