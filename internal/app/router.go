package app

import (
	"encoding/json"
	"sync"

	"github.com/mm-mmFrank/TheAudioApp/internal/core"
	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

// Server→client event names.
const (
	EventParticipantsUpdated   = "participants-updated"
	EventRecordingStateChanged = "recording-state-changed"
	EventMusicStateChanged     = "music-state-changed"
	EventError                 = "error"
)

// SignalEnvelope is a signaling message relayed verbatim. Payload bodies
// are opaque; only the addressing tags are read by the server, and only to
// copy them back out.
type SignalEnvelope struct {
	FromParticipantID domain.ParticipantID `json:"fromParticipantId"`
	ToParticipantID   domain.ParticipantID `json:"toParticipantId"`
	Payload           json.RawMessage      `json:"payload"`
}

type binding struct {
	SessionID     domain.SessionID
	ParticipantID domain.ParticipantID
}

// EventRouter is the per-connection dispatcher. It owns every mutation of
// the store, registry and cache, and serializes each session's event
// handling under a per-session lock so members observe broadcasts in
// processing order.
type EventRouter struct {
	Store    *SessionStore
	Registry *ParticipantRegistry
	Cache    *StateCache
	Hub      *core.Hub

	mu    sync.Mutex
	locks map[domain.SessionID]*sync.Mutex
	binds map[core.ConnID]binding
}

func NewEventRouter(store *SessionStore, registry *ParticipantRegistry, cache *StateCache, hub *core.Hub) *EventRouter {
	return &EventRouter{
		Store:    store,
		Registry: registry,
		Cache:    cache,
		Hub:      hub,
		locks:    make(map[domain.SessionID]*sync.Mutex),
		binds:    make(map[core.ConnID]binding),
	}
}

func (r *EventRouter) sessionLock(sid domain.SessionID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sid]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sid] = l
	}
	return l
}

func (r *EventRouter) dropSessionLock(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, sid)
}

func (r *EventRouter) bindingOf(cid core.ConnID) (binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.binds[cid]
	return b, ok
}

// CreateSession builds the session record, stores it and seeds the
// transient-state cache with zero-value defaults.
func (r *EventRouter) CreateSession(name, hostName string) (*domain.Session, error) {
	sess, err := domain.NewSession(name, hostName)
	if err != nil {
		return nil, err
	}
	if err := r.Store.Create(sess); err != nil {
		return nil, err
	}
	r.Cache.Init(sess.ID)
	liveSessions.Set(float64(r.Store.Count()))
	return sess, nil
}

// Session exposes store reads for the REST surface.
func (r *EventRouter) Session(id domain.SessionID) (domain.Session, bool) {
	return r.Store.Get(id)
}

// Join transitions the connection from unjoined to joined. The target
// session must exist; otherwise ErrSessionNotFound is returned and the
// connection stays unjoined and usable.
func (r *EventRouter) Join(cid core.ConnID, conn core.SignalConnection, sid domain.SessionID, pid domain.ParticipantID, name string, isHost bool) error {
	if _, ok := r.Store.Get(sid); !ok {
		return ErrSessionNotFound
	}

	// A connection re-joining from another session leaves it first.
	if prev, ok := r.bindingOf(cid); ok && prev.SessionID != sid {
		r.detach(cid, prev)
	}

	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	p := domain.NewParticipant(pid, name, isHost)
	if r.Registry.Add(sid, p) {
		liveParticipants.Inc()
	}
	r.Hub.Add(sid, cid, conn)

	r.mu.Lock()
	r.binds[cid] = binding{SessionID: sid, ParticipantID: pid}
	r.mu.Unlock()

	eventsTotal.WithLabelValues("join").Inc()
	r.broadcastRoster(sid)

	// Late joiners get the current transient state unicast so they see an
	// up-to-date picture without re-deriving it from history. A join after
	// eviction re-seeds the entry with zero-value defaults.
	state, ok := r.Cache.Get(sid)
	if !ok {
		r.Cache.Init(sid)
		state = domain.DefaultSessionState()
	}
	r.unicast(conn, stateEvent{Type: EventRecordingStateChanged, State: state.Recording})
	r.unicast(conn, stateEvent{Type: EventMusicStateChanged, State: state.Music})

	log.Info().Str("module", "app.router").Str("session", string(sid)).Str("participant", string(pid)).Str("name", name).Bool("is_host", isHost).Msg("participant joined")
	return nil
}

// AudioLevel overwrites the participant's level and speaking fields and
// rebroadcasts the roster. Hot path: invoked many times per second.
func (r *EventRouter) AudioLevel(cid core.ConnID, sid domain.SessionID, pid domain.ParticipantID, level float64, isSpeaking bool) {
	if !r.joined(cid) {
		return
	}
	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	if !r.Registry.Update(sid, pid, ParticipantUpdate{AudioLevel: &level, IsSpeaking: &isSpeaking}) {
		log.Warn().Str("module", "app.router").Str("session", string(sid)).Str("participant", string(pid)).Msg("audio-level for unknown participant")
	}
	eventsTotal.WithLabelValues("audio-level").Inc()
	r.broadcastRoster(sid)
}

func (r *EventRouter) MuteToggle(cid core.ConnID, sid domain.SessionID, pid domain.ParticipantID, isMuted bool) {
	if !r.joined(cid) {
		return
	}
	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	if !r.Registry.Update(sid, pid, ParticipantUpdate{IsMuted: &isMuted}) {
		log.Warn().Str("module", "app.router").Str("session", string(sid)).Str("participant", string(pid)).Msg("mute-toggle for unknown participant")
	}
	eventsTotal.WithLabelValues("mute-toggle").Inc()
	r.broadcastRoster(sid)
}

// RecordingStateChange replaces the session's recording state wholesale
// with the caller-supplied value and broadcasts it alone. The server trusts
// the acting client's timing fields. The record's summary flags are kept in
// sync as a side effect.
func (r *EventRouter) RecordingStateChange(cid core.ConnID, sid domain.SessionID, state domain.RecordingState) {
	if !r.joined(cid) {
		return
	}
	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	r.Cache.SetRecording(sid, state)
	if _, err := r.Store.Update(sid, SessionUpdate{IsRecording: &state.IsRecording, IsPaused: &state.IsPaused}); err != nil {
		log.Warn().Str("module", "app.router").Str("session", string(sid)).Msg("recording-state-change for unknown session record")
	}
	eventsTotal.WithLabelValues("recording-state-change").Inc()
	r.broadcast(sid, stateEvent{Type: EventRecordingStateChanged, State: state})
}

func (r *EventRouter) MusicStateChange(cid core.ConnID, sid domain.SessionID, state domain.MusicPlayerState) {
	if !r.joined(cid) {
		return
	}
	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	r.Cache.SetMusic(sid, state)
	eventsTotal.WithLabelValues("music-state-change").Inc()
	r.broadcast(sid, stateEvent{Type: EventMusicStateChanged, State: state})
}

// Relay re-emits a signaling envelope to every connection of the session,
// sender included. No server-side recipient targeting: clients self-filter
// by toParticipantId.
func (r *EventRouter) Relay(cid core.ConnID, event string, sid domain.SessionID, env SignalEnvelope) {
	if !r.joined(cid) {
		return
	}
	l := r.sessionLock(sid)
	l.Lock()
	defer l.Unlock()

	eventsTotal.WithLabelValues(event).Inc()
	r.broadcast(sid, relayEvent{Type: event, SignalEnvelope: env})
	log.Debug().Str("module", "app.router").Str("event", event).Str("session", string(sid)).Str("from", string(env.FromParticipantID)).Str("to", string(env.ToParticipantID)).Msg("signal relayed")
}

// Disconnect is the implicit event from transport closure. Unconditional:
// always runs the cleanup path for joined connections.
func (r *EventRouter) Disconnect(cid core.ConnID) {
	b, ok := r.bindingOf(cid)
	if !ok {
		return
	}
	r.detach(cid, b)
	r.mu.Lock()
	delete(r.binds, cid)
	r.mu.Unlock()
	log.Info().Str("module", "app.router").Str("session", string(b.SessionID)).Str("participant", string(b.ParticipantID)).Msg("participant disconnected")
}

// detach removes the connection's membership, rebroadcasts the roster and
// evicts the session's transient state once the roster is empty. The
// session record itself is kept.
func (r *EventRouter) detach(cid core.ConnID, b binding) {
	l := r.sessionLock(b.SessionID)
	l.Lock()
	defer l.Unlock()

	r.Hub.Remove(b.SessionID, cid)
	if r.Registry.Remove(b.SessionID, b.ParticipantID) {
		liveParticipants.Dec()
	}
	r.broadcastRoster(b.SessionID)

	if r.Registry.Count(b.SessionID) == 0 {
		r.Cache.Evict(b.SessionID)
		r.dropSessionLock(b.SessionID)
	}
}

func (r *EventRouter) joined(cid core.ConnID) bool {
	_, ok := r.bindingOf(cid)
	if !ok {
		log.Warn().Str("module", "app.router").Str("conn", string(cid)).Msg("event from unjoined connection dropped")
	}
	return ok
}

type rosterEvent struct {
	Type         string               `json:"type"`
	Participants []domain.Participant `json:"participants"`
}

type stateEvent struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

type relayEvent struct {
	Type string `json:"type"`
	SignalEnvelope
}

func (r *EventRouter) broadcastRoster(sid domain.SessionID) {
	r.broadcast(sid, rosterEvent{
		Type:         EventParticipantsUpdated,
		Participants: r.Registry.Snapshot(sid),
	})
}

// broadcast marshals once per event and fans the frame out to the session.
func (r *EventRouter) broadcast(sid domain.SessionID, v any) {
	f, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("broadcast marshal")
		return
	}
	r.Hub.Broadcast(sid, core.Frame(f))
}

func (r *EventRouter) unicast(conn core.SignalConnection, v any) {
	f, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("unicast marshal")
		return
	}
	_ = conn.TrySend(core.Frame(f))
}
