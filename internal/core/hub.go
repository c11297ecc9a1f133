package core

import (
	"sync"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats/backpressure to the router.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// Hub keeps the per-session broadcast groups. It owns connection membership
// but never touches adapter-owned transport resources.
type Hub struct {
	mu     sync.RWMutex
	groups map[domain.SessionID]map[ConnID]SignalConnection
}

func NewHub() *Hub {
	return &Hub{groups: make(map[domain.SessionID]map[ConnID]SignalConnection)}
}

func (h *Hub) Add(sid domain.SessionID, cid ConnID, conn SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[sid]
	if !ok {
		group = make(map[ConnID]SignalConnection)
		h.groups[sid] = group
	}
	group[cid] = conn
	log.Debug().Str("module", "core.hub").Str("session", string(sid)).Str("conn", string(cid)).Msg("conn added")
}

func (h *Hub) Remove(sid domain.SessionID, cid ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[sid]
	if !ok {
		return
	}
	delete(group, cid)
	if len(group) == 0 {
		delete(h.groups, sid)
	}
	log.Debug().Str("module", "core.hub").Str("session", string(sid)).Str("conn", string(cid)).Msg("conn removed")
}

// Broadcast fans a frame out to every connection of the session, sender
// included. Slow consumers get the frame dropped rather than stalling the
// session's event stream.
func (h *Hub) Broadcast(sid domain.SessionID, f Frame) PublishResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	res := PublishResult{}
	for _, conn := range h.groups[sid] {
		if err := conn.TrySend(f); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.hub").Str("session", string(sid)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("broadcast result")
	return res
}

func (h *Hub) ConnCount(sid domain.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[sid])
}
