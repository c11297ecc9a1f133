package core

import (
	"errors"
	"testing"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

type stubConn struct {
	frames []Frame
	fail   bool
}

func (s *stubConn) TrySend(f Frame) error {
	if s.fail {
		return errors.New("backpressure")
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *stubConn) Close() {}

const sid = domain.SessionID("abc12345")

func TestHubBroadcastIncludesSender(t *testing.T) {
	hub := NewHub()
	a, b := &stubConn{}, &stubConn{}
	hub.Add(sid, "c1", a)
	hub.Add(sid, "c2", b)

	res := hub.Broadcast(sid, Frame(`{"type":"x"}`))
	if res.SentTo != 2 || res.Dropped != 0 {
		t.Errorf("result %+v, want 2 sent", res)
	}
	if len(a.frames) != 1 || len(b.frames) != 1 {
		t.Error("not every connection received the frame")
	}
}

func TestHubBroadcastCountsDropped(t *testing.T) {
	hub := NewHub()
	ok, slow := &stubConn{}, &stubConn{fail: true}
	hub.Add(sid, "c1", ok)
	hub.Add(sid, "c2", slow)

	res := hub.Broadcast(sid, Frame("{}"))
	if res.SentTo != 1 || res.Dropped != 1 {
		t.Errorf("result %+v, want 1 sent / 1 dropped", res)
	}
}

func TestHubSessionsAreIsolated(t *testing.T) {
	hub := NewHub()
	a, b := &stubConn{}, &stubConn{}
	hub.Add(sid, "c1", a)
	hub.Add("other999", "c2", b)

	hub.Broadcast(sid, Frame("{}"))
	if len(b.frames) != 0 {
		t.Error("frame leaked into another session")
	}
}

func TestHubRemove(t *testing.T) {
	hub := NewHub()
	a := &stubConn{}
	hub.Add(sid, "c1", a)
	hub.Remove(sid, "c1")

	if hub.ConnCount(sid) != 0 {
		t.Error("conn count not zero after remove")
	}
	hub.Broadcast(sid, Frame("{}"))
	if len(a.frames) != 0 {
		t.Error("removed connection still receives frames")
	}

	// Removing from an unknown session must be a no-op.
	hub.Remove("missing", "c1")
}
