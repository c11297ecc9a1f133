package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

type wsEvent struct {
	Type              string               `json:"type"`
	Message           string               `json:"message"`
	Participants      []domain.Participant `json:"participants"`
	State             json.RawMessage      `json:"state"`
	FromParticipantID string               `json:"fromParticipantId"`
	ToParticipantID   string               `json:"toParticipantId"`
	Payload           json.RawMessage      `json:"payload"`
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", u, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e wsEvent
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("bad event %s: %v", data, err)
	}
	return e
}

func sendEvent(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWSJoinFlow(t *testing.T) {
	r, router := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess, err := router.CreateSession("My Show", "Alice")
	if err != nil {
		t.Fatal(err)
	}

	alice := dialWS(t, srv)
	sendEvent(t, alice, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pa", "name": "Alice", "isHost": true,
	})

	// Join answers with the roster, then the transient-state pair.
	roster := readEvent(t, alice)
	if roster.Type != "participants-updated" || len(roster.Participants) != 1 {
		t.Fatalf("first event: %+v", roster)
	}
	if rec := readEvent(t, alice); rec.Type != "recording-state-changed" {
		t.Fatalf("second event: %+v", rec)
	}
	if music := readEvent(t, alice); music.Type != "music-state-changed" {
		t.Fatalf("third event: %+v", music)
	}

	bob := dialWS(t, srv)
	sendEvent(t, bob, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pb", "name": "Bob", "isHost": false,
	})

	// Both connections observe the two-member roster.
	roster = readEvent(t, alice)
	if roster.Type != "participants-updated" || len(roster.Participants) != 2 {
		t.Fatalf("alice roster update: %+v", roster)
	}
	if roster.Participants[0].Name != "Alice" || roster.Participants[1].Name != "Bob" {
		t.Errorf("roster order: %+v", roster.Participants)
	}
	roster = readEvent(t, bob)
	if roster.Type != "participants-updated" || len(roster.Participants) != 2 {
		t.Fatalf("bob roster: %+v", roster)
	}
}

func TestWSJoinUnknownSessionKeepsConnectionUsable(t *testing.T) {
	r, router := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv)
	sendEvent(t, conn, map[string]any{
		"type": "join", "sessionId": "nope1234",
		"participantId": "p1", "name": "Alice", "isHost": true,
	})

	e := readEvent(t, conn)
	if e.Type != "error" || e.Message != "Session not found" {
		t.Fatalf("error event: %+v", e)
	}

	sess, _ := router.CreateSession("My Show", "Alice")
	sendEvent(t, conn, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "p1", "name": "Alice", "isHost": true,
	})
	if e := readEvent(t, conn); e.Type != "participants-updated" {
		t.Fatalf("recovery join: %+v", e)
	}
}

func TestWSSignalingRelay(t *testing.T) {
	r, router := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess, _ := router.CreateSession("My Show", "Alice")

	alice := dialWS(t, srv)
	sendEvent(t, alice, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pa", "name": "Alice", "isHost": true,
	})
	for i := 0; i < 3; i++ {
		readEvent(t, alice)
	}

	bob := dialWS(t, srv)
	sendEvent(t, bob, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pb", "name": "Bob", "isHost": false,
	})
	readEvent(t, alice) // roster update
	for i := 0; i < 3; i++ {
		readEvent(t, bob)
	}

	sendEvent(t, alice, map[string]any{
		"type": "webrtc-offer", "sessionId": string(sess.ID),
		"fromParticipantId": "pa", "toParticipantId": "pb",
		"payload": map[string]any{"sdp": "v=0 fake"},
	})

	// The relay targets nobody: both ends receive the envelope.
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		e := readEvent(t, conn)
		if e.Type != "webrtc-offer" {
			t.Fatalf("%s got %+v", name, e)
		}
		if e.FromParticipantID != "pa" || e.ToParticipantID != "pb" {
			t.Errorf("%s addressing: %+v", name, e)
		}
		if !strings.Contains(string(e.Payload), "v=0 fake") {
			t.Errorf("%s payload: %s", name, e.Payload)
		}
	}

	// Malformed signaling (missing recipient) is dropped silently.
	sendEvent(t, alice, map[string]any{
		"type": "webrtc-answer", "sessionId": string(sess.ID),
		"fromParticipantId": "pa",
		"payload":           map[string]any{"sdp": "x"},
	})
	sendEvent(t, alice, map[string]any{
		"type": "mute-toggle", "sessionId": string(sess.ID),
		"participantId": "pa", "isMuted": true,
	})
	e := readEvent(t, alice)
	if e.Type != "participants-updated" {
		t.Fatalf("dropped message leaked: %+v", e)
	}
	if !e.Participants[0].IsMuted {
		t.Error("mute-toggle not applied")
	}
}

func TestWSDisconnectCleansUp(t *testing.T) {
	r, router := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess, _ := router.CreateSession("My Show", "Alice")

	alice := dialWS(t, srv)
	sendEvent(t, alice, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pa", "name": "Alice", "isHost": true,
	})
	for i := 0; i < 3; i++ {
		readEvent(t, alice)
	}

	bob := dialWS(t, srv)
	sendEvent(t, bob, map[string]any{
		"type": "join", "sessionId": string(sess.ID),
		"participantId": "pb", "name": "Bob", "isHost": false,
	})
	readEvent(t, alice)

	bob.Close()

	roster := readEvent(t, alice)
	if roster.Type != "participants-updated" || len(roster.Participants) != 1 {
		t.Fatalf("roster after disconnect: %+v", roster)
	}
	if roster.Participants[0].Name != "Alice" {
		t.Errorf("wrong participant removed: %+v", roster.Participants)
	}
}
