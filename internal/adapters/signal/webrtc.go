package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/app"
	"github.com/mm-mmFrank/TheAudioApp/internal/core"
	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

// handleSignalRelay forwards offer/answer/candidate envelopes untouched.
// Payload bodies are never parsed; messages missing required addressing
// fields are dropped without closing the connection.
func (ctl *Controller) handleSignalRelay(cid core.ConnID, event string, data []byte) {
	var p struct {
		Type              string          `json:"type"`
		SessionID         string          `json:"sessionId"`
		FromParticipantID string          `json:"fromParticipantId"`
		ToParticipantID   string          `json:"toParticipantId"`
		Payload           json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("event", event).Msg("bad signaling payload")
		return
	}
	if p.SessionID == "" || p.FromParticipantID == "" || p.ToParticipantID == "" || len(p.Payload) == 0 {
		log.Debug().Str("module", "signal").Str("event", event).Msg("signaling message missing fields, dropped")
		return
	}

	ctl.Router.Relay(cid, event, domain.SessionID(p.SessionID), app.SignalEnvelope{
		FromParticipantID: domain.ParticipantID(p.FromParticipantID),
		ToParticipantID:   domain.ParticipantID(p.ToParticipantID),
		Payload:           p.Payload,
	})
}
