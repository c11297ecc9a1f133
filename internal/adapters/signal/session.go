package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/app"
	"github.com/mm-mmFrank/TheAudioApp/internal/core"
	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

func (ctl *Controller) handleJoin(cid core.ConnID, conn *WsConn, data []byte) {
	var p struct {
		Type          string `json:"type"`
		SessionID     string `json:"sessionId"`
		ParticipantID string `json:"participantId"`
		Name          string `json:"name"`
		IsHost        bool   `json:"isHost"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	if p.SessionID == "" || p.ParticipantID == "" {
		log.Warn().Str("module", "signal").Msg("join missing required fields")
		return
	}

	err := ctl.Router.Join(cid, conn,
		domain.SessionID(p.SessionID),
		domain.ParticipantID(p.ParticipantID),
		p.Name, p.IsHost,
	)
	if errors.Is(err, app.ErrSessionNotFound) {
		// Connection-scoped error; the connection stays open and a later
		// join may still succeed.
		ctl.sendJSON(conn, map[string]any{
			"type":    app.EventError,
			"message": "Session not found",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("session", p.SessionID).Msg("join failed")
	}
}

func (ctl *Controller) handleAudioLevel(cid core.ConnID, data []byte) {
	var p struct {
		Type          string  `json:"type"`
		SessionID     string  `json:"sessionId"`
		ParticipantID string  `json:"participantId"`
		Level         float64 `json:"level"`
		IsSpeaking    bool    `json:"isSpeaking"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad audio-level payload")
		return
	}
	if p.SessionID == "" || p.ParticipantID == "" {
		return
	}
	ctl.Router.AudioLevel(cid, domain.SessionID(p.SessionID), domain.ParticipantID(p.ParticipantID), p.Level, p.IsSpeaking)
}

func (ctl *Controller) handleMuteToggle(cid core.ConnID, data []byte) {
	var p struct {
		Type          string `json:"type"`
		SessionID     string `json:"sessionId"`
		ParticipantID string `json:"participantId"`
		IsMuted       bool   `json:"isMuted"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad mute-toggle payload")
		return
	}
	if p.SessionID == "" || p.ParticipantID == "" {
		return
	}
	ctl.Router.MuteToggle(cid, domain.SessionID(p.SessionID), domain.ParticipantID(p.ParticipantID), p.IsMuted)
}
