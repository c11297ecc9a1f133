package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/core"
	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

func (ctl *Controller) handleRecordingState(cid core.ConnID, data []byte) {
	var p struct {
		Type      string                `json:"type"`
		SessionID string                `json:"sessionId"`
		State     domain.RecordingState `json:"state"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad recording-state payload")
		return
	}
	if p.SessionID == "" {
		return
	}
	ctl.Router.RecordingStateChange(cid, domain.SessionID(p.SessionID), p.State)
}

func (ctl *Controller) handleMusicState(cid core.ConnID, data []byte) {
	var p struct {
		Type      string                  `json:"type"`
		SessionID string                  `json:"sessionId"`
		State     domain.MusicPlayerState `json:"state"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad music-state payload")
		return
	}
	if p.SessionID == "" {
		return
	}
	ctl.Router.MusicStateChange(cid, domain.SessionID(p.SessionID), p.State)
}
