package domain

type ParticipantID string

type ConnectionQuality string

const (
	QualityGood ConnectionQuality = "good"
	QualityFair ConnectionQuality = "fair"
	QualityPoor ConnectionQuality = "poor"
)

// Participant is one connected user inside a session. The id is
// client-generated and unique within the session only.
type Participant struct {
	ID                ParticipantID     `json:"id"`
	Name              string            `json:"name"`
	IsHost            bool              `json:"isHost"`
	IsMuted           bool              `json:"isMuted"`
	IsSpeaking        bool              `json:"isSpeaking"`
	AudioLevel        float64           `json:"audioLevel"`
	ConnectionQuality ConnectionQuality `json:"connectionQuality"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(id ParticipantID, name string, isHost bool) *Participant {
	return &Participant{
		ID:                id,
		Name:              name,
		IsHost:            isHost,
		ConnectionQuality: QualityGood,
	}
}
