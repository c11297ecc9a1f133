package domain

// SpotifyTrack is an immutable value sourced from the music-search API.
type SpotifyTrack struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	AlbumArt   string  `json:"albumArt"`
	DurationMs int64   `json:"durationMs"`
	PreviewURL *string `json:"previewUrl"`
}

// RecordingState is shared last-writer-wins state. The server stores and
// relays client-computed values; it never derives elapsed time itself.
// StartTime is a unix-millis instant, nil while not actively counting.
type RecordingState struct {
	IsRecording bool   `json:"isRecording"`
	IsPaused    bool   `json:"isPaused"`
	StartTime   *int64 `json:"startTime"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

type MusicPlayerState struct {
	CurrentTrack *SpotifyTrack `json:"currentTrack"`
	IsPlaying    bool          `json:"isPlaying"`
	Progress     float64       `json:"progress"`
	Volume       float64       `json:"volume"`
}

// SessionState pairs the transient sub-states that exist only while a
// session has at least one participant.
type SessionState struct {
	Recording RecordingState   `json:"recording"`
	Music     MusicPlayerState `json:"music"`
}

func DefaultRecordingState() RecordingState {
	return RecordingState{}
}

func DefaultMusicState() MusicPlayerState {
	return MusicPlayerState{Volume: 0.7}
}

func DefaultSessionState() SessionState {
	return SessionState{
		Recording: DefaultRecordingState(),
		Music:     DefaultMusicState(),
	}
}
