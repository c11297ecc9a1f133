// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	SessionIDLen      = 8
	MaxSessionNameLen = 100
	MaxHostNameLen    = 50
)

var (
	ErrSessionNameEmpty   = errors.New("session name empty")
	ErrSessionNameTooLong = errors.New("session name too long")
	ErrHostNameEmpty      = errors.New("host name empty")
	ErrHostNameTooLong    = errors.New("host name too long")
)

type SessionID string

// Session is the persistent record of a recording room.
// IsRecording/IsPaused are summary flags mirrored from the last
// recording-state event; the authoritative state lives in the cache.
type Session struct {
	ID          SessionID `json:"id"`
	Name        string    `json:"name"`
	HostID      string    `json:"hostId"`
	HostName    string    `json:"hostName"`
	IsRecording bool      `json:"isRecording"`
	IsPaused    bool      `json:"isPaused"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewSession validates names and generates the short session id plus
// the host's participant id.
func NewSession(name, hostName string) (*Session, error) {
	if len(name) == 0 {
		return nil, ErrSessionNameEmpty
	}
	if len(name) > MaxSessionNameLen {
		return nil, ErrSessionNameTooLong
	}
	if len(hostName) == 0 {
		return nil, ErrHostNameEmpty
	}
	if len(hostName) > MaxHostNameLen {
		return nil, ErrHostNameTooLong
	}
	return &Session{
		ID:        SessionID(uuid.NewString()[:SessionIDLen]),
		Name:      name,
		HostID:    uuid.NewString(),
		HostName:  hostName,
		CreatedAt: time.Now(),
	}, nil
}
