package core

// Frame is a marshalled wire payload.
type Frame []byte

// ConnID identifies one live transport connection. It is distinct from the
// participant id, which clients generate themselves at join time.
type ConnID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
