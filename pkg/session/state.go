// Package session runs one demo tutoring room: the connection state machine,
// the transcript and end-of-session notes.
package session

import (
	"errors"
	"time"
)

type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

const (
	// TopicSettleDelay separates call start from the first context message so
	// the assistant's opening words are not cut off.
	TopicSettleDelay = 2 * time.Second
	ReconnectDelay   = 1 * time.Second
	TextReplyDelay   = 1 * time.Second

	speechTick      = 150 * time.Millisecond
	speechPerLetter = 50 * time.Millisecond
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrNotConnected      = errors.New("not connected")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrInvalidImage      = errors.New("image must be a data URI")
	ErrClosed            = errors.New("session controller closed")
)
