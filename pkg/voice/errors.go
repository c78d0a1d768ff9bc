package voice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable  = errors.New("voice backend unavailable")
	ErrNotConnected = errors.New("voice call not connected")
	ErrMissingKey   = errors.New("voice public key is not configured")

	// ErrStartCancelled is returned when a pending start is superseded by Stop
	// or a newer Start before the gateway handshake completes.
	ErrStartCancelled = errors.New("voice call start cancelled")
)

// ConnectionError is returned by Adapter.Start for critical failures.
type ConnectionError struct {
	Selector string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to assistant %s: %v", e.Selector, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsCritical reports whether err must abort the connection attempt rather than
// fall back to demo mode.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "critical") || strings.Contains(msg, "auth")
}

// AlertText turns a critical error into the message shown to the user.
func AlertText(err error) string {
	text := "Failed to connect to the assistant."
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "microphone"):
		return text + " Please allow microphone access and try again."
	case strings.Contains(msg, "network"):
		return text + " Please check your internet connection."
	default:
		return text + " Error: " + err.Error()
	}
}
