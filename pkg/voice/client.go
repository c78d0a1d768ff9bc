package voice

import "context"

// Client is the boundary to a hosted real-time voice assistant.
type Client interface {
	// Start requests a call with the assistant identified by selector. Call
	// progress is reported later through Events.
	Start(ctx context.Context, selector string) error
	Stop() error
	Send(msg OutboundMessage) error
	SetMuted(muted bool)
	IsMuted() bool
	Events() <-chan Event
	Close() error
}

// Logger is the subset of the application logger used here.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

// NopLogger discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
