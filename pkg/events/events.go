package events

import (
	"strings"
	"time"
)

// Event codes published on the bus. The NATS subject is "events.<code>".
const (
	WaitlistJoined  = "WAITLIST_JOINED"
	SessionFinished = "SESSION_FINISHED"
	SubjectPrefix   = "events."
	SubjectWildcard = "events.>"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "WAITLIST_JOINED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject returns the bus subject for an event code.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// TypeFromSubject strips the stream prefix from a bus subject.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, SubjectPrefix)
}

// String reads a string field from a payload, returning "" when absent.
func String(e Event, key string) string {
	if e == nil || e.Payload() == nil {
		return ""
	}
	s, _ := e.Payload()[key].(string)
	return s
}

func NewWaitlistJoined(entryID, name, email string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: WaitlistJoined,
		Data: map[string]interface{}{
			"entry_id": entryID,
			"name":     name,
			"email":    email,
		},
		OccurredAt: at,
	}
}

func NewSessionFinished(roomID, sessionID, subject, topic string, messages int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: SessionFinished,
		Data: map[string]interface{}{
			"room_id":    roomID,
			"session_id": sessionID,
			"subject":    subject,
			"topic":      topic,
			"messages":   messages,
		},
		OccurredAt: at,
	}
}
