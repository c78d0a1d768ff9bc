package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"tutorly-be/pkg/events"
)

// StreamName is the JetStream stream holding every "events.>" subject.
const StreamName = "EVENTS"

// envelope is the wire form of an event. The type and time travel with the
// payload so consumers do not have to infer them from the subject.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func encode(event events.Event) ([]byte, error) {
	occurred := event.Timestamp()
	if occurred.IsZero() {
		occurred = time.Now()
	}
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: occurred,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

// decode accepts both enveloped messages and bare payload objects; for the
// latter the type is taken from the subject.
func decode(subject string, raw []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	if env.Type != "" && env.Data != nil {
		if env.OccurredAt.IsZero() {
			env.OccurredAt = time.Now()
		}
		return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return events.BaseEvent{
		Type:       events.TypeFromSubject(subject),
		Data:       payload,
		OccurredAt: time.Now(),
	}, nil
}
