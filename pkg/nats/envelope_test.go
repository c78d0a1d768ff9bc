package nats

import (
	"testing"
	"time"

	"tutorly-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndTime(t *testing.T) {
	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	raw, err := encode(events.NewWaitlistJoined("e1", "Ada", "ada@example.com", at))
	require.NoError(t, err)

	got, err := decode("events.SOMETHING_ELSE", raw)
	require.NoError(t, err)
	assert.Equal(t, events.WaitlistJoined, got.EventType())
	assert.True(t, at.Equal(got.Timestamp()))
	assert.Equal(t, "ada@example.com", events.String(got, "email"))
}

func TestDecodeBarePayloadUsesSubject(t *testing.T) {
	got, err := decode("events.SESSION_FINISHED", []byte(`{"room_id":"r1"}`))
	require.NoError(t, err)
	assert.Equal(t, events.SessionFinished, got.EventType())
	assert.Equal(t, "r1", events.String(got, "room_id"))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode("events.X", []byte("not json"))
	assert.Error(t, err)
}
