package websocket

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"tutorly-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil, "test", logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ws.log")))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func join(h *Hub, room string, buf int) *Client {
	c := &Client{Hub: h, RoomID: room, Send: make(chan []byte, buf)}
	h.register <- c
	return c
}

func TestBroadcastReachesOnlyRoomWatchers(t *testing.T) {
	h := startHub(t)
	a := join(h, "room-a", 4)
	b := join(h, "room-b", 4)
	require.Eventually(t, func() bool { return h.Watchers("room-a") == 1 && h.Watchers("room-b") == 1 }, time.Second, 5*time.Millisecond)

	h.BroadcastToRoom("room-a", "state", map[string]string{"state": "connected"})

	select {
	case raw := <-a.Send:
		var msg struct {
			Type string            `json:"type"`
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "state", msg.Type)
		assert.Equal(t, "connected", msg.Data["state"])
	case <-time.After(time.Second):
		t.Fatal("room-a watcher got nothing")
	}
	assert.Empty(t, b.Send)
}

func TestSlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	c := join(h, "room", 1)
	require.Eventually(t, func() bool { return h.Watchers("room") == 1 }, time.Second, 5*time.Millisecond)

	h.BroadcastToRoom("room", "message", "one")
	h.BroadcastToRoom("room", "message", "two")

	assert.Equal(t, 0, h.Watchers("room"))
	<-c.Send
	_, open := <-c.Send
	assert.False(t, open, "send channel closed after drop")
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	h := startHub(t)
	c := join(h, "room", 1)
	h.unregister <- c
	h.unregister <- c
	assert.Eventually(t, func() bool { return h.Watchers("room") == 0 }, time.Second, 5*time.Millisecond)
}
