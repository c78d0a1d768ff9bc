package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches conn to roomID. initial, when non-nil, is queued before any
// broadcast so the client starts from a full snapshot. It blocks until the
// socket closes.
func ServeWs(hub *Hub, c *websocket.Conn, roomID string, initial []byte) {
	client := &Client{Hub: hub, Conn: c, RoomID: roomID, Send: make(chan []byte, 256)}
	if initial != nil {
		client.Send <- initial
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
