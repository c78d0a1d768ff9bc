package handler

import (
	"encoding/json"

	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/service"
	internalWS "tutorly-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const handlerModule = "SessionHandler"

// SessionHandler streams demo room updates over a WebSocket.
type SessionHandler struct {
	demo   service.IDemoService
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewSessionHandler(demo service.IDemoService, hub *internalWS.Hub, log logger.ILogger) *SessionHandler {
	return &SessionHandler{demo: demo, hub: hub, logger: log}
}

// ServeWs upgrades the request once the room is known to exist. The first
// frame is a full snapshot; every later frame is one room update.
func (h *SessionHandler) ServeWs(c *fiber.Ctx) error {
	roomID := c.Params("id")

	room, err := h.demo.GetRoom(c.Context(), roomID)
	if err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	initial, err := json.Marshal(fiber.Map{"type": "snapshot", "data": room})
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(handlerModule, "Starting WebSocket session", map[string]interface{}{"room_id": roomID})
		internalWS.ServeWs(h.hub, conn, roomID, initial)
		h.logger.Info(handlerModule, "WebSocket session ended", map[string]interface{}{"room_id": roomID})
	})(c)
}

// RegisterRoutes registers the socket route.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/demo/sessions/:id/ws", h.ServeWs)
}
