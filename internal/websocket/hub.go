package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"tutorly-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "tutorly_room_events"

// Hub fans room updates out to every socket watching that room, on this
// instance and, through Redis, on every other instance.
type Hub struct {
	// room id -> watching clients
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	// instance id, so our own Redis echoes are skipped
	origin string

	// Redis publishes happen off the caller's goroutine, in order
	outbound chan []byte

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, origin string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		origin:     origin,
		outbound:   make(chan []byte, 1024),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
		go h.publishToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.rooms[client.RoomID]
			if !ok {
				set = make(map[*Client]struct{})
				h.rooms[client.RoomID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"room_id": client.RoomID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.rooms, client.RoomID)
		h.logger.Info("Hub", "Room has no more watchers", map[string]interface{}{"room_id": client.RoomID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, set := range h.rooms {
		for client := range set {
			close(client.Send)
		}
		delete(h.rooms, room)
	}
}

// Watchers returns the number of local sockets on a room.
func (h *Hub) Watchers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom serialises payload as {"type": kind, "data": payload} and
// delivers it to every watcher of roomID.
func (h *Hub) BroadcastToRoom(roomID, kind string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to serialise room update", map[string]interface{}{"room_id": roomID, "error": err.Error()})
		return
	}

	h.deliverLocal(roomID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterMessage{RoomID: roomID, Origin: h.origin, Message: data})
		select {
		case h.outbound <- envelope:
		default:
			h.logger.Warn("Hub", "Redis outbound queue full, update not shared", map[string]interface{}{"room_id": roomID})
		}
	}
}

func (h *Hub) publishToRedis(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope := <-h.outbound:
			if err := h.rdb.Publish(ctx, clusterChannel, envelope).Err(); err != nil {
				h.logger.Warn("Hub", "Failed to publish room update to Redis", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

type clusterMessage struct {
	RoomID  string          `json:"room_id"`
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// deliverLocal never blocks: a client whose buffer is full is dropped.
func (h *Hub) deliverLocal(roomID string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.rooms[roomID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"room_id": roomID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.origin {
				continue
			}
			h.deliverLocal(payload.RoomID, payload.Message)
		}
	}
}
