package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultConnectTimeout = 15 * time.Second
	eventBufferSize       = 256
)

// RemoteConfig configures the hosted voice gateway connection.
type RemoteConfig struct {
	GatewayURL string
	PublicKey  string
}

// frame is the JSON envelope exchanged with the gateway.
type frame struct {
	Type        string          `json:"type"`
	AssistantID string          `json:"assistantId,omitempty"`
	Muted       *bool           `json:"muted,omitempty"`
	Volume      float64         `json:"volume,omitempty"`
	Message     json.RawMessage `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// RemoteClient talks to a hosted voice gateway over a WebSocket. One call is
// active at a time; events from every call are delivered on the same channel.
type RemoteClient struct {
	cfg    RemoteConfig
	dialer *websocket.Dialer
	events chan Event

	mu      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	gen     uint64
	pending context.CancelFunc

	writeMu   sync.Mutex
	muted     atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewRemoteClient(cfg RemoteConfig) (*RemoteClient, error) {
	if strings.TrimSpace(cfg.PublicKey) == "" {
		return nil, ErrMissingKey
	}
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return nil, fmt.Errorf("voice gateway url is not configured")
	}
	return &RemoteClient{
		cfg:    cfg,
		dialer: websocket.DefaultDialer,
		events: make(chan Event, eventBufferSize),
	}, nil
}

// Start dials the gateway and asks it to run selector. A Stop or a newer Start
// issued while the handshake is in flight cancels it; the late connection is
// closed without sending a start frame and ErrStartCancelled is returned.
func (c *RemoteClient) Start(ctx context.Context, selector string) error {
	if c.closed.Load() {
		return fmt.Errorf("voice client is closed")
	}

	dialCtx, cancelDial := context.WithCancel(ctx)
	defer cancelDial()
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(dialCtx, defaultConnectTimeout)
		defer cancel()
	}

	c.mu.Lock()
	if c.pending != nil {
		c.pending()
	}
	c.gen++
	gen := c.gen
	c.pending = cancelDial
	c.mu.Unlock()

	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+c.cfg.PublicKey)

	conn, resp, err := c.dialer.DialContext(dialCtx, c.cfg.GatewayURL, headers)
	if err != nil {
		if c.superseded(gen) {
			return ErrStartCancelled
		}
		c.clearPending(gen)
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("auth rejected by voice gateway (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial voice gateway: %w", err)
	}

	c.mu.Lock()
	if c.gen != gen || c.closed.Load() || ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrStartCancelled
	}
	c.pending = nil
	prev := c.conn
	c.conn = conn
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	go c.readLoop(conn, done)

	muted := c.muted.Load()
	c.writeMu.Lock()
	err = conn.WriteJSON(frame{Type: "start", AssistantID: selector, Muted: &muted})
	c.writeMu.Unlock()
	if err != nil {
		if c.release(conn) {
			_ = conn.Close()
			<-done
			return fmt.Errorf("send start frame: %w", err)
		}
		return ErrStartCancelled
	}
	return nil
}

// Stop ends the active call and cancels any handshake still in flight.
func (c *RemoteClient) Stop() error {
	c.mu.Lock()
	c.gen++
	if c.pending != nil {
		c.pending()
		c.pending = nil
	}
	conn, done := c.conn, c.done
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteJSON(frame{Type: "stop"})
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	c.writeMu.Unlock()
	err := conn.Close()
	<-done
	return err
}

func (c *RemoteClient) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

func (c *RemoteClient) clearPending(gen uint64) {
	c.mu.Lock()
	if c.gen == gen {
		c.pending = nil
	}
	c.mu.Unlock()
}

// release drops conn if it is still the active connection.
func (c *RemoteClient) release(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return false
	}
	c.conn = nil
	return true
}

func (c *RemoteClient) Send(msg OutboundMessage) error {
	return c.writeJSON(msg)
}

func (c *RemoteClient) SetMuted(muted bool) {
	c.muted.Store(muted)
	_ = c.writeJSON(frame{Type: "set-muted", Muted: &muted})
}

func (c *RemoteClient) IsMuted() bool {
	return c.muted.Load()
}

func (c *RemoteClient) Events() <-chan Event {
	return c.events
}

func (c *RemoteClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.Stop()
	})
	return err
}

func (c *RemoteClient) writeJSON(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (c *RemoteClient) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, websocket.ErrCloseSent) {
				c.detach(conn)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		ev, ok := decodeFrame(data)
		if !ok {
			continue
		}
		c.emit(ev)
	}
}

// detach reports an abnormal drop as the end of the call, unless the
// connection was already replaced or stopped.
func (c *RemoteClient) detach(conn *websocket.Conn) {
	if c.release(conn) {
		c.emit(Event{Kind: EventCallEnd})
	}
}

func (c *RemoteClient) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		// consumer is not keeping up; drop rather than stall the read loop
	}
}

func decodeFrame(data []byte) (Event, bool) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, false
	}
	switch EventKind(f.Type) {
	case EventCallStart, EventCallEnd, EventSpeechStart, EventSpeechEnd:
		return Event{Kind: EventKind(f.Type)}, true
	case EventVolumeLevel:
		return Event{Kind: EventVolumeLevel, Volume: f.Volume}, true
	case EventMessage:
		var msg map[string]any
		if err := json.Unmarshal(f.Message, &msg); err != nil {
			return Event{}, false
		}
		return Event{Kind: EventMessage, Message: msg}, true
	case EventError:
		text := f.Error
		if text == "" {
			text = "voice gateway error"
		}
		return Event{Kind: EventError, Err: errors.New(text)}, true
	}
	return Event{}, false
}

var _ Client = (*RemoteClient)(nil)
