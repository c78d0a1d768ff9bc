package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tutorly-be/pkg/schedule"
)

const (
	DemoStartDelay    = 1 * time.Second
	DemoGreetingDelay = 500 * time.Millisecond

	DefaultGreeting = "Hey there! I'm Math Tutorly, and I'm excited to help you with quadratic equations today! " +
		"I'm currently running in demo mode, but I can still guide you through some math concepts. " +
		"What would you like to explore first?"
)

type Config struct {
	GatewayURL string
	PublicKey  string

	// Greeting returns the scripted first line used in demo mode.
	Greeting  func(selector string) string
	Scheduler schedule.Scheduler
}

type StartResult struct {
	Success bool `json:"success"`
	Demo    bool `json:"demo"`
}

// Adapter wraps a Client with a single inbound event queue, one handler per
// event kind and a demo-mode fallback when the backend cannot be reached.
type Adapter struct {
	client   Client
	sched    schedule.Scheduler
	greeting func(string) string
	log      Logger

	events chan Event
	quit   chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	handlers  Handlers
	simulated []schedule.Handle
	gen       uint64

	demo      atomic.Bool
	closeOnce sync.Once
}

// NewAdapter builds an adapter over the remote client, falling back to the
// stub when the remote client cannot be constructed. It never fails.
func NewAdapter(cfg Config, logger Logger) *Adapter {
	if logger == nil {
		logger = NopLogger()
	}
	var client Client
	remote, err := NewRemoteClient(RemoteConfig{GatewayURL: cfg.GatewayURL, PublicKey: cfg.PublicKey})
	if err != nil {
		logger.Warn("VOICE", "Remote voice client unavailable, using stub", map[string]interface{}{
			"error": err.Error(),
		})
		client = NewStubClient()
	} else {
		client = remote
	}
	return NewAdapterWithClient(client, cfg, logger)
}

func NewAdapterWithClient(client Client, cfg Config, logger Logger) *Adapter {
	if logger == nil {
		logger = NopLogger()
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = schedule.Real()
	}
	greeting := cfg.Greeting
	if greeting == nil {
		greeting = func(string) string { return DefaultGreeting }
	}
	a := &Adapter{
		client:   client,
		sched:    sched,
		greeting: greeting,
		log:      logger,
		events:   make(chan Event, eventBufferSize),
		quit:     make(chan struct{}),
	}
	a.wg.Add(1)
	go a.pump()
	return a
}

// Start requests a call. Non-critical failures switch the adapter to demo mode
// and still report success; critical failures are returned as *ConnectionError.
func (a *Adapter) Start(ctx context.Context, selector string) (StartResult, error) {
	a.log.Info("VOICE", "Starting voice call", map[string]interface{}{"assistant": selector})

	err := a.client.Start(ctx, selector)
	if err == nil {
		a.demo.Store(false)
		return StartResult{Success: true}, nil
	}
	if errors.Is(err, ErrStartCancelled) || ctx.Err() != nil {
		a.log.Info("VOICE", "Voice call start abandoned", map[string]interface{}{"assistant": selector})
		return StartResult{}, ErrStartCancelled
	}
	if IsCritical(err) {
		a.log.Error("VOICE", "Voice call failed", map[string]interface{}{
			"assistant": selector,
			"error":     err.Error(),
		})
		return StartResult{}, &ConnectionError{Selector: selector, Err: err}
	}

	a.log.Warn("VOICE", "Voice backend unreachable, running demo call", map[string]interface{}{
		"assistant": selector,
		"error":     err.Error(),
	})
	a.demo.Store(true)
	a.push(Event{Kind: EventError, Err: fmt.Errorf("voice connection failed: %w", err)})

	greeting := a.greeting(selector)
	a.mu.Lock()
	a.cancelSimulatedLocked()
	gen := a.gen
	a.simulated = append(a.simulated, a.sched.After(DemoStartDelay, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.gen != gen {
			return
		}
		a.push(Event{Kind: EventCallStart})
		a.simulated = append(a.simulated, a.sched.After(DemoGreetingDelay, func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.gen != gen {
				return
			}
			a.push(Event{Kind: EventMessage, Message: ConversationUpdate(RoleAssistant, greeting)})
		}))
	}))
	a.mu.Unlock()

	return StartResult{Success: true, Demo: true}, nil
}

// Stop ends the call and drops pending simulated events. Safe to call repeatedly.
func (a *Adapter) Stop() {
	a.mu.Lock()
	a.cancelSimulatedLocked()
	a.mu.Unlock()

	if a.demo.Swap(false) {
		return
	}
	if err := a.client.Stop(); err != nil {
		a.log.Warn("VOICE", "Failed to stop voice call", map[string]interface{}{"error": err.Error()})
	}
}

// Send is best effort; failures are logged only.
func (a *Adapter) Send(msg OutboundMessage) {
	if a.demo.Load() {
		return
	}
	if err := a.client.Send(msg); err != nil {
		a.log.Warn("VOICE", "Failed to send message", map[string]interface{}{
			"type":  msg.Type,
			"error": err.Error(),
		})
	}
}

func (a *Adapter) SetMuted(muted bool) {
	a.client.SetMuted(muted)
}

func (a *Adapter) IsMuted() bool {
	return a.client.IsMuted()
}

// SetHandlers replaces every registered handler.
func (a *Adapter) SetHandlers(h Handlers) {
	a.mu.Lock()
	a.handlers = h
	a.mu.Unlock()
}

// Events is the inbound queue. It has a single consumer.
func (a *Adapter) Events() <-chan Event {
	return a.events
}

// Dispatch routes ev to its registered handler.
func (a *Adapter) Dispatch(ev Event) {
	a.mu.Lock()
	h := a.handlers
	a.mu.Unlock()
	h.dispatch(ev)
}

// Close stops the call and releases the client.
func (a *Adapter) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.Stop()
		close(a.quit)
		err = a.client.Close()
		a.wg.Wait()
	})
	return err
}

func (a *Adapter) pump() {
	defer a.wg.Done()
	src := a.client.Events()
	for {
		select {
		case <-a.quit:
			return
		case ev, ok := <-src:
			if !ok {
				return
			}
			a.push(ev)
		}
	}
}

func (a *Adapter) push(ev Event) {
	select {
	case <-a.quit:
	case a.events <- ev:
	default:
		a.log.Warn("VOICE", "Event queue full, dropping event", map[string]interface{}{"kind": string(ev.Kind)})
	}
}

func (a *Adapter) cancelSimulatedLocked() {
	a.gen++
	for _, h := range a.simulated {
		h.Cancel()
	}
	a.simulated = nil
}
