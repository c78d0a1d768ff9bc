package voice

import (
	"context"
	"sync/atomic"
)

// StubClient stands in when no real backend can be built. Every call start
// fails with ErrUnavailable so the adapter switches to demo mode.
type StubClient struct {
	muted  atomic.Bool
	events chan Event
}

func NewStubClient() *StubClient {
	return &StubClient{events: make(chan Event)}
}

func (s *StubClient) Start(ctx context.Context, selector string) error {
	return ErrUnavailable
}

func (s *StubClient) Stop() error {
	return nil
}

func (s *StubClient) Send(OutboundMessage) error {
	return nil
}

func (s *StubClient) SetMuted(muted bool) {
	s.muted.Store(muted)
}

func (s *StubClient) IsMuted() bool {
	return s.muted.Load()
}

func (s *StubClient) Events() <-chan Event {
	return s.events
}

func (s *StubClient) Close() error {
	return nil
}

var _ Client = (*StubClient)(nil)
