package entity

import (
	"context"
	"sync"
	"time"

	"tutorly-be/pkg/session"
	"tutorly-be/pkg/sketch"
)

// DemoRoom groups the live objects behind one demo page instance.
type DemoRoom struct {
	Id        string
	Session   *session.Controller
	Surface   *sketch.Surface
	Keypad    *sketch.Keypad
	CreatedAt time.Time

	stop      context.CancelFunc
	closeOnce sync.Once
}

// NewDemoRoom takes ownership of ctrl; stop cancels the context its loop runs on.
func NewDemoRoom(id string, ctrl *session.Controller, surface *sketch.Surface, keypad *sketch.Keypad, createdAt time.Time, stop context.CancelFunc) *DemoRoom {
	return &DemoRoom{
		Id:        id,
		Session:   ctrl,
		Surface:   surface,
		Keypad:    keypad,
		CreatedAt: createdAt,
		stop:      stop,
	}
}

// Close is idempotent.
func (r *DemoRoom) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.Session.Close()
		if r.stop != nil {
			r.stop()
		}
	})
	return err
}
