// Package schedule provides cancellable delayed tasks.
//
// Every delayed action in a demo session (settle delays, reconnects, simulated
// replies) goes through a Scheduler so a superseding action can invalidate the
// pending one instead of racing it.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle is a scheduled task. Cancel reports whether the task was still pending.
type Handle interface {
	Cancel() bool
}

type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

type realScheduler struct{}

// Real schedules on the runtime timer wheel.
func Real() Scheduler {
	return realScheduler{}
}

func (realScheduler) After(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

// Cancel stops h when it is non-nil.
func Cancel(h Handle) {
	if h != nil {
		h.Cancel()
	}
}

// Manual is a virtual-time scheduler. Tasks only fire from Advance, on the
// goroutine that calls it.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m         *Manual
	at        time.Duration
	seq       int
	fn        func()
	done      bool
	cancelled bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Advance moves virtual time forward by d, firing due tasks in time order.
// Tasks scheduled by a firing task are eligible in the same call.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.compactLocked()
			m.mu.Unlock()
			return
		}
		next.done = true
		m.now = next.at
		m.mu.Unlock()

		next.fn()
	}
}

// Pending counts tasks that have neither fired nor been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.done && !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual time elapsed since construction.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) nextDueLocked(target time.Duration) *manualTask {
	var due []*manualTask
	for _, t := range m.tasks {
		if !t.done && !t.cancelled && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

func (m *Manual) compactLocked() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.done && !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
}
