package sketch

import (
	"strings"
	"sync"
	"time"
)

// ErrorDisplay is shown instead of a result when evaluation fails.
const ErrorDisplay = "Error"

type Entry struct {
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
	Failed     bool      `json:"failed"`
}

// Keypad evaluates typed expressions and keeps an append-only history of
// successful results. It is safe for concurrent use.
type Keypad struct {
	mu      sync.Mutex
	now     func() time.Time
	history []Entry
}

func NewKeypad(now func() time.Time) *Keypad {
	if now == nil {
		now = time.Now
	}
	return &Keypad{now: now}
}

// Evaluate never returns an error: failures produce an Entry whose Result is
// ErrorDisplay and which is not recorded in the history.
func (k *Keypad) Evaluate(expr string) Entry {
	expr = strings.TrimSpace(expr)

	k.mu.Lock()
	defer k.mu.Unlock()

	v, err := Eval(expr)
	if err != nil {
		return Entry{Expression: expr, Result: ErrorDisplay, Timestamp: k.now(), Failed: true}
	}
	e := Entry{Expression: expr, Result: FormatResult(v), Timestamp: k.now()}
	k.history = append(k.history, e)
	return e
}

// History returns a copy, oldest first.
func (k *Keypad) History() []Entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Entry, len(k.history))
	copy(out, k.history)
	return out
}
