// Package sketch implements the demo whiteboard: a single-stroke pen surface,
// decorative calculator stamps and an arithmetic keypad.
package sketch

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
)

type Tool string

const (
	ToolPen        Tool = "pen"
	ToolCalculator Tool = "calculator"
)

// MinPointDistance is the smallest pointer movement, in pixels, recorded as a
// new stroke point.
const MinPointDistance = 2.0

var ErrUnknownTool = errors.New("unknown drawing tool")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Expression is a canned calculator string stamped onto the surface.
type Expression struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Position   Point  `json:"position"`
}

// CannedExpressions are the strings stamped in calculator mode.
var CannedExpressions = []string{
	"2 + 2 = 4",
	"x² + 2x + 1 = 0",
	"√16 = 4",
	"a² + b² = c²",
	"π ≈ 3.14159",
	"E = mc²",
	"∫ x dx = x²/2 + C",
	"sin²θ + cos²θ = 1",
}

type Rand interface {
	IntN(n int) int
}

// State is a copy of the surface at one instant.
type State struct {
	Tool        Tool         `json:"tool"`
	Drawing     bool         `json:"drawing"`
	Stroke      []Point      `json:"stroke"`
	Expressions []Expression `json:"expressions"`
	Path        string       `json:"path"`
}

// Surface is safe for concurrent use.
type Surface struct {
	mu          sync.Mutex
	rand        Rand
	tool        Tool
	drawing     bool
	stroke      []Point
	expressions []Expression
}

func NewSurface(r Rand) *Surface {
	return &Surface{rand: r, tool: ToolPen}
}

func (s *Surface) SetTool(t Tool) error {
	if t != ToolPen && t != ToolCalculator {
		return ErrUnknownTool
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = t
	s.drawing = false
	return nil
}

// PointerDown starts a fresh stroke in pen mode, replacing the previous one,
// or stamps a canned expression at p in calculator mode. The stamped
// expression is returned when one was placed.
func (s *Surface) PointerDown(p Point) (*Expression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool == ToolCalculator {
		idx := 0
		if s.rand != nil {
			idx = s.rand.IntN(len(CannedExpressions))
		}
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		e := Expression{ID: id.String(), Expression: CannedExpressions[idx], Position: p}
		s.expressions = append(s.expressions, e)
		return &e, nil
	}

	s.drawing = true
	s.stroke = []Point{p}
	return nil, nil
}

// PointerMove extends the active stroke. It reports whether p was recorded.
func (s *Surface) PointerMove(p Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.drawing || s.tool != ToolPen {
		return false
	}
	last := s.stroke[len(s.stroke)-1]
	if math.Hypot(p.X-last.X, p.Y-last.Y) < MinPointDistance {
		return false
	}
	s.stroke = append(s.stroke, p)
	return true
}

// PointerUp ends the active stroke. Pointer-leave is handled the same way.
func (s *Surface) PointerUp() {
	s.mu.Lock()
	s.drawing = false
	s.mu.Unlock()
}

// Clear wipes the stroke and every stamped expression.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing = false
	s.stroke = nil
	s.expressions = nil
}

func (s *Surface) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	stroke := make([]Point, len(s.stroke))
	copy(stroke, s.stroke)
	exprs := make([]Expression, len(s.expressions))
	copy(exprs, s.expressions)
	return State{
		Tool:        s.tool,
		Drawing:     s.drawing,
		Stroke:      stroke,
		Expressions: exprs,
		Path:        SmoothPath(stroke),
	}
}
