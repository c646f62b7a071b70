// Package input collects terminal events into per-frame snapshots that
// satisfy controls.Input.
//
// Event decoding runs on its own goroutine and writes into a State. The
// frame loop calls Snapshot once per tick, which also clears the per-frame
// deltas.
package input

import (
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/vantage/pkg/controls"
)

// Mouse button bits reported by Buttons.
const (
	ButtonPrimary   = 1
	ButtonSecondary = 2
	ButtonMiddle    = 4
)

const (
	// DefaultHoldTimeout is how long a key counts as held after its last
	// press when the terminal sends no release events.
	DefaultHoldTimeout = 150 * time.Millisecond
	// DefaultCellScale converts mouse motion in cells to pointer units.
	DefaultCellScale = 10.0
)

// State accumulates input between frames. It is safe for one writer and
// one reader.
type State struct {
	mu sync.Mutex

	bindings    Bindings
	holdTimeout time.Duration
	cellScale   float64
	invertX     bool
	invertY     bool
	now         func() time.Time

	// pressed holds the time of the last press of each held code.
	pressed   map[string]time.Time
	triggered map[string]bool
	// shiftAt is the last press that carried the shift modifier.
	shiftAt time.Time
	// releases is set once the terminal reports a key release, after which
	// keys stay down until released.
	releases bool

	buttons      int
	lastX, lastY int
	dx, dy       float64
	scroll       float64
	moved        bool
}

// Option configures a State.
type Option func(*State)

// WithBindings sets the key bindings.
func WithBindings(b Bindings) Option {
	return func(s *State) { s.bindings = b }
}

// WithHoldTimeout sets how long a key stays down after a press without a
// release event.
func WithHoldTimeout(d time.Duration) Option {
	return func(s *State) { s.holdTimeout = d }
}

// WithCellScale sets the pointer units per terminal cell.
func WithCellScale(scale float64) Option {
	return func(s *State) { s.cellScale = scale }
}

// WithInvert inverts mouse look on either axis.
func WithInvert(x, y bool) Option {
	return func(s *State) { s.invertX, s.invertY = x, y }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// NewState creates an empty input state.
func NewState(opts ...Option) *State {
	s := &State{
		bindings:    DefaultBindings(),
		holdTimeout: DefaultHoldTimeout,
		cellScale:   DefaultCellScale,
		now:         time.Now,
		pressed:     make(map[string]time.Time),
		triggered:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBindings replaces the key bindings and releases every key.
func (s *State) SetBindings(b Bindings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = b
	clear(s.pressed)
	clear(s.triggered)
}

// SetInvert inverts mouse look on either axis.
func (s *State) SetInvert(x, y bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invertX, s.invertY = x, y
}

// HandleEvent records ev and reports whether it was an input event.
func (s *State) HandleEvent(ev uv.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		codes, shift := s.bindings.match(ev)
		now := s.now()
		for _, code := range codes {
			if _, held := s.pressed[code]; !held {
				s.triggered[code] = true
			}
			s.pressed[code] = now
		}
		if shift {
			s.shiftAt = now
		}

	case uv.KeyReleaseEvent:
		s.releases = true
		codes, _ := s.bindings.match(ev)
		for _, code := range codes {
			delete(s.pressed, code)
		}
		s.shiftAt = time.Time{}

	case uv.MouseClickEvent:
		s.buttons |= buttonBit(ev.Button)
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		// Some terminals do not say which button went up.
		if bit := buttonBit(ev.Button); bit != 0 {
			s.buttons &^= bit
		} else {
			s.buttons = 0
		}

	case uv.MouseMotionEvent:
		if s.buttons != 0 {
			s.dx += float64(ev.X-s.lastX) * s.cellScale
			s.dy += float64(ev.Y-s.lastY) * s.cellScale
			s.moved = true
		}
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.scroll++
		case uv.MouseWheelDown:
			s.scroll--
		}

	default:
		return false
	}
	return true
}

// Snapshot returns the input for one frame and clears the per-frame
// deltas and key triggers.
func (s *State) Snapshot() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	f := &Frame{
		down:      make(map[string]bool, len(s.pressed)+1),
		triggered: make(map[string]bool, len(s.triggered)),
		dx:        s.dx,
		dy:        s.dy,
		scroll:    s.scroll,
		buttons:   s.buttons,
		dragging:  s.buttons&ButtonPrimary != 0 && s.moved,
		invertX:   s.invertX,
		invertY:   s.invertY,
	}
	for code, at := range s.pressed {
		if !s.releases && now.Sub(at) > s.holdTimeout {
			delete(s.pressed, code)
			continue
		}
		f.down[code] = true
	}
	for code := range s.triggered {
		f.triggered[code] = true
	}
	if !s.shiftAt.IsZero() && (s.releases || now.Sub(s.shiftAt) <= s.holdTimeout) {
		f.down[controls.KeyShiftLeft] = true
	}

	s.dx, s.dy, s.scroll = 0, 0, 0
	clear(s.triggered)
	if s.buttons&ButtonPrimary == 0 {
		s.moved = false
	}
	return f
}

func buttonBit(b uv.MouseButton) int {
	switch b {
	case uv.MouseLeft:
		return ButtonPrimary
	case uv.MouseRight:
		return ButtonSecondary
	case uv.MouseMiddle:
		return ButtonMiddle
	}
	return 0
}
