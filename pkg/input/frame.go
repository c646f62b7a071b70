package input

import "github.com/taigrr/vantage/pkg/controls"

var _ controls.Input = (*Frame)(nil)

// Frame is the input of a single frame. Terminals have no touch surface, so
// the touch and pinch deltas are always zero.
type Frame struct {
	down      map[string]bool
	triggered map[string]bool

	dx, dy   float64
	scroll   float64
	buttons  int
	dragging bool

	invertX, invertY bool
}

func (f *Frame) IsKeyDown(code string) bool {
	return f.down[code]
}

func (f *Frame) IsKeyDownEventTriggered(code string) bool {
	return f.triggered[code]
}

func (f *Frame) MouseDeltaX() float64 {
	return f.dx
}

func (f *Frame) MouseDeltaY() float64 {
	return f.dy
}

func (f *Frame) ScrollDelta() float64 {
	return f.scroll
}

func (f *Frame) PinchDeltaDist() float64 {
	return 0
}

func (f *Frame) TouchDeltaX() float64 {
	return 0
}

func (f *Frame) TouchDeltaY() float64 {
	return 0
}

func (f *Frame) IsDragging() bool {
	return f.dragging
}

func (f *Frame) Buttons() int {
	return f.buttons
}

func (f *Frame) InvertX() bool {
	return f.invertX
}

func (f *Frame) InvertY() bool {
	return f.invertY
}

// Active reports whether anything happened this frame.
func (f *Frame) Active() bool {
	return len(f.down) > 0 || len(f.triggered) > 0 ||
		f.dx != 0 || f.dy != 0 || f.scroll != 0 || f.buttons != 0
}
