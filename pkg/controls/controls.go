// Package controls turns per-frame input into camera motion.
//
// Every controller drives a *render.Camera and only changes its pose
// through SetWorldMatrix or SetViewMatrix, so the view matrix, the world
// frustum and the clip-from-world matrix never disagree.
package controls

import (
	"log/slog"

	"github.com/taigrr/vantage/pkg/render"
)

// Input is the per-frame input a controller reads. Key codes are DOM
// KeyboardEvent.code strings such as "KeyW" or "Numpad4".
type Input interface {
	// IsKeyDown reports whether the key is held.
	IsKeyDown(code string) bool
	// IsKeyDownEventTriggered reports whether the key went down this frame.
	IsKeyDownEventTriggered(code string) bool

	MouseDeltaX() float64
	MouseDeltaY() float64
	// ScrollDelta is the wheel movement this frame, positive away from
	// the user.
	ScrollDelta() float64
	PinchDeltaDist() float64
	TouchDeltaX() float64
	TouchDeltaY() float64

	IsDragging() bool
	// Buttons is the pressed mouse button mask: 1 primary, 2 secondary,
	// 4 middle.
	Buttons() int

	InvertX() bool
	InvertY() bool
}

// UpdateResult tells the caller how much a controller changed the camera.
type UpdateResult int

const (
	// Unchanged means the pose was not touched, or the change is not
	// worth persisting.
	Unchanged UpdateResult = iota
	// Changed means the pose moved.
	Changed
	// ImportantChange means motion just settled and the pose should be
	// saved, e.g. into a share URL.
	ImportantChange
)

func (r UpdateResult) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case ImportantChange:
		return "important"
	default:
		return "unknown"
	}
}

// Controller moves a camera from input once per frame.
type Controller interface {
	// Update advances the controller by dt seconds. sceneTimeScale scales
	// time driven motion such as auto orbit.
	Update(in Input, dt, sceneTimeScale float64) UpdateResult

	Camera() *render.Camera
	SetCamera(c *render.Camera)

	// ForceUpdate makes the next Update rewrite the camera pose.
	ForceUpdate()
	// CameraUpdateForced tells the controller the pose was replaced from
	// outside, so carried velocity should be dropped.
	CameraUpdateForced()

	SetSceneMoveSpeedMult(v float64)
	// KeyMoveSpeed returns the keyboard move speed, or false when the
	// controller has none.
	KeyMoveSpeed() (float64, bool)
	SetKeyMoveSpeed(speed float64)
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

func shiftDown(in Input) bool {
	return in.IsKeyDown(KeyShiftLeft) || in.IsKeyDown(KeyShiftRight)
}

func invertMult(invert bool) float64 {
	if invert {
		return -1
	}
	return 1
}
