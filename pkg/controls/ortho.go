package controls

import (
	"log/slog"
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// Ortho is an orthographic orbit camera for inspecting a scene from fixed
// angles.
//
// Rotation eases toward XTarget and YTarget along the shortest arc. Numpad
// keys jump to top, left, right and front views, and shift with WASD snaps
// the azimuth to 45° and the polar angle to 22.5° steps. Z is the zoom:
// the orthographic half height is Z*10.
type Ortho struct {
	X, Y, Z          float64
	XTarget, YTarget float64
	OrbitSpeed       float64
	ShouldOrbit      bool
	ZVel             float64

	// Translation is the look-at point.
	Translation math3d.Vec3
	TXVel       float64
	TYVel       float64

	Logger *slog.Logger

	camera      *render.Camera
	forceUpdate bool
	farPlane    float64
	nearPlane   float64
}

// Ortho limits.
const (
	orthoFarPlane    = 100000
	orthoMinZoom     = 1
	orthoAngleEasing = 0.1
)

// NewOrtho creates an Ortho controller for camera.
func NewOrtho(camera *render.Camera) *Ortho {
	o := &Ortho{
		X:          -math.Pi / 2,
		Y:          2,
		Z:          200,
		OrbitSpeed: -0.05,
		camera:     camera,
		farPlane:   orthoFarPlane,
		nearPlane:  -orthoFarPlane,
	}
	o.XTarget = o.X
	o.YTarget = o.Y
	return o
}

func (o *Ortho) Camera() *render.Camera { return o.camera }

func (o *Ortho) SetCamera(c *render.Camera) { o.camera = c }

func (o *Ortho) ForceUpdate() { o.forceUpdate = true }

func (o *Ortho) CameraUpdateForced() {}

func (o *Ortho) SetSceneMoveSpeedMult(float64) {}

func (o *Ortho) KeyMoveSpeed() (float64, bool) { return 0, false }

func (o *Ortho) SetKeyMoveSpeed(float64) {}

// snapToMultIncr steps n to the next multiple of incr in the direction of
// incr's sign.
func snapToMultIncr(n, incr float64) float64 {
	return math.Floor(n/incr)*incr + incr
}

// Update moves the camera. The pose and the orthographic projection are
// rewritten every frame so aspect changes apply immediately.
func (o *Ortho) Update(in Input, dt, sceneTimeScale float64) UpdateResult {
	if in.IsKeyDownEventTriggered(KeyR) {
		o.ShouldOrbit = !o.ShouldOrbit
		o.logger().Debug("orbit toggled", "orbit", o.ShouldOrbit)
	}

	if in.IsKeyDownEventTriggered(KeyNumpad5) {
		o.ShouldOrbit = false
	}

	if in.IsKeyDownEventTriggered(KeyNumpad8) { // top
		o.XTarget = -math.Pi * 0.5
		o.YTarget = math.Pi - 0.001
	}
	if in.IsKeyDownEventTriggered(KeyNumpad4) { // left
		o.XTarget = 0
		o.YTarget = math.Pi * 0.5
	}
	if in.IsKeyDownEventTriggered(KeyNumpad6) { // right
		o.XTarget = math.Pi
		o.YTarget = math.Pi * 0.5
	}
	if in.IsKeyDownEventTriggered(KeyNumpad2) { // front
		o.XTarget = -math.Pi * 0.5
		o.YTarget = math.Pi * 0.5
	}

	if in.IsKeyDownEventTriggered(KeyB) {
		o.TXVel, o.TYVel = 0, 0
		o.Translation = math3d.Zero3()
	}

	invertX := invertMult(in.InvertX())
	invertY := invertMult(in.InvertY())
	dx, dy, dz := in.MouseDeltaX(), in.MouseDeltaY(), in.ScrollDelta()

	switch {
	case in.Buttons()&4 != 0:
		panScale := -10 - math.Min(o.Z, 0.01)
		o.TXVel += dx * panScale / -5000
		o.TYVel += dy * panScale / 5000
	case in.IsDragging():
		o.XTarget += dx / 200 * invertX
		o.YTarget += dy / 200 * invertY
	case o.ShouldOrbit:
		o.XTarget += o.OrbitSpeed / 25
	}
	hasZVel := dz != 0
	o.ZVel += -dz

	isShiftPressed := shiftDown(in)
	if !isShiftPressed {
		if in.IsKeyDown(KeyA) {
			o.TXVel += 0.02
		}
		if in.IsKeyDown(KeyD) {
			o.TXVel -= 0.02
		}
		if in.IsKeyDown(KeyW) {
			o.TYVel -= 0.02
		}
		if in.IsKeyDown(KeyS) {
			o.TYVel += 0.02
		}
	} else {
		if in.IsKeyDownEventTriggered(KeyA) {
			o.XTarget = snapToMultIncr(o.XTarget, math.Pi/4)
		}
		if in.IsKeyDownEventTriggered(KeyD) {
			o.XTarget = snapToMultIncr(o.XTarget, -math.Pi/4)
		}
		if in.IsKeyDownEventTriggered(KeyW) {
			o.YTarget = snapToMultIncr(o.YTarget, math.Pi/8)
			// Straight down is degenerate for LookAt with +Y up.
			if o.YTarget == math.Pi {
				o.YTarget -= 0.001
			}
		}
		if in.IsKeyDownEventTriggered(KeyS) {
			o.YTarget = snapToMultIncr(o.YTarget-0.001, -math.Pi/8)
			if o.YTarget == math.Pi {
				o.YTarget += 0.001
			}
		}
	}

	o.XTarget = math.Mod(o.XTarget, math3d.Tau)
	o.YTarget = math.Mod(o.YTarget, math3d.Tau)

	if in.IsKeyDown(KeyQ) {
		o.ZVel += 1
		hasZVel = true
	}
	if in.IsKeyDown(KeyE) {
		o.ZVel -= 1
		hasZVel = true
	}

	updated := o.forceUpdate || o.XTarget != o.X || o.YTarget != o.Y ||
		o.ZVel != 0 || o.TXVel != 0 || o.TYVel != 0
	if updated {
		o.X = math3d.LerpAngle(o.X, o.XTarget, orthoAngleEasing)
		o.Y = math3d.LerpAngle(o.Y, o.YTarget, orthoAngleEasing)

		drag := 0.96
		if in.IsDragging() || isShiftPressed {
			drag = 0.92
		}
		o.TXVel *= drag
		o.TYVel *= drag

		o.Z += math.Max(math.Log(math.Abs(o.ZVel)), 0) * 4 * sign(o.ZVel)
		if !hasZVel {
			o.ZVel *= orbitZoomDrag
		}
		if o.Z < orthoMinZoom {
			o.Z = orthoMinZoom
			o.ZVel = 0
		}

		world := o.camera.WorldMatrix()
		o.Translation = o.Translation.
			ScaleAdd(world.AxisX(), o.TXVel*-o.Z).
			ScaleAdd(world.AxisY(), o.TYVel*-o.Z)

		o.forceUpdate = false
	}

	eye := math3d.UnitSpherical(o.X, o.Y).Scale(-o.farPlane / 2).Add(o.Translation)
	o.camera.LookAt(eye, o.Translation, math3d.UnitY())
	o.camera.SetOrthographic(o.Z*10, o.camera.Aspect, o.nearPlane, o.farPlane)

	if updated {
		return Changed
	}
	return Unchanged
}

func (o *Ortho) logger() *slog.Logger {
	return loggerOrDefault(o.Logger)
}
