package controls

import (
	"log/slog"
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// Orbit circles the camera around a target point.
//
// X is the azimuth, Y the polar angle and Z the signed distance (negative
// in front of the target). Dragging turns, the middle button or WASD pans,
// the wheel zooms on a log curve and KeyR toggles auto orbit.
type Orbit struct {
	X, Y, Z     float64
	OrbitSpeed  float64
	ShouldOrbit bool

	XVel, YVel, ZVel float64
	OrbitXVel        float64

	// Translation is the orbit target.
	Translation math3d.Vec3
	TXVel       float64
	TYVel       float64

	Logger *slog.Logger

	camera             *render.Camera
	forceUpdate        bool
	sceneMoveSpeedMult float64
}

// Orbit limits.
const (
	orbitMinDistance = -10
	orbitZoomDrag    = 0.85
)

// NewOrbit creates an Orbit controller for camera.
func NewOrbit(camera *render.Camera, shouldOrbit bool) *Orbit {
	return &Orbit{
		X:                  -math.Pi / 2,
		Y:                  2,
		Z:                  -150,
		OrbitSpeed:         -0.05,
		ShouldOrbit:        shouldOrbit,
		camera:             camera,
		sceneMoveSpeedMult: 1,
	}
}

func (o *Orbit) Camera() *render.Camera { return o.camera }

func (o *Orbit) SetCamera(c *render.Camera) { o.camera = c }

func (o *Orbit) ForceUpdate() { o.forceUpdate = true }

func (o *Orbit) CameraUpdateForced() {}

func (o *Orbit) SetSceneMoveSpeedMult(v float64) { o.sceneMoveSpeedMult = v }

func (o *Orbit) KeyMoveSpeed() (float64, bool) { return 0, false }

func (o *Orbit) SetKeyMoveSpeed(float64) {}

// Update moves the camera. The orbit pose is not worth persisting, so the
// result is always Unchanged.
func (o *Orbit) Update(in Input, dt, sceneTimeScale float64) UpdateResult {
	if in.IsKeyDownEventTriggered(KeyR) {
		o.ShouldOrbit = !o.ShouldOrbit
		o.logger().Debug("orbit toggled", "orbit", o.ShouldOrbit)
	}

	if in.IsKeyDownEventTriggered(KeyNumpad5) {
		o.ShouldOrbit = false
		o.XVel, o.YVel = 0, 0
	}

	if in.IsKeyDownEventTriggered(KeyB) {
		o.ShouldOrbit = false
		o.XVel, o.YVel, o.ZVel = 0, 0, 0
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
		o.XVel += dx / -200 * invertX
		o.YVel += dy / -200 * invertY
	case o.ShouldOrbit:
		if math.Abs(o.XVel) < math.Abs(o.OrbitSpeed) {
			o.OrbitXVel += o.OrbitSpeed / 50
		}
	}
	o.ZVel += dz * 5

	var keyVelX, keyVelY float64
	if in.IsKeyDown(KeyA) {
		keyVelX += 0.02
	}
	if in.IsKeyDown(KeyD) {
		keyVelX -= 0.02
	}
	if in.IsKeyDown(KeyW) {
		keyVelY += 0.02
	}
	if in.IsKeyDown(KeyS) {
		keyVelY -= 0.02
	}

	isShiftPressed := shiftDown(in)
	if isShiftPressed {
		o.XVel += -keyVelX
		o.YVel += -keyVelY
	} else {
		o.TXVel += keyVelX
		o.TYVel += -keyVelY
	}

	o.OrbitXVel = math3d.ClampRange(o.OrbitXVel, 2)
	o.XVel = math3d.ClampRange(o.XVel, 2)
	o.YVel = math3d.ClampRange(o.YVel, 2)

	updated := o.forceUpdate || o.XVel != 0 || o.OrbitXVel != 0 || o.YVel != 0 ||
		o.ZVel != 0 || o.TXVel != 0 || o.TYVel != 0
	if !updated {
		return Unchanged
	}

	drag := 0.96
	if in.IsDragging() || isShiftPressed {
		drag = 0.92
	}

	o.X += -(o.XVel + o.OrbitXVel*sceneTimeScale) / 10
	o.XVel *= drag
	o.OrbitXVel *= drag

	o.Y += -o.YVel / 10
	o.YVel *= drag

	o.TXVel *= drag
	o.TYVel *= drag

	o.Z += math.Max(math.Log(math.Abs(o.ZVel)), 0) * 5 * sign(o.ZVel) * o.sceneMoveSpeedMult
	if dz == 0 {
		o.ZVel *= orbitZoomDrag
	}
	if o.Z > orbitMinDistance {
		o.Z = orbitMinDistance
		o.ZVel = 0
	}

	world := o.camera.WorldMatrix()
	o.Translation = o.Translation.
		ScaleAdd(world.AxisX(), o.TXVel).
		ScaleAdd(world.AxisY(), o.TYVel)

	eye := math3d.UnitSpherical(o.X, o.Y).Scale(o.Z).Add(o.Translation)
	o.camera.IsOrthographic = false
	o.camera.LookAt(eye, o.Translation, math3d.UnitY())
	o.forceUpdate = false

	return Unchanged
}

func (o *Orbit) logger() *slog.Logger {
	return loggerOrDefault(o.Logger)
}

// sign returns -1 or 1 by the sign of v. Zero and NaN pass through.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v
	}
}
