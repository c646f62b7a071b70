package controls

import (
	"log/slog"
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// FPS tuning.
const (
	DefaultKeyMoveSpeed = 60

	keyMoveShiftMult      = 5
	keyMoveSlashMult      = 0.1
	keyMoveVelocityMult   = 1.0 / 5
	keyMoveDrag           = 0.8
	keyMoveLowSpeedCap    = 0.1
	keyAngleChangeVelFast = 0.1
	keyAngleChangeVelSlow = 0.02

	mouseLookSpeed       = 500
	mouseLookDragFast    = 0.0
	mouseLookDragSlow    = 0.0
	mouseMoveLowSpeedCap = 0.0001
)

// FPS is a free-flying camera: WASD/QE move, the mouse or IJKL/UO turn.
//
// Movement keeps a velocity per local axis that ramps up while a key is
// held and decays by keyMoveDrag once released. When an axis settles to
// zero the update reports ImportantChange.
type FPS struct {
	// UseViewUp moves up and down along the camera's up axis instead of
	// world +Y.
	UseViewUp bool

	// OnKeyMoveSpeed is called after SetKeyMoveSpeed.
	OnKeyMoveSpeed func()

	Logger *slog.Logger

	camera             *render.Camera
	forceUpdate        bool
	keyMoveSpeed       float64
	sceneMoveSpeedMult float64

	keyMovement   math3d.Vec3
	mouseMovement math3d.Vec3

	// worldForward locks forward motion to a fixed world direction.
	worldForward    math3d.Vec3
	hasWorldForward bool
}

// NewFPS creates an FPS controller for camera.
func NewFPS(camera *render.Camera) *FPS {
	return &FPS{
		UseViewUp:          true,
		camera:             camera,
		keyMoveSpeed:       DefaultKeyMoveSpeed,
		sceneMoveSpeedMult: 1,
	}
}

func (f *FPS) Camera() *render.Camera { return f.camera }

func (f *FPS) SetCamera(c *render.Camera) { f.camera = c }

func (f *FPS) ForceUpdate() { f.forceUpdate = true }

func (f *FPS) SetSceneMoveSpeedMult(v float64) { f.sceneMoveSpeedMult = v }

// CameraUpdateForced drops the carried key velocity.
func (f *FPS) CameraUpdateForced() {
	f.keyMovement = math3d.Zero3()
}

func (f *FPS) KeyMoveSpeed() (float64, bool) {
	return f.keyMoveSpeed, true
}

func (f *FPS) SetKeyMoveSpeed(speed float64) {
	f.keyMoveSpeed = speed
	if f.OnKeyMoveSpeed != nil {
		f.OnKeyMoveSpeed()
	}
}

// WorldForward returns the locked forward direction, if any.
func (f *FPS) WorldForward() (math3d.Vec3, bool) {
	return f.worldForward, f.hasWorldForward
}

// Velocity returns the per-axis key velocity in camera space.
func (f *FPS) Velocity() math3d.Vec3 {
	return f.keyMovement
}

func (f *FPS) Update(in Input, dt, sceneTimeScale float64) UpdateResult {
	camera := f.camera
	world := camera.WorldMatrix()
	updated := false
	important := false

	if in.IsKeyDown(KeyB) {
		world = math3d.Identity()
		f.CameraUpdateForced()
		updated = true
	}

	f.keyMoveSpeed = math.Max(f.keyMoveSpeed, 1)
	isShiftPressed := shiftDown(in)

	keyMoveMult := 1.0
	if isShiftPressed {
		keyMoveMult = keyMoveShiftMult
	}
	if in.IsKeyDown(KeyIntlBackslash) {
		keyMoveMult = keyMoveSlashMult
	}

	if in.IsKeyDownEventTriggered(KeyNumpad4) || in.IsKeyDownEventTriggered(KeyNumpad1) {
		if !f.hasWorldForward {
			f.worldForward = world.AxisZ()
			if in.IsKeyDownEventTriggered(KeyNumpad4) {
				f.worldForward = f.worldForward.QuantizeMajorAxis()
			}
			f.hasWorldForward = true
			f.logger().Debug("world forward locked", "dir", f.worldForward)
		} else {
			f.hasWorldForward = false
			f.logger().Debug("world forward unlocked")
		}
	}

	speedCap := f.keyMoveSpeed * keyMoveMult
	velocity := speedCap * keyMoveVelocityMult

	axis := func(v float64, neg, pos bool) float64 {
		switch {
		case neg:
			return math3d.ClampRange(v-velocity, speedCap)
		case pos:
			return math3d.ClampRange(v+velocity, speedCap)
		case math.Abs(v) >= keyMoveLowSpeedCap:
			v *= keyMoveDrag
			if math.Abs(v) < keyMoveLowSpeedCap {
				important = true
				v = 0
			}
		}
		return v
	}

	km := &f.keyMovement
	km.Z = axis(km.Z,
		in.IsKeyDown(KeyW) || in.IsKeyDown(KeyArrowUp) || in.Buttons()&3 == 3,
		in.IsKeyDown(KeyS) || in.IsKeyDown(KeyArrowDown))
	km.Z += -in.PinchDeltaDist() * velocity

	km.X = axis(km.X,
		in.IsKeyDown(KeyA) || in.IsKeyDown(KeyArrowLeft),
		in.IsKeyDown(KeyD) || in.IsKeyDown(KeyArrowRight))
	km.X += -in.TouchDeltaX() * velocity

	km.Y = axis(km.Y,
		in.IsKeyDown(KeyQ) || in.IsKeyDown(KeyPageDown) || (in.IsKeyDown(KeyControlLeft) && in.IsKeyDown(KeySpace)),
		in.IsKeyDown(KeyE) || in.IsKeyDown(KeyPageUp) || in.IsKeyDown(KeySpace))
	km.Y += in.TouchDeltaY() * velocity

	view := camera.ViewMatrix()
	viewUp := math3d.UnitY()
	if f.UseViewUp {
		viewUp = view.AxisY()
	}

	viewRight, viewForward := math3d.UnitX(), math3d.UnitZ()
	if f.hasWorldForward {
		viewForward = view.MulVec3Dir(f.worldForward)
		viewRight = viewUp.Cross(viewForward)
	}

	if !km.IsZero() {
		move := viewRight.Scale(km.X).
			ScaleAdd(viewForward, km.Z).
			ScaleAdd(viewUp, km.Y).
			Scale(f.sceneMoveSpeedMult)
		camera.LinearVelocity = move
		world = world.Translated(move)
		updated = true
	} else {
		camera.LinearVelocity = math3d.Zero3()
	}

	invertX := invertMult(in.InvertX())
	invertY := invertMult(in.InvertY())
	mm := &f.mouseMovement
	mm.X += in.MouseDeltaX() * (-1.0 / mouseLookSpeed) * invertX
	mm.Y += in.MouseDeltaY() * (-1.0 / mouseLookSpeed) * invertY

	angleVel := keyAngleChangeVelSlow
	if isShiftPressed {
		angleVel = keyAngleChangeVelFast
	}
	if in.IsKeyDown(KeyJ) {
		mm.X += angleVel * invertX
	} else if in.IsKeyDown(KeyL) {
		mm.X -= angleVel * invertX
	}
	if in.IsKeyDown(KeyI) {
		mm.Y += angleVel * invertY
	} else if in.IsKeyDown(KeyK) {
		mm.Y -= angleVel * invertY
	}
	if in.IsKeyDown(KeyU) {
		mm.Z -= angleVel
	} else if in.IsKeyDown(KeyO) {
		mm.Z += angleVel
	}

	if !mm.IsZero() {
		world = world.
			RotateAround(viewUp, mm.X).
			RotateAround(math3d.UnitX(), mm.Y).
			RotateAround(math3d.UnitZ(), mm.Z)
		updated = true

		drag := mouseLookDragSlow
		if in.IsDragging() {
			drag = mouseLookDragFast
		}
		*mm = mm.Scale(drag)
		if math.Abs(mm.X) < mouseMoveLowSpeedCap {
			mm.X = 0
		}
		if math.Abs(mm.Y) < mouseMoveLowSpeedCap {
			mm.Y = 0
		}
	}

	updated = updated || f.forceUpdate
	if updated {
		camera.IsOrthographic = false
		camera.SetWorldMatrix(world)
		f.forceUpdate = false
	}

	switch {
	case important:
		return ImportantChange
	case updated:
		return Changed
	default:
		return Unchanged
	}
}

func (f *FPS) logger() *slog.Logger {
	return loggerOrDefault(f.Logger)
}
