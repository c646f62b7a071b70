package controls

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// DefaultXRWorldScale maps one tracked meter to scene units.
const DefaultXRWorldScale = 70

// XRGamepad is the state of a tracked controller's gamepad. Buttons holds
// analog button values in 0..1.
type XRGamepad struct {
	Axes    []float64
	Buttons []float64
}

// XRView is one eye of an XR frame.
type XRView struct {
	// World is the eye's pose in the local reference space.
	World math3d.Mat4
	// Projection is the device projection in the OpenGL convention.
	Projection math3d.Mat4
}

// XRSession is the per-frame view of a running XR session.
type XRSession interface {
	// Gamepads returns the gamepads of the connected input sources.
	// Sources without a gamepad are omitted.
	Gamepads() []XRGamepad
	// OffsetPosition returns where the viewer would be, in local space,
	// after moving by offset in its own view space. ok is false when the
	// device has lost tracking.
	OffsetPosition(offset math3d.Vec3) (pos math3d.Vec3, ok bool)
	Views() []XRView
}

// XR drives one camera per XR view. Gamepad sticks move the viewer and
// tracked poses are scaled by WorldScale.
type XR struct {
	Cameras    []*render.Camera
	Offset     math3d.Vec3
	WorldScale float64

	// NewCamera creates cameras when the view count grows. Defaults to
	// render.NewCamera.
	NewCamera func() *render.Camera

	Logger *slog.Logger
}

// NewXR creates an XR controller.
func NewXR() *XR {
	return &XR{WorldScale: DefaultXRWorldScale}
}

// Update applies one XR frame and reports whether any camera moved. A nil
// session does nothing.
func (x *XR) Update(session XRSession) bool {
	if session == nil {
		return false
	}
	updated := false

	speed := x.WorldScale
	var keyMovement math3d.Vec3
	for _, pad := range session.Gamepads() {
		if len(pad.Axes) < 3 || len(pad.Buttons) < 1 {
			continue
		}
		keyMovement = math3d.V3(
			pad.Axes[2]*speed,
			(index(pad.Buttons, 0)-index(pad.Buttons, 1))*speed,
			index(pad.Axes, 3)*speed,
		)
	}

	if !keyMovement.IsZero() {
		if pos, ok := session.OffsetPosition(math3d.V3(keyMovement.X, 0, keyMovement.Z)); ok {
			x.Offset.X += pos.X
			x.Offset.Y += keyMovement.Y
			x.Offset.Z += pos.Z
		}
		updated = true
	}

	views := session.Views()
	if len(views) != len(x.Cameras) {
		for i := len(x.Cameras); i < len(views); i++ {
			x.Cameras = append(x.Cameras, x.newCamera())
		}
		x.Cameras = x.Cameras[:len(views)]
		x.logger().Debug("xr views changed", "views", len(views))
	}
	if len(x.Cameras) != len(views) {
		panic(fmt.Sprintf("controls: %d xr cameras for %d views", len(x.Cameras), len(views)))
	}

	for i, camera := range x.Cameras {
		view := views[i]

		rot, scale, translation := math3d.Decompose(view.World)
		// Scale the tracked position up and add the stick offset.
		translation = x.Offset.Sub(translation).ScaleAdd(translation, x.WorldScale)
		world := math3d.Compose(rot, translation, scale)

		camera.IsOrthographic = false
		camera.SetWorldMatrix(world)

		p := view.Projection
		camera.FovY = 2 * math.Atan(1/p[5])
		camera.Aspect = p[5] / p[0]
		camera.ShearX = p[8]
		camera.ShearY = p[9]

		// The frustum comes from the symmetric planes; the device matrix,
		// shear included, then replaces the projection.
		camera.SetXROverrideEnabled(false)
		camera.SetClipPlanes(5, math.Inf(1))
		camera.SetXROverrideEnabled(true)
		camera.SetProjectionMatrix(p)

		updated = true
	}

	return updated
}

func (x *XR) newCamera() *render.Camera {
	if x.NewCamera != nil {
		return x.NewCamera()
	}
	return render.NewCamera()
}

func (x *XR) logger() *slog.Logger {
	return loggerOrDefault(x.Logger)
}

// index returns s[i], or 0 when s is too short.
func index(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}
