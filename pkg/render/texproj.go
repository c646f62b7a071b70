package render

import (
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
)

// Viewport is a rectangle of a render target in normalized 0..1
// coordinates.
type Viewport struct {
	X, Y, W, H float64
}

// FullViewport covers the whole target.
var FullViewport = Viewport{X: 0, Y: 0, W: 1, H: 1}

// TexProjCameraSceneTex returns a matrix that maps view-space positions to
// texture coordinates inside viewport, for projecting the camera's scene
// texture back onto geometry. flipYScale is 1 or -1 depending on the
// target's row order. Camera shear is folded in for XR views.
func TexProjCameraSceneTex(c *Camera, viewport Viewport, flipYScale float64) math3d.Mat4 {
	// -1..1 to 0..1, then 0..1 to the viewport.
	scaleS := 0.5 * viewport.W
	scaleT := -0.5 * flipYScale * viewport.H
	transS := 0.5*viewport.W + viewport.X
	transT := 0.5*viewport.H + viewport.Y

	var dst math3d.Mat4
	if c.IsOrthographic {
		f := &c.Frustum
		dst = texProjOrtho(f.Left, f.Right, f.Bottom, f.Top, scaleS, scaleT, transS, transT)
	} else {
		dst = texProjPersp(c.FovY, c.Aspect, scaleS, scaleT, transS, transT)
	}

	dst[8] += c.ShearX * scaleS
	dst[9] += c.ShearY * math.Abs(scaleT)
	return dst
}

func texProjPersp(fovY, aspect, scaleS, scaleT, transS, transT float64) math3d.Mat4 {
	cot := 1 / math.Tan(fovY/2)

	var m math3d.Mat4
	m[0] = (cot / aspect) * scaleS
	m[8] = -transS
	m[5] = cot * scaleT
	m[9] = -transT
	m[10] = -1
	m[15] = 1
	return m
}

func texProjOrtho(left, right, bottom, top, scaleS, scaleT, transS, transT float64) math3d.Mat4 {
	h := 1 / (right - left)
	v := 1 / (top - bottom)

	var m math3d.Mat4
	m[0] = 2 * h * scaleS
	m[12] = -(right+left)*h*scaleS + transS
	m[5] = 2 * v * scaleT
	m[13] = -(top+bottom)*v*scaleT + transT
	m[14] = 1
	m[15] = 1
	return m
}
