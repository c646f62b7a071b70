package render

import (
	"math"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

// Wireframe draws debug lines through a camera into a framebuffer.
// Segments are clipped against the view volume in clip space, so lines
// that cross the near plane are cut instead of dropped.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer

	drawn  int
	culled int
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// SetTarget swaps the camera and framebuffer, e.g. after a resize.
func (w *Wireframe) SetTarget(camera *Camera, fb *Framebuffer) {
	w.camera = camera
	w.fb = fb
}

// Stats returns how many objects DrawCulled drew and rejected since the
// last ResetStats.
func (w *Wireframe) Stats() (drawn, culled int) {
	return w.drawn, w.culled
}

// ResetStats zeroes the culling counters.
func (w *Wireframe) ResetStats() {
	w.drawn = 0
	w.culled = 0
}

// DrawLine3D draws a world-space segment and reports whether any of it
// was visible.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) bool {
	m := w.camera.clipFromWorldMatrix
	c1 := m.MulVec4(math3d.V4FromV3(p1, 1))
	c2 := m.MulVec4(math3d.V4FromV3(p2, 1))

	far, _ := w.camera.DepthRange()
	t0, t1, ok := clipSegment(c1, c2, far)
	if !ok {
		return false
	}

	a := c1.Lerp(c2, t0)
	b := c1.Lerp(c2, t1)
	x1, y1 := w.toScreen(a)
	x2, y2 := w.toScreen(b)
	w.fb.DrawLine(x1, y1, x2, y2, color)
	return true
}

func (w *Wireframe) toScreen(c math3d.Vec4) (int, int) {
	ndc := c.DivideByW()
	x := (ndc.X + 1) * 0.5 * float64(w.fb.Width)
	y := (1 - ndc.Y) * 0.5 * float64(w.fb.Height)
	return int(math.Floor(x)), int(math.Floor(y))
}

// clipSegment clips the clip-space segment c1-c2 against the view volume
// and returns the visible parameter range. farZ is the normalized depth
// of the far plane.
func clipSegment(c1, c2 math3d.Vec4, farZ float64) (t0, t1 float64, ok bool) {
	// Each boundary is inside where its value is >= 0.
	boundaries := [6]func(c math3d.Vec4) float64{
		func(c math3d.Vec4) float64 { return c.W + c.X },
		func(c math3d.Vec4) float64 { return c.W - c.X },
		func(c math3d.Vec4) float64 { return c.W + c.Y },
		func(c math3d.Vec4) float64 { return c.W - c.Y },
		func(c math3d.Vec4) float64 { return c.W - c.Z },
		func(c math3d.Vec4) float64 { return c.Z - farZ*c.W },
	}

	t0, t1 = 0, 1
	for _, f := range boundaries {
		d1, d2 := f(c1), f(c2)
		switch {
		case d1 < 0 && d2 < 0:
			return 0, 0, false
		case d1 < 0:
			t0 = math.Max(t0, d1/(d1-d2))
		case d2 < 0:
			t1 = math.Min(t1, d1/(d1-d2))
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// aabbEdges lists the box edges by Corner index.
var aabbEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// frustumEdges lists the frustum edges by ViewCorners index.
var frustumEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // near
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // far
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // sides
}

// DrawAABB draws the twelve edges of a world-space box.
func (w *Wireframe) DrawAABB(box geometry.AABB, color Color) {
	if box.IsEmpty() {
		return
	}
	corners := box.Corners()
	for _, e := range aabbEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawCameraFrustum draws the view volume of another camera. An infinite
// far plane is drawn one unit past the near plane.
func (w *Wireframe) DrawCameraFrustum(cam *Camera, color Color) {
	corners := cam.Frustum.WorldCorners(cam.worldMatrix)
	for _, e := range frustumEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawEdges draws indexed edges of local-space positions placed by world.
func (w *Wireframe) DrawEdges(positions []math3d.Vec3, edges [][2]int, world math3d.Mat4, color Color) {
	for _, e := range edges {
		w.DrawLine3D(world.MulVec3(positions[e[0]]), world.MulVec3(positions[e[1]]), color)
	}
}

// DrawCulled draws edges like DrawEdges unless the world-space bounds are
// outside the camera frustum. It reports whether the object was drawn.
func (w *Wireframe) DrawCulled(bounds geometry.AABB, positions []math3d.Vec3, edges [][2]int, world math3d.Mat4, color Color) bool {
	if !w.camera.Frustum.Contains(bounds) {
		w.culled++
		return false
	}
	w.drawn++
	w.DrawEdges(positions, edges, world, color)
	return true
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	h := size / 2
	w.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), color)
}
