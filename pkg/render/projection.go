package render

import (
	"math"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

// ViewSpaceDepthFromWorldSpacePoint returns the distance of p in front of
// the camera along its view axis. Points behind the camera are negative;
// the value is not clamped to the clip planes.
func ViewSpaceDepthFromWorldSpacePoint(c *Camera, p math3d.Vec3) float64 {
	return ViewSpaceDepthFromWorldSpacePointAndViewMatrix(c.viewMatrix, p)
}

// ViewSpaceDepthFromWorldSpaceAABB returns the view-space depth of the box
// center.
func ViewSpaceDepthFromWorldSpaceAABB(c *Camera, box geometry.AABB) float64 {
	return ViewSpaceDepthFromWorldSpacePoint(c, box.Center())
}

// ViewSpaceDepthFromWorldSpacePointAndViewMatrix is
// ViewSpaceDepthFromWorldSpacePoint for a bare view matrix.
func ViewSpaceDepthFromWorldSpacePointAndViewMatrix(view math3d.Mat4, p math3d.Vec3) float64 {
	return -view.MulVec3(p).Z
}

// ClipSpacePointFromWorldSpacePoint projects p through the camera and
// divides by w. The result is in normalized device coordinates.
func ClipSpacePointFromWorldSpacePoint(c *Camera, p math3d.Vec3) math3d.Vec3 {
	return c.clipFromWorldMatrix.MulVec4(math3d.V4FromV3(p, 1)).DivideByW().Vec3()
}

// DivideByW returns v with x, y and z divided by w and w set to 1.
func DivideByW(v math3d.Vec4) math3d.Vec4 {
	return v.DivideByW()
}

// ScreenSpaceProjection is a rectangle in flat clip space, where -1 and 1
// are the frustum side planes. Projections larger than the view extend
// past that range.
type ScreenSpaceProjection struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewScreenSpaceProjection returns an empty projection.
func NewScreenSpaceProjection() ScreenSpaceProjection {
	var p ScreenSpaceProjection
	p.Reset()
	return p
}

// Reset empties the rectangle.
func (p *ScreenSpaceProjection) Reset() {
	p.MinX = math.Inf(1)
	p.MinY = math.Inf(1)
	p.MaxX = math.Inf(-1)
	p.MaxY = math.Inf(-1)
}

// Union grows the rectangle to include (x, y).
func (p *ScreenSpaceProjection) Union(x, y float64) {
	p.MinX = math.Min(p.MinX, x)
	p.MinY = math.Min(p.MinY, y)
	p.MaxX = math.Max(p.MaxX, x)
	p.MaxY = math.Max(p.MaxY, y)
}

// ScreenArea returns the product of the half extents. A projection that
// covers the whole view measures 1; larger projections exceed it, so
// clamp if a bounded value is needed.
func (p *ScreenSpaceProjection) ScreenArea() float64 {
	extX := (p.MaxX - p.MinX) * 0.5
	extY := (p.MaxY - p.MinY) * 0.5
	return extX * extY
}

// ScreenSpaceProjectionFromWorldSpaceSphere estimates the screen rectangle
// covered by a sphere. The square around the sphere is projected at the
// depth of its nearest point, clamped to the near plane, so spheres that
// straddle or sit behind the camera still give finite bounds.
func ScreenSpaceProjectionFromWorldSpaceSphere(c *Camera, center math3d.Vec3, radius float64) ScreenSpaceProjection {
	p := NewScreenSpaceProjection()

	v := c.viewMatrix.MulVec3(center)
	nearDistance := -c.Frustum.Near
	v.Z = -math.Max(math.Abs(v.Z-radius), nearDistance)

	proj := c.projectionMatrix
	for xs := -1.0; xs <= 1; xs += 2 {
		for ys := -1.0; ys <= 1; ys += 2 {
			corner := proj.MulVec4(math3d.V4(v.X+radius*xs, v.Y+radius*ys, v.Z, 1))
			corner = DivideByW(corner)
			p.Union(corner.X, corner.Y)
		}
	}
	return p
}

// ScreenSpaceProjectionFromWorldSpaceAABB estimates the screen rectangle
// covered by a box through its bounding sphere.
func ScreenSpaceProjectionFromWorldSpaceAABB(c *Camera, box geometry.AABB) ScreenSpaceProjection {
	return ScreenSpaceProjectionFromWorldSpaceSphere(c, box.Center(), box.BoundingSphereRadius())
}
