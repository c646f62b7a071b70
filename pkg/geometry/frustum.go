package geometry

import (
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
)

// IntersectionState classifies a volume against a frustum.
type IntersectionState int

const (
	FullyInside IntersectionState = iota
	FullyOutside
	PartialIntersect
)

func (s IntersectionState) String() string {
	switch s {
	case FullyInside:
		return "inside"
	case FullyOutside:
		return "outside"
	case PartialIntersect:
		return "partial"
	default:
		return "unknown"
	}
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumNear
	FrustumFar
	FrustumTop
	FrustumBottom
)

// Frustum is a view volume described in view space and cached in world
// space.
//
// Near and Far hold the negated plane distances passed to SetViewFrustum,
// since the camera looks down -Z. Far may be -Inf for an infinite far
// plane; the world-space far plane then has a NaN D and the AABB is all
// NaN, and both are skipped by the culling tests.
//
// Planes are ordered Left, Right, Near, Far, Top, Bottom. Each normal points
// outward, so a positive distance means outside.
type Frustum struct {
	Left, Right, Bottom, Top float64
	Near, Far                float64
	IsOrthographic           bool

	AABB   AABB
	Planes [6]Plane
}

// SetViewFrustum sets the view-space shape. near and far are positive
// distances in front of the camera; far may be +Inf.
func (f *Frustum) SetViewFrustum(left, right, bottom, top, near, far float64, orthographic bool) {
	f.Left = left
	f.Right = right
	f.Bottom = bottom
	f.Top = top
	f.Near = -near
	f.Far = -far
	f.IsOrthographic = orthographic
}

// CopyViewFrustum copies the view-space shape of other. World-space state
// is left alone until the next UpdateWorldFrustum.
func (f *Frustum) CopyViewFrustum(other *Frustum) {
	f.SetViewFrustum(other.Left, other.Right, other.Bottom, other.Top, -other.Near, -other.Far, other.IsOrthographic)
}

// HasInfiniteFar reports whether the far plane is at infinity.
func (f *Frustum) HasInfiniteFar() bool {
	return math.IsInf(f.Far, 0)
}

// FarPlaneBounded reports whether the world-space far plane and AABB hold
// finite values. It is false after UpdateWorldFrustum with an infinite far.
func (f *Frustum) FarPlaneBounded() bool {
	return !math.IsNaN(f.Planes[FrustumFar].D)
}

// ViewCorners returns the eight view-space corners: near plane first
// (left-top, right-top, right-bottom, left-bottom), then the far plane in
// the same order. An infinite far plane is replaced by one a unit beyond
// near; only its direction matters for the side planes.
func (f *Frustum) ViewCorners() [8]math3d.Vec3 {
	finiteFar := f.Far
	if f.HasInfiniteFar() {
		finiteFar = math.Copysign(math.Abs(f.Near)+1, f.Far)
	}

	fn := 1.0
	if !f.IsOrthographic {
		fn = finiteFar / f.Near
	}

	return [8]math3d.Vec3{
		{X: f.Left, Y: f.Top, Z: f.Near},
		{X: f.Right, Y: f.Top, Z: f.Near},
		{X: f.Right, Y: f.Bottom, Z: f.Near},
		{X: f.Left, Y: f.Bottom, Z: f.Near},
		{X: fn * f.Left, Y: fn * f.Top, Z: finiteFar},
		{X: fn * f.Right, Y: fn * f.Top, Z: finiteFar},
		{X: fn * f.Right, Y: fn * f.Bottom, Z: finiteFar},
		{X: fn * f.Left, Y: fn * f.Bottom, Z: finiteFar},
	}
}

// WorldCorners returns ViewCorners transformed by worldMatrix.
func (f *Frustum) WorldCorners(worldMatrix math3d.Mat4) [8]math3d.Vec3 {
	corners := f.ViewCorners()
	for i := range corners {
		corners[i] = worldMatrix.MulVec3(corners[i])
	}
	return corners
}

// UpdateWorldFrustum rebuilds the world-space planes and AABB for a camera
// whose view-to-world transform is worldMatrix.
func (f *Frustum) UpdateWorldFrustum(worldMatrix math3d.Mat4) {
	c := f.WorldCorners(worldMatrix)

	// The winding of each triple makes the normal face out of the volume.
	f.Planes[FrustumLeft].Set(c[0], c[4], c[7])
	f.Planes[FrustumRight].Set(c[2], c[6], c[5])
	f.Planes[FrustumNear].Set(c[0], c[2], c[1])
	f.Planes[FrustumFar].Set(c[4], c[6], c[7])
	f.Planes[FrustumTop].Set(c[1], c[5], c[4])
	f.Planes[FrustumBottom].Set(c[3], c[7], c[6])

	if f.HasInfiniteFar() {
		nan := math.NaN()
		f.Planes[FrustumFar].D = nan
		f.AABB = AABB{
			Min: math3d.V3(nan, nan, nan),
			Max: math3d.V3(nan, nan, nan),
		}
		return
	}
	f.AABB = AABBFromPoints(c[:]...)
}

// Intersect classifies box against the frustum.
func (f *Frustum) Intersect(box AABB) IntersectionState {
	// NaN bounds fail every comparison, so an unbounded AABB never rejects.
	if !Intersect(f.AABB, box) {
		return FullyOutside
	}

	ret := FullyInside
	for i := range f.Planes {
		plane := f.Planes[i]

		// Nearest corner to the plane along its normal.
		nVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			selectComponent(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			selectComponent(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.DistanceToPoint(nVertex) > 0 {
			return FullyOutside
		}

		// Farthest corner.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) > 0 {
			ret = PartialIntersect
		}
	}

	return ret
}

// Contains reports whether any part of box may be visible.
func (f *Frustum) Contains(box AABB) bool {
	return f.Intersect(box) != FullyOutside
}

// IntersectSphere classifies a sphere against the frustum.
func (f *Frustum) IntersectSphere(center math3d.Vec3, radius float64) IntersectionState {
	if !f.AABB.ContainsSphere(center, radius) {
		return FullyOutside
	}

	ret := FullyInside
	for i := range f.Planes {
		dist := f.Planes[i].DistanceToPoint(center)
		if dist > radius {
			return FullyOutside
		} else if dist > -radius {
			ret = PartialIntersect
		}
	}
	return ret
}

// ContainsSphere reports whether any part of the sphere may be visible.
func (f *Frustum) ContainsSphere(center math3d.Vec3, radius float64) bool {
	return f.IntersectSphere(center, radius) != FullyOutside
}

// ContainsPoint tests if a point is inside the frustum.
func (f *Frustum) ContainsPoint(p math3d.Vec3) bool {
	if !f.AABB.ContainsPoint(p) {
		return false
	}
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) > 0 {
			return false
		}
	}
	return true
}

// selectComponent is a branchless conditional selection helper.
func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
