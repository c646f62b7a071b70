package geometry

import (
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
//
// The zero-content box has Min = +Inf and Max = -Inf on every axis so that
// unions absorb it. Use EmptyAABB to get one.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// AABBFromPoints returns the tightest box around pts. No points yields an
// empty box.
func AABBFromPoints(pts ...math3d.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range pts {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Reset empties the box.
func (b *AABB) Reset() {
	*b = EmptyAABB()
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Extents returns the half size, clamped at zero so empty boxes report none.
func (b AABB) Extents() math3d.Vec3 {
	return b.Size().Scale(0.5).Max(math3d.Zero3())
}

// Corner returns corner i in 0..7. Bit 0 selects max X, bit 1 max Y and
// bit 2 max Z.
func (b AABB) Corner(i int) math3d.Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Corners returns all eight corners in Corner order.
func (b AABB) Corners() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		out[i] = b.Corner(i)
	}
	return out
}

// DiagonalLengthSquared returns the squared length of the min-to-max
// diagonal.
func (b AABB) DiagonalLengthSquared() float64 {
	return b.Size().LenSq()
}

// BoundingSphereRadius returns half the diagonal: the radius of the
// smallest sphere around the box, centered on Center.
func (b AABB) BoundingSphereRadius() float64 {
	s := b.Size()
	return math.Hypot(math.Hypot(s.X, s.Y), s.Z) / 2
}

// MaxCornerRadius returns the distance from the origin to the farthest
// corner. Use it for bounds centered on the origin.
func (b AABB) MaxCornerRadius() float64 {
	x := math.Max(b.Max.X, -b.Min.X)
	y := math.Max(b.Max.Y, -b.Min.Y)
	z := math.Max(b.Max.Z, -b.Min.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// IsEmpty reports whether the box contains no points (min > max on some
// axis). A box collapsed onto a single point is not empty.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// IsDegenerate reports whether the box has no volume on every axis, which
// covers both empty boxes and single points.
func (b AABB) IsDegenerate() bool {
	return b.Extents().IsZero()
}

// Transform returns the tight AABB of the box under the affine transform m.
// Each output axis sums the smaller and larger contributions of the three
// input axes on top of the translation (Graphics Gems, "Transforming
// Axis-Aligned Bounding Boxes").
func (b AABB) Transform(m math3d.Mat4) AABB {
	dstMin := m.Translation()
	dstMax := dstMin

	for i := range 3 {
		lo, hi := dstMin.Index(i), dstMax.Index(i)
		for j := range 3 {
			e := m[j*4+i]
			a := e * b.Min.Index(j)
			c := e * b.Max.Index(j)
			if a < c {
				lo += a
				hi += c
			} else {
				lo += c
				hi += a
			}
		}
		dstMin.SetIndex(i, lo)
		dstMax.SetIndex(i, hi)
	}

	return AABB{Min: dstMin, Max: dstMax}
}

// Union returns the smallest box containing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// UnionPoint grows the box to contain p and reports whether it changed.
func (b *AABB) UnionPoint(p math3d.Vec3) bool {
	changed := false
	for i := range 3 {
		v := p.Index(i)
		if v < b.Min.Index(i) {
			b.Min.SetIndex(i, v)
			changed = true
		}
		if v > b.Max.Index(i) {
			b.Max.SetIndex(i, v)
			changed = true
		}
	}
	return changed
}

// Intersect reports whether a and b overlap. Touching boxes overlap.
func Intersect(a, b AABB) bool {
	return !(a.Min.X > b.Max.X || b.Min.X > a.Max.X ||
		a.Min.Y > b.Max.Y || b.Min.Y > a.Max.Y ||
		a.Min.Z > b.Max.Z || b.Min.Z > a.Max.Z)
}

// Intersects is the method form of Intersect.
func (b AABB) Intersects(o AABB) bool {
	return Intersect(b, o)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return !(p.X < b.Min.X || p.X > b.Max.X ||
		p.Y < b.Min.Y || p.Y > b.Max.Y ||
		p.Z < b.Min.Z || p.Z > b.Max.Z)
}

// ContainsSphere reports whether a sphere may touch the box. The test
// inflates the box by radius, so corners are treated generously.
func (b AABB) ContainsSphere(center math3d.Vec3, radius float64) bool {
	return !(center.X < b.Min.X-radius || center.X > b.Max.X+radius ||
		center.Y < b.Min.Y-radius || center.Y > b.Max.Y+radius ||
		center.Z < b.Min.Z-radius || center.Z > b.Max.Z+radius)
}

// SquaredDistanceToPoint returns the squared distance from p to the nearest
// point of the box; zero when p is inside.
func (b AABB) SquaredDistanceToPoint(p math3d.Vec3) float64 {
	return SquaredDistanceFromPointToAABB(p, b)
}

// SquaredDistanceFromPointToAABB returns the squared distance from p to the
// box b, not to its center.
func SquaredDistanceFromPointToAABB(p math3d.Vec3, b AABB) float64 {
	var sq float64
	for i := range 3 {
		v := p.Index(i)
		if lo := b.Min.Index(i); v < lo {
			sq += (lo - v) * (lo - v)
		} else if hi := b.Max.Index(i); v > hi {
			sq += (v - hi) * (v - hi)
		}
	}
	return sq
}

// TransformAABB transforms an AABB by a matrix and returns the new bounds.
// This is a convenience function wrapping AABB.Transform.
func TransformAABB(box AABB, m math3d.Mat4) AABB {
	return box.Transform(m)
}

// SetFromPoints replaces the box with the tightest bounds around pts.
func (b *AABB) SetFromPoints(pts ...math3d.Vec3) {
	*b = AABBFromPoints(pts...)
}
