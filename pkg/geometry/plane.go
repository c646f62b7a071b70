// Package geometry provides planes, axis-aligned bounding boxes and view
// frustums for visibility culling.
package geometry

import (
	"github.com/taigrr/vantage/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlaneFromPoints builds the plane through three points. See Set.
func NewPlaneFromPoints(p0, p1, p2 math3d.Vec3) Plane {
	var p Plane
	p.Set(p0, p1, p2)
	return p
}

// Set makes p the plane through p0, p1 and p2. The normal is
// normalize((p1-p0) x (p2-p0)), so the winding picks the side it faces.
// Collinear points yield a zero normal.
func (p *Plane) Set(p0, p1, p2 math3d.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	p.Normal = n
	p.D = -n.Dot(p0)
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to (x, y, z).
func (p Plane) Distance(x, y, z float64) float64 {
	return p.Normal.X*x + p.Normal.Y*y + p.Normal.Z*z + p.D
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}
