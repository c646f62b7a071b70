package geometry

import (
	"math"

	"github.com/taigrr/vantage/pkg/math3d"
)

// DepthRange is the clip-space depth interval a projection writes.
type DepthRange int

const (
	// DepthNegativeOneToOne is the OpenGL convention.
	DepthNegativeOneToOne DepthRange = iota
	// DepthZeroToOne is the D3D/Vulkan/WebGPU convention.
	DepthZeroToOne
)

// PlanesFromMatrix extracts outward-facing frustum planes from a combined
// clip-from-world matrix using the Gribb/Hartmann method. reversed swaps
// which depth bound is the near plane. Planes use the Frustum ordering.
//
// With an infinite far plane the far plane degenerates to a zero normal.
func PlanesFromMatrix(m math3d.Mat4, depth DepthRange, reversed bool) [6]Plane {
	// For column-major matrix m, row i element j is at m[i + j*4].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, w0 := row(0)
	r1, w1 := row(1)
	r2, w2 := row(2)
	r3, w3 := row(3)

	inward := func(n math3d.Vec3, d float64) Plane {
		return Plane{Normal: n, D: d}
	}

	var lower Plane
	if depth == DepthZeroToOne {
		lower = inward(r2, w2)
	} else {
		lower = inward(r3.Add(r2), w3+w2)
	}
	upper := inward(r3.Sub(r2), w3-w2)

	near, far := lower, upper
	if reversed {
		near, far = upper, lower
	}

	planes := [6]Plane{
		FrustumLeft:   inward(r3.Add(r0), w3+w0),
		FrustumRight:  inward(r3.Sub(r0), w3-w0),
		FrustumNear:   near,
		FrustumFar:    far,
		FrustumTop:    inward(r3.Sub(r1), w3-w1),
		FrustumBottom: inward(r3.Add(r1), w3+w1),
	}

	// Flip to outward normals and normalize all planes.
	for i := range planes {
		planes[i].Normal = planes[i].Normal.Negate()
		planes[i].D = -planes[i].D
		planes[i].Normalize()
	}
	return planes
}

// SetViewFrustumFromProjection sets the view-space shape of an OpenGL
// projection matrix. Off-center and orthographic projections are read from
// the extracted planes; a degenerate far plane means an infinite far.
func (f *Frustum) SetViewFrustumFromProjection(proj math3d.Mat4) {
	planes := PlanesFromMatrix(proj, DepthNegativeOneToOne, false)

	near := planeDepth(planes[FrustumNear])
	far := math.Inf(1)
	if !planes[FrustumFar].Normal.IsZero() {
		far = planeDepth(planes[FrustumFar])
	}

	// Where each side plane crosses the near plane on the view axes.
	sideX := func(p Plane) float64 { return (p.Normal.Z*near - p.D) / p.Normal.X }
	sideY := func(p Plane) float64 { return (p.Normal.Z*near - p.D) / p.Normal.Y }

	f.SetViewFrustum(
		sideX(planes[FrustumLeft]), sideX(planes[FrustumRight]),
		sideY(planes[FrustumBottom]), sideY(planes[FrustumTop]),
		near, far, proj[11] == 0,
	)
}

// planeDepth returns the view distance at which p crosses the -Z axis.
func planeDepth(p Plane) float64 {
	return p.D / p.Normal.Z
}
