// Package models loads glTF scenes as wireframe meshes with bounds for
// culling and preview.
package models

import (
	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

// Mesh is the edge set of a triangle mesh in local space.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	// Edges holds each triangle edge once, as position indices with the
	// smaller index first.
	Edges [][2]int

	// Bounds is calculated on load.
	Bounds geometry.AABB

	triangles int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:   name,
		Bounds: geometry.EmptyAABB(),
	}
}

// AddTriangles appends positions and the edges of the triangles listed in
// indices. Indices are relative to positions. A nil indices slice means
// consecutive triangles.
func (m *Mesh) AddTriangles(positions []math3d.Vec3, indices []int) {
	base := len(m.Positions)
	m.Positions = append(m.Positions, positions...)

	if indices == nil {
		indices = make([]int, len(positions)-len(positions)%3)
		for i := range indices {
			indices[i] = i
		}
	}

	seen := make(map[[2]int]struct{}, len(m.Edges))
	for _, e := range m.Edges {
		seen[e] = struct{}{}
	}
	add := func(a, b int) {
		a, b = base+a, base+b
		if a > b {
			a, b = b, a
		}
		e := [2]int{a, b}
		if a == b {
			return
		}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		m.Edges = append(m.Edges, e)
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= len(positions) || b >= len(positions) || c >= len(positions) {
			continue
		}
		add(a, b)
		add(b, c)
		add(c, a)
		m.triangles++
	}
	m.CalculateBounds()
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	m.Bounds.SetFromPoints(m.Positions...)
}

// TriangleCount returns the number of triangles added.
func (m *Mesh) TriangleCount() int {
	return m.triangles
}

// EdgeCount returns the number of distinct edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}
