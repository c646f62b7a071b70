package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

// ErrNoMeshes is returned when a scene has no triangle geometry.
var ErrNoMeshes = errors.New("scene has no meshes")

// Scene is a flattened glTF scene.
type Scene struct {
	Name    string
	Nodes   []Node
	Cameras []CameraNode
	// Bounds is the world-space union of all node bounds.
	Bounds geometry.AABB
}

// Node places a mesh in the world.
type Node struct {
	Name  string
	World math3d.Mat4
	Mesh  *Mesh
	// Bounds is the mesh bounds in world space.
	Bounds geometry.AABB
}

// CameraNode is a camera found in the scene graph.
type CameraNode struct {
	Name  string
	World math3d.Mat4

	Orthographic bool
	// YFov and Aspect are set for perspective cameras. Aspect is zero when
	// the file leaves it to the viewport.
	YFov   float64
	Aspect float64
	// YMag is the orthographic half height.
	YMag float64
	Near float64
	// Far is math.Inf(1) for perspective cameras without a far plane.
	Far float64
}

// Projection returns the camera's OpenGL projection for a viewport of the
// given aspect.
func (c CameraNode) Projection(aspect float64) math3d.Mat4 {
	if c.Orthographic {
		return math3d.Orthographic(-c.YMag*aspect, c.YMag*aspect, -c.YMag, c.YMag, c.Near, c.Far)
	}
	return math3d.Perspective(c.YFov, aspect, c.Near, c.Far)
}

// TriangleCount returns the number of triangles drawn by the scene.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, node := range s.Nodes {
		n += node.Mesh.TriangleCount()
	}
	return n
}

// LoadScene loads a .gltf or .glb file. Meshes are shared between the
// nodes that instance them. Non-triangle primitives are skipped.
func LoadScene(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	scene, err := sceneFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return scene, nil
}

func sceneFromDocument(doc *gltf.Document, name string) (*Scene, error) {
	meshes := make([]*Mesh, len(doc.Meshes))
	for i, m := range doc.Meshes {
		mesh, err := loadMesh(doc, m)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		meshes[i] = mesh
	}

	scene := &Scene{Name: name, Bounds: geometry.EmptyAABB()}

	var walk func(idx int, parent math3d.Mat4, depth int) error
	walk = func(idx int, parent math3d.Mat4, depth int) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", idx)
		}
		if depth > len(doc.Nodes) {
			return fmt.Errorf("node %d: cycle in scene graph", idx)
		}
		n := doc.Nodes[idx]
		world := parent.Mul(localMatrix(n))

		if n.Mesh != nil && *n.Mesh < len(meshes) {
			mesh := meshes[*n.Mesh]
			if len(mesh.Edges) > 0 {
				node := Node{
					Name:   n.Name,
					World:  world,
					Mesh:   mesh,
					Bounds: mesh.Bounds.Transform(world),
				}
				scene.Nodes = append(scene.Nodes, node)
				scene.Bounds = scene.Bounds.Union(node.Bounds)
			}
		}
		if n.Camera != nil && *n.Camera < len(doc.Cameras) {
			scene.Cameras = append(scene.Cameras, cameraNode(doc.Cameras[*n.Camera], n.Name, world))
		}
		for _, child := range n.Children {
			if err := walk(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, math3d.Identity(), 0); err != nil {
			return nil, err
		}
	}

	if len(scene.Nodes) == 0 {
		return nil, ErrNoMeshes
	}
	return scene, nil
}

// rootNodes returns the nodes of the default scene, or of the first scene,
// or every parentless node when the file has no scenes.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// localMatrix returns the node transform: the explicit matrix when one is
// given, otherwise translation * rotation * scale.
func localMatrix(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != ([16]float64{}) && n.Matrix != identity16 {
		return math3d.Mat4(n.Matrix)
	}

	t := n.Translation
	r := n.Rotation
	s := n.Scale
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	rot := mgl64.QuatIdent()
	if r != ([4]float64{}) {
		rot = mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
	}
	return math3d.Compose(rot, math3d.V3(t[0], t[1], t[2]), math3d.V3(s[0], s[1], s[2]))
}

func cameraNode(c *gltf.Camera, nodeName string, world math3d.Mat4) CameraNode {
	name := c.Name
	if name == "" {
		name = nodeName
	}
	cn := CameraNode{Name: name, World: world}
	switch {
	case c.Perspective != nil:
		p := c.Perspective
		cn.YFov = p.Yfov
		cn.Near = p.Znear
		cn.Far = math.Inf(1)
		if p.AspectRatio != nil {
			cn.Aspect = *p.AspectRatio
		}
		if p.Zfar != nil {
			cn.Far = *p.Zfar
		}
	case c.Orthographic != nil:
		o := c.Orthographic
		cn.Orthographic = true
		cn.YMag = o.Ymag
		if o.Ymag != 0 {
			cn.Aspect = o.Xmag / o.Ymag
		}
		cn.Near = o.Znear
		cn.Far = o.Zfar
	}
	return cn
}

// loadMesh extracts the triangle edges of every primitive.
func loadMesh(doc *gltf.Document, m *gltf.Mesh) (*Mesh, error) {
	mesh := NewMesh(m.Name)
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		}
		mesh.AddTriangles(positions, indices)
	}
	return mesh, nil
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor, data, stride, err := accessorBytes(doc, accessorIdx, 12)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		result[i] = math3d.V3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
		)
	}
	return result, nil
}

// readIndices reads unsigned SCALAR index data from an accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	var size int
	switch doc.Accessors[accessorIdx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", doc.Accessors[accessorIdx].ComponentType)
	}

	accessor, data, stride, err := accessorBytes(doc, accessorIdx, size)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}

// accessorBytes returns the accessor and its buffer bytes starting at the
// first element, checked to hold Count elements of elemSize at the
// returned stride.
func accessorBytes(doc *gltf.Document, accessorIdx, elemSize int) (*gltf.Accessor, []byte, int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buf := doc.Buffers[view.Buffer].Data
	if buf == nil {
		return nil, nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	if accessor.Count == 0 {
		return accessor, nil, stride, nil
	}
	end := start + (accessor.Count-1)*stride + elemSize
	if start < 0 || end > len(buf) {
		return nil, nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buf))
	}
	return accessor, buf[start:end], stride, nil
}
