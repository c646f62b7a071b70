package render

import (
	"math"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

// ClipSpaceNearZ is the clip-space depth value of the near end of the depth
// range a graphics backend expects.
type ClipSpaceNearZ int

const (
	// ClipSpaceNearZZero is the 0..1 convention (D3D, Vulkan, WebGPU).
	ClipSpaceNearZZero ClipSpaceNearZ = iota
	// ClipSpaceNearZNegativeOne is the OpenGL -1..1 convention.
	ClipSpaceNearZNegativeOne
)

func (c ClipSpaceNearZ) String() string {
	switch c {
	case ClipSpaceNearZZero:
		return "zero"
	case ClipSpaceNearZNegativeOne:
		return "negative-one"
	default:
		return "unknown"
	}
}

// Camera holds the pose and projection of one render view.
//
// The world matrix maps view space to world space and the view matrix is
// its inverse. Both are only changed through SetWorldMatrix or
// SetViewMatrix, which keep them in sync and refresh the frustum and the
// clip-from-world matrix.
//
// The projection always uses reversed depth: the near plane maps to 1 and
// the far plane to 0 (or -1 under ClipSpaceNearZNegativeOne).
type Camera struct {
	viewMatrix          math3d.Mat4
	worldMatrix         math3d.Mat4
	projectionMatrix    math3d.Mat4
	clipFromWorldMatrix math3d.Mat4

	// LinearVelocity is the world-space displacement applied this frame.
	LinearVelocity math3d.Vec3

	Frustum geometry.Frustum

	FovY           float64 // Vertical field of view in radians
	OrthoScaleY    float64 // Half height of the orthographic volume
	Aspect         float64 // Width / Height
	IsOrthographic bool
	ShearX         float64
	ShearY         float64
	ClipSpaceNearZ ClipSpaceNearZ

	forceInfiniteFarPlane bool
	xrOverride            bool
}

// CameraOption configures a Camera in NewCamera.
type CameraOption func(*Camera)

// WithClipSpaceNearZ sets the clip-space depth convention of the
// projection matrix.
func WithClipSpaceNearZ(nearZ ClipSpaceNearZ) CameraOption {
	return func(c *Camera) {
		c.ClipSpaceNearZ = nearZ
	}
}

// WithForceInfiniteFarPlane makes every perspective projection use an
// infinite far plane.
func WithForceInfiniteFarPlane(force bool) CameraOption {
	return func(c *Camera) {
		c.forceInfiniteFarPlane = force
	}
}

// WithPerspective sets the initial perspective projection.
func WithPerspective(fovY, aspect, near, far float64) CameraOption {
	return func(c *Camera) {
		c.SetPerspective(fovY, aspect, near, far)
	}
}

// WithOrthographic sets the initial orthographic projection.
func WithOrthographic(scaleY, aspect, near, far float64) CameraOption {
	return func(c *Camera) {
		c.SetOrthographic(scaleY, aspect, near, far)
	}
}

// WithWorldMatrix sets the initial camera pose.
func WithWorldMatrix(m math3d.Mat4) CameraOption {
	return func(c *Camera) {
		c.SetWorldMatrix(m)
	}
}

// NewCamera creates a camera at the origin looking down -Z with a 60 degree
// perspective projection. Options are applied in order.
func NewCamera(opts ...CameraOption) *Camera {
	c := &Camera{
		viewMatrix:  math3d.Identity(),
		worldMatrix: math3d.Identity(),
	}
	c.SetPerspective(math.Pi/3, 16.0/9.0, 0.1, 1000)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.viewMatrix
}

// WorldMatrix returns the view-to-world matrix, the camera pose.
func (c *Camera) WorldMatrix() math3d.Mat4 {
	return c.worldMatrix
}

// ProjectionMatrix returns the view-to-clip matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return c.projectionMatrix
}

// ClipFromWorldMatrix returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ClipFromWorldMatrix() math3d.Mat4 {
	return c.clipFromWorldMatrix
}

// ViewProjectionMatrix is an alias for ClipFromWorldMatrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.clipFromWorldMatrix
}

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 {
	return c.worldMatrix.Translation()
}

// Forward returns the world-space view direction (-Z of the pose).
func (c *Camera) Forward() math3d.Vec3 {
	return c.worldMatrix.AxisZ().Negate().Normalize()
}

// Right returns the world-space right vector.
func (c *Camera) Right() math3d.Vec3 {
	return c.worldMatrix.AxisX().Normalize()
}

// Up returns the world-space up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.worldMatrix.AxisY().Normalize()
}

// SetWorldMatrix sets the camera pose. The view matrix becomes its
// inverse and derived state is refreshed. A singular matrix leaves the
// view matrix unchanged.
func (c *Camera) SetWorldMatrix(m math3d.Mat4) {
	c.worldMatrix = m
	if inv, ok := m.Invert(); ok {
		c.viewMatrix = inv
	}
	c.WorldMatrixUpdated()
}

// SetViewMatrix sets the world-to-view matrix. The world matrix becomes
// its inverse and derived state is refreshed.
func (c *Camera) SetViewMatrix(m math3d.Mat4) {
	c.viewMatrix = m
	if inv, ok := m.Invert(); ok {
		c.worldMatrix = inv
	}
	c.WorldMatrixUpdated()
}

// LookAt places the camera at eye facing target.
func (c *Camera) LookAt(eye, target, up math3d.Vec3) {
	c.SetViewMatrix(math3d.LookAt(eye, target, up))
}

// Identity resets the pose to the origin looking down -Z.
func (c *Camera) Identity() {
	c.SetWorldMatrix(math3d.Identity())
}

// WorldMatrixUpdated rebuilds the world-space frustum and the
// clip-from-world matrix from the current pose.
func (c *Camera) WorldMatrixUpdated() {
	c.Frustum.UpdateWorldFrustum(c.worldMatrix)
	c.updateClipFromWorld()
}

// SetXROverrideEnabled marks the projection as owned by an XR device.
// While enabled SetClipPlanes does nothing.
func (c *Camera) SetXROverrideEnabled(enabled bool) {
	c.xrOverride = enabled
}

// XROverrideEnabled reports whether an XR device owns the projection.
func (c *Camera) XROverrideEnabled() bool {
	return c.xrOverride
}

// SetForceInfiniteFarPlane makes later perspective projections ignore the
// requested far distance.
func (c *Camera) SetForceInfiniteFarPlane(force bool) {
	c.forceInfiniteFarPlane = force
}

// SetPerspective sets a symmetric perspective projection. far may be
// math.Inf(1).
func (c *Camera) SetPerspective(fovY, aspect, near, far float64) {
	c.FovY = fovY
	c.Aspect = aspect
	c.IsOrthographic = false

	if c.forceInfiniteFarPlane {
		far = math.Inf(1)
	}

	nearY := math.Tan(fovY*0.5) * near
	nearX := nearY * aspect
	c.setFrustum(-nearX, nearX, -nearY, nearY, near, far)
}

// SetOrthographic sets a symmetric orthographic projection whose half
// height is scaleY.
func (c *Camera) SetOrthographic(scaleY, aspect, near, far float64) {
	c.OrthoScaleY = scaleY
	c.Aspect = aspect
	c.IsOrthographic = true

	nearY := scaleY
	nearX := scaleY * aspect
	c.setFrustum(-nearX, nearX, -nearY, nearY, near, far)
}

// SetClipPlanes rebuilds a perspective projection with new near and far
// distances. Orthographic cameras keep their planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	if c.xrOverride {
		return
	}
	if c.IsOrthographic {
		return
	}
	c.SetPerspective(c.FovY, c.Aspect, near, far)
}

// SetProjectionMatrix installs a projection built elsewhere, such as one
// supplied by an XR device or a scene file. The matrix is expected in the
// OpenGL convention; reversed depth and the clip-space convention are
// applied here.
//
// Outside XR override the camera adopts the matrix's view frustum and
// projection parameters. Under XR override only the matrix is replaced and
// the frustum stays as set by SetClipPlanes.
func (c *Camera) SetProjectionMatrix(m math3d.Mat4) {
	if !c.xrOverride {
		c.IsOrthographic = m[11] == 0
		c.Aspect = m[5] / m[0]
		if c.IsOrthographic {
			c.OrthoScaleY = 1 / m[5]
		} else {
			c.FovY = 2 * math.Atan(1/m[5])
			c.ShearX, c.ShearY = m[8], m[9]
		}
		c.Frustum.SetViewFrustumFromProjection(m)
		c.Frustum.UpdateWorldFrustum(c.worldMatrix)
	}
	c.projectionMatrix = c.finishProjection(m, c.IsOrthographic)
	c.updateClipFromWorld()
}

func (c *Camera) setFrustum(left, right, bottom, top, near, far float64) {
	c.Frustum.SetViewFrustum(left, right, bottom, top, near, far, c.IsOrthographic)
	c.Frustum.UpdateWorldFrustum(c.worldMatrix)

	var m math3d.Mat4
	if c.IsOrthographic {
		m = math3d.Orthographic(left, right, bottom, top, near, far)
	} else {
		m = math3d.FrustumProjection(left, right, bottom, top, near, far)
	}
	c.projectionMatrix = c.finishProjection(m, c.IsOrthographic)
	c.updateClipFromWorld()
}

// finishProjection converts an OpenGL projection to reversed depth in the
// camera's clip-space convention.
func (c *Camera) finishProjection(m math3d.Mat4, orthographic bool) math3d.Mat4 {
	convertClipSpaceNearZ(&m, ClipSpaceNearZZero, ClipSpaceNearZNegativeOne)
	if orthographic {
		reverseDepthOrthographic(&m)
	} else {
		reverseDepthPerspective(&m)
	}
	convertClipSpaceNearZ(&m, c.ClipSpaceNearZ, ClipSpaceNearZZero)
	return m
}

func (c *Camera) updateClipFromWorld() {
	c.clipFromWorldMatrix = c.projectionMatrix.Mul(c.viewMatrix)
}

// SkyboxViewMatrix returns the view matrix with its translation removed.
func (c *Camera) SkyboxViewMatrix() math3d.Mat4 {
	m := c.viewMatrix
	m[12], m[13], m[14] = 0, 0, 0
	return m
}

// DepthRange returns the clip-space depth of the far and near planes.
func (c *Camera) DepthRange() (far, near float64) {
	if c.ClipSpaceNearZ == ClipSpaceNearZNegativeOne {
		return -1, 1
	}
	return 0, 1
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible). depth is 1 at the near plane
// and decreases with distance.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	// Transform to clip space
	clipPos := c.clipFromWorldMatrix.MulVec4(math3d.V4FromV3(worldPos, 1))

	// Check if behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.DivideByW()

	lo, hi := c.DepthRange()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < lo || ndc.Z > hi {
		return 0, 0, 0, false
	}

	// Convert to screen coordinates
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}

// reverseDepthPerspective maps z to w-z for a 0..1 perspective matrix.
func reverseDepthPerspective(m *math3d.Mat4) {
	m[10] = -1 - m[10]
	m[14] = -m[14]
}

// reverseDepthOrthographic maps z to 1-z for a 0..1 orthographic matrix.
func reverseDepthOrthographic(m *math3d.Mat4) {
	m[2] = -m[2]
	m[6] = -m[6]
	m[10] = -m[10]
	m[14] = 1 - m[14]
}

// convertClipSpaceNearZ rewrites the depth row of m from the src
// convention to dst.
func convertClipSpaceNearZ(m *math3d.Mat4, dst, src ClipSpaceNearZ) {
	if dst == src {
		return
	}
	for i := range 4 {
		z, w := m[i*4+2], m[i*4+3]
		if dst == ClipSpaceNearZZero {
			m[i*4+2] = 0.5*z + 0.5*w
		} else {
			m[i*4+2] = 2*z - w
		}
	}
}
