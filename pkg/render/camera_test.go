package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

func assertMat4Near(t *testing.T, want, got math3d.Mat4, eps float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps, msgAndArgs...)
}

func assertVec3Near(t *testing.T, want, got math3d.Vec3, eps float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, []float64{want.X, want.Y, want.Z}, []float64{got.X, got.Y, got.Z}, eps, msgAndArgs...)
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.False(t, c.IsOrthographic, "default camera should be perspective")
	assert.InDelta(t, math.Pi/3, c.FovY, 1e-12)
	assert.Equal(t, ClipSpaceNearZZero, c.ClipSpaceNearZ)
	assert.Equal(t, math3d.Identity(), c.WorldMatrix())
	assert.Equal(t, math3d.Identity(), c.ViewMatrix())
}

// TestCameraFov90Scenario projects points through a 90 degree camera at
// the origin.
func TestCameraFov90Scenario(t *testing.T) {
	c := NewCamera(WithPerspective(math.Pi/2, 1, 1, 1000))

	p := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -10))
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)
	assert.True(t, c.Frustum.ContainsPoint(math3d.V3(0, 0, -10)), "point in front")
	assert.False(t, c.Frustum.ContainsPoint(math3d.V3(0, 0, 10)), "point behind")

	// The frustum edge at depth 10 is at x = 10.
	edge := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(10, 0, -10))
	assert.InDelta(t, 1, edge.X, 1e-12)
}

func TestCameraReversedDepth(t *testing.T) {
	tests := []struct {
		name  string
		nearZ ClipSpaceNearZ
		setup func(c *Camera)
		farZ  float64
	}{
		{"perspective zero", ClipSpaceNearZZero, func(c *Camera) { c.SetPerspective(math.Pi/3, 1, 1, 100) }, 0},
		{"perspective negative one", ClipSpaceNearZNegativeOne, func(c *Camera) { c.SetPerspective(math.Pi/3, 1, 1, 100) }, -1},
		{"orthographic zero", ClipSpaceNearZZero, func(c *Camera) { c.SetOrthographic(5, 1, 1, 100) }, 0},
		{"orthographic negative one", ClipSpaceNearZNegativeOne, func(c *Camera) { c.SetOrthographic(5, 1, 1, 100) }, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(WithClipSpaceNearZ(tc.nearZ))
			tc.setup(c)

			near := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -1))
			far := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -100))
			mid := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -50))

			assert.InDelta(t, 1, near.Z, 1e-9, "near depth")
			assert.InDelta(t, tc.farZ, far.Z, 1e-9, "far depth")
			assert.Less(t, mid.Z, near.Z)
			assert.Greater(t, mid.Z, far.Z)

			lo, hi := c.DepthRange()
			assert.Equal(t, tc.farZ, lo)
			assert.Equal(t, 1.0, hi)
		})
	}
}

func TestCameraInfiniteFar(t *testing.T) {
	c := NewCamera(WithPerspective(math.Pi/2, 1, 1, math.Inf(1)))

	near := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -1))
	assert.InDelta(t, 1, near.Z, 1e-12)
	far := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(0, 0, -1e12))
	assert.GreaterOrEqual(t, far.Z, 0.0)
	assert.LessOrEqual(t, far.Z, 1e-9)
	assert.False(t, c.Frustum.FarPlaneBounded())
}

func TestCameraForceInfiniteFarPlane(t *testing.T) {
	c := NewCamera(WithForceInfiniteFarPlane(true))
	c.SetPerspective(math.Pi/3, 1, 0.5, 100)
	assert.True(t, c.Frustum.HasInfiniteFar(), "forced infinite far ignored")

	c.SetForceInfiniteFarPlane(false)
	c.SetPerspective(math.Pi/3, 1, 0.5, 100)
	assert.False(t, c.Frustum.HasInfiniteFar(), "far plane still infinite after clearing the flag")
}

func TestCameraSetWorldMatrixKeepsInverse(t *testing.T) {
	c := NewCamera()
	world := math3d.Translate(math3d.V3(3, -2, 7)).Mul(math3d.RotateY(0.7)).Mul(math3d.RotateX(-0.3))
	c.SetWorldMatrix(world)

	assertMat4Near(t, math3d.Identity(), c.ViewMatrix().Mul(c.WorldMatrix()), 1e-12, "view * world")
	assertMat4Near(t, c.ProjectionMatrix().Mul(c.ViewMatrix()), c.ClipFromWorldMatrix(), 1e-12, "clip-from-world")
	assertVec3Near(t, math3d.V3(3, -2, 7), c.Position(), 1e-12)

	// The frustum follows the pose.
	ahead := world.MulVec3(math3d.V3(0, 0, -10))
	assert.True(t, c.Frustum.ContainsPoint(ahead), "point ahead of moved camera %v", ahead)
}

func TestCameraSetViewMatrix(t *testing.T) {
	c := NewCamera()
	c.LookAt(math3d.V3(0, 5, 10), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))

	assertMat4Near(t, math3d.Identity(), c.WorldMatrix().Mul(c.ViewMatrix()), 1e-12, "world * view")
	assertVec3Near(t, math3d.V3(0, -5, -10).Normalize(), c.Forward(), 1e-12)

	c.Identity()
	assert.Equal(t, math3d.Identity(), c.WorldMatrix())
	assert.Equal(t, math3d.Identity(), c.ViewMatrix())
}

func TestCameraSetClipPlanes(t *testing.T) {
	t.Run("perspective", func(t *testing.T) {
		c := NewCamera(WithPerspective(math.Pi/3, 2, 1, 100))
		c.SetClipPlanes(5, 500)
		assert.Equal(t, -5.0, c.Frustum.Near)
		assert.Equal(t, -500.0, c.Frustum.Far)
		assert.Equal(t, math.Pi/3, c.FovY)
		assert.Equal(t, 2.0, c.Aspect)
	})

	t.Run("xr override", func(t *testing.T) {
		c := NewCamera(WithPerspective(math.Pi/3, 2, 1, 100))
		before := c.ProjectionMatrix()
		c.SetXROverrideEnabled(true)
		c.SetClipPlanes(5, 500)
		assert.Equal(t, before, c.ProjectionMatrix(), "SetClipPlanes changed an XR-owned projection")
		assert.Equal(t, -1.0, c.Frustum.Near)
		assert.True(t, c.XROverrideEnabled())
	})

	t.Run("orthographic", func(t *testing.T) {
		c := NewCamera(WithOrthographic(10, 1, 1, 100))
		before := c.ProjectionMatrix()
		c.SetClipPlanes(5, 500)
		assert.Equal(t, before, c.ProjectionMatrix(), "SetClipPlanes changed an orthographic projection")
		assert.True(t, c.IsOrthographic)
	})
}

func TestCameraOrthographicExtents(t *testing.T) {
	c := NewCamera(WithOrthographic(4, 1.5, 1, 100))

	assert.Equal(t, 4.0, c.Frustum.Top)
	assert.Equal(t, 6.0, c.Frustum.Right)
	p := ClipSpacePointFromWorldSpacePoint(c, math3d.V3(6, 4, -30))
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
}

func TestSkyboxViewMatrix(t *testing.T) {
	c := NewCamera(WithWorldMatrix(math3d.Translate(math3d.V3(5, 6, 7)).Mul(math3d.RotateY(1))))
	sky := c.SkyboxViewMatrix()

	assert.Equal(t, []float64{0, 0, 0}, sky[12:15])
	view := c.ViewMatrix()
	assert.Equal(t, view[:12], sky[:12])
}

func TestWorldToScreen(t *testing.T) {
	c := NewCamera(WithPerspective(math.Pi/2, 1, 1, 100))

	tests := []struct {
		name    string
		point   math3d.Vec3
		x, y    float64
		visible bool
	}{
		{"center", math3d.V3(0, 0, -10), 50, 50, true},
		{"upper left", math3d.V3(-5, 5, -10), 25, 25, true},
		{"behind", math3d.V3(0, 0, 10), 0, 0, false},
		{"beyond far", math3d.V3(0, 0, -200), 0, 0, false},
		{"off screen", math3d.V3(20, 0, -10), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, _, visible := c.WorldToScreen(tc.point, 100, 100)
			require.Equal(t, tc.visible, visible)
			assert.InDelta(t, tc.x, x, 1e-9)
			assert.InDelta(t, tc.y, y, 1e-9)
		})
	}
}

func TestSetProjectionMatrix(t *testing.T) {
	a := NewCamera(WithPerspective(math.Pi/3, 1.5, 0.5, 200))
	b := NewCamera()
	b.SetProjectionMatrix(math3d.Perspective(math.Pi/3, 1.5, 0.5, 200))

	assertMat4Near(t, a.ProjectionMatrix(), b.ProjectionMatrix(), 1e-12)
}

func TestSetProjectionMatrixAdoptsFrustum(t *testing.T) {
	world := math3d.Translate(math3d.V3(2, 1, 8))

	tests := []struct {
		name string
		want *Camera
		proj math3d.Mat4
	}{
		{
			"perspective",
			NewCamera(WithWorldMatrix(world), WithPerspective(math.Pi/4, 2, 0.5, 300)),
			math3d.Perspective(math.Pi/4, 2, 0.5, 300),
		},
		{
			"orthographic",
			NewCamera(WithWorldMatrix(world), WithOrthographic(3, 1.25, 1, 80)),
			math3d.Orthographic(-3.75, 3.75, -3, 3, 1, 80),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(WithWorldMatrix(world))
			c.SetProjectionMatrix(tc.proj)

			assert.Equal(t, tc.want.IsOrthographic, c.IsOrthographic)
			assert.InDelta(t, tc.want.Aspect, c.Aspect, 1e-12)
			if c.IsOrthographic {
				assert.InDelta(t, tc.want.OrthoScaleY, c.OrthoScaleY, 1e-12)
			} else {
				assert.InDelta(t, tc.want.FovY, c.FovY, 1e-12)
			}

			f, wf := c.Frustum, tc.want.Frustum
			assert.InDeltaSlice(t,
				[]float64{wf.Left, wf.Right, wf.Bottom, wf.Top, wf.Near, wf.Far},
				[]float64{f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far},
				1e-9)
			assertVec3Near(t, wf.AABB.Min, f.AABB.Min, 1e-8)
			assertVec3Near(t, wf.AABB.Max, f.AABB.Max, 1e-8)

			ahead := world.MulVec3(math3d.V3(0, 0, -10))
			assert.Equal(t, geometry.FullyInside, c.Frustum.IntersectSphere(ahead, 0.1))
			assertMat4Near(t, tc.want.ProjectionMatrix(), c.ProjectionMatrix(), 1e-12)
		})
	}
}

func TestSetProjectionMatrixXROverrideKeepsFrustum(t *testing.T) {
	c := NewCamera(WithPerspective(math.Pi/3, 1, 1, 100))
	c.SetXROverrideEnabled(true)
	c.SetProjectionMatrix(math3d.Perspective(math.Pi/2, 2, 0.1, 10))

	assert.Equal(t, -1.0, c.Frustum.Near)
	assert.Equal(t, -100.0, c.Frustum.Far)
	assert.Equal(t, math.Pi/3, c.FovY)
}

func BenchmarkCameraSetWorldMatrix(b *testing.B) {
	c := NewCamera()
	world := math3d.TargetTo(math3d.V3(0, 10, 20), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))

	for b.Loop() {
		c.SetWorldMatrix(world)
	}
}
