package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/models"
	"github.com/taigrr/vantage/pkg/render"
)

func TestApplySceneCamera(t *testing.T) {
	world := math3d.Translate(math3d.V3(0, 0, 5))

	t.Run("perspective", func(t *testing.T) {
		cam := render.NewCamera()
		applySceneCamera(cam, models.CameraNode{World: world, YFov: 0.8, Near: 0.1, Far: math.Inf(1)}, 2)

		assert.False(t, cam.IsOrthographic)
		assert.InDelta(t, 0.8, cam.FovY, 1e-12)
		assert.InDelta(t, 2, cam.Aspect, 1e-12)
		assert.InDelta(t, -0.1, cam.Frustum.Near, 1e-12)
		assert.True(t, cam.Frustum.HasInfiniteFar())
		assert.True(t, cam.Frustum.ContainsPoint(math3d.V3(0, 0, -1000)))
		assert.False(t, cam.Frustum.ContainsPoint(math3d.V3(0, 0, 6)))
	})

	t.Run("orthographic", func(t *testing.T) {
		cam := render.NewCamera()
		applySceneCamera(cam, models.CameraNode{World: world, Orthographic: true, YMag: 2, Near: 1, Far: 20}, 1.5)

		assert.True(t, cam.IsOrthographic)
		assert.InDelta(t, 2, cam.OrthoScaleY, 1e-12)
		assert.InDelta(t, 3, cam.Frustum.Right, 1e-12)
		assert.InDelta(t, -20, cam.Frustum.Far, 1e-9)
		assert.True(t, cam.Frustum.ContainsPoint(math3d.V3(2.9, 1.9, -10)))
		assert.False(t, cam.Frustum.ContainsPoint(math3d.V3(0, 0, -16)))
	})
}
