package controls

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

func angleDiff(a, b float64) float64 {
	return math.Remainder(a-b, math3d.Tau)
}

func TestOrthoShortestPath(t *testing.T) {
	cam := render.NewCamera()
	o := NewOrtho(cam)
	in := newFakeInput()

	// From 3 to -3 the short way is +0.28 across pi, not -6.
	o.X, o.XTarget = 3, -3
	step(o, in)
	assert.InDelta(t, 3+0.1*(math3d.Tau-6), o.X, 1e-9)

	for range 300 {
		step(o, in)
	}
	assert.InDelta(t, 0, angleDiff(o.X, o.XTarget), 1e-9)
	assert.Greater(t, o.X, 3.0)
}

func TestOrthoProjection(t *testing.T) {
	cam := render.NewCamera()
	o := NewOrtho(cam)
	in := newFakeInput()

	assert.Equal(t, Unchanged, step(o, in))
	assert.True(t, cam.IsOrthographic)
	assert.InDelta(t, 2000, cam.OrthoScaleY, 1e-9)
	assertViewInverse(t, cam)

	// The eye sits half the far distance from the target.
	assert.InDelta(t, 50000, cam.Position().Len(), 1e-6)
}

func TestOrthoPresets(t *testing.T) {
	tests := []struct {
		key  string
		x, y float64
	}{
		{KeyNumpad8, -math.Pi / 2, math.Pi - 0.001},
		{KeyNumpad4, 0, math.Pi / 2},
		{KeyNumpad6, math.Pi, math.Pi / 2},
		{KeyNumpad2, -math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			o := NewOrtho(render.NewCamera())
			in := newFakeInput()
			in.press(tt.key)
			assert.Equal(t, Changed, step(o, in))
			assert.InDelta(t, tt.x, o.XTarget, 1e-12)
			assert.InDelta(t, tt.y, o.YTarget, 1e-12)
		})
	}
}

func TestOrthoSnap(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		startX float64
		startY float64
		wantX  float64
		wantY  float64
	}{
		{"azimuth up", KeyA, -math.Pi / 2, 1, -math.Pi / 4, 1},
		{"azimuth down", KeyD, 0.1, 1, 0, 1},
		{"polar up", KeyW, 0, 1, 0, 3 * math.Pi / 8},
		{"polar down", KeyS, 0, 1, 0, math.Pi / 4},
		{"polar up avoids pole", KeyW, 0, 2.8, 0, math.Pi - 0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrtho(render.NewCamera())
			o.X, o.XTarget = tt.startX, tt.startX
			o.Y, o.YTarget = tt.startY, tt.startY
			in := newFakeInput()
			in.press(KeyShiftLeft)
			in.press(tt.key)
			step(o, in)
			assert.InDelta(t, tt.wantX, o.XTarget, 1e-12)
			assert.InDelta(t, tt.wantY, o.YTarget, 1e-12)
			assert.True(t, o.Translation.IsZero(), "shift does not pan")
		})
	}
}

func TestOrthoZoom(t *testing.T) {
	cam := render.NewCamera()
	o := NewOrtho(cam)
	in := newFakeInput()

	in.press(KeyE)
	for range 100 {
		step(o, in)
	}
	assert.Equal(t, 1.0, o.Z)
	assert.InDelta(t, 10, cam.OrthoScaleY, 1e-12)

	in.release(KeyE)
	in.press(KeyQ)
	for range 5 {
		step(o, in)
	}
	assert.Greater(t, o.Z, 1.0)
}

func TestOrthoPanScalesWithZoom(t *testing.T) {
	near := NewOrtho(render.NewCamera())
	far := NewOrtho(render.NewCamera())
	far.Z = 400
	for _, o := range []*Ortho{near, far} {
		in := newFakeInput()
		in.press(KeyA)
		step(o, in)
	}
	assert.InDelta(t, 2*near.Translation.Len(), far.Translation.Len(), 1e-9)
}
