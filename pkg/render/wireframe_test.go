package render

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/geometry"
	"github.com/taigrr/vantage/pkg/math3d"
)

func countPixels(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 math3d.Vec4
		t0, t1 float64
		ok     bool
	}{
		{"inside", math3d.V4(0, 0, 0.5, 1), math3d.V4(0.5, 0.5, 0.5, 1), 0, 1, true},
		{"outside right", math3d.V4(2, 0, 0.5, 1), math3d.V4(3, 0, 0.5, 1), 0, 0, false},
		{"crosses right", math3d.V4(0, 0, 0.5, 1), math3d.V4(2, 0, 0.5, 1), 0, 0.5, true},
		{"crosses near", math3d.V4(0, 0, 2, 1), math3d.V4(0, 0, 0, 1), 0.5, 1, true},
		{"beyond far", math3d.V4(0, 0, -1, 1), math3d.V4(0, 0, -0.5, 1), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t0, t1, ok := clipSegment(tc.c1, tc.c2, 0)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.InDelta(t, tc.t0, t0, 1e-12)
				assert.InDelta(t, tc.t1, t1, 1e-12)
			}
		})
	}
}

func TestWireframeDrawLine3D(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	c := NewCamera(WithPerspective(math.Pi/2, 1, 1, 100))
	w := NewWireframe(c, fb)

	t.Run("visible", func(t *testing.T) {
		fb.Clear(ColorBlack)
		require.True(t, w.DrawLine3D(math3d.V3(-1, 0, -5), math3d.V3(1, 0, -5), ColorWhite))
		assert.NotZero(t, countPixels(fb, ColorWhite), "no pixels drawn")
	})

	t.Run("behind", func(t *testing.T) {
		fb.Clear(ColorBlack)
		assert.False(t, w.DrawLine3D(math3d.V3(-1, 0, 5), math3d.V3(1, 0, 5), ColorWhite))
		assert.Zero(t, countPixels(fb, ColorWhite), "pixels drawn for hidden line")
	})

	t.Run("crosses near plane", func(t *testing.T) {
		fb.Clear(ColorBlack)
		require.True(t, w.DrawLine3D(math3d.V3(0, -0.5, 5), math3d.V3(0, -0.5, -5), ColorWhite))
		assert.NotZero(t, countPixels(fb, ColorWhite), "no pixels drawn")
	})
}

func TestWireframeDrawCulled(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	c := NewCamera(WithPerspective(math.Pi/2, 1, 1, 100))
	w := NewWireframe(c, fb)

	positions := []math3d.Vec3{{X: -1, Y: -1, Z: 0}, {X: 1, Y: 1, Z: 0}}
	edges := [][2]int{{0, 1}}
	local := geometry.AABBFromPoints(positions...)

	ahead := math3d.Translate(math3d.V3(0, 0, -10))
	behind := math3d.Translate(math3d.V3(0, 0, 10))

	assert.True(t, w.DrawCulled(local.Transform(ahead), positions, edges, ahead, ColorGreen), "object ahead was culled")
	assert.False(t, w.DrawCulled(local.Transform(behind), positions, edges, behind, ColorGreen), "object behind was drawn")

	drawn, culled := w.Stats()
	assert.Equal(t, 1, drawn)
	assert.Equal(t, 1, culled)

	w.ResetStats()
	drawn, culled = w.Stats()
	assert.Zero(t, drawn)
	assert.Zero(t, culled)
}

func TestWireframeDrawCameraFrustum(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	viewer := NewCamera(WithPerspective(math.Pi/2, 1, 0.1, 1000))
	viewer.LookAt(math3d.V3(20, 20, 20), math3d.V3(0, 0, -5), math3d.V3(0, 1, 0))

	subject := NewCamera(WithPerspective(math.Pi/3, 1, 1, 10))
	w := NewWireframe(viewer, fb)
	w.DrawCameraFrustum(subject, ColorYellow)
	w.DrawAABB(subject.Frustum.AABB, ColorCyan)

	assert.NotZero(t, countPixels(fb, ColorYellow), "frustum not drawn")
	assert.NotZero(t, countPixels(fb, ColorCyan), "frustum bounds not drawn")
}

func TestFramebufferBasics(t *testing.T) {
	fb := NewFramebuffer(4, 6)

	fb.SetPixel(1, 2, ColorRed)
	assert.Equal(t, ColorRed, fb.GetPixel(1, 2))
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	assert.Equal(t, Color{}, fb.GetPixel(10, 10), "out of bounds pixel")

	fb.DrawLine(0, 0, 3, 3, ColorBlue)
	for i := range 4 {
		assert.Equal(t, ColorBlue, fb.GetPixel(i, i), "diagonal pixel %d", i)
	}

	assert.InDelta(t, 4.0/6.0, fb.Aspect(), 1e-12)

	fb.Resize(8, 2)
	assert.Len(t, fb.Pixels, 16)
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(ColorGray)
	fb.DrawRectOutline(1, 1, 6, 6, ColorWhite)

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, fb.SavePNG(path))
	assert.FileExists(t, path)

	assert.Error(t, fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")), "missing directory")
}

func TestTerminalRendererSize(t *testing.T) {
	r := NewTerminalRenderer(nil, 80, 24)
	w, h := r.FramebufferSize()
	assert.Equal(t, []int{80, 48}, []int{w, h})

	r.Resize(100, 30)
	w, h = r.FramebufferSize()
	assert.Equal(t, []int{100, 60}, []int{w, h})
}
