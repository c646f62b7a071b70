package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

func TestKeyframeLabel(t *testing.T) {
	cam := render.NewCamera(render.WithPerspective(math.Pi/2, 1, 1, 100))
	fb := render.NewFramebuffer(40, 40)

	tests := []struct {
		name    string
		pos     math3d.Vec3
		want    hudLabel
		visible bool
	}{
		{"center", math3d.V3(0, 0, -10), hudLabel{Row: 11, Col: 22, Text: "3"}, true},
		{"upper left", math3d.V3(-4.75, 4.75, -10), hudLabel{Row: 6, Col: 12, Text: "3"}, true},
		{"behind", math3d.V3(0, 0, 10), hudLabel{}, false},
		{"off screen", math3d.V3(30, 0, -10), hudLabel{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keyframeLabel(cam, fb, 2, tc.pos)
			require.Equal(t, tc.visible, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHUDRenderLabels(t *testing.T) {
	st := hudStatus{
		Controller: "studio",
		Keyframes:  2,
		Labels: []hudLabel{
			{Row: 5, Col: 10, Text: "1"},
			{Row: 1, Col: 3, Text: "7"},
			{Row: 20, Col: 3, Text: "8"},
			{Row: 6, Col: 41, Text: "9"},
		},
	}

	t.Run("shown", func(t *testing.T) {
		var out bytes.Buffer
		NewHUD(&out, "scene.glb", 12).Render(40, 20, true, st)

		s := out.String()
		assert.Contains(t, s, "\x1b[5;10H\x1b[1m\x1b[93m1")
		assert.Contains(t, s, "2 keyframes")
		// Labels on the HUD rows or past the right edge are dropped.
		assert.NotContains(t, s, "\x1b[1;3H")
		assert.NotContains(t, s, "\x1b[20;3H")
		assert.NotContains(t, s, "\x1b[6;41H")
	})

	t.Run("hidden", func(t *testing.T) {
		var out bytes.Buffer
		NewHUD(&out, "scene.glb", 12).Render(40, 20, false, st)
		assert.NotContains(t, out.String(), "\x1b[5;10H")
	})
}
