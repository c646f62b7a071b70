package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/render"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ControllerFPS, cfg.Controller)
	assert.True(t, math.IsInf(cfg.Camera.FarPlane(), 1))
	assert.InDelta(t, math.Pi/3, cfg.Camera.FovYRadians(), 1e-12)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"controller", func(c *Config) { c.Controller = "flight" }, "unknown controller"},
		{"fov", func(c *Config) { c.Camera.FovY = 180 }, "fov_y"},
		{"near", func(c *Config) { c.Camera.Near = 0 }, "camera.near"},
		{"far", func(c *Config) { c.Camera.Far = 0.05 }, "camera.far"},
		{"clip", func(c *Config) { c.Camera.ClipSpace = "one" }, "clip_space"},
		{"speed", func(c *Config) { c.FPS.KeyMoveSpeed = -1 }, "key_move_speed"},
		{"distance", func(c *Config) { c.Orbit.Distance = -1 }, "orbit.distance"},
		{"zoom", func(c *Config) { c.Ortho.Zoom = -1 }, "ortho.zoom"},
		{"ui fps", func(c *Config) { c.UI.FPS = 0 }, "ui.fps"},
		{"background", func(c *Config) { c.UI.Background = "1,2,300" }, "out of range"},
		{"background syntax", func(c *Config) { c.UI.Background = "grey" }, "ui.background"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Controller = "x"
	cfg.UI.FPS = -1
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrUnknownController)
	assert.Contains(t, err.Error(), "ui.fps")
}

func TestRGB(t *testing.T) {
	r, g, b, err := UIConfig{Background: "1,2,3"}.RGB()
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3}, []uint8{r, g, b})
}

func TestCameraOptions(t *testing.T) {
	cc := CameraConfig{FovY: 90, Near: 1, Far: 100, ClipSpace: ClipNegativeOne}
	cam := render.NewCamera(cc.CameraOptions(2)...)
	assert.Equal(t, render.ClipSpaceNearZNegativeOne, cam.ClipSpaceNearZ)
	assert.InDelta(t, math.Pi/2, cam.FovY, 1e-12)
	assert.Equal(t, 2.0, cam.Aspect)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"a.toml", TOML, false},
		{"a.TOML", TOML, false},
		{"dir/a.yaml", YAML, false},
		{"a.yml", YAML, false},
		{"a.json", 0, true},
		{"a", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := Default()
			cfg.Controller = ControllerOrtho
			cfg.Camera.Far = 5000
			cfg.FPS.InvertY = true
			cfg.Orbit.AutoOrbit = true
			cfg.UI.Background = "0,0,0"
			cfg.Keys = map[string][]string{"KeyW": {"k", "up"}}

			path := filepath.Join(t.TempDir(), "vantage"+ext)
			require.NoError(t, cfg.Save(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestReadPartialKeepsDefaults(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"toml", TOML, "controller = \"orbit\"\n[orbit]\nauto_orbit = true\n"},
		{"yaml", YAML, "controller: orbit\norbit:\n  auto_orbit: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Read(strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			assert.Equal(t, ControllerOrbit, cfg.Controller)
			assert.True(t, cfg.Orbit.AutoOrbit)
			assert.Equal(t, -0.05, cfg.Orbit.Speed)
			assert.Equal(t, 60, cfg.UI.FPS)
		})
	}
}

func TestReadEmptyYAML(t *testing.T) {
	cfg, err := Read(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"toml unknown field", TOML, "colour = 1\n"},
		{"yaml unknown field", YAML, "colour: 1\n"},
		{"toml syntax", TOML, "controller = \n"},
		{"invalid value", TOML, "controller = \"flight\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/nonexistent/vantage.toml")
	assert.Error(t, err)

	_, err = Load("vantage.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.ErrorIs(t, Default().Save(filepath.Join(t.TempDir(), "x.ini")), ErrUnknownFormat)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vantage.toml")
	require.NoError(t, Default().Save(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		last *Config
	)
	require.NoError(t, Watch(ctx, path, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		last = cfg
		mu.Unlock()
	}))

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.toml"), []byte("x"), 0o644))

	cfg := Default()
	cfg.Controller = ControllerStudio
	require.NoError(t, cfg.Save(path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last != nil && last.Controller == ControllerStudio
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatchUnknownFormat(t *testing.T) {
	err := Watch(context.Background(), "vantage.json", func(*Config, error) {})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
