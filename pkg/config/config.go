// Package config holds the viewer settings and reads them from TOML or
// YAML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/taigrr/vantage/pkg/controls"
	"github.com/taigrr/vantage/pkg/render"
)

// ErrUnknownController is returned by Validate for an unsupported
// controller name.
var ErrUnknownController = errors.New("unknown controller")

// Controller names.
const (
	ControllerFPS    = "fps"
	ControllerOrbit  = "orbit"
	ControllerOrtho  = "ortho"
	ControllerStudio = "studio"
)

// Controllers lists the accepted controller names.
var Controllers = []string{ControllerFPS, ControllerOrbit, ControllerOrtho, ControllerStudio}

// Clip-space depth conventions.
const (
	ClipZero        = "zero"
	ClipNegativeOne = "negative-one"
)

// Config is the full viewer configuration.
type Config struct {
	// Controller selects the camera controller.
	Controller string       `toml:"controller" yaml:"controller"`
	Camera     CameraConfig `toml:"camera" yaml:"camera"`
	FPS        FPSConfig    `toml:"fps" yaml:"fps"`
	Orbit      OrbitConfig  `toml:"orbit" yaml:"orbit"`
	Ortho      OrthoConfig  `toml:"ortho" yaml:"ortho"`
	UI         UIConfig     `toml:"ui" yaml:"ui"`
	// Keys remaps key codes such as "KeyW" to terminal keys. An empty list
	// unbinds the code.
	Keys map[string][]string `toml:"keys,omitempty" yaml:"keys,omitempty"`
}

// CameraConfig sets up the perspective projection.
type CameraConfig struct {
	// FovY is the vertical field of view in degrees.
	FovY float64 `toml:"fov_y" yaml:"fov_y"`
	Near float64 `toml:"near" yaml:"near"`
	// Far is the far plane distance. Zero means infinite.
	Far float64 `toml:"far" yaml:"far"`
	// ClipSpace is "zero" for [0, 1] depth or "negative-one" for [-1, 1].
	ClipSpace string `toml:"clip_space" yaml:"clip_space"`
}

type FPSConfig struct {
	KeyMoveSpeed float64 `toml:"key_move_speed" yaml:"key_move_speed"`
	UseViewUp    bool    `toml:"use_view_up" yaml:"use_view_up"`
	InvertX      bool    `toml:"invert_x" yaml:"invert_x"`
	InvertY      bool    `toml:"invert_y" yaml:"invert_y"`
}

type OrbitConfig struct {
	AutoOrbit bool    `toml:"auto_orbit" yaml:"auto_orbit"`
	Speed     float64 `toml:"speed" yaml:"speed"`
	// Distance from the target. Zero frames the loaded scene.
	Distance float64 `toml:"distance" yaml:"distance"`
}

type OrthoConfig struct {
	// Zoom is the orthographic half height over ten. Zero frames the
	// loaded scene.
	Zoom float64 `toml:"zoom" yaml:"zoom"`
}

type UIConfig struct {
	FPS int `toml:"fps" yaml:"fps"`
	// Background is an "R,G,B" triple.
	Background string `toml:"background" yaml:"background"`
	HUD        bool   `toml:"hud" yaml:"hud"`
	// ResizeSmoothing eases the aspect ratio after a window resize.
	ResizeSmoothing bool `toml:"resize_smoothing" yaml:"resize_smoothing"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Controller: ControllerFPS,
		Camera: CameraConfig{
			FovY:      60,
			Near:      0.1,
			ClipSpace: ClipZero,
		},
		FPS: FPSConfig{
			KeyMoveSpeed: controls.DefaultKeyMoveSpeed,
			UseViewUp:    true,
		},
		Orbit: OrbitConfig{
			Speed: -0.05,
		},
		UI: UIConfig{
			FPS:             60,
			Background:      "30,30,40",
			HUD:             true,
			ResizeSmoothing: true,
		},
	}
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Controllers, c.Controller) {
		errs = append(errs, fmt.Errorf("%w %q (want one of %s)", ErrUnknownController, c.Controller, strings.Join(Controllers, ", ")))
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_y %v out of range (0, 180)", c.Camera.FovY))
	}
	if c.Camera.Near <= 0 {
		errs = append(errs, fmt.Errorf("camera.near must be positive, got %v", c.Camera.Near))
	}
	if c.Camera.Far != 0 && c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera.far %v must exceed near %v", c.Camera.Far, c.Camera.Near))
	}
	if c.Camera.ClipSpace != ClipZero && c.Camera.ClipSpace != ClipNegativeOne {
		errs = append(errs, fmt.Errorf("camera.clip_space %q must be %q or %q", c.Camera.ClipSpace, ClipZero, ClipNegativeOne))
	}
	if c.FPS.KeyMoveSpeed <= 0 {
		errs = append(errs, fmt.Errorf("fps.key_move_speed must be positive, got %v", c.FPS.KeyMoveSpeed))
	}
	if c.Orbit.Distance < 0 {
		errs = append(errs, fmt.Errorf("orbit.distance must not be negative, got %v", c.Orbit.Distance))
	}
	if c.Ortho.Zoom < 0 {
		errs = append(errs, fmt.Errorf("ortho.zoom must not be negative, got %v", c.Ortho.Zoom))
	}
	if c.UI.FPS <= 0 || c.UI.FPS > 240 {
		errs = append(errs, fmt.Errorf("ui.fps %d out of range [1, 240]", c.UI.FPS))
	}
	if _, _, _, err := c.UI.RGB(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RGB parses the background color.
func (u UIConfig) RGB() (r, g, b uint8, err error) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(u.Background, "%d,%d,%d", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, fmt.Errorf("ui.background %q: %w", u.Background, err)
	}
	for _, v := range []int{ri, gi, bi} {
		if v < 0 || v > 255 {
			return 0, 0, 0, fmt.Errorf("ui.background %q: component %d out of range", u.Background, v)
		}
	}
	return uint8(ri), uint8(gi), uint8(bi), nil
}

// FovYRadians returns the field of view in radians.
func (c CameraConfig) FovYRadians() float64 {
	return c.FovY * math.Pi / 180
}

// FarPlane returns the far distance with zero mapped to infinity.
func (c CameraConfig) FarPlane() float64 {
	if c.Far == 0 {
		return math.Inf(1)
	}
	return c.Far
}

// ClipSpaceNearZ returns the render depth convention.
func (c CameraConfig) ClipSpaceNearZ() render.ClipSpaceNearZ {
	if c.ClipSpace == ClipNegativeOne {
		return render.ClipSpaceNearZNegativeOne
	}
	return render.ClipSpaceNearZZero
}

// CameraOptions returns the options for a perspective camera with the
// given aspect ratio.
func (c CameraConfig) CameraOptions(aspect float64) []render.CameraOption {
	return []render.CameraOption{
		render.WithClipSpaceNearZ(c.ClipSpaceNearZ()),
		render.WithPerspective(c.FovYRadians(), aspect, c.Near, c.FarPlane()),
	}
}
