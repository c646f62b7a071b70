package controls

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

func TestFPSMoveDecaySettles(t *testing.T) {
	cam := render.NewCamera()
	fps := NewFPS(cam)
	in := newFakeInput()

	// Speed 60: each frame adds 12 until the cap of 60.
	in.press(KeyW)
	for range 5 {
		assert.Equal(t, Changed, step(fps, in))
	}
	assert.InDelta(t, -60, fps.Velocity().Z, 1e-12)
	assert.Less(t, cam.Position().Z, 0.0)

	// 60*0.8^28 is still above 0.1, 60*0.8^29 is not.
	in.release(KeyW)
	for i := range 28 {
		require.Equal(t, Changed, step(fps, in), "release frame %d", i+1)
	}
	assert.Equal(t, ImportantChange, step(fps, in))
	assert.Zero(t, fps.Velocity().Z)

	assert.Equal(t, Unchanged, step(fps, in))
	assert.True(t, cam.LinearVelocity.IsZero())
}

func TestFPSSpeedModifiers(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want float64
	}{
		{"plain", nil, -12},
		{"shift", []string{KeyShiftLeft}, -60},
		{"backslash", []string{KeyIntlBackslash}, -1.2},
		{"backslash wins over shift", []string{KeyShiftRight, KeyIntlBackslash}, -1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := render.NewCamera()
			fps := NewFPS(cam)
			in := newFakeInput()
			in.press(KeyW)
			for _, k := range tt.keys {
				in.press(k)
			}
			step(fps, in)
			assert.InDelta(t, tt.want, cam.Position().Z, 1e-9)
			assert.InDelta(t, tt.want, cam.LinearVelocity.Z, 1e-9)
		})
	}
}

func TestFPSSceneMoveSpeedMult(t *testing.T) {
	cam := render.NewCamera()
	fps := NewFPS(cam)
	fps.SetSceneMoveSpeedMult(0.5)
	in := newFakeInput()
	in.press(KeyD)
	step(fps, in)
	assert.InDelta(t, 6, cam.Position().X, 1e-9)
}

func TestFPSKeyMoveSpeed(t *testing.T) {
	fps := NewFPS(render.NewCamera())
	called := 0
	fps.OnKeyMoveSpeed = func() { called++ }

	fps.SetKeyMoveSpeed(0.25)
	assert.Equal(t, 1, called)

	// Speeds below 1 are raised on the next update.
	step(fps, newFakeInput())
	speed, ok := fps.KeyMoveSpeed()
	require.True(t, ok)
	assert.Equal(t, 1.0, speed)
}

func TestFPSResetKey(t *testing.T) {
	cam := render.NewCamera(render.WithWorldMatrix(math3d.Translate(math3d.V3(5, 6, 7))))
	fps := NewFPS(cam)
	in := newFakeInput()
	in.press(KeyB)

	assert.Equal(t, Changed, step(fps, in))
	assert.Equal(t, math3d.Identity(), cam.WorldMatrix())
	assertViewInverse(t, cam)
}

func TestFPSMouseLook(t *testing.T) {
	t.Run("yaw", func(t *testing.T) {
		cam := render.NewCamera()
		fps := NewFPS(cam)
		in := newFakeInput()
		in.dx = 100

		assert.Equal(t, Changed, step(fps, in))
		fwd := cam.Forward()
		assert.InDelta(t, math.Sin(0.2), fwd.X, 1e-9)
		assert.InDelta(t, -math.Cos(0.2), fwd.Z, 1e-9)

		// Mouse look has no carry-over.
		assert.Equal(t, Unchanged, step(fps, in))
	})

	t.Run("inverted", func(t *testing.T) {
		cam := render.NewCamera()
		fps := NewFPS(cam)
		in := newFakeInput()
		in.invertX = true
		in.dx = 100
		step(fps, in)
		assert.InDelta(t, -math.Sin(0.2), cam.Forward().X, 1e-9)
	})

	t.Run("keys", func(t *testing.T) {
		cam := render.NewCamera()
		fps := NewFPS(cam)
		in := newFakeInput()
		in.press(KeyI)
		step(fps, in)
		// Pitch up by the slow key angle.
		assert.InDelta(t, math.Sin(0.02), cam.Forward().Y, 1e-9)
	})

	t.Run("roll", func(t *testing.T) {
		cam := render.NewCamera()
		fps := NewFPS(cam)
		in := newFakeInput()
		in.press(KeyO)
		in.press(KeyShiftLeft)
		step(fps, in)
		assert.InDelta(t, -math.Sin(0.1), cam.Up().X, 1e-9)
	})
}

func TestFPSWorldForwardLock(t *testing.T) {
	world := math3d.RotateY(0.3)
	cam := render.NewCamera(render.WithWorldMatrix(world))
	fps := NewFPS(cam)
	in := newFakeInput()

	in.press(KeyNumpad4)
	step(fps, in)
	dir, ok := fps.WorldForward()
	require.True(t, ok)
	assert.Equal(t, math3d.V3(0, 0, 1), dir)

	in.release(KeyNumpad4)
	in.press(KeyNumpad1)
	step(fps, in)
	_, ok = fps.WorldForward()
	assert.False(t, ok)

	in.release(KeyNumpad1)
	in.press(KeyNumpad1)
	step(fps, in)
	dir, ok = fps.WorldForward()
	require.True(t, ok)
	assert.InDelta(t, math.Sin(0.3), dir.X, 1e-9)
}

func TestFPSTouchAndPinch(t *testing.T) {
	cam := render.NewCamera()
	fps := NewFPS(cam)
	in := newFakeInput()
	in.pinch = 1
	in.touchX = 1
	in.touchY = 1

	assert.Equal(t, Changed, step(fps, in))
	v := fps.Velocity()
	assert.InDelta(t, -12, v.X, 1e-9)
	assert.InDelta(t, 12, v.Y, 1e-9)
	assert.InDelta(t, -12, v.Z, 1e-9)
}

func TestFPSForceUpdate(t *testing.T) {
	cam := render.NewCamera()
	cam.SetOrthographic(10, 1, -100, 100)
	fps := NewFPS(cam)
	in := newFakeInput()

	assert.Equal(t, Unchanged, step(fps, in))
	assert.True(t, cam.IsOrthographic)

	fps.ForceUpdate()
	assert.Equal(t, Changed, step(fps, in))
	assert.False(t, cam.IsOrthographic)
	assert.Equal(t, Unchanged, step(fps, in))
}

func BenchmarkFPSUpdate(b *testing.B) {
	fps := NewFPS(render.NewCamera())
	in := newFakeInput()
	in.press(KeyW)
	in.press(KeyJ)
	for b.Loop() {
		fps.Update(in, 1.0/60, 1)
	}
}
