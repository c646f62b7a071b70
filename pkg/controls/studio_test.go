package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// fakeAnimation plays a fixed list of steps, one per Update, then holds
// for hold frames.
type fakeAnimation struct {
	recorded []math3d.Mat4
	endEdits int
	stopped  int

	steps    []InterpolationStep
	hold     int
	pos      int
	held     int
	segments int
	advanced int
	idle     bool
}

func (f *fakeAnimation) IsPlaying() bool { return !f.idle }

func (f *fakeAnimation) AddNextKeyframe(world math3d.Mat4) { f.recorded = append(f.recorded, world) }
func (f *fakeAnimation) EndEditKeyframePosition()          { f.endEdits++ }
func (f *fakeAnimation) FireStoppedEvent()                 { f.stopped++ }
func (f *fakeAnimation) InterpFinished() bool              { return f.pos >= len(f.steps) }
func (f *fakeAnimation) IsKeyframeFinished() bool          { return f.InterpFinished() && f.held >= f.hold }
func (f *fakeAnimation) PlaybackHasNextKeyframe() bool     { return f.advanced+1 < f.segments }
func (f *fakeAnimation) PlaybackAdvanceKeyframe() {
	f.advanced++
	f.pos, f.held = 0, 0
}

func (f *fakeAnimation) Update(dt float64) {
	if f.InterpFinished() {
		f.held++
		return
	}
	f.pos++
}

func (f *fakeAnimation) PlaybackInterpolationStep() InterpolationStep {
	return f.steps[f.pos-1]
}

func TestStudioRecordKeyframe(t *testing.T) {
	cam := render.NewCamera()
	anim := &fakeAnimation{}
	s := NewStudio(cam, anim)
	in := newFakeInput()

	in.press(KeyEnter)
	step(s, in)
	require.Len(t, anim.recorded, 1)
	assert.Equal(t, math3d.Identity(), anim.recorded[0])

	// Still on the keyframe: a second Enter is ignored.
	in.press(KeyEnter)
	step(s, in)
	assert.Len(t, anim.recorded, 1)

	// Moving leaves the keyframe.
	in.release(KeyEnter)
	in.press(KeyD)
	step(s, in)
	in.release(KeyD)
	in.press(KeyEnter)
	step(s, in)
	assert.Len(t, anim.recorded, 2)

	in.press(KeyEscape)
	step(s, in)
	assert.Equal(t, 1, anim.endEdits)
	assert.Zero(t, anim.stopped)
}

func TestStudioPlayback(t *testing.T) {
	cam := render.NewCamera()
	anim := &fakeAnimation{
		steps: []InterpolationStep{
			{Pos: math3d.V3(0, 0, 10), LookAtPos: math3d.V3(0, 0, 0)},
			{Pos: math3d.V3(10, 0, 0), LookAtPos: math3d.V3(0, 0, 0)},
		},
		hold:     1,
		segments: 1,
	}
	s := NewStudio(cam, anim)
	in := newFakeInput()

	start := InterpolationStep{Pos: math3d.V3(0, 5, 0), LookAtPos: math3d.V3(0, 0, -1)}
	s.PlayAnimation(start)
	require.True(t, s.IsPlaying())
	assert.InDelta(t, 5, cam.Position().Y, 1e-12)

	assert.Equal(t, Changed, step(s, in))
	assert.InDelta(t, 10, cam.Position().Z, 1e-12)
	assert.Equal(t, Changed, step(s, in))
	assert.InDelta(t, 10, cam.Position().X, 1e-12)
	assert.InDelta(t, -1, cam.Forward().X, 1e-12)
	assertViewInverse(t, cam)

	// Hold, then the last keyframe finishes and playback stops.
	assert.Equal(t, Unchanged, step(s, in))
	assert.Equal(t, Unchanged, step(s, in))
	assert.False(t, s.IsPlaying())
	assert.Equal(t, 1, anim.stopped)
}

func TestStudioPlaybackAdvances(t *testing.T) {
	cam := render.NewCamera()
	anim := &fakeAnimation{
		steps:    []InterpolationStep{{Pos: math3d.V3(1, 0, 0), LookAtPos: math3d.V3(0, 0, 0)}},
		segments: 2,
	}
	s := NewStudio(cam, anim)
	in := newFakeInput()
	s.PlayAnimation(InterpolationStep{Pos: math3d.V3(0, 0, 1)})

	assert.Equal(t, Changed, step(s, in))
	assert.Equal(t, Unchanged, step(s, in)) // advance
	assert.Equal(t, 1, anim.advanced)
	assert.True(t, s.IsPlaying())
	assert.Equal(t, Changed, step(s, in))
	assert.Equal(t, Unchanged, step(s, in)) // stop
	assert.False(t, s.IsPlaying())
}

func TestStudioPlaybackNotStarted(t *testing.T) {
	cam := render.NewCamera()
	anim := &fakeAnimation{
		steps:    []InterpolationStep{{Pos: math3d.V3(1, 0, 0)}},
		segments: 1,
		idle:     true,
	}
	s := NewStudio(cam, anim)
	s.PlayAnimation(InterpolationStep{Pos: math3d.V3(0, 0, 3)})

	assert.Equal(t, Unchanged, step(s, newFakeInput()))
	assert.False(t, s.IsPlaying())
	assert.Equal(t, 1, anim.stopped)
	assert.Zero(t, anim.pos, "no step sampled")
	assert.InDelta(t, 3, cam.Position().Z, 1e-12)
}

func TestStudioEscapeStopsPlayback(t *testing.T) {
	cam := render.NewCamera()
	anim := &fakeAnimation{
		steps:    []InterpolationStep{{Pos: math3d.V3(1, 0, 0)}, {Pos: math3d.V3(2, 0, 0)}},
		segments: 1,
	}
	s := NewStudio(cam, anim)
	in := newFakeInput()
	s.PlayAnimation(InterpolationStep{Pos: math3d.V3(0, 0, 1)})

	// Movement keys are ignored while playing.
	in.press(KeyW)
	in.press(KeyEscape)
	step(s, in)
	assert.False(t, s.IsPlaying())
	assert.Equal(t, 1, anim.stopped)
	assert.Zero(t, anim.endEdits)
	assert.InDelta(t, 1, cam.Position().X, 1e-12)
}

func TestInterpolationStepBank(t *testing.T) {
	step := InterpolationStep{Pos: math3d.V3(0, 0, 5), LookAtPos: math3d.Zero3(), Bank: 0.25}
	w := step.World()
	assert.InDelta(t, 5, w.Translation().Z, 1e-12)
	// Bank rolls the up axis toward -X.
	up := w.AxisY()
	assert.InDelta(t, -0.24740395925452294, up.X, 1e-12)
}
