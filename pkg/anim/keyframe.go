package anim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/vantage/pkg/controls"
	"github.com/taigrr/vantage/pkg/math3d"
)

var (
	// ErrTooFewKeyframes is returned when playback needs a path of at
	// least two keyframes.
	ErrTooFewKeyframes = errors.New("need at least two keyframes")
	// ErrNoKeyframe is returned for an out of range keyframe index.
	ErrNoKeyframe = errors.New("no such keyframe")
)

// Playback defaults.
const (
	DefaultDuration     = 2.0
	DefaultLookDistance = 100.0

	// settleFactor scales the progress spring so it is within 0.5% of the
	// target when the segment duration runs out.
	settleFactor = 8.0
)

// Keyframe is a recorded camera pose and the timing of the segment that
// ends on it.
type Keyframe struct {
	Pos    math3d.Vec3
	LookAt math3d.Vec3
	Bank   float64
	Rot    mgl64.Quat

	// Duration is the time in seconds to travel from the previous keyframe.
	Duration float64
	// Hold is the time in seconds to stay on this keyframe afterwards.
	Hold float64
}

// KeyframeFromWorld captures a camera world matrix. The look-at point is
// placed lookDistance along the view direction.
func KeyframeFromWorld(world math3d.Mat4, lookDistance float64) Keyframe {
	rot, _, pos := math3d.Decompose(world)
	forward := world.AxisZ().Negate().Normalize()
	lookAt := pos.ScaleAdd(forward, lookDistance)

	// The roll left over after aiming at lookAt with +Y up.
	unbanked := math3d.TargetTo(pos, lookAt, math3d.UnitY())
	x := world.AxisX().Normalize()
	bank := math.Atan2(x.Dot(unbanked.AxisY()), x.Dot(unbanked.AxisX()))

	return Keyframe{
		Pos:      pos,
		LookAt:   lookAt,
		Bank:     bank,
		Rot:      rot,
		Duration: DefaultDuration,
	}
}

// Step returns the keyframe as an interpolation step.
func (k Keyframe) Step() controls.InterpolationStep {
	return controls.InterpolationStep{Pos: k.Pos, LookAtPos: k.LookAt, Bank: k.Bank}
}

func (k Keyframe) lookDistance() float64 {
	return k.Pos.Distance(k.LookAt)
}

// KeyframeManager records camera keyframes and plays them back. It
// implements controls.AnimationManager.
//
// Segment progress follows a critically damped spring toward 1 and snaps
// to 1 once the segment duration has elapsed. The bank angle follows its
// own spring so roll changes do not jerk.
type KeyframeManager struct {
	LookDistance float64
	// OnStopped is called when playback stops.
	OnStopped func()

	Logger *slog.Logger

	keyframes []Keyframe
	editing   int

	playing     bool
	segment     int
	elapsed     float64
	progress    float64
	progressVel float64
	bank        float64
	bankVel     float64
}

var _ controls.AnimationManager = (*KeyframeManager)(nil)

// NewKeyframeManager creates an empty manager.
func NewKeyframeManager() *KeyframeManager {
	return &KeyframeManager{
		LookDistance: DefaultLookDistance,
		editing:      -1,
	}
}

// Len returns the number of keyframes.
func (m *KeyframeManager) Len() int {
	return len(m.keyframes)
}

// Keyframes returns a copy of the recorded keyframes.
func (m *KeyframeManager) Keyframes() []Keyframe {
	return append([]Keyframe(nil), m.keyframes...)
}

// AddNextKeyframe appends a keyframe at world, or replaces the pose of the
// keyframe being edited.
func (m *KeyframeManager) AddNextKeyframe(world math3d.Mat4) {
	kf := KeyframeFromWorld(world, m.LookDistance)
	if m.editing >= 0 {
		old := m.keyframes[m.editing]
		kf.Duration, kf.Hold = old.Duration, old.Hold
		m.keyframes[m.editing] = kf
		m.logger().Debug("keyframe replaced", "index", m.editing, "pos", kf.Pos)
		return
	}
	m.keyframes = append(m.keyframes, kf)
	m.logger().Debug("keyframe added", "index", len(m.keyframes)-1, "pos", kf.Pos)
}

// EditKeyframe makes the next AddNextKeyframe replace keyframe i.
func (m *KeyframeManager) EditKeyframe(i int) error {
	if i < 0 || i >= len(m.keyframes) {
		return fmt.Errorf("edit keyframe %d: %w", i, ErrNoKeyframe)
	}
	m.editing = i
	return nil
}

// Editing returns the index being edited, or -1.
func (m *KeyframeManager) Editing() int {
	return m.editing
}

func (m *KeyframeManager) EndEditKeyframePosition() {
	m.editing = -1
}

// SetTiming changes the segment duration and hold of keyframe i.
func (m *KeyframeManager) SetTiming(i int, duration, hold float64) error {
	if i < 0 || i >= len(m.keyframes) {
		return fmt.Errorf("set timing %d: %w", i, ErrNoKeyframe)
	}
	m.keyframes[i].Duration = math.Max(duration, 0)
	m.keyframes[i].Hold = math.Max(hold, 0)
	return nil
}

// RemoveKeyframe deletes keyframe i.
func (m *KeyframeManager) RemoveKeyframe(i int) error {
	if i < 0 || i >= len(m.keyframes) {
		return fmt.Errorf("remove keyframe %d: %w", i, ErrNoKeyframe)
	}
	m.keyframes = append(m.keyframes[:i], m.keyframes[i+1:]...)
	m.editing = -1
	return nil
}

// StartPlayback rewinds to the first keyframe and returns the step the
// camera should start from.
func (m *KeyframeManager) StartPlayback() (controls.InterpolationStep, error) {
	if len(m.keyframes) < 2 {
		return controls.InterpolationStep{}, ErrTooFewKeyframes
	}
	m.playing = true
	m.segment = 1
	m.resetSegment()
	return m.keyframes[0].Step(), nil
}

// IsPlaying reports whether playback is running.
func (m *KeyframeManager) IsPlaying() bool {
	return m.playing
}

// active reports whether playback has a valid segment to sample.
func (m *KeyframeManager) active() bool {
	return m.playing && m.segment >= 1 && m.segment < len(m.keyframes)
}

func (m *KeyframeManager) resetSegment() {
	m.elapsed = 0
	m.progress, m.progressVel = 0, 0
	m.bank = m.keyframes[m.segment-1].Bank
	m.bankVel = 0
}

func (m *KeyframeManager) target() Keyframe {
	return m.keyframes[m.segment]
}

// IsKeyframeFinished reports whether the current segment has travelled
// and held. It is always true when playback is not running.
func (m *KeyframeManager) IsKeyframeFinished() bool {
	if !m.active() {
		return true
	}
	to := m.target()
	return m.elapsed >= to.Duration+to.Hold
}

func (m *KeyframeManager) InterpFinished() bool {
	if !m.active() {
		return true
	}
	return m.elapsed >= m.target().Duration
}

func (m *KeyframeManager) PlaybackHasNextKeyframe() bool {
	return m.active() && m.segment+1 < len(m.keyframes)
}

func (m *KeyframeManager) PlaybackAdvanceKeyframe() {
	if !m.PlaybackHasNextKeyframe() {
		return
	}
	m.segment++
	m.resetSegment()
}

// Update advances playback by dt seconds.
func (m *KeyframeManager) Update(dt float64) {
	if !m.active() || dt <= 0 {
		return
	}
	m.elapsed += dt

	from, to := m.keyframes[m.segment-1], m.target()
	if m.elapsed >= to.Duration {
		m.progress, m.progressVel = 1, 0
		m.bank, m.bankVel = to.Bank, 0
		return
	}

	omega := settleFactor / to.Duration
	progress := harmonica.NewSpring(dt, omega, 1)
	m.progress, m.progressVel = progress.Update(m.progress, m.progressVel, 1)

	bankTarget := math3d.LerpAngle(from.Bank, to.Bank, m.progress)
	bank := harmonica.NewSpring(dt, 2*omega, 1)
	m.bank, m.bankVel = bank.Update(m.bank, m.bankVel, bankTarget)
}

// PlaybackInterpolationStep samples the current segment. Position moves
// linearly with progress and the view direction is slerped. Once the
// segment duration has elapsed the step is exactly the target keyframe.
// Without running playback it returns the keyframe playback last reached.
func (m *KeyframeManager) PlaybackInterpolationStep() controls.InterpolationStep {
	if !m.active() {
		if len(m.keyframes) == 0 {
			return controls.InterpolationStep{}
		}
		return m.keyframes[min(max(m.segment, 0), len(m.keyframes)-1)].Step()
	}
	from, to := m.keyframes[m.segment-1], m.target()
	if m.elapsed >= to.Duration {
		return to.Step()
	}
	p := m.progress

	pos := from.Pos.Lerp(to.Pos, p)
	rot := mgl64.QuatSlerp(from.Rot, to.Rot, p)
	dir := rot.Rotate(mgl64.Vec3{0, 0, -1})
	dist := from.lookDistance() + (to.lookDistance()-from.lookDistance())*p

	return controls.InterpolationStep{
		Pos:       pos,
		LookAtPos: pos.ScaleAdd(math3d.V3(dir[0], dir[1], dir[2]), dist),
		Bank:      m.bank,
	}
}

// FireStoppedEvent ends playback.
func (m *KeyframeManager) FireStoppedEvent() {
	m.playing = false
	m.logger().Debug("playback stopped", "segment", m.segment)
	if m.OnStopped != nil {
		m.OnStopped()
	}
}

func (m *KeyframeManager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
