package controls

import (
	"github.com/taigrr/vantage/pkg/math3d"
	"github.com/taigrr/vantage/pkg/render"
)

// InterpolationStep is one sample of a camera path.
type InterpolationStep struct {
	Pos       math3d.Vec3
	LookAtPos math3d.Vec3
	// Bank is the roll around the view axis in radians.
	Bank float64
}

// World returns the camera world matrix for the step.
func (s InterpolationStep) World() math3d.Mat4 {
	return math3d.TargetTo(s.Pos, s.LookAtPos, math3d.UnitY()).Mul(math3d.RotateZ(s.Bank))
}

// AnimationManager records keyframes and plays them back for a Studio
// controller.
type AnimationManager interface {
	// AddNextKeyframe records a keyframe at the given camera pose.
	AddNextKeyframe(world math3d.Mat4)
	// EndEditKeyframePosition leaves keyframe edit mode.
	EndEditKeyframePosition()

	IsKeyframeFinished() bool
	PlaybackHasNextKeyframe() bool
	PlaybackAdvanceKeyframe()
	// InterpFinished reports whether the current keyframe reached its
	// target and is only holding.
	InterpFinished() bool
	// Update advances playback by dt seconds.
	Update(dt float64)
	PlaybackInterpolationStep() InterpolationStep

	// IsPlaying reports whether playback was started and has not stopped.
	IsPlaying() bool
	FireStoppedEvent()
}

// Studio is an FPS controller that can also record and play camera
// animations.
type Studio struct {
	*FPS

	animation AnimationManager
	playing   bool
	// onKeyframe is set while the camera sits on a keyframe's end pose.
	onKeyframe bool
	// arrived is set once playback has put the camera on the current
	// segment's target keyframe.
	arrived bool
}

// NewStudio creates a Studio controller for camera backed by animation.
func NewStudio(camera *render.Camera, animation AnimationManager) *Studio {
	return &Studio{
		FPS:       NewFPS(camera),
		animation: animation,
	}
}

// IsPlaying reports whether an animation is playing.
func (s *Studio) IsPlaying() bool {
	return s.playing
}

func (s *Studio) Update(in Input, dt, sceneTimeScale float64) UpdateResult {
	if s.playing {
		result := s.updateAnimation(dt)
		if in.IsKeyDownEventTriggered(KeyEscape) {
			s.StopAnimation()
		}
		return result
	}

	if !s.onKeyframe && in.IsKeyDownEventTriggered(KeyEnter) {
		s.animation.AddNextKeyframe(s.camera.WorldMatrix())
		s.onKeyframe = true
		s.logger().Debug("keyframe recorded", "pos", s.camera.Position())
	}
	if in.IsKeyDownEventTriggered(KeyEscape) {
		s.animation.EndEditKeyframePosition()
	}

	result := s.FPS.Update(in, dt, sceneTimeScale)
	if s.onKeyframe && result != Unchanged {
		s.onKeyframe = false
	}
	return result
}

func (s *Studio) updateAnimation(dt float64) UpdateResult {
	if !s.animation.IsPlaying() {
		s.StopAnimation()
		return Unchanged
	}

	if s.animation.IsKeyframeFinished() {
		// A segment with no travel time still lands on its keyframe.
		result := s.arrive()
		if s.animation.PlaybackHasNextKeyframe() {
			s.animation.PlaybackAdvanceKeyframe()
			s.arrived = false
		} else {
			s.StopAnimation()
		}
		return result
	}

	s.animation.Update(dt)
	if s.arrived {
		// Holding on the keyframe.
		return Unchanged
	}
	s.applyStep()
	s.arrived = s.animation.InterpFinished()
	return Changed
}

func (s *Studio) arrive() UpdateResult {
	if s.arrived {
		return Unchanged
	}
	s.applyStep()
	s.arrived = true
	return Changed
}

func (s *Studio) applyStep() {
	step := s.animation.PlaybackInterpolationStep()
	s.camera.SetWorldMatrix(step.World())
}

// SetToPosition moves the camera to step.
func (s *Studio) SetToPosition(step InterpolationStep) {
	s.camera.SetWorldMatrix(step.World())
	s.onKeyframe = true
}

// PlayAnimation starts playback from step. The animation manager must
// already be playing; otherwise the next Update stops again.
func (s *Studio) PlayAnimation(start InterpolationStep) {
	s.playing = true
	s.arrived = false
	s.SetToPosition(start)
	s.logger().Debug("playback started")
}

// StopAnimation stops playback and notifies the animation manager.
func (s *Studio) StopAnimation() {
	s.playing = false
	s.animation.FireStoppedEvent()
	s.logger().Debug("playback stopped")
}
