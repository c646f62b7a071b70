// Package anim holds frame timing and camera keyframe playback.
package anim

// DefaultFPS is the frame rate of a Clock created with NewClock(0).
const DefaultFPS = 30

// Clock converts wall time to animation frames at a fixed rate. The
// reported time is the set time plus a phase offset, so one clock can be
// restarted without touching the source of time.
type Clock struct {
	FPS float64

	timeInFrames float64
	phaseFrames  float64
}

// NewClock creates a clock running at fps frames per second. A zero or
// negative fps uses DefaultFPS.
func NewClock(fps float64) *Clock {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Clock{FPS: fps}
}

// FramesFromMilliseconds converts a duration to frames at fps.
func FramesFromMilliseconds(ms, fps float64) float64 {
	return ms * (fps / 1000)
}

// TimeInFrames returns the current time in frames, phase included.
func (c *Clock) TimeInFrames() float64 {
	return c.timeInFrames + c.phaseFrames
}

// TimeInSeconds returns the current time in seconds, phase included.
func (c *Clock) TimeInSeconds() float64 {
	return c.TimeInFrames() / c.FPS
}

func (c *Clock) SetTimeInMilliseconds(ms float64) {
	c.SetTimeInFrames(FramesFromMilliseconds(ms, c.FPS))
}

func (c *Clock) SetTimeInFrames(frames float64) {
	c.timeInFrames = frames
}

// QuantizeTimeToFPS drops the fractional frame.
func (c *Clock) QuantizeTimeToFPS() {
	c.timeInFrames = float64(int64(c.timeInFrames))
}

func (c *Clock) SetPhaseInMilliseconds(ms float64) {
	c.phaseFrames = FramesFromMilliseconds(ms, c.FPS)
}

// SetPhaseToCurrent offsets the clock so it reads zero right now.
func (c *Clock) SetPhaseToCurrent() {
	c.phaseFrames = -c.timeInFrames
}
