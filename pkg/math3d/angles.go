package math3d

import "math"

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// ClampRange clamps v to [-lim, lim].
func ClampRange(v, lim float64) float64 {
	return math.Max(-lim, math.Min(v, lim))
}

// LerpAngle interpolates from v0 toward v1 by t along the shortest arc of a
// circle of circumference Tau.
func LerpAngle(v0, v1, t float64) float64 {
	return LerpAngleMax(v0, v1, t, Tau)
}

// LerpAngleMax is LerpAngle on a circle of circumference maxAngle.
func LerpAngleMax(v0, v1, t, maxAngle float64) float64 {
	da := math.Mod(v1-v0, maxAngle)
	dist := math.Mod(2*da, maxAngle) - da
	return v0 + dist*t
}

// UnitSpherical returns the point on the unit sphere at the given azimuth
// (around +Y, measured from +X) and polar angle (measured from +Y).
func UnitSpherical(azimuth, polar float64) Vec3 {
	sinP := math.Sin(polar)
	return Vec3{
		sinP * math.Cos(azimuth),
		math.Cos(polar),
		sinP * math.Sin(azimuth),
	}
}
