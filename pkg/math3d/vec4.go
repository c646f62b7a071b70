package math3d

// Vec4 is a homogeneous point, usually a clip-space position.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 lifts v to homogeneous coordinates with the given w. Points
// use w = 1 and directions w = 0.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops W without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// DivideByW returns v with x, y and z divided by w and w set to 1. A zero
// w yields infinities; callers reject points at or behind the eye first.
func (v Vec4) DivideByW() Vec4 {
	return Vec4{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}
}

// Lerp interpolates in clip space, where segments are still straight.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}
