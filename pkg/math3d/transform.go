package math3d

import "github.com/go-gl/mathgl/mgl64"

// Decompose splits an affine matrix into rotation, per-axis scale and
// translation. Shear is discarded.
func Decompose(m Mat4) (rot mgl64.Quat, scale, translation Vec3) {
	scale = Vec3{m.AxisX().Len(), m.AxisY().Len(), m.AxisZ().Len()}
	translation = m.Translation()

	r := mgl64.Ident4()
	for col := range 3 {
		s := scale.Index(col)
		if s == 0 {
			continue
		}
		for row := range 3 {
			r[col*4+row] = m[col*4+row] / s
		}
	}
	rot = mgl64.Mat4ToQuat(r).Normalize()
	return rot, scale, translation
}

// Compose builds translation * rotation * scale.
func Compose(rot mgl64.Quat, translation, scale Vec3) Mat4 {
	m := rot.Normalize().Mat4().Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	out := Mat4(m)
	out.SetTranslation(translation)
	return out
}

// FromMGL converts a mathgl matrix; both are column-major.
func FromMGL(m mgl64.Mat4) Mat4 {
	return Mat4(m)
}

// MGL converts to a mathgl matrix.
func (m Mat4) MGL() mgl64.Mat4 {
	return mgl64.Mat4(m)
}
