package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position, orientation and scale in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// RotationMatrix returns the 3x3 orientation matrix of the transform.
// A zero quaternion is treated as the identity.
func (t Transform) RotationMatrix() mgl64.Mat3 {
	if t.Rotation.Len() == 0 {
		return mgl64.Ident3()
	}

	return t.Rotation.Normalize().Mat4().Mat3()
}

// scaled applies the transform scale to v. A zero scale is treated as 1.
func (t Transform) scaled(v mgl64.Vec3) mgl64.Vec3 {
	if t.Scale == (mgl64.Vec3{}) {
		return v
	}

	return mgl64.Vec3{v[0] * t.Scale[0], v[1] * t.Scale[1], v[2] * t.Scale[2]}
}
