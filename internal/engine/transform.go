package engine

import "github.com/go-gl/mathgl/mgl32"

// Transform is the authored form of a local transform.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in degrees, applied Y then X then Z
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func Translation(x, y, z float32) Transform {
	t := NewTransform()
	t.Position = mgl32.Vec3{x, y, z}
	return t
}

// Matrix composes scale -> rotate -> translate.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z())))
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(rot).Mul4(scale)
}

// TranslationOf returns the translation column of m.
func TranslationOf(m mgl32.Mat4) mgl32.Vec3 {
	return m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}
