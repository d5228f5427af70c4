package core

import "github.com/go-gl/mathgl/mgl32"

var (
	ColorWhite  = mgl32.Vec4{1, 1, 1, 1}
	ColorBlack  = mgl32.Vec4{0, 0, 0, 1}
	ColorRed    = mgl32.Vec4{1, 0, 0, 1}
	ColorGreen  = mgl32.Vec4{0, 1, 0, 1}
	ColorBlue   = mgl32.Vec4{0, 0, 1, 1}
	ColorYellow = mgl32.Vec4{1, 1, 0, 1}
)

// RGB drops alpha.
func RGB(c mgl32.Vec4) mgl32.Vec3 { return c.Vec3() }

// Transform places an entity. Rotation holds Euler angles in radians,
// applied X first, then Y, then Z.
type Transform struct {
	Translation mgl32.Vec3 `yaml:"translation"`
	Rotation    mgl32.Vec3 `yaml:"rotation"`
	Scale       mgl32.Vec3 `yaml:"scale"`
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// RotationMatrix is Rz * Ry * Rx.
func (t Transform) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(t.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X()))
}

// Matrix is translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(t.RotationMatrix()).Mul4(scale)
}

// Forward is the -Z axis after rotation.
func (t Transform) Forward() mgl32.Vec3 {
	return t.RotationMatrix().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
}
