package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformIdentity(t *testing.T) {
	m := NewTransform().Matrix()
	if !m.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("Matrix: expected identity, got %v", m)
	}
}

func TestTransformOrder(t *testing.T) {
	tr := NewTransform()
	tr.Translation = mgl32.Vec3{1, 2, 3}
	tr.Rotation = mgl32.Vec3{0, 0, mgl32.DegToRad(90)}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	// scale, then rotate a quarter turn about Z, then translate
	got := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	want := mgl32.Vec3{1, 4, 3}
	if !near(got, want, 1e-5) {
		t.Errorf("Matrix: expected %v, got %v", want, got)
	}
}

func TestTransformForward(t *testing.T) {
	tr := NewTransform()
	tr.Rotation = mgl32.Vec3{0, mgl32.DegToRad(90), 0}

	got := tr.Forward()
	want := mgl32.Vec3{-1, 0, 0}
	if !near(got, want, 1e-5) {
		t.Errorf("Forward: expected %v, got %v", want, got)
	}
}

// near compares per component. mgl32's ApproxEqual falls back to eps*eps
// against exact zeros, which float32 trigonometry never hits.
func near(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}
