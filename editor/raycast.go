package editor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/camera"
	"batch-render/scene"
)

// Ray is a world-space half line. Direction is unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At is the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 { return r.Origin.Add(r.Direction.Mul(t)) }

// HitResult stores the result of a ray intersection test
type HitResult struct {
	Hit      bool
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Entity   *scene.Entity
}

// ScreenToRay unprojects a cursor position (origin top left) through view.
func ScreenToRay(mouseX, mouseY, screenWidth, screenHeight float32, view camera.View) Ray {
	ndcX := (2*mouseX)/screenWidth - 1
	ndcY := 1 - (2*mouseY)/screenHeight // flip Y

	inv := view.ViewProjection().Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	p0 := near.Vec3().Mul(1 / near.W())
	p1 := far.Vec3().Mul(1 / far.W())

	return Ray{Origin: p0, Direction: p1.Sub(p0).Normalize()}
}

// SphereBounds is the world-space sphere an entity's unit sphere mesh fills:
// centred on the translation with the largest scale axis as radius.
func SphereBounds(e *scene.Entity) (mgl32.Vec3, float32) {
	s := e.Transform.Scale
	r := max(abs32(s.X()), abs32(s.Y()), abs32(s.Z()))
	return e.Transform.Translation, r
}

// RaycastScene returns the closest sphere entity hit by ray.
func RaycastScene(ray Ray, s *scene.Scene) HitResult {
	closest := HitResult{Distance: math.MaxFloat32}
	for _, e := range s.Entities() {
		if e.Sphere == nil {
			continue
		}
		center, radius := SphereBounds(e)
		t, hit := raySphereIntersect(ray, center, radius)
		if !hit || t >= closest.Distance {
			continue
		}
		p := ray.At(t)
		closest = HitResult{
			Hit:      true,
			Distance: t,
			Point:    p,
			Normal:   p.Sub(center).Normalize(),
			Entity:   e,
		}
	}
	return closest
}

// raySphereIntersect returns the nearest non-negative t. A ray starting
// inside the sphere hits its far side.
func raySphereIntersect(ray Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
