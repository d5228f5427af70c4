package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EditorCamera orbits a focal point at a distance. Yaw and pitch are in
// radians. Matrices are rebuilt lazily after any change.
type EditorCamera struct {
	FOV         float32 // degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	FocalPoint mgl32.Vec3
	Distance   float32
	Yaw        float32
	Pitch      float32

	position   mgl32.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4
	viewProj   mgl32.Mat4
	dirty      bool
}

func NewEditorCamera(fov, aspectRatio, nearPlane, farPlane float32) *EditorCamera {
	return &EditorCamera{
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		Distance:    10,
		Pitch:       0.3,
		dirty:       true,
	}
}

// SetViewportSize updates the aspect ratio. Zero heights are ignored.
func (c *EditorCamera) SetViewportSize(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *EditorCamera) SetFocalPoint(p mgl32.Vec3) {
	c.FocalPoint = p
	c.dirty = true
}

func (c *EditorCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.dirty = true
}

func (c *EditorCamera) Zoom(delta float32) {
	c.Distance -= delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.dirty = true
}

// Pan moves the focal point in the camera's right/up plane.
func (c *EditorCamera) Pan(dx, dy float32) {
	c.update()
	right := c.view.Row(0).Vec3()
	up := c.view.Row(1).Vec3()
	c.FocalPoint = c.FocalPoint.Add(right.Mul(-dx * c.Distance)).Add(up.Mul(dy * c.Distance))
	c.dirty = true
}

func (c *EditorCamera) ViewMatrix() mgl32.Mat4 {
	c.update()
	return c.view
}

func (c *EditorCamera) Projection() mgl32.Mat4 {
	c.update()
	return c.projection
}

func (c *EditorCamera) ViewProjection() mgl32.Mat4 {
	c.update()
	return c.viewProj
}

func (c *EditorCamera) Position() mgl32.Vec3 {
	c.update()
	return c.position
}

func (c *EditorCamera) update() {
	if !c.dirty {
		return
	}
	// keep away from the poles so LookAt's up vector stays valid
	if c.Pitch > 1.5 {
		c.Pitch = 1.5
	}
	if c.Pitch < -1.5 {
		c.Pitch = -1.5
	}

	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}
	c.position = c.FocalPoint.Add(offset)

	c.view = mgl32.LookAtV(c.position, c.FocalPoint, mgl32.Vec3{0, 1, 0})
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProj = c.projection.Mul4(c.view)
	c.dirty = false
}
