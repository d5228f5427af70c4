package camera

import "github.com/go-gl/mathgl/mgl32"

// OrthographicCamera is a 2D camera with a position and a rotation about Z.
type OrthographicCamera struct {
	projection mgl32.Mat4
	view       mgl32.Mat4
	position   mgl32.Vec3
	rotation   float32 // radians
}

func NewOrthographicCamera(left, right, bottom, top float32) *OrthographicCamera {
	c := &OrthographicCamera{
		projection: mgl32.Ortho(left, right, bottom, top, -1, 1),
		view:       mgl32.Ident4(),
	}
	return c
}

func (c *OrthographicCamera) SetProjection(left, right, bottom, top float32) {
	c.projection = mgl32.Ortho(left, right, bottom, top, -1, 1)
}

func (c *OrthographicCamera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.recalculateView()
}

func (c *OrthographicCamera) SetRotation(radians float32) {
	c.rotation = radians
	c.recalculateView()
}

func (c *OrthographicCamera) Rotation() float32 { return c.rotation }

func (c *OrthographicCamera) ViewMatrix() mgl32.Mat4     { return c.view }
func (c *OrthographicCamera) Projection() mgl32.Mat4     { return c.projection }
func (c *OrthographicCamera) ViewProjection() mgl32.Mat4 { return c.projection.Mul4(c.view) }
func (c *OrthographicCamera) Position() mgl32.Vec3       { return c.position }

func (c *OrthographicCamera) recalculateView() {
	transform := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z()).
		Mul4(mgl32.HomogRotate3DZ(c.rotation))
	c.view = transform.Inv()
}
