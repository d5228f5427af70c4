package camera

import "github.com/go-gl/mathgl/mgl32"

type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// SceneCamera is the projection half of a camera entity. Its view comes
// from the entity transform, see FromTransform.
type SceneCamera struct {
	Type ProjectionType `yaml:"type"`

	PerspectiveFOV  float32 `yaml:"perspective_fov"` // radians
	PerspectiveNear float32 `yaml:"perspective_near"`
	PerspectiveFar  float32 `yaml:"perspective_far"`

	OrthographicSize float32 `yaml:"orthographic_size"`
	OrthographicNear float32 `yaml:"orthographic_near"`
	OrthographicFar  float32 `yaml:"orthographic_far"`

	AspectRatio float32 `yaml:"aspect_ratio"`

	projection mgl32.Mat4
}

func NewSceneCamera() *SceneCamera {
	c := &SceneCamera{
		Type:             Perspective,
		PerspectiveFOV:   mgl32.DegToRad(45),
		PerspectiveNear:  0.01,
		PerspectiveFar:   1000,
		OrthographicSize: 10,
		OrthographicNear: -1,
		OrthographicFar:  1,
		AspectRatio:      1,
	}
	c.Recalculate()
	return c
}

func (c *SceneCamera) SetViewportSize(width, height uint32) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
	c.Recalculate()
}

func (c *SceneCamera) Projection() mgl32.Mat4 { return c.projection }

// Recalculate rebuilds the projection after fields were edited directly.
func (c *SceneCamera) Recalculate() {
	if c.Type == Perspective {
		c.projection = mgl32.Perspective(c.PerspectiveFOV, c.AspectRatio, c.PerspectiveNear, c.PerspectiveFar)
		return
	}
	half := c.OrthographicSize * 0.5
	c.projection = mgl32.Ortho(-half*c.AspectRatio, half*c.AspectRatio, -half, half, c.OrthographicNear, c.OrthographicFar)
}
