// Package camera provides the view contract consumed by the renderers'
// BeginScene and the cameras that satisfy it.
package camera

import "github.com/go-gl/mathgl/mgl32"

// View is what a renderer needs from a camera for one scene.
type View interface {
	ViewMatrix() mgl32.Mat4
	Projection() mgl32.Mat4
	ViewProjection() mgl32.Mat4
	// Position is the eye position in world space.
	Position() mgl32.Vec3
}

// TransformView is a fixed projection looked through a world transform.
type TransformView struct {
	projection mgl32.Mat4
	transform  mgl32.Mat4
	view       mgl32.Mat4
}

// FromTransform builds the view of a camera entity: projection * inverse(transform).
func FromTransform(projection, transform mgl32.Mat4) TransformView {
	return TransformView{
		projection: projection,
		transform:  transform,
		view:       transform.Inv(),
	}
}

func (v TransformView) ViewMatrix() mgl32.Mat4     { return v.view }
func (v TransformView) Projection() mgl32.Mat4     { return v.projection }
func (v TransformView) ViewProjection() mgl32.Mat4 { return v.projection.Mul4(v.view) }
func (v TransformView) Position() mgl32.Vec3       { return v.transform.Col(3).Vec3() }
