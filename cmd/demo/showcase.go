package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/core"
	"batch-render/materials"
	"batch-render/scene"
)

// TextureSource is the part of the resource cache the showcase reads.
type TextureSource interface {
	scene.TextureSource
	MaterialNames() []string
	PresetNames() []string
	LookupMaterial(name string) (materials.PbrMaterial, bool)
}

const (
	gridRows    = 7
	gridCols    = 7
	gridSpacing = 2.5
)

// Showcase holds the entities the frame loop animates.
type Showcase struct {
	Scene  *scene.Scene
	Sun    *scene.Entity
	Lights []*scene.Entity
	Logo   *scene.Entity
}

// NewShowcase builds a metallic×roughness grid of analytic spheres, one
// row of textured spheres per loaded material, four point lights, a sun,
// a row of glTF material presets, a runtime camera and a textured backdrop.
func NewShowcase(textures TextureSource) *Showcase {
	sc := &Showcase{Scene: scene.New()}
	s := sc.Scene

	for row := 0; row < gridRows; row++ {
		metallic := float32(row) / gridRows
		for col := 0; col < gridCols; col++ {
			e := s.CreateEntity("Sphere")
			e.Transform.Translation = mgl32.Vec3{
				(float32(col) - gridCols/2) * gridSpacing,
				(float32(row) - gridRows/2) * gridSpacing,
				0,
			}
			e.Sphere = scene.NewSphereRenderer()
			e.Sphere.Material.Albedo = mgl32.Vec3{0.5, 0, 0}
			e.Sphere.Material.Metallic = metallic
			// fully smooth spheres look off under direct light
			e.Sphere.Material.Roughness = mgl32.Clamp(float32(col)/gridCols, 0.05, 1)
		}
	}

	for i, name := range textures.MaterialNames() {
		tex, ok := textures.LookupPbrTexture(name)
		if !ok {
			continue
		}
		e := s.CreateEntity("Material " + name)
		e.Transform.Translation = mgl32.Vec3{
			(float32(i) - gridCols/2) * gridSpacing,
			-(gridRows/2 + 2) * gridSpacing,
			2,
		}
		e.Sphere = scene.NewSphereRenderer()
		e.Sphere.Material = materials.PbrMaterial{Name: name, Albedo: mgl32.Vec3{1, 1, 1}, Roughness: 0.5, Ao: 1}
		e.Sphere.Texture = tex
		e.Sphere.TextureName = name
	}

	for i, name := range textures.PresetNames() {
		mat, ok := textures.LookupMaterial(name)
		if !ok {
			continue
		}
		e := s.CreateEntity("Preset " + name)
		e.Transform.Translation = mgl32.Vec3{
			(float32(i) - gridCols/2) * gridSpacing,
			(gridRows/2 + 2) * gridSpacing,
			2,
		}
		e.Sphere = scene.NewSphereRenderer()
		e.Sphere.Material = mat
	}

	for _, p := range []mgl32.Vec3{{-10, 10, 10}, {10, 10, 10}, {-10, -10, 10}, {10, -10, 10}} {
		e := s.CreateEntity("Point Light")
		e.Transform.Translation = p
		e.PointLight = scene.NewPointLight()
		sc.Lights = append(sc.Lights, e)
	}

	sc.Sun = s.CreateEntity("Sun")
	sc.Sun.DirectionalLight = scene.NewDirectionalLight()

	cam := s.CreateEntity("Camera")
	cam.Transform.Translation = mgl32.Vec3{0, 0, 25}
	cam.Camera = scene.NewCamera()

	backdrop := s.CreateEntity("Backdrop")
	backdrop.Transform.Translation = mgl32.Vec3{0, 0, -4}
	backdrop.Transform.Scale = mgl32.Vec3{24, 24, 1}
	backdrop.Sprite = scene.NewSpriteRenderer(core.ColorWhite)
	backdrop.Sprite.TilingFactor = 10
	if t, ok := textures.Lookup2DTexture("Checkerboard"); ok && t != nil {
		backdrop.Sprite.Texture = t
		backdrop.Sprite.TextureName = "Checkerboard"
	}

	sc.Logo = s.CreateEntity("Logo")
	sc.Logo.Transform.Translation = mgl32.Vec3{0, gridRows/2*gridSpacing + 3, 0}
	sc.Logo.Transform.Scale = mgl32.Vec3{3, 3, 1}
	sc.Logo.Circle = scene.NewCircleRenderer(mgl32.Vec4{0.9, 0.3, 0.2, 1})
	sc.Logo.Circle.Thickness = 0.2
	return sc
}

// Rebind switches to s, picking up the sun, point lights and circle
// by component so a loaded scene keeps animating.
func (sc *Showcase) Rebind(s *scene.Scene) {
	sc.Scene, sc.Sun, sc.Lights, sc.Logo = s, nil, nil, nil
	for _, e := range s.Entities() {
		switch {
		case e.DirectionalLight != nil && sc.Sun == nil:
			sc.Sun = e
		case e.PointLight != nil:
			sc.Lights = append(sc.Lights, e)
		case e.Circle != nil && sc.Logo == nil:
			sc.Logo = e
		}
	}
}

// Animate orbits the point lights around the grid centre.
func (sc *Showcase) Animate(t float32) {
	for i, e := range sc.Lights {
		phase := t + float32(i)*mgl32.DegToRad(90)
		e.Transform.Translation = mgl32.Vec3{
			14 * sinf(phase),
			e.Transform.Translation.Y(),
			10 + 4*cosf(phase),
		}
	}
	if sc.Logo != nil {
		sc.Logo.Transform.Rotation = mgl32.Vec3{0, 0, t}
	}
}

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }
