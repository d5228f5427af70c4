package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"batch-render/camera"
	"batch-render/gfx"
	"batch-render/materials"
)

type SpriteRendererComponent struct {
	Color        mgl32.Vec4
	Texture      gfx.Texture2D
	TextureName  string
	TilingFactor float32
}

func NewSpriteRenderer(color mgl32.Vec4) *SpriteRendererComponent {
	return &SpriteRendererComponent{Color: color, TilingFactor: 1}
}

type CircleRendererComponent struct {
	Color     mgl32.Vec4
	Thickness float32
	Fade      float32
}

func NewCircleRenderer(color mgl32.Vec4) *CircleRendererComponent {
	return &CircleRendererComponent{Color: color, Thickness: 1, Fade: 0.005}
}

// SphereRendererComponent draws with Texture when it is complete and with
// Material otherwise.
type SphereRendererComponent struct {
	Material    materials.PbrMaterial
	Texture     materials.PbrMaterialTexture
	TextureName string
}

func NewSphereRenderer() *SphereRendererComponent {
	return &SphereRendererComponent{Material: materials.NewPbrMaterial()}
}

// PointLightComponent lights from the entity's translation.
type PointLightComponent struct {
	Color mgl32.Vec3
}

func NewPointLight() *PointLightComponent {
	return &PointLightComponent{Color: mgl32.Vec3{300, 300, 300}}
}

type DirectionalLightComponent struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
}

func NewDirectionalLight() *DirectionalLightComponent {
	return &DirectionalLightComponent{
		Direction: mgl32.Vec3{0, -1, 0},
		Color:     mgl32.Vec3{300, 300, 300},
	}
}

type CameraComponent struct {
	Camera  *camera.SceneCamera
	Primary bool
	// FixedAspectRatio cameras ignore viewport resizes.
	FixedAspectRatio bool
}

func NewCamera() *CameraComponent {
	return &CameraComponent{Camera: camera.NewSceneCamera(), Primary: true}
}

// ComponentType names a component kind in the duplicate and serialise
// handler registries.
type ComponentType string

const (
	ComponentSprite           ComponentType = "sprite"
	ComponentCircle           ComponentType = "circle"
	ComponentSphere           ComponentType = "sphere"
	ComponentPointLight       ComponentType = "point_light"
	ComponentDirectionalLight ComponentType = "directional_light"
	ComponentCamera           ComponentType = "camera"
)

type componentHandler struct {
	has  func(e *Entity) bool
	copy func(dst, src *Entity)
}

// componentTypes fixes the order handlers run in.
var componentTypes = []ComponentType{
	ComponentSprite,
	ComponentCircle,
	ComponentSphere,
	ComponentPointLight,
	ComponentDirectionalLight,
	ComponentCamera,
}

var componentHandlers = map[ComponentType]componentHandler{
	ComponentSprite: {
		has: func(e *Entity) bool { return e.Sprite != nil },
		copy: func(dst, src *Entity) {
			c := *src.Sprite
			dst.Sprite = &c
		},
	},
	ComponentCircle: {
		has: func(e *Entity) bool { return e.Circle != nil },
		copy: func(dst, src *Entity) {
			c := *src.Circle
			dst.Circle = &c
		},
	},
	ComponentSphere: {
		has: func(e *Entity) bool { return e.Sphere != nil },
		copy: func(dst, src *Entity) {
			c := *src.Sphere
			dst.Sphere = &c
		},
	},
	ComponentPointLight: {
		has: func(e *Entity) bool { return e.PointLight != nil },
		copy: func(dst, src *Entity) {
			c := *src.PointLight
			dst.PointLight = &c
		},
	},
	ComponentDirectionalLight: {
		has: func(e *Entity) bool { return e.DirectionalLight != nil },
		copy: func(dst, src *Entity) {
			c := *src.DirectionalLight
			dst.DirectionalLight = &c
		},
	},
	ComponentCamera: {
		has: func(e *Entity) bool { return e.Camera != nil },
		copy: func(dst, src *Entity) {
			c := *src.Camera
			if src.Camera.Camera != nil {
				sc := *src.Camera.Camera
				c.Camera = &sc
			}
			dst.Camera = &c
		},
	},
}
