package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"batch-render/camera"
	"batch-render/core"
	"batch-render/gfx"
	"batch-render/materials"
)

// TextureSource resolves texture names stored in scene files.
// *resources.Cache satisfies it.
type TextureSource interface {
	Lookup2DTexture(name string) (gfx.Texture2D, bool)
	LookupPbrTexture(name string) (materials.PbrMaterialTexture, bool)
}

// ── YAML data structures ─────────────────────────────────────────────────────

type spriteYAML struct {
	Color        mgl32.Vec4 `yaml:"color,flow"`
	Texture      string     `yaml:"texture,omitempty"`
	TilingFactor float32    `yaml:"tiling_factor"`
}

type circleYAML struct {
	Color     mgl32.Vec4 `yaml:"color,flow"`
	Thickness float32    `yaml:"thickness"`
	Fade      float32    `yaml:"fade"`
}

type sphereYAML struct {
	Material materials.PbrMaterial `yaml:"material"`
	Texture  string                `yaml:"texture,omitempty"`
}

type pointLightYAML struct {
	Color mgl32.Vec3 `yaml:"color,flow"`
}

type directionalLightYAML struct {
	Direction mgl32.Vec3 `yaml:"direction,flow"`
	Color     mgl32.Vec3 `yaml:"color,flow"`
}

type cameraYAML struct {
	Camera           camera.SceneCamera `yaml:"camera"`
	Primary          bool               `yaml:"primary"`
	FixedAspectRatio bool               `yaml:"fixed_aspect_ratio"`
}

type entityYAML struct {
	UUID             string                `yaml:"uuid"`
	Tag              string                `yaml:"tag"`
	Transform        core.Transform        `yaml:"transform"`
	Sprite           *spriteYAML           `yaml:"sprite,omitempty"`
	Circle           *circleYAML           `yaml:"circle,omitempty"`
	Sphere           *sphereYAML           `yaml:"sphere,omitempty"`
	PointLight       *pointLightYAML       `yaml:"point_light,omitempty"`
	DirectionalLight *directionalLightYAML `yaml:"directional_light,omitempty"`
	Camera           *cameraYAML           `yaml:"camera,omitempty"`
}

type sceneYAML struct {
	Version  int          `yaml:"version"`
	Entities []entityYAML `yaml:"entities"`
}

const sceneVersion = 1

// Serializer saves and restores a scene. GPU textures are stored by name and
// resolved through the TextureSource on load.
type Serializer struct {
	scene    *Scene
	textures TextureSource
}

// NewSerializer binds s. textures may be nil, leaving names unresolved.
func NewSerializer(s *Scene, textures TextureSource) *Serializer {
	return &Serializer{scene: s, textures: textures}
}

// ── Save ─────────────────────────────────────────────────────────────────────

func (z *Serializer) Marshal() ([]byte, error) {
	doc := sceneYAML{Version: sceneVersion}
	for _, e := range z.scene.entities {
		doc.Entities = append(doc.Entities, entityToYAML(e))
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

// Serialize writes the scene to a YAML file at path.
func (z *Serializer) Serialize(path string) error {
	data, err := z.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}
	return nil
}

func entityToYAML(e *Entity) entityYAML {
	ey := entityYAML{
		UUID:      e.UUID.String(),
		Tag:       e.Tag,
		Transform: e.Transform,
	}
	if c := e.Sprite; c != nil {
		ey.Sprite = &spriteYAML{Color: c.Color, Texture: c.TextureName, TilingFactor: c.TilingFactor}
	}
	if c := e.Circle; c != nil {
		ey.Circle = &circleYAML{Color: c.Color, Thickness: c.Thickness, Fade: c.Fade}
	}
	if c := e.Sphere; c != nil {
		ey.Sphere = &sphereYAML{Material: c.Material, Texture: c.TextureName}
	}
	if c := e.PointLight; c != nil {
		ey.PointLight = &pointLightYAML{Color: c.Color}
	}
	if c := e.DirectionalLight; c != nil {
		ey.DirectionalLight = &directionalLightYAML{Direction: c.Direction, Color: c.Color}
	}
	if c := e.Camera; c != nil && c.Camera != nil {
		ey.Camera = &cameraYAML{Camera: *c.Camera, Primary: c.Primary, FixedAspectRatio: c.FixedAspectRatio}
	}
	return ey
}

// ── Load ─────────────────────────────────────────────────────────────────────

// Unmarshal appends the entities in data to the scene. Nothing is added if
// the document is malformed.
func (z *Serializer) Unmarshal(data []byte) error {
	var doc sceneYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal scene: %w", err)
	}
	if doc.Version != sceneVersion {
		return fmt.Errorf("unmarshal scene: unsupported version %d", doc.Version)
	}
	ids := make([]uuid.UUID, len(doc.Entities))
	for i, ey := range doc.Entities {
		id, err := uuid.Parse(ey.UUID)
		if err != nil {
			return fmt.Errorf("unmarshal scene: entity %d: %w", i, err)
		}
		ids[i] = id
	}
	for i, ey := range doc.Entities {
		z.entityFromYAML(z.scene.CreateEntityWithUUID(ids[i], ey.Tag), ey)
	}
	return nil
}

// Deserialize reads a YAML file written by Serialize.
func (z *Serializer) Deserialize(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene %q: %w", path, err)
	}
	return z.Unmarshal(data)
}

func (z *Serializer) entityFromYAML(e *Entity, ey entityYAML) {
	e.Transform = ey.Transform
	if c := ey.Sprite; c != nil {
		e.Sprite = &SpriteRendererComponent{Color: c.Color, TextureName: c.Texture, TilingFactor: c.TilingFactor}
		if c.Texture != "" && z.textures != nil {
			e.Sprite.Texture, _ = z.textures.Lookup2DTexture(c.Texture)
		}
	}
	if c := ey.Circle; c != nil {
		e.Circle = &CircleRendererComponent{Color: c.Color, Thickness: c.Thickness, Fade: c.Fade}
	}
	if c := ey.Sphere; c != nil {
		e.Sphere = &SphereRendererComponent{Material: c.Material, TextureName: c.Texture}
		if c.Texture != "" && z.textures != nil {
			e.Sphere.Texture, _ = z.textures.LookupPbrTexture(c.Texture)
		}
	}
	if c := ey.PointLight; c != nil {
		e.PointLight = &PointLightComponent{Color: c.Color}
	}
	if c := ey.DirectionalLight; c != nil {
		e.DirectionalLight = &DirectionalLightComponent{Direction: c.Direction, Color: c.Color}
	}
	if c := ey.Camera; c != nil {
		sc := c.Camera
		sc.Recalculate()
		e.Camera = &CameraComponent{Camera: &sc, Primary: c.Primary, FixedAspectRatio: c.FixedAspectRatio}
	}
}
