// Package scene is the minimal entity store the renderers draw from. It
// owns iteration order, light aggregation and the per-frame update paths.
package scene

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"batch-render/camera"
	"batch-render/core"
	"batch-render/materials"
	"batch-render/renderer2d"
	"batch-render/renderer3d"
)

// Entity is a transform plus at most one component of each type.
type Entity struct {
	// ID is the per-scene handle written into vertex entity IDs.
	ID        int32
	UUID      uuid.UUID
	Tag       string
	Transform core.Transform

	Sprite           *SpriteRendererComponent
	Circle           *CircleRendererComponent
	Sphere           *SphereRendererComponent
	PointLight       *PointLightComponent
	DirectionalLight *DirectionalLightComponent
	Camera           *CameraComponent
}

// Has reports whether the entity carries a component of type t.
func (e *Entity) Has(t ComponentType) bool {
	h, ok := componentHandlers[t]
	return ok && h.has(e)
}

// QuadRenderer is the part of renderer2d.Renderer a scene draws with.
type QuadRenderer interface {
	BeginScene(view camera.View)
	EndScene()
	DrawSprite(transform mgl32.Mat4, sprite renderer2d.Sprite, entityID int32)
	DrawCircle(transform mgl32.Mat4, color mgl32.Vec4, thickness, fade float32, entityID int32)
}

// SphereRenderer is the part of renderer3d.Renderer a scene draws with.
type SphereRenderer interface {
	BeginScene(view camera.View)
	BeginEditorScene(view camera.View)
	EndScene()
	DrawSphereComponent(transform mgl32.Mat4, mat materials.PbrMaterial, tex materials.PbrMaterialTexture, light renderer3d.LightParams, entityID int32)
	DrawGroundPlane(rows, cols int, spacing float32)
}

// Editor ground grid.
const (
	GroundPlaneRows    = 15
	GroundPlaneCols    = 15
	GroundPlaneSpacing = 1
)

type Scene struct {
	// entities stay sorted by ID; IDs only grow
	entities []*Entity
	nextID   int32

	viewportWidth  uint32
	viewportHeight uint32
}

func New() *Scene {
	return &Scene{}
}

func (s *Scene) CreateEntity(tag string) *Entity {
	return s.CreateEntityWithUUID(uuid.New(), tag)
}

func (s *Scene) CreateEntityWithUUID(id uuid.UUID, tag string) *Entity {
	if tag == "" {
		tag = "Entity"
	}
	e := &Entity{
		ID:        s.nextID,
		UUID:      id,
		Tag:       tag,
		Transform: core.NewTransform(),
	}
	s.nextID++
	s.entities = append(s.entities, e)
	return e
}

func (s *Scene) DestroyEntity(e *Entity) {
	s.entities = slices.DeleteFunc(s.entities, func(x *Entity) bool { return x == e })
}

// RestoreEntity puts back an entity removed by DestroyEntity, keeping ID
// order. Entities already in the scene are left alone.
func (s *Scene) RestoreEntity(e *Entity) {
	i, ok := slices.BinarySearchFunc(s.entities, e.ID, func(x *Entity, id int32) int { return cmp.Compare(x.ID, id) })
	if ok {
		return
	}
	s.entities = slices.Insert(s.entities, i, e)
}

// DuplicateEntity copies every component of e onto a new entity with a
// fresh UUID and the same tag.
func (s *Scene) DuplicateEntity(e *Entity) *Entity {
	dup := s.CreateEntity(e.Tag)
	dup.Transform = e.Transform
	for _, t := range componentTypes {
		if h := componentHandlers[t]; h.has(e) {
			h.copy(dup, e)
		}
	}
	return dup
}

// Entities are in ascending ID order. The slice aliases the scene.
func (s *Scene) Entities() []*Entity { return s.entities }

func (s *Scene) Entity(id int32) *Entity {
	i, ok := slices.BinarySearchFunc(s.entities, id, func(e *Entity, id int32) int { return cmp.Compare(e.ID, id) })
	if !ok {
		return nil
	}
	return s.entities[i]
}

func (s *Scene) FindByUUID(id uuid.UUID) *Entity {
	for _, e := range s.entities {
		if e.UUID == id {
			return e
		}
	}
	return nil
}

// ── Lights ───────────────────────────────────────────────────────────────────

// GetLightParams collects point lights in entity order. Of several
// directional lights the one with the lowest entity ID wins.
func (s *Scene) GetLightParams() renderer3d.LightParams {
	var lp renderer3d.LightParams
	haveDir := false
	for _, e := range s.entities {
		if e.PointLight != nil {
			lp.PointLightPositions = append(lp.PointLightPositions, e.Transform.Translation)
			lp.PointLightColors = append(lp.PointLightColors, e.PointLight.Color)
		}
		if e.DirectionalLight != nil && !haveDir {
			lp.DirectionalLightDirection = e.DirectionalLight.Direction
			lp.DirectionalLightColor = e.DirectionalLight.Color
			haveDir = true
		}
	}
	return lp
}

// ── Update ───────────────────────────────────────────────────────────────────

// OnUpdateEditor draws the scene through view with the environment
// background and ground grid. r2 may be nil.
func (s *Scene) OnUpdateEditor(r2 QuadRenderer, r3 SphereRenderer, view camera.View) {
	r3.BeginEditorScene(view)
	s.drawSpheres(r3)
	r3.DrawGroundPlane(GroundPlaneRows, GroundPlaneCols, GroundPlaneSpacing)
	r3.EndScene()

	if r2 != nil {
		r2.BeginScene(view)
		s.drawQuads(r2)
		r2.EndScene()
	}
}

// OnUpdateRuntime draws through the primary camera entity. Without one
// nothing is drawn. r2 may be nil.
func (s *Scene) OnUpdateRuntime(r2 QuadRenderer, r3 SphereRenderer) {
	cam := s.PrimaryCamera()
	if cam == nil {
		return
	}
	view := camera.FromTransform(cam.Camera.Camera.Projection(), cam.Transform.Matrix())

	r3.BeginScene(view)
	s.drawSpheres(r3)
	r3.EndScene()

	if r2 != nil {
		r2.BeginScene(view)
		s.drawQuads(r2)
		r2.EndScene()
	}
}

func (s *Scene) drawSpheres(r3 SphereRenderer) {
	light := s.GetLightParams()
	for _, e := range s.entities {
		if e.Sphere == nil {
			continue
		}
		r3.DrawSphereComponent(e.Transform.Matrix(), e.Sphere.Material, e.Sphere.Texture, light, e.ID)
	}
}

func (s *Scene) drawQuads(r2 QuadRenderer) {
	for _, e := range s.entities {
		if e.Sprite != nil {
			r2.DrawSprite(e.Transform.Matrix(), renderer2d.Sprite{
				Color:        e.Sprite.Color,
				Texture:      e.Sprite.Texture,
				TilingFactor: e.Sprite.TilingFactor,
			}, e.ID)
		}
	}
	for _, e := range s.entities {
		if e.Circle != nil {
			r2.DrawCircle(e.Transform.Matrix(), e.Circle.Color, e.Circle.Thickness, e.Circle.Fade, e.ID)
		}
	}
}

// PrimaryCamera is the lowest-ID entity whose camera is marked primary.
func (s *Scene) PrimaryCamera() *Entity {
	for _, e := range s.entities {
		if e.Camera != nil && e.Camera.Primary && e.Camera.Camera != nil {
			return e
		}
	}
	return nil
}

// OnViewportResize updates every camera without a fixed aspect ratio.
func (s *Scene) OnViewportResize(width, height uint32) {
	s.viewportWidth, s.viewportHeight = width, height
	for _, e := range s.entities {
		if e.Camera != nil && e.Camera.Camera != nil && !e.Camera.FixedAspectRatio {
			e.Camera.Camera.SetViewportSize(width, height)
		}
	}
}

func (s *Scene) ViewportSize() (uint32, uint32) { return s.viewportWidth, s.viewportHeight }
