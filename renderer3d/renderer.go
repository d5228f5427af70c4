// Package renderer3d draws PBR spheres lit by point lights and the
// precomputed IBL set, plus debug lines and the editor ground plane.
package renderer3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/batch"
	"batch-render/camera"
	"batch-render/config"
	"batch-render/gfx"
	"batch-render/ibl"
	"batch-render/internal/logger"
	"batch-render/materials"
)

// MaxPointLights is the size of the light arrays in the sphere program.
// Lights past it are dropped.
const MaxPointLights = 64

// First texture unit of the five material maps. Units 0-2 hold the IBL set.
const materialUnit = 3

// LightParams is rebuilt from the scene every frame.
type LightParams struct {
	PointLightPositions []mgl32.Vec3
	PointLightColors    []mgl32.Vec3

	DirectionalLightDirection mgl32.Vec3
	DirectionalLightColor     mgl32.Vec3
}

// PointLightCount is the number of complete position/color pairs.
func (l LightParams) PointLightCount() int {
	return min(len(l.PointLightPositions), len(l.PointLightColors))
}

type Statistics struct {
	DrawCalls   int
	SphereCount int
}

type Renderer struct {
	device gfx.Device
	log    *zap.Logger

	segX, segY int
	ibl        *ibl.Set

	sphereVA      gfx.VertexArray
	sphereVB      gfx.VertexBuffer
	sphereIB      gfx.IndexBuffer
	sphereShader  gfx.Shader
	sphereVerts   *batch.Arena[SphereVertex]
	sphereIndices *batch.Arena[uint32]
	// maps are bound at flush when the pending sphere is textured
	maps [materials.MapCount]gfx.Texture2D

	lineVA     gfx.VertexArray
	lineVB     gfx.VertexBuffer
	lineShader gfx.Shader
	lines      *batch.Arena[LineVertex]
	lineWidth  float32

	background       *ibl.Mesh
	backgroundShader gfx.Shader

	stats Statistics
}

// New allocates the sphere and line batches. set may be nil, in which case
// no IBL textures are bound and the background is skipped.
func New(device gfx.Device, cfg config.Renderer3D, set *ibl.Set, log *zap.Logger) (_ *Renderer, err error) {
	if SphereVertexCount(cfg.SphereSegmentsX, cfg.SphereSegmentsY) > cfg.MaxVertices ||
		SphereIndexCount(cfg.SphereSegmentsX, cfg.SphereSegmentsY) > cfg.MaxIndices {
		return nil, fmt.Errorf("renderer3d: %dx%d sphere exceeds %d vertices / %d indices",
			cfg.SphereSegmentsX, cfg.SphereSegmentsY, cfg.MaxVertices, cfg.MaxIndices)
	}
	r := &Renderer{
		device:    device,
		log:       logger.Or(log).Named("renderer3d"),
		segX:      cfg.SphereSegmentsX,
		segY:      cfg.SphereSegmentsY,
		ibl:       set,
		lineWidth: cfg.LineWidth,
	}
	if r.lineWidth <= 0 {
		r.lineWidth = 2
	}
	// a failed New releases what it had already created
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()

	r.sphereVerts = batch.NewArena[SphereVertex](cfg.MaxVertices)
	r.sphereIndices = batch.NewArena[uint32](cfg.MaxIndices)
	r.sphereVA = device.NewVertexArray()
	r.sphereVB = device.NewVertexBuffer(cfg.MaxVertices * r.sphereVerts.Stride())
	r.sphereVB.SetLayout(sphereLayout)
	r.sphereVA.AddVertexBuffer(r.sphereVB)
	r.sphereIB = device.NewIndexBuffer(cfg.MaxIndices)
	r.sphereVA.SetIndexBuffer(r.sphereIB)

	r.lines = batch.NewArena[LineVertex](cfg.MaxVertices)
	r.lineVA = device.NewVertexArray()
	r.lineVB = device.NewVertexBuffer(cfg.MaxVertices * r.lines.Stride())
	r.lineVB.SetLayout(lineLayout)
	r.lineVA.AddVertexBuffer(r.lineVB)

	if r.sphereShader, err = device.NewShader(gfx.ShaderSphere); err != nil {
		return nil, fmt.Errorf("renderer3d: %w", err)
	}
	if r.lineShader, err = device.NewShader(gfx.ShaderLine3D); err != nil {
		return nil, fmt.Errorf("renderer3d: %w", err)
	}
	if r.backgroundShader, err = device.NewShader(gfx.ShaderIBLBackground); err != nil {
		return nil, fmt.Errorf("renderer3d: %w", err)
	}
	r.background = ibl.NewCube(device)

	s := r.sphereShader
	s.Bind()
	s.SetInt("irradianceMap", 0)
	s.SetInt("prefilterMap", 1)
	s.SetInt("brdfLUT", 2)
	s.SetInt("u_AlbedoMap", materialUnit+materials.AlbedoMap)
	s.SetInt("u_NormalMap", materialUnit+materials.NormalMap)
	s.SetInt("u_MetallicMap", materialUnit+materials.MetallicMap)
	s.SetInt("u_RoughnessMap", materialUnit+materials.RoughnessMap)
	s.SetInt("u_AoMap", materialUnit+materials.AoMap)

	r.StartBatch()
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, res := range []interface{ Destroy() }{
		r.sphereVA, r.sphereVB, r.sphereIB,
		r.lineVA, r.lineVB,
		r.sphereShader, r.lineShader, r.backgroundShader,
	} {
		if res != nil {
			res.Destroy()
		}
	}
	if r.background != nil {
		r.background.Destroy()
	}
}

// ── Scene ────────────────────────────────────────────────────────────────────

// BeginScene binds view-projection and eye position into the sphere and
// line programs and starts a fresh batch.
func (r *Renderer) BeginScene(view camera.View) {
	vp, eye := view.ViewProjection(), view.Position()
	for _, s := range []gfx.Shader{r.sphereShader, r.lineShader} {
		s.Bind()
		s.SetMat4("u_ViewProjection", vp)
		s.SetFloat3("u_CamPos", eye)
	}
	r.StartBatch()
}

// BeginEditorScene draws the environment behind everything, then begins the
// scene as BeginScene does.
func (r *Renderer) BeginEditorScene(view camera.View) {
	r.device.SetDepthTest(false)
	r.DrawIBLBackground(view)
	r.device.SetDepthTest(true)
	r.BeginScene(view)
}

func (r *Renderer) EndScene() {
	r.Flush()
}

func (r *Renderer) StartBatch() {
	r.sphereVerts.Reset()
	r.sphereIndices.Reset()
	r.lines.Reset()
	r.maps = [materials.MapCount]gfx.Texture2D{}
}

// Flush draws the pending sphere, then pending lines.
func (r *Renderer) Flush() {
	if !r.sphereIndices.Empty() {
		r.sphereVB.SetData(r.sphereVerts.Bytes())
		r.sphereIB.SetData(r.sphereIndices.Slice())

		if r.ibl != nil {
			r.ibl.IrradianceMap.Bind(0)
			r.ibl.PrefilterMap.Bind(1)
			r.ibl.BrdfLUT.Bind(2)
		}
		for i, m := range r.maps {
			if m != nil {
				m.Bind(materialUnit + i)
			}
		}
		r.sphereShader.Bind()
		r.device.DrawIndexed(r.sphereVA, r.sphereIndices.Len())
		r.stats.DrawCalls++
	}

	if !r.lines.Empty() {
		r.lineVB.SetData(r.lines.Bytes())
		r.lineShader.Bind()
		r.device.SetLineWidth(r.lineWidth)
		r.device.DrawLines(r.lineVA, r.lines.Len())
		r.stats.DrawCalls++
	}
}

func (r *Renderer) NextBatch() {
	r.Flush()
	r.StartBatch()
}

func (r *Renderer) LineWidth() float32 { return r.lineWidth }

func (r *Renderer) SetLineWidth(width float32) { r.lineWidth = width }

func (r *Renderer) Stats() Statistics { return r.stats }

func (r *Renderer) ResetStats() { r.stats = Statistics{} }
