// Package renderer2d batches quads, circles and lines into as few draw
// calls as the fixed buffer and texture-slot capacities allow.
package renderer2d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/batch"
	"batch-render/camera"
	"batch-render/config"
	"batch-render/gfx"
	"batch-render/internal/logger"
)

// NoEntity marks geometry that does not belong to a scene entity.
const NoEntity int32 = -1

// Statistics accumulate across scenes until ResetStats.
type Statistics struct {
	DrawCalls int
	QuadCount int
}

func (s Statistics) TotalVertexCount() int { return s.QuadCount * 4 }
func (s Statistics) TotalIndexCount() int  { return s.QuadCount * 6 }

// Sprite is the drawable part of a sprite component.
type Sprite struct {
	Color        mgl32.Vec4
	Texture      gfx.Texture2D
	TilingFactor float32
}

type Renderer struct {
	device gfx.Device
	log    *zap.Logger

	maxIndices int
	maxSlots   int

	quadVA         gfx.VertexArray
	quadVB         gfx.VertexBuffer
	quadIB         gfx.IndexBuffer
	quadShader     gfx.Shader
	quads          *batch.Arena[QuadVertex]
	quadIndexCount int

	circleVA         gfx.VertexArray
	circleVB         gfx.VertexBuffer
	circleShader     gfx.Shader
	circles          *batch.Arena[CircleVertex]
	circleIndexCount int

	lineVA     gfx.VertexArray
	lineVB     gfx.VertexBuffer
	lineShader gfx.Shader
	lines      *batch.Arena[LineVertex]
	lineWidth  float32

	whiteTexture gfx.Texture2D
	slots        []gfx.Texture2D
	slotIndex    int

	stats Statistics
}

// New allocates every CPU arena and GPU buffer once. log may be nil.
// A failed New releases whatever it had already created.
func New(device gfx.Device, cfg config.Renderer2D, log *zap.Logger) (_ *Renderer, err error) {
	if cfg.MaxQuads <= 0 || cfg.MaxTextureSlots < 2 {
		return nil, fmt.Errorf("renderer2d: invalid capacity: %d quads, %d slots", cfg.MaxQuads, cfg.MaxTextureSlots)
	}
	r := &Renderer{
		device:     device,
		log:        logger.Or(log).Named("renderer2d"),
		maxIndices: cfg.MaxIndices(),
		maxSlots:   cfg.MaxTextureSlots,
		lineWidth:  cfg.LineWidth,
		slots:      make([]gfx.Texture2D, cfg.MaxTextureSlots),
	}
	if r.lineWidth <= 0 {
		r.lineWidth = 2
	}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()
	maxVertices := cfg.MaxVertices()

	// ── Quads ───────────────────────────────────────────────────────────────
	r.quads = batch.NewArena[QuadVertex](maxVertices)
	r.quadVA = device.NewVertexArray()
	r.quadVB = device.NewVertexBuffer(maxVertices * r.quads.Stride())
	r.quadVB.SetLayout(quadLayout)
	r.quadVA.AddVertexBuffer(r.quadVB)

	r.quadIB = device.NewIndexBuffer(r.maxIndices)
	r.quadIB.SetData(quadIndices(r.maxIndices))
	r.quadVA.SetIndexBuffer(r.quadIB)

	// ── Circles ─────────────────────────────────────────────────────────────
	r.circles = batch.NewArena[CircleVertex](maxVertices)
	r.circleVA = device.NewVertexArray()
	r.circleVB = device.NewVertexBuffer(maxVertices * r.circles.Stride())
	r.circleVB.SetLayout(circleLayout)
	r.circleVA.AddVertexBuffer(r.circleVB)
	r.circleVA.SetIndexBuffer(r.quadIB)

	// ── Lines ───────────────────────────────────────────────────────────────
	r.lines = batch.NewArena[LineVertex](maxVertices)
	r.lineVA = device.NewVertexArray()
	r.lineVB = device.NewVertexBuffer(maxVertices * r.lines.Stride())
	r.lineVB.SetLayout(lineLayout)
	r.lineVA.AddVertexBuffer(r.lineVB)

	if r.whiteTexture, err = device.NewTexture2D(gfx.TextureSpecification{Width: 1, Height: 1, Format: gfx.FormatRGBA8}); err != nil {
		return nil, fmt.Errorf("renderer2d: white texture: %w", err)
	}
	if err = r.whiteTexture.SetData([]byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		return nil, fmt.Errorf("renderer2d: white texture: %w", err)
	}
	r.slots[0] = r.whiteTexture

	if r.quadShader, err = device.NewShader(gfx.ShaderQuad); err != nil {
		return nil, fmt.Errorf("renderer2d: %w", err)
	}
	if r.circleShader, err = device.NewShader(gfx.ShaderCircle); err != nil {
		return nil, fmt.Errorf("renderer2d: %w", err)
	}
	if r.lineShader, err = device.NewShader(gfx.ShaderLine2D); err != nil {
		return nil, fmt.Errorf("renderer2d: %w", err)
	}

	samplers := make([]int32, r.maxSlots)
	for i := range samplers {
		samplers[i] = int32(i)
	}
	r.quadShader.Bind()
	r.quadShader.SetIntArray("u_Textures", samplers)

	r.StartBatch()
	return r, nil
}

// Destroy releases every GPU resource the renderer created.
func (r *Renderer) Destroy() {
	for _, res := range []interface{ Destroy() }{
		r.quadVA, r.quadVB, r.quadIB,
		r.circleVA, r.circleVB,
		r.lineVA, r.lineVB,
		r.quadShader, r.circleShader, r.lineShader,
		r.whiteTexture,
	} {
		if res != nil {
			res.Destroy()
		}
	}
}

// WhiteTexture is the 1x1 fallback bound at slot 0.
func (r *Renderer) WhiteTexture() gfx.Texture2D { return r.whiteTexture }

// ── Scene ────────────────────────────────────────────────────────────────────

// BeginScene binds the camera's view-projection into all three programs
// and starts a fresh batch.
func (r *Renderer) BeginScene(view camera.View) {
	vp := view.ViewProjection()
	for _, s := range []gfx.Shader{r.quadShader, r.circleShader, r.lineShader} {
		s.Bind()
		s.SetMat4("u_ViewProjection", vp)
	}
	r.StartBatch()
}

func (r *Renderer) EndScene() {
	r.Flush()
}

// StartBatch rewinds every arena and clears the slot table down to white.
func (r *Renderer) StartBatch() {
	r.quads.Reset()
	r.quadIndexCount = 0
	r.circles.Reset()
	r.circleIndexCount = 0
	r.lines.Reset()

	for i := 1; i < r.slotIndex; i++ {
		r.slots[i] = nil
	}
	r.slotIndex = 1
}

// Flush uploads and draws each non-empty kind: quads, circles, then lines.
func (r *Renderer) Flush() {
	if r.quadIndexCount > 0 {
		r.quadVB.SetData(r.quads.Bytes())
		for i := 0; i < r.slotIndex; i++ {
			r.slots[i].Bind(i)
		}
		r.quadShader.Bind()
		r.device.DrawIndexed(r.quadVA, r.quadIndexCount)
		r.stats.DrawCalls++
	}

	if r.circleIndexCount > 0 {
		r.circleVB.SetData(r.circles.Bytes())
		r.circleShader.Bind()
		r.device.DrawIndexed(r.circleVA, r.circleIndexCount)
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
