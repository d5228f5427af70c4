// Package gfxtest provides a recording gfx.Device for tests. It allocates
// no GPU resources and hands out sequential renderer IDs starting at 1.
package gfxtest

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/gfx"
)

// Draw kinds recorded in DrawCall.Kind.
const (
	DrawIndexed = "indexed"
	DrawLines   = "lines"
	DrawArrays  = "arrays"
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Kind   string
	Count  int
	Shader string
	// Textures maps texture unit to renderer ID at the time of the draw.
	Textures  map[int]uint32
	LineWidth float32
	DepthTest bool
}

// Upload is one recorded VertexBuffer.SetData or IndexBuffer.SetData.
type Upload struct {
	BufferID uint32
	Bytes    int
}

// FaceCopy is one recorded copy from a framebuffer into a texture.
type FaceCopy struct {
	TextureID uint32
	Face      int
	Level     int
	Width     int
	Height    int
}

type Device struct {
	DrawCalls  []DrawCall
	Uploads    []Upload
	Copies     []FaceCopy
	Clears     int
	Viewport   [4]int
	ClearColor mgl32.Vec4
	LineWidth  float32
	DepthTest  bool

	Shaders      map[string]*Shader
	Textures2D   []*Texture2D
	TexturesCube []*TextureCube
	FrameBuffers []*FrameBuffer

	// FailShader makes NewShader return an error for that program name.
	FailShader string

	units       map[int]uint32
	live        map[uint32]string
	boundShader *Shader
	boundFB     *FrameBuffer
	nextID      uint32
}

func NewDevice() *Device {
	return &Device{
		Shaders:   make(map[string]*Shader),
		units:     make(map[int]uint32),
		live:      make(map[uint32]string),
		LineWidth: 1,
		DepthTest: true,
	}
}

func (d *Device) API() gfx.API { return gfx.APIOpenGL }

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// track hands out an ID and records the resource as live until release.
func (d *Device) track(kind string) uint32 {
	id := d.id()
	d.live[id] = kind
	return id
}

func (d *Device) release(id uint32) { delete(d.live, id) }

// Live lists the kinds of resources created and not yet destroyed, sorted.
func (d *Device) Live() []string {
	return slices.Sorted(maps.Values(d.live))
}

// Reset drops recorded draws, uploads, copies and clears, keeping resources.
func (d *Device) Reset() {
	d.DrawCalls = nil
	d.Uploads = nil
	d.Copies = nil
	d.Clears = 0
}

// DrawsWith returns the recorded draws issued with the named shader bound.
func (d *Device) DrawsWith(shader string) []DrawCall {
	var out []DrawCall
	for _, c := range d.DrawCalls {
		if c.Shader == shader {
			out = append(out, c)
		}
	}
	return out
}

// BoundTexture returns the renderer ID bound to unit, or 0.
func (d *Device) BoundTexture(unit int) uint32 { return d.units[unit] }

// ── Factory ──────────────────────────────────────────────────────────────────

func (d *Device) NewTexture2D(spec gfx.TextureSpecification) (gfx.Texture2D, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("texture size %dx%d", spec.Width, spec.Height)
	}
	t := &Texture2D{texture: texture{dev: d, id: d.track("texture2d"), spec: spec}}
	d.Textures2D = append(d.Textures2D, t)
	return t, nil
}

func (d *Device) NewTextureCube(spec gfx.TextureSpecification) (gfx.TextureCube, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("cube size %dx%d", spec.Width, spec.Height)
	}
	t := &TextureCube{texture: texture{dev: d, id: d.track("texturecube"), spec: spec}}
	d.TexturesCube = append(d.TexturesCube, t)
	return t, nil
}

func (d *Device) NewVertexBuffer(size int) gfx.VertexBuffer {
	return &VertexBuffer{dev: d, id: d.track("vertexbuffer"), size: size}
}

func (d *Device) NewStaticVertexBuffer(data []byte) gfx.VertexBuffer {
	vb := &VertexBuffer{dev: d, id: d.track("vertexbuffer"), size: len(data)}
	vb.Data = slices.Clone(data)
	return vb
}

func (d *Device) NewIndexBuffer(capacity int) gfx.IndexBuffer {
	return &IndexBuffer{dev: d, id: d.track("indexbuffer"), capacity: capacity}
}

func (d *Device) NewVertexArray() gfx.VertexArray {
	return &VertexArray{dev: d, id: d.track("vertexarray")}
}

func (d *Device) NewShader(name string) (gfx.Shader, error) {
	if name == d.FailShader {
		return nil, fmt.Errorf("shader %q: compile failed", name)
	}
	s := &Shader{dev: d, id: d.track("shader " + name), name: name, Uniforms: make(map[string]any)}
	d.Shaders[name] = s
	return s, nil
}

func (d *Device) NewFrameBuffer(spec gfx.FramebufferSpecification) (gfx.FrameBuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	fb := &FrameBuffer{dev: d, id: d.track("framebuffer"), spec: spec}
	d.FrameBuffers = append(d.FrameBuffers, fb)
	return fb, nil
}

// ── Commands ─────────────────────────────────────────────────────────────────

func (d *Device) SetViewport(x, y, width, height int) { d.Viewport = [4]int{x, y, width, height} }
func (d *Device) SetClearColor(c mgl32.Vec4)          { d.ClearColor = c }
func (d *Device) Clear()                              { d.Clears++ }
func (d *Device) SetDepthTest(enabled bool)           { d.DepthTest = enabled }
func (d *Device) SetLineWidth(width float32)          { d.LineWidth = width }

func (d *Device) DrawIndexed(va gfx.VertexArray, indexCount int) {
	d.record(DrawIndexed, indexCount)
}

func (d *Device) DrawLines(va gfx.VertexArray, vertexCount int) {
	d.record(DrawLines, vertexCount)
}

func (d *Device) DrawArrays(va gfx.VertexArray, vertexCount int) {
	d.record(DrawArrays, vertexCount)
}

func (d *Device) record(kind string, count int) {
	call := DrawCall{
		Kind:      kind,
		Count:     count,
		Textures:  make(map[int]uint32, len(d.units)),
		LineWidth: d.LineWidth,
		DepthTest: d.DepthTest,
	}
	if d.boundShader != nil {
		call.Shader = d.boundShader.name
	}
	for unit, id := range d.units {
		call.Textures[unit] = id
	}
	d.DrawCalls = append(d.DrawCalls, call)
}
