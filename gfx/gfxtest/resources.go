package gfxtest

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/gfx"
)

type texture struct {
	dev       *Device
	id        uint32
	spec      gfx.TextureSpecification
	Mipmapped bool
	Destroyed bool
}

func (t *texture) RendererID() uint32      { return t.id }
func (t *texture) Width() int              { return t.spec.Width }
func (t *texture) Height() int             { return t.spec.Height }
func (t *texture) Format() gfx.ImageFormat { return t.spec.Format }
func (t *texture) Bind(unit int)           { t.dev.units[unit] = t.id }
func (t *texture) GenerateMipmaps()        { t.Mipmapped = true }
func (t *texture) Destroy() {
	t.Destroyed = true
	t.dev.release(t.id)
}

// Spec returns the creation parameters.
func (t *texture) Spec() gfx.TextureSpecification { return t.spec }

type Texture2D struct {
	texture
	Data      []byte
	FloatData []float32
}

func (t *Texture2D) SetData(data []byte) error {
	if want := t.spec.Width * t.spec.Height * t.spec.Format.Channels(); len(data) != want {
		return fmt.Errorf("texture data is %d bytes, want %d", len(data), want)
	}
	t.Data = slices.Clone(data)
	return nil
}

func (t *Texture2D) SetFloatData(data []float32) error {
	if want := t.spec.Width * t.spec.Height * t.spec.Format.Channels(); len(data) != want {
		return fmt.Errorf("texture data is %d floats, want %d", len(data), want)
	}
	t.FloatData = slices.Clone(data)
	return nil
}

func (t *Texture2D) CopyFromFrameBuffer(fb gfx.FrameBuffer, level int) {
	t.dev.Copies = append(t.dev.Copies, FaceCopy{
		TextureID: t.id, Level: level, Width: fb.Width(), Height: fb.Height(),
	})
}

// NewTexture2D builds a standalone texture for tests that do not go through
// a Device, such as slot-table checks.
func NewTexture2D(d *Device, width, height int) *Texture2D {
	t, err := d.NewTexture2D(gfx.TextureSpecification{Width: width, Height: height, Format: gfx.FormatRGBA8})
	if err != nil {
		panic(err)
	}
	return t.(*Texture2D)
}

type TextureCube struct {
	texture
}

func (t *TextureCube) MipLevels() int {
	if t.spec.MipLevels < 1 {
		return 1
	}
	return t.spec.MipLevels
}

func (t *TextureCube) CopyFaceFromFrameBuffer(fb gfx.FrameBuffer, face, level int) {
	t.dev.Copies = append(t.dev.Copies, FaceCopy{
		TextureID: t.id, Face: face, Level: level, Width: fb.Width(), Height: fb.Height(),
	})
}

type VertexBuffer struct {
	dev    *Device
	id     uint32
	size   int
	layout gfx.BufferLayout
	Data   []byte
}

func (b *VertexBuffer) ID() uint32 { return b.id }

func (b *VertexBuffer) SetData(data []byte) {
	if len(data) > b.size {
		panic(fmt.Sprintf("gfxtest: upload of %d bytes into %d byte buffer", len(data), b.size))
	}
	b.Data = slices.Clone(data)
	b.dev.Uploads = append(b.dev.Uploads, Upload{BufferID: b.id, Bytes: len(data)})
}

func (b *VertexBuffer) SetLayout(l gfx.BufferLayout) { b.layout = l }
func (b *VertexBuffer) Layout() gfx.BufferLayout     { return b.layout }
func (b *VertexBuffer) Size() int                    { return b.size }
func (b *VertexBuffer) Destroy()                     { b.dev.release(b.id) }

type IndexBuffer struct {
	dev      *Device
	id       uint32
	capacity int
	Indices  []uint32
}

func (b *IndexBuffer) SetData(indices []uint32) {
	if len(indices) > b.capacity {
		panic(fmt.Sprintf("gfxtest: %d indices into buffer of %d", len(indices), b.capacity))
	}
	b.Indices = slices.Clone(indices)
	b.dev.Uploads = append(b.dev.Uploads, Upload{BufferID: b.id, Bytes: len(indices) * 4})
}

func (b *IndexBuffer) Count() int    { return len(b.Indices) }
func (b *IndexBuffer) Capacity() int { return b.capacity }
func (b *IndexBuffer) Destroy()      { b.dev.release(b.id) }

type VertexArray struct {
	dev           *Device
	id            uint32
	VertexBuffers []gfx.VertexBuffer
	indexBuffer   gfx.IndexBuffer
}

func (a *VertexArray) AddVertexBuffer(vb gfx.VertexBuffer) {
	if len(vb.Layout().Elements()) == 0 {
		panic("gfxtest: vertex buffer has no layout")
	}
	a.VertexBuffers = append(a.VertexBuffers, vb)
}

func (a *VertexArray) SetIndexBuffer(ib gfx.IndexBuffer) { a.indexBuffer = ib }
func (a *VertexArray) IndexBuffer() gfx.IndexBuffer      { return a.indexBuffer }
func (a *VertexArray) Destroy()                          { a.dev.release(a.id) }

// Shader stores the most recent value written to each uniform.
type Shader struct {
	dev      *Device
	id       uint32
	name     string
	Uniforms map[string]any
	// Writes counts every setter call per uniform.
	Writes map[string]int
}

func (s *Shader) Name() string { return s.name }
func (s *Shader) Bind()        { s.dev.boundShader = s }

func (s *Shader) Unbind() {
	if s.dev.boundShader == s {
		s.dev.boundShader = nil
	}
}

func (s *Shader) set(name string, v any) {
	if s.Writes == nil {
		s.Writes = make(map[string]int)
	}
	s.Uniforms[name] = v
	s.Writes[name]++
}

func (s *Shader) SetInt(name string, v int32)        { s.set(name, v) }
func (s *Shader) SetIntArray(name string, v []int32) { s.set(name, slices.Clone(v)) }
func (s *Shader) SetFloat(name string, v float32)    { s.set(name, v) }
func (s *Shader) SetFloat3(name string, v mgl32.Vec3) {
	s.set(name, v)
}
func (s *Shader) SetFloat3Array(name string, v []mgl32.Vec3) {
	s.set(name, slices.Clone(v))
}
func (s *Shader) SetFloat4(name string, v mgl32.Vec4) { s.set(name, v) }
func (s *Shader) SetMat4(name string, m mgl32.Mat4)   { s.set(name, m) }
func (s *Shader) Destroy()                            { s.dev.release(s.id) }

type FrameBuffer struct {
	dev     *Device
	id      uint32
	spec    gfx.FramebufferSpecification
	Resizes [][2]int
}

func (f *FrameBuffer) Bind() {
	f.dev.boundFB = f
	f.dev.Viewport = [4]int{0, 0, f.spec.Width, f.spec.Height}
}

func (f *FrameBuffer) Unbind() {
	if f.dev.boundFB == f {
		f.dev.boundFB = nil
	}
}

func (f *FrameBuffer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	f.spec.Width, f.spec.Height = width, height
	f.Resizes = append(f.Resizes, [2]int{width, height})
}

func (f *FrameBuffer) Width() int                                  { return f.spec.Width }
func (f *FrameBuffer) Height() int                                 { return f.spec.Height }
func (f *FrameBuffer) Specification() gfx.FramebufferSpecification { return f.spec }
func (f *FrameBuffer) ColorAttachmentID(index int) uint32          { return f.id*100 + uint32(index) }
func (f *FrameBuffer) Destroy()                                    { f.dev.release(f.id) }

// Compile-time interface checks.
var (
	_ gfx.Device      = (*Device)(nil)
	_ gfx.Texture2D   = (*Texture2D)(nil)
	_ gfx.TextureCube = (*TextureCube)(nil)
	_ gfx.FrameBuffer = (*FrameBuffer)(nil)
)
