package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"batch-render/gfx"
)

// glFormat is the internal format, pixel format and component type used
// to allocate and fill a texture of the given gfx format.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

func formatFor(f gfx.ImageFormat) glFormat {
	switch f {
	case gfx.FormatR8:
		return glFormat{gl.R8, gl.RED, gl.UNSIGNED_BYTE}
	case gfx.FormatRGB8:
		return glFormat{gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE}
	case gfx.FormatRGBA8:
		return glFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
	case gfx.FormatRGB16F:
		return glFormat{gl.RGB16F, gl.RGB, gl.FLOAT}
	case gfx.FormatRGBA16F:
		return glFormat{gl.RGBA16F, gl.RGBA, gl.FLOAT}
	case gfx.FormatRedInteger:
		return glFormat{gl.R32I, gl.RED_INTEGER, gl.INT}
	case gfx.FormatDepth24Stencil8:
		return glFormat{gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8}
	}
	panic(fmt.Sprintf("opengl: unsupported image format %s", f))
}

type texture struct {
	id     uint32
	target uint32
	spec   gfx.TextureSpecification
	gl     glFormat
}

func (t *texture) RendererID() uint32      { return t.id }
func (t *texture) Width() int              { return t.spec.Width }
func (t *texture) Height() int             { return t.spec.Height }
func (t *texture) Format() gfx.ImageFormat { return t.spec.Format }

func (t *texture) Bind(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(t.target, t.id)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (t *texture) GenerateMipmaps() {
	gl.BindTexture(t.target, t.id)
	gl.GenerateMipmap(t.target)
	gl.BindTexture(t.target, 0)
}

// Destroy frees the GL texture and zeroes its ID.
func (t *texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// copyFrom reads the bound framebuffer's first color attachment into
// target at level. The copied region is clipped to both sizes.
func (t *texture) copyFrom(fb gfx.FrameBuffer, target uint32, level int) {
	w := min(fb.Width(), max(1, t.spec.Width>>level))
	h := min(fb.Height(), max(1, t.spec.Height>>level))
	fb.Bind()
	gl.BindTexture(t.target, t.id)
	gl.CopyTexSubImage2D(target, int32(level), 0, 0, 0, 0, int32(w), int32(h))
	gl.BindTexture(t.target, 0)
}

// ── Texture2D ─────────────────────────────────────────────────────────────────

type Texture2D struct{ texture }

func newTexture2D(spec gfx.TextureSpecification) (*Texture2D, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("texture size %dx%d", spec.Width, spec.Height)
	}
	t := &Texture2D{texture{target: gl.TEXTURE_2D, spec: spec, gl: formatFor(spec.Format)}}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if spec.GenerateMips {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, t.gl.internal,
		int32(spec.Width), int32(spec.Height), 0, t.gl.format, t.gl.xtype, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// SetData replaces the whole image. data must hold Width*Height*channels bytes.
func (t *Texture2D) SetData(data []byte) error {
	if t.gl.xtype != gl.UNSIGNED_BYTE {
		return fmt.Errorf("texture format %s takes float data", t.spec.Format)
	}
	if want := t.spec.Width * t.spec.Height * t.spec.Format.Channels(); len(data) != want {
		return fmt.Errorf("texture data is %d bytes, want %d", len(data), want)
	}
	t.upload(unsafe.Pointer(&data[0]))
	return nil
}

// SetFloatData replaces the whole image with 32-bit float texels.
func (t *Texture2D) SetFloatData(data []float32) error {
	if t.gl.xtype != gl.FLOAT {
		return fmt.Errorf("texture format %s takes byte data", t.spec.Format)
	}
	if want := t.spec.Width * t.spec.Height * t.spec.Format.Channels(); len(data) != want {
		return fmt.Errorf("texture data is %d floats, want %d", len(data), want)
	}
	t.upload(unsafe.Pointer(&data[0]))
	return nil
}

func (t *Texture2D) upload(pix unsafe.Pointer) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	// RGB8 and R8 rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(t.spec.Width), int32(t.spec.Height), t.gl.format, t.gl.xtype, pix)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	if t.spec.GenerateMips {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *Texture2D) CopyFromFrameBuffer(fb gfx.FrameBuffer, level int) {
	t.copyFrom(fb, gl.TEXTURE_2D, level)
}

// ── TextureCube ───────────────────────────────────────────────────────────────

type TextureCube struct {
	texture
	mips int
}

// newTextureCube allocates storage for every face at every mip level up
// front, so levels can be rendered into before GenerateMipmaps is called.
func newTextureCube(spec gfx.TextureSpecification) (*TextureCube, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("cube size %dx%d", spec.Width, spec.Height)
	}
	t := &TextureCube{
		texture: texture{target: gl.TEXTURE_CUBE_MAP, spec: spec, gl: formatFor(spec.Format)},
		mips:    max(1, spec.MipLevels),
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for level := 0; level < t.mips; level++ {
		w := max(1, spec.Width>>level)
		h := max(1, spec.Height>>level)
		for face := uint32(0); face < 6; face++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, int32(level), t.gl.internal,
				int32(w), int32(h), 0, t.gl.format, t.gl.xtype, nil)
		}
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	if t.mips > 1 {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(t.mips-1))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return t, nil
}

func (t *TextureCube) MipLevels() int { return t.mips }

// CopyFaceFromFrameBuffer panics on a face outside [0, 6).
func (t *TextureCube) CopyFaceFromFrameBuffer(fb gfx.FrameBuffer, face, level int) {
	if face < 0 || face >= 6 {
		panic(fmt.Sprintf("opengl: cube face %d", face))
	}
	t.copyFrom(fb, gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), level)
}
