package gfx

import "fmt"

// ImageFormat is the storage format of a texture or framebuffer attachment.
type ImageFormat int

const (
	FormatNone ImageFormat = iota
	FormatR8
	FormatRGB8
	FormatRGBA8
	FormatRGB16F
	FormatRGBA16F
	FormatRedInteger
	FormatDepth24Stencil8
)

func (f ImageFormat) String() string {
	switch f {
	case FormatNone:
		return "None"
	case FormatR8:
		return "R8"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB16F:
		return "RGB16F"
	case FormatRGBA16F:
		return "RGBA16F"
	case FormatRedInteger:
		return "RedInteger"
	case FormatDepth24Stencil8:
		return "Depth24Stencil8"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

// Channels is the number of color components per texel.
func (f ImageFormat) Channels() int {
	switch f {
	case FormatR8, FormatRedInteger:
		return 1
	case FormatRGB8, FormatRGB16F:
		return 3
	case FormatRGBA8, FormatRGBA16F:
		return 4
	default:
		return 0
	}
}

// IsFloat reports whether texel data is uploaded as float32.
func (f ImageFormat) IsFloat() bool {
	return f == FormatRGB16F || f == FormatRGBA16F
}

// IsDepth reports whether the format is a depth attachment.
func (f ImageFormat) IsDepth() bool {
	return f == FormatDepth24Stencil8
}

// FormatForChannels maps a decoded 8-bit image's channel count to a format.
// Any other count is unsupported by every backend and panics.
func FormatForChannels(channels int) ImageFormat {
	switch channels {
	case 4:
		return FormatRGBA8
	case 3:
		return FormatRGB8
	case 1:
		return FormatR8
	}
	panic(fmt.Sprintf("gfx: unsupported channel count %d", channels))
}

// FloatFormatForChannels is FormatForChannels for HDR data.
func FloatFormatForChannels(channels int) ImageFormat {
	switch channels {
	case 4:
		return FormatRGBA16F
	case 3:
		return FormatRGB16F
	}
	panic(fmt.Sprintf("gfx: unsupported HDR channel count %d", channels))
}

type TextureSpecification struct {
	Width  int
	Height int
	Format ImageFormat
	// MipLevels allocated up front. Zero means a full chain for
	// mipmapped textures created with GenerateMips.
	MipLevels    int
	GenerateMips bool
}

// Texture is the state shared by 2D and cube textures.
type Texture interface {
	// RendererID is the backend's resource identity. Two handles refer to
	// the same GPU texture exactly when their IDs match.
	RendererID() uint32
	Width() int
	Height() int
	Format() ImageFormat
	Bind(unit int)
	GenerateMipmaps()
	Destroy()
}

type Texture2D interface {
	Texture
	// SetData uploads the whole base level. len(data) must equal
	// Width*Height*Channels.
	SetData(data []byte) error
	// SetFloatData is SetData for float formats.
	SetFloatData(data []float32) error
	// CopyFromFrameBuffer copies fb's first color attachment into level.
	CopyFromFrameBuffer(fb FrameBuffer, level int)
}

type TextureCube interface {
	Texture
	MipLevels() int
	// CopyFaceFromFrameBuffer copies fb's first color attachment into
	// face (0..5, +X -X +Y -Y +Z -Z) at level.
	CopyFaceFromFrameBuffer(fb FrameBuffer, face, level int)
}

// SameTexture compares resource identity.
func SameTexture(a, b Texture) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.RendererID() == b.RendererID()
}
