package resources

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"batch-render/gfx"
)

var (
	// ErrUnsupportedImage is returned for files no registered decoder accepts.
	ErrUnsupportedImage = errors.New("unsupported image")
	// ErrNotFound is returned by lookups that must not fall back silently.
	ErrNotFound = errors.New("resource not found")
)

// Image is decoded pixel data ready for upload, bottom row first.
type Image struct {
	Width  int
	Height int
	Format gfx.ImageFormat
	// Pix holds 8-bit formats, Float holds float formats.
	Pix   []byte
	Float []float32
}

// Spec is the texture specification matching the image.
func (img *Image) Spec() gfx.TextureSpecification {
	return gfx.TextureSpecification{
		Width:        img.Width,
		Height:       img.Height,
		Format:       img.Format,
		GenerateMips: !img.Format.IsFloat(),
	}
}

// Upload creates a texture from the image.
func (img *Image) Upload(f gfx.Factory) (gfx.Texture2D, error) {
	tex, err := f.NewTexture2D(img.Spec())
	if err != nil {
		return nil, err
	}
	if img.Format.IsFloat() {
		err = tex.SetFloatData(img.Float)
	} else {
		err = tex.SetData(img.Pix)
	}
	if err != nil {
		tex.Destroy()
		return nil, err
	}
	return tex, nil
}

// LoadImage decodes the file at path. Radiance .hdr files decode to RGB
// float data, everything else to 8 bits per channel.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".hdr") {
		img, err := DecodeHDR(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return img, nil
	}
	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes any registered 8-bit format. Grayscale keeps one
// channel, opaque images three and the rest four.
func DecodeImage(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return nil, err
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := src.(*image.Gray); ok {
		gray := image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(gray, gray.Bounds(), g, b.Min, draw.Src)
		return &Image{Width: w, Height: h, Format: gfx.FormatR8, Pix: flipRows(gray.Pix, gray.Stride, h)}, nil
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	pix := flipRows(rgba.Pix, rgba.Stride, h)

	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return &Image{Width: w, Height: h, Format: gfx.FormatRGB8, Pix: dropAlpha(pix)}, nil
	}
	return &Image{Width: w, Height: h, Format: gfx.FormatRGBA8, Pix: pix}, nil
}

func flipRows(pix []byte, stride, height int) []byte {
	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		copy(out[(height-1-y)*stride:], pix[y*stride:(y+1)*stride])
	}
	return out
}

func dropAlpha(rgba []byte) []byte {
	rgb := make([]byte, len(rgba)/4*3)
	for i, j := 0, 0; i < len(rgba); i, j = i+4, j+3 {
		rgb[j], rgb[j+1], rgb[j+2] = rgba[i], rgba[i+1], rgba[i+2]
	}
	return rgb
}
