package resources

import (
	"image/color"

	"go.uber.org/zap"

	"batch-render/gfx"
)

// SolidImage is a 1x1 RGBA8 image of c.
func SolidImage(c color.RGBA) *Image {
	return &Image{Width: 1, Height: 1, Format: gfx.FormatRGBA8, Pix: []byte{c.R, c.G, c.B, c.A}}
}

// CheckerImage is a size x size RGBA8 board of 8x8 squares alternating c1
// and c2, starting with c1 in the corner.
func CheckerImage(size int, c1, c2 color.RGBA) *Image {
	size = max(size, 1)
	block := max(size/8, 1)
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c2
			if (x/block+y/block)%2 == 0 {
				c = c1
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return &Image{Width: size, Height: size, Format: gfx.FormatRGBA8, Pix: pix}
}

// EnsureTexture uploads img under name unless the cache already holds a
// usable texture by that name. It returns the texture now registered.
func (c *Cache) EnsureTexture(f gfx.Factory, name string, img *Image) (gfx.Texture2D, error) {
	if tex, ok := c.textures2D[name]; ok && tex != nil {
		return tex, nil
	}
	tex, err := img.Upload(f)
	if err != nil {
		return nil, err
	}
	c.log.Info("procedural texture registered", zap.String("texture", name),
		zap.Int("width", img.Width), zap.Int("height", img.Height))
	c.Register2DTexture(name, tex)
	return tex, nil
}
