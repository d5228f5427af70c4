package resources

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/gfx/gfxtest"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestCheckerImage(t *testing.T) {
	img := CheckerImage(16, white, black)
	require.Len(t, img.Pix, 16*16*4)

	at := func(x, y int) byte { return img.Pix[(y*16+x)*4] }
	assert.Equal(t, byte(255), at(0, 0))
	assert.Equal(t, byte(255), at(1, 1))
	assert.Equal(t, byte(0), at(2, 0))
	assert.Equal(t, byte(0), at(0, 2))
	assert.Equal(t, byte(255), at(2, 2))

	tiny := CheckerImage(0, white, black)
	assert.Equal(t, 1, tiny.Width)
	assert.Len(t, tiny.Pix, 4)
}

func TestSolidImage(t *testing.T) {
	img := SolidImage(color.RGBA{1, 2, 3, 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, img.Pix)
	assert.False(t, img.Spec().Format.IsFloat())
}

func TestEnsureTextureFillsMissingOnly(t *testing.T) {
	dev := gfxtest.NewDevice()
	c := NewCache(nil)

	// a failed decode registers nil under the name
	c.Register2DTexture("Checkerboard", nil)
	tex, err := c.EnsureTexture(dev, "Checkerboard", CheckerImage(8, white, black))
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.Same(t, tex, c.Get2DTexture("Checkerboard"))
	assert.Len(t, tex.(*gfxtest.Texture2D).Data, 8*8*4)

	again, err := c.EnsureTexture(dev, "Checkerboard", SolidImage(black))
	require.NoError(t, err)
	assert.Same(t, tex, again, "existing texture is kept")
}
