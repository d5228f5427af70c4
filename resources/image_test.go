package resources

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/gfx"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImageFlipsRows(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	src.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 128}) // top
	src.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 128}) // bottom

	img, err := DecodeImage(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)

	assert.Equal(t, gfx.FormatRGBA8, img.Format)
	assert.Equal(t, 1, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []byte{0, 0, 255, 128, 255, 0, 0, 128}, img.Pix)
}

func TestDecodeImageChannels(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 2, 1))
	opaque.Set(0, 0, color.RGBA{10, 20, 30, 255})
	opaque.Set(1, 0, color.RGBA{40, 50, 60, 255})

	img, err := DecodeImage(bytes.NewReader(encodePNG(t, opaque)))
	require.NoError(t, err)
	assert.Equal(t, gfx.FormatRGB8, img.Format)
	assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, img.Pix)

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Pix = []byte{1, 2, 3, 4}
	img, err = DecodeImage(bytes.NewReader(encodePNG(t, gray)))
	require.NoError(t, err)
	assert.Equal(t, gfx.FormatR8, img.Format)
	assert.Equal(t, []byte{3, 4, 1, 2}, img.Pix)
}

func TestDecodeImageUnsupported(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func hdrHeader(w, h int) string {
	return "#?RADIANCE\n# test\nFORMAT=32-bit_rle_rgbe\n\n-Y " + strconv.Itoa(h) + " +X " + strconv.Itoa(w) + "\n"
}

func TestDecodeHDRFlat(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(hdrHeader(2, 2))
	// top row: (1,0,0) and black; bottom row: (0,0.5,0) and (2,2,2)
	buf.Write([]byte{128, 0, 0, 129, 0, 0, 0, 0})
	buf.Write([]byte{0, 128, 0, 128, 128, 128, 128, 130})

	img, err := DecodeHDR(&buf)
	require.NoError(t, err)
	assert.Equal(t, gfx.FormatRGB16F, img.Format)
	assert.Equal(t, []float32{
		0, 0.5, 0, 2, 2, 2,
		1, 0, 0, 0, 0, 0,
	}, img.Float)
}

func TestDecodeHDRRunLength(t *testing.T) {
	const w = 8
	var buf bytes.Buffer
	buf.WriteString(hdrHeader(w, 1))
	buf.Write([]byte{2, 2, 0, w})
	// R: literal run of 8
	buf.Write([]byte{8, 128, 128, 128, 128, 0, 0, 0, 0})
	// G and B: run of 8 zeros
	buf.Write([]byte{128 + 8, 0})
	buf.Write([]byte{128 + 8, 0})
	// E: run of 8 at exponent 129
	buf.Write([]byte{128 + 8, 129})

	img, err := DecodeHDR(&buf)
	require.NoError(t, err)
	require.Len(t, img.Float, w*3)
	assert.Equal(t, float32(1), img.Float[0])
	assert.Equal(t, float32(1), img.Float[9])
	assert.Equal(t, float32(0), img.Float[12])
}

func TestDecodeHDRRejects(t *testing.T) {
	_, err := DecodeHDR(strings.NewReader("P6\n"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = DecodeHDR(strings.NewReader("#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = DecodeHDR(strings.NewReader(hdrHeader(2, 2) + "\x80\x00"))
	assert.Error(t, err)

	for _, res := range []string{"-Y 4000000000 +X 4000000000", "-Y 1 +X 40000", "-Y 30000 +X 30000"} {
		_, err = DecodeHDR(strings.NewReader("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n" + res + "\n"))
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("%s: expected ErrUnsupportedImage, got %v", res, err)
		}
	}
}
