package resources

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"batch-render/gfx"
)

// Largest radiance image accepted, checked before any allocation.
const (
	maxHDRSide   = 0x7fff
	maxHDRPixels = 1 << 28
)

// DecodeHDR reads a Radiance RGBE (.hdr) image, flat or run-length encoded,
// into linear RGB floats, bottom row first.
func DecodeHDR(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readLine(br)
	if err != nil {
		return nil, err
	}
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return nil, fmt.Errorf("%w: bad radiance signature %q", ErrUnsupportedImage, magic)
	}
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		if f, ok := strings.CutPrefix(line, "FORMAT="); ok && f != "32-bit_rle_rgbe" {
			return nil, fmt.Errorf("%w: radiance format %q", ErrUnsupportedImage, f)
		}
	}

	res, err := readLine(br)
	if err != nil {
		return nil, err
	}
	var w, h int
	if _, err := fmt.Sscanf(res, "-Y %d +X %d", &h, &w); err != nil {
		return nil, fmt.Errorf("%w: radiance resolution %q", ErrUnsupportedImage, res)
	}
	if w <= 0 || h <= 0 || w > maxHDRSide || h > maxHDRSide || w*h > maxHDRPixels {
		return nil, fmt.Errorf("%w: radiance size %dx%d", ErrUnsupportedImage, w, h)
	}

	out := make([]float32, w*h*3)
	scan := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := readScanline(br, scan, w); err != nil {
			return nil, fmt.Errorf("radiance scanline %d: %w", y, err)
		}
		// file rows run top to bottom
		row := out[(h-1-y)*w*3:]
		for x := 0; x < w; x++ {
			rgbe := scan[x*4 : x*4+4]
			if rgbe[3] == 0 {
				continue
			}
			f := float32(math.Ldexp(1, int(rgbe[3])-(128+8)))
			row[x*3+0] = float32(rgbe[0]) * f
			row[x*3+1] = float32(rgbe[1]) * f
			row[x*3+2] = float32(rgbe[2]) * f
		}
	}
	return &Image{Width: w, Height: h, Format: gfx.FormatRGB16F, Float: out}, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: truncated radiance header", ErrUnsupportedImage)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readScanline fills scan with w RGBE pixels. Widths outside [8, 0x7fff]
// are always stored flat.
func readScanline(br *bufio.Reader, scan []byte, w int) error {
	if w < 8 || w > 0x7fff {
		_, err := io.ReadFull(br, scan)
		return err
	}
	head := make([]byte, 4)
	if _, err := io.ReadFull(br, head); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		copy(scan, head)
		_, err := io.ReadFull(br, scan[4:])
		return err
	}
	if n := int(head[2])<<8 | int(head[3]); n != w {
		return fmt.Errorf("run-length width %d, want %d", n, w)
	}

	// each of the four components is stored as its own run-length stream
	for c := 0; c < 4; c++ {
		for x := 0; x < w; {
			count, err := br.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				if x+n > w {
					return errors.New("run overflows scanline")
				}
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for ; n > 0; n-- {
					scan[x*4+c] = v
					x++
				}
				continue
			}
			n := int(count)
			if n == 0 || x+n > w {
				return errors.New("bad literal run")
			}
			for ; n > 0; n-- {
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				scan[x*4+c] = v
				x++
			}
		}
	}
	return nil
}
