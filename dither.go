package loomweave

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/makeworld-the-better-one/dither/v2"
)

// Ditherer reduces a grayscale buffer to pure Black and White in place.
type Ditherer interface {
	Dither(buf *PixelBuffer)
}

// DitherMethod names a Ditherer.
type DitherMethod string

const (
	DitherAtkinson       DitherMethod = "atkinson"
	DitherFloydSteinberg DitherMethod = "floyd-steinberg"
	DitherOrdered4x4     DitherMethod = "ordered4x4"
)

// DefaultDitherMethod is used when none is configured.
const DefaultDitherMethod = DitherAtkinson

// ParseDitherMethod parses a method name. Empty selects the default.
func ParseDitherMethod(name string) (DitherMethod, error) {
	m := DitherMethod(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case "":
		return DefaultDitherMethod, nil
	case DitherAtkinson, DitherFloydSteinberg, DitherOrdered4x4:
		return m, nil
	}
	return "", fmt.Errorf("unknown dither method %q", name)
}

// NewDitherer returns the Ditherer for method.
func NewDitherer(method DitherMethod) (Ditherer, error) {
	switch method {
	case DitherAtkinson, "":
		return Atkinson{}, nil
	case DitherFloydSteinberg:
		return FloydSteinberg{}, nil
	case DitherOrdered4x4:
		return Ordered4x4{}, nil
	}
	return nil, fmt.Errorf("unknown dither method %q", string(method))
}

// Atkinson is the loom's reference error diffusion. Pixels are visited in
// raster order and thresholded at 128. The quantization error spreads to
// four unvisited neighbors:
//
//	      x     7/16
//	3/16  5/16  1/16
//
// Each share is truncated toward zero and shares that fall outside the
// buffer are dropped. Accumulation uses signed integers so no value wraps.
type Atkinson struct{}

const ditherThreshold = 128

type diffusionTap struct {
	dx, dy int
	num    int
}

var atkinsonTaps = [...]diffusionTap{
	{dx: 1, dy: 0, num: 7},
	{dx: -1, dy: 1, num: 3},
	{dx: 0, dy: 1, num: 5},
	{dx: 1, dy: 1, num: 1},
}

// Dither implements Ditherer.
func (Atkinson) Dither(buf *PixelBuffer) {
	w, h := buf.Width, buf.Height
	work := make([]int32, len(buf.Pix))
	for i, v := range buf.Pix {
		work[i] = int32(v)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := work[i]
			var quant int32
			if old >= ditherThreshold {
				quant = int32(White)
			}
			work[i] = quant
			errVal := old - quant

			for _, tap := range atkinsonTaps {
				nx, ny := x+tap.dx, y+tap.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				work[ny*w+nx] += errVal * int32(tap.num) / 16
			}
		}
	}

	for i, v := range work {
		buf.Pix[i] = uint8(v)
	}
}

// bwPalette is index 0 black, index 1 white.
var bwPalette = []color.Color{color.Black, color.White}

// FloydSteinberg is classic Floyd-Steinberg error diffusion in linear
// light.
type FloydSteinberg struct{}

// Dither implements Ditherer.
func (FloydSteinberg) Dither(buf *PixelBuffer) {
	d := dither.NewDitherer(bwPalette)
	d.Matrix = dither.FloydSteinberg
	applyPaletted(d, buf)
}

// Ordered4x4 is ordered dithering with a 4x4 Bayer matrix. It keeps flat
// regions as a regular texture, which some weavers prefer for backgrounds.
type Ordered4x4 struct{}

// Dither implements Ditherer.
func (Ordered4x4) Dither(buf *PixelBuffer) {
	d := dither.NewDitherer(bwPalette)
	d.Mapper = dither.Bayer(4, 4, 1.0)
	applyPaletted(d, buf)
}

func applyPaletted(d *dither.Ditherer, buf *PixelBuffer) {
	pal := d.DitherPaletted(buf.Gray())
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		for x := range row {
			if pal.ColorIndexAt(x, y) == 0 {
				row[x] = Black
			} else {
				row[x] = White
			}
		}
	}
}
