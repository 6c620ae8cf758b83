package imageutil

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Filter selects the resampling filter used to scale the source image.
type Filter int

const (
	// FilterLanczos uses a Lanczos-3 kernel. Smoothest result and the
	// default for loom patterns.
	FilterLanczos Filter = iota

	// FilterCatmullRom uses the Catmull-Rom cubic kernel.
	FilterCatmullRom

	// FilterBilinear uses bilinear interpolation.
	FilterBilinear

	// FilterNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	FilterNearest

	// FilterOpenCVArea uses OpenCV's INTER_AREA. Only available in
	// binaries built with the gocv tag.
	FilterOpenCVArea

	// FilterOpenCVLanczos uses OpenCV's INTER_LANCZOS4. Only available in
	// binaries built with the gocv tag.
	FilterOpenCVLanczos
)

// DefaultFilter is the filter used when none is configured.
const DefaultFilter = FilterLanczos

var filterNames = map[Filter]string{
	FilterLanczos:       "lanczos",
	FilterCatmullRom:    "catmull-rom",
	FilterBilinear:      "bilinear",
	FilterNearest:       "nearest",
	FilterOpenCVArea:    "opencv-area",
	FilterOpenCVLanczos: "opencv-lanczos",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// scaleFunc scales img to exactly width x height.
type scaleFunc func(img *RGBAImage, width, height int) *RGBAImage

// scalers holds the filters compiled into this binary. Optional backends
// add themselves from init.
var scalers = map[Filter]scaleFunc{
	FilterLanczos:    scaleLanczos,
	FilterCatmullRom: drawScaler(draw.CatmullRom),
	FilterBilinear:   drawScaler(draw.BiLinear),
	FilterNearest:    drawScaler(draw.NearestNeighbor),
}

func registerScaler(f Filter, fn scaleFunc) {
	scalers[f] = fn
}

// Available reports whether the filter is compiled into this binary.
func (f Filter) Available() bool {
	_, ok := scalers[f]
	return ok
}

// ParseFilter parses a filter name as printed by Filter.String.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFilter, nil
	}
	for f, n := range filterNames {
		if n != name {
			continue
		}
		if !f.Available() {
			return 0, fmt.Errorf("filter %q is not available in this build", name)
		}
		return f, nil
	}
	return 0, fmt.Errorf("unknown filter %q", name)
}

func drawScaler(interp draw.Interpolator) scaleFunc {
	return func(img *RGBAImage, width, height int) *RGBAImage {
		dst := NewRGBAImage(width, height)
		interp.Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
		return dst
	}
}

func scaleLanczos(img *RGBAImage, width, height int) *RGBAImage {
	g := gift.New(gift.Resize(width, height, gift.LanczosResampling))
	dst := NewRGBAImage(width, height)
	g.Draw(dst.RGBA, img.RGBA)
	return dst
}

// Resize resizes an RGBA image to the specified dimensions using the
// given filter. A filter missing from this build falls back to
// DefaultFilter.
func Resize(img *RGBAImage, width, height int, f Filter) *RGBAImage {
	scale, ok := scalers[f]
	if !ok {
		scale = scalers[DefaultFilter]
	}
	return scale(img, width, height)
}

// ScaledHeight returns round(srcHeight * width / srcWidth) using integer
// round-half-up, never less than 1.
func ScaledHeight(srcWidth, srcHeight, width int) int {
	return scaleSide(srcHeight, srcWidth, width)
}

// ScaledWidth returns round(srcWidth * height / srcHeight), the width that
// keeps the aspect ratio at the given height. Never less than 1.
func ScaledWidth(srcWidth, srcHeight, height int) int {
	return scaleSide(srcWidth, srcHeight, height)
}

func scaleSide(side, ref, target int) int {
	if side <= 0 || ref <= 0 || target <= 0 {
		return 1
	}
	num := int64(side) * int64(target)
	n := int((2*num + int64(ref)) / (2 * int64(ref)))
	if n < 1 {
		return 1
	}
	return n
}

// ContentSize returns the size the content is scaled to. A positive
// ContentHeight fixes the height and derives the width; when that width
// overflows the loom it is clamped to LoomWidth and the height derived
// from it instead. Otherwise ContentWidth, clamped to [1, LoomWidth],
// fixes the width.
func ContentSize(srcWidth, srcHeight int, opts CanvasOptions) (width, height int) {
	loomWidth := max(opts.LoomWidth, 1)
	if opts.ContentHeight > 0 {
		width = ScaledWidth(srcWidth, srcHeight, opts.ContentHeight)
		if width <= loomWidth {
			return width, opts.ContentHeight
		}
		return loomWidth, ScaledHeight(srcWidth, srcHeight, loomWidth)
	}
	width = clampInt(opts.ContentWidth, 1, loomWidth)
	return width, ScaledHeight(srcWidth, srcHeight, width)
}

// Placement positions the scaled content on the loom canvas.
type Placement int

const (
	// PlaceOrigin puts the content at the top-left corner.
	PlaceOrigin Placement = iota
	// PlaceCenter centers the content horizontally.
	PlaceCenter
)

// CanvasOptions describes how a source image is laid onto the loom.
type CanvasOptions struct {
	LoomWidth    int
	ContentWidth int
	// ContentHeight, when positive, sizes the content by height instead
	// of ContentWidth.
	ContentHeight int
	Filter        Filter
	Placement     Placement
}

// ResampleToCanvas scales img to ContentSize, preserving aspect ratio, and
// places it on a white LoomWidth-wide canvas. Transparent source pixels are
// composited over the white background. It returns the canvas and the
// rectangle the content occupies.
func ResampleToCanvas(img *RGBAImage, opts CanvasOptions) (*RGBAImage, image.Rectangle) {
	loomWidth := max(opts.LoomWidth, 1)
	contentWidth, height := ContentSize(img.Width(), img.Height(), opts)

	scaled := Resize(img, contentWidth, height, opts.Filter)

	tile := NewFilledRGBAImage(contentWidth, height, White)
	draw.Draw(tile.RGBA, tile.Bounds(), scaled.RGBA, image.Point{}, draw.Over)

	left := 0
	if opts.Placement == PlaceCenter {
		left = (loomWidth - contentWidth) / 2
	}
	rect := image.Rect(left, 0, left+contentWidth, height)

	canvas := NewFilledRGBAImage(loomWidth, height, White)
	draw.Draw(canvas.RGBA, rect, tile.RGBA, image.Point{}, draw.Src)
	return canvas, rect
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
