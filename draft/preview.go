// Package draft renders operator proofs of loom patterns: an enlarged PNG
// preview with a caption strip, and a printable PDF sheet.
package draft

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/HMC-Makerspace/loomweave"
)

// Options controls preview rendering.
type Options struct {
	// Scale is the number of preview pixels per pattern pixel.
	Scale int
	// Caption is drawn under the pattern. Empty omits the strip.
	Caption string
	// FontSize is the caption size in points at 72 DPI.
	FontSize float64
	// MaxWidth caps the preview width; Scale shrinks to fit. Zero means
	// no cap.
	MaxWidth int
}

// DefaultOptions returns a 2x preview with a 14 point caption.
func DefaultOptions() Options {
	return Options{Scale: 2, FontSize: 14}
}

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Caption describes a finished pattern for the operator.
func Caption(name string, res *loomweave.Result) string {
	return fmt.Sprintf("%s  %dx%d  content %d..%d  %s",
		name, res.Width, res.Height, res.StartColumn, res.EndColumn, res.Output)
}

// Preview enlarges pattern with nearest-neighbor scaling so every weave
// cell stays a crisp square, and appends the caption strip.
func Preview(pattern image.Image, opts Options) (*image.RGBA, error) {
	b := pattern.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty pattern")
	}

	scale := max(opts.Scale, 1)
	if opts.MaxWidth > 0 {
		for scale > 1 && b.Dx()*scale > opts.MaxWidth {
			scale--
		}
	}
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = DefaultOptions().FontSize
	}

	w, h := b.Dx()*scale, b.Dy()*scale
	strip := 0
	if opts.Caption != "" {
		strip = int(fontSize * 2)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h+strip))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, image.Rect(0, 0, w, h), pattern, b, draw.Src, nil)

	if strip > 0 {
		f, err := captionFont()
		if err != nil {
			return nil, fmt.Errorf("failed to load caption font: %w", err)
		}

		ctx := freetype.NewContext()
		ctx.SetDPI(72)
		ctx.SetFont(f)
		ctx.SetFontSize(fontSize)
		ctx.SetClip(image.Rect(0, h, w, h+strip))
		ctx.SetDst(dst)
		ctx.SetSrc(image.NewUniform(color.Black))
		ctx.SetHinting(font.HintingFull)

		baseline := h + int(fontSize*1.4)
		if _, err := ctx.DrawString(opts.Caption, freetype.Pt(int(fontSize/2), baseline)); err != nil {
			return nil, fmt.Errorf("failed to draw caption: %w", err)
		}
	}

	return dst, nil
}

// WritePreview renders a preview and writes it to w as PNG.
func WritePreview(w io.Writer, pattern image.Image, opts Options) error {
	img, err := Preview(pattern, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
