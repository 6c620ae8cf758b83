package draft

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/phpdave11/gofpdf"
)

// Page is one pattern on a PDF sheet.
type Page struct {
	Name    string
	Pattern image.Image
	Caption string
}

// SheetOptions controls PDF layout.
type SheetOptions struct {
	// DPI maps pattern pixels to paper. One pixel is one weave cell.
	DPI float64
	// Margin around the pattern in millimetres.
	Margin float64
}

// DefaultSheetOptions prints at 100 cells per inch with 10 mm margins.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{DPI: 100, Margin: 10}
}

const captionHeight = 8.0 // mm

// WriteSheet writes a PDF with one page per pattern, each page sized to
// its pattern.
func WriteSheet(w io.Writer, pages []Page, opts SheetOptions) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultSheetOptions().DPI
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 10)

	for i, page := range pages {
		b := page.Pattern.Bounds()
		if b.Empty() {
			return fmt.Errorf("page %d (%s) has an empty pattern", i, page.Name)
		}

		drawW := float64(b.Dx()) * 25.4 / opts.DPI
		drawH := float64(b.Dy()) * 25.4 / opts.DPI
		pageW := drawW + 2*opts.Margin
		pageH := drawH + 2*opts.Margin + captionHeight

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageW, Ht: pageH})

		var buf bytes.Buffer
		if err := png.Encode(&buf, page.Pattern); err != nil {
			return fmt.Errorf("failed to encode page %d: %w", i, err)
		}

		imageID := fmt.Sprintf("pattern-%d", i)
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(imageID, imgOpts, &buf)
		pdf.ImageOptions(imageID, opts.Margin, opts.Margin, drawW, drawH, false, imgOpts, 0, "")

		caption := page.Caption
		if caption == "" {
			caption = page.Name
		}
		pdf.Text(opts.Margin, opts.Margin+drawH+captionHeight*0.75, caption)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
