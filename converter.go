package loomweave

import (
	"encoding/base64"
	"fmt"
	"image"
	"time"

	"github.com/HMC-Makerspace/loomweave/imageutil"
	"github.com/HMC-Makerspace/loomweave/internal/logging"
	"golang.org/x/image/tiff"
)

// Converter runs the loom pipeline. Its settings are fixed at construction,
// so one Converter may serve concurrent Convert calls.
type Converter struct {
	filter          imageutil.Filter
	placement       imageutil.Placement
	sharpen         bool
	dither          DitherMethod
	limits          RunLimits
	threshold       int
	maxSourcePixels int
	encode          EncodeOptions
}

// Option configures a Converter.
type Option func(*Converter)

// NewConverter creates a Converter with the given options.
// Defaults: Lanczos filter, origin placement, Atkinson dithering,
// DefaultRunLimits, content threshold 10, no source size limit,
// uncompressed TIFF.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		filter:    imageutil.DefaultFilter,
		placement: imageutil.PlaceOrigin,
		dither:    DefaultDitherMethod,
		limits:    DefaultRunLimits(),
		threshold: DefaultContentThreshold,
		encode:    EncodeOptions{TIFFCompression: tiff.Uncompressed},
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.filter.Available() {
		return nil, fmt.Errorf("filter %s is not available in this build", c.filter)
	}
	if _, err := NewDitherer(c.dither); err != nil {
		return nil, err
	}
	if err := c.limits.Validate(); err != nil {
		return nil, err
	}
	if c.threshold < 1 {
		return nil, fmt.Errorf("content threshold must be positive, got %d", c.threshold)
	}
	return c, nil
}

// WithFilter sets the resampling filter.
func WithFilter(f imageutil.Filter) Option {
	return func(c *Converter) {
		c.filter = f
	}
}

// WithPlacement sets where the content sits on the loom canvas.
func WithPlacement(p imageutil.Placement) Option {
	return func(c *Converter) {
		c.placement = p
	}
}

// WithSharpen enables sharpening of the resampled content's luma.
func WithSharpen(enabled bool) Option {
	return func(c *Converter) {
		c.sharpen = enabled
	}
}

// WithDitherMethod selects the ditherer.
func WithDitherMethod(m DitherMethod) Option {
	return func(c *Converter) {
		c.dither = m
	}
}

// WithRunLimits sets the float limits.
func WithRunLimits(l RunLimits) Option {
	return func(c *Converter) {
		c.limits = l
	}
}

// WithContentThreshold sets how many non-white pixels make a column count
// as content.
func WithContentThreshold(k int) Option {
	return func(c *Converter) {
		c.threshold = k
	}
}

// WithMaxSourcePixels rejects sources larger than n pixels before they are
// decoded. Zero disables the check.
func WithMaxSourcePixels(n int) Option {
	return func(c *Converter) {
		c.maxSourcePixels = n
	}
}

// WithTIFFCompression sets the TIFF compression scheme.
func WithTIFFCompression(ct tiff.CompressionType) Option {
	return func(c *Converter) {
		c.encode.TIFFCompression = ct
	}
}

// RunLimits returns the float limits the converter enforces.
func (c *Converter) RunLimits() RunLimits {
	return c.limits
}

// Convert runs the full pipeline on req.
func (c *Converter) Convert(req ConversionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	format := req.Output
	if format == "" {
		format = DefaultOutputFormat
	}

	p, err := c.Pattern(req)
	if err != nil {
		return nil, err
	}
	if p == nil {
		logging.Debug("source has no contrast, nothing to weave")
		return &Result{Status: StatusNoContrast, Output: format}, nil
	}

	data, err := c.Encode(p, format)
	if err != nil {
		return nil, err
	}
	return p.Result(format, data), nil
}

// Encode encodes a pattern in format using the converter's encoder
// settings.
func (c *Converter) Encode(p *Pattern, format OutputFormat) ([]byte, error) {
	t := time.Now()
	data, err := EncodeBytes(p.PixelBuffer, format, c.encode)
	if err != nil {
		return nil, err
	}
	logging.Debug("encode %s took %v (%d bytes)", format, time.Since(t), len(data))
	return data, nil
}

// Pattern is a finished, unencoded pattern.
type Pattern struct {
	*PixelBuffer
	StartColumn int
	EndColumn   int
	// Content is where the resampled image sits on the canvas.
	Content image.Rectangle
}

// Result wraps encoded pattern data in a Result.
func (p *Pattern) Result(format OutputFormat, data []byte) *Result {
	return &Result{
		Status:      StatusOK,
		Output:      format,
		Data:        data,
		Width:       p.Width,
		Height:      p.Height,
		StartColumn: p.StartColumn,
		EndColumn:   p.EndColumn,
	}
}

// Pattern runs every stage except encoding. It returns a nil Pattern and
// no error when the source has no contrast.
func (c *Converter) Pattern(req ConversionRequest) (*Pattern, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	timer := newStageTimer()

	if c.maxSourcePixels > 0 {
		cfg, err := imageutil.DecodeConfig(req.Source, req.Format)
		if err != nil {
			return nil, &DecodeError{Format: req.Format, Err: err}
		}
		if px := cfg.Width * cfg.Height; px > c.maxSourcePixels {
			return nil, &DecodeError{
				Format: req.Format,
				Err:    fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSourceTooLarge, cfg.Width, cfg.Height, c.maxSourcePixels),
			}
		}
	}

	src, err := imageutil.Decode(req.Source, req.Format)
	if err != nil {
		return nil, &DecodeError{Format: req.Format, Err: err}
	}
	timer.stage("decode")

	canvas, rect := imageutil.ResampleToCanvas(src, imageutil.CanvasOptions{
		LoomWidth:     req.LoomWidth,
		ContentWidth:  req.ContentWidth,
		ContentHeight: req.ContentHeight,
		Filter:        c.filter,
		Placement:     c.placement,
	})
	timer.stage("resample")
	logging.Debug("canvas %dx%d, content at %v", canvas.Width(), canvas.Height(), rect)

	gray := imageutil.ToGrayscale(canvas)
	if c.sharpen {
		imageutil.SharpenGray(gray, rect)
	}
	buf := PixelBufferFromGray(gray)
	timer.stage("luma")

	if !NormalizeRegion(buf, rect) {
		return nil, nil
	}
	timer.stage("normalize")

	start, end := LocateContent(buf, c.threshold)
	logging.Debug("content columns %d..%d", start, end)

	ditherer, err := NewDitherer(c.dither)
	if err != nil {
		return nil, err
	}
	ditherer.Dither(buf)
	timer.stage("dither")

	if req.Invert {
		buf.Invert()
	}

	changed := c.limits.Enforce(buf)
	timer.stage("enforce")
	logging.Debug("float limits changed %d pixels", changed)

	StampTabby(buf, start, end, req.InnerTabby)
	if req.FillMargin {
		StampMarginTabby(buf, rect, req.OuterTabby)
	} else {
		StampOuterTabby(buf, req.OuterTabby)
	}
	timer.stage("tabby")

	return &Pattern{PixelBuffer: buf, StartColumn: start, EndColumn: end, Content: rect}, nil
}

// ConvertBase64 is Convert for text transports. The source arrives as
// standard base64 and the result leaves as base64 text, or
// NoContrastMessage when the source has no contrast.
func (c *Converter) ConvertBase64(source string, req ConversionRequest) (string, error) {
	data, err := base64.StdEncoding.DecodeString(source)
	if err != nil {
		return "", &DecodeError{Format: req.Format, Err: fmt.Errorf("invalid base64 payload: %w", err)}
	}
	req.Source = data

	res, err := c.Convert(req)
	if err != nil {
		return "", err
	}
	return EncodeBase64(res), nil
}

// stageTimer logs the time spent in each pipeline stage at debug level.
type stageTimer struct {
	last time.Time
}

func newStageTimer() *stageTimer {
	return &stageTimer{last: time.Now()}
}

func (s *stageTimer) stage(name string) {
	now := time.Now()
	logging.Debug("%s took %v", name, now.Sub(s.last))
	s.last = now
}
