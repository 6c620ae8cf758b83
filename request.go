package loomweave

import "fmt"

// ConversionRequest carries one conversion's inputs. Treat it as immutable
// once built.
type ConversionRequest struct {
	// Source is the encoded image payload.
	Source []byte
	// Format is the source file extension ("png", ".JPG", ...). Empty
	// sniffs the format from the payload.
	Format string

	LoomWidth    int
	ContentWidth int
	// ContentHeight, when positive, sizes the content to this many picks
	// and ContentWidth is ignored. Content that would then be wider than
	// the loom is scaled to the loom width instead.
	ContentHeight int
	InnerTabby    int
	OuterTabby    int
	// FillMargin widens each selvedge band to cover the blank canvas
	// beside the content, never narrower than OuterTabby.
	FillMargin bool

	Output OutputFormat
	Invert bool
}

// Validate checks the request's sizes. It does not inspect Source.
func (r *ConversionRequest) Validate() error {
	switch {
	case r.LoomWidth <= 0:
		return fmt.Errorf("%w: loom width must be positive, got %d", ErrInvalidRequest, r.LoomWidth)
	case r.ContentHeight < 0:
		return fmt.Errorf("%w: content height must not be negative, got %d", ErrInvalidRequest, r.ContentHeight)
	case r.InnerTabby < 0:
		return fmt.Errorf("%w: inner tabby width must not be negative, got %d", ErrInvalidRequest, r.InnerTabby)
	case r.OuterTabby < 0:
		return fmt.Errorf("%w: outer tabby width must not be negative, got %d", ErrInvalidRequest, r.OuterTabby)
	}
	if r.ContentHeight > 0 {
		return nil
	}
	switch {
	case r.ContentWidth <= 0:
		return fmt.Errorf("%w: content width must be positive, got %d", ErrInvalidRequest, r.ContentWidth)
	case r.ContentWidth > r.LoomWidth:
		return fmt.Errorf("%w: content width %d exceeds loom width %d", ErrInvalidRequest, r.ContentWidth, r.LoomWidth)
	}
	return nil
}

// Status is the outcome of a conversion that did not fail.
type Status int

const (
	// StatusOK means Data holds an encoded pattern.
	StatusOK Status = iota
	// StatusNoContrast means the resampled image was a single flat tone
	// and nothing was encoded.
	StatusNoContrast
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoContrast:
		return "no-contrast"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// NoContrastMessage is the text sent in place of a pattern over text
// transports when the source has no contrast.
const NoContrastMessage = "image has no contrast"

// Result is a finished conversion.
type Result struct {
	Status Status
	Output OutputFormat
	Data   []byte

	Width  int
	Height int

	// StartColumn and EndColumn are the content boundaries the inner
	// tabby was anchored to.
	StartColumn int
	EndColumn   int
}
