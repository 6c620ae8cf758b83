package loomweave

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is wrapped by every request validation failure.
	ErrInvalidRequest = errors.New("invalid conversion request")

	// ErrSourceTooLarge is returned when the source exceeds the configured
	// pixel limit.
	ErrSourceTooLarge = errors.New("source image too large")
)

// DecodeError reports a source payload that could not be turned into a
// raster.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode %s image: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a buffer the output container rejected.
type EncodeError struct {
	Format OutputFormat
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
