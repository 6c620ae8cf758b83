package loomweave

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/tiff"
)

// OutputFormat is the container a pattern is encoded in.
type OutputFormat string

const (
	OutputTIFF OutputFormat = "tiff"
	OutputPNG  OutputFormat = "png"
)

// DefaultOutputFormat is used for empty or unrecognized format names.
const DefaultOutputFormat = OutputPNG

// ParseOutputFormat maps a format name to an OutputFormat. "tif" and
// "tiff" select TIFF; anything else selects DefaultOutputFormat.
func ParseOutputFormat(name string) OutputFormat {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "tif", "tiff":
		return OutputTIFF
	case "png":
		return OutputPNG
	}
	return DefaultOutputFormat
}

// Extension returns the file extension for the format, with the dot.
func (f OutputFormat) Extension() string {
	if f == OutputTIFF {
		return ".tif"
	}
	return ".png"
}

// ContentType returns the MIME type of the format.
func (f OutputFormat) ContentType() string {
	if f == OutputTIFF {
		return "image/tiff"
	}
	return "image/png"
}

// EncodeOptions tunes the encoders.
type EncodeOptions struct {
	// TIFFCompression is tiff.Uncompressed by default. tiff.Deflate is
	// the other choice most loom software reads.
	TIFFCompression tiff.CompressionType
}

// Encode writes buf to w as an 8-bit grayscale image in format.
func Encode(w io.Writer, buf *PixelBuffer, format OutputFormat, opts EncodeOptions) error {
	if err := buf.Validate(); err != nil {
		return &EncodeError{Format: format, Err: err}
	}

	var err error
	switch format {
	case OutputTIFF:
		err = tiff.Encode(w, buf.Gray(), &tiff.Options{Compression: opts.TIFFCompression})
	case OutputPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, buf.Gray())
	default:
		err = fmt.Errorf("unsupported output format %q", string(format))
	}
	if err != nil {
		return &EncodeError{Format: format, Err: err}
	}
	return nil
}

// EncodeBytes encodes buf into memory.
func EncodeBytes(buf *PixelBuffer, format OutputFormat, opts EncodeOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := Encode(&out, buf, format, opts); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncodeBase64 returns the text form of a result: the standard base64
// encoding of its data, or NoContrastMessage for a no-contrast result.
func EncodeBase64(res *Result) string {
	if res.Status == StatusNoContrast {
		return NoContrastMessage
	}
	return base64.StdEncoding.EncodeToString(res.Data)
}
