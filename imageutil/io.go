package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

var (
	// ErrUnknownFormat is returned for a format hint no decoder handles.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrEmptyImage is returned when the container reports zero area.
	ErrEmptyImage = errors.New("image has zero area")

	// ErrFormatMismatch is returned when the bytes are a valid image of a
	// different format than the one declared.
	ErrFormatMismatch = errors.New("image data does not match declared format")
)

// NormalizeFormat maps a file extension or format tag to the decoder name
// registered with the image package. An empty hint returns "" (sniff).
func NormalizeFormat(hint string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hint), "."))
	switch ext {
	case "":
		return "", nil
	case "png":
		return "png", nil
	case "jpg", "jpeg", "jpe", "jfif":
		return "jpeg", nil
	case "gif":
		return "gif", nil
	case "tif", "tiff":
		return "tiff", nil
	case "bmp":
		return "bmp", nil
	case "webp":
		return "webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, hint)
}

// DecodeConfig reads the dimensions of an encoded image without decoding
// the pixels, so callers can bound memory before calling Decode.
func DecodeConfig(data []byte, hint string) (image.Config, error) {
	want, err := NormalizeFormat(hint)
	if err != nil {
		return image.Config{}, err
	}
	cfg, got, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to read image header: %w", err)
	}
	if want != "" && got != want {
		return image.Config{}, fmt.Errorf("%w: declared %s, found %s", ErrFormatMismatch, want, got)
	}
	return cfg, nil
}

// Decode decodes an image from memory. The hint is the declared file
// extension; an empty hint accepts any registered format. JPEG and TIFF
// images are turned upright according to their EXIF orientation.
// Supports PNG, JPEG, GIF, TIFF, BMP and WebP.
func Decode(data []byte, hint string) (*RGBAImage, error) {
	want, err := NormalizeFormat(hint)
	if err != nil {
		return nil, err
	}

	img, got, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if want != "" && got != want {
		return nil, fmt.Errorf("%w: declared %s, found %s", ErrFormatMismatch, want, got)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	if got == "jpeg" || got == "tiff" {
		img = ApplyOrientation(img, ReadOrientation(data))
	}

	return RGBAImageFromImage(img), nil
}
