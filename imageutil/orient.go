package imageutil

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// EXIF orientation values (TIFF tag 0x0112).
const (
	OrientationNormal     = 1
	OrientationFlipH      = 2
	OrientationRotate180  = 3
	OrientationFlipV      = 4
	OrientationTranspose  = 5
	OrientationRotate90   = 6 // stored rotated; view needs 90° clockwise
	OrientationTransverse = 7
	OrientationRotate270  = 8 // view needs 90° counter-clockwise
)

// ReadOrientation returns the EXIF orientation of an encoded image, or
// OrientationNormal when the data carries no readable orientation tag.
func ReadOrientation(data []byte) int {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return OrientationNormal
	}

	im := exifcommon.NewIfdMapping()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return OrientationNormal
	}
	ti := exif.NewTagIndex()

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil || index.RootIfd == nil {
		return OrientationNormal
	}

	tags, err := index.RootIfd.FindTagWithName("Orientation")
	if err != nil || len(tags) == 0 {
		return OrientationNormal
	}
	val, err := tags[0].Value()
	if err != nil {
		return OrientationNormal
	}

	var o int
	switch v := val.(type) {
	case []uint16:
		if len(v) > 0 {
			o = int(v[0])
		}
	case uint16:
		o = int(v)
	}
	if o < OrientationNormal || o > OrientationRotate270 {
		return OrientationNormal
	}
	return o
}

// ApplyOrientation returns img transformed so that it displays upright for
// the given EXIF orientation. Unknown values return img unchanged.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	var f gift.Filter
	switch orientation {
	case OrientationFlipH:
		f = gift.FlipHorizontal()
	case OrientationRotate180:
		f = gift.Rotate180()
	case OrientationFlipV:
		f = gift.FlipVertical()
	case OrientationTranspose:
		f = gift.Transpose()
	case OrientationRotate90:
		f = gift.Rotate270()
	case OrientationTransverse:
		f = gift.Transverse()
	case OrientationRotate270:
		f = gift.Rotate90()
	default:
		return img
	}

	g := gift.New(f)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
