//go:build gocv

package imageutil

import (
	"image"

	"gocv.io/x/gocv"
)

func init() {
	registerScaler(FilterOpenCVArea, openCVScaler(gocv.InterpolationArea))
	registerScaler(FilterOpenCVLanczos, openCVScaler(gocv.InterpolationLanczos4))
}

// openCVScaler resizes through OpenCV. Any conversion failure falls back
// to the pure Go Lanczos scaler so a conversion never aborts here.
func openCVScaler(interp gocv.InterpolationFlags) scaleFunc {
	return func(img *RGBAImage, width, height int) *RGBAImage {
		src, err := gocv.ImageToMatRGBA(img.RGBA)
		if err != nil {
			return scaleLanczos(img, width, height)
		}
		defer src.Close()

		dst := gocv.NewMat()
		defer dst.Close()
		gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, interp)

		out, err := dst.ToImage()
		if err != nil {
			return scaleLanczos(img, width, height)
		}
		return RGBAImageFromImage(out)
	}
}
