package imageutil

// Luma returns the BT.601 luminance of c:
// Y = (299*R + 587*G + 114*B + 500) / 1000, always in [0, 255].
func Luma(c RGB) uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000)
}

// ToGrayscale converts an RGBA image to grayscale using the BT.601 luma
// weights, the same weights OpenCV's COLOR_BGR2GRAY uses.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		out := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			i := x * 4
			out[x] = Luma(RGB{R: row[i], G: row[i+1], B: row[i+2]})
		}
	}

	return gray
}
