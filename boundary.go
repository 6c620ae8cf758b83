package loomweave

// LocateContent finds the columns that bracket the image content. A column
// is content when at least k of its pixels are not White. start is one
// column left of the first content column and end one column right of the
// last, both clamped to the buffer. With no content column the whole width
// is returned.
func LocateContent(buf *PixelBuffer, k int) (start, end int) {
	k = max(k, 1)
	start, end = 0, buf.Width-1

	isContent := func(x int) bool {
		n := 0
		for y := 0; y < buf.Height; y++ {
			if buf.Pix[y*buf.Width+x] != White {
				n++
				if n >= k {
					return true
				}
			}
		}
		return false
	}

	first := -1
	for x := 0; x < buf.Width; x++ {
		if isContent(x) {
			first = x
			break
		}
	}
	if first < 0 {
		return start, end
	}

	last := first
	for x := buf.Width - 1; x > first; x-- {
		if isContent(x) {
			last = x
			break
		}
	}

	return max(first-1, 0), min(last+1, buf.Width-1)
}
