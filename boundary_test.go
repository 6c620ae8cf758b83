package loomweave

import "testing"

func fillRect(buf *PixelBuffer, x0, y0, x1, y1 int, v uint8) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			buf.Set(x, y, v)
		}
	}
}

func TestLocateContentCenteredBlock(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(100, 50, White)
	fillRect(buf, 45, 20, 55, 30, Black)

	start, end := LocateContent(buf, DefaultContentThreshold)
	if start != 44 || end != 55 {
		t.Errorf("Expected (44, 55), got (%d, %d)", start, end)
	}
}

func TestLocateContentNoContent(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(100, 50, White)
	// Nine dark pixels per column stay below the threshold.
	fillRect(buf, 10, 0, 90, 9, Black)

	start, end := LocateContent(buf, DefaultContentThreshold)
	if start != 0 || end != 99 {
		t.Errorf("Expected (0, 99), got (%d, %d)", start, end)
	}
}

func TestLocateContentClampsAtEdges(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(30, 20, White)
	fillRect(buf, 0, 0, 30, 20, 128)

	start, end := LocateContent(buf, DefaultContentThreshold)
	if start != 0 || end != 29 {
		t.Errorf("Expected (0, 29), got (%d, %d)", start, end)
	}
}

func TestLocateContentSingleColumn(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(20, 12, White)
	fillRect(buf, 7, 0, 8, 12, Black)

	start, end := LocateContent(buf, DefaultContentThreshold)
	if start != 6 || end != 8 {
		t.Errorf("Expected (6, 8), got (%d, %d)", start, end)
	}
}

func TestLocateContentTinyCanvas(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(1, 1, Black)

	start, end := LocateContent(buf, 1)
	if start != 0 || end != 0 {
		t.Errorf("Expected (0, 0), got (%d, %d)", start, end)
	}
}
