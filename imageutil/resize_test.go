package imageutil

import (
	"image"
	"testing"
)

func TestResizeDimensions(t *testing.T) {
	t.Parallel()
	img := CreateGradientImage(100, 100)

	for _, f := range []Filter{FilterLanczos, FilterCatmullRom, FilterBilinear, FilterNearest} {
		t.Run(f.String(), func(t *testing.T) {
			down := Resize(img, 50, 30, f)
			if down.Width() != 50 || down.Height() != 30 {
				t.Errorf("Expected 50x30, got %dx%d", down.Width(), down.Height())
			}
			up := Resize(img, 200, 150, f)
			if up.Width() != 200 || up.Height() != 150 {
				t.Errorf("Expected 200x150, got %dx%d", up.Width(), up.Height())
			}
		})
	}
}

func TestResizeUnavailableFilterFallsBack(t *testing.T) {
	t.Parallel()
	img := CreateGradientImage(40, 40)

	got := Resize(img, 20, 20, Filter(99))
	if got.Width() != 20 || got.Height() != 20 {
		t.Errorf("Expected 20x20, got %dx%d", got.Width(), got.Height())
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", DefaultFilter, false},
		{"lanczos", FilterLanczos, false},
		{"Bilinear", FilterBilinear, false},
		{" nearest ", FilterNearest, false},
		{"catmull-rom", FilterCatmullRom, false},
		{"bicubic-ish", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if !FilterOpenCVArea.Available() {
		if _, err := ParseFilter("opencv-area"); err == nil {
			t.Error("Expected opencv-area to be rejected without the gocv build tag")
		}
	}
}

func TestScaledHeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		srcW, srcH, width, want int
	}{
		{100, 50, 200, 100},
		{4, 1, 2, 1},     // 0.5 rounds up
		{4, 3, 2, 2},     // 1.5 rounds up
		{3, 1, 2, 1},     // 0.67
		{1000, 1, 10, 1}, // clamps to 1
		{640, 480, 1320, 990},
	}
	for _, tt := range tests {
		if got := ScaledHeight(tt.srcW, tt.srcH, tt.width); got != tt.want {
			t.Errorf("ScaledHeight(%d, %d, %d) = %d, want %d", tt.srcW, tt.srcH, tt.width, got, tt.want)
		}
	}
}

func TestResampleToCanvasOrigin(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(100, 50, RGB{})

	canvas, rect := ResampleToCanvas(img, CanvasOptions{
		LoomWidth:    300,
		ContentWidth: 200,
		Filter:       FilterNearest,
	})

	if canvas.Width() != 300 || canvas.Height() != 100 {
		t.Fatalf("Expected 300x100 canvas, got %dx%d", canvas.Width(), canvas.Height())
	}
	if rect != image.Rect(0, 0, 200, 100) {
		t.Fatalf("Expected content rect (0,0)-(200,100), got %v", rect)
	}
	if got := canvas.GetRGB(0, 0); got != (RGB{}) {
		t.Errorf("Expected black content at origin, got %v", got)
	}
	for y := 0; y < canvas.Height(); y++ {
		for x := 200; x < 300; x++ {
			if got := canvas.GetRGB(x, y); got != White {
				t.Fatalf("Expected white padding at (%d,%d), got %v", x, y, got)
			}
		}
	}
}

func TestResampleToCanvasCenter(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(10, 10, RGB{})

	canvas, rect := ResampleToCanvas(img, CanvasOptions{
		LoomWidth:    100,
		ContentWidth: 40,
		Filter:       FilterNearest,
		Placement:    PlaceCenter,
	})

	if rect != image.Rect(30, 0, 70, 40) {
		t.Fatalf("Expected centered rect (30,0)-(70,40), got %v", rect)
	}
	if got := canvas.GetRGB(29, 0); got != White {
		t.Errorf("Expected white left of content, got %v", got)
	}
	if got := canvas.GetRGB(30, 0); got != (RGB{}) {
		t.Errorf("Expected black at content start, got %v", got)
	}
	if got := canvas.GetRGB(70, 0); got != White {
		t.Errorf("Expected white right of content, got %v", got)
	}
}

func TestResampleToCanvasTransparentBecomesWhite(t *testing.T) {
	t.Parallel()
	img := CreateTransparentImage(20, 20)

	canvas, _ := ResampleToCanvas(img, CanvasOptions{
		LoomWidth:    40,
		ContentWidth: 20,
		Filter:       FilterLanczos,
	})

	white := CreateSolidImage(40, 20, White)
	if d := CalculateMaxDiff(canvas, white); d != 0 {
		t.Errorf("Transparent source should composite to white, max diff %d", d)
	}
}

func TestContentSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		srcW, srcH    int
		opts          CanvasOptions
		width, height int
	}{
		{"by width", 200, 100, CanvasOptions{LoomWidth: 300, ContentWidth: 150}, 150, 75},
		{"width clamped to loom", 200, 100, CanvasOptions{LoomWidth: 100, ContentWidth: 150}, 100, 50},
		{"by height", 200, 100, CanvasOptions{LoomWidth: 300, ContentHeight: 60}, 120, 60},
		{"height wins over width", 200, 100, CanvasOptions{LoomWidth: 300, ContentWidth: 10, ContentHeight: 60}, 120, 60},
		{"height rounds width", 3, 2, CanvasOptions{LoomWidth: 300, ContentHeight: 5}, 8, 5},
		{"tall overflow recomputes height", 400, 100, CanvasOptions{LoomWidth: 300, ContentHeight: 100}, 300, 75},
		{"exactly loom wide", 300, 100, CanvasOptions{LoomWidth: 300, ContentHeight: 100}, 300, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ContentSize(tt.srcW, tt.srcH, tt.opts)
			if w != tt.width || h != tt.height {
				t.Errorf("ContentSize = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestScaledWidth(t *testing.T) {
	t.Parallel()
	if got := ScaledWidth(640, 480, 120); got != 160 {
		t.Errorf("ScaledWidth(640, 480, 120) = %d, want 160", got)
	}
	if got := ScaledWidth(1, 1000, 1); got != 1 {
		t.Errorf("ScaledWidth should never return less than 1, got %d", got)
	}
}

func TestResampleToCanvasByHeight(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(20, 10, RGB{})

	canvas, rect := ResampleToCanvas(img, CanvasOptions{
		LoomWidth:     100,
		ContentHeight: 30,
		Filter:        FilterNearest,
		Placement:     PlaceCenter,
	})

	if canvas.Width() != 100 || canvas.Height() != 30 {
		t.Fatalf("Expected 100x30 canvas, got %dx%d", canvas.Width(), canvas.Height())
	}
	if rect != image.Rect(20, 0, 80, 30) {
		t.Errorf("Expected content at (20,0)-(80,30), got %v", rect)
	}
}
