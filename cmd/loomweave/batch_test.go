package main

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/HMC-Makerspace/loomweave"
	"github.com/HMC-Makerspace/loomweave/imageutil"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func sourcePNG() []byte {
	img := imageutil.CreateBlockImage(40, 30, image.Rect(10, 5, 30, 25), imageutil.RGB{})
	return imageutil.EncodePNG(img.RGBA)
}

func TestDiscoverJobsSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cat.JPG")
	writeFile(t, src, []byte("x"))

	jobs, err := discoverJobs(src, "", loomweave.OutputTIFF)
	if err != nil {
		t.Fatalf("discoverJobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].output != filepath.Join(dir, "cat.tif") {
		t.Errorf("Expected sibling cat.tif, got %+v", jobs)
	}

	outDir := t.TempDir()
	jobs, err = discoverJobs(src, outDir, loomweave.OutputPNG)
	if err != nil {
		t.Fatalf("discoverJobs failed: %v", err)
	}
	if jobs[0].output != filepath.Join(outDir, "cat.png") {
		t.Errorf("Expected output inside %s, got %s", outDir, jobs[0].output)
	}

	explicit := filepath.Join(outDir, "woven.tif")
	jobs, _ = discoverJobs(src, explicit, loomweave.OutputTIFF)
	if jobs[0].output != explicit {
		t.Errorf("Expected explicit output %s, got %s", explicit, jobs[0].output)
	}
}

func TestDiscoverJobsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpeg", "notes.txt", ".hidden.png", "c.webp"} {
		writeFile(t, filepath.Join(dir, name), []byte("x"))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	jobs, err := discoverJobs(dir, "", loomweave.OutputPNG)
	if err != nil {
		t.Fatalf("discoverJobs failed: %v", err)
	}

	want := []struct{ in, out string }{
		{"a.jpeg", "a.png"},
		{"b.png", "b.loom.png"},
		{"c.webp", "c.png"},
	}
	if len(jobs) != len(want) {
		t.Fatalf("Expected %d jobs, got %+v", len(want), jobs)
	}
	for i, w := range want {
		if jobs[i].index != i {
			t.Errorf("Job %d has index %d", i, jobs[i].index)
		}
		if jobs[i].input != filepath.Join(dir, w.in) || jobs[i].output != filepath.Join(dir, w.out) {
			t.Errorf("Job %d: expected %s -> %s, got %s -> %s", i, w.in, w.out, jobs[i].input, jobs[i].output)
		}
	}
}

func TestDiscoverJobsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := discoverJobs(dir, "", loomweave.OutputPNG); err == nil {
		t.Error("Expected error for a directory without images")
	}
	if _, err := discoverJobs(filepath.Join(dir, "missing.png"), "", loomweave.OutputPNG); err == nil {
		t.Error("Expected error for a missing input")
	}
	txt := filepath.Join(dir, "readme.txt")
	writeFile(t, txt, []byte("x"))
	if _, err := discoverJobs(txt, "", loomweave.OutputPNG); err == nil {
		t.Error("Expected error for an unsupported input file")
	}
}

func TestParseArgsPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "loom.json")
	writeFile(t, cfgPath, []byte(`{"loom_width": 500, "inner_tabby": 3, "dither": "ordered4x4", "center": true}`))

	opts, err := parseArgs([]string{
		"-input", "photo.png",
		"-config", cfgPath,
		"-loom-width", "200",
		"-format", "tiff",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}

	if opts.loomWidth != 200 {
		t.Errorf("Flag should override config loom width, got %d", opts.loomWidth)
	}
	if opts.innerTabby != 3 || opts.dither != "ordered4x4" || !opts.center {
		t.Errorf("Config values should apply when flags are absent, got %+v", opts.settings)
	}
	if opts.format != "tiff" {
		t.Errorf("Expected tiff, got %s", opts.format)
	}
	if opts.maxH != loomweave.DefaultMaxHorizontalRun {
		t.Errorf("Defaults should fill the rest, got max horizontal %d", opts.maxH)
	}

	req := opts.request([]byte{1}, ".png")
	if req.ContentWidth != 200 {
		t.Errorf("Content width should default to the loom width, got %d", req.ContentWidth)
	}
}

func TestParseArgsProfileZeroesAndSwitches(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "loom.json")
	writeFile(t, cfgPath, []byte(`{"passes": 0, "deflate": true, "center": true, "content_height": 120, "fill_margin": true}`))

	opts, err := parseArgs([]string{"-input", "photo.png", "-config", cfgPath, "-center=false"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if opts.passes != 0 {
		t.Errorf("Profile should be able to set passes to 0, got %d", opts.passes)
	}
	if !opts.deflate {
		t.Error("Profile deflate should apply")
	}
	if opts.center {
		t.Error("An explicit -center=false should override the profile")
	}

	c, err := opts.converter()
	if err != nil {
		t.Fatalf("converter failed: %v", err)
	}
	if got := c.RunLimits().Passes; got != 0 {
		t.Errorf("Converter should run 0 passes, got %d", got)
	}

	req := opts.request([]byte{1}, ".png")
	if req.ContentHeight != 120 || !req.FillMargin {
		t.Errorf("Expected height 120 with fill margin, got %d/%v", req.ContentHeight, req.FillMargin)
	}
}

func TestParseArgsRequiresInput(t *testing.T) {
	if _, err := parseArgs(nil, io.Discard); err == nil {
		t.Error("Expected error without -input")
	}
}

func TestRunDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "patterns")
	writeFile(t, filepath.Join(in, "a.png"), sourcePNG())
	writeFile(t, filepath.Join(in, "b.png"), sourcePNG())
	writeFile(t, filepath.Join(in, "blank.png"),
		imageutil.EncodePNG(imageutil.CreateSolidImage(20, 20, imageutil.White).RGBA))

	var stderr bytes.Buffer
	code := run([]string{
		"-input", in,
		"-output", out,
		"-loom-width", "60",
		"-width", "40",
		"-tabby", "2",
		"-outer-tabby", "2",
		"-format", "tiff",
		"-workers", "2",
		"-preview",
		"-pdf",
		"-log-level", "error",
	}, &stderr)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d (%s)", code, stderr.String())
	}

	for _, name := range []string{"a.tif", "b.tif", "a.preview.png", "b.preview.png", pdfName} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "blank.tif")); !os.IsNotExist(err) {
		t.Error("A blank source should not produce a pattern")
	}

	data, err := os.ReadFile(filepath.Join(out, "a.tif"))
	if err != nil {
		t.Fatal(err)
	}
	img, err := imageutil.Decode(data, "tif")
	if err != nil {
		t.Fatalf("Output is not a readable TIFF: %v", err)
	}
	if img.Width() != 60 || img.Height() != 30 {
		t.Errorf("Expected 60x30 pattern, got %dx%d", img.Width(), img.Height())
	}
}

func TestRunReportsFailures(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "broken.png"), []byte("not a png"))

	code := run([]string{"-input", in, "-loom-width", "60", "-log-level", "error"}, io.Discard)
	if code != 1 {
		t.Errorf("Expected exit code 1 for a failed conversion, got %d", code)
	}
}
