// Command loomweave converts images into weavable loom patterns.
//
// Usage:
//
//	loomweave -input photo.jpg -output photo.tif -format tiff -tabby 5
//	loomweave -input photos/ -output patterns/ -workers 4 -preview -pdf
//
// Settings come from built-in defaults, then the JSON loom profile
// (-config, or loom.json in the working directory), then flags given on
// the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/HMC-Makerspace/loomweave"
	"github.com/HMC-Makerspace/loomweave/imageutil"
	"github.com/HMC-Makerspace/loomweave/internal/config"
	"github.com/HMC-Makerspace/loomweave/internal/logging"
	"golang.org/x/image/tiff"
)

// settings is the merged configuration for one run.
type settings struct {
	loomWidth     int
	contentWidth  int
	contentHeight int
	innerTabby    int
	outerTabby    int
	fillMargin    bool
	format        string
	filter        string
	dither        string
	policy        string
	maxH          int
	maxV          int
	passes        int
	center        bool
	invert        bool
	sharpen       bool
	deflate       bool
	maxPixels     int
	workers       int
	logLevel      string
}

func defaultSettings() settings {
	return settings{
		loomWidth: loomweave.DefaultLoomWidth,
		format:    string(loomweave.DefaultOutputFormat),
		filter:    imageutil.DefaultFilter.String(),
		dither:    string(loomweave.DefaultDitherMethod),
		policy:    loomweave.PolicyFlat.String(),
		maxH:      loomweave.DefaultMaxHorizontalRun,
		maxV:      loomweave.DefaultMaxVerticalRun,
		passes:    loomweave.DefaultPasses,
		workers:   runtime.NumCPU(),
		logLevel:  logging.LevelInfo,
	}
}

// applyConfig copies every field the profile sets over s.
func (s *settings) applyConfig(cfg *config.Config) {
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt(&s.loomWidth, cfg.LoomWidth)
	setInt(&s.contentWidth, cfg.ContentWidth)
	setInt(&s.contentHeight, cfg.ContentHeight)
	setInt(&s.innerTabby, cfg.InnerTabby)
	setInt(&s.outerTabby, cfg.OuterTabby)
	setBool(&s.fillMargin, cfg.FillMargin)
	setStr(&s.format, cfg.OutputFormat)
	setStr(&s.filter, cfg.Filter)
	setStr(&s.dither, cfg.Dither)
	setStr(&s.policy, cfg.RunPolicy)
	setInt(&s.maxH, cfg.MaxHorizontal)
	setInt(&s.maxV, cfg.MaxVertical)
	setInt(&s.passes, cfg.Passes)
	setInt(&s.maxPixels, cfg.MaxPixels)
	setInt(&s.workers, cfg.Workers)
	setStr(&s.logLevel, cfg.LogLevel)
	setBool(&s.center, cfg.Center)
	setBool(&s.invert, cfg.Invert)
	setBool(&s.sharpen, cfg.Sharpen)
	setBool(&s.deflate, cfg.Deflate)
}

// override copies the flag called name from src.
func (s *settings) override(name string, src settings) {
	switch name {
	case "loom-width":
		s.loomWidth = src.loomWidth
	case "width":
		s.contentWidth = src.contentWidth
	case "height":
		s.contentHeight = src.contentHeight
	case "tabby":
		s.innerTabby = src.innerTabby
	case "outer-tabby":
		s.outerTabby = src.outerTabby
	case "fill-margin":
		s.fillMargin = src.fillMargin
	case "format":
		s.format = src.format
	case "filter":
		s.filter = src.filter
	case "dither":
		s.dither = src.dither
	case "policy":
		s.policy = src.policy
	case "max-horizontal":
		s.maxH = src.maxH
	case "max-vertical":
		s.maxV = src.maxV
	case "passes":
		s.passes = src.passes
	case "center":
		s.center = src.center
	case "invert":
		s.invert = src.invert
	case "sharpen":
		s.sharpen = src.sharpen
	case "deflate":
		s.deflate = src.deflate
	case "max-pixels":
		s.maxPixels = src.maxPixels
	case "workers":
		s.workers = src.workers
	case "log-level":
		s.logLevel = src.logLevel
	}
}

// converter builds the Converter described by s.
func (s settings) converter() (*loomweave.Converter, error) {
	filter, err := imageutil.ParseFilter(s.filter)
	if err != nil {
		return nil, err
	}
	method, err := loomweave.ParseDitherMethod(s.dither)
	if err != nil {
		return nil, err
	}
	policy, err := loomweave.ParseRunPolicy(s.policy)
	if err != nil {
		return nil, err
	}

	placement := imageutil.PlaceOrigin
	if s.center {
		placement = imageutil.PlaceCenter
	}
	compression := tiff.Uncompressed
	if s.deflate {
		compression = tiff.Deflate
	}

	return loomweave.NewConverter(
		loomweave.WithFilter(filter),
		loomweave.WithPlacement(placement),
		loomweave.WithSharpen(s.sharpen),
		loomweave.WithDitherMethod(method),
		loomweave.WithRunLimits(loomweave.RunLimits{
			Horizontal: s.maxH,
			Vertical:   s.maxV,
			Policy:     policy,
			Passes:     s.passes,
		}),
		loomweave.WithMaxSourcePixels(s.maxPixels),
		loomweave.WithTIFFCompression(compression),
	)
}

// request builds the request for one source file.
func (s settings) request(data []byte, ext string) loomweave.ConversionRequest {
	content := s.contentWidth
	if content == 0 {
		content = s.loomWidth
	}
	return loomweave.ConversionRequest{
		Source:        data,
		Format:        ext,
		LoomWidth:     s.loomWidth,
		ContentWidth:  content,
		ContentHeight: s.contentHeight,
		InnerTabby:    s.innerTabby,
		OuterTabby:    s.outerTabby,
		FillMargin:    s.fillMargin,
		Output:        loomweave.ParseOutputFormat(s.format),
		Invert:        s.invert,
	}
}

// cliOptions is everything parsed from the command line.
type cliOptions struct {
	input   string
	output  string
	preview bool
	pdf     bool
	settings
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("loomweave", flag.ContinueOnError)
	fs.SetOutput(stderr)

	flags := defaultSettings()
	input := fs.String("input", "",
		"Path to an input image or a directory of images (required)")
	output := fs.String("output", "",
		"Output file or directory (default: next to the input)")
	configPath := fs.String("config", "",
		"Path to a JSON loom profile (default: loom.json if present)")
	preview := fs.Bool("preview", false,
		"Also write an enlarged PNG proof with a caption")
	pdf := fs.Bool("pdf", false,
		"Also write a PDF sheet of all patterns")

	fs.IntVar(&flags.loomWidth, "loom-width", flags.loomWidth,
		"Loom width in warp threads")
	fs.IntVar(&flags.contentWidth, "width", flags.contentWidth,
		"Width of the image on the loom (default: loom width)")
	fs.IntVar(&flags.contentHeight, "height", flags.contentHeight,
		"Height of the image in picks; overrides -width (0 = size by width)")
	fs.IntVar(&flags.innerTabby, "tabby", flags.innerTabby,
		"Width of the tabby band around the content")
	fs.IntVar(&flags.outerTabby, "outer-tabby", flags.outerTabby,
		"Width of the selvedge tabby at the canvas edges")
	fs.BoolVar(&flags.fillMargin, "fill-margin", flags.fillMargin,
		"Widen the selvedge tabby to fill the blank space beside the image")
	fs.StringVar(&flags.format, "format", flags.format,
		"Output container: tiff or png")
	fs.StringVar(&flags.filter, "filter", flags.filter,
		"Resampling filter: lanczos, catmull-rom, bilinear, nearest"+
			" (opencv-area, opencv-lanczos with -tags gocv)")
	fs.StringVar(&flags.dither, "dither", flags.dither,
		"Dither method: atkinson, floyd-steinberg, ordered4x4")
	fs.StringVar(&flags.policy, "policy", flags.policy,
		"Horizontal float policy: flat or row-parity")
	fs.IntVar(&flags.maxH, "max-horizontal", flags.maxH,
		"Shortest horizontal black float that is broken up")
	fs.IntVar(&flags.maxV, "max-vertical", flags.maxV,
		"Shortest vertical white float that is broken up")
	fs.IntVar(&flags.passes, "passes", flags.passes,
		"Horizontal+vertical pass pairs before the anchor repair")
	fs.BoolVar(&flags.center, "center", flags.center,
		"Center the image on the loom instead of aligning it left")
	fs.BoolVar(&flags.invert, "invert", flags.invert,
		"Swap black and white after dithering")
	fs.BoolVar(&flags.sharpen, "sharpen", flags.sharpen,
		"Sharpen the image after resampling")
	fs.BoolVar(&flags.deflate, "deflate", flags.deflate,
		"Deflate-compress TIFF output")
	fs.IntVar(&flags.maxPixels, "max-pixels", flags.maxPixels,
		"Reject sources larger than this many pixels (0 = no limit)")
	fs.IntVar(&flags.workers, "workers", flags.workers,
		"Number of images converted in parallel")
	fs.StringVar(&flags.logLevel, "log-level", flags.logLevel,
		"Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *input == "" {
		fs.Usage()
		return nil, errors.New("please provide the image using the -input flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	opts := &cliOptions{
		input:    *input,
		output:   *output,
		preview:  *preview,
		pdf:      *pdf,
		settings: defaultSettings(),
	}
	opts.applyConfig(cfg)
	fs.Visit(func(f *flag.Flag) {
		opts.override(f.Name, flags)
	})
	opts.workers = max(opts.workers, 1)
	return opts, nil
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if !logging.SetLevel(opts.logLevel) {
		logging.Warn("unknown log level %q, keeping %s", opts.logLevel, logging.Level())
	}

	c, err := opts.converter()
	if err != nil {
		logging.Error("invalid settings: %v", err)
		return 2
	}

	jobs, err := discoverJobs(opts.input, opts.output, loomweave.ParseOutputFormat(opts.format))
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	summary := runBatch(c, opts, jobs)
	logging.Info("converted %d, no contrast %d, failed %d", summary.converted, summary.noContrast, summary.failed)
	if summary.failed > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
