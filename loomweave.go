// Package loomweave turns photographs into black and white patterns that a
// digital Jacquard loom can weave.
//
// A conversion runs a fixed pipeline: decode, resample onto the loom canvas,
// reduce to luma, stretch the tonal range, locate the content columns,
// dither to two levels, break up float runs the loom cannot bind, stamp the
// tabby edge binding and encode the result as a grayscale TIFF or PNG.
// Every stage is exported on its own; Converter composes them.
package loomweave

// Defaults for a conversion. The loom width matches the warp count of the
// makerspace's TC2 loom.
const (
	DefaultLoomWidth        = 1320
	DefaultContentThreshold = 10
	DefaultMaxHorizontalRun = 5
	DefaultMaxVerticalRun   = 5
	DefaultPasses           = 3
)

// Pixel values of a dithered pattern. Black lifts no warp thread.
const (
	Black uint8 = 0
	White uint8 = 255
)
