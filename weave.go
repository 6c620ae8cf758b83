package loomweave

import (
	"fmt"
	"strings"
)

// RunPolicy selects how the horizontal float limit varies by row.
type RunPolicy int

const (
	// PolicyFlat applies the horizontal limit to every row.
	PolicyFlat RunPolicy = iota
	// PolicyRowParity tightens the limit by one on odd rows, mirroring the
	// half-step offset between odd and even picks.
	PolicyRowParity
)

func (p RunPolicy) String() string {
	switch p {
	case PolicyFlat:
		return "flat"
	case PolicyRowParity:
		return "row-parity"
	}
	return fmt.Sprintf("RunPolicy(%d)", int(p))
}

// ParseRunPolicy parses a policy name. Empty selects PolicyFlat.
func ParseRunPolicy(name string) (RunPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return PolicyFlat, nil
	case "row-parity", "parity":
		return PolicyRowParity, nil
	}
	return 0, fmt.Errorf("unknown run policy %q", name)
}

// RunLimits bounds the float lengths of a pattern. A horizontal run of
// Black pixels (weft floating over warp) must stay shorter than the row's
// horizontal limit; a vertical run of non-black pixels (warp floating over
// weft) must stay shorter than Vertical.
type RunLimits struct {
	Horizontal int
	Vertical   int
	Policy     RunPolicy
	// Passes is how many horizontal+vertical pass pairs run before the
	// anchor repair. Zero goes straight to the repair.
	Passes int
}

// DefaultRunLimits returns the limits used by the makerspace loom.
func DefaultRunLimits() RunLimits {
	return RunLimits{
		Horizontal: DefaultMaxHorizontalRun,
		Vertical:   DefaultMaxVerticalRun,
		Policy:     PolicyFlat,
		Passes:     DefaultPasses,
	}
}

// Validate checks that every limit leaves room for a run of at least one.
func (l RunLimits) Validate() error {
	if l.Vertical < 2 {
		return fmt.Errorf("vertical run limit must be at least 2, got %d", l.Vertical)
	}
	minH := 2
	if l.Policy == PolicyRowParity {
		minH = 3
	}
	if l.Horizontal < minH {
		return fmt.Errorf("horizontal run limit must be at least %d under %s policy, got %d", minH, l.Policy, l.Horizontal)
	}
	if l.Passes < 0 {
		return fmt.Errorf("passes must not be negative, got %d", l.Passes)
	}
	return nil
}

// rowLimit returns the horizontal limit for row y.
func (l RunLimits) rowLimit(y int) int {
	if l.Policy == PolicyRowParity && y%2 == 1 {
		return l.Horizontal - 1
	}
	return l.Horizontal
}

// Violations counts the runs in buf that reach a limit.
func (l RunLimits) Violations(buf *PixelBuffer) int {
	n := 0
	for y := 0; y < buf.Height; y++ {
		limit, run := l.rowLimit(y), 0
		for _, v := range buf.Row(y) {
			if v != Black {
				run = 0
				continue
			}
			run++
			if run == limit {
				n++
			}
		}
	}
	for x := 0; x < buf.Width; x++ {
		run := 0
		for y := 0; y < buf.Height; y++ {
			if buf.Pix[y*buf.Width+x] == Black {
				run = 0
				continue
			}
			run++
			if run == l.Vertical {
				n++
			}
		}
	}
	return n
}

// Enforce edits buf in place until no run reaches a limit and returns the
// number of pixels it changed. A compliant buffer is left untouched.
//
// The horizontal and vertical passes run first, up to Passes times,
// stopping once the buffer is compliant. The two passes can undo each
// other (a solid black image is the classic case), so any violations left
// after them are fixed by reconcile, which always converges.
func (l RunLimits) Enforce(buf *PixelBuffer) int {
	if l.Violations(buf) == 0 {
		return 0
	}
	before := buf.Clone()

	for i := 0; i < l.Passes; i++ {
		l.horizontalPass(buf)
		l.verticalPass(buf)
		if l.Violations(buf) == 0 {
			return buf.Diff(before)
		}
	}

	l.reconcile(buf)
	return buf.Diff(before)
}

// horizontalPass whitens the pixel that completes a black run of the row
// limit and restarts the count.
func (l RunLimits) horizontalPass(buf *PixelBuffer) {
	for y := 0; y < buf.Height; y++ {
		limit, run := l.rowLimit(y), 0
		row := buf.Row(y)
		for x, v := range row {
			if v != Black {
				run = 0
				continue
			}
			run++
			if run >= limit {
				row[x] = White
				run = 0
			}
		}
	}
}

// verticalPass blackens the pixel that completes a non-black run of the
// vertical limit and restarts the count.
func (l RunLimits) verticalPass(buf *PixelBuffer) {
	for x := 0; x < buf.Width; x++ {
		run := 0
		for y := 0; y < buf.Height; y++ {
			i := y*buf.Width + x
			if buf.Pix[i] == Black {
				run = 0
				continue
			}
			run++
			if run >= l.Vertical {
				buf.Pix[i] = Black
				run = 0
			}
		}
	}
}

// reconcile repairs the remaining violations on a fixed diagonal anchor
// lattice. With m the smallest limit in use, pixels where (x+y)%m == 0 are
// white anchors and pixels where (x+y)%m == 1 are black anchors. Every
// window of m or more pixels along a row or column holds one of each, so a
// violating black run can always be broken by whitening its white anchor
// and a violating white run by blackening its black anchor. Anchors only
// ever move to their own color, so no fix is undone and the loop ends.
func (l RunLimits) reconcile(buf *PixelBuffer) {
	m := min(l.Horizontal, l.Vertical)
	if l.Policy == PolicyRowParity {
		m = min(m, l.Horizontal-1)
	}

	for changed := true; changed; {
		changed = false

		for y := 0; y < buf.Height; y++ {
			limit, run := l.rowLimit(y), 0
			row := buf.Row(y)
			for x := range row {
				if row[x] != Black {
					run = 0
					continue
				}
				run++
				if run < limit {
					continue
				}
				ax := anchorIn(x-limit+1, x, y, m, 0)
				row[ax] = White
				run = x - ax
				changed = true
			}
		}

		for x := 0; x < buf.Width; x++ {
			run := 0
			for y := 0; y < buf.Height; y++ {
				i := y*buf.Width + x
				if buf.Pix[i] == Black {
					run = 0
					continue
				}
				run++
				if run < l.Vertical {
					continue
				}
				ay := anchorIn(y-l.Vertical+1, y, x, m, 1)
				buf.Pix[ay*buf.Width+x] = Black
				run = y - ay
				changed = true
			}
		}
	}
}

// anchorIn returns the last position p in [lo, hi] with (p+offset)%m ==
// phase. The window is at least m long, so one always exists.
func anchorIn(lo, hi, offset, m, phase int) int {
	for p := hi; p >= lo; p-- {
		if (p+offset)%m == phase {
			return p
		}
	}
	return lo
}
