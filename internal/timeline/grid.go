package timeline

import "math"

// GridLine is a single tick mark on the time ruler. Pixel is always
// Time * zoom for the zoom the grid was computed at. Major lines are
// the coarse, labeled ticks; everything else is a minor tick.
type GridLine struct {
	Time    float64
	Pixel   float64
	IsMajor bool
}

// MinTickPixelDistance is the minimum horizontal distance between
// adjacent minor ticks. When the interval table would place ticks
// closer than this, the minor interval is inflated to keep the ruler
// readable.
const MinTickPixelDistance = 20.0

// gridInterval maps a zoom threshold to a (major, minor) interval pair
// in seconds. Entries are ordered from highest zoom to lowest; the
// first entry whose MinZoom is satisfied wins.
type gridInterval struct {
	MinZoom float64
	Major   float64
	Minor   float64
}

// The canonical interval table. The source material carried several
// inconsistent variants of this table across duplicated ruler
// components; this is the single table used everywhere.
var gridIntervals = []gridInterval{
	{MinZoom: 500, Major: 1, Minor: 0.25},
	{MinZoom: 200, Major: 2, Minor: 0.5},
	{MinZoom: 100, Major: 5, Minor: 1},
	{MinZoom: 50, Major: 10, Minor: 2},
	{MinZoom: 20, Major: 30, Minor: 5},
	{MinZoom: 0, Major: 60, Minor: 15},
}

// ComputeGrid returns the tick marks for a ruler spanning [0, duration]
// at the given zoom. The result is deterministic and cheap enough to
// recompute on every zoom or duration change.
//
// Degenerate inputs (zoom <= 0 or duration <= 0) return an empty slice;
// without that guard a zero minor interval would loop forever.
func ComputeGrid(zoom, duration float64) []GridLine {
	if zoom <= 0 || duration <= 0 {
		return nil
	}

	major, minor := intervalsForZoom(zoom)

	// Keep minor ticks at least MinTickPixelDistance apart, and keep
	// the major interval a multiple of the (possibly inflated) minor.
	if min := MinTickPixelDistance / zoom; minor < min {
		minor = min
	}
	if major < 4*minor {
		major = 4 * minor
	}

	// Division and step multiplication both carry float error, and an
	// inflated minor rarely divides duration exactly. Tolerate a tiny
	// overshoot so the tick at duration itself is never dropped, but
	// clamp it back so no tick reports a time past the end.
	tol := minor * 1e-6
	n := int((duration+tol)/minor) + 1
	lines := make([]GridLine, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * minor
		if t > duration {
			if t > duration+tol {
				break
			}
			t = duration
		}
		lines = append(lines, GridLine{
			Time:    t,
			Pixel:   TimeToPixel(t, zoom),
			IsMajor: isMajorTick(t, major, minor),
		})
	}
	return lines
}

func intervalsForZoom(zoom float64) (major, minor float64) {
	for _, iv := range gridIntervals {
		if zoom >= iv.MinZoom {
			return iv.Major, iv.Minor
		}
	}
	last := gridIntervals[len(gridIntervals)-1]
	return last.Major, last.Minor
}

// isMajorTick reports whether t lands on a major interval boundary.
// The modulo test is tolerant (within half a minor interval) so that
// accumulated floating point error in the step loop cannot demote a
// major tick.
func isMajorTick(t, major, minor float64) bool {
	m := math.Mod(t, major)
	return m < minor/2 || major-m < minor/2
}
