// Package timeline implements the shared playhead state and the
// coordinate system that keeps the ruler, the waveform tracks and the
// media surfaces in temporal agreement. Time is measured in seconds,
// horizontal position in pixels (terminal cells map 1:1 onto pixels
// here), and zoom in pixels per second.
package timeline

// TimeToPixel converts a time in seconds to a pixel offset from the
// start of the timeline at the given zoom.
func TimeToPixel(t, zoom float64) float64 {
	return t * zoom
}

// PixelToTime converts a pixel offset to a time in seconds, clamped to
// [0, duration]. A non-positive zoom yields 0 rather than a division by
// zero; State guards zoom at the set boundary, this is the backstop for
// callers that pass raw values.
func PixelToTime(p, zoom, duration float64) float64 {
	if zoom <= 0 {
		return 0
	}
	return clamp(p/zoom, 0, duration)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
