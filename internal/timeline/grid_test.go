package timeline

import (
	"math"
	"testing"
)

func TestComputeGridDegenerateInputs(t *testing.T) {
	tests := []struct {
		name     string
		zoom     float64
		duration float64
	}{
		{"zero zoom", 0, 120},
		{"negative zoom", -5, 120},
		{"zero duration", 100, 0},
		{"negative duration", 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeGrid(tt.zoom, tt.duration); len(got) != 0 {
				t.Errorf("ComputeGrid(%v, %v) returned %d lines, want none", tt.zoom, tt.duration, len(got))
			}
		})
	}
}

func TestComputeGridMonotonicity(t *testing.T) {
	zooms := []float64{10, 25, 50, 100, 250, 500, 1000, 2000}
	durations := []float64{1, 10, 60, 120, 3600}

	for _, zoom := range zooms {
		for _, duration := range durations {
			lines := ComputeGrid(zoom, duration)
			if len(lines) == 0 {
				t.Fatalf("ComputeGrid(%v, %v) returned no lines", zoom, duration)
			}
			if lines[0].Time != 0 {
				t.Errorf("zoom=%v dur=%v: first line at %v, want 0", zoom, duration, lines[0].Time)
			}
			for i, ln := range lines {
				if ln.Pixel != ln.Time*zoom {
					t.Errorf("zoom=%v dur=%v: line %d pixel=%v, want time*zoom=%v", zoom, duration, i, ln.Pixel, ln.Time*zoom)
				}
				if ln.Time > duration {
					t.Errorf("zoom=%v dur=%v: line %d time %v exceeds duration", zoom, duration, i, ln.Time)
				}
				if i > 0 && ln.Time <= lines[i-1].Time {
					t.Errorf("zoom=%v dur=%v: times not strictly increasing at %d (%v then %v)", zoom, duration, i, lines[i-1].Time, ln.Time)
				}
			}
		}
	}
}

func TestComputeGridMinPixelDistance(t *testing.T) {
	// At very low zoom the table intervals would crowd the ruler; the
	// minor interval must be inflated to keep MinTickPixelDistance.
	for _, zoom := range []float64{1, 2, 5, 10} {
		lines := ComputeGrid(zoom, 3600)
		for i := 1; i < len(lines); i++ {
			gap := lines[i].Pixel - lines[i-1].Pixel
			if gap < MinTickPixelDistance-1e-9 {
				t.Fatalf("zoom=%v: gap %v px between ticks %d and %d, want >= %v", zoom, gap, i-1, i, MinTickPixelDistance)
			}
		}
	}
}

func TestComputeGridMajorSpacing(t *testing.T) {
	// Major ticks must be at least 4 minor intervals apart.
	for _, zoom := range []float64{10, 50, 100, 500, 2000} {
		lines := ComputeGrid(zoom, 600)
		lastMajor := -1
		for i, ln := range lines {
			if !ln.IsMajor {
				continue
			}
			if lastMajor >= 0 && i-lastMajor < 4 {
				t.Errorf("zoom=%v: majors at index %d and %d are only %d minors apart", zoom, lastMajor, i, i-lastMajor)
			}
			lastMajor = i
		}
		if lastMajor < 0 {
			t.Errorf("zoom=%v: no major ticks", zoom)
		}
	}
}

func TestComputeGridMajorAtZero(t *testing.T) {
	lines := ComputeGrid(100, 120)
	if !lines[0].IsMajor {
		t.Error("tick at t=0 should be major")
	}
}

func TestIsMajorTickTolerance(t *testing.T) {
	// Accumulated float error must not demote a major tick.
	major, minor := 0.5, 0.1
	tick := 0.0
	for i := 0; i < 1000; i++ {
		tick += minor
	}
	// tick is "100.0" plus accumulated error; 100 mod 0.5 == 0.
	if !isMajorTick(tick, major, minor) {
		t.Errorf("isMajorTick(%v) = false after accumulation, want true", tick)
	}
	if isMajorTick(0.2, major, minor) {
		t.Error("isMajorTick(0.2, 0.5, 0.1) = true, want false")
	}
}

func TestIntervalsForZoomTable(t *testing.T) {
	tests := []struct {
		zoom      float64
		wantMajor float64
		wantMinor float64
	}{
		{2000, 1, 0.25},
		{500, 1, 0.25},
		{250, 2, 0.5},
		{100, 5, 1},
		{60, 10, 2},
		{20, 30, 5},
		{5, 60, 15},
	}
	for _, tt := range tests {
		major, minor := intervalsForZoom(tt.zoom)
		if major != tt.wantMajor || minor != tt.wantMinor {
			t.Errorf("intervalsForZoom(%v) = (%v, %v), want (%v, %v)", tt.zoom, major, minor, tt.wantMajor, tt.wantMinor)
		}
	}
}

func TestComputeGridEndInclusive(t *testing.T) {
	lines := ComputeGrid(100, 10)
	last := lines[len(lines)-1]
	if math.Abs(last.Time-10) > 1e-9 {
		t.Errorf("last tick at %v, want duration 10 included", last.Time)
	}
}

func TestComputeGridEndInclusiveInexactInterval(t *testing.T) {
	// At zoom 1.2 the 20px minimum inflates the minor interval to
	// 20/1.2, which does not divide 50 exactly in floating point
	// (3 * (20/1.2) lands just above 50). The tick at the end of the
	// timeline must survive that rounding.
	lines := ComputeGrid(1.2, 50)
	if len(lines) == 0 {
		t.Fatal("ComputeGrid(1.2, 50) returned no lines")
	}
	last := lines[len(lines)-1]
	if last.Time != 50 {
		t.Errorf("last tick at %v, want exactly duration 50", last.Time)
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Time <= lines[i-1].Time {
			t.Errorf("times not strictly increasing at %d: %v then %v", i, lines[i-1].Time, lines[i].Time)
		}
	}
}
