package timeline

import "testing"

func TestTimeToPixel(t *testing.T) {
	tests := []struct {
		time float64
		zoom float64
		want float64
	}{
		{0, 100, 0},
		{2, 100, 200},
		{50, 100, 5000},
		{1.5, 50, 75},
	}
	for _, tt := range tests {
		if got := TimeToPixel(tt.time, tt.zoom); got != tt.want {
			t.Errorf("TimeToPixel(%v, %v) = %v, want %v", tt.time, tt.zoom, got, tt.want)
		}
	}
}

func TestPixelToTime(t *testing.T) {
	tests := []struct {
		name     string
		pixel    float64
		zoom     float64
		duration float64
		want     float64
	}{
		{"origin", 0, 100, 120, 0},
		{"mid", 200, 100, 120, 2},
		{"clamped high", 1e6, 100, 120, 120},
		{"clamped low", -50, 100, 120, 0},
		{"zero zoom guard", 500, 0, 120, 0},
		{"negative zoom guard", 500, -10, 120, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelToTime(tt.pixel, tt.zoom, tt.duration); got != tt.want {
				t.Errorf("PixelToTime(%v, %v, %v) = %v, want %v", tt.pixel, tt.zoom, tt.duration, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// pixelToTime(timeToPixel(t)) is the identity for in-range times.
	for _, tm := range []float64{0, 0.25, 1, 33.3, 119.99} {
		px := TimeToPixel(tm, 250)
		if got := PixelToTime(px, 250, 120); got != tm {
			t.Errorf("round trip of %v through zoom 250 gave %v", tm, got)
		}
	}
}
