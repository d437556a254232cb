package cli

import (
	"strings"
	"testing"

	"github.com/overdubhq/overdub/internal/waveform"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"edit":   false,
		"probe":  false,
		"peaks":  false,
		"doctor": false,
	}
	for _, c := range rootCmd.Commands() {
		name := strings.Fields(c.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRenderPreview(t *testing.T) {
	p := &waveform.Peaks{
		Values:     []float64{0, 0, 0, 0, 1, 1, 1, 1},
		SampleRate: 8000,
		Duration:   8.0 / float64(waveform.PeaksPerSecond),
	}
	got := renderPreview(p, 4)
	if len([]rune(got)) != 4 {
		t.Fatalf("preview width = %d, want 4", len([]rune(got)))
	}
	runes := []rune(got)
	if runes[0] != ' ' {
		t.Errorf("silent region rendered %q, want space", runes[0])
	}
	if runes[3] != '█' {
		t.Errorf("loud region rendered %q, want full block", runes[3])
	}
}

func TestRenderPreviewClampsValues(t *testing.T) {
	p := &waveform.Peaks{
		Values:     []float64{2.5},
		SampleRate: 8000,
		Duration:   1.0 / float64(waveform.PeaksPerSecond),
	}
	got := []rune(renderPreview(p, 1))
	if got[0] != '█' {
		t.Errorf("over-range value rendered %q, want full block", got[0])
	}
}
