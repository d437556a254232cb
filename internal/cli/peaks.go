package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/overdubhq/overdub/internal/waveform"
)

func newPeaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peaks <file.wav>",
		Short: "Extract waveform peaks and print a summary",
		Long: `Decodes a WAV file, extracts per-bucket peak amplitudes at the editor's
waveform resolution, and prints a summary plus a one-line preview sized
to the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: runPeaks,
	}
}

func runPeaks(cmd *cobra.Command, args []string) error {
	peaks, err := waveform.Extract(args[0])
	if err != nil {
		return err
	}

	var max float64
	for _, v := range peaks.Values {
		if v > max {
			max = v
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "duration:     %.3f s\n", peaks.Duration)
	fmt.Fprintf(out, "sample rate:  %d Hz\n", peaks.SampleRate)
	fmt.Fprintf(out, "buckets:      %d (%d per second)\n", len(peaks.Values), waveform.PeaksPerSecond)
	fmt.Fprintf(out, "peak:         %.3f\n", max)

	cols := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		cols = w - 2
	}
	fmt.Fprintln(out, renderPreview(peaks, cols))
	return nil
}

func renderPreview(p *waveform.Peaks, cols int) string {
	ramp := []rune(" ░▒▓█")
	vals := p.Window(0, p.Duration, cols)
	line := make([]rune, len(vals))
	for i, v := range vals {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		line[i] = ramp[int(v*float64(len(ramp)-1))]
	}
	return string(line)
}
