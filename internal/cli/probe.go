package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/overdubhq/overdub/internal/media"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Print media file duration and playback capabilities",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbe,
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if !media.HaveProbe() {
		return fmt.Errorf("ffprobe not found in PATH; install ffmpeg")
	}

	dur, err := media.ProbeDuration(path)
	if err != nil {
		return fmt.Errorf("probing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:      %s\n", filepath.Base(path))
	fmt.Fprintf(out, "duration:  %.3f s\n", dur)
	fmt.Fprintf(out, "playable:  %v (ffplay)\n", media.HavePlayer())
	return nil
}
