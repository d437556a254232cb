package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/overdubhq/overdub/internal/config"
	"github.com/overdubhq/overdub/internal/media"
)

var (
	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render("✓")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("✗")
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tooling and configuration health",
		Long: `Checks that the external tools overdub relies on are installed and
that the configuration file loads cleanly:

  - ffprobe (media duration probing)
  - ffplay  (audio playback)
  - config file at the resolved path

Playback degrades to silent clocks without ffplay; probing has no
fallback.`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failures := 0

	check := func(name string, ok bool, detail string) {
		mark := okMark
		if !ok {
			mark = failMark
			failures++
		}
		fmt.Fprintf(out, "  %s %-10s %s\n", mark, name, detail)
	}

	fmt.Fprintln(out, "tools:")
	check("ffprobe", media.HaveProbe(), "duration probing")
	check("ffplay", media.HavePlayer(), "audio playback")

	fmt.Fprintln(out, "config:")
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := config.Load(path); err != nil {
		check("load", false, fmt.Sprintf("%s: %v", path, err))
	} else {
		check("load", true, path)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(out, "all checks passed")
	return nil
}
