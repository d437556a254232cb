// Package cli wires the overdub commands: the interactive editor plus
// the non-interactive media inspection helpers.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/overdubhq/overdub/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	verbose bool

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "overdub",
	Short: "Terminal dubbing timeline editor",
	Long: `Overdub is a terminal timeline editor for dubbing sessions: it keeps a
video master clock, dub audio tracks, and waveform views locked to one
shared playhead.

Quick Start:
  overdub edit session.yaml      # Open a project in the editor
  overdub probe take01.wav       # Inspect a media file
  overdub peaks take01.wav       # Summarize extracted waveform peaks
  overdub doctor                 # Check ffmpeg tooling availability`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			// Fall back to defaults so doctor can still diagnose the
			// broken file.
			slog.Warn("config load failed, using defaults", "path", path, "error", err)
			cfg = config.Default()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $OVERDUB_CONFIG or ~/.config/overdub/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newEditCmd(),
		newProbeCmd(),
		newPeaksCmd(),
		newDoctorCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
