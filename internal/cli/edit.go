package cli

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/overdubhq/overdub/internal/media"
	"github.com/overdubhq/overdub/internal/mediasync"
	"github.com/overdubhq/overdub/internal/project"
	"github.com/overdubhq/overdub/internal/timeline"
	"github.com/overdubhq/overdub/internal/tui/editor"
	"github.com/overdubhq/overdub/internal/tui/styles"
	"github.com/overdubhq/overdub/internal/waveform"
)

var (
	editNoAudio bool
	editTheme   string
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <project.yaml>",
		Short: "Open a dubbing project in the timeline editor",
		Long: `Opens the interactive timeline editor for a project file. The video
track (or a wall clock when the project has none) masters playback;
audio tracks follow it through ffplay. The project file is watched for
changes and track rows refresh on save.`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
	cmd.Flags().BoolVar(&editNoAudio, "no-audio", false, "do not spawn audio playback processes")
	cmd.Flags().StringVar(&editTheme, "theme", "", "color theme: dark, light, auto (overrides config)")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("edit requires an interactive terminal")
	}

	proj, err := project.Load(args[0])
	if err != nil {
		return err
	}

	state := timeline.NewState(&timeline.StateConfig{
		ZoomMin:     cfg.Timeline.ZoomMin,
		ZoomMax:     cfg.Timeline.ZoomMax,
		InitialZoom: cfg.Timeline.DefaultZoom,
	})
	ctrl := timeline.NewController(state, &timeline.ControllerConfig{
		ZoomSteps:      cfg.Timeline.ZoomSteps,
		ScrollCooldown: cfg.Scroll.Cooldown(),
	})
	follower := timeline.NewFollower(state, ctrl, float64(cfg.Scroll.EdgeMargin))

	syncer := mediasync.New(state, &mediasync.Config{
		DriftThreshold:  cfg.Sync.DriftThreshold(),
		PollInterval:    cfg.Sync.PollInterval(),
		MaxPushFailures: cfg.Sync.MaxPushFailures,
	})
	defer syncer.Close()

	cache := waveform.NewCache()
	session := newSession(state, syncer, cache, editNoAudio)
	defer session.close()
	session.register(proj)

	themeName := cfg.Theme
	if editTheme != "" {
		themeName = editTheme
	}
	model := editor.New(state, ctrl, follower, styles.ForName(themeName), session.trackViews(proj))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	syncer.OnWarning(func(w mediasync.Warning) {
		p.Send(editor.WarningMsg{Warning: w})
	})

	watcher, err := project.WatchFile(args[0],
		func(np *project.Project) {
			// Reloads refresh the render surface only; media handles
			// keep their registration until the session ends.
			p.Send(editor.TracksMsg(session.trackViews(np)))
		},
		func(werr error) {
			p.Send(editor.WarningMsg{Warning: mediasync.Warning{
				HandleID: "project",
				Message:  werr.Error(),
				Err:      werr,
			}})
		},
	)
	if err != nil {
		return fmt.Errorf("watching project file: %w", err)
	}
	defer watcher.Close()

	_, err = p.Run()
	return err
}

// session owns the media handles and waveform cache for one editor run.
type session struct {
	state   *timeline.State
	syncer  *mediasync.Synchronizer
	cache   *waveform.Cache
	noAudio bool
	players []*media.Player
}

func newSession(state *timeline.State, syncer *mediasync.Synchronizer, cache *waveform.Cache, noAudio bool) *session {
	return &session{state: state, syncer: syncer, cache: cache, noAudio: noAudio}
}

// register creates and registers a media handle for every playable
// track. Probe failures degrade to a zero-duration handle rather than
// aborting the session.
func (s *session) register(proj *project.Project) {
	for _, t := range proj.Tracks {
		switch t.Kind {
		case project.TrackVideo:
			dur := probeOrWarn(t.Path)
			s.syncer.Register(t.ID, media.NewClock(media.KindVideo, dur))
		case project.TrackAudio:
			dur := probeOrWarn(t.Path)
			if s.noAudio || !media.HavePlayer() {
				s.syncer.Register(t.ID, media.NewClock(media.KindAudio, dur))
				continue
			}
			pl := media.NewPlayer(t.Path, dur)
			s.players = append(s.players, pl)
			s.syncer.Register(t.ID, pl)
		case project.TrackWaveform:
			if peaks, err := s.cache.Load(t.Path); err == nil {
				s.state.ExtendDuration(peaks.Duration)
			}
		}
	}
	if s.syncer.Master() == "" {
		// No video track: a wall clock masters playback so the
		// timeline still advances.
		s.syncer.Register("clock", media.NewClock(media.KindVideo, s.state.Snapshot().Duration))
	}
}

// trackViews builds the editor's render rows, loading peak data for
// audio and waveform tracks where extraction succeeds.
func (s *session) trackViews(proj *project.Project) []editor.Track {
	views := make([]editor.Track, 0, len(proj.Tracks))
	for _, t := range proj.Tracks {
		view := editor.Track{Name: t.Name, Kind: t.Kind}
		if t.Kind == project.TrackAudio || t.Kind == project.TrackWaveform {
			peaks, err := s.cache.Load(t.Path)
			if err != nil {
				slog.Debug("peaks unavailable", "track", t.ID, "path", t.Path, "error", err)
			} else {
				view.Peaks = peaks
			}
		}
		views = append(views, view)
	}
	return views
}

func (s *session) close() {
	for _, pl := range s.players {
		_ = pl.Close()
	}
}

func probeOrWarn(path string) float64 {
	dur, err := media.ProbeDuration(path)
	if err != nil {
		slog.Warn("duration probe failed", "path", path, "error", err)
		return 0
	}
	return dur
}
