// Package editor implements the interactive timeline surface: a
// bubbletea model that renders the ruler, waveform tracks, and
// transport line, and translates terminal input into timeline actions.
package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/overdubhq/overdub/internal/mediasync"
	"github.com/overdubhq/overdub/internal/project"
	"github.com/overdubhq/overdub/internal/timeline"
	"github.com/overdubhq/overdub/internal/tui/styles"
	"github.com/overdubhq/overdub/internal/waveform"
)

const (
	// tickInterval paces render refreshes and wheel flushes. The
	// synchronizer's pull loop runs on its own cadence; this tick only
	// keeps the view current.
	tickInterval = 100 * time.Millisecond

	// labelWidth is the track-name gutter on the left, in cells.
	labelWidth = 14

	// wheelScrollStep is how many pixels one wheel notch scrolls.
	wheelScrollStep = 40.0

	// warningTTL is how long a sync warning stays on the status line.
	warningTTL = 5 * time.Second
)

// Track is one renderable timeline row. Peaks may be nil for tracks
// whose waveform has not been extracted (video, missing files).
type Track struct {
	Name  string
	Kind  project.TrackKind
	Peaks *waveform.Peaks
}

type tickMsg time.Time

// WarningMsg carries a synchronizer warning into the update loop.
// The CLI forwards these via Program.Send from the OnWarning callback.
type WarningMsg struct {
	Warning mediasync.Warning
}

// TracksMsg replaces the track list, typically after a project file
// reload.
type TracksMsg []Track

// Model is the editor's bubbletea model.
type Model struct {
	state    *timeline.State
	ctrl     *timeline.Controller
	follower *timeline.Follower

	theme  styles.Theme
	keys   keyMap
	tracks []Track

	width  int
	height int

	snap  timeline.Snapshot
	wheel *wheelCoalescer

	warning   string
	warningAt time.Time

	quitting bool
}

// New builds an editor model over an already-wired timeline.
func New(state *timeline.State, ctrl *timeline.Controller, follower *timeline.Follower, theme styles.Theme, tracks []Track) Model {
	return Model{
		state:    state,
		ctrl:     ctrl,
		follower: follower,
		theme:    theme,
		keys:     defaultKeyMap(),
		tracks:   tracks,
		snap:     state.Snapshot(),
		wheel:    &wheelCoalescer{},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if delta := m.wheel.Flush(); delta != 0 {
			m.ctrl.ScrollBy(delta)
		}
		m.snap = m.state.Snapshot()
		if m.warning != "" && time.Since(m.warningAt) > warningTTL {
			m.warning = ""
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.follower != nil {
			m.follower.SetViewportWidth(float64(m.viewportCols()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case WarningMsg:
		m.warning = msg.Warning.Message
		if msg.Warning.HandleID != "" {
			m.warning = msg.Warning.HandleID + ": " + m.warning
		}
		m.warningAt = time.Now()
		return m, nil

	case TracksMsg:
		m.tracks = []Track(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case keyMatches(msg, m.keys.PlayPause):
		if m.snap.IsPlaying {
			m.state.Pause()
		} else {
			m.state.Play()
		}
	case keyMatches(msg, m.keys.Stop):
		m.state.Stop()
	case keyMatches(msg, m.keys.SeekBack):
		m.state.SeekTo(m.snap.CurrentTime - 1)
	case keyMatches(msg, m.keys.SeekForward):
		m.state.SeekTo(m.snap.CurrentTime + 1)
	case keyMatches(msg, m.keys.Home):
		m.state.SeekTo(0)
	case keyMatches(msg, m.keys.End):
		m.state.SeekTo(m.snap.Duration)
	case keyMatches(msg, m.keys.ZoomIn):
		m.ctrl.ZoomIn(m.playheadAnchor())
	case keyMatches(msg, m.keys.ZoomOut):
		m.ctrl.ZoomOut(m.playheadAnchor())
	}
	m.snap = m.state.Snapshot()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := float64(msg.X - labelWidth)
	inViewport := msg.X >= labelWidth && x < float64(m.viewportCols())

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !inViewport {
			return m, nil
		}
		if msg.Alt {
			m.ctrl.ZoomIn(x)
		} else {
			m.wheel.Add(-wheelScrollStep)
		}
	case tea.MouseButtonWheelDown:
		if !inViewport {
			return m, nil
		}
		if msg.Alt {
			m.ctrl.ZoomOut(x)
		} else {
			m.wheel.Add(wheelScrollStep)
		}
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			if !inViewport {
				return m, nil
			}
			if msg.Y < rulerRows {
				m.ctrl.ClickRuler(x)
			} else if msg.Y < rulerRows+len(m.tracks) {
				m.ctrl.StartDrag(x)
			}
		case tea.MouseActionMotion:
			if m.ctrl.Dragging() {
				m.ctrl.Drag(x)
			}
		case tea.MouseActionRelease:
			m.ctrl.EndDrag()
		}
	case tea.MouseButtonNone:
		// Motion with no button held arrives this way in cell-motion
		// mode; only drags care about it.
		if msg.Action == tea.MouseActionMotion && m.ctrl.Dragging() {
			m.ctrl.Drag(x)
		}
	}
	m.snap = m.state.Snapshot()
	return m, nil
}

// playheadAnchor is the viewport x of the playhead, clamped on screen,
// used as the zoom anchor for keyboard zooming.
func (m Model) playheadAnchor() float64 {
	px := timeline.TimeToPixel(m.snap.CurrentTime, m.snap.Zoom) - m.snap.ScrollOffset
	if px < 0 {
		px = 0
	}
	if max := float64(m.viewportCols()); px > max && max > 0 {
		px = max
	}
	return px
}

func (m Model) viewportCols() int {
	cols := m.width - labelWidth
	if cols < 0 {
		cols = 0
	}
	return cols
}
