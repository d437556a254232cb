package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/overdubhq/overdub/internal/project"
	"github.com/overdubhq/overdub/internal/timeline"
)

// rulerRows is the height of the time ruler: one row of labels, one of
// tick marks. Mouse hit-testing for ruler clicks uses the same value.
const rulerRows = 2

// waveRamp maps normalized peak amplitude to a block character.
var waveRamp = []rune(" ░▒▓█")

const (
	tickMinor  = '·'
	tickMajor  = '|'
	playheadCh = '│'
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	cols := m.viewportCols()
	if cols <= 0 || m.width <= 0 {
		return "resizing..."
	}

	grid := timeline.ComputeGrid(m.snap.Zoom, m.snap.Duration)
	playheadCol := int(timeline.TimeToPixel(m.snap.CurrentTime, m.snap.Zoom) - m.snap.ScrollOffset)

	var b strings.Builder
	b.WriteString(m.renderLabels(grid, cols))
	b.WriteByte('\n')
	b.WriteString(m.renderTicks(grid, cols, playheadCol))
	b.WriteByte('\n')
	for _, t := range m.tracks {
		b.WriteString(m.renderTrack(t, cols, playheadCol))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderTransport())
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderLabels draws mm:ss labels at major grid lines, skipping any
// label that would overlap the previous one.
func (m Model) renderLabels(grid []timeline.GridLine, cols int) string {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	nextFree := 0
	for _, g := range grid {
		if !g.IsMajor {
			continue
		}
		col := int(g.Pixel - m.snap.ScrollOffset)
		if col < nextFree || col >= cols {
			continue
		}
		label := formatTime(g.Time)
		w := runewidth.StringWidth(label)
		if col+w > cols {
			continue
		}
		copy(row[col:], []rune(label))
		nextFree = col + w + 1
	}
	return strings.Repeat(" ", labelWidth) + m.theme.RulerLabel.Render(string(row))
}

func (m Model) renderTicks(grid []timeline.GridLine, cols, playheadCol int) string {
	row := make([]rune, cols)
	major := make([]bool, cols)
	for i := range row {
		row[i] = ' '
	}
	for _, g := range grid {
		col := int(g.Pixel - m.snap.ScrollOffset)
		if col < 0 || col >= cols {
			continue
		}
		if g.IsMajor {
			row[col] = tickMajor
			major[col] = true
		} else if row[col] == ' ' {
			row[col] = tickMinor
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for i, r := range row {
		switch {
		case i == playheadCol:
			b.WriteString(m.theme.Playhead.Render(string(playheadCh)))
		case major[i]:
			b.WriteString(m.theme.RulerMajor.Render(string(r)))
		default:
			b.WriteString(m.theme.RulerMinor.Render(string(r)))
		}
	}
	return b.String()
}

func (m Model) renderTrack(t Track, cols, playheadCol int) string {
	name := runewidth.Truncate(t.Name, labelWidth-1, "…")
	gutter := m.theme.TrackName.Render(runewidth.FillRight(name, labelWidth))

	startTime := timeline.PixelToTime(m.snap.ScrollOffset, m.snap.Zoom, m.snap.Duration)
	endTime := timeline.PixelToTime(m.snap.ScrollOffset+float64(cols), m.snap.Zoom, m.snap.Duration)

	var vals []float64
	if t.Peaks != nil {
		vals = t.Peaks.Window(startTime, endTime, cols)
	}

	var b strings.Builder
	b.WriteString(gutter)
	for i := 0; i < cols; i++ {
		if i == playheadCol {
			b.WriteString(m.theme.Playhead.Render(string(playheadCh)))
			continue
		}
		if vals == nil {
			if t.Kind == project.TrackVideo {
				b.WriteString(m.theme.WaveMuted.Render("▪"))
			} else {
				b.WriteString(m.theme.WaveMuted.Render("·"))
			}
			continue
		}
		b.WriteString(m.theme.Waveform.Render(string(rampChar(vals[i]))))
	}
	return b.String()
}

func rampChar(v float64) rune {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	idx := int(v * float64(len(waveRamp)-1))
	return waveRamp[idx]
}

func (m Model) renderTransport() string {
	marker := "⏸"
	if m.snap.IsPlaying {
		marker = "▶"
	}
	line := fmt.Sprintf(" %s %s / %s   zoom %.0f px/s   scroll %.0f px",
		marker,
		formatTimeFrac(m.snap.CurrentTime),
		formatTimeFrac(m.snap.Duration),
		m.snap.Zoom,
		m.snap.ScrollOffset,
	)
	line = truncate.StringWithTail(line, uint(m.width), "…")
	return m.theme.Transport.Width(m.width).Render(line)
}

func (m Model) renderStatus() string {
	if m.warning != "" {
		return m.theme.StatusWarn.Render(truncate.StringWithTail(" ⚠ "+m.warning, uint(m.width), "…"))
	}
	hint := " space play · ←/→ seek · +/- zoom · alt+wheel zoom at cursor · q quit"
	return m.theme.StatusInfo.Render(truncate.StringWithTail(hint, uint(m.width), "…"))
}

func formatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	s := int(sec + 0.5)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func formatTimeFrac(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	whole := int(sec)
	tenths := int((sec - float64(whole)) * 10)
	return fmt.Sprintf("%d:%02d.%d", whole/60, whole%60, tenths)
}
