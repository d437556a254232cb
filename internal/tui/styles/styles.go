// Package styles holds the lipgloss styles shared by the editor
// surfaces, resolved once per session from the configured theme.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the resolved style set for one editor session.
type Theme struct {
	RulerMinor lipgloss.Style
	RulerMajor lipgloss.Style
	RulerLabel lipgloss.Style
	Playhead   lipgloss.Style
	TrackName  lipgloss.Style
	Waveform   lipgloss.Style
	WaveMuted  lipgloss.Style
	Transport  lipgloss.Style
	StatusWarn lipgloss.Style
	StatusInfo lipgloss.Style
}

// ForName resolves a theme by config name. "auto" picks dark or light
// from the terminal background.
func ForName(name string) Theme {
	switch name {
	case "light":
		return lightTheme()
	case "dark":
		return darkTheme()
	default:
		if termenv.HasDarkBackground() {
			return darkTheme()
		}
		return lightTheme()
	}
}

func darkTheme() Theme {
	return Theme{
		RulerMinor: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		RulerMajor: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		RulerLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Playhead:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		TrackName:  lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		Waveform:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		WaveMuted:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Transport:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		StatusWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func lightTheme() Theme {
	return Theme{
		RulerMinor: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		RulerMajor: lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Bold(true),
		RulerLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Playhead:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		TrackName:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Waveform:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		WaveMuted:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Transport:  lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("253")),
		StatusWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		StatusInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
