// Package project describes a dubbing project on disk: the source
// video and the audio tracks laid out on the shared timeline.
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrackKind distinguishes how a track participates in the session.
type TrackKind string

const (
	// TrackVideo is the source video; its clock masters playback.
	TrackVideo TrackKind = "video"
	// TrackAudio is a playable dub or reference audio track.
	TrackAudio TrackKind = "audio"
	// TrackWaveform is a render-only track (e.g. extracted reference
	// peaks with no playable media behind them).
	TrackWaveform TrackKind = "waveform"
)

// Track is one row on the timeline.
type Track struct {
	ID   string    `yaml:"id"`
	Name string    `yaml:"name"`
	Path string    `yaml:"path"`
	Kind TrackKind `yaml:"kind"`
	Gain float64   `yaml:"gain,omitempty"`
}

// Project is the on-disk session description.
type Project struct {
	Name   string  `yaml:"name"`
	Tracks []Track `yaml:"tracks"`
}

// Load reads and validates a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	return &p, nil
}

// Save writes the project back to path.
func (p *Project) Save(path string) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("project: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}

// Validate checks track ids are present and unique and kinds are
// known. At most one video track is allowed; it masters the clock.
func (p *Project) Validate() error {
	seen := make(map[string]bool, len(p.Tracks))
	videos := 0
	for i, tr := range p.Tracks {
		if tr.ID == "" {
			return fmt.Errorf("track %d has no id", i)
		}
		if seen[tr.ID] {
			return fmt.Errorf("duplicate track id %q", tr.ID)
		}
		seen[tr.ID] = true
		if tr.Path == "" {
			return fmt.Errorf("track %q has no path", tr.ID)
		}
		switch tr.Kind {
		case TrackVideo:
			videos++
		case TrackAudio, TrackWaveform:
		default:
			return fmt.Errorf("track %q has unknown kind %q", tr.ID, tr.Kind)
		}
	}
	if videos > 1 {
		return fmt.Errorf("%d video tracks, at most one allowed", videos)
	}
	return nil
}

// VideoTrack returns the project's video track, or nil.
func (p *Project) VideoTrack() *Track {
	for i := range p.Tracks {
		if p.Tracks[i].Kind == TrackVideo {
			return &p.Tracks[i]
		}
	}
	return nil
}
