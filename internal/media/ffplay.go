package media

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// Player plays an audio file through an external ffplay process. The
// process has no feedback channel, so the position is estimated from
// the seek offset plus elapsed wall time; the synchronizer's drift
// threshold absorbs the estimation error. Seeking while playing
// restarts the process at the new offset.
type Player struct {
	mu       sync.Mutex
	path     string
	duration float64
	playing  bool
	base     float64
	anchor   time.Time
	cancel   context.CancelFunc
	logger   *slog.Logger
}

// NewPlayer creates an ffplay-backed handle for path. Duration is
// probed lazily on first use if zero is passed.
func NewPlayer(path string, duration float64) *Player {
	return &Player{
		path:     path,
		duration: duration,
		logger:   slog.Default(),
	}
}

// Kind implements Handle.
func (p *Player) Kind() Kind { return KindAudio }

// Caps implements Handle.
func (p *Player) Caps() Capabilities {
	return Capabilities{CanSeek: true, CanPlay: true}
}

// Ready implements Handle. The player is ready once ffplay is on PATH
// and the duration is known.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return HavePlayer() && p.ensureDurationLocked() == nil
}

func (p *Player) ensureDurationLocked() error {
	if p.duration > 0 {
		return nil
	}
	d, err := ProbeDuration(p.path)
	if err != nil {
		return err
	}
	p.duration = d
	return nil
}

// Duration implements Handle.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureDurationLocked(); err != nil {
		return 0
	}
	return p.duration
}

// CurrentTime implements Handle.
func (p *Player) CurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.base
	if p.playing {
		pos += time.Since(p.anchor).Seconds()
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos, nil
}

// SetCurrentTime implements Handle. A seek during playback restarts
// the ffplay process at the new offset.
func (p *Player) SetCurrentTime(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if p.duration > 0 && t > p.duration {
		t = p.duration
	}
	p.base = t
	p.anchor = time.Now()
	if p.playing {
		p.stopProcessLocked()
		return p.startProcessLocked()
	}
	return nil
}

// Play implements Handle.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return nil
	}
	if !HavePlayer() {
		return fmt.Errorf("media: ffplay not found: %w", ErrNotReady)
	}
	if err := p.ensureDurationLocked(); err != nil {
		return fmt.Errorf("media: %s: %w", p.path, ErrNotReady)
	}
	p.anchor = time.Now()
	p.playing = true
	return p.startProcessLocked()
}

// Pause implements Handle. Pausing kills the ffplay process; resuming
// spawns a fresh one at the remembered offset.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return nil
	}
	p.base += time.Since(p.anchor).Seconds()
	p.playing = false
	p.stopProcessLocked()
	return nil
}

// Close stops any running process. Unregistering from the
// synchronizer does not call this; the owner does.
func (p *Player) Close() error {
	return p.Pause()
}

func (p *Player) startProcessLocked() error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	cmd := exec.CommandContext(ctx, "ffplay",
		"-ss", fmt.Sprintf("%.3f", p.base),
		"-autoexit",
		"-nodisp",
		"-loglevel", "quiet",
		p.path)

	if err := cmd.Start(); err != nil {
		cancel()
		p.cancel = nil
		return fmt.Errorf("media: start ffplay for %s: %w", p.path, err)
	}
	go func() {
		// Reap the process; on -autoexit the track simply ran out.
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			p.logger.Warn("ffplay exited", "path", p.path, "err", err)
		}
	}()
	return nil
}

func (p *Player) stopProcessLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
