package media

import (
	"sync"
	"time"
)

// Clock is a media handle backed by the wall clock instead of a real
// decoder. While playing, its position advances monotonically at the
// configured rate from the last seek point. It serves two roles: the
// playback master when a project has no video surface, and a
// deterministic stand-in for tests.
type Clock struct {
	mu       sync.Mutex
	kind     Kind
	base     float64 // position at the last anchor
	anchor   time.Time
	playing  bool
	duration float64
	rate     float64

	now func() time.Time
}

// NewClock creates a clock handle with the given kind and duration.
// Rate 1.0 is real time.
func NewClock(kind Kind, duration float64) *Clock {
	return &Clock{
		kind:     kind,
		duration: duration,
		rate:     1.0,
		now:      time.Now,
	}
}

// SetRate changes the playback rate. The current position is anchored
// first so the change does not jump the clock.
func (c *Clock) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.positionLocked()
	c.anchor = c.now()
	if rate > 0 {
		c.rate = rate
	}
}

// Kind implements Handle.
func (c *Clock) Kind() Kind { return c.kind }

// Caps implements Handle. A clock can always seek and play.
func (c *Clock) Caps() Capabilities {
	return Capabilities{CanSeek: true, CanPlay: true}
}

// CurrentTime implements Handle.
func (c *Clock) CurrentTime() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked(), nil
}

func (c *Clock) positionLocked() float64 {
	pos := c.base
	if c.playing {
		pos += c.now().Sub(c.anchor).Seconds() * c.rate
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// SetCurrentTime implements Handle.
func (c *Clock) SetCurrentTime(t float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if c.duration > 0 && t > c.duration {
		t = c.duration
	}
	c.base = t
	c.anchor = c.now()
	return nil
}

// Duration implements Handle.
func (c *Clock) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Play implements Handle.
func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return nil
	}
	c.base = c.positionLocked()
	c.anchor = c.now()
	c.playing = true
	return nil
}

// Pause implements Handle.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return nil
	}
	c.base = c.positionLocked()
	c.playing = false
	return nil
}

// Ready implements Handle. A clock is always ready.
func (c *Clock) Ready() bool { return true }
