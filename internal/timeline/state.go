package timeline

import (
	"math"
	"sync"
)

// Default playhead bounds. Zoom is expressed in pixels per second;
// duration has a 1 second floor so a freshly created session never has
// a zero-width timeline.
const (
	DefaultZoomMin     = 10.0
	DefaultZoomMax     = 2000.0
	DefaultInitialZoom = 100.0
	MinDuration        = 1.0
)

// Snapshot is an immutable copy of the playhead state handed to
// subscribers and render surfaces. Version increases by one for every
// observable change; subscribers see versions in order.
type Snapshot struct {
	CurrentTime  float64
	Duration     float64
	Zoom         float64
	ScrollOffset float64
	IsPlaying    bool
	Version      uint64
}

// StateConfig configures a State's zoom bounds and initial zoom.
type StateConfig struct {
	ZoomMin     float64
	ZoomMax     float64
	InitialZoom float64
}

// DefaultStateConfig returns the default playhead configuration.
func DefaultStateConfig() StateConfig {
	return StateConfig{
		ZoomMin:     DefaultZoomMin,
		ZoomMax:     DefaultZoomMax,
		InitialZoom: DefaultInitialZoom,
	}
}

// State is the single source of truth for the playhead: current time,
// playing flag, duration, zoom and scroll offset. One State exists per
// editing session. All mutation goes through the action methods, which
// clamp their arguments instead of returning errors; components never
// touch the fields directly.
//
// Actions may arrive from multiple goroutines (the UI event loop and
// the media synchronizer's pull ticker). Notifications are queued and
// drained by exactly one goroutine at a time, so subscribers always
// observe versions in order; callbacks run outside the lock so a
// subscriber may itself invoke an action.
type State struct {
	mu           sync.Mutex
	currentTime  float64
	duration     float64
	zoom         float64
	scrollOffset float64
	playing      bool
	version      uint64

	zoomMin float64
	zoomMax float64

	subs     []func(Snapshot)
	pending  []Snapshot
	flushing bool
}

// NewState creates a playhead for a new editing session. If cfg is
// nil, DefaultStateConfig() is used. Invalid bounds fall back to the
// defaults so the zoom > 0 invariant holds from the start.
func NewState(cfg *StateConfig) *State {
	c := DefaultStateConfig()
	if cfg != nil {
		if cfg.ZoomMin > 0 {
			c.ZoomMin = cfg.ZoomMin
		}
		if cfg.ZoomMax >= c.ZoomMin {
			c.ZoomMax = cfg.ZoomMax
		}
		if cfg.InitialZoom > 0 {
			c.InitialZoom = cfg.InitialZoom
		}
	}
	return &State{
		duration: MinDuration,
		zoom:     clamp(c.InitialZoom, c.ZoomMin, c.ZoomMax),
		zoomMin:  c.ZoomMin,
		zoomMax:  c.ZoomMax,
	}
}

// Subscribe registers a callback invoked after every observable state
// change. Callbacks for a given version always finish before any
// callback for the next version starts, regardless of which goroutine
// performed the action.
func (s *State) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		CurrentTime:  s.currentTime,
		Duration:     s.duration,
		Zoom:         s.zoom,
		ScrollOffset: s.scrollOffset,
		IsPlaying:    s.playing,
		Version:      s.version,
	}
}

// notifyLocked bumps the version, queues the snapshot, and drains the
// queue unless another goroutine already owns the drain loop. Queueing
// is what keeps version delivery ordered when actions race in from the
// UI and the pull ticker at once, and what lets a subscriber invoke an
// action without recursing into the fan-out. Callers must hold s.mu
// and must return immediately after.
func (s *State) notifyLocked() {
	s.version++
	s.pending = append(s.pending, s.snapshotLocked())
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		subs := make([]func(Snapshot), len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()
		for _, fn := range subs {
			fn(snap)
		}
		s.mu.Lock()
	}
	s.flushing = false
	s.mu.Unlock()
}

// SetCurrentTime moves the playhead, clamped to [0, duration]. It does
// not change the playing flag.
func (s *State) SetCurrentTime(t float64) {
	s.mu.Lock()
	t = clamp(sanitize(t), 0, s.duration)
	if t == s.currentTime {
		s.mu.Unlock()
		return
	}
	s.currentTime = t
	s.notifyLocked()
}

// SeekTo is SetCurrentTime under a name that signals an explicit scrub
// rather than a periodic sync correction. The effect is identical.
func (s *State) SeekTo(t float64) {
	s.SetCurrentTime(t)
}

// Play marks the session as playing. Starting native playback on the
// registered media surfaces is the synchronizer's job.
func (s *State) Play() {
	s.mu.Lock()
	if s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = true
	s.notifyLocked()
}

// Pause marks the session as paused.
func (s *State) Pause() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.notifyLocked()
}

// Stop pauses and rewinds to zero.
func (s *State) Stop() {
	s.Pause()
	s.SetCurrentTime(0)
}

// SetZoom clamps z to the configured bounds and applies it. It never
// touches the scroll offset; keeping the content under the cursor
// stable across a zoom change is the Controller's job.
func (s *State) SetZoom(z float64) {
	s.mu.Lock()
	z = clamp(sanitize(z), s.zoomMin, s.zoomMax)
	if z == s.zoom {
		s.mu.Unlock()
		return
	}
	s.zoom = z
	s.notifyLocked()
}

// SetScrollOffset sets the horizontal scroll position, floored at 0.
func (s *State) SetScrollOffset(px float64) {
	s.mu.Lock()
	if px = finite(px); px < 0 {
		px = 0
	}
	if px == s.scrollOffset {
		s.mu.Unlock()
		return
	}
	s.scrollOffset = px
	s.notifyLocked()
}

// SetDuration grows or sets the timeline length, floored at
// MinDuration. If the playhead ends up past the new duration it is
// pulled back in the same change, so no subscriber ever observes an
// out-of-range current time.
func (s *State) SetDuration(d float64) {
	s.mu.Lock()
	if d = finite(d); d < MinDuration {
		d = MinDuration
	}
	if d == s.duration && s.currentTime <= d {
		s.mu.Unlock()
		return
	}
	s.duration = d
	if s.currentTime > d {
		s.currentTime = d
	}
	s.notifyLocked()
}

// ExtendDuration raises the duration to at least d, never shrinking.
// Media registration goes through here so that a short clip can never
// truncate a timeline that already holds a longer one.
func (s *State) ExtendDuration(d float64) {
	s.mu.Lock()
	if d = finite(d); d <= s.duration {
		s.mu.Unlock()
		return
	}
	s.duration = d
	s.notifyLocked()
}

// ZoomBounds returns the configured zoom limits.
func (s *State) ZoomBounds() (min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoomMin, s.zoomMax
}

// sanitize maps NaN to 0 so a bad float from a gesture handler
// degrades to a clamped no-op instead of poisoning the state.
// Infinities pass through: the range clamps take them to the nearest
// bound, which is the behavior a saturating setter should have.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// finite additionally zeroes infinities, for fields with no upper
// bound to clamp an infinity to (scroll offset, duration).
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
