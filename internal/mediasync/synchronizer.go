// Package mediasync couples the playhead state to the registered media
// surfaces: pushes authoritative time out to slave handles, and pulls
// native time back from the master handle during playback.
package mediasync

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/overdubhq/overdub/internal/media"
	"github.com/overdubhq/overdub/internal/timeline"
)

// Defaults for the sync tuning knobs. These are deliberately explicit
// constants rather than magic numbers at call sites; the config layer
// can override all of them.
const (
	// DefaultDriftThreshold is how far (seconds) a handle's native
	// position may stray from the playhead before a corrective seek is
	// pushed. Below the threshold the handle is left alone, which is
	// what breaks the feedback loop between a pulling master and a
	// pushed slave, and what avoids audible micro-seek stutter.
	DefaultDriftThreshold = 0.25

	// DefaultPollInterval is the pull-sample cadence during playback.
	// Ten samples a second trades positional precision for CPU.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultMaxPushFailures is how many consecutive failed pushes to
	// one handle are tolerated before a recoverable warning surfaces.
	DefaultMaxPushFailures = 5
)

// Config tunes a Synchronizer. Zero values take the defaults above.
type Config struct {
	DriftThreshold  float64
	PollInterval    time.Duration
	MaxPushFailures int
}

// DefaultConfig returns the default sync configuration.
func DefaultConfig() Config {
	return Config{
		DriftThreshold:  DefaultDriftThreshold,
		PollInterval:    DefaultPollInterval,
		MaxPushFailures: DefaultMaxPushFailures,
	}
}

// Warning is a recoverable sync problem surfaced to the hosting UI.
// The core keeps operating best-effort; the handle stays registered so
// it can recover once ready.
type Warning struct {
	HandleID string
	Message  string
	Err      error
}

// Synchronizer owns the handle registry and the bidirectional time
// coupling described above. Exactly one registered video handle (the
// first) acts as master; everything else is a slave that receives
// pushed corrections. Registration never transfers ownership of the
// underlying surface.
type Synchronizer struct {
	mu       sync.Mutex
	state    *timeline.State
	cfg      Config
	handles  map[string]media.Handle
	order    []string // registration order, for deterministic pushes
	masterID string
	failures map[string]int
	notReady map[string]bool // play retried lazily on next state change
	warnFns  []func(Warning)

	lastPlaying bool
	pullStop    chan struct{}
	pullWg      sync.WaitGroup
	closed      bool

	logger *slog.Logger
}

// New creates a synchronizer bound to state and subscribes it to state
// changes. Call Close on session teardown so no pull timer outlives
// the session.
func New(state *timeline.State, cfg *Config) *Synchronizer {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.DriftThreshold > 0 {
			c.DriftThreshold = cfg.DriftThreshold
		}
		if cfg.PollInterval > 0 {
			c.PollInterval = cfg.PollInterval
		}
		if cfg.MaxPushFailures > 0 {
			c.MaxPushFailures = cfg.MaxPushFailures
		}
	}
	s := &Synchronizer{
		state:    state,
		cfg:      c,
		handles:  make(map[string]media.Handle),
		failures: make(map[string]int),
		notReady: make(map[string]bool),
		logger:   slog.Default(),
	}
	state.Subscribe(s.stateChanged)
	return s
}

// OnWarning registers a callback for recoverable sync warnings.
func (s *Synchronizer) OnWarning(fn func(Warning)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnFns = append(s.warnFns, fn)
}

// Register adds a handle under id. If the handle's native duration
// exceeds the current timeline duration, the timeline is extended; it
// is never shrunk. Registering while playing starts the handle
// immediately.
func (s *Synchronizer) Register(id string, h media.Handle) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if _, exists := s.handles[id]; !exists {
		s.order = append(s.order, id)
	}
	s.handles[id] = h
	if s.masterID == "" && h.Kind() == media.KindVideo {
		s.masterID = id
	}
	playing := s.lastPlaying
	d := h.Duration()
	s.mu.Unlock()

	// ExtendDuration notifies subscribers, including this
	// synchronizer; it must run outside s.mu.
	if d > 0 {
		s.state.ExtendDuration(d)
	}
	if playing && h.Caps().CanPlay {
		if err := h.Play(); err != nil {
			s.markNotReady(id, err)
		}
	}
}

// Unregister removes the mapping for id. The underlying surface is
// untouched; stopping or closing it is its owner's job.
func (s *Synchronizer) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[id]; !ok {
		return
	}
	delete(s.handles, id)
	delete(s.failures, id)
	delete(s.notReady, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.masterID == id {
		s.masterID = ""
		for _, o := range s.order {
			if s.handles[o].Kind() == media.KindVideo {
				s.masterID = o
				break
			}
		}
	}
}

// Master returns the id of the current master handle, or "".
func (s *Synchronizer) Master() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterID
}

// Close cancels the pull timer and detaches the synchronizer from
// further state changes. Registered surfaces are left as they are.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.pullStop
	s.pullStop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	s.pullWg.Wait()
}

// stateChanged is the State subscriber: it propagates play/pause
// transitions and pushes the new time to every handle. Pushes complete
// synchronously here, so they are always fully propagated before the
// pull ticker can take its next sample.
func (s *Synchronizer) stateChanged(snap timeline.Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	transition := snap.IsPlaying != s.lastPlaying
	s.lastPlaying = snap.IsPlaying
	ids, handles := s.snapshotRegistryLocked()
	retry := make([]string, 0, len(s.notReady))
	if snap.IsPlaying {
		for id := range s.notReady {
			retry = append(retry, id)
		}
	}
	s.mu.Unlock()

	if transition {
		if snap.IsPlaying {
			s.startAll(ids, handles)
			s.startPull()
		} else {
			// The timer dies in the same action that cleared the
			// playing flag; a dangling ticker seeking a torn-down
			// session is the bug class this guards against.
			s.stopPull()
			s.pauseAll(ids, handles)
		}
	} else if snap.IsPlaying && len(retry) > 0 {
		// Handles that were not ready at play time get retried lazily
		// on the next state change instead of blocking the others.
		for _, id := range retry {
			s.retryPlay(id)
		}
	}

	for i, id := range ids {
		s.push(id, handles[i], snap)
	}
}

func (s *Synchronizer) snapshotRegistryLocked() ([]string, []media.Handle) {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	handles := make([]media.Handle, len(ids))
	for i, id := range ids {
		handles[i] = s.handles[id]
	}
	return ids, handles
}

// push writes the playhead time into one handle, but only when the
// handle has drifted beyond the threshold. During playback the master
// is the pull source; correcting it from its own pulled value would
// oscillate, and the threshold is what damps that loop.
func (s *Synchronizer) push(id string, h media.Handle, snap timeline.Snapshot) {
	if !h.Caps().CanSeek {
		return
	}
	ht, err := h.CurrentTime()
	if err != nil {
		s.recordFailure(id, "read position", err)
		return
	}
	if math.Abs(ht-snap.CurrentTime) <= s.cfg.DriftThreshold {
		s.clearFailure(id)
		return
	}
	if err := h.SetCurrentTime(snap.CurrentTime); err != nil {
		s.recordFailure(id, "seek", err)
		return
	}
	s.clearFailure(id)
}

func (s *Synchronizer) startAll(ids []string, handles []media.Handle) {
	for i, id := range ids {
		h := handles[i]
		if !h.Caps().CanPlay {
			continue
		}
		if err := h.Play(); err != nil {
			s.markNotReady(id, err)
			continue
		}
		s.mu.Lock()
		delete(s.notReady, id)
		s.mu.Unlock()
	}
}

func (s *Synchronizer) pauseAll(ids []string, handles []media.Handle) {
	for i, id := range ids {
		h := handles[i]
		if !h.Caps().CanPlay {
			continue
		}
		if err := h.Pause(); err != nil {
			s.logger.Warn("pause failed", "handle", id, "err", err)
		}
	}
}

func (s *Synchronizer) retryPlay(id string) {
	s.mu.Lock()
	h, ok := s.handles[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := h.Play(); err != nil {
		s.logger.Debug("play retry failed", "handle", id, "err", err)
		return
	}
	s.mu.Lock()
	delete(s.notReady, id)
	s.mu.Unlock()
	s.logger.Debug("handle recovered", "handle", id)
}

// startPull launches the pull-sample loop. The master's native time
// advance is the source of truth while playing; it is sampled on a
// fixed cadence rather than on every native time event.
func (s *Synchronizer) startPull() {
	s.mu.Lock()
	if s.pullStop != nil || s.closed {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.pullStop = stop
	s.mu.Unlock()

	s.pullWg.Add(1)
	go func() {
		defer s.pullWg.Done()
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.samplePull()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Synchronizer) stopPull() {
	s.mu.Lock()
	stop := s.pullStop
	s.pullStop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

// samplePull reads the master's native position and writes it through
// SetCurrentTime, which re-triggers pushes to all slaves.
func (s *Synchronizer) samplePull() {
	s.mu.Lock()
	h, ok := s.handles[s.masterID]
	id := s.masterID
	s.mu.Unlock()
	if !ok || id == "" {
		return
	}
	t, err := h.CurrentTime()
	if err != nil {
		s.recordFailure(id, "pull position", err)
		return
	}
	s.state.SetCurrentTime(t)
}

func (s *Synchronizer) markNotReady(id string, err error) {
	s.mu.Lock()
	s.notReady[id] = true
	s.mu.Unlock()
	s.logger.Warn("handle not ready for playback", "handle", id, "err", err)
	s.warn(Warning{HandleID: id, Message: "playback start failed, will retry", Err: err})
}

// recordFailure counts consecutive failures for a handle. The handle
// stays registered no matter what; after MaxPushFailures in a row the
// problem surfaces as a recoverable warning and the counter restarts.
func (s *Synchronizer) recordFailure(id, op string, err error) {
	s.logger.Debug("sync cycle skipped handle", "handle", id, "op", op, "err", err)
	s.mu.Lock()
	s.failures[id]++
	n := s.failures[id]
	if n < s.cfg.MaxPushFailures {
		s.mu.Unlock()
		return
	}
	s.failures[id] = 0
	s.mu.Unlock()
	s.warn(Warning{HandleID: id, Message: "handle repeatedly failing to track playhead", Err: err})
}

func (s *Synchronizer) clearFailure(id string) {
	s.mu.Lock()
	s.failures[id] = 0
	s.mu.Unlock()
}

func (s *Synchronizer) warn(w Warning) {
	s.mu.Lock()
	fns := make([]func(Warning), len(s.warnFns))
	copy(fns, s.warnFns)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(w)
	}
}
