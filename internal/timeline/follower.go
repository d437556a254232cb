package timeline

import "sync"

// DefaultEdgeMargin is how close, in pixels, the playhead may get to a
// viewport edge before the follower scrolls to recenter it.
const DefaultEdgeMargin = 48.0

// Follower keeps the playhead visible during playback by nudging the
// scroll offset whenever the playhead drifts into an edge margin. It
// is a continuous corrective policy: each state change gets at most
// one small correction, and manual scrolling wins for the duration of
// the controller's cooldown window.
//
// stateChanged may run on the synchronizer's pull goroutine while the
// UI goroutine resizes the viewport; the mutex covers the fields both
// sides touch.
type Follower struct {
	state      *State
	controller *Controller
	edgeMargin float64

	mu            sync.Mutex
	viewportWidth float64
	correcting    bool
}

// NewFollower creates a follower and subscribes it to the state. The
// controller supplies the manual-scroll cooldown guard.
func NewFollower(state *State, controller *Controller, edgeMargin float64) *Follower {
	if edgeMargin <= 0 {
		edgeMargin = DefaultEdgeMargin
	}
	f := &Follower{
		state:      state,
		controller: controller,
		edgeMargin: edgeMargin,
	}
	state.Subscribe(f.stateChanged)
	return f
}

// SetViewportWidth tells the follower how wide the visible timeline
// area is. A zero width disables following.
func (f *Follower) SetViewportWidth(px float64) {
	if px < 0 {
		px = 0
	}
	f.mu.Lock()
	f.viewportWidth = px
	f.mu.Unlock()
}

func (f *Follower) stateChanged(snap Snapshot) {
	f.mu.Lock()
	// The corrective SetScrollOffset below can redeliver to this
	// handler; the guard keeps that to a single level.
	if f.correcting {
		f.mu.Unlock()
		return
	}
	viewport := f.viewportWidth
	f.mu.Unlock()

	if !snap.IsPlaying || viewport <= 0 {
		return
	}
	if f.controller != nil && f.controller.InCooldown() {
		return
	}

	playheadPixel := TimeToPixel(snap.CurrentTime, snap.Zoom)
	margin := f.edgeMargin
	if margin*2 >= viewport {
		// Tiny viewport: fall back to keeping the playhead on screen.
		margin = 0
	}

	var offset float64
	switch {
	case playheadPixel < snap.ScrollOffset+margin:
		offset = playheadPixel - margin
	case playheadPixel > snap.ScrollOffset+viewport-margin:
		offset = playheadPixel - viewport + margin
	default:
		return
	}
	if offset < 0 {
		offset = 0
	}

	f.mu.Lock()
	f.correcting = true
	f.mu.Unlock()
	f.state.SetScrollOffset(offset)
	f.mu.Lock()
	f.correcting = false
	f.mu.Unlock()
}
