package timeline

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultZoomSteps is the discrete zoom ladder used by wheel and
// keyboard zooming, in pixels per second, ascending.
var DefaultZoomSteps = []float64{10, 20, 50, 100, 200, 500, 1000, 2000}

// DefaultScrollCooldown is how long the auto-scroll follower stays
// suppressed after the user scrolls manually.
const DefaultScrollCooldown = 3 * time.Second

// ControllerConfig tunes gesture handling. Zero values take the
// package defaults.
type ControllerConfig struct {
	// ZoomSteps is the ascending table of discrete zoom levels.
	ZoomSteps []float64
	// ScrollCooldown suppresses auto-follow after a manual scroll.
	ScrollCooldown time.Duration
}

// Controller translates user gestures into playhead actions. It owns
// no time of its own: every change funnels through the State's action
// API. Its one hard guarantee is zoom-at-point: the timeline content
// under the cursor does not move when the zoom changes.
//
// Gestures arrive on the UI goroutine while InCooldown is read by
// state subscribers, which may run on the synchronizer's pull
// goroutine; the mutex covers that overlap. It is never held across a
// State call, so a subscriber reading the cooldown from inside a
// notification cannot deadlock.
type Controller struct {
	state    *State
	steps    []float64
	cooldown time.Duration

	mu              sync.Mutex
	dragging        bool
	dragStartX      float64
	dragStartOffset float64
	lastManual      time.Time

	now func() time.Time
}

// NewController creates a gesture controller bound to state. If cfg is
// nil, defaults are used.
func NewController(state *State, cfg *ControllerConfig) *Controller {
	c := &Controller{
		state:    state,
		steps:    DefaultZoomSteps,
		cooldown: DefaultScrollCooldown,
		now:      time.Now,
	}
	if cfg != nil {
		if len(cfg.ZoomSteps) > 0 {
			steps := make([]float64, len(cfg.ZoomSteps))
			copy(steps, cfg.ZoomSteps)
			sort.Float64s(steps)
			c.steps = steps
		}
		if cfg.ScrollCooldown > 0 {
			c.cooldown = cfg.ScrollCooldown
		}
	}
	return c
}

// ZoomAtPoint changes the zoom level while keeping the time currently
// under anchorPixel (a viewport-relative x position) at the same
// viewport position. The new scroll offset is floored at zero, so
// anchoring near the timeline start can still shift content slightly;
// that is the only permitted exception.
func (c *Controller) ZoomAtPoint(newZoom, anchorPixel float64) {
	snap := c.state.Snapshot()
	anchorTime := PixelToTime(anchorPixel+snap.ScrollOffset, snap.Zoom, snap.Duration)

	c.state.SetZoom(newZoom)

	applied := c.state.Snapshot().Zoom
	offset := TimeToPixel(anchorTime, applied) - anchorPixel
	if offset < 0 {
		offset = 0
	}
	c.state.SetScrollOffset(offset)
}

// ZoomIn moves one step up the zoom ladder, anchored at anchorPixel.
func (c *Controller) ZoomIn(anchorPixel float64) {
	c.ZoomAtPoint(c.stepFrom(c.state.Snapshot().Zoom, +1), anchorPixel)
}

// ZoomOut moves one step down the zoom ladder, anchored at anchorPixel.
func (c *Controller) ZoomOut(anchorPixel float64) {
	c.ZoomAtPoint(c.stepFrom(c.state.Snapshot().Zoom, -1), anchorPixel)
}

// stepFrom returns the zoom level one ladder step away from current in
// the given direction, saturating at the table bounds.
func (c *Controller) stepFrom(current float64, dir int) float64 {
	// Index of the nearest step at or below current.
	idx := 0
	for i, s := range c.steps {
		if s <= current {
			idx = i
		}
	}
	if dir > 0 {
		if idx+1 < len(c.steps) {
			// When current sits between steps, stepping up from the
			// floor step already zooms in.
			if c.steps[idx] > current {
				return c.steps[idx]
			}
			return c.steps[idx+1]
		}
		return c.steps[len(c.steps)-1]
	}
	if c.steps[idx] < current {
		return c.steps[idx]
	}
	if idx > 0 {
		return c.steps[idx-1]
	}
	return c.steps[0]
}

// StartDrag begins a drag-scroll gesture at the given pointer x.
func (c *Controller) StartDrag(pointerX float64) {
	offset := c.state.Snapshot().ScrollOffset
	c.mu.Lock()
	c.dragging = true
	c.dragStartX = pointerX
	c.dragStartOffset = offset
	c.lastManual = c.now()
	c.mu.Unlock()
}

// Drag updates the scroll offset for a pointer move while captured.
// Calls outside an active drag are ignored.
func (c *Controller) Drag(pointerX float64) {
	c.mu.Lock()
	if !c.dragging {
		c.mu.Unlock()
		return
	}
	offset := c.dragStartOffset - (pointerX - c.dragStartX)
	c.lastManual = c.now()
	c.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	c.state.SetScrollOffset(offset)
}

// EndDrag releases the drag capture. Safe to call when no drag is
// active, which is exactly what a global pointer-up handler needs.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	c.dragging = false
	c.mu.Unlock()
}

// Dragging reports whether a drag gesture is currently captured.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// ScrollBy shifts the scroll offset by deltaPx (positive scrolls the
// content left) and marks the scroll as manual.
func (c *Controller) ScrollBy(deltaPx float64) {
	snap := c.state.Snapshot()
	offset := snap.ScrollOffset + deltaPx
	if offset < 0 {
		offset = 0
	}
	c.markManual()
	c.state.SetScrollOffset(offset)
}

// ClickRuler seeks to the major grid line nearest to the clicked
// viewport x position. Minor ticks are not snap targets.
func (c *Controller) ClickRuler(clickPixel float64) {
	snap := c.state.Snapshot()
	target := clickPixel + snap.ScrollOffset

	var best *GridLine
	bestDist := math.Inf(1)
	lines := ComputeGrid(snap.Zoom, snap.Duration)
	for i := range lines {
		if !lines[i].IsMajor {
			continue
		}
		if d := math.Abs(lines[i].Pixel - target); d < bestDist {
			bestDist = d
			best = &lines[i]
		}
	}
	if best != nil {
		c.state.SeekTo(best.Time)
	}
}

// InCooldown reports whether a manual scroll happened recently enough
// that auto-follow must keep its hands off the scroll offset.
func (c *Controller) InCooldown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.lastManual) < c.cooldown
}

func (c *Controller) markManual() {
	c.mu.Lock()
	c.lastManual = c.now()
	c.mu.Unlock()
}
