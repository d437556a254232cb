package timeline

import (
	"math"
	"sync"
	"testing"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState(nil)
	snap := s.Snapshot()
	if snap.Duration != MinDuration {
		t.Errorf("initial duration = %v, want %v", snap.Duration, MinDuration)
	}
	if snap.Zoom != DefaultInitialZoom {
		t.Errorf("initial zoom = %v, want %v", snap.Zoom, DefaultInitialZoom)
	}
	if snap.IsPlaying {
		t.Error("new state should not be playing")
	}
	if snap.CurrentTime != 0 || snap.ScrollOffset != 0 {
		t.Errorf("new state should start at zero, got time=%v offset=%v", snap.CurrentTime, snap.ScrollOffset)
	}
}

func TestSetCurrentTimeClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 40, 40},
		{"negative", -5, 0},
		{"past duration", 500, 120},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 120},
		{"negative inf", math.Inf(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(nil)
			s.SetDuration(120)
			s.SetCurrentTime(tt.in)
			if got := s.Snapshot().CurrentTime; got != tt.want {
				t.Errorf("SetCurrentTime(%v): currentTime = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetCurrentTimeIdempotent(t *testing.T) {
	// Applying the clamped result again must not move the playhead.
	for _, in := range []float64{-3, 0, 61.5, 1e9} {
		s := NewState(nil)
		s.SetDuration(120)
		s.SetCurrentTime(in)
		once := s.Snapshot().CurrentTime
		s.SetCurrentTime(once)
		if got := s.Snapshot().CurrentTime; got != once {
			t.Errorf("SetCurrentTime(%v) not idempotent: %v then %v", in, once, got)
		}
	}
}

func TestSetZoomClamping(t *testing.T) {
	s := NewState(nil)
	s.SetZoom(5)
	if got := s.Snapshot().Zoom; got != DefaultZoomMin {
		t.Errorf("zoom below min clamped to %v, want %v", got, DefaultZoomMin)
	}
	s.SetZoom(1e7)
	if got := s.Snapshot().Zoom; got != DefaultZoomMax {
		t.Errorf("zoom above max clamped to %v, want %v", got, DefaultZoomMax)
	}
	s.SetZoom(math.NaN())
	if got := s.Snapshot().Zoom; got <= 0 {
		t.Errorf("zoom after NaN = %v, must stay positive", got)
	}
}

func TestSetZoomInfinitySaturates(t *testing.T) {
	// An infinite zoom request saturates at the nearest bound rather
	// than flipping to the opposite one.
	s := NewState(nil)
	s.SetZoom(math.Inf(1))
	if got := s.Snapshot().Zoom; got != DefaultZoomMax {
		t.Errorf("SetZoom(+Inf): zoom = %v, want %v", got, DefaultZoomMax)
	}
	s.SetZoom(math.Inf(-1))
	if got := s.Snapshot().Zoom; got != DefaultZoomMin {
		t.Errorf("SetZoom(-Inf): zoom = %v, want %v", got, DefaultZoomMin)
	}
}

func TestSetDurationReclampsTime(t *testing.T) {
	s := NewState(nil)
	s.SetDuration(120)
	s.SetCurrentTime(100)
	s.SetDuration(60)
	snap := s.Snapshot()
	if snap.Duration != 60 {
		t.Errorf("duration = %v, want 60", snap.Duration)
	}
	if snap.CurrentTime != 60 {
		t.Errorf("currentTime = %v, want re-clamped to 60", snap.CurrentTime)
	}
}

func TestSetDurationFloor(t *testing.T) {
	s := NewState(nil)
	s.SetDuration(0)
	if got := s.Snapshot().Duration; got != MinDuration {
		t.Errorf("duration = %v, want floor %v", got, MinDuration)
	}
}

func TestExtendDurationNeverShrinks(t *testing.T) {
	s := NewState(nil)
	s.ExtendDuration(90)
	s.ExtendDuration(30)
	if got := s.Snapshot().Duration; got != 90 {
		t.Errorf("duration = %v, want 90 (extension never shrinks)", got)
	}
	s.ExtendDuration(200)
	if got := s.Snapshot().Duration; got != 200 {
		t.Errorf("duration = %v, want 200", got)
	}
}

func TestPlayPauseStop(t *testing.T) {
	s := NewState(nil)
	s.SetDuration(60)
	s.SetCurrentTime(30)

	s.Play()
	if !s.Snapshot().IsPlaying {
		t.Fatal("Play did not set playing")
	}
	s.Pause()
	if s.Snapshot().IsPlaying {
		t.Fatal("Pause did not clear playing")
	}
	if s.Snapshot().CurrentTime != 30 {
		t.Error("Pause must not move the playhead")
	}

	s.Play()
	s.Stop()
	snap := s.Snapshot()
	if snap.IsPlaying || snap.CurrentTime != 0 {
		t.Errorf("Stop: playing=%v time=%v, want paused at 0", snap.IsPlaying, snap.CurrentTime)
	}
}

func TestSubscriberOrderingAndVersions(t *testing.T) {
	s := NewState(nil)
	var versions []uint64
	s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
	})

	s.SetDuration(60)
	s.SetCurrentTime(10)
	s.Play()
	s.Pause()

	if len(versions) != 4 {
		t.Fatalf("got %d notifications, want 4", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] != versions[i-1]+1 {
			t.Errorf("versions not consecutive: %v", versions)
		}
	}
}

func TestNoNotificationWithoutChange(t *testing.T) {
	s := NewState(nil)
	s.SetDuration(60)
	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	s.SetCurrentTime(0)    // already 0
	s.Pause()              // already paused
	s.SetScrollOffset(0)   // already 0
	s.SetDuration(60)      // unchanged
	s.ExtendDuration(10)   // shorter than current
	s.SetZoom(DefaultInitialZoom) // unchanged

	if calls != 0 {
		t.Errorf("got %d notifications for no-op actions, want 0", calls)
	}
}

func TestSubscriberMayInvokeActions(t *testing.T) {
	// A subscriber adjusting scroll in response to a time change must
	// not deadlock and must produce a later version.
	s := NewState(nil)
	s.SetDuration(60)
	adjusted := false
	s.Subscribe(func(snap Snapshot) {
		if !adjusted && snap.CurrentTime == 10 {
			adjusted = true
			s.SetScrollOffset(500)
		}
	})
	s.SetCurrentTime(10)
	if got := s.Snapshot().ScrollOffset; got != 500 {
		t.Errorf("scrollOffset = %v, want 500 set from subscriber", got)
	}
}

func TestScrollOffsetFloor(t *testing.T) {
	s := NewState(nil)
	s.SetScrollOffset(250)
	s.SetScrollOffset(-40)
	if got := s.Snapshot().ScrollOffset; got != 0 {
		t.Errorf("scrollOffset = %v, want floored to 0", got)
	}
	s.SetScrollOffset(math.Inf(1))
	if got := s.Snapshot().ScrollOffset; got != 0 {
		t.Errorf("scrollOffset after +Inf = %v, want 0 (no upper bound to clamp to)", got)
	}
}

func TestConcurrentActionsNotifyInOrder(t *testing.T) {
	// Actions racing in from several goroutines (the editor loop and
	// the sync pull ticker in production) must still deliver versions
	// to subscribers strictly in order, with no version skipped.
	s := NewState(nil)
	s.SetDuration(1000)

	var mu sync.Mutex
	var versions []uint64
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		versions = append(versions, snap.Version)
		mu.Unlock()
	})
	base := s.Snapshot().Version

	const goroutines = 4
	const actions = 50
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < actions; i++ {
				// Distinct values per call so no action is a no-op.
				s.SetCurrentTime(float64(g*actions+i+1) * 0.001)
			}
		}(g)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(versions) != goroutines*actions {
		t.Fatalf("got %d notifications, want %d", len(versions), goroutines*actions)
	}
	for i, v := range versions {
		if v != base+uint64(i)+1 {
			t.Fatalf("notification %d carried version %d, want %d", i, v, base+uint64(i)+1)
		}
	}
}
