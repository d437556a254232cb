// Package media defines the capability-typed handles the synchronizer
// drives, plus concrete handles: an external-process audio player and
// a monotonic clock used as the playback master when no real video
// surface is attached.
package media

import "errors"

// Kind tags a handle with the class of surface behind it. The
// synchronizer selects its master by kind instead of duck-typing the
// handle at runtime.
type Kind string

const (
	// KindVideo marks the surface whose native clock is the source of
	// truth during playback.
	KindVideo Kind = "video"
	// KindAudio marks a seekable, playable audio surface.
	KindAudio Kind = "audio"
	// KindWaveform marks a render-only surface that tracks time but
	// cannot play anything itself.
	KindWaveform Kind = "waveform"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Capabilities describes what a handle can do. Surfaces that cannot
// seek or play still participate in sync; the synchronizer simply
// skips the operations they lack.
type Capabilities struct {
	CanSeek bool
	CanPlay bool
}

// ErrNotReady is returned by handles that cannot honor an operation
// yet (still buffering, file not probed). The synchronizer retries on
// the next state change rather than treating this as fatal.
var ErrNotReady = errors.New("media: handle not ready")

// ErrNotPlayable is returned by Play/Pause on handles whose
// capabilities exclude playback.
var ErrNotPlayable = errors.New("media: handle cannot play")

// Handle is the capability set the core requires from a media surface.
// Registering a handle never transfers ownership: closing or freeing
// the underlying surface remains the registrant's job.
type Handle interface {
	// Kind reports the surface class, fixed at construction.
	Kind() Kind
	// Caps reports the capability descriptor, fixed at construction.
	Caps() Capabilities
	// CurrentTime returns the surface's native position in seconds.
	CurrentTime() (float64, error)
	// SetCurrentTime seeks the surface. Implementations may return
	// ErrNotReady; the caller retries later.
	SetCurrentTime(t float64) error
	// Duration returns the native media length in seconds, 0 when
	// unknown.
	Duration() float64
	// Play starts native playback.
	Play() error
	// Pause halts native playback.
	Pause() error
	// Ready reports whether the surface can honor seeks and playback
	// right now.
	Ready() bool
}
