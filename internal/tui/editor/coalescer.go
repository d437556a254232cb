package editor

// wheelCoalescer accumulates wheel scroll deltas between render ticks
// so a fast wheel burst becomes one scroll action instead of dozens of
// state notifications.
type wheelCoalescer struct {
	pending float64
}

func (w *wheelCoalescer) Add(delta float64) {
	w.pending += delta
}

// Flush returns the accumulated delta and resets it.
func (w *wheelCoalescer) Flush() float64 {
	d := w.pending
	w.pending = 0
	return d
}
