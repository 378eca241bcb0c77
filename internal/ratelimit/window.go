package ratelimit

import "time"

// Window is a bounded FIFO of call timestamps. It never holds more than its
// capacity and its entries never decrease.
type Window struct {
	stamps   []time.Time
	capacity int
}

// NewWindow returns an empty window holding at most capacity timestamps.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{stamps: make([]time.Time, 0, capacity), capacity: capacity}
}

// Push appends ts, evicting the oldest entry when the window is full. A ts
// earlier than the newest entry is clamped to it.
func (w *Window) Push(ts time.Time) {
	if n := len(w.stamps); n > 0 && ts.Before(w.stamps[n-1]) {
		ts = w.stamps[n-1]
	}
	if len(w.stamps) == w.capacity {
		copy(w.stamps, w.stamps[1:])
		w.stamps = w.stamps[:w.capacity-1]
	}
	w.stamps = append(w.stamps, ts)
}

// Full reports whether the window holds capacity entries.
func (w *Window) Full() bool {
	return len(w.stamps) == w.capacity
}

// Oldest returns the earliest retained timestamp.
func (w *Window) Oldest() (time.Time, bool) {
	if len(w.stamps) == 0 {
		return time.Time{}, false
	}
	return w.stamps[0], true
}

// Len returns the number of retained timestamps.
func (w *Window) Len() int {
	return len(w.stamps)
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return w.capacity
}

// Snapshot returns a copy of the retained timestamps, oldest first.
func (w *Window) Snapshot() []time.Time {
	out := make([]time.Time, len(w.stamps))
	copy(out, w.stamps)
	return out
}
