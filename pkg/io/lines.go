package io

import "time"

// ButtonEvent is a debounced press or release.
type ButtonEvent struct {
	Pressed bool
	// Held is how long the button was down, set on release.
	Held time.Duration
}

// debounce is the minimum time between accepted edges.
const debounce = 10 * time.Millisecond

// edgeFilter turns raw edges into debounced events.
type edgeFilter struct {
	pressed bool
	last    time.Time
	since   time.Time
}

// edge returns the event for a raw edge, or ok=false if it is a bounce or
// repeats the current state.
func (f *edgeFilter) edge(pressed bool, at time.Time) (ev ButtonEvent, ok bool) {
	if !f.last.IsZero() && at.Sub(f.last) < debounce {
		return ButtonEvent{}, false
	}
	if pressed == f.pressed {
		return ButtonEvent{}, false
	}
	f.last = at
	f.pressed = pressed
	if pressed {
		f.since = at
		return ButtonEvent{Pressed: true}, true
	}
	return ButtonEvent{Held: at.Sub(f.since)}, true
}
