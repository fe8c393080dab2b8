package engine

import "time"

// Timer is a pending callback created by Timers.After.
type Timer struct {
	remaining float64
	fn        func()
	cancelled bool
}

// Cancel stops the timer from firing. Safe on a nil or fired timer.
func (t *Timer) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Timers schedules callbacks against a frame clock instead of wall time,
// so pausing the clock pauses every timer.
type Timers struct {
	pending []*Timer
}

// After schedules fn to run once d of clock time has been advanced.
func (ts *Timers) After(d time.Duration, fn func()) *Timer {
	t := &Timer{remaining: d.Seconds(), fn: fn}
	ts.pending = append(ts.pending, t)
	return t
}

// Advance moves the clock forward and fires due timers in schedule order.
// Callbacks may schedule new timers; those wait for the next Advance.
func (ts *Timers) Advance(dt float64) {
	due := ts.pending
	ts.pending = nil

	var fire []*Timer
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			fire = append(fire, t)
		} else {
			ts.pending = append(ts.pending, t)
		}
	}
	for _, t := range fire {
		if !t.cancelled {
			t.cancelled = true
			t.fn()
		}
	}
}

// Clear cancels every pending timer.
func (ts *Timers) Clear() {
	for _, t := range ts.pending {
		t.cancelled = true
	}
	ts.pending = nil
}

// Len returns the number of pending timers.
func (ts *Timers) Len() int {
	n := 0
	for _, t := range ts.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}
