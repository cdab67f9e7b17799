package services

import "time"

// Stopper is the part of *time.Timer the dwell timer needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// dwellTimer is a start/cancel/fire-once timer keyed by an integer (the edge
// direction). Every Start and Cancel bumps a generation counter; a firing only
// counts if Claim sees the generation it was armed with, so a callback that
// lost the race with Cancel is ignored.
//
// Start, Cancel, Armed and Claim must all be called from the controller loop.
type dwellTimer struct {
	after AfterFunc
	timer Stopper
	gen   uint64
	key   int
	armed bool
}

func newDwellTimer(after AfterFunc) *dwellTimer {
	if after == nil {
		after = realAfterFunc
	}
	return &dwellTimer{after: after}
}

// Start (re)arms the timer. fire runs on the timer's goroutine with the armed generation.
func (t *dwellTimer) Start(d time.Duration, key int, fire func(gen uint64)) {
	t.Cancel()
	t.gen++
	gen := t.gen
	t.key = key
	t.armed = true
	t.timer = t.after(d, func() { fire(gen) })
}

// Cancel disarms the timer. Safe to call when not armed.
func (t *dwellTimer) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.armed {
		t.gen++
	}
	t.armed = false
	t.key = 0
}

// Armed reports the key the timer is armed with.
func (t *dwellTimer) Armed() (int, bool) {
	return t.key, t.armed
}

// Claim consumes a firing. It returns the key and true at most once per Start.
func (t *dwellTimer) Claim(gen uint64) (int, bool) {
	if !t.armed || gen != t.gen {
		return 0, false
	}
	key := t.key
	t.armed = false
	t.key = 0
	t.timer = nil
	return key, true
}
