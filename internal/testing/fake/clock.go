package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"wakeplay/internal/clock"
)

var _ clock.Clock = (*Clock)(nil)

// Clock implements clock.Clock with a controllable time value.
//
// Timers registered through AfterFunc only fire when the clock is moved
// forward with Advance (or by Sleep in auto-advance mode); callbacks run
// synchronously on the goroutine that advanced the clock, in deadline
// order. A zero or negative delay is due on the next Advance.
type Clock struct {
	mu          sync.Mutex
	current     time.Time
	timers      []*clockTimer
	seq         int
	autoAdvance bool
}

type clockTimer struct {
	owner   *Clock
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewClock creates a new fake clock initialized to the given time.
// If t is zero, the clock is initialized to the current time.
func NewClock(t time.Time) *Clock {
	if t.IsZero() {
		t = time.Now()
	}
	return &Clock{current: t}
}

// SetAutoAdvance makes Sleep advance the clock by the requested duration
// instead of waiting for another goroutine to call Advance. Used by tests
// that drive a whole launch on one goroutine.
func (f *Clock) SetAutoAdvance(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoAdvance = enabled
}

// Now returns the current time according to this fake clock.
func (f *Clock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Set sets the clock to a specific time without firing timers.
func (f *Clock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}

// AfterFunc registers fn to run once the clock reaches now+d.
func (f *Clock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	if d < 0 {
		d = 0
	}
	f.seq++
	t := &clockTimer{owner: f, at: f.current.Add(d), seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (f *Clock) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Advance moves the clock forward by d, firing every timer that becomes due
// along the way. Timers scheduled by callbacks are honoured if they fall
// inside the advanced window.
func (f *Clock) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.current.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.nextDueLocked(target)
		if next == nil {
			if target.After(f.current) {
				f.current = target
			}
			f.mu.Unlock()
			return
		}
		if next.at.After(f.current) {
			f.current = next.at
		}
		next.fired = true
		f.removeLocked(next)
		f.mu.Unlock()

		next.fn()
	}
}

// Sleep waits until the clock has advanced by d. In auto-advance mode the
// clock is advanced immediately on the caller's goroutine.
func (f *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	auto := f.autoAdvance
	f.mu.Unlock()

	if auto {
		if d < 0 {
			d = 0
		}
		f.Advance(d)
		return ctx.Err()
	}

	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	t := f.AfterFunc(d, func() { close(done) })
	select {
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (f *Clock) nextDueLocked(target time.Time) *clockTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].at.Equal(f.timers[j].at) {
			return f.timers[i].seq < f.timers[j].seq
		}
		return f.timers[i].at.Before(f.timers[j].at)
	})
	if f.timers[0].at.After(target) {
		return nil
	}
	return f.timers[0]
}

func (f *Clock) removeLocked(t *clockTimer) {
	for i, candidate := range f.timers {
		if candidate == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Stop prevents the timer from firing.
func (t *clockTimer) Stop() bool {
	f := t.owner
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	f.removeLocked(t)
	return true
}
