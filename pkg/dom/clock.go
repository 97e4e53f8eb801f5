package dom

import (
	"sort"
	"time"
)

// Clock is the document's time source. Every delay in the engine (hover
// delays, type-ahead reset, motion fallback timers) flows through it, so a
// test can substitute a ManualClock and drive time deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After schedules fn to run once d has elapsed and returns a cancel
	// function. Cancel after firing is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

// SystemClock is the production clock. Callbacks from time.AfterFunc fire on
// arbitrary goroutines, so a SystemClock carries a post function that
// marshals them back onto the goroutine owning the document; a remote
// session posts into its work channel. A nil post runs callbacks inline,
// which is only safe for single-goroutine hosts.
type SystemClock struct {
	post func(func())
}

// NewSystemClock creates a system clock that marshals timer callbacks
// through post.
func NewSystemClock(post func(func())) *SystemClock {
	return &SystemClock{post: post}
}

// Now returns the wall clock time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// After schedules fn after d.
func (c *SystemClock) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		if c.post != nil {
			c.post(fn)
			return
		}
		fn()
	})
	return func() { t.Stop() }
}

// ManualClock is a deterministic clock for tests. Time only moves when
// Advance is called; due timers fire synchronously on the calling goroutine
// in firing order, with insertion order breaking ties.
type ManualClock struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

// NewManualClock creates a manual clock starting at the Unix epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// After schedules fn at now+d.
func (c *ManualClock) After(d time.Duration, fn func()) func() {
	c.seq++
	t := &manualTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return func() { t.stopped = true }
}

// Advance moves the clock forward by d, firing every timer that becomes due.
// A timer scheduled by another timer's callback fires in the same Advance if
// it falls within the window.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		if t.at.After(c.now) {
			c.now = t.at
		}
		if !t.stopped {
			t.fn()
		}
	}
	c.now = target
}

// Pending returns the number of scheduled, unstopped timers.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest timer at or before target.
func (c *ManualClock) popDue(target time.Time) *manualTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
	for i, t := range c.timers {
		if t.stopped {
			continue
		}
		if t.at.After(target) {
			break
		}
		c.timers = append(c.timers[:i], c.timers[i+1:]...)
		return t
	}
	// Drop stopped timers that sorted to the front.
	for len(c.timers) > 0 && c.timers[0].stopped {
		c.timers = c.timers[1:]
	}
	return nil
}
