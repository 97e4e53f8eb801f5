package dom

import (
	"testing"
	"time"
)

func TestManualClockAdvance(t *testing.T) {
	clock := NewManualClock()
	start := clock.Now()

	var fired []string
	clock.After(100*time.Millisecond, func() { fired = append(fired, "a") })
	clock.After(50*time.Millisecond, func() { fired = append(fired, "b") })
	clock.After(200*time.Millisecond, func() { fired = append(fired, "c") })

	clock.Advance(120 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "b" || fired[1] != "a" {
		t.Fatalf("fired = %v, want [b a]", fired)
	}
	if got := clock.Now().Sub(start); got != 120*time.Millisecond {
		t.Fatalf("Now advanced by %v, want 120ms", got)
	}

	clock.Advance(100 * time.Millisecond)
	if len(fired) != 3 || fired[2] != "c" {
		t.Fatalf("fired = %v, want [b a c]", fired)
	}
}

func TestManualClockCancel(t *testing.T) {
	clock := NewManualClock()
	ran := false
	cancel := clock.After(10*time.Millisecond, func() { ran = true })
	cancel()
	clock.Advance(time.Second)
	if ran {
		t.Fatal("canceled timer fired")
	}
	if clock.Pending() != 0 {
		t.Fatalf("Pending = %d after cancel+advance, want 0", clock.Pending())
	}
	// Cancel is idempotent.
	cancel()
}

func TestManualClockSameDeadlineOrder(t *testing.T) {
	clock := NewManualClock()
	var fired []int
	for i := 0; i < 4; i++ {
		i := i
		clock.After(time.Millisecond, func() { fired = append(fired, i) })
	}
	clock.Advance(time.Millisecond)
	for i, got := range fired {
		if got != i {
			t.Fatalf("fired = %v, want schedule order", fired)
		}
	}
}

func TestManualClockNestedSchedule(t *testing.T) {
	clock := NewManualClock()
	var fired []string
	clock.After(10*time.Millisecond, func() {
		fired = append(fired, "outer")
		// Due inside the same advance window; must fire in this Advance.
		clock.After(5*time.Millisecond, func() { fired = append(fired, "inner") })
		// Beyond the window; must wait.
		clock.After(time.Hour, func() { fired = append(fired, "late") })
	})

	clock.Advance(20 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "outer" || fired[1] != "inner" {
		t.Fatalf("fired = %v, want [outer inner]", fired)
	}
	if clock.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", clock.Pending())
	}
}

func TestSystemClockPost(t *testing.T) {
	posts := make(chan func(), 1)
	clock := NewSystemClock(func(fn func()) { posts <- fn })

	done := false
	clock.After(time.Millisecond, func() { done = true })

	select {
	case fn := <-posts:
		if done {
			t.Fatal("callback ran before the post was drained")
		}
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timer never posted")
	}
	if !done {
		t.Fatal("posted callback did not run")
	}
}

func TestSystemClockCancel(t *testing.T) {
	posts := make(chan func(), 1)
	clock := NewSystemClock(func(fn func()) { posts <- fn })

	cancel := clock.After(10*time.Second, func() {
		t.Error("canceled timer posted its callback")
	})
	cancel()

	select {
	case fn := <-posts:
		fn()
	case <-time.After(50 * time.Millisecond):
	}
}
