// Package motion waits for a visual transition to finish without trusting
// it to.
//
// A wait resolves on whichever fires first: the host's transition-end
// signal or a safety timer a little longer than the configured duration.
// The loser is canceled. An overlay can therefore never hang half-open
// because a completion signal got lost.
package motion

import (
	"time"

	"github.com/buoy-ui/buoy/pkg/dom"
)

// DefaultBuffer is added to the expected duration before the safety timer
// fires.
const DefaultBuffer = 50 * time.Millisecond

// Reason says which branch resolved the wait.
type Reason int

const (
	// DoneSignal means the transition-end (or cancel) signal arrived.
	DoneSignal Reason = iota
	// DoneTimeout means the safety timer fired first.
	DoneTimeout
	// DoneImmediate means no transition was configured; the wait resolved
	// on the next tick.
	DoneImmediate
	// DoneCanceled means Cancel was called before either branch fired.
	DoneCanceled
)

// String returns the metrics label for the reason.
func (r Reason) String() string {
	switch r {
	case DoneSignal:
		return "signal"
	case DoneTimeout:
		return "timeout"
	case DoneImmediate:
		return "immediate"
	default:
		return "canceled"
	}
}

// Config describes one transition to wait out.
type Config struct {
	// Element is the transitioning element. Signals from other elements are
	// ignored.
	Element dom.Element

	// Property filters the transition signal, e.g. "opacity". Empty accepts
	// any property on the element.
	Property string

	// Duration is the expected transition length. Zero means the element
	// does not animate; the wait resolves on the next tick.
	Duration time.Duration

	// Buffer is the safety margin added to Duration. Zero means
	// DefaultBuffer.
	Buffer time.Duration

	// OnDone receives the resolution exactly once.
	OnDone func(Reason)
}

// Wait is one in-flight motion wait.
type Wait struct {
	doc         *dom.Document
	cfg         Config
	done        bool
	cancelSub   func()
	cancelTimer func()
}

// Start begins waiting. The returned Wait resolves exactly once, through
// OnDone.
func Start(doc *dom.Document, cfg Config) *Wait {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	w := &Wait{doc: doc, cfg: cfg}

	if cfg.Duration <= 0 {
		doc.Post(func() { w.resolve(DoneImmediate) })
		return w
	}

	w.cancelSub = doc.OnTransition(w.onTransition)
	w.cancelTimer = doc.After(cfg.Duration+cfg.Buffer, func() {
		w.resolve(DoneTimeout)
	})
	return w
}

// Done reports whether the wait has resolved.
func (w *Wait) Done() bool { return w.done }

// Cancel resolves the wait with DoneCanceled without invoking OnDone. A
// superseded transition is canceled by whoever started its replacement.
func (w *Wait) Cancel() {
	if w.done {
		return
	}
	w.done = true
	w.stop()
	w.doc.Metrics().MotionResolved(DoneCanceled.String())
}

func (w *Wait) onTransition(ev dom.TransitionEvent) {
	if ev.Target != w.cfg.Element {
		return
	}
	if w.cfg.Property != "" && ev.Property != w.cfg.Property {
		return
	}
	w.resolve(DoneSignal)
}

func (w *Wait) resolve(reason Reason) {
	if w.done {
		return
	}
	w.done = true
	w.stop()
	w.doc.Metrics().MotionResolved(reason.String())
	if w.cfg.OnDone != nil {
		w.cfg.OnDone(reason)
	}
}

func (w *Wait) stop() {
	if w.cancelSub != nil {
		w.cancelSub()
		w.cancelSub = nil
	}
	if w.cancelTimer != nil {
		w.cancelTimer()
		w.cancelTimer = nil
	}
}
