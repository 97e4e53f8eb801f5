// Package dismiss watches for the gestures that mean "close this overlay":
// a pointer-down outside the managed elements or a press of the cancel key.
//
// Detectors share the document's event registries rather than attaching
// their own host listeners, and several may be active at once, each
// filtering with its own owned and excluded subtrees.
package dismiss

import (
	"github.com/buoy-ui/buoy/pkg/dom"
)

// Reason identifies which gesture requested the dismissal.
type Reason int

const (
	ReasonPointerDownOutside Reason = iota
	ReasonEscape
)

// String returns the metrics label for the reason.
func (r Reason) String() string {
	if r == ReasonEscape {
		return "escape"
	}
	return "pointerdown-outside"
}

// Dismissal is passed to OnDismiss with the gesture that caused it.
type Dismissal struct {
	Reason Reason
	Event  dom.Event
}

// Config describes what counts as "outside" and which gestures to watch.
// The zero value watches nothing.
type Config struct {
	// Owned lists the subtrees that belong to the overlay itself. A
	// pointer-down inside any of them is not a dismissal.
	Owned []dom.Element

	// Exclude lists additional subtrees to tolerate, typically the trigger:
	// its own click handling decides what happens, not the detector.
	// Containment is by ancestry, so anything inside an excluded element is
	// excluded too.
	Exclude []dom.Element

	// PointerDownOutside enables the outside-pointer gesture.
	PointerDownOutside bool

	// Escape enables the cancel key gesture.
	Escape bool

	// OnDismiss is invoked once per dismissing gesture.
	OnDismiss func(Dismissal)
}

// Detector observes dismissal gestures between Activate and Deactivate.
type Detector struct {
	doc     *dom.Document
	cfg     Config
	active  bool
	gen     int
	cancels []func()
}

// New creates an inactive detector.
func New(doc *dom.Document, cfg Config) *Detector {
	return &Detector{doc: doc, cfg: cfg}
}

// Active reports whether the detector is currently observing.
func (d *Detector) Active() bool { return d.active }

// Activate begins observing. The outside-pointer listener attaches one tick
// late so the pointer-down that opened the overlay is not also judged as
// outside it; the cancel key attaches immediately. Calling Activate on an
// active detector does nothing.
func (d *Detector) Activate() {
	if d.active {
		return
	}
	d.active = true
	d.gen++
	gen := d.gen

	if d.cfg.Escape {
		d.cancels = append(d.cancels, d.doc.OnKeyDown(d.onKeyDown))
	}
	if d.cfg.PointerDownOutside {
		d.doc.Post(func() {
			if d.gen != gen || !d.active {
				return
			}
			d.cancels = append(d.cancels, d.doc.OnPointerDown(d.onPointerDown))
		})
	}
}

// Deactivate stops observing and removes every listener the detector
// attached. It is idempotent and also invalidates a deferred pointer
// attachment that has not run yet.
func (d *Detector) Deactivate() {
	if !d.active {
		return
	}
	d.active = false
	d.gen++
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}

func (d *Detector) onPointerDown(ev dom.PointerEvent) {
	if dom.ContainedInAny(d.cfg.Owned, ev.Target) {
		return
	}
	if dom.ContainedInAny(d.cfg.Exclude, ev.Target) {
		return
	}
	d.dismiss(Dismissal{Reason: ReasonPointerDownOutside, Event: ev})
}

func (d *Detector) onKeyDown(ev *dom.KeyEvent) {
	if ev.Key != "Escape" || ev.Consumed() {
		return
	}
	d.dismiss(Dismissal{Reason: ReasonEscape, Event: ev})
}

func (d *Detector) dismiss(dis Dismissal) {
	d.doc.Metrics().Dismissal(dis.Reason.String())
	d.doc.Logger().Debug("dismissal requested", "reason", dis.Reason.String())
	if d.cfg.OnDismiss != nil {
		d.cfg.OnDismiss(dis)
	}
}
