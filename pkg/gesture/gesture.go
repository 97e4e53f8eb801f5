// Package gesture normalizes raw pointer and focus events into the
// interaction state of a single element: hovered, pressed, focused, and
// long-pressed.
//
// Widgets read gesture state instead of wiring their own event handlers;
// the overlay orchestrator drives hover and focus trigger modes from it.
package gesture

import (
	"time"

	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/dom"
)

// State is a snapshot of the element's interaction state.
type State struct {
	Hovered     bool
	Pressed     bool
	Focused     bool
	LongPressed bool
}

// Config describes the observed element.
type Config struct {
	// Element is the element whose gestures are tracked. Required.
	Element dom.Element

	// LongPressAfter is how long a press must hold before LongPressed is
	// set. Zero means 500ms.
	LongPressAfter time.Duration

	// OnChange is invoked with the new state whenever any field changes.
	OnChange func(State)
}

// Detector tracks one element's gesture state from construction until
// Close.
type Detector struct {
	doc       *dom.Document
	cfg       Config
	state     State
	cancels   []func()
	stopPress func()
	closed    bool
}

// New creates a detector and begins observing immediately.
func New(doc *dom.Document, cfg Config) (*Detector, error) {
	if doc == nil {
		return nil, errors.New("E001")
	}
	if cfg.Element == nil {
		return nil, errors.New("E002")
	}
	if cfg.LongPressAfter <= 0 {
		cfg.LongPressAfter = 500 * time.Millisecond
	}
	d := &Detector{doc: doc, cfg: cfg}
	d.cancels = append(d.cancels,
		doc.OnPointerEnter(d.onEnter),
		doc.OnPointerLeave(d.onLeave),
		doc.OnPointerDown(d.onDown),
		doc.OnPointerUp(d.onUp),
		doc.OnFocusIn(d.onFocusIn),
		doc.OnFocusOut(d.onFocusOut),
	)
	return d, nil
}

// State returns the current snapshot.
func (d *Detector) State() State { return d.state }

// Close stops observing and cancels a pending long-press timer. Idempotent.
func (d *Detector) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
	d.cancelPressTimer()
}

func (d *Detector) onEnter(ev dom.PointerEvent) {
	if !d.owns(ev.Target) {
		return
	}
	d.update(func(s *State) { s.Hovered = true })
}

func (d *Detector) onLeave(ev dom.PointerEvent) {
	if !d.owns(ev.Target) {
		return
	}
	d.update(func(s *State) { s.Hovered = false })
}

func (d *Detector) onDown(ev dom.PointerEvent) {
	if !d.owns(ev.Target) {
		return
	}
	d.update(func(s *State) { s.Pressed = true })
	d.cancelPressTimer()
	d.stopPress = d.doc.After(d.cfg.LongPressAfter, func() {
		d.stopPress = nil
		if d.state.Pressed {
			d.update(func(s *State) { s.LongPressed = true })
		}
	})
}

// onUp ends the press wherever the pointer is released; the press began on
// the element, the release often lands elsewhere.
func (d *Detector) onUp(ev dom.PointerEvent) {
	if !d.state.Pressed {
		return
	}
	d.cancelPressTimer()
	d.update(func(s *State) {
		s.Pressed = false
		s.LongPressed = false
	})
}

func (d *Detector) onFocusIn(ev dom.FocusEvent) {
	if !d.owns(ev.Target) {
		return
	}
	d.update(func(s *State) { s.Focused = true })
}

func (d *Detector) onFocusOut(ev dom.FocusEvent) {
	if !d.owns(ev.Target) {
		return
	}
	d.update(func(s *State) { s.Focused = false })
}

func (d *Detector) owns(target dom.Element) bool {
	return dom.Contains(d.cfg.Element, target)
}

func (d *Detector) update(mut func(*State)) {
	next := d.state
	mut(&next)
	if next == d.state {
		return
	}
	d.state = next
	if d.cfg.OnChange != nil {
		d.cfg.OnChange(next)
	}
}

func (d *Detector) cancelPressTimer() {
	if d.stopPress != nil {
		d.stopPress()
		d.stopPress = nil
	}
}
