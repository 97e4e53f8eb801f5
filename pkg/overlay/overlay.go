// Package overlay orchestrates the open/close lifecycle of a floating
// element relative to its trigger.
//
// One Overlay composes the position engine, the dismiss detector, the
// gesture detector, and optionally a focus trap into a four-state machine:
// closed, opening, open, closing. The intermediate states wait out the
// visual transition through pkg/motion, so a show during the closing fade
// interrupts it cleanly and a lost transition signal cannot wedge the
// overlay.
//
// The overlay computes and decides; it never paints. Widgets receive every
// style and attribute through OnUpdate and apply the bundle themselves.
package overlay

import (
	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/dismiss"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/focustrap"
	"github.com/buoy-ui/buoy/pkg/gesture"
	"github.com/buoy-ui/buoy/pkg/motion"
)

// Overlay drives one trigger/floating pair.
type Overlay struct {
	doc      *dom.Document
	trigger  dom.Element
	floating dom.Element
	opts     Options

	state   State
	gen     int
	lastRes *anchor.Result

	dismisser *dismiss.Detector
	trap      *focustrap.Trap
	wait      *motion.Wait

	triggerHovered  bool
	floatingHovered bool
	delayCancel     func()

	triggerGesture  *gesture.Detector
	floatingGesture *gesture.Detector

	modeCancels []func()
	openCancels []func()

	destroyed bool
}

// New wires an overlay for the given trigger and floating element. A nil
// opts uses DefaultOptions. The trigger mode's gesture handling attaches
// immediately; the overlay starts closed.
func New(doc *dom.Document, trigger, floating dom.Element, opts *Options) (*Overlay, error) {
	if doc == nil {
		return nil, errors.New("E001")
	}
	if trigger == nil {
		return nil, errors.New("E002")
	}
	if floating == nil {
		return nil, errors.New("E003")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	o := &Overlay{
		doc:      doc,
		trigger:  trigger,
		floating: floating,
		opts:     *opts,
		state:    StateClosed,
	}
	if err := o.wireMode(); err != nil {
		return nil, err
	}

	o.emit()
	return o, nil
}

// State returns the current lifecycle state.
func (o *Overlay) State() State { return o.state }

// Show opens the overlay. While opening or open it is a no-op; while
// closing it interrupts the fade and reopens.
func (o *Overlay) Show() {
	if o.destroyed || o.state == StateOpening || o.state == StateOpen {
		return
	}
	o.cancelDelay()
	o.supersedeWait()

	wasClosed := o.state == StateClosed
	o.setState(StateOpening)
	if wasClosed {
		o.doc.Metrics().OverlayOpened()
	}
	if o.opts.OnShow != nil {
		o.opts.OnShow()
	}

	o.Reposition()
	if wasClosed {
		o.attachOpen()
	} else {
		o.attachDismiss()
	}

	gen := o.gen
	o.wait = motion.Start(o.doc, motion.Config{
		Element:  o.floating,
		Property: o.opts.TransitionProperty,
		Duration: o.opts.TransitionDuration,
		Buffer:   o.opts.MotionBuffer,
		OnDone: func(motion.Reason) {
			if o.destroyed || o.gen != gen {
				return
			}
			o.finishShow()
		},
	})
}

// Hide closes the overlay. While closing or closed it is a no-op; while
// opening it interrupts the fade-in.
func (o *Overlay) Hide() {
	if o.destroyed || o.state == StateClosing || o.state == StateClosed {
		return
	}
	o.cancelDelay()
	o.supersedeWait()

	o.setState(StateClosing)
	if o.opts.OnHide != nil {
		o.opts.OnHide()
	}

	// Dismissal's work is done once closing starts.
	o.deactivateDismiss()
	o.emit()

	gen := o.gen
	o.wait = motion.Start(o.doc, motion.Config{
		Element:  o.floating,
		Property: o.opts.TransitionProperty,
		Duration: o.opts.TransitionDuration,
		Buffer:   o.opts.MotionBuffer,
		OnDone: func(motion.Reason) {
			if o.destroyed || o.gen != gen {
				return
			}
			o.finishHide()
		},
	})
}

// Toggle shows a closed or closing overlay and hides an open or opening
// one.
func (o *Overlay) Toggle() {
	if o.state == StateClosed || o.state == StateClosing {
		o.Show()
	} else {
		o.Hide()
	}
}

// Reposition recomputes the floating element's position from current
// geometry and re-emits the update bundle. It is a no-op while closed.
func (o *Overlay) Reposition() *anchor.Result {
	if o.destroyed || o.state == StateClosed {
		return nil
	}
	cfg := o.opts.Position
	if cfg.Boundary.Empty() {
		cfg.Boundary = o.doc.Viewport()
	}
	res := anchor.Compute(o.trigger.Rect(), o.floating.Rect(), cfg)
	o.lastRes = &res
	o.doc.Metrics().PositionComputed(res.Flipped)
	o.emit()
	return &res
}

// Destroy tears the overlay down: every listener, detector, and timer it
// owns is released and all future callbacks stop. An in-flight motion wait
// is not aborted; its resolution is ignored. Idempotent.
func (o *Overlay) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.gen++
	o.cancelDelay()
	o.detachOpen()
	if o.state.Visible() {
		o.doc.Metrics().OverlayClosed()
	}
	o.state = StateClosed

	for _, cancel := range o.modeCancels {
		cancel()
	}
	o.modeCancels = nil
	if o.triggerGesture != nil {
		o.triggerGesture.Close()
		o.triggerGesture = nil
	}
	if o.floatingGesture != nil {
		o.floatingGesture.Close()
		o.floatingGesture = nil
	}
}

// finishShow settles the opening transition.
func (o *Overlay) finishShow() {
	o.wait = nil
	o.setState(StateOpen)
	o.emit()
	if o.opts.OnShown != nil {
		o.opts.OnShown()
	}
}

// finishHide settles the closing transition and releases everything scoped
// to the visible lifetime.
func (o *Overlay) finishHide() {
	o.wait = nil
	o.detachOpen()
	o.setState(StateClosed)
	o.doc.Metrics().OverlayClosed()
	o.lastRes = nil
	o.emit()
	if o.opts.OnHidden != nil {
		o.opts.OnHidden()
	}
}

func (o *Overlay) setState(s State) {
	o.state = s
	o.gen++
	o.doc.Metrics().OverlayTransition(s.String())
	o.doc.Logger().Debug("overlay state", "state", s.String())
}

// emit builds the current update bundle and hands it to the widget.
func (o *Overlay) emit() {
	if o.opts.OnUpdate == nil {
		return
	}
	o.opts.OnUpdate(buildUpdate(o.state, o.lastRes))
}

// attachOpen activates everything scoped to the visible lifetime: the
// dismiss detector, the focus trap, and the reposition subscriptions.
func (o *Overlay) attachOpen() {
	o.attachDismiss()

	if o.opts.Trap {
		trap, err := focustrap.New(o.doc, focustrap.Config{
			Container:            o.floating,
			InitialFocus:         o.opts.InitialFocus,
			InitialFocusSelector: o.opts.InitialFocusSelector,
			SkipInitialFocus:     o.opts.SkipInitialFocus,
			SkipReturnFocus:      !o.opts.ReturnFocus,
		})
		if err == nil {
			o.trap = trap
			trap.Activate()
		}
	}

	o.openCancels = append(o.openCancels,
		o.doc.OnResize(func(dom.ResizeEvent) { o.Reposition() }),
		o.doc.OnScroll(func(dom.ScrollEvent) { o.Reposition() }),
	)
}

// detachOpen releases the visible-lifetime resources.
func (o *Overlay) detachOpen() {
	o.deactivateDismiss()
	if o.trap != nil {
		o.trap.Deactivate()
		o.trap = nil
	}
	for _, cancel := range o.openCancels {
		cancel()
	}
	o.openCancels = nil
}

// attachDismiss (re)activates the dismiss detector. Hide deactivates it as
// soon as closing starts, so a show that interrupts the fade rebuilds it.
func (o *Overlay) attachDismiss() {
	if o.dismisser != nil {
		return
	}
	if !o.opts.CloseOnEscape && !o.opts.CloseOnPointerDownOutside {
		return
	}
	o.dismisser = dismiss.New(o.doc, dismiss.Config{
		Owned:              []dom.Element{o.floating},
		Exclude:            append([]dom.Element{o.trigger}, o.opts.Exclude...),
		PointerDownOutside: o.opts.CloseOnPointerDownOutside,
		Escape:             o.opts.CloseOnEscape,
		OnDismiss:          func(dismiss.Dismissal) { o.Hide() },
	})
	o.dismisser.Activate()
}

func (o *Overlay) deactivateDismiss() {
	if o.dismisser != nil {
		o.dismisser.Deactivate()
		o.dismisser = nil
	}
}

// supersedeWait cancels an in-flight motion wait before starting its
// replacement. Destroy never calls this; a destroyed overlay lets the wait
// resolve and ignores it.
func (o *Overlay) supersedeWait() {
	if o.wait != nil {
		o.wait.Cancel()
		o.wait = nil
	}
}

func (o *Overlay) cancelDelay() {
	if o.delayCancel != nil {
		o.delayCancel()
		o.delayCancel = nil
	}
}

// wireMode attaches the trigger-mode gesture handling that lives for the
// overlay's whole lifetime.
func (o *Overlay) wireMode() error {
	switch o.opts.Trigger {
	case TriggerClick:
		o.modeCancels = append(o.modeCancels, o.doc.OnPointerDown(func(ev dom.PointerEvent) {
			if dom.Contains(o.trigger, ev.Target) {
				o.Toggle()
			}
		}))

	case TriggerHover:
		det, err := gesture.New(o.doc, gesture.Config{
			Element:  o.trigger,
			OnChange: o.onTriggerGesture,
		})
		if err != nil {
			return err
		}
		o.triggerGesture = det
		if o.opts.Interactive {
			det, err := gesture.New(o.doc, gesture.Config{
				Element:  o.floating,
				OnChange: o.onFloatingGesture,
			})
			if err != nil {
				o.triggerGesture.Close()
				return err
			}
			o.floatingGesture = det
		}

	case TriggerFocus:
		det, err := gesture.New(o.doc, gesture.Config{
			Element: o.trigger,
			OnChange: func(s gesture.State) {
				if s.Focused {
					o.Show()
				} else {
					o.Hide()
				}
			},
		})
		if err != nil {
			return err
		}
		o.triggerGesture = det

	case TriggerManual:
		// The caller drives Show and Hide.
	}
	return nil
}

func (o *Overlay) onTriggerGesture(s gesture.State) {
	was := o.triggerHovered
	o.triggerHovered = s.Hovered
	if s.Hovered == was {
		return
	}
	if s.Hovered {
		o.scheduleShow()
	} else if !o.floatingHovered {
		o.scheduleHide()
	}
}

// onFloatingGesture implements the interactive flag: hovering the floating
// element cancels a pending hide and keeps the overlay open.
func (o *Overlay) onFloatingGesture(s gesture.State) {
	was := o.floatingHovered
	o.floatingHovered = s.Hovered
	if s.Hovered == was {
		return
	}
	if s.Hovered {
		o.cancelDelay()
	} else if !o.triggerHovered {
		o.scheduleHide()
	}
}

func (o *Overlay) scheduleShow() {
	o.cancelDelay()
	if o.opts.Delay.Show <= 0 {
		o.Show()
		return
	}
	o.delayCancel = o.doc.After(o.opts.Delay.Show, func() {
		o.delayCancel = nil
		o.Show()
	})
}

func (o *Overlay) scheduleHide() {
	o.cancelDelay()
	if o.opts.Delay.Hide <= 0 {
		o.Hide()
		return
	}
	o.delayCancel = o.doc.After(o.opts.Delay.Hide, func() {
		o.delayCancel = nil
		o.Hide()
	})
}
