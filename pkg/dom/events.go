package dom

import (
	"time"

	"github.com/buoy-ui/buoy/pkg/geom"
)

// Modifiers is a bitmask of modifier keys held during an event.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 1 << 0
	ModShift Modifiers = 1 << 1
	ModAlt   Modifiers = 1 << 2
	ModMeta  Modifiers = 1 << 3
)

// Has returns true if the modifiers contain the specified modifier.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

// Event is an input notification delivered from the host environment.
// Name returns the host-level event name ("pointerdown", "keydown", ...),
// used for logging and metric labels.
type Event interface {
	Name() string
}

// PointerKind distinguishes the pointer event variants.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerUp
	PointerMove
	PointerEnter
	PointerLeave
)

// PointerEvent is a pointer notification. Target is the innermost element
// under the pointer, nil when the pointer is over no tracked element.
type PointerEvent struct {
	Kind   PointerKind
	Target Element
	Point  geom.Point
	Button Button
	Mods   Modifiers
}

// Name returns the host-level event name.
func (e PointerEvent) Name() string {
	switch e.Kind {
	case PointerDown:
		return "pointerdown"
	case PointerUp:
		return "pointerup"
	case PointerMove:
		return "pointermove"
	case PointerEnter:
		return "pointerenter"
	case PointerLeave:
		return "pointerleave"
	default:
		return "pointer"
	}
}

// KeyKind distinguishes key press and release.
type KeyKind uint8

const (
	KeyDown KeyKind = iota + 1
	KeyUp
)

// KeyEvent is a keyboard notification. Key carries the logical key identity
// ("Escape", "Tab", "ArrowDown", "a"), Code the physical key. KeyEvents are
// dispatched by pointer so a listener can consume them; the host reads
// Consumed after dispatch to decide whether its default handling should run.
type KeyEvent struct {
	Kind     KeyKind
	Target   Element
	Key      string
	Code     string
	Mods     Modifiers
	Repeat   bool
	consumed bool
}

// Name returns the host-level event name.
func (e *KeyEvent) Name() string {
	if e.Kind == KeyUp {
		return "keyup"
	}
	return "keydown"
}

// Consume marks the event as handled by the engine.
func (e *KeyEvent) Consume() {
	e.consumed = true
}

// Consumed reports whether a listener consumed the event.
func (e *KeyEvent) Consumed() bool {
	return e.consumed
}

// FocusKind distinguishes focus gain and loss.
type FocusKind uint8

const (
	FocusIn FocusKind = iota + 1
	FocusOut
)

// FocusEvent is a focus change notification.
type FocusEvent struct {
	Kind   FocusKind
	Target Element
}

// Name returns the host-level event name.
func (e FocusEvent) Name() string {
	if e.Kind == FocusOut {
		return "focusout"
	}
	return "focusin"
}

// ResizeEvent reports a new viewport size.
type ResizeEvent struct {
	Size geom.Size
}

// Name returns the host-level event name.
func (e ResizeEvent) Name() string { return "resize" }

// ScrollEvent reports a scroll. A nil Target means the viewport scrolled.
type ScrollEvent struct {
	Target Element
	Left   float64
	Top    float64
}

// Name returns the host-level event name.
func (e ScrollEvent) Name() string { return "scroll" }

// TransitionKind distinguishes transition completion and cancellation.
type TransitionKind uint8

const (
	TransitionEnd TransitionKind = iota + 1
	TransitionCancel
)

// TransitionEvent reports that a CSS transition on Target finished or was
// cut short.
type TransitionEvent struct {
	Kind     TransitionKind
	Target   Element
	Property string
	Elapsed  time.Duration
}

// Name returns the host-level event name.
func (e TransitionEvent) Name() string {
	if e.Kind == TransitionCancel {
		return "transitioncancel"
	}
	return "transitionend"
}
