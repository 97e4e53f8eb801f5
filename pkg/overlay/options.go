package overlay

import (
	"time"

	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/dom"
)

// Delay separates the hover-mode show and hide delays. The hide delay
// doubles as the linger window for crossing the gap between trigger and
// floating element.
type Delay struct {
	Show time.Duration
	Hide time.Duration
}

// Options configures one overlay. Start from DefaultOptions and override.
type Options struct {
	// Trigger selects the gesture that opens the overlay.
	Trigger TriggerMode

	// Delay applies to hover mode only.
	Delay Delay

	// Interactive keeps a hover overlay open while the pointer is over the
	// floating element itself.
	Interactive bool

	// Exclude lists extra subtrees an outside pointer-down should tolerate.
	// The trigger is always excluded.
	Exclude []dom.Element

	// CloseOnEscape hides the overlay on the cancel key.
	CloseOnEscape bool

	// CloseOnPointerDownOutside hides the overlay on an outside
	// pointer-down.
	CloseOnPointerDownOutside bool

	// Trap activates a focus trap on the floating element while open.
	// Dialogs and menus want this; tooltips do not.
	Trap bool

	// InitialFocus, InitialFocusSelector, and SkipInitialFocus steer where
	// focus lands when the trap activates.
	InitialFocus         dom.Element
	InitialFocusSelector string
	SkipInitialFocus     bool

	// ReturnFocus restores focus to the pre-open element when the overlay
	// closes with a trap active.
	ReturnFocus bool

	// Position configures the placement computation. A zero Boundary means
	// the document viewport.
	Position anchor.Config

	// TransitionProperty is the style property whose transition signals
	// show/hide completion. Empty accepts any property.
	TransitionProperty string

	// TransitionDuration is the expected transition length. Zero means the
	// overlay does not animate and transitions settle on the next tick.
	TransitionDuration time.Duration

	// MotionBuffer pads the transition safety timer. Zero uses the motion
	// package default.
	MotionBuffer time.Duration

	// Lifecycle callbacks. OnShow/OnHide fire when a transition starts,
	// OnShown/OnHidden when it settles.
	OnShow   func()
	OnShown  func()
	OnHide   func()
	OnHidden func()

	// OnUpdate carries the style and attribute data the widget must apply.
	// The overlay never touches presentation itself.
	OnUpdate func(Update)
}

// DefaultOptions returns the baseline configuration: click trigger, flip and
// shift enabled, dismiss on escape and outside pointer-down, focus returned
// on close, opacity transitions.
func DefaultOptions() *Options {
	return &Options{
		Trigger:                   TriggerClick,
		CloseOnEscape:             true,
		CloseOnPointerDownOutside: true,
		ReturnFocus:               true,
		Position: anchor.Config{
			Placement: anchor.DefaultPlacement,
			Flip:      true,
			Shift:     true,
		},
		TransitionProperty: "opacity",
	}
}
