package overlay

// State is the overlay lifecycle state. The intermediate states exist to
// straddle the motion wait: requests arriving mid-transition are ordered by
// the state machine, not queued.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

// String returns the state token used in data attributes and metrics.
func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Visible reports whether the floating element is on screen in this state,
// including the fade-in and fade-out phases.
func (s State) Visible() bool {
	return s != StateClosed
}

// TriggerMode selects which gesture opens the overlay.
type TriggerMode int

const (
	// TriggerClick toggles on pointer-down on the trigger.
	TriggerClick TriggerMode = iota
	// TriggerHover shows while the trigger (or, when interactive, the
	// floating element) is hovered, with configurable delays.
	TriggerHover
	// TriggerFocus shows while the trigger has focus.
	TriggerFocus
	// TriggerManual leaves show and hide entirely to the caller.
	TriggerManual
)

// String returns the mode token.
func (m TriggerMode) String() string {
	switch m {
	case TriggerHover:
		return "hover"
	case TriggerFocus:
		return "focus"
	case TriggerManual:
		return "manual"
	default:
		return "click"
	}
}

// ParseTriggerMode reads a mode token. Unrecognized input falls back to
// TriggerClick.
func ParseTriggerMode(token string) TriggerMode {
	switch token {
	case "hover":
		return TriggerHover
	case "focus":
		return TriggerFocus
	case "manual":
		return TriggerManual
	default:
		return TriggerClick
	}
}
