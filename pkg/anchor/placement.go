package anchor

import "strings"

// Side is the edge of the trigger a floating element attaches to.
type Side int

const (
	SideBottom Side = iota
	SideTop
	SideRight
	SideLeft
)

// String returns the side token used in placement strings.
func (s Side) String() string {
	switch s {
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	default:
		return "bottom"
	}
}

// Vertical reports whether the side sits above or below the trigger, which
// makes the horizontal axis the alignment axis.
func (s Side) Vertical() bool {
	return s == SideTop || s == SideBottom
}

// Opposite returns the side across the trigger.
func (s Side) Opposite() Side {
	switch s {
	case SideBottom:
		return SideTop
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	default:
		return SideRight
	}
}

// Align positions the floating element along the chosen side.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

// String returns the alignment token used in placement strings.
func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	default:
		return "center"
	}
}

// Placement is a normalized side and alignment pair. Combined tokens like
// "bottom-start" always decompose to this pair.
type Placement struct {
	Side  Side
	Align Align
}

// DefaultPlacement is used whenever a placement token is missing or not
// recognized.
var DefaultPlacement = Placement{Side: SideBottom, Align: AlignCenter}

// String renders the combined token. Center alignment is implied and
// omitted, so {bottom, center} is "bottom" and {top, end} is "top-end".
func (p Placement) String() string {
	if p.Align == AlignCenter {
		return p.Side.String()
	}
	return p.Side.String() + "-" + p.Align.String()
}

// ParsePlacement reads a combined placement token. Unrecognized input falls
// back to DefaultPlacement rather than failing; a bad placement is a styling
// preference, not a reason to refuse to position.
func ParsePlacement(token string) Placement {
	side, align, found := strings.Cut(strings.TrimSpace(token), "-")
	p := DefaultPlacement
	switch side {
	case "bottom":
		p.Side = SideBottom
	case "top":
		p.Side = SideTop
	case "right":
		p.Side = SideRight
	case "left":
		p.Side = SideLeft
	default:
		return DefaultPlacement
	}
	if !found {
		return p
	}
	switch align {
	case "start":
		p.Align = AlignStart
	case "end":
		p.Align = AlignEnd
	case "center":
		p.Align = AlignCenter
	default:
		return DefaultPlacement
	}
	return p
}

// fallbackOrder is the fixed flip priority list per requested side. The
// requested side always leads; the search stops at the first side with
// enough room and falls back to the requested side when none has it.
// Callers rely on the exact order, so it is not a best-fit search.
var fallbackOrder = map[Side][4]Side{
	SideBottom: {SideBottom, SideTop, SideRight, SideLeft},
	SideTop:    {SideTop, SideBottom, SideRight, SideLeft},
	SideRight:  {SideRight, SideLeft, SideBottom, SideTop},
	SideLeft:   {SideLeft, SideRight, SideBottom, SideTop},
}
