package anchor

import "github.com/buoy-ui/buoy/pkg/geom"

// Config controls one position computation.
//
// Offset pushes the floating element away from the trigger, perpendicular to
// the chosen side. Skidding slides it along the side. Both apply before any
// collision handling.
//
// A zero Boundary disables the collision steps (flip, shift, size, hidden);
// pkg/overlay substitutes the document viewport before calling Compute, so a
// zero boundary only reaches this package when a caller wants raw placement.
type Config struct {
	Placement    Placement
	Offset       float64
	Skidding     float64
	Flip         bool
	FlipPadding  float64
	Shift        bool
	ShiftPadding float64
	Size         bool
	Arrow        bool
	ArrowSize    geom.Size
	ArrowPadding float64
	Boundary     geom.Rect
}

// Limits carries the self-constraint a floating element should apply when it
// would otherwise overflow the boundary. Values are never negative.
type Limits struct {
	MaxWidth  float64
	MaxHeight float64
}

// Result is the outcome of one Compute call. X and Y are the floating
// element's top-left corner. Arrow, when requested, is the arrow box's
// top-left relative to the floating element. Results are produced fresh on
// every call; geometry may change between calls, so nothing is cached.
type Result struct {
	X         float64
	Y         float64
	Placement Placement
	Flipped   bool
	Arrow     *geom.Point
	Limits    *Limits
	Hidden    bool
}

// Compute positions a floating rectangle against a trigger rectangle. It is
// a pure function of its inputs and safe to call at any frequency.
//
// The pipeline order is fixed: flip picks the side, base placement applies
// alignment with offset and skidding, shift clamps each axis into the
// boundary, size derives the remaining room past the clamped origin, and the
// arrow offset is computed against the final coordinates.
func Compute(trigger, floating geom.Rect, cfg Config) Result {
	trigger = trigger.Normalize()
	floating = floating.Normalize()
	boundary := cfg.Boundary.Normalize()
	bounded := !boundary.Empty()

	side := cfg.Placement.Side
	flipped := false
	if cfg.Flip && bounded {
		side = resolveSide(trigger, floating, boundary, cfg)
		flipped = side != cfg.Placement.Side
	}

	x, y := basePosition(trigger, floating, side, cfg)

	if cfg.Shift && bounded {
		pad := cfg.ShiftPadding
		x = geom.Clamp(x, boundary.Left+pad, boundary.Right()-floating.Width-pad)
		y = geom.Clamp(y, boundary.Top+pad, boundary.Bottom()-floating.Height-pad)
	}

	res := Result{
		X:         x,
		Y:         y,
		Placement: Placement{Side: side, Align: cfg.Placement.Align},
		Flipped:   flipped,
		Hidden:    bounded && !trigger.Intersects(boundary),
	}

	if cfg.Size && bounded {
		res.Limits = &Limits{
			MaxWidth:  max(0, boundary.Right()-x),
			MaxHeight: max(0, boundary.Bottom()-y),
		}
	}

	if cfg.Arrow {
		pt := arrowOffset(trigger, floating, side, x, y, cfg)
		res.Arrow = &pt
	}

	return res
}

// resolveSide walks the requested side's fallback order and returns the
// first side whose available space fits the floating element. When no side
// fits, the requested side wins.
func resolveSide(trigger, floating, boundary geom.Rect, cfg Config) Side {
	avail := map[Side]float64{
		SideTop:    trigger.Top - boundary.Top - cfg.FlipPadding,
		SideBottom: boundary.Bottom() - trigger.Bottom() - cfg.FlipPadding,
		SideLeft:   trigger.Left - boundary.Left - cfg.FlipPadding,
		SideRight:  boundary.Right() - trigger.Right() - cfg.FlipPadding,
	}
	for _, side := range fallbackOrder[cfg.Placement.Side] {
		need := floating.Width
		if side.Vertical() {
			need = floating.Height
		}
		if avail[side] >= need {
			return side
		}
	}
	return cfg.Placement.Side
}

// basePosition computes the pre-collision coordinates for a side. The
// alignment axis runs along the side; skidding slides along it and offset
// pushes away from the trigger.
func basePosition(trigger, floating geom.Rect, side Side, cfg Config) (x, y float64) {
	if side.Vertical() {
		switch cfg.Placement.Align {
		case AlignStart:
			x = trigger.Left
		case AlignEnd:
			x = trigger.Right() - floating.Width
		default:
			x = trigger.CenterX() - floating.Width/2
		}
		x += cfg.Skidding
		if side == SideBottom {
			y = trigger.Bottom() + cfg.Offset
		} else {
			y = trigger.Top - floating.Height - cfg.Offset
		}
		return x, y
	}

	switch cfg.Placement.Align {
	case AlignStart:
		y = trigger.Top
	case AlignEnd:
		y = trigger.Bottom() - floating.Height
	default:
		y = trigger.CenterY() - floating.Height/2
	}
	y += cfg.Skidding
	if side == SideRight {
		x = trigger.Right() + cfg.Offset
	} else {
		x = trigger.Left - floating.Width - cfg.Offset
	}
	return x, y
}

// arrowOffset points the arrow box back at the trigger center, clamped so it
// never leaves the floating element's edge, and pins it half outside the
// edge facing the trigger.
func arrowOffset(trigger, floating geom.Rect, side Side, x, y float64, cfg Config) geom.Point {
	aw := cfg.ArrowSize.Width
	ah := cfg.ArrowSize.Height
	pad := cfg.ArrowPadding

	if side.Vertical() {
		ax := geom.Clamp(trigger.CenterX()-x-aw/2, pad, floating.Width-aw-pad)
		ay := -ah / 2
		if side == SideTop {
			ay = floating.Height - ah/2
		}
		return geom.Point{X: ax, Y: ay}
	}

	ay := geom.Clamp(trigger.CenterY()-y-ah/2, pad, floating.Height-ah-pad)
	ax := -aw / 2
	if side == SideLeft {
		ax = floating.Width - aw/2
	}
	return geom.Point{X: ax, Y: ay}
}
