package overlay

import (
	"fmt"

	"github.com/buoy-ui/buoy/pkg/anchor"
)

// Styles carries the style maps the widget applies verbatim. Values are CSS
// lengths or keywords, never computed by the widget.
type Styles struct {
	Popper map[string]string
	Arrow  map[string]string
}

// Attrs carries the attribute maps for the two managed elements. The widget
// and its visual layer own everything else.
type Attrs struct {
	Popper  map[string]string
	Trigger map[string]string
}

// Update is the single data bundle emitted on every lifecycle and position
// change. Position is nil when no computation has run yet.
type Update struct {
	State    State
	Styles   Styles
	Attrs    Attrs
	Position *anchor.Result
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}

// buildUpdate assembles the bundle for the current state and the most
// recent position result.
func buildUpdate(state State, res *anchor.Result) Update {
	upd := Update{
		State:    state,
		Position: res,
		Styles:   Styles{Popper: map[string]string{}, Arrow: map[string]string{}},
		Attrs: Attrs{
			Popper:  map[string]string{"data-state": state.String()},
			Trigger: map[string]string{},
		},
	}

	expanded := "false"
	if state == StateOpening || state == StateOpen {
		expanded = "true"
	}
	upd.Attrs.Trigger["aria-expanded"] = expanded

	if res == nil {
		return upd
	}

	upd.Styles.Popper["left"] = px(res.X)
	upd.Styles.Popper["top"] = px(res.Y)
	if res.Hidden {
		upd.Styles.Popper["visibility"] = "hidden"
	} else {
		upd.Styles.Popper["visibility"] = "visible"
	}
	if res.Limits != nil {
		upd.Styles.Popper["max-width"] = px(res.Limits.MaxWidth)
		upd.Styles.Popper["max-height"] = px(res.Limits.MaxHeight)
	}
	if res.Arrow != nil {
		upd.Styles.Arrow["left"] = px(res.Arrow.X)
		upd.Styles.Arrow["top"] = px(res.Arrow.Y)
	}

	upd.Attrs.Popper["data-side"] = res.Placement.Side.String()
	upd.Attrs.Popper["data-align"] = res.Placement.Align.String()
	return upd
}
