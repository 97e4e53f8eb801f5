// Package focustrap constrains keyboard navigation to one container while
// an overlay holds the user's attention, and hands focus back when it ends.
//
// Traps nest: a dialog opened from a menu pauses the menu's trap, owns the
// Tab cycle while it is up, and resumes the outer trap on teardown. Each
// trap keeps its context in the document arena under its own id, never on
// the elements it manages.
package focustrap

import (
	"github.com/buoy-ui/buoy/internal/arena"
	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/dom"
)

// Config describes the trapped container and how focus enters and leaves it.
type Config struct {
	// Container bounds the Tab cycle. Required.
	Container dom.Element

	// InitialFocus receives focus on activation when set. It wins over
	// InitialFocusSelector.
	InitialFocus dom.Element

	// InitialFocusSelector picks the activation target by query inside the
	// container. Used when InitialFocus is nil.
	InitialFocusSelector string

	// SkipInitialFocus leaves focus where it is on activation.
	SkipInitialFocus bool

	// SkipReturnFocus leaves focus where it is on deactivation. By default
	// the trap restores the element that was focused when it activated.
	SkipReturnFocus bool
}

// context is the per-activation state, held in the document arena.
type context struct {
	previous    dom.Element
	lastFocused dom.Element
	paused      bool
}

// Trap cycles Tab and Shift+Tab through the focusable descendants of one
// container between Activate and Deactivate.
type Trap struct {
	doc     *dom.Document
	cfg     Config
	id      arena.ID
	cancels []func()
}

// New creates an inactive trap. The document and container are required.
func New(doc *dom.Document, cfg Config) (*Trap, error) {
	if doc == nil {
		return nil, errors.New("E001")
	}
	if cfg.Container == nil {
		return nil, errors.New("E004")
	}
	return &Trap{doc: doc, cfg: cfg}, nil
}

// Active reports whether the trap is currently holding focus.
func (t *Trap) Active() bool { return t.id != 0 }

// Paused reports whether an inner trap has taken over the cycle.
func (t *Trap) Paused() bool {
	ctx := t.context()
	return ctx != nil && ctx.paused
}

// Activate remembers the currently focused element, begins intercepting Tab,
// and moves focus into the container. Resolution order for the activation
// target: explicit element, then selector match, then first focusable
// descendant; SkipInitialFocus disables the move entirely. Activating an
// active trap does nothing.
func (t *Trap) Activate() {
	if t.Active() {
		return
	}
	ctx := &context{previous: t.doc.ActiveElement()}
	t.id = t.doc.Arena().Put(ctx)

	t.cancels = append(t.cancels,
		t.doc.OnKeyDown(t.onKeyDown),
		t.doc.OnFocusIn(t.onFocusIn),
	)

	if target := t.initialTarget(); target != nil {
		t.doc.SetFocus(target)
	}
	t.doc.Metrics().TrapActivated()
}

// Deactivate releases the trap and, unless configured otherwise, returns
// focus to the element remembered at activation. Idempotent.
func (t *Trap) Deactivate() {
	ctx := t.context()
	if ctx == nil {
		return
	}
	for _, cancel := range t.cancels {
		cancel()
	}
	t.cancels = nil
	t.doc.Arena().Drop(t.id)
	t.id = 0

	if !t.cfg.SkipReturnFocus && ctx.previous != nil {
		t.doc.SetFocus(ctx.previous)
	}
	t.doc.Metrics().TrapDeactivated()
}

// Pause hands the Tab cycle to a nested trap without losing this trap's
// restore target.
func (t *Trap) Pause() {
	if ctx := t.context(); ctx != nil {
		ctx.paused = true
	}
}

// Resume takes the Tab cycle back. If focus wandered outside the container
// while paused, it returns to the last element focused inside it.
func (t *Trap) Resume() {
	ctx := t.context()
	if ctx == nil {
		return
	}
	ctx.paused = false
	if ctx.lastFocused != nil && !dom.Contains(t.cfg.Container, t.doc.ActiveElement()) {
		t.doc.SetFocus(ctx.lastFocused)
	}
}

func (t *Trap) context() *context {
	if t.id == 0 {
		return nil
	}
	v, ok := t.doc.Arena().Get(t.id)
	if !ok {
		return nil
	}
	return v.(*context)
}

func (t *Trap) initialTarget() dom.Element {
	if t.cfg.SkipInitialFocus {
		return nil
	}
	if t.cfg.InitialFocus != nil {
		return t.cfg.InitialFocus
	}
	if sel := t.cfg.InitialFocusSelector; sel != "" {
		for _, el := range t.cfg.Container.Query(sel) {
			if el.Focusable() && !el.Disabled() {
				return el
			}
		}
	}
	if focusables := t.cfg.Container.Focusables(); len(focusables) > 0 {
		return focusables[0]
	}
	return nil
}

func (t *Trap) onFocusIn(ev dom.FocusEvent) {
	ctx := t.context()
	if ctx == nil || ctx.paused {
		return
	}
	if dom.Contains(t.cfg.Container, ev.Target) {
		ctx.lastFocused = ev.Target
	}
}

// onKeyDown wraps Tab at the cycle edges. The focusable set is recomputed on
// every key press; overlay content changes between presses.
func (t *Trap) onKeyDown(ev *dom.KeyEvent) {
	ctx := t.context()
	if ctx == nil || ctx.paused {
		return
	}
	if ev.Key != "Tab" || ev.Consumed() {
		return
	}

	focusables := t.cfg.Container.Focusables()
	if len(focusables) == 0 {
		ev.Consume()
		return
	}

	backward := ev.Mods.Has(dom.ModShift)
	current := t.doc.ActiveElement()
	idx := indexOf(focusables, current)

	switch {
	case idx < 0:
		// Focus escaped the container; recapture at the entry edge.
		if backward {
			t.wrapTo(ev, focusables[len(focusables)-1])
		} else {
			t.wrapTo(ev, focusables[0])
		}
	case backward && idx == 0:
		t.wrapTo(ev, focusables[len(focusables)-1])
	case !backward && idx == len(focusables)-1:
		t.wrapTo(ev, focusables[0])
	}
	// Between the edges the host's own ordering applies.
}

func (t *Trap) wrapTo(ev *dom.KeyEvent, target dom.Element) {
	ev.Consume()
	t.doc.SetFocus(target)
}

func indexOf(els []dom.Element, el dom.Element) int {
	if el == nil {
		return -1
	}
	for i, e := range els {
		if e == el {
			return i
		}
	}
	return -1
}
