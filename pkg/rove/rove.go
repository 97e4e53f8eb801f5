// Package rove implements single-active-item keyboard traversal: arrow keys
// move one "active" designation through a collection, Home and End jump to
// the edges, and printable keys look items up by their text.
//
// The navigator is independent of overlays. A menu activates one while its
// popover is open; a tab strip or listbox can run one permanently.
package rove

import (
	"time"

	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/dom"
)

// Orientation selects which arrow keys move the designation.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
	Both
)

// Item is one roster entry. Disabled is the predicate result captured at the
// last Refresh; movement never re-evaluates it.
type Item struct {
	El       dom.Element
	Disabled bool
}

// Config describes the collection and how to traverse it.
type Config struct {
	// Container holds the items. Required.
	Container dom.Element

	// Selector identifies the items inside the container. Required.
	Selector string

	// Wrap makes Next from the last item continue at the first and Prev
	// from the first continue at the last.
	Wrap bool

	// Orientation selects the arrow key pairs. Vertical is the default.
	Orientation Orientation

	// Disabled overrides the per-item disabled predicate. When nil the
	// element's own Disabled flag decides.
	Disabled func(dom.Element) bool

	// ResetAfter is the type-ahead silence timeout. Zero means 500ms.
	ResetAfter time.Duration

	// Matcher resolves a type-ahead query against the item labels and
	// returns the index of the winner, or -1. When nil a case-insensitive
	// prefix match is used.
	Matcher MatchFunc

	// OnActive is invoked whenever the designation moves.
	OnActive func(dom.Element)
}

// Navigator moves the active designation through the roster.
type Navigator struct {
	doc     *dom.Document
	cfg     Config
	roster  []Item
	active  dom.Element
	ahead   *typeahead
	cancels []func()
	running bool
}

// New creates an inactive navigator. The document, container, and selector
// are required.
func New(doc *dom.Document, cfg Config) (*Navigator, error) {
	if doc == nil {
		return nil, errors.New("E001")
	}
	if cfg.Container == nil {
		return nil, errors.New("E004")
	}
	if cfg.Selector == "" {
		return nil, errors.New("E005")
	}
	if cfg.ResetAfter <= 0 {
		cfg.ResetAfter = 500 * time.Millisecond
	}
	if cfg.Matcher == nil {
		cfg.Matcher = PrefixMatch
	}
	n := &Navigator{doc: doc, cfg: cfg}
	n.ahead = newTypeahead(doc, cfg.ResetAfter)
	return n, nil
}

// Activate snapshots the roster and begins handling keys. It does not move
// the designation; call FocusFirst when opening a menu.
func (n *Navigator) Activate() {
	if n.running {
		return
	}
	n.running = true
	n.Refresh()
	n.cancels = append(n.cancels,
		n.doc.OnKeyDown(n.onKeyDown),
		n.doc.OnFocusIn(n.onFocusIn),
	)
}

// Deactivate stops handling keys and forgets the roster. Idempotent.
func (n *Navigator) Deactivate() {
	if !n.running {
		return
	}
	n.running = false
	for _, cancel := range n.cancels {
		cancel()
	}
	n.cancels = nil
	n.ahead.stop()
	n.roster = nil
	n.active = nil
}

// Refresh rebuilds the roster from the container. The roster is a snapshot;
// callers must refresh after items are added, removed, or change their
// disabled state. A designation pointing at a removed item is cleared.
func (n *Navigator) Refresh() {
	els := n.cfg.Container.Query(n.cfg.Selector)
	n.roster = n.roster[:0]
	for _, el := range els {
		n.roster = append(n.roster, Item{El: el, Disabled: n.disabled(el)})
	}
	if n.active != nil && n.indexOf(n.active) < 0 {
		n.active = nil
	}
}

// Items returns the current roster snapshot.
func (n *Navigator) Items() []Item { return n.roster }

// Active returns the currently designated element, or nil.
func (n *Navigator) Active() dom.Element { return n.active }

// FocusFirst designates the first enabled item.
func (n *Navigator) FocusFirst() {
	for i := range n.roster {
		if !n.roster[i].Disabled {
			n.designate(n.roster[i].El)
			return
		}
	}
}

// FocusLast designates the last enabled item.
func (n *Navigator) FocusLast() {
	for i := len(n.roster) - 1; i >= 0; i-- {
		if !n.roster[i].Disabled {
			n.designate(n.roster[i].El)
			return
		}
	}
}

// FocusNext moves the designation forward, skipping disabled items. Without
// a current designation it behaves like FocusFirst.
func (n *Navigator) FocusNext() { n.step(1) }

// FocusPrev moves the designation backward, skipping disabled items.
// Without a current designation it behaves like FocusLast.
func (n *Navigator) FocusPrev() { n.step(-1) }

// FocusItem designates el if it is an enabled roster item; otherwise it is
// a no-op.
func (n *Navigator) FocusItem(el dom.Element) {
	idx := n.indexOf(el)
	if idx < 0 || n.roster[idx].Disabled {
		return
	}
	n.designate(el)
}

func (n *Navigator) step(dir int) {
	if len(n.roster) == 0 {
		return
	}
	start := n.indexOf(n.active)
	if start < 0 {
		if dir > 0 {
			n.FocusFirst()
		} else {
			n.FocusLast()
		}
		return
	}
	idx := start
	for {
		idx += dir
		if idx < 0 || idx >= len(n.roster) {
			if !n.cfg.Wrap {
				return
			}
			idx = (idx + len(n.roster)) % len(n.roster)
		}
		if idx == start {
			return
		}
		if !n.roster[idx].Disabled {
			n.designate(n.roster[idx].El)
			return
		}
	}
}

func (n *Navigator) designate(el dom.Element) {
	n.active = el
	n.doc.SetFocus(el)
	if n.cfg.OnActive != nil {
		n.cfg.OnActive(el)
	}
}

func (n *Navigator) disabled(el dom.Element) bool {
	if n.cfg.Disabled != nil {
		return n.cfg.Disabled(el)
	}
	return el.Disabled()
}

func (n *Navigator) indexOf(el dom.Element) int {
	if el == nil {
		return -1
	}
	for i := range n.roster {
		if n.roster[i].El == el {
			return i
		}
	}
	return -1
}

// onFocusIn follows focus moved by other means (pointer hover, a click on
// an item) so arrows continue from there.
func (n *Navigator) onFocusIn(ev dom.FocusEvent) {
	if idx := n.indexOf(ev.Target); idx >= 0 && !n.roster[idx].Disabled {
		n.active = ev.Target
	}
}

func (n *Navigator) onKeyDown(ev *dom.KeyEvent) {
	if ev.Consumed() || ev.Mods.Has(dom.ModCtrl) || ev.Mods.Has(dom.ModAlt) || ev.Mods.Has(dom.ModMeta) {
		return
	}

	next, prev := "ArrowDown", "ArrowUp"
	switch n.cfg.Orientation {
	case Horizontal:
		next, prev = "ArrowRight", "ArrowLeft"
	case Both:
		switch ev.Key {
		case "ArrowDown", "ArrowRight":
			ev.Consume()
			n.FocusNext()
			return
		case "ArrowUp", "ArrowLeft":
			ev.Consume()
			n.FocusPrev()
			return
		}
	}

	switch ev.Key {
	case next:
		ev.Consume()
		n.FocusNext()
	case prev:
		ev.Consume()
		n.FocusPrev()
	case "Home":
		ev.Consume()
		n.FocusFirst()
	case "End":
		ev.Consume()
		n.FocusLast()
	default:
		if r, ok := printable(ev.Key); ok {
			ev.Consume()
			n.typeahead(r)
		}
	}
}

// typeahead extends the buffered query and designates the first match after
// the current item, wrapping once around the roster.
func (n *Navigator) typeahead(r rune) {
	query := n.ahead.extend(r)
	if len(n.roster) == 0 {
		return
	}

	start := n.indexOf(n.active) + 1
	labels := make([]string, 0, len(n.roster))
	order := make([]int, 0, len(n.roster))
	for off := 0; off < len(n.roster); off++ {
		idx := (start + off) % len(n.roster)
		if n.roster[idx].Disabled {
			continue
		}
		labels = append(labels, n.roster[idx].El.Text())
		order = append(order, idx)
	}
	if hit := n.cfg.Matcher(query, labels); hit >= 0 && hit < len(order) {
		n.designate(n.roster[order[hit]].El)
	}
}
