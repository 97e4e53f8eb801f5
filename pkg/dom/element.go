package dom

import "github.com/buoy-ui/buoy/pkg/geom"

// Element is the engine's view of a host element: something with an identity,
// a measured rectangle, and a place in an ancestry tree. The engine never
// mutates elements and never stores state on them; it only reads geometry and
// structure.
//
// Implementations must be comparable so that identity checks (el == other)
// and ancestry walks work; *Node satisfies this, as does any pointer type.
type Element interface {
	// ID returns the host identifier for the element.
	ID() string

	// Rect returns the current geometry snapshot.
	Rect() geom.Rect

	// Parent returns the parent element, or nil at the root.
	Parent() Element

	// Focusable reports whether the element itself can receive focus.
	Focusable() bool

	// Disabled reports whether the element is disabled.
	Disabled() bool

	// Text returns the element's visible text, used by type-ahead matching.
	Text() string

	// Matches reports whether the element matches a host-defined selector.
	Matches(selector string) bool

	// Query returns the descendants matching selector, in document order.
	Query(selector string) []Element

	// Focusables returns the focusable, enabled descendants in navigation
	// order. The set is recomputed on every call; callers must not cache it.
	Focusables() []Element
}

// Contains reports whether el is ancestor itself or one of its descendants,
// by walking parents. A nil on either side is never contained.
func Contains(ancestor, el Element) bool {
	if ancestor == nil || el == nil {
		return false
	}
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// ContainedInAny reports whether el lies within any of the given subtrees.
func ContainedInAny(ancestors []Element, el Element) bool {
	for _, a := range ancestors {
		if Contains(a, el) {
			return true
		}
	}
	return false
}
