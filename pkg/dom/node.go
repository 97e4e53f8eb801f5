package dom

import "github.com/buoy-ui/buoy/pkg/geom"

// Node is the concrete in-memory Element used by remote sessions and tests.
// Hosts update a node's geometry and flags as measurements arrive; the engine
// only ever reads them.
//
// Node's selector dialect is deliberately small: "#id" matches the node id,
// ".marker" (or a bare token) matches a marker previously added with Mark.
// Richer hosts implement Element with their own selector engine.
type Node struct {
	id        string
	rect      geom.Rect
	parent    *Node
	children  []*Node
	focusable bool
	disabled  bool
	text      string
	markers   map[string]struct{}
}

// NewNode creates a detached node.
func NewNode(id string) *Node {
	return &Node{id: id}
}

// ID returns the node id.
func (n *Node) ID() string { return n.id }

// Rect returns the current geometry snapshot.
func (n *Node) Rect() geom.Rect { return n.rect }

// Parent returns the parent element, or nil at the root.
func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Focusable reports whether the node can receive focus.
func (n *Node) Focusable() bool { return n.focusable }

// Disabled reports whether the node is disabled.
func (n *Node) Disabled() bool { return n.disabled }

// Text returns the node's text content.
func (n *Node) Text() string { return n.text }

// SetRect updates the node's geometry. The rect is normalized so inverted
// measurement boxes cannot leak into placement math.
func (n *Node) SetRect(r geom.Rect) *Node {
	n.rect = r.Normalize()
	return n
}

// At is shorthand for SetRect with origin and size.
func (n *Node) At(left, top, width, height float64) *Node {
	return n.SetRect(geom.RectFrom(left, top, width, height))
}

// SetFocusable marks the node as focusable.
func (n *Node) SetFocusable(v bool) *Node {
	n.focusable = v
	return n
}

// SetDisabled marks the node as disabled.
func (n *Node) SetDisabled(v bool) *Node {
	n.disabled = v
	return n
}

// SetText sets the node's text content.
func (n *Node) SetText(s string) *Node {
	n.text = s
	return n
}

// Mark adds selector markers to the node.
func (n *Node) Mark(markers ...string) *Node {
	if n.markers == nil {
		n.markers = make(map[string]struct{}, len(markers))
	}
	for _, m := range markers {
		n.markers[m] = struct{}{}
	}
	return n
}

// ClearMarkers removes every selector marker. Geometry mirrors call this
// before Mark so each update replaces the marker set instead of growing it.
func (n *Node) ClearMarkers() *Node {
	n.markers = nil
	return n
}

// Append adds children to the node, reparenting them. It returns the node
// for chaining.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Remove detaches a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// Matches reports whether the node matches the selector.
func (n *Node) Matches(selector string) bool {
	if selector == "" {
		return false
	}
	if selector[0] == '#' {
		return n.id == selector[1:]
	}
	if selector[0] == '.' {
		selector = selector[1:]
	}
	_, ok := n.markers[selector]
	return ok
}

// Query returns the descendants matching selector in document order. The
// node itself is not a candidate.
func (n *Node) Query(selector string) []Element {
	var out []Element
	n.walk(func(c *Node) {
		if c.Matches(selector) {
			out = append(out, c)
		}
	})
	return out
}

// Focusables returns the focusable, enabled descendants in document order.
func (n *Node) Focusables() []Element {
	var out []Element
	n.walk(func(c *Node) {
		if c.focusable && !c.disabled {
			out = append(out, c)
		}
	})
	return out
}

// walk visits descendants depth-first in insertion order.
func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.children {
		fn(c)
		c.walk(fn)
	}
}
