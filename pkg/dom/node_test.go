package dom

import (
	"testing"

	"github.com/buoy-ui/buoy/pkg/geom"
)

func TestNodeTree(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.Append(a).Append(b)

	if a.Parent() != root || b.Parent() != root {
		t.Fatal("children not parented to root")
	}
	if got := len(root.Children()); got != 2 {
		t.Fatalf("children = %d, want 2", got)
	}

	// Reparenting moves, never duplicates.
	a.Append(b)
	if b.Parent() != a {
		t.Fatal("b not reparented under a")
	}
	if got := len(root.Children()); got != 1 {
		t.Fatalf("root children after reparent = %d, want 1", got)
	}

	a.Remove(b)
	if b.Parent() != nil {
		t.Fatal("removed node still has a parent")
	}
}

func TestNodeContains(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.Append(mid)
	mid.Append(leaf)

	if !Contains(root, leaf) {
		t.Fatal("root should contain leaf")
	}
	if !Contains(root, root) {
		t.Fatal("an element contains itself")
	}
	if Contains(leaf, root) {
		t.Fatal("leaf should not contain root")
	}
	if Contains(root, nil) || Contains(nil, leaf) {
		t.Fatal("nil never participates in containment")
	}

	other := NewNode("other")
	if !ContainedInAny([]Element{other, mid}, leaf) {
		t.Fatal("leaf is under mid")
	}
	if ContainedInAny([]Element{other}, leaf) {
		t.Fatal("leaf is not under other")
	}
}

func TestNodeSelectors(t *testing.T) {
	menu := NewNode("menu").Mark("menu")
	first := NewNode("first").Mark("item")
	second := NewNode("second").Mark("item", "checked")
	nested := NewNode("nested").Mark("item")
	wrap := NewNode("wrap")
	menu.Append(first).Append(second).Append(wrap)
	wrap.Append(nested)

	if !second.Matches(".checked") || second.Matches(".missing") {
		t.Fatal("marker matching broken")
	}
	if !first.Matches("#first") || first.Matches("#second") {
		t.Fatal("id matching broken")
	}

	got := menu.Query(".item")
	if len(got) != 3 {
		t.Fatalf("Query(.item) = %d elements, want 3", len(got))
	}
	// Document order: first, second, then the nested item.
	if got[0].ID() != "first" || got[1].ID() != "second" || got[2].ID() != "nested" {
		t.Fatalf("Query order = %s,%s,%s", got[0].ID(), got[1].ID(), got[2].ID())
	}
}

func TestNodeFocusables(t *testing.T) {
	dialog := NewNode("dialog")
	a := NewNode("a").SetFocusable(true)
	b := NewNode("b").SetFocusable(true).SetDisabled(true)
	c := NewNode("c").SetFocusable(true)
	plain := NewNode("plain")
	dialog.Append(a).Append(b).Append(plain)
	plain.Append(c)

	got := dialog.Focusables()
	if len(got) != 2 {
		t.Fatalf("Focusables = %d, want 2", len(got))
	}
	if got[0].ID() != "a" || got[1].ID() != "c" {
		t.Fatalf("Focusables order = %s,%s, want a,c", got[0].ID(), got[1].ID())
	}
}

func TestNodeRectNormalized(t *testing.T) {
	n := NewNode("n").SetRect(geom.Rect{Left: 100, Top: 100, Width: -50, Height: 20})
	r := n.Rect()
	if r.Left != 50 || r.Width != 50 {
		t.Fatalf("rect not normalized: %+v", r)
	}
}
