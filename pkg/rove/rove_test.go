package rove_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/rove"
)

// menu builds a container with items labeled by the given texts. Items whose
// text starts with '!' are disabled.
func menu(texts ...string) (*dom.Node, []*dom.Node) {
	container := dom.NewNode("menu")
	items := make([]*dom.Node, 0, len(texts))
	for i, text := range texts {
		disabled := false
		if text != "" && text[0] == '!' {
			disabled = true
			text = text[1:]
		}
		item := dom.NewNode(text + "-" + itoa(i)).
			Mark("item").
			SetFocusable(true).
			SetDisabled(disabled).
			SetText(text)
		container.Append(item)
		items = append(items, item)
	}
	return container, items
}

func itoa(i int) string { return string(rune('0' + i)) }

func newNav(t *testing.T, doc *dom.Document, container *dom.Node, cfg rove.Config) *rove.Navigator {
	t.Helper()
	cfg.Container = container
	cfg.Selector = ".item"
	nav, err := rove.New(doc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	nav.Activate()
	t.Cleanup(nav.Deactivate)
	return nav
}

func key(k string) *dom.KeyEvent {
	return &dom.KeyEvent{Kind: dom.KeyDown, Key: k}
}

func TestNewValidation(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := menu("a")

	var be *errors.BuoyError
	_, err := rove.New(nil, rove.Config{Container: container, Selector: ".item"})
	if !stderrors.As(err, &be) || be.Code != "E001" {
		t.Fatalf("err = %v, want E001", err)
	}
	_, err = rove.New(doc, rove.Config{Selector: ".item"})
	if !stderrors.As(err, &be) || be.Code != "E004" {
		t.Fatalf("err = %v, want E004", err)
	}
	_, err = rove.New(doc, rove.Config{Container: container})
	if !stderrors.As(err, &be) || be.Code != "E005" {
		t.Fatalf("err = %v, want E005", err)
	}
}

func TestArrowTraversal(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("Cut", "Copy", "Paste")
	nav := newNav(t, doc, container, rove.Config{})

	nav.FocusFirst()
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want Cut", nav.Active())
	}
	if doc.ActiveElement() != items[0] {
		t.Fatal("designation did not move focus")
	}

	doc.Dispatch(key("ArrowDown"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Copy", nav.Active())
	}
	doc.Dispatch(key("ArrowDown"))
	doc.Dispatch(key("ArrowDown")) // at the end, no wrap configured
	if nav.Active() != items[2] {
		t.Fatalf("active = %v, want Paste held at the end", nav.Active())
	}
	doc.Dispatch(key("ArrowUp"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Copy", nav.Active())
	}
}

func TestWrapSkipsDisabled(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("!Alpha", "Beta", "Gamma")
	nav := newNav(t, doc, container, rove.Config{Wrap: true})

	// ArrowUp from b wraps past the disabled a to c.
	nav.FocusItem(items[1])
	doc.Dispatch(key("ArrowUp"))
	if nav.Active() != items[2] {
		t.Fatalf("active = %v, want Gamma", nav.Active())
	}

	doc.Dispatch(key("ArrowDown"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want wrap to Beta", nav.Active())
	}
}

func TestHomeEndJumpToEnabledEdges(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("!First", "Second", "Third", "!Fourth")
	nav := newNav(t, doc, container, rove.Config{})

	doc.Dispatch(key("End"))
	if nav.Active() != items[2] {
		t.Fatalf("End -> %v, want Third", nav.Active())
	}
	doc.Dispatch(key("Home"))
	if nav.Active() != items[1] {
		t.Fatalf("Home -> %v, want Second", nav.Active())
	}
}

func TestAllDisabledIsInert(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := menu("!A", "!B")
	nav := newNav(t, doc, container, rove.Config{Wrap: true})

	nav.FocusFirst()
	nav.FocusLast()
	doc.Dispatch(key("ArrowDown"))
	doc.Dispatch(key("Home"))
	if nav.Active() != nil {
		t.Fatalf("active = %v, want none", nav.Active())
	}
}

func TestOrientation(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("One", "Two")

	nav := newNav(t, doc, container, rove.Config{Orientation: rove.Horizontal})
	nav.FocusFirst()
	doc.Dispatch(key("ArrowDown")) // vertical arrows ignored
	if nav.Active() != items[0] {
		t.Fatal("horizontal navigator moved on ArrowDown")
	}
	doc.Dispatch(key("ArrowRight"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Two", nav.Active())
	}
	nav.Deactivate()

	nav = newNav(t, doc, container, rove.Config{Orientation: rove.Both})
	nav.FocusFirst()
	doc.Dispatch(key("ArrowRight"))
	doc.Dispatch(key("ArrowDown")) // held at end without wrap
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Two", nav.Active())
	}
	doc.Dispatch(key("ArrowLeft"))
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want One", nav.Active())
	}
}

func TestNavKeysConsumed(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := menu("One")
	newNav(t, doc, container, rove.Config{})

	ev := key("ArrowDown")
	doc.Dispatch(ev)
	if !ev.Consumed() {
		t.Fatal("arrow not consumed")
	}

	ev = key("Enter")
	doc.Dispatch(ev)
	if ev.Consumed() {
		t.Fatal("activation key consumed; that belongs to the widget")
	}

	ev = key("a")
	ev.Mods = dom.ModCtrl
	doc.Dispatch(ev)
	if ev.Consumed() {
		t.Fatal("shortcut chord consumed")
	}
}

func TestTypeaheadPrefix(t *testing.T) {
	doc := dom.NewDocument(dom.WithClock(dom.NewManualClock()))
	container, items := menu("Banana", "Blueberry", "Cherry")
	nav := newNav(t, doc, container, rove.Config{})

	doc.Dispatch(key("b"))
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want Banana", nav.Active())
	}
	// Buffered: "b" then "l" refines to Blueberry.
	doc.Dispatch(key("l"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Blueberry", nav.Active())
	}
}

func TestTypeaheadStartsAfterActive(t *testing.T) {
	doc := dom.NewDocument(dom.WithClock(dom.NewManualClock()))
	container, items := menu("Cat", "Carrot", "Cactus")
	nav := newNav(t, doc, container, rove.Config{})

	// From Cat, "c" finds the next c-item, not Cat itself.
	nav.FocusItem(items[0])
	doc.Dispatch(key("c"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Carrot", nav.Active())
	}
	// Extending to "ca" searches after Carrot: Cactus matches first.
	doc.Dispatch(key("a"))
	if nav.Active() != items[2] {
		t.Fatalf("active = %v, want Cactus", nav.Active())
	}
}

func TestTypeaheadWrapsOnce(t *testing.T) {
	doc := dom.NewDocument(dom.WithClock(dom.NewManualClock()))
	container, items := menu("Apple", "Banana")
	nav := newNav(t, doc, container, rove.Config{})

	nav.FocusItem(items[1])
	doc.Dispatch(key("a"))
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want wrap to Apple", nav.Active())
	}
}

func TestTypeaheadResetAfterSilence(t *testing.T) {
	clock := dom.NewManualClock()
	doc := dom.NewDocument(dom.WithClock(clock))
	container, items := menu("Banana", "Lemon")
	nav := newNav(t, doc, container, rove.Config{})

	doc.Dispatch(key("b"))
	if nav.Active() != items[0] {
		t.Fatal("prefix b missed Banana")
	}

	// Within the window, "l" extends to "bl": no match, stay put.
	clock.Advance(400 * time.Millisecond)
	doc.Dispatch(key("l"))
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want Banana (query bl matches nothing)", nav.Active())
	}

	// After the silence window the buffer is fresh: "l" finds Lemon.
	clock.Advance(500 * time.Millisecond)
	doc.Dispatch(key("l"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Lemon", nav.Active())
	}
}

func TestTypeaheadSkipsDisabled(t *testing.T) {
	doc := dom.NewDocument(dom.WithClock(dom.NewManualClock()))
	container, items := menu("!Plum", "Peach")
	nav := newNav(t, doc, container, rove.Config{})

	doc.Dispatch(key("p"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Peach", nav.Active())
	}
}

func TestFuzzyMatcher(t *testing.T) {
	doc := dom.NewDocument(dom.WithClock(dom.NewManualClock()))
	container, items := menu("Grapefruit", "Orange")
	nav := newNav(t, doc, container, rove.Config{Matcher: rove.FuzzyMatch})

	doc.Dispatch(key("g"))
	doc.Dispatch(key("f"))
	if nav.Active() != items[0] {
		t.Fatalf("active = %v, want Grapefruit via subsequence gf", nav.Active())
	}
}

func TestRefreshAfterRosterChange(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("Old")
	nav := newNav(t, doc, container, rove.Config{})

	nav.FocusFirst()
	added := dom.NewNode("new-item").Mark("item").SetFocusable(true).SetText("New")
	container.Append(added)

	// Not visible until refresh.
	doc.Dispatch(key("ArrowDown"))
	if nav.Active() != items[0] {
		t.Fatal("navigator saw an item without Refresh")
	}

	nav.Refresh()
	doc.Dispatch(key("ArrowDown"))
	if nav.Active() != added {
		t.Fatalf("active = %v, want the added item", nav.Active())
	}

	// Removing the active item clears the designation on refresh.
	container.Remove(added)
	nav.Refresh()
	if nav.Active() != nil {
		t.Fatal("designation survived its item's removal")
	}
}

func TestFocusFollowsPointerFocus(t *testing.T) {
	doc := dom.NewDocument()
	container, items := menu("One", "Two", "Three")
	nav := newNav(t, doc, container, rove.Config{})
	nav.FocusFirst()

	// Hover focuses an item directly; arrows continue from there.
	doc.Dispatch(dom.FocusEvent{Kind: dom.FocusIn, Target: items[2]})
	if nav.Active() != items[2] {
		t.Fatalf("active = %v, want Three", nav.Active())
	}
	doc.Dispatch(key("ArrowUp"))
	if nav.Active() != items[1] {
		t.Fatalf("active = %v, want Two", nav.Active())
	}
}

func TestOnActiveCallback(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := menu("One", "Two")
	var seen []string
	nav := newNav(t, doc, container, rove.Config{
		OnActive: func(el dom.Element) { seen = append(seen, el.Text()) },
	})

	nav.FocusFirst()
	doc.Dispatch(key("ArrowDown"))
	if len(seen) != 2 || seen[0] != "One" || seen[1] != "Two" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestDeactivateRemovesListeners(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := menu("One")
	base := doc.ListenerCount()

	nav, err := rove.New(doc, rove.Config{Container: container, Selector: ".item"})
	if err != nil {
		t.Fatal(err)
	}
	nav.Activate()
	if doc.ListenerCount() == base {
		t.Fatal("activation attached nothing")
	}
	nav.Deactivate()
	nav.Deactivate()
	if doc.ListenerCount() != base {
		t.Fatalf("listeners = %d, want %d", doc.ListenerCount(), base)
	}
}
