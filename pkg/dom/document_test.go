package dom

import (
	"testing"
	"time"

	"github.com/buoy-ui/buoy/pkg/geom"
)

func TestDocumentDefaults(t *testing.T) {
	doc := NewDocument()
	if vp := doc.Viewport(); vp.Width != 1024 || vp.Height != 768 {
		t.Fatalf("default viewport = %+v", vp)
	}
	if doc.ActiveElement() != nil {
		t.Fatal("fresh document has an active element")
	}
	if doc.Logger() == nil {
		t.Fatal("nil default logger")
	}
	if doc.ListenerCount() != 0 {
		t.Fatal("fresh document has listeners")
	}
}

func TestDispatchPointer(t *testing.T) {
	doc := NewDocument()
	target := NewNode("btn")

	var got []PointerEvent
	doc.OnPointerDown(func(ev PointerEvent) { got = append(got, ev) })
	doc.OnPointerUp(func(ev PointerEvent) { t.Error("up listener saw a down event") })

	doc.Dispatch(PointerEvent{Kind: PointerDown, Target: target, Point: geom.Point{X: 3, Y: 4}})
	if len(got) != 1 || got[0].Target != target || got[0].Point.X != 3 {
		t.Fatalf("got = %+v", got)
	}
}

func TestDispatchListenerOrderAndCancel(t *testing.T) {
	doc := NewDocument()
	var order []string
	cancelA := doc.OnKeyDown(func(*KeyEvent) { order = append(order, "a") })
	doc.OnKeyDown(func(*KeyEvent) { order = append(order, "b") })

	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "Escape"})
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v", order)
	}

	cancelA()
	cancelA() // idempotent
	order = nil
	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "Escape"})
	if len(order) != 1 || order[0] != "b" {
		t.Fatalf("order after cancel = %v", order)
	}
}

func TestDispatchCancelDuringDelivery(t *testing.T) {
	doc := NewDocument()
	var order []string
	var cancelB func()
	doc.OnKeyDown(func(*KeyEvent) {
		order = append(order, "a")
		cancelB()
	})
	cancelB = doc.OnKeyDown(func(*KeyEvent) { order = append(order, "b") })

	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "x"})
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("order = %v, want cancel to take effect mid-delivery", order)
	}
}

func TestDispatchSubscribeDuringDelivery(t *testing.T) {
	doc := NewDocument()
	calls := 0
	doc.OnKeyDown(func(*KeyEvent) {
		if calls == 0 {
			doc.OnKeyDown(func(*KeyEvent) { calls += 10 })
		}
		calls++
	})

	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "x"})
	if calls != 1 {
		t.Fatalf("calls = %d; listener added during delivery must not see the same event", calls)
	}
	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "x"})
	if calls != 12 {
		t.Fatalf("calls = %d after second dispatch", calls)
	}
}

func TestKeyEventConsume(t *testing.T) {
	doc := NewDocument()
	doc.OnKeyDown(func(ev *KeyEvent) { ev.Consume() })
	seenConsumed := false
	doc.OnKeyDown(func(ev *KeyEvent) { seenConsumed = ev.Consumed() })

	ev := &KeyEvent{Kind: KeyDown, Key: "Escape"}
	doc.Dispatch(ev)
	if !seenConsumed {
		t.Fatal("later listener did not observe consumption")
	}
	if !ev.Consumed() {
		t.Fatal("dispatcher lost the consumed flag")
	}
}

func TestPostDefersUntilDispatchEnds(t *testing.T) {
	doc := NewDocument()
	var order []string
	doc.OnPointerDown(func(PointerEvent) {
		doc.Post(func() { order = append(order, "posted") })
		order = append(order, "listener")
	})
	doc.OnPointerDown(func(PointerEvent) { order = append(order, "second") })

	doc.Dispatch(PointerEvent{Kind: PointerDown})
	want := []string{"listener", "second", "posted"}
	for i, w := range want {
		if i >= len(order) || order[i] != w {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	// Outside a dispatch, Post runs immediately.
	ran := false
	doc.Post(func() { ran = true })
	if !ran {
		t.Fatal("Post outside dispatch did not run inline")
	}
}

func TestPostNestedDrainsInOrder(t *testing.T) {
	doc := NewDocument()
	var order []string
	doc.OnPointerDown(func(PointerEvent) {
		doc.Post(func() {
			order = append(order, "first")
			doc.Post(func() { order = append(order, "nested") })
		})
		doc.Post(func() { order = append(order, "second") })
	})

	doc.Dispatch(PointerEvent{Kind: PointerDown})
	want := []string{"first", "second", "nested"}
	if len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestMiddlewareWrapsDispatch(t *testing.T) {
	doc := NewDocument()
	var order []string
	doc.Use(func(ev Event, next func()) {
		order = append(order, "outer-before")
		next()
		order = append(order, "outer-after")
	})
	doc.Use(func(ev Event, next func()) {
		order = append(order, "inner-before")
		next()
		order = append(order, "inner-after")
	})
	doc.OnScroll(func(ScrollEvent) { order = append(order, "listener") })

	doc.Dispatch(ScrollEvent{Top: 10})
	want := []string{"outer-before", "inner-before", "listener", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMiddlewareCanSwallow(t *testing.T) {
	doc := NewDocument()
	doc.Use(func(ev Event, next func()) {
		if ev.Name() != "scroll" {
			next()
		}
	})
	delivered := false
	doc.OnScroll(func(ScrollEvent) { delivered = true })
	keyed := false
	doc.OnKeyDown(func(*KeyEvent) { keyed = true })

	doc.Dispatch(ScrollEvent{})
	doc.Dispatch(&KeyEvent{Kind: KeyDown, Key: "a"})
	if delivered {
		t.Fatal("swallowed event reached its listener")
	}
	if !keyed {
		t.Fatal("unswallowed event did not reach its listener")
	}
}

func TestFocusTracking(t *testing.T) {
	doc := NewDocument()
	a := NewNode("a").SetFocusable(true)
	b := NewNode("b").SetFocusable(true)

	doc.Dispatch(FocusEvent{Kind: FocusIn, Target: a})
	if doc.ActiveElement() != a {
		t.Fatal("focusin did not set the active element")
	}

	doc.Dispatch(FocusEvent{Kind: FocusIn, Target: b})
	if doc.ActiveElement() != b {
		t.Fatal("second focusin did not move the active element")
	}

	// Focusout for a stale element leaves the newer focus alone.
	doc.Dispatch(FocusEvent{Kind: FocusOut, Target: a})
	if doc.ActiveElement() != b {
		t.Fatal("stale focusout cleared the active element")
	}

	doc.Dispatch(FocusEvent{Kind: FocusOut, Target: b})
	if doc.ActiveElement() != nil {
		t.Fatal("focusout did not clear the active element")
	}
}

func TestSetFocus(t *testing.T) {
	doc := NewDocument()
	a := NewNode("a").SetFocusable(true)
	b := NewNode("b").SetFocusable(true)
	doc.Dispatch(FocusEvent{Kind: FocusIn, Target: a})

	var requested Element
	doc.OnFocusRequest(func(el Element) { requested = el })
	var order []string
	doc.OnFocusOut(func(ev FocusEvent) { order = append(order, "out:"+ev.Target.ID()) })
	doc.OnFocusIn(func(ev FocusEvent) { order = append(order, "in:"+ev.Target.ID()) })

	doc.SetFocus(b)
	if requested != b {
		t.Fatal("host focus hook not invoked")
	}
	if doc.ActiveElement() != b {
		t.Fatal("SetFocus did not update the active element")
	}
	if len(order) != 2 || order[0] != "out:a" || order[1] != "in:b" {
		t.Fatalf("order = %v, want [out:a in:b]", order)
	}

	// Refocusing the active element is a no-op.
	requested = nil
	doc.SetFocus(b)
	if requested != nil {
		t.Fatal("SetFocus on the active element re-notified the host")
	}
}

func TestAfterRunsThroughDocument(t *testing.T) {
	clock := NewManualClock()
	doc := NewDocument(WithClock(clock))

	var order []string
	doc.After(30*time.Millisecond, func() {
		order = append(order, "timer")
		doc.Post(func() { order = append(order, "posted") })
	})

	clock.Advance(29 * time.Millisecond)
	if len(order) != 0 {
		t.Fatal("timer fired early")
	}
	clock.Advance(time.Millisecond)
	if len(order) != 2 || order[0] != "timer" || order[1] != "posted" {
		t.Fatalf("order = %v, want [timer posted]", order)
	}
	if !doc.Now().Equal(clock.Now()) {
		t.Fatal("document clock not wired to manual clock")
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	doc := NewDocument(WithViewport(geom.Size{Width: 800, Height: 600}))
	if vp := doc.Viewport(); vp.Width != 800 {
		t.Fatalf("viewport option ignored: %+v", vp)
	}

	var seen geom.Size
	doc.OnResize(func(ev ResizeEvent) { seen = ev.Size })
	doc.Dispatch(ResizeEvent{Size: geom.Size{Width: 400, Height: 300}})
	if vp := doc.Viewport(); vp.Width != 400 || vp.Height != 300 {
		t.Fatalf("viewport after resize = %+v", vp)
	}
	if seen.Width != 400 {
		t.Fatal("resize listener not invoked")
	}
}

func TestListenerCount(t *testing.T) {
	doc := NewDocument()
	base := doc.ListenerCount()
	c1 := doc.OnPointerDown(func(PointerEvent) {})
	c2 := doc.OnKeyDown(func(*KeyEvent) {})
	c3 := doc.OnTransition(func(TransitionEvent) {})
	if doc.ListenerCount() != base+3 {
		t.Fatalf("ListenerCount = %d, want %d", doc.ListenerCount(), base+3)
	}
	c1()
	c2()
	c3()
	if doc.ListenerCount() != base {
		t.Fatalf("ListenerCount = %d after cancels, want %d", doc.ListenerCount(), base)
	}
}

func TestArenaScopedToDocument(t *testing.T) {
	docA := NewDocument()
	docB := NewDocument()
	id := docA.Arena().Put("state")
	if _, ok := docB.Arena().Get(id); ok {
		t.Fatal("arena leaked across documents")
	}
	if v, ok := docA.Arena().Get(id); !ok || v.(string) != "state" {
		t.Fatal("arena lost its entry")
	}
}
