package enginetest

import (
	"testing"
	"time"

	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/overlay"
)

// Env bundles a document with a manual clock for deterministic tests.
// Time only moves through Advance, so delay and transition behavior is
// reproducible.
type Env struct {
	Doc   *dom.Document
	Clock *dom.ManualClock
}

// New creates a test environment with a 1024x768 viewport. Use Resize to
// change it.
func New(t *testing.T) *Env {
	t.Helper()
	clock := dom.NewManualClock()
	doc := dom.NewDocument(
		dom.WithClock(clock),
		dom.WithViewport(geom.Size{Width: 1024, Height: 768}),
	)
	return &Env{Doc: doc, Clock: clock}
}

// Advance moves the clock forward, firing any timers that come due.
func (e *Env) Advance(d time.Duration) {
	e.Clock.Advance(d)
}

// Node builders.

// Trigger returns a focusable node with the given frame.
func Trigger(id string, x, y, w, h float64) *dom.Node {
	return dom.NewNode(id).At(x, y, w, h).SetFocusable(true)
}

// Panel returns a floating container of the given size with optional
// children. Its position is irrelevant until the engine places it.
func Panel(id string, w, h float64, children ...*dom.Node) *dom.Node {
	return dom.NewNode(id).At(0, 0, w, h).Append(children...)
}

// MenuItem returns a focusable node carrying the "menu-item" marker.
func MenuItem(id string) *dom.Node {
	return dom.NewNode(id).SetFocusable(true).Mark("menu-item")
}

// Event shorthands. Each dispatches through the environment's document.

func (e *Env) PointerDown(target dom.Element, x, y float64) {
	e.Doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown, Target: target, Point: geom.Point{X: x, Y: y}})
}

func (e *Env) PointerUp(target dom.Element, x, y float64) {
	e.Doc.Dispatch(dom.PointerEvent{Kind: dom.PointerUp, Target: target, Point: geom.Point{X: x, Y: y}})
}

// Click sends a pointer down and up pair at the same point.
func (e *Env) Click(target dom.Element, x, y float64) {
	e.PointerDown(target, x, y)
	e.PointerUp(target, x, y)
}

// Hover reports the pointer entering target.
func (e *Env) Hover(target dom.Element) {
	e.Doc.Dispatch(dom.PointerEvent{Kind: dom.PointerEnter, Target: target})
}

// Unhover reports the pointer leaving target.
func (e *Env) Unhover(target dom.Element) {
	e.Doc.Dispatch(dom.PointerEvent{Kind: dom.PointerLeave, Target: target})
}

// KeyDown dispatches a key press and returns the event so callers can
// check whether a widget consumed it.
func (e *Env) KeyDown(target dom.Element, key string, mods dom.Modifiers) *dom.KeyEvent {
	ev := &dom.KeyEvent{Kind: dom.KeyDown, Target: target, Key: key, Code: key, Mods: mods}
	e.Doc.Dispatch(ev)
	return ev
}

// Tab presses Tab with focus on target.
func (e *Env) Tab(target dom.Element) *dom.KeyEvent {
	return e.KeyDown(target, "Tab", 0)
}

// ShiftTab presses Shift+Tab with focus on target.
func (e *Env) ShiftTab(target dom.Element) *dom.KeyEvent {
	return e.KeyDown(target, "Tab", dom.ModShift)
}

// Escape presses Escape with no particular target.
func (e *Env) Escape() *dom.KeyEvent {
	return e.KeyDown(nil, "Escape", 0)
}

// Focus moves engine focus to target, as a widget would.
func (e *Env) Focus(target dom.Element) {
	e.Doc.SetFocus(target)
}

// FocusIn reports host-side focus landing on target.
func (e *Env) FocusIn(target dom.Element) {
	e.Doc.Dispatch(dom.FocusEvent{Kind: dom.FocusIn, Target: target})
}

// Scroll reports a viewport scroll.
func (e *Env) Scroll(left, top float64) {
	e.Doc.Dispatch(dom.ScrollEvent{Left: left, Top: top})
}

// Resize reports a viewport resize; the document's viewport follows.
func (e *Env) Resize(w, h float64) {
	e.Doc.Dispatch(dom.ResizeEvent{Size: geom.Size{Width: w, Height: h}})
}

// TransitionEnd reports a CSS transition finishing on target.
func (e *Env) TransitionEnd(target dom.Element, property string) {
	e.Doc.Dispatch(dom.TransitionEvent{Kind: dom.TransitionEnd, Target: target, Property: property})
}

// Recorder captures overlay update bundles. Pass Record as OnUpdate.
//
//	rec := &enginetest.Recorder{}
//	ov, _ := overlay.New(doc, trigger, panel, &overlay.Options{OnUpdate: rec.Record})
type Recorder struct {
	Updates []overlay.Update
}

// Record appends an update. Method value form satisfies Options.OnUpdate.
func (r *Recorder) Record(u overlay.Update) {
	r.Updates = append(r.Updates, u)
}

// Last returns the most recent update, or a zero Update when none arrived.
func (r *Recorder) Last() overlay.Update {
	if len(r.Updates) == 0 {
		return overlay.Update{}
	}
	return r.Updates[len(r.Updates)-1]
}

// States returns the state of every recorded update in order.
func (r *Recorder) States() []overlay.State {
	states := make([]overlay.State, len(r.Updates))
	for i, u := range r.Updates {
		states[i] = u.State
	}
	return states
}

// Reset clears recorded updates.
func (r *Recorder) Reset() {
	r.Updates = nil
}

// Assertions.

// ExpectState asserts the most recent update carries the wanted state.
func ExpectState(t *testing.T, rec *Recorder, want overlay.State) {
	t.Helper()
	if len(rec.Updates) == 0 {
		t.Fatalf("no updates recorded, want state %v", want)
	}
	if got := rec.Last().State; got != want {
		t.Errorf("state = %v, want %v (history %v)", got, want, rec.States())
	}
}

// ExpectPopperAttr asserts an attribute value on the floating element in
// the most recent update.
func ExpectPopperAttr(t *testing.T, rec *Recorder, key, want string) {
	t.Helper()
	got, ok := rec.Last().Attrs.Popper[key]
	if !ok {
		t.Errorf("popper attribute %q not set, want %q", key, want)
		return
	}
	if got != want {
		t.Errorf("popper attribute %q = %q, want %q", key, got, want)
	}
}

// ExpectTriggerAttr asserts an attribute value on the trigger element in
// the most recent update.
func ExpectTriggerAttr(t *testing.T, rec *Recorder, key, want string) {
	t.Helper()
	got, ok := rec.Last().Attrs.Trigger[key]
	if !ok {
		t.Errorf("trigger attribute %q not set, want %q", key, want)
		return
	}
	if got != want {
		t.Errorf("trigger attribute %q = %q, want %q", key, got, want)
	}
}

// ExpectPopperStyle asserts a style value on the floating element in the
// most recent update.
func ExpectPopperStyle(t *testing.T, rec *Recorder, key, want string) {
	t.Helper()
	got, ok := rec.Last().Styles.Popper[key]
	if !ok {
		t.Errorf("popper style %q not set, want %q", key, want)
		return
	}
	if got != want {
		t.Errorf("popper style %q = %q, want %q", key, got, want)
	}
}

// ExpectFocus asserts the document's active element.
func ExpectFocus(t *testing.T, doc *dom.Document, want dom.Element) {
	t.Helper()
	got := doc.ActiveElement()
	if got == want {
		return
	}
	gotID, wantID := "<nil>", "<nil>"
	if got != nil {
		gotID = got.ID()
	}
	if want != nil {
		wantID = want.ID()
	}
	t.Errorf("active element = %s, want %s", gotID, wantID)
}
