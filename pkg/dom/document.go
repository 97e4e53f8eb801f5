package dom

import (
	"io"
	"log/slog"
	"time"

	"github.com/buoy-ui/buoy/internal/arena"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/metrics"
)

// Middleware intercepts event dispatch. It must call next() exactly once to
// continue delivery; skipping next() swallows the event.
type Middleware func(ev Event, next func())

// Option configures a document.
type Option func(*Document)

// WithClock sets the document clock. Tests install a ManualClock; remote
// sessions install a SystemClock posting into their work channel.
func WithClock(c Clock) Option {
	return func(d *Document) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithLogger sets the document logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics collector shared by the engine components
// scoped to this document.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Document) {
		d.collector = c
	}
}

// WithViewport sets the initial viewport size.
func WithViewport(s geom.Size) Option {
	return func(d *Document) {
		d.viewport = s
	}
}

// Document is the engine-side stand-in for the host environment: the single
// place input events enter, timers are scheduled, focus is tracked, and
// per-instance engine state is stored.
//
// A document and everything scoped to it are confined to one goroutine.
// Every operation runs synchronously inside Dispatch, a posted microtask, or
// a timer callback marshaled onto that goroutine; there is no locking and no
// parallel execution.
type Document struct {
	clock     Clock
	logger    *slog.Logger
	collector *metrics.Collector

	viewport geom.Size
	active   Element

	store      *arena.Store[any]
	middleware []Middleware

	depth  int
	posted []func()

	pointerDown  *registry[PointerEvent]
	pointerUp    *registry[PointerEvent]
	pointerMove  *registry[PointerEvent]
	pointerEnter *registry[PointerEvent]
	pointerLeave *registry[PointerEvent]
	keyDown      *registry[*KeyEvent]
	keyUp        *registry[*KeyEvent]
	focusIn      *registry[FocusEvent]
	focusOut     *registry[FocusEvent]
	resize       *registry[ResizeEvent]
	scroll       *registry[ScrollEvent]
	transition   *registry[TransitionEvent]
	focusReq     *registry[Element]
}

// NewDocument creates a document. Without options it uses an inline system
// clock, a discarding logger, no metrics, and a 1024x768 viewport.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		clock:    NewSystemClock(nil),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		viewport: geom.Size{Width: 1024, Height: 768},
		store:    arena.NewStore[any](),

		pointerDown:  newRegistry[PointerEvent](),
		pointerUp:    newRegistry[PointerEvent](),
		pointerMove:  newRegistry[PointerEvent](),
		pointerEnter: newRegistry[PointerEvent](),
		pointerLeave: newRegistry[PointerEvent](),
		keyDown:      newRegistry[*KeyEvent](),
		keyUp:        newRegistry[*KeyEvent](),
		focusIn:      newRegistry[FocusEvent](),
		focusOut:     newRegistry[FocusEvent](),
		resize:       newRegistry[ResizeEvent](),
		scroll:       newRegistry[ScrollEvent](),
		transition:   newRegistry[TransitionEvent](),
		focusReq:     newRegistry[Element](),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Logger returns the document logger.
func (d *Document) Logger() *slog.Logger { return d.logger }

// Metrics returns the metrics collector. It may be nil; the collector's
// record methods tolerate that.
func (d *Document) Metrics() *metrics.Collector { return d.collector }

// Arena returns the document's instance state store. Engine components keep
// their per-instance state here, keyed by id, rather than on elements.
func (d *Document) Arena() *arena.Store[any] { return d.store }

// Viewport returns the viewport rectangle at the origin.
func (d *Document) Viewport() geom.Rect {
	return geom.RectOf(d.viewport)
}

// ActiveElement returns the element that currently has focus, or nil.
func (d *Document) ActiveElement() Element { return d.active }

// Now returns the current time from the document clock.
func (d *Document) Now() time.Time { return d.clock.Now() }

// After schedules fn on the document after dur. The callback runs with
// microtask draining, like a dispatch.
func (d *Document) After(dur time.Duration, fn func()) (cancel func()) {
	return d.clock.After(dur, func() {
		d.run(fn)
	})
}

// Post queues fn to run after the current dispatch finishes delivering.
// Outside a dispatch it runs immediately. This is the "one tick later" used
// to keep an opening gesture from being observed by the listeners the open
// itself attached.
func (d *Document) Post(fn func()) {
	d.posted = append(d.posted, fn)
	if d.depth == 0 {
		d.drain()
	}
}

// Use appends a dispatch interceptor. The first middleware added is the
// outermost.
func (d *Document) Use(mw Middleware) {
	if mw != nil {
		d.middleware = append(d.middleware, mw)
	}
}

// Dispatch delivers a host event to every registered listener, running the
// middleware chain around delivery and draining posted microtasks afterward.
func (d *Document) Dispatch(ev Event) {
	d.run(func() { d.invoke(ev) })
}

// SetFocus moves focus to el, notifying the host through the focus-request
// hook and emitting the corresponding focus events. Engine components call
// this; hosts apply it to their real focus and must not echo it back as a
// new focus event.
func (d *Document) SetFocus(el Element) {
	if el == d.active {
		return
	}
	old := d.active
	d.active = el
	d.run(func() {
		if el != nil {
			d.focusReq.emit(el)
		}
		if old != nil {
			d.focusOut.emit(FocusEvent{Kind: FocusOut, Target: old})
		}
		if el != nil {
			d.focusIn.emit(FocusEvent{Kind: FocusIn, Target: el})
		}
	})
}

// OnFocusRequest registers a host hook invoked when the engine moves focus.
func (d *Document) OnFocusRequest(fn func(Element)) (cancel func()) {
	return d.focusReq.subscribe(fn)
}

// OnPointerDown registers a pointer-down listener.
func (d *Document) OnPointerDown(fn func(PointerEvent)) (cancel func()) {
	return d.pointerDown.subscribe(fn)
}

// OnPointerUp registers a pointer-up listener.
func (d *Document) OnPointerUp(fn func(PointerEvent)) (cancel func()) {
	return d.pointerUp.subscribe(fn)
}

// OnPointerMove registers a pointer-move listener.
func (d *Document) OnPointerMove(fn func(PointerEvent)) (cancel func()) {
	return d.pointerMove.subscribe(fn)
}

// OnPointerEnter registers a pointer-enter listener.
func (d *Document) OnPointerEnter(fn func(PointerEvent)) (cancel func()) {
	return d.pointerEnter.subscribe(fn)
}

// OnPointerLeave registers a pointer-leave listener.
func (d *Document) OnPointerLeave(fn func(PointerEvent)) (cancel func()) {
	return d.pointerLeave.subscribe(fn)
}

// OnKeyDown registers a key-down listener.
func (d *Document) OnKeyDown(fn func(*KeyEvent)) (cancel func()) {
	return d.keyDown.subscribe(fn)
}

// OnKeyUp registers a key-up listener.
func (d *Document) OnKeyUp(fn func(*KeyEvent)) (cancel func()) {
	return d.keyUp.subscribe(fn)
}

// OnFocusIn registers a focus-gain listener.
func (d *Document) OnFocusIn(fn func(FocusEvent)) (cancel func()) {
	return d.focusIn.subscribe(fn)
}

// OnFocusOut registers a focus-loss listener.
func (d *Document) OnFocusOut(fn func(FocusEvent)) (cancel func()) {
	return d.focusOut.subscribe(fn)
}

// OnResize registers a viewport resize listener.
func (d *Document) OnResize(fn func(ResizeEvent)) (cancel func()) {
	return d.resize.subscribe(fn)
}

// OnScroll registers a scroll listener.
func (d *Document) OnScroll(fn func(ScrollEvent)) (cancel func()) {
	return d.scroll.subscribe(fn)
}

// OnTransition registers a transition end/cancel listener.
func (d *Document) OnTransition(fn func(TransitionEvent)) (cancel func()) {
	return d.transition.subscribe(fn)
}

// ListenerCount returns the number of live listener registrations across all
// event kinds. Deactivated components must bring this back to its prior
// value; leak tests rely on that.
func (d *Document) ListenerCount() int {
	return d.pointerDown.size() + d.pointerUp.size() + d.pointerMove.size() +
		d.pointerEnter.size() + d.pointerLeave.size() +
		d.keyDown.size() + d.keyUp.size() +
		d.focusIn.size() + d.focusOut.size() +
		d.resize.size() + d.scroll.size() + d.transition.size()
}

// run executes fn at one dispatch depth, draining microtasks when the
// outermost frame exits.
func (d *Document) run(fn func()) {
	d.depth++
	fn()
	d.depth--
	if d.depth == 0 {
		d.drain()
	}
}

// drain runs queued microtasks until none remain. Tasks posted while
// draining run in the same drain.
func (d *Document) drain() {
	for len(d.posted) > 0 {
		fn := d.posted[0]
		d.posted = d.posted[1:]
		d.depth++
		fn()
		d.depth--
	}
}

// invoke runs the middleware chain around route.
func (d *Document) invoke(ev Event) {
	next := func() { d.route(ev) }
	for i := len(d.middleware) - 1; i >= 0; i-- {
		mw := d.middleware[i]
		inner := next
		next = func() { mw(ev, inner) }
	}
	next()
}

// route updates document state and fans the event out to its registry.
func (d *Document) route(ev Event) {
	switch e := ev.(type) {
	case PointerEvent:
		switch e.Kind {
		case PointerDown:
			d.pointerDown.emit(e)
		case PointerUp:
			d.pointerUp.emit(e)
		case PointerMove:
			d.pointerMove.emit(e)
		case PointerEnter:
			d.pointerEnter.emit(e)
		case PointerLeave:
			d.pointerLeave.emit(e)
		}

	case *KeyEvent:
		if e.Kind == KeyUp {
			d.keyUp.emit(e)
		} else {
			d.keyDown.emit(e)
		}

	case FocusEvent:
		if e.Kind == FocusIn {
			d.active = e.Target
			d.focusIn.emit(e)
		} else {
			if d.active == e.Target {
				d.active = nil
			}
			d.focusOut.emit(e)
		}

	case ResizeEvent:
		d.viewport = e.Size
		d.resize.emit(e)

	case ScrollEvent:
		d.scroll.emit(e)

	case TransitionEvent:
		d.transition.emit(e)

	default:
		d.logger.Warn("unroutable event", "event", ev.Name())
	}
}
