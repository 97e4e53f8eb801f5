package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/buoy-ui/buoy/pkg/dom"
)

// OTelConfig configures the OpenTelemetry dispatch middleware.
type OTelConfig struct {
	// TracerName is the name passed to the tracer provider (default: "buoy").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Filter decides whether an event is traced. Events that fail the
	// filter pass through without a span. Default: trace everything.
	Filter func(dom.Event) bool

	// AttributeExtractor appends custom attributes to each event span.
	AttributeExtractor func(dom.Event) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry dispatch middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider used instead of the global one.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a predicate deciding which events get a span.
func WithEventFilter(filter func(dom.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a function appending custom span attributes.
func WithAttributeExtractor(fn func(dom.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = fn
	}
}

// defaultOTelConfig returns the default tracing configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: "buoy",
	}
}

// OpenTelemetry creates middleware that opens a span around every dispatched
// event. Span names follow the event name ("dom.pointerdown", "dom.keydown"),
// and spans carry pointer coordinates, key codes, and target ids where the
// event has them.
//
// Dispatch runs on a single goroutine, so the middleware tracks the innermost
// open span and parents reentrant dispatches under it.
//
// Example:
//
//	doc.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithEventFilter(func(ev dom.Event) bool {
//	        return ev.Name() != "pointermove"
//	    }),
//	))
func OpenTelemetry(opts ...OTelOption) dom.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	parent := context.Background()
	return func(ev dom.Event, next func()) {
		if config.Filter != nil && !config.Filter(ev) {
			next()
			return
		}

		attrs := eventAttributes(ev)
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev)...)
		}

		outer := parent
		ctx, span := tracer.Start(outer, "dom."+ev.Name(),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		parent = ctx

		next()

		if key, ok := ev.(*dom.KeyEvent); ok && key.Consumed() {
			span.AddEvent("consumed")
		}
		parent = outer
		span.End()
	}
}

// eventAttributes builds the base span attributes for an event.
func eventAttributes(ev dom.Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("event.name", ev.Name()),
	}
	switch e := ev.(type) {
	case dom.PointerEvent:
		attrs = append(attrs,
			attribute.Float64("pointer.x", e.Point.X),
			attribute.Float64("pointer.y", e.Point.Y),
			attribute.Int("pointer.button", int(e.Button)),
		)
		if id := elementID(e.Target); id != "" {
			attrs = append(attrs, attribute.String("event.target", id))
		}
	case *dom.KeyEvent:
		attrs = append(attrs, attribute.String("key.code", e.Code))
		if id := elementID(e.Target); id != "" {
			attrs = append(attrs, attribute.String("event.target", id))
		}
	case dom.FocusEvent:
		if id := elementID(e.Target); id != "" {
			attrs = append(attrs, attribute.String("event.target", id))
		}
	case dom.ResizeEvent:
		attrs = append(attrs,
			attribute.Float64("viewport.width", e.Size.Width),
			attribute.Float64("viewport.height", e.Size.Height),
		)
	}
	return attrs
}

// elementID returns the element's id, empty for nil elements.
func elementID(el dom.Element) string {
	if el == nil {
		return ""
	}
	return el.ID()
}
