package middleware

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/geom"
)

func TestOpenTelemetryMiddlewareCallsNext(t *testing.T) {
	doc := dom.NewDocument()
	doc.Use(OpenTelemetry())

	delivered := false
	doc.OnPointerDown(func(dom.PointerEvent) { delivered = true })

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown})

	if !delivered {
		t.Fatal("expected next to be called under the traced dispatch")
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	extracted := 0
	doc := dom.NewDocument()
	doc.Use(OpenTelemetry(
		WithEventFilter(func(ev dom.Event) bool { return ev.Name() != "pointermove" }),
		WithAttributeExtractor(func(dom.Event) []attribute.KeyValue {
			extracted++
			return nil
		}),
	))

	moved := false
	doc.OnPointerMove(func(dom.PointerEvent) { moved = true })

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerMove})
	if !moved {
		t.Fatal("filtered event must still reach listeners")
	}
	if extracted != 0 {
		t.Fatalf("extractor ran %d times for a filtered event, want 0", extracted)
	}

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown})
	if extracted != 1 {
		t.Fatalf("extractor ran %d times for a traced event, want 1", extracted)
	}
}

func TestOpenTelemetryAttributeExtractorSeesEvent(t *testing.T) {
	var seen string
	doc := dom.NewDocument()
	doc.Use(OpenTelemetry(
		WithTracerName("buoy-test"),
		WithAttributeExtractor(func(ev dom.Event) []attribute.KeyValue {
			seen = ev.Name()
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	doc.Dispatch(&dom.KeyEvent{Kind: dom.KeyDown, Key: "Escape", Code: "Escape"})

	if seen != "keydown" {
		t.Fatalf("extractor saw %q, want \"keydown\"", seen)
	}
}

func TestOpenTelemetryWithTracerProvider(t *testing.T) {
	doc := dom.NewDocument()
	doc.Use(OpenTelemetry(WithTracerProvider(noop.NewTracerProvider())))

	delivered := false
	doc.OnFocusIn(func(dom.FocusEvent) { delivered = true })

	doc.Dispatch(dom.FocusEvent{Kind: dom.FocusIn, Target: dom.NewNode("field").SetFocusable(true)})

	if !delivered {
		t.Fatal("expected next to be called with an injected provider")
	}
}

func TestEventAttributes(t *testing.T) {
	target := dom.NewNode("btn-1")

	find := func(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
		for _, kv := range attrs {
			if string(kv.Key) == key {
				return kv.Value, true
			}
		}
		return attribute.Value{}, false
	}

	t.Run("pointer", func(t *testing.T) {
		attrs := eventAttributes(dom.PointerEvent{
			Kind:   dom.PointerDown,
			Target: target,
			Point:  geom.Point{X: 12, Y: 34},
		})
		if v, ok := find(attrs, "event.name"); !ok || v.AsString() != "pointerdown" {
			t.Errorf("event.name = %v, want pointerdown", v.Emit())
		}
		if v, ok := find(attrs, "pointer.x"); !ok || v.AsFloat64() != 12 {
			t.Errorf("pointer.x = %v, want 12", v.Emit())
		}
		if v, ok := find(attrs, "event.target"); !ok || v.AsString() != "btn-1" {
			t.Errorf("event.target = %v, want btn-1", v.Emit())
		}
	})

	t.Run("pointer without target", func(t *testing.T) {
		attrs := eventAttributes(dom.PointerEvent{Kind: dom.PointerUp})
		if _, ok := find(attrs, "event.target"); ok {
			t.Error("nil target must not produce an event.target attribute")
		}
	})

	t.Run("key", func(t *testing.T) {
		attrs := eventAttributes(&dom.KeyEvent{Kind: dom.KeyDown, Key: "a", Code: "KeyA", Target: target})
		if v, ok := find(attrs, "key.code"); !ok || v.AsString() != "KeyA" {
			t.Errorf("key.code = %v, want KeyA", v.Emit())
		}
		if _, ok := find(attrs, "key.value"); ok {
			t.Error("key values must not be recorded as attributes")
		}
	})

	t.Run("resize", func(t *testing.T) {
		attrs := eventAttributes(dom.ResizeEvent{Size: geom.Size{Width: 800, Height: 600}})
		if v, ok := find(attrs, "viewport.width"); !ok || v.AsFloat64() != 800 {
			t.Errorf("viewport.width = %v, want 800", v.Emit())
		}
	})
}
