package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/metrics"
)

func dispatchCounterValue(t *testing.T, reg *prometheus.Registry, kind string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "buoy_dispatch_events_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" && lp.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func dispatchHistogramCount(t *testing.T, reg *prometheus.Registry, kind string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "buoy_dispatch_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" && lp.GetValue() == kind {
					return m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

func TestMetricsMiddlewareRecordsDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(metrics.WithRegistry(reg))

	doc := dom.NewDocument(dom.WithMetrics(c))
	doc.Use(Metrics(c))

	delivered := 0
	doc.OnPointerDown(func(dom.PointerEvent) { delivered++ })

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown, Point: geom.Point{X: 10, Y: 20}})
	doc.Dispatch(&dom.KeyEvent{Kind: dom.KeyDown, Key: "Escape"})
	doc.Dispatch(&dom.KeyEvent{Kind: dom.KeyDown, Key: "Tab"})

	if delivered != 1 {
		t.Fatalf("pointer listener ran %d times, want 1", delivered)
	}
	if got := dispatchCounterValue(t, reg, "pointerdown"); got != 1 {
		t.Errorf("dispatch_events_total(pointerdown) = %v, want 1", got)
	}
	if got := dispatchCounterValue(t, reg, "keydown"); got != 2 {
		t.Errorf("dispatch_events_total(keydown) = %v, want 2", got)
	}
	if got := dispatchHistogramCount(t, reg, "pointerdown"); got != 1 {
		t.Errorf("dispatch_duration_seconds(pointerdown) samples = %v, want 1", got)
	}
}

func TestMetricsMiddlewareNilCollector(t *testing.T) {
	doc := dom.NewDocument()
	doc.Use(Metrics(nil))

	delivered := false
	doc.OnKeyDown(func(*dom.KeyEvent) { delivered = true })

	doc.Dispatch(&dom.KeyEvent{Kind: dom.KeyDown, Key: "a"})

	if !delivered {
		t.Fatal("nil-collector middleware must still call next")
	}
}
