// Package middleware provides dispatch interceptors for buoy documents.
//
// Middleware installed with Document.Use wraps every event delivered through
// Document.Dispatch, so observability layers on without touching the widgets:
//
//	collector := metrics.New()
//	doc := dom.NewDocument(dom.WithMetrics(collector))
//	doc.Use(middleware.Metrics(collector))
//	doc.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	))
//
// # Prometheus Metrics
//
// Metrics times each dispatched event and feeds the collector's per-event
// counter and duration histogram, labelled by event name. Expose the
// collector on an HTTP mux with its Handler:
//
//	http.Handle("/metrics", collector.Handler())
//
// # OpenTelemetry Tracing
//
// OpenTelemetry opens a span per dispatched event ("dom.pointerdown",
// "dom.keydown", ...) carrying pointer coordinates, key codes, and target
// ids. Reentrant dispatches nest under the outer event's span. The tracer
// comes from the global provider unless WithTracerProvider overrides it:
//
//	doc.Use(middleware.OpenTelemetry(
//	    middleware.WithEventFilter(func(ev dom.Event) bool {
//	        return ev.Name() != "pointermove"
//	    }),
//	))
package middleware
