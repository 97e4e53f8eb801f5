package middleware

import (
	"time"

	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/metrics"
)

// Metrics returns middleware that times every dispatched event and records
// it on the collector, labelled by event name. Install it outermost so the
// measured duration covers the other middleware too.
//
// The collector's methods tolerate a nil receiver, so Metrics(nil) is a
// valid no-op chain link.
func Metrics(c *metrics.Collector) dom.Middleware {
	return func(ev dom.Event, next func()) {
		start := time.Now()
		next()
		c.EventDispatched(ev.Name(), time.Since(start))
	}
}
