// Package metrics provides the Prometheus collector for engine and session
// activity.
//
// A Collector is an explicitly constructed service object: build one, hand it
// to dom.NewDocument (and remote.NewServer) and expose Handler() wherever the
// scrape endpoint lives. There is no package-level state, so tests can create
// fresh collectors freely. All record methods are safe on a nil *Collector,
// which is how an unmetered document stays quiet.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "buoy").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to register into and serve from.
	// Default: a fresh private registry.
	Registry *prometheus.Registry
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "buoy",
		Buckets:   prometheus.DefBuckets,
	}
}

// Collector holds the Prometheus metrics for a buoy engine instance.
type Collector struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	overlayChanges   *prometheus.CounterVec
	overlaysOpen     prometheus.Gauge
	dismissals       *prometheus.CounterVec
	computes         prometheus.Counter
	flips            prometheus.Counter
	motionWaits      *prometheus.CounterVec
	trapsActive      prometheus.Gauge
	sessionsActive   prometheus.Gauge
	patchesSent      prometheus.Counter
	framesReceived   prometheus.Counter
	sessionErrors    *prometheus.CounterVec
}

// New creates a collector and registers its metrics.
//
// Metrics collected:
//   - buoy_dispatch_events_total: counter of dispatched input events by kind
//   - buoy_dispatch_duration_seconds: histogram of dispatch duration by kind
//   - buoy_overlay_transitions_total: counter of lifecycle transitions by state
//   - buoy_overlays_open: gauge of overlays currently opening or open
//   - buoy_dismissals_total: counter of dismiss gestures by reason
//   - buoy_position_computes_total: counter of placement computations
//   - buoy_position_flips_total: counter of computations that flipped sides
//   - buoy_motion_waits_total: counter of motion waits by result
//   - buoy_traps_active: gauge of active focus traps
//   - buoy_sessions_active: gauge of connected remote sessions
//   - buoy_patches_sent_total: counter of patches sent to remote hosts
//   - buoy_frames_received_total: counter of frames received from remote hosts
//   - buoy_session_errors_total: counter of session errors by type
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		registry: config.Registry,

		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_events_total",
			Help:        "Total number of input events dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Input event dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		overlayChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlay_transitions_total",
			Help:        "Total overlay lifecycle transitions by resulting state",
			ConstLabels: config.ConstLabels,
		}, []string{"state"}),

		overlaysOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlays_open",
			Help:        "Number of overlays currently opening or open",
			ConstLabels: config.ConstLabels,
		}),

		dismissals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dismissals_total",
			Help:        "Total dismiss gestures by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		computes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "position_computes_total",
			Help:        "Total placement computations",
			ConstLabels: config.ConstLabels,
		}),

		flips: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "position_flips_total",
			Help:        "Total placement computations that flipped to a fallback side",
			ConstLabels: config.ConstLabels,
		}),

		motionWaits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "motion_waits_total",
			Help:        "Total motion-completion waits by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		trapsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "traps_active",
			Help:        "Number of active focus traps",
			ConstLabels: config.ConstLabels,
		}),

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_active",
			Help:        "Number of connected remote sessions",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total patches sent to remote hosts",
			ConstLabels: config.ConstLabels,
		}),

		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_received_total",
			Help:        "Total frames received from remote hosts",
			ConstLabels: config.ConstLabels,
		}),

		sessionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "session_errors_total",
			Help:        "Total session errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for registering additional
// application metrics alongside the engine's.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// EventDispatched records one dispatched input event.
func (c *Collector) EventDispatched(kind string, d time.Duration) {
	if c == nil {
		return
	}
	c.dispatchTotal.WithLabelValues(kind).Inc()
	c.dispatchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// OverlayTransition records a lifecycle transition into the given state.
func (c *Collector) OverlayTransition(state string) {
	if c == nil {
		return
	}
	c.overlayChanges.WithLabelValues(state).Inc()
}

// OverlayOpened increments the open-overlay gauge.
func (c *Collector) OverlayOpened() {
	if c == nil {
		return
	}
	c.overlaysOpen.Inc()
}

// OverlayClosed decrements the open-overlay gauge.
func (c *Collector) OverlayClosed() {
	if c == nil {
		return
	}
	c.overlaysOpen.Dec()
}

// Dismissal records a dismiss gesture.
func (c *Collector) Dismissal(reason string) {
	if c == nil {
		return
	}
	c.dismissals.WithLabelValues(reason).Inc()
}

// PositionComputed records one placement computation.
func (c *Collector) PositionComputed(flipped bool) {
	if c == nil {
		return
	}
	c.computes.Inc()
	if flipped {
		c.flips.Inc()
	}
}

// MotionResolved records a finished motion wait.
func (c *Collector) MotionResolved(result string) {
	if c == nil {
		return
	}
	c.motionWaits.WithLabelValues(result).Inc()
}

// TrapActivated increments the active-trap gauge.
func (c *Collector) TrapActivated() {
	if c == nil {
		return
	}
	c.trapsActive.Inc()
}

// TrapDeactivated decrements the active-trap gauge.
func (c *Collector) TrapDeactivated() {
	if c == nil {
		return
	}
	c.trapsActive.Dec()
}

// SessionOpened increments the session gauge.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessionsActive.Inc()
}

// SessionClosed decrements the session gauge.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsActive.Dec()
}

// PatchesSent records patches sent to a remote host.
func (c *Collector) PatchesSent(count int) {
	if c == nil {
		return
	}
	c.patchesSent.Add(float64(count))
}

// FrameReceived records one received frame.
func (c *Collector) FrameReceived() {
	if c == nil {
		return
	}
	c.framesReceived.Inc()
}

// SessionError records a session error.
func (c *Collector) SessionError(errType string) {
	if c == nil {
		return
	}
	c.sessionErrors.WithLabelValues(errType).Inc()
}
