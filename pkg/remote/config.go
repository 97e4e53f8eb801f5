package remote

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/metrics"
	"github.com/buoy-ui/buoy/pkg/protocol"
)

// Config holds configuration for the session server.
type Config struct {
	// Addr is the address to listen on (e.g. ":7070" or "localhost:7070").
	// Default: ":7070". Only used by Run; handlers mounted by the caller
	// ignore it.
	Addr string

	// BasePath is the URL prefix the endpoints mount under. The WebSocket
	// endpoint is BasePath + "/ws".
	// Default: "/".
	BasePath string

	// WebSocket

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// EnableCompression enables per-message WebSocket compression.
	// Default: false; patch frames are small and already dense.
	EnableCompression bool

	// CheckOrigin validates the request origin during upgrade.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Limits

	// MaxSessions is the maximum number of concurrent sessions. Past the
	// limit the handshake answers ServerBusy. 0 means no limit.
	// Default: 0.
	MaxSessions int

	// ReadLimit is the maximum incoming WebSocket message size in bytes.
	// Default: one maximum protocol frame.
	ReadLimit int64

	// FrameQueue is the buffer size of the incoming frame channel.
	// Default: 64.
	FrameQueue int

	// WorkQueue is the buffer size of the timer callback channel.
	// Default: 64.
	WorkQueue int

	// Timeouts

	// HandshakeTimeout bounds the wait for the Hello frame after upgrade.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// ReadTimeout is the maximum silence tolerated on the socket. Client
	// pings count as traffic.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds each outgoing write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between server pings.
	// Default: 30 seconds.
	PingInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown in Run.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Instrumentation

	// Logger receives server and session logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics receives engine and session metrics. Sessions with a
	// collector also get the dispatch metrics middleware installed on
	// their documents. Nil disables collection.
	Metrics *metrics.Collector

	// Middleware is installed on every session document, outermost first,
	// after the metrics middleware.
	Middleware []dom.Middleware
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:             ":7070",
		BasePath:         "/",
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		CheckOrigin:      SameOriginCheck,
		ReadLimit:        protocol.FrameHeaderSize + protocol.MaxPayloadSize,
		FrameQueue:       64,
		WorkQueue:        64,
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		PingInterval:     30 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}

// Clone returns a copy of the Config. The middleware slice is copied; the
// logger and collector are shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Middleware != nil {
		clone.Middleware = make([]dom.Middleware, len(c.Middleware))
		copy(clone.Middleware, c.Middleware)
	}
	return &clone
}

// withDefaults fills zero fields from DefaultConfig and returns the result.
// The receiver is not modified.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := c.Clone()
	if out.Addr == "" {
		out.Addr = def.Addr
	}
	if out.BasePath == "" {
		out.BasePath = def.BasePath
	}
	if out.ReadBufferSize <= 0 {
		out.ReadBufferSize = def.ReadBufferSize
	}
	if out.WriteBufferSize <= 0 {
		out.WriteBufferSize = def.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = def.CheckOrigin
	}
	if out.ReadLimit <= 0 {
		out.ReadLimit = def.ReadLimit
	}
	if out.FrameQueue <= 0 {
		out.FrameQueue = def.FrameQueue
	}
	if out.WorkQueue <= 0 {
		out.WorkQueue = def.WorkQueue
	}
	if out.HandshakeTimeout <= 0 {
		out.HandshakeTimeout = def.HandshakeTimeout
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = def.PingInterval
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = def.ShutdownTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// SameOriginCheck validates that the WebSocket request origin matches the
// host. This is the secure default for CheckOrigin.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (same-origin request or a non-browser client).
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}
