package remote

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/buoy-ui/buoy/pkg/dom"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Addr)
	}
	if cfg.BasePath != "/" {
		t.Errorf("BasePath = %q, want /", cfg.BasePath)
	}
	if cfg.ReadBufferSize != 4096 || cfg.WriteBufferSize != 4096 {
		t.Errorf("buffers = %d/%d, want 4096/4096", cfg.ReadBufferSize, cfg.WriteBufferSize)
	}
	if cfg.HandshakeTimeout != 10*time.Second {
		t.Errorf("HandshakeTimeout = %v, want 10s", cfg.HandshakeTimeout)
	}
	if cfg.ReadTimeout != 60*time.Second {
		t.Errorf("ReadTimeout = %v, want 60s", cfg.ReadTimeout)
	}
	if cfg.PingInterval != 30*time.Second {
		t.Errorf("PingInterval = %v, want 30s", cfg.PingInterval)
	}
	if cfg.MaxSessions != 0 {
		t.Errorf("MaxSessions = %d, want 0 (unlimited)", cfg.MaxSessions)
	}
	if cfg.ReadLimit <= 0 {
		t.Errorf("ReadLimit = %d, want positive", cfg.ReadLimit)
	}
	if cfg.FrameQueue <= 0 || cfg.WorkQueue <= 0 {
		t.Errorf("queues = %d/%d, want positive", cfg.FrameQueue, cfg.WorkQueue)
	}
	if cfg.CheckOrigin == nil {
		t.Error("CheckOrigin is nil")
	}
	if cfg.Logger == nil {
		t.Error("Logger is nil")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var cfg *Config
		got := cfg.withDefaults()
		if got.Addr != ":7070" {
			t.Errorf("Addr = %q, want default", got.Addr)
		}
	})

	t.Run("partial", func(t *testing.T) {
		cfg := &Config{Addr: ":9000", MaxSessions: 5}
		got := cfg.withDefaults()
		if got.Addr != ":9000" {
			t.Errorf("Addr = %q, want :9000 preserved", got.Addr)
		}
		if got.MaxSessions != 5 {
			t.Errorf("MaxSessions = %d, want 5 preserved", got.MaxSessions)
		}
		if got.ReadTimeout != 60*time.Second {
			t.Errorf("ReadTimeout = %v, want default filled", got.ReadTimeout)
		}
		if got.Logger == nil {
			t.Error("Logger not filled")
		}
		// The original is left untouched.
		if cfg.ReadTimeout != 0 {
			t.Errorf("source ReadTimeout mutated to %v", cfg.ReadTimeout)
		}
	})
}

func TestConfigClone(t *testing.T) {
	mw := func(ev dom.Event, next func()) { next() }
	cfg := DefaultConfig()
	cfg.Middleware = []dom.Middleware{mw}

	clone := cfg.Clone()
	clone.Addr = ":8888"
	clone.Middleware = append(clone.Middleware, mw)

	if cfg.Addr == clone.Addr {
		t.Error("Clone shares Addr with source")
	}
	if len(cfg.Middleware) != 1 {
		t.Errorf("source Middleware grew to %d entries", len(cfg.Middleware))
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin", "", "example.com", true},
		{"same host", "http://example.com", "example.com", true},
		{"same host tls", "https://example.com", "example.com", true},
		{"different host", "http://evil.com", "example.com", false},
		{"different port", "http://example.com:8080", "example.com:9090", false},
		{"malformed origin", "://bad", "example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &http.Request{
				Host:   tc.host,
				Header: http.Header{},
				URL:    &url.URL{Path: "/ws"},
			}
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := SameOriginCheck(r); got != tc.want {
				t.Errorf("SameOriginCheck(origin=%q, host=%q) = %v, want %v", tc.origin, tc.host, got, tc.want)
			}
		})
	}
}
