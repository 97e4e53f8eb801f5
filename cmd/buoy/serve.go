package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buoy-ui/buoy/internal/config"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/metrics"
	"github.com/buoy-ui/buoy/pkg/middleware"
	"github.com/buoy-ui/buoy/pkg/remote"
)

func serveCmd() *cobra.Command {
	var (
		configPath  string
		addr        string
		basePath    string
		maxSessions int
		logLevel    string
		logFormat   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the session server",
		Long: `Start the Buoy session server.

The server reads buoy.json from the working directory (or the file given
with --config), accepts host connections on the WebSocket endpoint, and
serves a health probe and optionally Prometheus metrics alongside it.
Flags override the file.

Examples:
  buoy serve
  buoy serve --addr :8080
  buoy serve --config deploy/buoy.json --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, addr, basePath, maxSessions, logLevel, logFormat)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to buoy.json (default: search up from working directory)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address, e.g. :7070")
	cmd.Flags().StringVar(&basePath, "base-path", "", "URL prefix for all endpoints")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", -1, "Maximum concurrent sessions, 0 for unlimited")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: text or json")

	return cmd
}

func runServe(configPath, addr, basePath string, maxSessions int, logLevel, logFormat string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	// Flag overrides
	if addr != "" {
		cfg.Addr = addr
	}
	if basePath != "" {
		cfg.BasePath = basePath
	}
	if maxSessions >= 0 {
		cfg.Session.MaxSessions = maxSessions
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)

	srvCfg := &remote.Config{
		Addr:             cfg.Addr,
		BasePath:         cfg.BasePath,
		MaxSessions:      cfg.Session.MaxSessions,
		ReadLimit:        cfg.Session.ReadLimit,
		HandshakeTimeout: config.Duration(cfg.Session.HandshakeTimeout),
		ReadTimeout:      config.Duration(cfg.Session.ReadTimeout),
		WriteTimeout:     config.Duration(cfg.Session.WriteTimeout),
		PingInterval:     config.Duration(cfg.Session.PingInterval),
		Logger:           logger,
	}
	if cfg.Metrics.Enabled {
		srvCfg.Metrics = metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))
	}
	if cfg.Trace.Enabled {
		srvCfg.Middleware = []dom.Middleware{
			middleware.OpenTelemetry(middleware.WithTracerName(cfg.Trace.ServiceName)),
		}
	}

	printBanner()
	fmt.Println()
	info("Sessions: ws://%s%s", displayAddr(cfg.Addr), endpointPath(cfg.BasePath, "ws"))
	info("Health:   http://%s%s", displayAddr(cfg.Addr), endpointPath(cfg.BasePath, "healthz"))
	if cfg.Metrics.Enabled {
		info("Metrics:  http://%s%s", displayAddr(cfg.Addr), endpointPath(cfg.BasePath, "metrics"))
	}
	fmt.Println()
	info("Press Ctrl+C to stop")
	fmt.Println()

	srv := remote.New(srvCfg)
	if err := srv.Run(context.Background()); err != nil {
		return err
	}

	fmt.Println()
	success("Server stopped")
	return nil
}

// newLogger builds the slog logger the config describes.
func newLogger(lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// displayAddr turns a listen address into something a browser accepts,
// substituting localhost for a bare port.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// endpointPath joins the base path and an endpoint name.
func endpointPath(basePath, name string) string {
	base := "/" + strings.Trim(basePath, "/")
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}
