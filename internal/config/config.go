package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/buoy-ui/buoy/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "buoy.json"

	// DefaultAddr is the default listen address for the remote host.
	DefaultAddr = ":7070"

	// DefaultBasePath is the default URL prefix for the remote host.
	DefaultBasePath = "/"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "buoy"
)

// Config represents the complete buoy.json configuration.
type Config struct {
	// Name is the project name, used as the default trace service name.
	Name string `json:"name,omitempty"`

	// Addr is the listen address for the remote host (host:port).
	Addr string `json:"addr,omitempty"`

	// BasePath is the URL prefix the remote endpoints mount under.
	BasePath string `json:"basePath,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Trace contains OpenTelemetry tracing configuration.
	Trace TraceConfig `json:"trace,omitempty"`

	// Session contains remote session limits and timeouts.
	Session SessionConfig `json:"session,omitempty"`

	// Playground contains scenario settings for the play and bench commands.
	Playground PlaygroundConfig `json:"playground,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level to log: debug, info, warn, or error.
	Level string `json:"level,omitempty"`

	// Format selects the handler: "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metric name prefix.
	Namespace string `json:"namespace,omitempty"`
}

// TraceConfig contains OpenTelemetry tracing settings.
type TraceConfig struct {
	// Enabled controls whether dispatches are traced.
	Enabled bool `json:"enabled,omitempty"`

	// ServiceName names the tracer. Defaults to the project name.
	ServiceName string `json:"serviceName,omitempty"`
}

// SessionConfig contains remote session limits and timeouts. Durations are
// strings in time.ParseDuration form (e.g. "30s"); empty means the server
// default.
type SessionConfig struct {
	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int `json:"maxSessions,omitempty"`

	// ReadLimit is the largest accepted frame in bytes.
	ReadLimit int64 `json:"readLimit,omitempty"`

	// HandshakeTimeout bounds the wait for the host's hello.
	HandshakeTimeout string `json:"handshakeTimeout,omitempty"`

	// ReadTimeout is the per-read deadline; pings must arrive within it.
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout is the per-write deadline.
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// PingInterval is how often the server pings idle hosts.
	PingInterval string `json:"pingInterval,omitempty"`
}

// PlaygroundConfig contains scenario settings for play and bench.
type PlaygroundConfig struct {
	// Scenarios is the path to the YAML scenario file.
	Scenarios string `json:"scenarios,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Addr:     DefaultAddr,
		BasePath: DefaultBasePath,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from buoy.json in the specified directory.
// A missing file yields the defaults; a present but invalid file is an
// error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.CategoryConfig, "config file %s not found", path)
		}
		return nil, errors.New("E060").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E060").
			WithDetail("Failed to parse %s: %s", path, err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E060").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E060").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Trace.ServiceName == "" {
		if c.Name != "" {
			c.Trace.ServiceName = c.Name
		} else {
			c.Trace.ServiceName = DefaultNamespace
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return errors.New("E061").
			WithDetail("%q is not a host:port address", c.Addr).
			Wrap(err)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E062").
			WithDetail("%q is not a recognized level", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Newf(errors.CategoryConfig, "log format %q is not text or json", c.Log.Format)
	}

	if c.Session.MaxSessions < 0 {
		return errors.Newf(errors.CategoryConfig, "session.maxSessions must not be negative")
	}
	if c.Session.ReadLimit < 0 {
		return errors.Newf(errors.CategoryConfig, "session.readLimit must not be negative")
	}

	for _, d := range []struct{ name, value string }{
		{"session.handshakeTimeout", c.Session.HandshakeTimeout},
		{"session.readTimeout", c.Session.ReadTimeout},
		{"session.writeTimeout", c.Session.WriteTimeout},
		{"session.pingInterval", c.Session.PingInterval},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return errors.Newf(errors.CategoryConfig, "%s: %q is not a duration", d.name, d.value).Wrap(err)
		}
	}

	return nil
}

// SlogLevel maps the configured level onto slog. Validate rejects levels
// outside the mapping, so the fallback only covers unvalidated configs.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Duration parses a session duration field, returning zero for empty or
// malformed values so server defaults apply.
func Duration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// ScenariosPath returns the absolute path to the scenario file, or empty
// when none is configured.
func (c *Config) ScenariosPath() string {
	path := c.Playground.Scenarios
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing buoy.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.CategoryConfig,
				"no %s found in %s or any parent directory", ConfigFileName, startDir)
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root at
// or above the current working directory, or the defaults when there is
// none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}
