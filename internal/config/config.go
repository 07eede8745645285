package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/snapshot"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vpatch.json"

	// DefaultAddr is the default inspector listen address.
	DefaultAddr = "localhost:7070"

	// DefaultInterval is the default delay between replayed documents.
	DefaultInterval = "1s"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "vpatch"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete vpatch.json configuration.
type Config struct {
	// Properties maps reserved property names to native routes.
	Properties PropertiesConfig `json:"properties"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus collector configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect"`

	// Snapshots selects where recorded patch frames are stored.
	Snapshots SnapshotsConfig `json:"snapshots"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PropertiesConfig names the nested bags routed to attributes and style.
type PropertiesConfig struct {
	AttributesKey string `json:"attributesKey,omitempty"`
	StyleKey      string `json:"styleKey,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty"`
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// Interval is the delay between documents replayed by serve
	// (e.g., "500ms").
	Interval string `json:"interval,omitempty"`
}

// SnapshotsConfig configures the frame store.
type SnapshotsConfig struct {
	// Driver is memory, disk or s3. Empty disables recording.
	Driver string `json:"driver,omitempty"`

	// Dir is the disk store root.
	Dir string `json:"dir,omitempty"`

	Bucket    string `json:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for vpatch.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No vpatch.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vpatch.json or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse vpatch.json: " + err.Error()).
			WithSuggestion("Check that vpatch.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromWorkingDir loads vpatch.json from the current working directory
// or its closest parent holding one. Without a file it returns defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, "E141") {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
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
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
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
	if c.Properties.AttributesKey == "" {
		c.Properties.AttributesKey = native.DefaultAttributesKey
	}
	if c.Properties.StyleKey == "" {
		c.Properties.StyleKey = native.DefaultStyleKey
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultAddr
	}
	if c.Inspect.Interval == "" {
		c.Inspect.Interval = DefaultInterval
	}
	if c.Snapshots.Driver == snapshot.DriverS3 && c.Snapshots.Prefix == "" {
		c.Snapshots.Prefix = snapshot.DefaultPrefix
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Properties.AttributesKey == c.Properties.StyleKey {
		return errors.New("E120").
			WithDetailf("properties.attributesKey and properties.styleKey are both %q", c.Properties.StyleKey)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E120").
			WithDetailf("unknown log level %q", c.Log.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	if d, err := time.ParseDuration(c.Inspect.Interval); err != nil || d <= 0 {
		return errors.New("E120").
			WithDetailf("inspect.interval %q is not a positive duration", c.Inspect.Interval)
	}
	switch c.Snapshots.Driver {
	case "", snapshot.DriverMemory:
	case snapshot.DriverDisk:
		if c.Snapshots.Dir == "" {
			return errors.New("E120").WithDetail("snapshots.dir is required for the disk driver")
		}
	case snapshot.DriverS3:
		if c.Snapshots.Bucket == "" {
			return errors.New("E120").WithDetail("snapshots.bucket is required for the s3 driver")
		}
	default:
		return errors.New("E120").
			WithDetailf("unknown snapshots.driver %q", c.Snapshots.Driver).
			WithSuggestion(`Use "memory", "disk" or "s3"`)
	}
	return nil
}

// Policy returns the property routing policy.
func (c *Config) Policy() native.PropertyPolicy {
	return native.PropertyPolicy{
		AttributesKey: c.Properties.AttributesKey,
		StyleKey:      c.Properties.StyleKey,
	}
}

// LogLevel returns the configured slog level, Info when unknown.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// ReplayInterval returns the parsed inspect interval.
func (c *Config) ReplayInterval() time.Duration {
	d, err := time.ParseDuration(c.Inspect.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInterval)
	}
	return d
}

// SnapshotsEnabled reports whether a frame store is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.Snapshots.Driver != ""
}

// SnapshotOptions returns the store options. Relative disk directories are
// resolved against the config file's directory.
func (c *Config) SnapshotOptions() snapshot.Options {
	dir := c.Snapshots.Dir
	if dir != "" && !filepath.IsAbs(dir) && c.Dir() != "" {
		dir = filepath.Join(c.Dir(), dir)
	}
	return snapshot.Options{
		Driver:    c.Snapshots.Driver,
		Dir:       dir,
		Bucket:    c.Snapshots.Bucket,
		Prefix:    c.Snapshots.Prefix,
		Region:    c.Snapshots.Region,
		Endpoint:  c.Snapshots.Endpoint,
		PathStyle: c.Snapshots.PathStyle,
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	level, ok := parseLevel(s)
	if !ok {
		return level, errors.New("E120").WithDetailf("unknown log level %q", s)
	}
	return level, nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// vpatch.json.
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
			return "", errors.New("E141").
				WithDetail("No vpatch.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
