package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/vango-dev/head/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vango-head.json"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:3000"

	// DefaultLiveURL is the default websocket path for live head clients.
	DefaultLiveURL = "/_head/ws"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLang is the default document language.
	DefaultLang = "en"
)

// Snapshot backends.
const (
	BackendNone = ""
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config represents the complete vango-head.json configuration.
type Config struct {
	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Render contains SSR configuration.
	Render RenderConfig `json:"render,omitempty"`

	// Snapshot contains snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the address to listen on.
	Addr string `json:"addr,omitempty" env:"VANGO_HEAD_ADDR"`

	// LiveURL is the websocket path clients connect to.
	LiveURL string `json:"liveURL,omitempty" env:"VANGO_HEAD_LIVE_URL"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" env:"VANGO_HEAD_LOG_LEVEL"`
}

// RenderConfig contains SSR settings.
type RenderConfig struct {
	// Pretty puts every head node on its own line.
	Pretty bool `json:"pretty,omitempty" env:"VANGO_HEAD_PRETTY"`

	// DefaultMeta writes charset and viewport meta tags when missing.
	DefaultMeta bool `json:"defaultMeta,omitempty" env:"VANGO_HEAD_DEFAULT_META"`

	// Lang is the html lang attribute.
	Lang string `json:"lang,omitempty" env:"VANGO_HEAD_LANG"`
}

// SnapshotConfig contains snapshot storage settings.
type SnapshotConfig struct {
	// Dir is the local directory snapshots are written to.
	Dir string `json:"dir,omitempty" env:"VANGO_HEAD_SNAPSHOT_DIR"`

	// S3 configures the S3 backend. It takes precedence over Dir when a
	// bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot settings.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" env:"VANGO_HEAD_S3_BUCKET"`
	Prefix string `json:"prefix,omitempty" env:"VANGO_HEAD_S3_PREFIX"`
	Region string `json:"region,omitempty" env:"VANGO_HEAD_S3_REGION"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for vango-head.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E102").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + filepath.Base(path)).
			WithSuggestion("Check that the file is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// ApplyEnv overrides fields from VANGO_HEAD_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New("E105").Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Resolve loads the configuration used by the CLI. An explicit path must
// exist; without one, vango-head.json in the working directory is used
// when present. Environment overrides are applied and the result is
// validated.
func Resolve(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = LoadFile(path)
	} else {
		cfg, err = Load(".")
		if errors.Code(err) == "E102" {
			cfg, err = New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.LiveURL == "" {
		c.Server.LiveURL = DefaultLiveURL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Render.Lang == "" {
		c.Render.Lang = DefaultLang
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("E103").
			WithDetail(c.Server.Addr).
			WithSuggestion("Use host:port, for example localhost:3000").
			Wrap(err)
	}
	if !strings.HasPrefix(c.Server.LiveURL, "/") {
		return errors.New("E103").
			WithDetail("live URL must be an absolute path: " + c.Server.LiveURL)
	}
	if _, ok := logLevels[c.Log.Level]; !ok {
		return errors.New("E104").
			WithSuggestion("Set log.level or VANGO_HEAD_LOG_LEVEL to debug, info, warn or error")
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return errors.New("E106").
			WithDetail("S3 bucket " + c.Snapshot.S3.Bucket + " has no region").
			WithSuggestion("Set snapshot.s3.region or VANGO_HEAD_S3_REGION")
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	if lvl, ok := logLevels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Backend returns the snapshot backend the configuration selects.
func (s SnapshotConfig) Backend() string {
	switch {
	case s.S3.Bucket != "":
		return BackendS3
	case s.Dir != "":
		return BackendFile
	default:
		return BackendNone
	}
}
