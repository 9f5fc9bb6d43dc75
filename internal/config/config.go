package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "tempo"
	configFileName = "config.yaml"
)

// Config represents the full tempo configuration.
type Config struct {
	Timer   TimerConfig   `yaml:"timer"`
	Storage StorageConfig `yaml:"storage"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

type TimerConfig struct {
	DefaultMinutes int           `yaml:"default_minutes"`
	Presets        []int         `yaml:"presets"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	AutoReset      bool          `yaml:"auto_reset"`
}

// StorageConfig selects the slot backend that holds the task list.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`
	Slot    string `yaml:"slot"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`
}

// DefaultConfig returns a Config with the stock presets and a local SQLite file.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes: 25,
			Presets:        []int{5, 15, 25, 45},
			TickInterval:   time.Second,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "tempo.db",
			Slot:    "timeTasks",
		},
		Web: WebConfig{
			Listen: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = resolved
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// DefaultPath is <user config dir>/tempo/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// Validate rejects values the timer or storage cannot work with.
func (c *Config) Validate() error {
	if c.Timer.DefaultMinutes <= 0 {
		return fmt.Errorf("timer.default_minutes must be positive, got %d", c.Timer.DefaultMinutes)
	}
	if len(c.Timer.Presets) == 0 {
		return errors.New("timer.presets must not be empty")
	}
	for _, p := range c.Timer.Presets {
		if p <= 0 {
			return fmt.Errorf("timer.presets must be positive, got %d", p)
		}
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive, got %s", c.Timer.TickInterval)
	}
	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Slot) == "" {
		return errors.New("storage.slot must not be empty")
	}
	return nil
}

// NewLogger builds the slog logger described by c. Output goes to c.File when
// set, otherwise to fallback. The returned closer releases the log file.
func (c LogConfig) NewLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	out := fallback
	closer := func() error { return nil }
	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{Level: parseLevel(c.Level)}
	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), closer, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
