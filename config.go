package bindutil

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Warning modes.
const (
	WarningsLog    = "log"    // notices go to the logger and the recorder
	WarningsIgnore = "ignore" // notices are dropped
)

// Environment overrides applied by LoadConfig.
const (
	EnvLogLevel  = "BINDUTIL_LOG_LEVEL"
	EnvWarnings  = "BINDUTIL_WARNINGS"
	EnvModuleURL = "BINDUTIL_MODULE_URL"
)

// Config holds runtime configuration.
type Config struct {
	PackageName   string   `yaml:"package_name"`   // Name used in log fields (e.g., "openvino")
	LogLevel      string   `yaml:"log_level"`      // debug, info, warn, error
	LogFormat     string   `yaml:"log_format"`     // json or console
	Warnings      string   `yaml:"warnings"`       // log or ignore
	RecentNotices int      `yaml:"recent_notices"` // Recorder capacity
	ModuleURL     string   `yaml:"module_url"`     // Base URL of a remote module source (optional)
	CAPath        string   `yaml:"ca_path"`        // CA bundle for ModuleURL (optional)
	Modules       []string `yaml:"modules"`        // Modules served by ModuleURL

	// Logger overrides the logger built from LogLevel and LogFormat.
	Logger *zap.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		PackageName:   "bindutil",
		LogLevel:      "warn",
		LogFormat:     "console",
		Warnings:      WarningsLog,
		RecentNotices: 100,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PackageName == "" {
		return fmt.Errorf("PackageName required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LogLevel invalid: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LogFormat must be json or console, got %q", c.LogFormat)
	}
	if c.Warnings != WarningsLog && c.Warnings != WarningsIgnore {
		return fmt.Errorf("Warnings must be %s or %s, got %q", WarningsLog, WarningsIgnore, c.Warnings)
	}
	if c.RecentNotices < 0 {
		return fmt.Errorf("RecentNotices must be >= 0")
	}
	if len(c.Modules) > 0 && c.ModuleURL == "" {
		return fmt.Errorf("ModuleURL required when Modules are listed")
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig and applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWarnings)); v != "" {
		c.Warnings = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvModuleURL)); v != "" {
		c.ModuleURL = v
	}
}
