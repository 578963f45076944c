// Package config loads and validates the tally YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/tally/pkg/calculator"
)

// Config is the top-level configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	MCP    MCPConfig    `yaml:"mcp"`
}

// EngineConfig holds calculator engine settings.
type EngineConfig struct {
	MaxDigits int `yaml:"max_digits"` // Significant digit cap for typed entries.
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error.
	File  string `yaml:"file"`  // Empty logs to stderr (discarded in the TUI).
}

// ServerConfig holds WebSocket server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Name string `yaml:"name"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Engine: EngineConfig{MaxDigits: calculator.DefaultMaxDigits},
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Addr: "127.0.0.1:8765"},
		MCP:    MCPConfig{Name: "tally"},
	}
}

// Load reads a YAML file on top of Default. Environment variables referenced
// as ${VAR} or $VAR are expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data on top of Default.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Engine.MaxDigits < 1 || c.Engine.MaxDigits > calculator.MaxDigitsLimit {
		return fmt.Errorf("config: engine: max_digits must be between 1 and %d, got %d", calculator.MaxDigitsLimit, c.Engine.MaxDigits)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("config: server: addr is required")
	}

	if c.MCP.Name == "" {
		return fmt.Errorf("config: mcp: name is required")
	}

	return nil
}

// SlogLevel converts Level to a slog.Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: log: unknown level %q", l.Level)
}
