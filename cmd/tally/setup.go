package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/germanamz/tally/pkg/config"
)

// loadDotEnv loads environment variables from path. If the file does not exist
// it is silently ignored so that .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath picks the config file: explicit flag, then
// <tally-dir>/config.yaml, then tally.yaml. An empty result means no file
// exists and defaults apply.
func resolveConfigPath(explicit, tallyDirPath string) string {
	if explicit != "" {
		return explicit
	}

	dirConfig := filepath.Join(tallyDirPath, "config.yaml")
	if _, err := os.Stat(dirConfig); err == nil {
		return dirConfig
	}

	if _, err := os.Stat("tally.yaml"); err == nil {
		return "tally.yaml"
	}

	return ""
}

// loadSettings loads the .env file and the resolved config, then validates it.
func loadSettings(f *commonFlags) (config.Config, error) {
	if err := loadDotEnv(f.envFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()

	if path := resolveConfigPath(f.configPath, f.tallyDir); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newLogger builds a text slog logger for cfg. Logs go to cfg.File when set,
// otherwise to fallback. The returned close function releases the file.
func newLogger(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	out := fallback
	closeFn := func() error { return nil }

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // path comes from the user's config
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	return log, closeFn, nil
}
