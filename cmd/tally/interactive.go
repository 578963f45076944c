package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tally/cmd/tally/internal/keypad"
	"github.com/germanamz/tally/pkg/session"
	"github.com/germanamz/tally/pkg/tallydir"
)

// runInteractive starts the keypad UI.
func runInteractive(f *commonFlags) error {
	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI: log to the configured file, the
	// .tally/ log when that directory exists, or nowhere.
	if cfg.Log.File == "" {
		if d := tallydir.New(f.tallyDir); d.Exists() {
			cfg.Log.File = d.LogPath()
		}
	}

	log, closeLog, err := newLogger(cfg.Log, io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	sess := session.New(session.Options{
		ID:        "tui",
		MaxDigits: cfg.Engine.MaxDigits,
		Logger:    log,
	})

	log.Info("tui started", "max_digits", cfg.Engine.MaxDigits)

	_, err = tea.NewProgram(keypad.New(sess)).Run()
	return err
}
