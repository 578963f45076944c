package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/tally/pkg/calculator"
	"github.com/germanamz/tally/pkg/config"
	"github.com/germanamz/tally/pkg/tallydir"
)

// wizardAnswers holds the raw form values. Numeric fields stay strings so huh
// inputs can bind to them directly.
type wizardAnswers struct {
	MaxDigits string
	LogLevel  string
	LogToFile bool
	Addr      string
	MCPName   string
}

func defaultAnswers() wizardAnswers {
	def := config.Default()
	return wizardAnswers{
		MaxDigits: strconv.Itoa(def.Engine.MaxDigits),
		LogLevel:  def.Log.Level,
		Addr:      def.Server.Addr,
		MCPName:   def.MCP.Name,
	}
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	tallyDirPath := fs.String("tally-dir", ".tally", "path to .tally directory")
	defaults := fs.Bool("defaults", false, "skip the wizard and write the default config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := tallydir.New(*tallyDirPath)

	answers := defaultAnswers()
	if !*defaults {
		if err := runWizard(&answers); err != nil {
			return err
		}
	}

	cfg, err := buildConfig(answers, dir)
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := tallydir.BootstrapWithConfig(dir, data); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", dir.Root())
	return nil
}

func runWizard(a *wizardAnswers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max digits per entry").
				Value(&a.MaxDigits).
				Validate(validateMaxDigits),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&a.LogLevel),
			huh.NewConfirm().
				Title("Write logs to .tally/tally.log?").
				Value(&a.LogToFile),
		),
		huh.NewGroup(
			huh.NewInput().Title("WebSocket listen address").Value(&a.Addr).Validate(validateNonEmpty),
			huh.NewInput().Title("MCP server name").Value(&a.MCPName).Validate(validateNonEmpty),
		),
	).Run()
}

// buildConfig turns wizard answers into a validated config.
func buildConfig(a wizardAnswers, dir tallydir.Dir) (config.Config, error) {
	digits, err := strconv.Atoi(a.MaxDigits)
	if err != nil {
		return config.Config{}, fmt.Errorf("init: max digits: %w", err)
	}

	cfg := config.Default()
	cfg.Engine.MaxDigits = digits
	cfg.Log.Level = a.LogLevel
	cfg.Server.Addr = a.Addr
	cfg.MCP.Name = a.MCPName
	if a.LogToFile {
		cfg.Log.File = dir.LogPath()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func validateMaxDigits(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > calculator.MaxDigitsLimit {
		return fmt.Errorf("must be an integer between 1 and %d", calculator.MaxDigitsLimit)
	}

	return nil
}

func validateNonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}

	return nil
}
