package main

import (
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/config"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the settings and logger shared by every subcommand.
type app struct {
	settings config.Settings
	logger   *logrus.Logger
	parser   *config.InputParser
}

func newRootCmd() *cobra.Command {
	a := &app{settings: config.LoadSettings(), parser: config.NewInputParser()}

	root := &cobra.Command{
		Use:          "arrear",
		Short:        "Compute month-by-month pay arrear statements",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.settings.NewLogger()
			if err != nil {
				return err
			}
			logger.SetOutput(cmd.ErrOrStderr())
			a.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settings.LogLevel, "log-level", a.settings.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&a.settings.LogFormat, "log-format", a.settings.LogFormat, "log format (text or json)")
	flags.StringVar(&a.settings.DatabasePath, "db", a.settings.DatabasePath, "SQLite database holding rate tables and archived statements")

	root.AddCommand(
		newCalculateCmd(a),
		newServeCmd(a),
		newRatesCmd(a),
		newLevelsCmd(a),
	)
	return root
}

func (a *app) openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(a.settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.settings.DatabasePath, err)
	}
	a.logger.WithField("db", a.settings.DatabasePath).Debug("store opened")
	return store, nil
}

// loadProgression reads a progression file, or returns the built-in matrix when path is empty.
func (a *app) loadProgression(path string) (domain.PayProgression, error) {
	if path == "" {
		return calculation.DefaultProgression(), nil
	}
	p, err := a.parser.LoadProgression(path)
	if err != nil {
		return nil, err
	}
	a.logger.WithField("file", path).Debug("pay progression loaded")
	return p, nil
}

func (a *app) newEngine(progressionPath string) (*calculation.Engine, error) {
	p, err := a.loadProgression(progressionPath)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewEngineWithProgression(p)
	engine.SetLogger(a.logger)
	return engine, nil
}
