// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"conanprobe/internal/config"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives it instead of reaching for globals.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		verbose bool
		cfgFile string
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads configuration honoring --config. A verbose setting in
// the file applies when --verbose was not given.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, string, error) {
	cfg, path, err := a.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: flags.cfgFile})
	if err != nil {
		return nil, "", err
	}
	if !flags.verbose {
		flags.verbose = cfg.UI.Verbose
	}
	return cfg, path, nil
}

// logger returns the diagnostics logger, writing to stderr.
func (a *App) logger(flags *rootFlags) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: false,
	})
	if flags.verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
