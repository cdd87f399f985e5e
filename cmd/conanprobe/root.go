// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"conanprobe/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand creates the conanprobe command tree. Run without a
// subcommand it behaves like `analyze`.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	opts := &analyzeOptions{}

	rootCmd := &cobra.Command{
		Use:   "conanprobe [recipe]",
		Short: "Extract source provenance from build recipes",
		Long: TitleStyle.Render("conanprobe") + SubtitleStyle.Render(" - Extract source provenance from build recipes") + `

conanprobe runs a recipe's source step with every side-effecting capability
replaced by a recording stand-in. Nothing is cloned, downloaded or written:
the git repositories, revisions and archive URLs the recipe would fetch are
collected and printed instead.

` + SubtitleStyle.Render("Examples:") + `
  conanprobe recipes/zlib/conanfile.go                Probe a recipe
  conanprobe analyze --report out.json conanfile.go   Also export the report
  conanprobe source conanfile.py                      Show the entry point
  conanprobe capabilities                             List the stand-ins`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return usageError()
			}
			return runAnalyze(cmd, app, flags, *opts, args[0])
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/conanprobe/config.cue)")
	addAnalyzeFlags(rootCmd, opts)

	rootCmd.AddCommand(newAnalyzeCommand(app, flags))
	rootCmd.AddCommand(newSourceCommand(app, flags))
	rootCmd.AddCommand(newCapabilitiesCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code of the failure, if any.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCode(err))
	}
}

func usageError() error {
	return &ExitError{Code: ExitUsage, Err: &UsageError{Missing: "recipe"}}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
