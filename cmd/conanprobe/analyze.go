// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"conanprobe/internal/issue"
	"conanprobe/internal/probe"
	"conanprobe/internal/report"
)

// ErrRecipeNotFound is returned when the recipe path does not name a file.
var ErrRecipeNotFound = errors.New("recipe not found")

// analyzeOptions holds the flags of a probe run.
type analyzeOptions struct {
	report  string
	timeout time.Duration
}

func addAnalyzeFlags(cmd *cobra.Command, opts *analyzeOptions) {
	cmd.Flags().StringVar(&opts.report, "report", "", "also write the report to `file` (.json, .toml, .yaml)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort the recipe's source step after this long (0 = no limit)")
}

func newAnalyzeCommand(app *App, flags *rootFlags) *cobra.Command {
	opts := &analyzeOptions{}
	analyzeCmd := &cobra.Command{
		Use:   "analyze <recipe>",
		Short: "Run a recipe's source step and print its provenance",
		Long: `Run a recipe's source step with intercepted capabilities.

Every intercepted call is logged as it happens. When the step returns, the
executed commands, the cloned repositories and the downloads are printed.
A failed step still prints what was collected, marked as partial.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return usageError()
			}
			return runAnalyze(cmd, app, flags, *opts, args[0])
		},
	}
	addAnalyzeFlags(analyzeCmd, opts)
	return analyzeCmd
}

func runAnalyze(cmd *cobra.Command, app *App, flags *rootFlags, opts analyzeOptions, path string) error {
	ctx := cmd.Context()

	cfg, _, err := app.loadConfig(ctx, flags)
	if err != nil {
		return fail(app, flags, err)
	}
	if opts.report != "" {
		if _, err := report.FormatFromPath(opts.report); err != nil {
			return fail(app, flags, issue.WrapWithContext(err, "export report", opts.report))
		}
	}
	if err := checkRecipe(path); err != nil {
		return fail(app, flags, err)
	}

	probeOpts := probe.OptionsFromConfig(cfg)
	probeOpts.Timeout = opts.timeout
	probeOpts.Stdout = app.stdout
	probeOpts.Logger = app.logger(flags)

	rep, runErr := probe.New(probeOpts).Run(ctx, path)
	if rep != nil && opts.report != "" {
		if err := report.Export(opts.report, rep); err != nil {
			return fail(app, flags, errors.Join(runErr, issue.WrapWithContext(err, "export report", opts.report)))
		}
	}
	if runErr != nil {
		return fail(app, flags, issue.WrapWithContext(runErr, "probe recipe", path))
	}
	return nil
}

// checkRecipe verifies that path names a regular file.
func checkRecipe(path string) error {
	info, err := os.Stat(path)
	switch {
	case err != nil:
	case info.IsDir():
		err = fmt.Errorf("%s is a directory", path)
	default:
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("open recipe").
		WithResource(path).
		WithSuggestions(
			"Check the path for typos",
			"Pass the recipe file itself, such as conanfile.go, not its directory",
		).
		Wrap(fmt.Errorf("%w: %w", ErrRecipeNotFound, err)).
		BuildError()
}
