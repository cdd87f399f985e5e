// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"conanprobe/internal/probe"
	"conanprobe/internal/recipe"
)

func newSourceCommand(app *App, flags *rootFlags) *cobra.Command {
	var render bool
	sourceCmd := &cobra.Command{
		Use:   "source <recipe>",
		Short: "Show a recipe's detected entry point",
		Long: `Show the type a recipe's entry point was found on and the entry point's
source, without running anything. Go and Python recipes are supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSource(cmd, app, flags, args[0], render)
		},
	}
	sourceCmd.Flags().BoolVar(&render, "render", false, "render the source as styled Markdown")
	return sourceCmd
}

func showSource(cmd *cobra.Command, app *App, flags *rootFlags, path string, render bool) error {
	cfg, _, err := app.loadConfig(cmd.Context(), flags)
	if err != nil {
		return fail(app, flags, err)
	}
	if err := checkRecipe(path); err != nil {
		return fail(app, flags, err)
	}

	a, err := recipe.Analyze(path, probe.OptionsFromConfig(cfg).Recipe)
	if err != nil {
		var notFound *recipe.EntryPointNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(app.stdout, WarningStyle.Render(notFound.Error()))
		}
		return fail(app, flags, err)
	}

	if !render {
		fmt.Fprintln(app.stdout, a.Header())
		if a.EntryPoint == nil {
			fmt.Fprintln(app.stdout, WarningStyle.Render(a.MissingEntryPoint()))
			return nil
		}
		fmt.Fprintln(app.stdout, a.EntryPoint.Text)
		return nil
	}

	lang := "go"
	if a.Language == recipe.LanguagePython {
		lang = "python"
	}
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n`%s`\n\n", path, strings.TrimSuffix(a.Header(), ":"))
	if a.EntryPoint == nil {
		fmt.Fprintf(&md, "_%s_\n", a.MissingEntryPoint())
	} else {
		fmt.Fprintf(&md, "~~~%s\n%s\n~~~\n", lang, a.EntryPoint.Text)
	}

	out, err := glamour.Render(md.String(), "auto")
	if err != nil {
		return fail(app, flags, fmt.Errorf("render source: %w", err))
	}
	fmt.Fprint(app.stdout, out)
	return nil
}
