// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"conanprobe/internal/capability"
)

func newCapabilitiesCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List the intercepted capabilities",
		Long: `List every capability a recipe may call, what its stand-in does and
whether it is intercepted under the current configuration.

A disabled capability runs its real implementation when it has one and
fails the run otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return fail(app, flags, err)
			}
			listCapabilities(app, cfg.Interception.Disabled)
			return nil
		},
	}
}

func listCapabilities(app *App, disabled []string) {
	width := 0
	for _, name := range capability.Names() {
		width = max(width, len(name))
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Capabilities"))
	fmt.Fprintln(app.stdout)
	for _, info := range capability.Table() {
		state := SuccessStyle.Render("intercepted")
		summary := info.Summary
		if slices.Contains(disabled, info.Name.String()) {
			if info.RealFallback {
				state = WarningStyle.Render("real")
			} else {
				state = ErrorStyle.Render("unsupported")
			}
			summary = "disabled"
		}
		fmt.Fprintf(app.stdout, "  %s  %-11s  %s\n",
			CmdStyle.Render(fmt.Sprintf("%-*s", width, info.Name)), state, SubtitleStyle.Render(summary))
	}
}
