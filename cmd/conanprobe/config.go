// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"conanprobe/internal/config"
)

// newConfigCommand creates the `conanprobe config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage conanprobe configuration",
		Long: `Manage conanprobe configuration.

Configuration is stored in:
  - Linux: ~/.config/conanprobe/config.cue
  - macOS: ~/Library/Application Support/conanprobe/config.cue
  - Windows: %APPDATA%\conanprobe\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return fail(app, flags, err)
			}
			showConfig(app, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return fail(app, flags, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return fail(app, flags, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return fail(app, flags, fmt.Errorf("failed to create config: %w", err))
			}
			if created {
				fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			} else {
				fmt.Fprintf(app.stdout, "Configuration already exists at %s\n", path)
			}
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, path string) {
	out := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(v any) string { return valueStyle.Render(fmt.Sprint(v)) }

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("recipe"))
	fmt.Fprintf(out, "  base_type: %s\n", value(cfg.Recipe.BaseType))
	fmt.Fprintf(out, "  import_path: %s\n", value(cfg.Recipe.ImportPath))
	fmt.Fprintf(out, "  entry_point: %s\n", value(cfg.Recipe.EntryPoint))
	fmt.Fprintf(out, "  python_entry_point: %s\n", value(cfg.Recipe.PythonEntryPoint))
	fmt.Fprintf(out, "  fake_version: %s\n", value(cfg.Recipe.FakeVersion))
	fmt.Fprintf(out, "  load_conandata: %s\n", value(cfg.Recipe.LoadConanData))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("interception"))
	fmt.Fprintf(out, "  vcs_tool: %s\n", value(cfg.Interception.VCSTool))
	if len(cfg.Interception.Disabled) == 0 {
		fmt.Fprintf(out, "  disabled: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(out, "  disabled: %s\n", value(strings.Join(cfg.Interception.Disabled, ", ")))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("git"))
	fmt.Fprintf(out, "  fallback_last_clone: %s\n", value(cfg.Git.FallbackLastClone))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("report"))
	fmt.Fprintf(out, "  partial_on_failure: %s\n", value(cfg.Report.PartialOnFailure))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", value(cfg.UI.Verbose))
}
