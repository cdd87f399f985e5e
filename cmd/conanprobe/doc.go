// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for conanprobe.
//
// The root command and `analyze` run a recipe with intercepted capabilities
// and print the collected provenance. `source` shows the detected entry
// point, `capabilities` lists the interception table and `config` manages
// the configuration file.
package cmd
