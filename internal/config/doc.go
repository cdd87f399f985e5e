// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/conanprobe/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/conanprobe/config.cue on macOS, %APPDATA%\conanprobe\config.cue
// on Windows). It selects the recipe base type and entry point, the interception set, how git
// checkouts are correlated with clones and how failed runs are reported.
//
// Configuration files are validated against a CUE schema (config_schema.cue) before they are
// merged over the built-in defaults.
package config
