// SPDX-License-Identifier: MPL-2.0

// Package shellwords splits shell command lines into argument tokens.
//
// Parsing is delegated to mvdan.cc/sh/v3/syntax so quoting follows POSIX shell
// rules exactly. Unlike a shell, nothing is expanded: parameter expansions,
// command substitutions and globs are returned as they were written.
package shellwords
