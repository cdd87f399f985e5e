// SPDX-License-Identifier: MPL-2.0

// Package report renders the provenance collected by a run: as styled,
// line-oriented text for the terminal and as JSON, TOML or YAML files.
package report
