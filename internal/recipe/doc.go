// SPDX-License-Identifier: MPL-2.0

// Package recipe loads build recipes and locates their fetch entry point.
//
// Static inspection (Analyze, AnalyzeSource, AnalyzePython) parses a recipe
// without running it. The Executor evaluates a Go recipe in a fresh yaegi
// interpreter whose conans, conans/tools, shutil and os packages are bound
// to a capability.Environment.
package recipe
