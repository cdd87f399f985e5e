// SPDX-License-Identifier: MPL-2.0

// Package gitcmd understands just enough of the git command line to extract
// source provenance: which repository a clone fetches, into which directory,
// and which revision a later checkout selects.
package gitcmd
