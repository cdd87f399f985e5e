// SPDX-License-Identifier: MPL-2.0

// Package probe drives one recipe run through its stages: install the
// interceptions, load the recipe, invoke the entry point and report the
// collected provenance.
package probe
