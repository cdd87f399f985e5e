// SPDX-License-Identifier: MPL-2.0

// Package provenance holds the source provenance model built while a recipe
// runs: the repositories it clones, the files it downloads and the raw command
// lines it executes.
//
// A State is created per run and mutated only by the capability stand-ins.
// Clones and checkouts are correlated by working directory rather than by call
// order.
package provenance
