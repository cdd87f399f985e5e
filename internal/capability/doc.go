// SPDX-License-Identifier: MPL-2.0

// Package capability implements the interception layer: the table of named
// side-effecting operations a recipe may call, each backed by a stand-in that
// logs the call and records provenance instead of acting.
//
// An Environment is built per run around a provenance.State. Recipes reach it
// through the virtual conans, conans/tools and shutil packages and through the
// overridden os functions bound by the recipe executor.
package capability
