// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests point ConfigDir at a temporary directory
// without touching HOME or XDG_CONFIG_HOME.
var configDirOverride string
