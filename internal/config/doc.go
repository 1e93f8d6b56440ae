// SPDX-License-Identifier: MPL-2.0

// Package config loads the lmi configuration with Viper, using CUE as the
// file format.
//
// The file is looked up as config.cue in the platform configuration
// directory (XDG_CONFIG_HOME/lmi on Linux, Application Support on macOS,
// APPDATA on Windows) and then in the working directory, unless a path is
// given explicitly. It is validated against the embedded #Config schema.
// Environment variables prefixed with LMI_ override file values, with dots
// in keys replaced by underscores (LMI_LOG_LEVEL for log.level).
package config
