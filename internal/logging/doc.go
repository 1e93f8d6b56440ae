// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log loggers used by lmi and
// carries them through context.Context.
package logging
