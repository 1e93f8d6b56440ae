// SPDX-License-Identifier: MPL-2.0

// Package format prints the output of lister and show-instance commands.
//
// Lister commands produce rows for declared columns and are printed with
// Rows. Show-instance commands produce ordered (name, value) pairs and are
// printed with Record. Both honor the configured output format.
package format
