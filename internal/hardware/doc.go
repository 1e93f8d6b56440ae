// SPDX-License-Identifier: MPL-2.0

// Package hardware reads hardware facts of a managed system and declares the
// hwinfo and system commands.
//
// Instance lookups go through a Provider, which caches replies per class
// until it is asked about another namespace. The info tables are lists of
// (label, value) rows; an empty row separates the sections of the "all"
// table.
package hardware
