// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tests: environment and working
// directory changes that restore themselves, file fixtures, a buffered
// logger and an in-memory managed system populated with typical hardware.
package testutil
