// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the lmi command line.
//
// An ActionableError says what failed and suggests how to fix it. An Issue is
// a longer markdown page about a class of failures, rendered with glamour
// when the user asks for details.
package issue
