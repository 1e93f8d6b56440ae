// SPDX-License-Identifier: MPL-2.0

// Package command turns declarative command descriptions into immutable,
// fully bound command descriptors.
//
// A command author fills in a Declaration: which associated function the
// command wraps, how its results are rendered, how success is judged and,
// for node commands, which sub-commands it dispatches to. Builder.Build runs
// the declaration once through a fixed pipeline:
//
//	Declared -> Validated -> Bound -> Rendered -> Checked -> TreeResolved -> Frozen
//
// Leaf commands never enter TreeResolved and node commands never enter
// Bound, Rendered or Checked. Any violation aborts the build with a
// *DefinitionError or *ResolutionError, so malformed commands surface when
// the command tree is registered rather than when a user runs them.
//
// Descriptors are read-only once built and may be shared between goroutines.
// Associated functions referenced by string ("module.path:function") are
// looked up in an explicit Registry populated at startup.
package command
