// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"strings"
)

const (
	// KindEndPoint is a leaf command wrapping an associated function.
	KindEndPoint Kind = 1 << iota
	// KindSession is an end point whose associated function receives a namespace.
	KindSession
	// KindLister is a session end point producing rows for declared columns.
	KindLister
	// KindShowInstance is a session end point rendering a single instance.
	KindShowInstance
	// KindCheckResult is a session end point whose result is judged pass/fail.
	KindCheckResult
	// KindMultiplexer is a node command dispatching to named children.
	KindMultiplexer

	kindAll = KindEndPoint | KindSession | KindLister | KindShowInstance | KindCheckResult | KindMultiplexer
)

const (
	// StageDeclared is the state of a declaration before any processing.
	StageDeclared Stage = iota
	// StageValidated means capability validators accepted the declaration.
	StageValidated
	// StageBound means the execute behavior has been bound.
	StageBound
	// StageRendered means the output contract (columns or render) has been fixed.
	StageRendered
	// StageChecked means the result checker has been resolved.
	StageChecked
	// StageTreeResolved means the child dispatch table has been frozen.
	StageTreeResolved
	// StageFrozen is the terminal state visible to dispatchers.
	StageFrozen
)

type (
	// Kind is the set of command kinds a descriptor carries behavior for.
	// Kinds compose: a check-result command is also a session end point.
	Kind uint8

	// Stage is a step of the construction pipeline.
	Stage uint8
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindEndPoint, "EndPoint"},
	{KindSession, "SessionEndPoint"},
	{KindLister, "Lister"},
	{KindShowInstance, "ShowInstance"},
	{KindCheckResult, "CheckResult"},
	{KindMultiplexer, "Multiplexer"},
}

// Has reports whether k carries every kind in other.
func (k Kind) Has(other Kind) bool { return other != 0 && k&other == other }

// IsLeaf reports whether k describes an end point command.
func (k Kind) IsLeaf() bool { return k.Has(KindEndPoint) }

// Normalize adds the kinds implied by k: listers, show-instance and
// check-result commands are session end points, and sessions are end points.
func (k Kind) Normalize() Kind {
	if k&(KindLister|KindShowInstance|KindCheckResult) != 0 {
		k |= KindSession
	}
	if k&KindSession != 0 {
		k |= KindEndPoint
	}
	return k
}

// IsValid returns whether k is a consistent combination of kinds,
// and a list of validation errors if it is not.
func (k Kind) IsValid() (bool, []error) {
	var errs []error
	if k == 0 {
		errs = append(errs, fmt.Errorf("%w: no kind set", ErrInvalidKind))
	}
	if k&^kindAll != 0 {
		errs = append(errs, fmt.Errorf("%w: unknown kind bits %#x", ErrInvalidKind, uint8(k&^kindAll)))
	}
	if k.Has(KindMultiplexer) && k&^KindMultiplexer != 0 {
		errs = append(errs, fmt.Errorf("%w: a multiplexer cannot also be an end point (%s)", ErrInvalidKind, k))
	}
	if k.Has(KindLister | KindShowInstance) {
		errs = append(errs, fmt.Errorf("%w: Lister and ShowInstance are mutually exclusive", ErrInvalidKind))
	}
	return len(errs) == 0, errs
}

// String returns the kind names joined with "|".
func (k Kind) String() string {
	if k == 0 {
		return "None"
	}
	var parts []string
	for _, kn := range kindNames {
		if k.Has(kn.kind) {
			parts = append(parts, kn.name)
		}
	}
	if rest := k &^ kindAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// String returns a human-readable name of the stage.
func (s Stage) String() string {
	switch s {
	case StageDeclared:
		return "declared"
	case StageValidated:
		return "validated"
	case StageBound:
		return "bound"
	case StageRendered:
		return "rendered"
	case StageChecked:
		return "checked"
	case StageTreeResolved:
		return "tree-resolved"
	case StageFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}
