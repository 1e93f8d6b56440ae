// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strings"
)

// Declaration attribute names used in error reports.
const (
	AttrName              = "NAME"
	AttrKind              = "KIND"
	AttrExtends           = "EXTENDS"
	AttrCallable          = "CALLABLE"
	AttrExecute           = "execute"
	AttrOwnUsage          = "OWN_USAGE"
	AttrNamespace         = "NAMESPACE"
	AttrColumns           = "COLUMNS"
	AttrProperties        = "PROPERTIES"
	AttrDynamicProperties = "DYNAMIC_PROPERTIES"
	AttrRender            = "render"
	AttrExpect            = "EXPECT"
	AttrCheckResult       = "check_result"
	AttrCommands          = "COMMANDS"
)

var (
	// ErrDefinition is wrapped by every *DefinitionError.
	ErrDefinition = errors.New("invalid command definition")
	// ErrInvalidKind is returned for empty or contradictory kind sets.
	ErrInvalidKind = errors.New("invalid command kind")
	// ErrMissingCallable is returned when a leaf command has nothing to execute.
	ErrMissingCallable = errors.New("missing associated function")
	// ErrInvalidCallable is returned when a callable reference is malformed.
	ErrInvalidCallable = errors.New("invalid associated function")
	// ErrInvalidName is returned when a command name does not match the name pattern.
	ErrInvalidName = errors.New("invalid command name")
	// ErrInvalidProperty is returned when an attribute has the wrong shape.
	ErrInvalidProperty = errors.New("invalid command property")
	// ErrMutuallyExclusive is returned when two exclusive attributes are both set.
	ErrMutuallyExclusive = errors.New("mutually exclusive attributes")
	// ErrForbiddenAttribute is returned when an attribute does not apply to the command kind.
	ErrForbiddenAttribute = errors.New("attribute not allowed for command kind")
	// ErrMissingCommands is returned when a root multiplexer declares no children.
	ErrMissingCommands = errors.New("missing COMMANDS property")
	// ErrInvalidChild is returned when a child is not a usable command descriptor.
	ErrInvalidChild = errors.New("invalid child command")
	// ErrMissingDoc is returned when OWN_USAGE takes the usage from a missing doc string.
	ErrMissingDoc = errors.New("missing documentation")

	// ErrUnresolvedCallable is wrapped by every *ResolutionError.
	ErrUnresolvedCallable = errors.New("unresolved associated function")
	// ErrModuleNotFound is returned by Registry.Resolve for unknown modules.
	ErrModuleNotFound = errors.New("module not registered")
	// ErrFunctionNotFound is returned by Registry.Resolve for unknown functions.
	ErrFunctionNotFound = errors.New("function not registered")
	// ErrDuplicateCallable is returned when a reference is registered twice.
	ErrDuplicateCallable = errors.New("associated function already registered")

	// ErrNotExecutable is returned when executing a descriptor without an execute binding.
	ErrNotExecutable = errors.New("command cannot be executed")
	// ErrNotRenderable is returned when rendering with a descriptor that has no renderer.
	ErrNotRenderable = errors.New("command has no renderer")
	// ErrNoChecker is returned when checking a result without a checker.
	ErrNoChecker = errors.New("command has no result checker")
	// ErrUnexpectedResult is returned when a renderer receives a result of the wrong shape.
	ErrUnexpectedResult = errors.New("unexpected result type")
)

type (
	// DefinitionError reports a malformed declaration. It is always fatal at
	// registration time and unwraps to both ErrDefinition and a specific
	// sentinel such as ErrMissingCallable.
	DefinitionError struct {
		// Module is the module the command was declared in (may be empty).
		Module string
		// Command is the declared command name.
		Command string
		// Attribute is the offending attribute, e.g. "COLUMNS" (may be empty).
		Attribute string
		// Reason describes what is wrong.
		Reason string
		// Err is the specific sentinel.
		Err error
	}

	// ResolutionError reports a callable reference that could not be resolved.
	ResolutionError struct {
		Module  string
		Command string
		// Ref is the "module.path:function" reference.
		Ref string
		// Cause is the registry lookup failure.
		Cause error
	}
)

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "command %q", qualify(e.Module, e.Command))
	if e.Attribute != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Attribute)
	}
	msg.WriteString(": ")
	if e.Reason != "" {
		msg.WriteString(e.Reason)
	} else if e.Err != nil {
		msg.WriteString(e.Err.Error())
	} else {
		msg.WriteString(ErrDefinition.Error())
	}
	return msg.String()
}

// Unwrap returns ErrDefinition and the specific sentinel for errors.Is().
func (e *DefinitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDefinition}
	}
	return []error{ErrDefinition, e.Err}
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("command %q: %s: failed to resolve %q: %v", qualify(e.Module, e.Command), AttrCallable, e.Ref, e.Cause)
}

// Unwrap returns ErrUnresolvedCallable and the lookup cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnresolvedCallable}
	}
	return []error{ErrUnresolvedCallable, e.Cause}
}

func qualify(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

func definitionErr(decl *Declaration, attr string, sentinel error, format string, args ...any) *DefinitionError {
	return &DefinitionError{
		Module:    decl.Module,
		Command:   decl.Name,
		Attribute: attr,
		Reason:    fmt.Sprintf(format, args...),
		Err:       sentinel,
	}
}
