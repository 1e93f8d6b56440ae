// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"slices"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"

	"github.com/spf13/cast"
)

// PositionalKey is the Options key holding the positional arguments.
const PositionalKey = "<args>"

type (
	// Args are the call arguments a dispatcher hands to a command.
	Args struct {
		// Positional are the positional command-line arguments.
		Positional []string
		// Keyword are named options (flags) by name.
		Keyword map[string]any
	}

	// Options are the parsed command-line options passed to result checkers.
	Options map[string]any

	// Row is one line of lister output, matching the declared columns.
	Row []any

	// Func is an associated function: the domain behavior a leaf command wraps.
	// h is a cim.Namespace for session commands and the raw cim.Connection otherwise.
	Func func(ctx context.Context, h cim.Handle, args Args) (any, error)

	// ExecuteFunc is a bound execute behavior taking the raw connection.
	ExecuteFunc func(ctx context.Context, conn cim.Connection, args Args) (any, error)

	// RenderFunc turns a raw result into ordered column names and values.
	RenderFunc func(ctx context.Context, result any) (columns []string, values []any, err error)

	// TransformFunc computes a rendered property value from an instance.
	TransformFunc func(inst cim.Instance) (any, error)

	// Predicate judges an unwrapped result.
	Predicate func(opts Options, value any) bool

	// CheckFunc judges a raw result.
	CheckFunc func(opts Options, result any) bool

	// Property is a PROPERTIES entry: a plain instance property name, or a
	// column name with a Transform computing its value.
	Property struct {
		Name      string
		Transform TransformFunc
	}

	// Expectation is an EXPECT value: either a literal compared for equality
	// or a predicate. Build one with Equals or Satisfies.
	Expectation struct {
		value     any
		predicate Predicate
		isFunc    bool
	}

	// DynamicResult is what the associated function of a DYNAMIC_PROPERTIES
	// command returns: the properties to render and the instance to render.
	DynamicResult struct {
		Properties []Property
		Instance   cim.Instance
	}

	// Declaration is the author-supplied description of a command. It is
	// consumed once by Builder.Build and never referenced by the resulting
	// Descriptor.
	Declaration struct {
		// Module is the module declaring the command, used in error reports.
		Module string
		// Name is the declared command name (an identifier).
		Name string
		// Kind selects which behaviors are derived. May be zero when Extends is set.
		Kind Kind
		// Doc is the command documentation.
		Doc string
		// Extends is an already-built descriptor this declaration derives from.
		// Concrete behaviors of the base are kept; missing ones are synthesized.
		Extends *Descriptor

		// Callable is the associated function (CALLABLE as a function reference).
		Callable Func
		// CallableRef is CALLABLE as a "module.path:function" registry reference.
		CallableRef string
		// Execute is a hand-written execute behavior; when set no binding is synthesized.
		Execute ExecuteFunc

		// UsageFromDoc is OWN_USAGE=true: the documentation is the usage string.
		UsageFromDoc bool
		// Usage is OWN_USAGE given as a string.
		Usage string

		// Namespace is the namespace session commands are bound to.
		// Empty means the builder's default namespace.
		Namespace string
		// RawConnection is NAMESPACE=false: pass the connection unchanged.
		RawConnection bool

		// Columns are the lister column names.
		Columns []string

		// Properties is the fixed render list of a show-instance command.
		Properties []Property
		// DynamicProperties defers the render list to the call result.
		DynamicProperties bool
		// Render is a hand-written render behavior.
		Render RenderFunc

		// Expect is the success criterion of a check-result command.
		Expect *Expectation
		// CheckResult is a hand-written result checker.
		CheckResult CheckFunc

		// Commands is the child dispatch table of a multiplexer.
		Commands map[string]*Descriptor
	}
)

// Prop is a PROPERTIES entry rendering the instance property name.
func Prop(name string) Property { return Property{Name: name} }

// Computed is a PROPERTIES entry rendering name with the value of transform.
func Computed(name string, transform TransformFunc) Property {
	return Property{Name: name, Transform: transform}
}

// Props converts plain property names into PROPERTIES entries.
func Props(names ...string) []Property {
	props := make([]Property, len(names))
	for i, n := range names {
		props[i] = Prop(n)
	}
	return props
}

// Equals expects the unwrapped result to equal v.
func Equals(v any) *Expectation { return &Expectation{value: v} }

// Satisfies expects pred to return true for the unwrapped result.
func Satisfies(pred Predicate) *Expectation {
	return &Expectation{predicate: pred, isFunc: true}
}

// IsPredicate reports whether the expectation is a predicate.
func (e *Expectation) IsPredicate() bool { return e.isFunc }

// Value returns the literal expected value and whether e is a literal.
func (e *Expectation) Value() (any, bool) {
	if e.isFunc {
		return nil, false
	}
	return e.value, true
}

// Arg returns the i-th positional argument or "".
func (a Args) Arg(i int) string {
	if i < 0 || i >= len(a.Positional) {
		return ""
	}
	return a.Positional[i]
}

// Options returns the keyword arguments as result checker options, with the
// positional arguments under PositionalKey.
func (a Args) Options() Options {
	opts := make(Options, len(a.Keyword)+1)
	for k, v := range a.Keyword {
		opts[k] = v
	}
	opts[PositionalKey] = slices.Clone(a.Positional)
	return opts
}

// Positional returns the positional arguments stored by Args.Options.
func (o Options) Positional() []string {
	p, _ := o[PositionalKey].([]string)
	return p
}

// Bool returns a keyword option interpreted as a boolean. Command line
// values such as "true" or "1" count.
func (o Options) Bool(name string) bool {
	b, err := cast.ToBoolE(o[name])
	return err == nil && b
}
