// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
)

type (
	// Descriptor is the immutable product of Builder.Build. It is either a
	// leaf bound to an execute behavior or a node with children, never both.
	Descriptor struct {
		module string
		name   string
		kind   Kind
		doc    string
		base   *Descriptor

		usage    func() string
		ownUsage bool

		namespace  string
		execute    ExecuteFunc
		associated Func

		columns []string
		render  RenderFunc

		check    CheckFunc
		expected *Expectation

		children []Child

		trace []Stage
	}

	// Child is a named entry of a multiplexer's dispatch table.
	Child struct {
		Name    string
		Command *Descriptor
	}

	// WalkFunc is called by Walk for every descriptor of a tree with the
	// names leading to it.
	WalkFunc func(path []string, d *Descriptor) error
)

// Name returns the declared command name.
func (d *Descriptor) Name() string { return d.name }

// Module returns the declaring module.
func (d *Descriptor) Module() string { return d.module }

// QualifiedName returns "module.Name", or just the name without a module.
func (d *Descriptor) QualifiedName() string { return qualify(d.module, d.name) }

// Kind returns the normalized kind set.
func (d *Descriptor) Kind() Kind { return d.kind }

// Doc returns the documentation, possibly inherited from a parent multiplexer.
func (d *Descriptor) Doc() string { return d.doc }

// Base returns the descriptor this one was derived from, or nil.
func (d *Descriptor) Base() *Descriptor { return d.base }

// Usage returns the usage text for the external usage parser, or "".
func (d *Descriptor) Usage() string {
	if d.usage == nil {
		return ""
	}
	return d.usage()
}

// HasOwnUsage reports whether the command supplied its own usage text.
func (d *Descriptor) HasOwnUsage() bool { return d.ownUsage }

// Namespace returns the namespace the connection is wrapped into, or "" when
// the associated function receives the raw connection.
func (d *Descriptor) Namespace() string { return d.namespace }

// Columns returns the declared lister columns.
func (d *Descriptor) Columns() []string { return slices.Clone(d.columns) }

// Associated returns the wrapped associated function, or nil for
// hand-written execute behaviors.
func (d *Descriptor) Associated() Func { return d.associated }

// Expected returns the literal EXPECT value, if the checker compares against one.
func (d *Descriptor) Expected() (any, bool) {
	if d.expected == nil {
		return nil, false
	}
	return d.expected.Value()
}

// IsEndPoint reports whether the descriptor is a leaf.
func (d *Descriptor) IsEndPoint() bool { return d.kind.IsLeaf() }

// IsMultiplexer reports whether the descriptor dispatches to children.
func (d *Descriptor) IsMultiplexer() bool { return d.kind.Has(KindMultiplexer) }

// CanRender reports whether Render is available.
func (d *Descriptor) CanRender() bool { return d.render != nil }

// CanCheck reports whether CheckResult is available.
func (d *Descriptor) CanCheck() bool { return d.check != nil }

// IsAbstract reports whether a behavior required by the kind is missing, so
// the descriptor can only serve as a base for further declarations.
func (d *Descriptor) IsAbstract() bool {
	if d.IsMultiplexer() {
		return len(d.children) == 0
	}
	if d.execute == nil {
		return true
	}
	if d.kind.Has(KindShowInstance) && d.render == nil {
		return true
	}
	return d.kind.Has(KindCheckResult) && d.check == nil
}

// Trace returns the pipeline stages the descriptor went through.
func (d *Descriptor) Trace() []Stage { return slices.Clone(d.trace) }

// Execute runs the bound execute behavior.
func (d *Descriptor) Execute(ctx context.Context, conn cim.Connection, args Args) (any, error) {
	if d.execute == nil {
		return nil, fmt.Errorf("%s: %w", d.QualifiedName(), ErrNotExecutable)
	}
	return d.execute(ctx, conn, args)
}

// Render converts a raw result into ordered column names and values.
func (d *Descriptor) Render(ctx context.Context, result any) ([]string, []any, error) {
	if d.render == nil {
		return nil, nil, fmt.Errorf("%s: %w", d.QualifiedName(), ErrNotRenderable)
	}
	return d.render(ctx, result)
}

// CheckResult judges a raw result.
func (d *Descriptor) CheckResult(opts Options, result any) (bool, error) {
	if d.check == nil {
		return false, fmt.Errorf("%s: %w", d.QualifiedName(), ErrNoChecker)
	}
	return d.check(opts, result), nil
}

// Children returns the dispatch table ordered by name.
func (d *Descriptor) Children() []Child { return slices.Clone(d.children) }

// Child returns the child registered under name.
func (d *Descriptor) Child(name string) (*Descriptor, bool) {
	i, found := slices.BinarySearchFunc(d.children, name, func(c Child, n string) int {
		switch {
		case c.Name < n:
			return -1
		case c.Name > n:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return nil, false
	}
	return d.children[i].Command, true
}

// Lookup follows path through the children as far as it resolves and returns
// the deepest descriptor reached with the unconsumed path segments.
func (d *Descriptor) Lookup(path []string) (*Descriptor, []string) {
	cur := d
	for i, seg := range path {
		next, ok := cur.Child(seg)
		if !ok {
			return cur, path[i:]
		}
		cur = next
	}
	return cur, nil
}

// Walk calls fn for d and every descriptor below it, depth first in name order.
func Walk(d *Descriptor, fn WalkFunc) error {
	return walk(nil, d, fn)
}

func walk(path []string, d *Descriptor, fn WalkFunc) error {
	if err := fn(path, d); err != nil {
		return err
	}
	for _, c := range d.children {
		if err := walk(append(slices.Clip(path), c.Name), c.Command, fn); err != nil {
			return err
		}
	}
	return nil
}

// withDoc returns a copy of d documented with doc.
func (d *Descriptor) withDoc(doc string) *Descriptor {
	clone := *d
	clone.doc = doc
	return &clone
}
