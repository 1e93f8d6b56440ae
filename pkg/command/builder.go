// SPDX-License-Identifier: MPL-2.0

package command

import (
	"slices"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"

	"github.com/charmbracelet/log"
)

type (
	// Builder derives descriptors from declarations. A Builder is configured
	// once and may build any number of declarations.
	Builder struct {
		registry  *Registry
		logger    *log.Logger
		namespace string
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)
)

// WithRegistry sets the registry string CALLABLE references are resolved in.
func WithRegistry(r *Registry) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithLogger sets the logger for load-time warnings and pipeline traces.
func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithDefaultNamespace sets the namespace of session commands that do not
// declare their own.
func WithDefaultNamespace(ns string) BuilderOption {
	return func(b *Builder) {
		if ns != "" {
			b.namespace = ns
		}
	}
}

// NewBuilder returns a builder with an empty registry, the default logger and
// the cim.DefaultNamespace, adjusted by opts.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		registry:  NewRegistry(),
		logger:    log.Default(),
		namespace: cim.DefaultNamespace,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the registry used to resolve CALLABLE references.
func (b *Builder) Registry() *Registry { return b.registry }

// DefaultNamespace returns the namespace given to session commands without one.
func (b *Builder) DefaultNamespace() string { return b.namespace }

// Build runs decl through the construction pipeline. The declaration is not
// retained; on failure no descriptor is returned.
func (b *Builder) Build(decl Declaration) (*Descriptor, error) {
	d := &Descriptor{
		module: decl.Module,
		name:   decl.Name,
		base:   decl.Extends,
	}
	b.enter(d, StageDeclared)

	kind, err := validateDeclaration(&decl)
	if err != nil {
		return nil, err
	}
	d.kind = kind
	d.doc = decl.Doc
	if d.doc == "" && decl.Extends != nil {
		d.doc = decl.Extends.doc
	}
	if err := resolveUsage(&decl, d); err != nil {
		return nil, err
	}
	b.enter(d, StageValidated)

	if !kind.IsLeaf() {
		if err := b.resolveTree(&decl, d); err != nil {
			return nil, err
		}
		b.enter(d, StageTreeResolved)
		b.enter(d, StageFrozen)
		return d, nil
	}

	if err := b.bindExecute(&decl, d); err != nil {
		return nil, err
	}
	b.enter(d, StageBound)

	switch {
	case kind.Has(KindLister):
		d.columns = slices.Clone(decl.Columns)
		if d.columns == nil && decl.Extends != nil {
			d.columns = slices.Clone(decl.Extends.columns)
		}
		b.enter(d, StageRendered)
	case kind.Has(KindShowInstance):
		resolveRender(&decl, d)
		b.enter(d, StageRendered)
	}

	if kind.Has(KindCheckResult) {
		resolveCheck(&decl, d)
		if d.check == nil {
			b.logger.Debug("no result checker yet, command stays abstract", "command", d.QualifiedName())
		}
		b.enter(d, StageChecked)
	}

	b.enter(d, StageFrozen)
	return d, nil
}

// MustBuild is like Build but panics on error. It is meant for package-level
// command declarations.
func (b *Builder) MustBuild(decl Declaration) *Descriptor {
	d, err := b.Build(decl)
	if err != nil {
		panic(err)
	}
	return d
}

func (b *Builder) enter(d *Descriptor, s Stage) {
	d.trace = append(d.trace, s)
	b.logger.Debug("command stage", "command", d.QualifiedName(), "stage", s)
}
