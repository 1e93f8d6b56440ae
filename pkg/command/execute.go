// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
)

// bindExecute resolves the execute behavior of a leaf command. A hand-written
// Execute wins, then a concrete execute inherited from the base, and only
// then is one synthesized from CALLABLE.
func (b *Builder) bindExecute(decl *Declaration, d *Descriptor) error {
	if decl.Execute != nil {
		d.execute = decl.Execute
		d.associated = nil
		d.namespace = ""
		return nil
	}

	if base := decl.Extends; base != nil && base.execute != nil {
		if decl.Callable != nil || decl.CallableRef != "" {
			b.logger.Debug("keeping inherited execute, CALLABLE ignored",
				"command", d.QualifiedName(), "base", base.QualifiedName())
		}
		d.execute = base.execute
		d.associated = base.associated
		d.namespace = base.namespace
		return nil
	}

	fn, err := b.resolveCallable(decl)
	if err != nil {
		return err
	}
	if fn == nil {
		return definitionErr(decl, AttrCallable, ErrMissingCallable, "missing CALLABLE property")
	}

	namespace := ""
	if d.kind.Has(KindSession) && !decl.RawConnection {
		namespace = decl.Namespace
		if namespace == "" {
			namespace = b.namespace
		}
	}

	d.execute = makeExecute(fn, namespace)
	d.associated = fn
	d.namespace = namespace
	return nil
}

// resolveCallable returns the declared associated function, looking string
// references up in the builder's registry.
func (b *Builder) resolveCallable(decl *Declaration) (Func, error) {
	if decl.Callable != nil {
		return decl.Callable, nil
	}
	if decl.CallableRef == "" {
		return nil, nil
	}

	fn, err := b.registry.Resolve(decl.CallableRef)
	if err != nil {
		if errors.Is(err, ErrInvalidCallable) {
			return nil, definitionErr(decl, AttrCallable, ErrInvalidCallable, "%v", err)
		}
		return nil, &ResolutionError{
			Module:  decl.Module,
			Command: decl.Name,
			Ref:     decl.CallableRef,
			Cause:   err,
		}
	}
	return fn, nil
}

// makeExecute wraps fn so it receives a handle scoped to namespace, or the
// raw connection when namespace is empty.
func makeExecute(fn Func, namespace string) ExecuteFunc {
	if namespace == "" {
		return func(ctx context.Context, conn cim.Connection, args Args) (any, error) {
			return fn(ctx, conn, args)
		}
	}
	return func(ctx context.Context, conn cim.Connection, args Args) (any, error) {
		if conn == nil {
			return nil, fmt.Errorf("wrap connection into namespace %q: no connection", namespace)
		}
		ns, err := conn.Namespace(namespace)
		if err != nil {
			return nil, fmt.Errorf("wrap connection into namespace %q: %w", namespace, err)
		}
		return fn(ctx, ns, args)
	}
}
