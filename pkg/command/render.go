// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"

	"github.com/charmbracelet/log"
)

const (
	// UnknownValue is rendered for declared properties missing on the instance.
	UnknownValue = "UNKNOWN"
	// ErrorValue is rendered for properties whose transform failed.
	ErrorValue = "ERROR"
)

// resolveRender fixes the render behavior of a show-instance command.
// Declared PROPERTIES, DYNAMIC_PROPERTIES or a hand-written render always
// apply; otherwise a concrete inherited render is kept and the all-properties
// strategy fills the gap.
func resolveRender(decl *Declaration, d *Descriptor) {
	switch {
	case decl.Render != nil:
		d.render = decl.Render
	case decl.Properties != nil:
		d.render = renderWithProperties(decl.Properties)
	case decl.DynamicProperties:
		d.render = renderDynamic
	case decl.Extends != nil && decl.Extends.render != nil:
		d.render = decl.Extends.render
	default:
		d.render = renderAllProperties
	}
}

// renderAllProperties renders every property of the instance in its natural
// order. Nil values render as empty strings.
func renderAllProperties(_ context.Context, result any) ([]string, []any, error) {
	inst, err := instanceOf(result)
	if err != nil {
		return nil, nil, err
	}
	names := inst.PropertyNames()
	values := make([]any, len(names))
	for i, name := range names {
		v, _ := inst.Property(name)
		if v == nil {
			v = ""
		}
		values[i] = v
	}
	return names, values, nil
}

// renderWithProperties renders a fixed property list. A missing property
// renders as UnknownValue and a failing transform as ErrorValue; neither
// aborts the rendering of the remaining properties.
func renderWithProperties(props []Property) RenderFunc {
	props = append([]Property(nil), props...)
	return func(ctx context.Context, result any) ([]string, []any, error) {
		inst, err := instanceOf(result)
		if err != nil {
			return nil, nil, err
		}
		columns, values := renderProperties(ctx, props, inst)
		return columns, values, nil
	}
}

// renderDynamic renders the property list supplied by the associated function.
func renderDynamic(ctx context.Context, result any) ([]string, []any, error) {
	var dr DynamicResult
	switch r := result.(type) {
	case DynamicResult:
		dr = r
	case *DynamicResult:
		if r == nil {
			return nil, nil, fmt.Errorf("%w: nil dynamic result", ErrUnexpectedResult)
		}
		dr = *r
	default:
		return nil, nil, fmt.Errorf("%w: expected (properties, instance) pair, got %T", ErrUnexpectedResult, result)
	}
	if dr.Instance == nil {
		return nil, nil, fmt.Errorf("%w: dynamic result without an instance", ErrUnexpectedResult)
	}
	columns, values := renderProperties(ctx, dr.Properties, dr.Instance)
	return columns, values, nil
}

func renderProperties(ctx context.Context, props []Property, inst cim.Instance) ([]string, []any) {
	logger := log.FromContext(ctx)
	columns := make([]string, len(props))
	values := make([]any, len(props))

	for i, prop := range props {
		columns[i] = prop.Name

		if prop.Transform == nil {
			v, ok := inst.Property(prop.Name)
			switch {
			case !ok:
				logger.Warn("property not present in instance", "property", prop.Name, "path", inst.Path())
				v = UnknownValue
			case v == nil:
				v = ""
			}
			values[i] = v
			continue
		}

		v, err, stack := transform(prop.Transform, inst)
		if err != nil {
			if logger.GetLevel() <= log.DebugLevel {
				logger.Error("failed to render property", "property", prop.Name, "err", err, "stack", string(stack))
			} else {
				logger.Error("failed to render property", "property", prop.Name, "err", err)
			}
			v = ErrorValue
		}
		values[i] = v
	}
	return columns, values
}

// transform calls fn, converting a panic into an error. The returned stack
// points at the failure.
func transform(fn TransformFunc, inst cim.Instance) (v any, err error, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("panic: %v", r)
			stack = debug.Stack()
		}
	}()
	v, err = fn(inst)
	if err != nil {
		stack = debug.Stack()
	}
	return v, err, stack
}

func instanceOf(result any) (cim.Instance, error) {
	inst, ok := result.(cim.Instance)
	if !ok || inst == nil {
		return nil, fmt.Errorf("%w: expected an instance, got %T", ErrUnexpectedResult, result)
	}
	return inst, nil
}
