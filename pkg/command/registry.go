// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps "module.path:function" references to associated functions.
// It replaces dynamic imports: packages register their functions at startup
// and declarations refer to them by string. A Registry is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]map[string]Func)}
}

// Register adds fn under ref. The reference must be well formed and not yet registered.
func (r *Registry) Register(ref string, fn Func) error {
	module, function, err := ParseCallableRef(ref)
	if err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: %q registered with a nil function", ErrInvalidCallable, ref)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	funcs, ok := r.modules[module]
	if !ok {
		funcs = make(map[string]Func)
		r.modules[module] = funcs
	}
	if _, exists := funcs[function]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCallable, ref)
	}
	funcs[function] = fn
	return nil
}

// MustRegister is like Register but panics on error. Use it in startup code
// where a registration failure is a programming error.
func (r *Registry) MustRegister(ref string, fn Func) {
	if err := r.Register(ref, fn); err != nil {
		panic(err)
	}
}

// Resolve returns the function registered under ref.
func (r *Registry) Resolve(ref string) (Func, error) {
	module, function, err := ParseCallableRef(ref)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	funcs, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, module)
	}
	fn, ok := funcs[function]
	if !ok {
		return nil, fmt.Errorf("%w: %q in module %q", ErrFunctionNotFound, function, module)
	}
	return fn, nil
}

// Has reports whether ref resolves.
func (r *Registry) Has(ref string) bool {
	_, err := r.Resolve(ref)
	return err == nil
}

// Refs lists every registered reference in sorted order.
func (r *Registry) Refs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var refs []string
	for module, funcs := range r.modules {
		for function := range funcs {
			refs = append(refs, module+":"+function)
		}
	}
	slices.Sort(refs)
	return refs
}
