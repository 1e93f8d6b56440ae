// SPDX-License-Identifier: MPL-2.0

package cim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	// DefaultSystemClassName is the preferred computer-system class.
	DefaultSystemClassName = "PG_ComputerSystem"
	// BaseSystemClassName is the class enumerated when the preferred one is missing.
	BaseSystemClassName = "CIM_ComputerSystem"
)

// SystemResolver finds the computer-system instance of a namespace and caches
// it per connection URI and namespace name. Lookups are serialized, so a
// resolver may be shared by concurrently running commands.
type SystemResolver struct {
	className string
	logger    *log.Logger

	mu    sync.Mutex
	cache map[string]Instance
}

// NewSystemResolver creates a resolver preferring className. An empty name
// selects DefaultSystemClassName; a nil logger selects log.Default().
func NewSystemResolver(className string, logger *log.Logger) *SystemResolver {
	if className == "" {
		className = DefaultSystemClassName
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SystemResolver{
		className: className,
		logger:    logger,
		cache:     make(map[string]Instance),
	}
}

// ClassName returns the preferred computer-system class.
func (r *SystemResolver) ClassName() string { return r.className }

// ComputerSystem returns the first instance of the preferred class, falling
// back to BaseSystemClassName when the preferred class does not exist.
func (r *SystemResolver) ComputerSystem(ctx context.Context, ns Namespace) (Instance, error) {
	key := NamespacePath(ns)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cs, ok := r.cache[key]; ok {
		return cs, nil
	}

	cs, err := firstOf(ctx, ns, r.className)
	if errors.Is(err, ErrClassNotFound) {
		r.logger.Warn("falling back to base computer system class",
			"class", r.className, "fallback", BaseSystemClassName, "host", ns.Connection().URI())
		cs, err = firstOf(ctx, ns, BaseSystemClassName)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve computer system on %s: %w", key, err)
	}

	r.logger.Debug("loaded computer system", "namespace", ns.Name(), "class", cs.ClassName(), "host", ns.Connection().URI())
	r.cache[key] = cs
	return cs, nil
}

// Invalidate drops every cached instance.
func (r *SystemResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func firstOf(ctx context.Context, ns Namespace, className string) (Instance, error) {
	c, err := ns.Class(className)
	if err != nil {
		return nil, err
	}
	return c.FirstInstance(ctx)
}
