// SPDX-License-Identifier: MPL-2.0

package cim

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type (
	// Property is a single name/value pair of an instance.
	Property struct {
		Name  string
		Value any
	}

	// Broker is an in-memory Connection. It is populated up front (from a
	// snapshot or a test) and is safe for concurrent readers.
	Broker struct {
		uri string

		mu         sync.RWMutex
		namespaces map[string]*memNamespace
	}

	// MemInstance is an Instance backed by an ordered property list.
	MemInstance struct {
		class string
		path  string
		props []Property
	}

	memNamespace struct {
		broker  *Broker
		name    string
		classes map[string]*memClass
	}

	memClass struct {
		ns        *memNamespace
		name      string
		instances []Instance
		valueMaps map[string]map[string]string
	}
)

// NewBroker creates an empty broker for the given host URI.
func NewBroker(uri string) *Broker {
	return &Broker{
		uri:        uri,
		namespaces: make(map[string]*memNamespace),
	}
}

// Connection implements Handle.
func (b *Broker) Connection() Connection { return b }

// URI implements Connection.
func (b *Broker) URI() string { return b.uri }

// Namespace implements Connection.
func (b *Broker) Namespace(name string) (Namespace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ns, ok := b.namespaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrNamespaceNotFound, name, b.uri)
	}
	return ns, nil
}

// Namespaces lists the namespace names known to the broker.
func (b *Broker) Namespaces() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.namespaces))
	for name := range b.namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AddInstance appends an instance of class to the namespace, creating both
// when needed, and returns the stored instance.
func (b *Broker) AddInstance(namespace, class string, props ...Property) *MemInstance {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.classLocked(namespace, class)
	inst := &MemInstance{
		class: class,
		path:  fmt.Sprintf("//%s/%s:%s[%d]", b.uri, namespace, class, len(c.instances)),
		props: slices.Clone(props),
	}
	c.instances = append(c.instances, inst)
	return inst
}

// AddClass declares an empty class so lookups succeed without instances.
func (b *Broker) AddClass(namespace, class string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classLocked(namespace, class)
}

// SetValueMap registers symbolic names for the values of a class property.
func (b *Broker) SetValueMap(namespace, class, property string, values map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.classLocked(namespace, class)
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = v
	}
	c.valueMaps[property] = m
}

func (b *Broker) classLocked(namespace, class string) *memClass {
	ns, ok := b.namespaces[namespace]
	if !ok {
		ns = &memNamespace{broker: b, name: namespace, classes: make(map[string]*memClass)}
		b.namespaces[namespace] = ns
	}
	c, ok := ns.classes[class]
	if !ok {
		c = &memClass{ns: ns, name: class, valueMaps: make(map[string]map[string]string)}
		ns.classes[class] = c
	}
	return c
}

func (n *memNamespace) Connection() Connection { return n.broker }

func (n *memNamespace) Name() string { return n.name }

func (n *memNamespace) Class(name string) (Class, error) {
	n.broker.mu.RLock()
	defer n.broker.mu.RUnlock()

	c, ok := n.classes[name]
	if !ok {
		return nil, &ClassNotFoundError{Namespace: n.name, Class: name}
	}
	return c, nil
}

func (c *memClass) Name() string { return c.name }

func (c *memClass) Instances(ctx context.Context) ([]Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.ns.broker.mu.RLock()
	defer c.ns.broker.mu.RUnlock()
	return slices.Clone(c.instances), nil
}

func (c *memClass) FirstInstance(ctx context.Context) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.ns.broker.mu.RLock()
	defer c.ns.broker.mu.RUnlock()

	if len(c.instances) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInstance, c.name)
	}
	return c.instances[0], nil
}

func (c *memClass) ValueName(property string, value any) (string, bool) {
	c.ns.broker.mu.RLock()
	defer c.ns.broker.mu.RUnlock()

	m, ok := c.valueMaps[property]
	if !ok {
		return "", false
	}
	name, ok := m[fmt.Sprint(value)]
	return name, ok
}

// NewInstance creates a detached instance, mostly useful in tests.
func NewInstance(class string, props ...Property) *MemInstance {
	return &MemInstance{class: class, path: class, props: slices.Clone(props)}
}

// ClassName implements Instance.
func (i *MemInstance) ClassName() string { return i.class }

// Path implements Instance.
func (i *MemInstance) Path() string { return i.path }

// PropertyNames implements Instance.
func (i *MemInstance) PropertyNames() []string {
	names := make([]string, len(i.props))
	for idx, p := range i.props {
		names[idx] = p.Name
	}
	return names
}

// Property implements Instance.
func (i *MemInstance) Property(name string) (any, bool) {
	for _, p := range i.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}
