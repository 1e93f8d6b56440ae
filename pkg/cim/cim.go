// SPDX-License-Identifier: MPL-2.0

package cim

import (
	"context"
	"errors"
	"fmt"
)

// DefaultNamespace is the canonical namespace session commands are bound to
// unless they name another one.
const DefaultNamespace = "root/cimv2"

var (
	// ErrNamespaceNotFound is returned when a connection has no namespace with the requested name.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrClassNotFound is the sentinel error wrapped by ClassNotFoundError.
	ErrClassNotFound = errors.New("class not found")
	// ErrNoInstance is returned when a class has no instance to return.
	ErrNoInstance = errors.New("no instance available")
	// ErrNotNamespace is returned by AsNamespace when a handle is a raw connection.
	ErrNotNamespace = errors.New("handle is not a namespace")
)

type (
	// Handle is what a command passes to its associated function: either a
	// raw Connection or a Namespace nested in one.
	Handle interface {
		// Connection returns the connection the handle belongs to.
		Connection() Connection
	}

	// Connection is a session with a managed host.
	Connection interface {
		Handle
		// URI identifies the managed host.
		URI() string
		// Namespace returns the namespace with the given name.
		Namespace(name string) (Namespace, error)
	}

	// Namespace scopes class lookups to a single namespace of a connection.
	Namespace interface {
		Handle
		// Name returns the namespace name, e.g. "root/cimv2".
		Name() string
		// Class returns the class with the given name or a *ClassNotFoundError.
		Class(name string) (Class, error)
	}

	// Class gives access to the instances of a single class.
	Class interface {
		Name() string
		// Instances enumerates all instances of the class.
		Instances(ctx context.Context) ([]Instance, error)
		// FirstInstance returns the first instance or ErrNoInstance.
		FirstInstance(ctx context.Context) (Instance, error)
		// ValueName maps a value of a value-mapped property to its symbolic name.
		ValueName(property string, value any) (string, bool)
	}

	// Instance is a single managed object with an ordered set of properties.
	Instance interface {
		ClassName() string
		// Path uniquely identifies the instance on its host.
		Path() string
		// PropertyNames lists property names in their natural order.
		PropertyNames() []string
		// Property returns the value of a property and whether it exists.
		Property(name string) (any, bool)
	}

	// ReturnValue is the structured result of a method invocation.
	ReturnValue struct {
		// RVal is the method's return value.
		RVal any
		// ErrorString carries the provider's error description, if any.
		ErrorString string
	}

	// ClassNotFoundError is returned when a namespace has no class with the given name.
	ClassNotFoundError struct {
		Namespace string
		Class     string
	}
)

// Error implements the error interface.
func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %q not found in namespace %q", e.Class, e.Namespace)
}

// Unwrap returns ErrClassNotFound for errors.Is() compatibility.
func (e *ClassNotFoundError) Unwrap() error { return ErrClassNotFound }

// AsNamespace returns h as a Namespace, failing for raw connections.
func AsNamespace(h Handle) (Namespace, error) {
	if ns, ok := h.(Namespace); ok {
		return ns, nil
	}
	return nil, ErrNotNamespace
}

// NamespacePath returns the identity of ns across connections.
func NamespacePath(ns Namespace) string {
	return ns.Connection().URI() + "/" + ns.Name()
}

// StringProperty returns the property value formatted with %v, or "" when
// the property is absent or nil.
func StringProperty(inst Instance, name string) string {
	v, ok := inst.Property(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
