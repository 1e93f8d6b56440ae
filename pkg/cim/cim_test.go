// SPDX-License-Identifier: MPL-2.0

package cim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestBroker() *Broker {
	b := NewBroker("host.example.com")
	b.AddInstance(DefaultNamespace, "PG_ComputerSystem",
		Property{Name: "Name", Value: "host.example.com"},
		Property{Name: "EnabledState", Value: uint16(2)},
	)
	b.AddInstance(DefaultNamespace, "LMI_Chassis",
		Property{Name: "ChassisPackageType", Value: uint16(3)},
	)
	b.SetValueMap(DefaultNamespace, "LMI_Chassis", "ChassisPackageType", map[string]string{"3": "Desktop"})
	return b
}

func TestBroker_NamespaceAndClass(t *testing.T) {
	t.Parallel()

	b := newTestBroker()

	if _, err := b.Namespace("root/missing"); !errors.Is(err, ErrNamespaceNotFound) {
		t.Fatalf("Namespace(missing) error = %v, want ErrNamespaceNotFound", err)
	}

	ns, err := b.Namespace(DefaultNamespace)
	if err != nil {
		t.Fatalf("Namespace() error = %v", err)
	}
	if ns.Connection() != Connection(b) {
		t.Error("namespace should point back to its broker")
	}

	_, err = ns.Class("LMI_Nope")
	var cnf *ClassNotFoundError
	if !errors.As(err, &cnf) || !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("Class(missing) error = %v, want *ClassNotFoundError", err)
	}
	if cnf.Class != "LMI_Nope" {
		t.Errorf("ClassNotFoundError.Class = %q", cnf.Class)
	}

	chassis, err := ns.Class("LMI_Chassis")
	if err != nil {
		t.Fatalf("Class() error = %v", err)
	}
	name, ok := chassis.ValueName("ChassisPackageType", uint16(3))
	if !ok || name != "Desktop" {
		t.Errorf("ValueName() = %q, %v; want Desktop, true", name, ok)
	}
	if _, ok := chassis.ValueName("ChassisPackageType", 9); ok {
		t.Error("ValueName() should miss for unmapped values")
	}
}

func TestBroker_EmptyClass(t *testing.T) {
	t.Parallel()

	b := NewBroker("h")
	b.AddClass("root/cimv2", "LMI_Memory")
	ns, _ := b.Namespace("root/cimv2")
	c, err := ns.Class("LMI_Memory")
	if err != nil {
		t.Fatalf("Class() error = %v", err)
	}
	if _, err := c.FirstInstance(context.Background()); !errors.Is(err, ErrNoInstance) {
		t.Errorf("FirstInstance() error = %v, want ErrNoInstance", err)
	}
	insts, err := c.Instances(context.Background())
	if err != nil || len(insts) != 0 {
		t.Errorf("Instances() = %v, %v; want empty", insts, err)
	}
}

func TestMemInstance_PropertyOrder(t *testing.T) {
	t.Parallel()

	inst := NewInstance("X", Property{Name: "B", Value: 1}, Property{Name: "A", Value: nil})
	names := inst.PropertyNames()
	if strings.Join(names, ",") != "B,A" {
		t.Errorf("PropertyNames() = %v, want [B A]", names)
	}
	if v, ok := inst.Property("A"); !ok || v != nil {
		t.Errorf("Property(A) = %v, %v", v, ok)
	}
	if _, ok := inst.Property("C"); ok {
		t.Error("Property(C) should not exist")
	}
	if StringProperty(inst, "B") != "1" || StringProperty(inst, "A") != "" {
		t.Error("StringProperty() mismatch")
	}
}

func TestAsNamespace(t *testing.T) {
	t.Parallel()

	b := newTestBroker()
	if _, err := AsNamespace(b); !errors.Is(err, ErrNotNamespace) {
		t.Errorf("AsNamespace(conn) error = %v", err)
	}
	ns, _ := b.Namespace(DefaultNamespace)
	if got, err := AsNamespace(ns); err != nil || got.Name() != DefaultNamespace {
		t.Errorf("AsNamespace(ns) = %v, %v", got, err)
	}
	if NamespacePath(ns) != "host.example.com/root/cimv2" {
		t.Errorf("NamespacePath() = %q", NamespacePath(ns))
	}
}

func TestSystemResolver_PreferredAndCached(t *testing.T) {
	t.Parallel()

	b := newTestBroker()
	ns, _ := b.Namespace(DefaultNamespace)
	r := NewSystemResolver("", nil)

	cs, err := r.ComputerSystem(context.Background(), ns)
	if err != nil {
		t.Fatalf("ComputerSystem() error = %v", err)
	}
	if cs.ClassName() != DefaultSystemClassName {
		t.Errorf("class = %q", cs.ClassName())
	}

	// A second instance added later must not replace the cached one.
	b.AddInstance(DefaultNamespace, "PG_ComputerSystem", Property{Name: "Name", Value: "other"})
	again, _ := r.ComputerSystem(context.Background(), ns)
	if again != cs {
		t.Error("expected cached computer system")
	}

	r.Invalidate()
	fresh, _ := r.ComputerSystem(context.Background(), ns)
	if fresh != cs {
		t.Error("first instance should still be returned after invalidation")
	}
}

func TestSystemResolver_Fallback(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})

	b := NewBroker("h")
	b.AddInstance(DefaultNamespace, BaseSystemClassName, Property{Name: "Name", Value: "h"})
	ns, _ := b.Namespace(DefaultNamespace)

	r := NewSystemResolver("LMI_Missing", logger)
	cs, err := r.ComputerSystem(context.Background(), ns)
	if err != nil {
		t.Fatalf("ComputerSystem() error = %v", err)
	}
	if cs.ClassName() != BaseSystemClassName {
		t.Errorf("class = %q, want %q", cs.ClassName(), BaseSystemClassName)
	}
	if !strings.Contains(buf.String(), "falling back") {
		t.Errorf("expected fallback warning, got %q", buf.String())
	}
}

func TestSystemResolver_NoSystem(t *testing.T) {
	t.Parallel()

	b := NewBroker("h")
	b.AddClass(DefaultNamespace, "Other")
	ns, _ := b.Namespace(DefaultNamespace)

	r := NewSystemResolver("", log.New(&bytes.Buffer{}))
	if _, err := r.ComputerSystem(context.Background(), ns); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("ComputerSystem() error = %v, want ErrClassNotFound", err)
	}
}

func TestSystemResolver_Concurrent(t *testing.T) {
	t.Parallel()

	b := newTestBroker()
	ns, _ := b.Namespace(DefaultNamespace)
	r := NewSystemResolver("", nil)

	var wg sync.WaitGroup
	results := make([]Instance, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cs, err := r.ComputerSystem(context.Background(), ns)
			if err != nil {
				t.Errorf("ComputerSystem() error = %v", err)
				return
			}
			results[i] = cs
		}()
	}
	wg.Wait()

	for i, cs := range results {
		if cs != results[0] {
			t.Errorf("result %d differs from result 0", i)
		}
	}
}
