// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestTree_CommandNamePattern(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)
	child := leaf(t, b, "Child")

	tests := []struct {
		key     string
		wantErr bool
	}{
		{"good_name", false},
		{"list", false},
		{"show-all", false},
		{"Bad Name!", true},
		{"", true},
		{"1st", true},
		{"trailing-", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			_, err := b.Build(Declaration{
				Module:   "test",
				Name:     "Cmd",
				Kind:     KindMultiplexer,
				Doc:      "Commands.",
				Commands: map[string]*Descriptor{tt.key: child},
			})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) || !errors.Is(err, ErrDefinition) {
					t.Errorf("Build() error = %v, want ErrInvalidName", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Build() error = %v", err)
			}
		})
	}
}

func TestTree_InvalidChildren(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)
	abstract := b.MustBuild(Declaration{Name: "Abstract", Kind: KindCheckResult, Callable: noop})

	for name, child := range map[string]*Descriptor{"nil": nil, "abstract": abstract} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := b.Build(Declaration{Name: "Cmd", Kind: KindMultiplexer, Doc: "doc", Commands: map[string]*Descriptor{"x": child}})
			var defErr *DefinitionError
			if !errors.As(err, &defErr) || !errors.Is(err, ErrInvalidChild) {
				t.Fatalf("Build() error = %v, want ErrInvalidChild", err)
			}
			if defErr.Attribute != AttrCommands {
				t.Errorf("Attribute = %q, want %q", defErr.Attribute, AttrCommands)
			}
		})
	}
}

func TestTree_ChildrenOrderedAndLookup(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)
	cpu, mem := leaf(t, b, "Cpu"), leaf(t, b, "Memory")
	hw := b.MustBuild(Declaration{
		Name:     "Hardware",
		Kind:     KindMultiplexer,
		Doc:      "Hardware information.",
		Commands: map[string]*Descriptor{"memory": mem, "cpu": cpu},
	})
	root := b.MustBuild(Declaration{
		Name:     "Lmi",
		Kind:     KindMultiplexer,
		Doc:      "Management scripts.",
		Commands: map[string]*Descriptor{"hwinfo": hw},
	})

	var names []string
	for _, c := range hw.Children() {
		names = append(names, c.Name)
	}
	if !slices.Equal(names, []string{"cpu", "memory"}) {
		t.Errorf("Children() names = %v, want sorted", names)
	}

	got, rest := root.Lookup([]string{"hwinfo", "cpu", "--all"})
	if got != cpu || !slices.Equal(rest, []string{"--all"}) {
		t.Errorf("Lookup() = %v, %v; want cpu and the remaining args", got.Name(), rest)
	}
	got, rest = root.Lookup([]string{"nope"})
	if got != root || len(rest) != 1 {
		t.Errorf("Lookup(unknown) = %v, %v; want root and the unresolved segment", got.Name(), rest)
	}
	if _, ok := hw.Child("gpu"); ok {
		t.Error("Child(gpu) should be missing")
	}

	var paths []string
	err := Walk(root, func(path []string, _ *Descriptor) error {
		paths = append(paths, strings.Join(path, " "))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if want := []string{"", "hwinfo", "hwinfo cpu", "hwinfo memory"}; !slices.Equal(paths, want) {
		t.Errorf("Walk() paths = %q, want %q", paths, want)
	}

	stop := errors.New("stop")
	if err := Walk(root, func([]string, *Descriptor) error { return stop }); !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want the callback error", err)
	}
}

func TestTree_DocPropagation(t *testing.T) {
	t.Parallel()

	b, logs := newTestBuilder(t)
	end := leaf(t, b, "End")
	inner := b.MustBuild(Declaration{Name: "Inner", Kind: KindMultiplexer, Commands: map[string]*Descriptor{"end": end}})
	if !strings.Contains(logs.String(), "missing description") {
		t.Errorf("undocumented multiplexer should be warned about, log = %q", logs.String())
	}
	if inner.Doc() != "" {
		t.Fatalf("Inner doc = %q, want empty", inner.Doc())
	}

	undocLeaf := b.MustBuild(Declaration{Name: "Bare", Kind: KindEndPoint, Callable: noop})
	outer := b.MustBuild(Declaration{
		Name:     "Outer",
		Kind:     KindMultiplexer,
		Doc:      "Outer commands.",
		Commands: map[string]*Descriptor{"inner": inner, "bare": undocLeaf},
	})

	gotInner, _ := outer.Child("inner")
	if gotInner.Doc() != "Outer commands." {
		t.Errorf("child multiplexer doc = %q, want inherited", gotInner.Doc())
	}
	if gotInner.Usage() != "Outer commands." {
		t.Errorf("child multiplexer usage = %q, want inherited doc", gotInner.Usage())
	}
	if inner.Doc() != "" {
		t.Error("doc propagation must not modify the built child")
	}
	if gotLeaf, _ := outer.Child("bare"); gotLeaf != undocLeaf || gotLeaf.Doc() != "" {
		t.Error("leaf children are not documented by their parent")
	}
	if gotEnd, _ := gotInner.Child("end"); gotEnd != end {
		t.Error("documented grandchildren are kept unchanged")
	}
}

func TestTree_NonRoot(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)
	a, c := leaf(t, b, "A"), leaf(t, b, "C")
	base := b.MustBuild(Declaration{Name: "Base", Kind: KindMultiplexer, Doc: "Base.", Commands: map[string]*Descriptor{"a": a}})

	derived, err := b.Build(Declaration{Name: "Derived", Extends: base})
	if err != nil {
		t.Fatalf("non-root multiplexer without COMMANDS: Build() error = %v", err)
	}
	if !derived.IsMultiplexer() || derived.Doc() != "Base." {
		t.Errorf("derived kind %v doc %q, want inherited", derived.Kind(), derived.Doc())
	}
	if got, ok := derived.Child("a"); !ok || got != a {
		t.Error("derived multiplexer should inherit the base's children")
	}

	replaced := b.MustBuild(Declaration{Name: "Replaced", Extends: base, Commands: map[string]*Descriptor{"c": c}})
	if _, ok := replaced.Child("a"); ok {
		t.Error("declared COMMANDS replace the inherited table")
	}
	if _, ok := replaced.Child("c"); !ok {
		t.Error("declared child c is missing")
	}
}
