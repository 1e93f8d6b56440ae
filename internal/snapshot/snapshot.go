// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/SpongeTsui/openlmi-scripts/internal/issue"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cueutil"

	"cuelang.org/go/cue"
	"github.com/charmbracelet/log"
)

//go:embed snapshot_schema.cue
var snapshotSchema []byte

// ErrSnapshotNotFound is returned when the snapshot file does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

type (
	// Snapshot is the decoded form of a snapshot file. Instance properties
	// are read from the unified CUE value to keep their order.
	Snapshot struct {
		Host       string      `json:"host"`
		Namespaces []Namespace `json:"namespaces"`
	}

	// Namespace lists the classes of one namespace.
	Namespace struct {
		Name      string     `json:"name"`
		Classes   []string   `json:"classes,omitempty"`
		Instances []Instance `json:"instances,omitempty"`
		ValueMaps []ValueMap `json:"value_maps,omitempty"`
	}

	// Instance names the class of a recorded instance.
	Instance struct {
		Class string `json:"class"`
	}

	// ValueMap gives symbolic names to the values of a property.
	ValueMap struct {
		Class    string            `json:"class"`
		Property string            `json:"property"`
		Values   map[string]string `json:"values"`
	}
)

// Load reads the snapshot at path into a broker. The format follows the file
// extension (.yaml and .yml are YAML, anything else CUE).
func Load(ctx context.Context, path string) (*cim.Broker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, issue.NewErrorContext().
				WithOperation("load snapshot").
				WithResource(path).
				WithSuggestion("Check the --snapshot path").
				WithSuggestion("Relative paths are resolved against the current directory").
				WithIssue(issue.SnapshotNotFoundId).
				Wrap(fmt.Errorf("%w: %w", ErrSnapshotNotFound, err)).
				BuildError()
		}
		return nil, issue.WrapWithContext(err, "load snapshot", path)
	}

	b, err := Decode(ctx, data, cueutil.WithFilename(path), cueutil.WithFormat(cueutil.FormatOf(path)))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load snapshot").
			WithResource(path).
			WithSuggestion("Run with --debug to see the full validation error").
			WithSuggestion("Make sure every instance has a class and a properties mapping").
			WithIssue(issue.SnapshotLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return b, nil
}

// Decode validates data against the snapshot schema and builds a broker
// from it.
func Decode(ctx context.Context, data []byte, opts ...cueutil.Option) (*cim.Broker, error) {
	res, err := cueutil.ParseAndDecode[Snapshot](snapshotSchema, data, "#Snapshot", opts...)
	if err != nil {
		return nil, err
	}
	snap := res.Value

	b := cim.NewBroker(snap.Host)
	for i, ns := range snap.Namespaces {
		for _, class := range ns.Classes {
			b.AddClass(ns.Name, class)
		}
		for j, inst := range ns.Instances {
			path := cue.ParsePath(fmt.Sprintf("namespaces[%d].instances[%d].properties", i, j))
			props, err := orderedProperties(res.Unified.LookupPath(path))
			if err != nil {
				return nil, fmt.Errorf("namespace %q: instance #%d of %s: %w", ns.Name, j, inst.Class, err)
			}
			b.AddInstance(ns.Name, inst.Class, props...)
		}
		for _, vm := range ns.ValueMaps {
			b.SetValueMap(ns.Name, vm.Class, vm.Property, vm.Values)
		}
	}

	log.FromContext(ctx).Debug("loaded snapshot", "host", snap.Host, "namespaces", len(snap.Namespaces))
	return b, nil
}

func orderedProperties(v cue.Value) ([]cim.Property, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}

	var props []cim.Property
	for iter.Next() {
		var value any
		if err := iter.Value().Decode(&value); err != nil {
			return nil, fmt.Errorf("property %s: %w", iter.Selector().Unquoted(), err)
		}
		props = append(props, cim.Property{Name: iter.Selector().Unquoted(), Value: value})
	}
	return props, nil
}
