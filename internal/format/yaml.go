// SPDX-License-Identifier: MPL-2.0

package format

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlPrinter prints rows as a sequence of mappings and records as a single
// mapping. Mapping nodes keep the column order.
type yamlPrinter struct{}

func (yamlPrinter) rows(w io.Writer, columns []string, rows [][]string, raw [][]any) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range rows {
		m, err := yamlMapping(columns, rows[i], raw[i])
		if err != nil {
			return err
		}
		seq.Content = append(seq.Content, m)
	}
	return encodeYAML(w, seq)
}

func (yamlPrinter) record(w io.Writer, names []string, values []string, raw []any) error {
	m, err := yamlMapping(names, values, raw)
	if err != nil {
		return err
	}
	return encodeYAML(w, m)
}

func yamlMapping(keys, values []string, raw []any) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i, key := range keys {
		v, err := yamlValue(raw[i], values[i])
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	}
	return m, nil
}

// yamlValue encodes scalars with their native YAML type and everything else
// as its formatted string.
func yamlValue(raw any, formatted string) (*yaml.Node, error) {
	n := &yaml.Node{}
	switch raw.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		if err := n.Encode(raw); err != nil {
			return nil, err
		}
		return n, nil
	}
	if err := n.Encode(formatted); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeYAML(w io.Writer, n *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}
