// SPDX-License-Identifier: MPL-2.0

package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"

	"github.com/spf13/cast"
)

// Record headers used when a show-instance result is printed as a table.
const (
	PropertyHeader = "Property"
	ValueHeader    = "Value"
)

var (
	// ErrUnknownFormat is returned for output formats without a printer.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrRowWidth is returned when a row does not match the column count.
	ErrRowWidth = errors.New("row does not match columns")
)

type (
	// Options selects and tunes the output format.
	Options struct {
		Format config.ListerFormat
		// NoHeadings drops the header row (table, csv) or the keys (list).
		NoHeadings bool
		// HumanFriendly prints booleans as yes/no and lists comma separated.
		HumanFriendly bool
	}

	printer interface {
		rows(w io.Writer, columns []string, rows [][]string, raw [][]any) error
		record(w io.Writer, names []string, values []string, raw []any) error
	}
)

// OptionsFromConfig returns the output options configured in cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format:        cfg.Format.Lister,
		NoHeadings:    cfg.Format.NoHeadings,
		HumanFriendly: cfg.Format.HumanFriendly,
	}
}

// Rows prints lister output. Every row must have one value per column.
func Rows(w io.Writer, opts Options, columns []string, rows [][]any) error {
	p, err := printerFor(opts)
	if err != nil {
		return err
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("%w: row #%d has %d values for %d columns", ErrRowWidth, i, len(row), len(columns))
		}
		cells[i] = stringify(row, opts.HumanFriendly)
	}
	return p.rows(w, columns, cells, rows)
}

// Record prints the ordered properties of a single instance.
func Record(w io.Writer, opts Options, names []string, values []any) error {
	p, err := printerFor(opts)
	if err != nil {
		return err
	}
	if len(names) != len(values) {
		return fmt.Errorf("%w: %d values for %d properties", ErrRowWidth, len(values), len(names))
	}
	return p.record(w, names, stringify(values, opts.HumanFriendly), values)
}

func printerFor(opts Options) (printer, error) {
	switch opts.Format {
	case config.ListerTable, "":
		return tablePrinter{noHeadings: opts.NoHeadings}, nil
	case config.ListerList:
		return listPrinter{noHeadings: opts.NoHeadings}, nil
	case config.ListerCSV:
		return csvPrinter{noHeadings: opts.NoHeadings}, nil
	case config.ListerYAML:
		return yamlPrinter{}, nil
	case config.ListerTOML:
		return tomlPrinter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func stringify(values []any, human bool) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Value(v, human)
	}
	return out
}

// Value formats a single cell.
func Value(v any, human bool) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case bool:
		if human {
			if tv {
				return "yes"
			}
			return "no"
		}
		return cast.ToString(tv)
	case []string:
		return strings.Join(tv, sep(human))
	case []any:
		return strings.Join(stringify(tv, human), sep(human))
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func sep(human bool) string {
	if human {
		return ", "
	}
	return ","
}
