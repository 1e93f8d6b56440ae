// SPDX-License-Identifier: MPL-2.0

package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(1)
	cellStyle   = lipgloss.NewStyle().PaddingRight(1)
)

// tablePrinter prints aligned columns without borders.
type tablePrinter struct {
	noHeadings bool
}

func (p tablePrinter) rows(w io.Writer, columns []string, rows [][]string, _ [][]any) error {
	return p.render(w, columns, rows)
}

func (p tablePrinter) record(w io.Writer, names []string, values []string, _ []any) error {
	rows := make([][]string, len(names))
	for i := range names {
		rows[i] = []string{names[i], values[i]}
	}
	return p.render(w, []string{PropertyHeader, ValueHeader}, rows)
}

func (p tablePrinter) render(w io.Writer, columns []string, rows [][]string) error {
	if len(rows) == 0 && p.noHeadings {
		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	if !p.noHeadings {
		t = t.Headers(columns...)
	}

	var out strings.Builder
	for line := range strings.SplitSeq(t.String(), "\n") {
		out.WriteString(strings.TrimRight(line, " "))
		out.WriteByte('\n')
	}
	_, err := io.WriteString(w, out.String())
	return err
}
