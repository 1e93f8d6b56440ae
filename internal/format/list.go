// SPDX-License-Identifier: MPL-2.0

package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var keyStyle = lipgloss.NewStyle().Bold(true)

// listPrinter prints one "Name: value" line per cell and separates rows with
// an empty line.
type listPrinter struct {
	noHeadings bool
}

func (p listPrinter) rows(w io.Writer, columns []string, rows [][]string, _ [][]any) error {
	for i, row := range rows {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := p.block(w, columns, row); err != nil {
			return err
		}
	}
	return nil
}

func (p listPrinter) record(w io.Writer, names []string, values []string, _ []any) error {
	return p.block(w, names, values)
}

func (p listPrinter) block(w io.Writer, names, values []string) error {
	width := 0
	for _, name := range names {
		width = max(width, lipgloss.Width(label(name)))
	}

	for i, v := range values {
		var line string
		if p.noHeadings {
			line = v
		} else {
			l := label(names[i])
			line = keyStyle.Render(l) + strings.Repeat(" ", width-lipgloss.Width(l)+1) + v
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// label appends a colon unless the name already ends with one.
func label(name string) string {
	if strings.HasSuffix(name, ":") {
		return name
	}
	return name + ":"
}
