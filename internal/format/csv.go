// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/csv"
	"io"
)

type csvPrinter struct {
	noHeadings bool
}

func (p csvPrinter) rows(w io.Writer, columns []string, rows [][]string, _ [][]any) error {
	cw := csv.NewWriter(w)
	if !p.noHeadings {
		if err := cw.Write(columns); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (p csvPrinter) record(w io.Writer, names []string, values []string, _ []any) error {
	rows := make([][]string, len(names))
	for i := range names {
		rows[i] = []string{names[i], values[i]}
	}
	return p.rows(w, []string{PropertyHeader, ValueHeader}, rows, nil)
}
