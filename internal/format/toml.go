// SPDX-License-Identifier: MPL-2.0

package format

import (
	"io"

	"github.com/pelletier/go-toml/v2"
)

// RowsTable is the TOML array-of-tables name of lister output.
const RowsTable = "rows"

// tomlPrinter prints rows as an array of tables and records as top-level
// keys. Keys are emitted one at a time to keep the column order.
type tomlPrinter struct{}

func (p tomlPrinter) rows(w io.Writer, columns []string, rows [][]string, raw [][]any) error {
	for i := range rows {
		header := "[[" + RowsTable + "]]\n"
		if i > 0 {
			header = "\n" + header
		}
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
		if err := p.record(w, columns, rows[i], raw[i]); err != nil {
			return err
		}
	}
	return nil
}

func (tomlPrinter) record(w io.Writer, names []string, values []string, raw []any) error {
	for i, name := range names {
		data, err := toml.Marshal(map[string]any{name: tomlValue(raw[i], values[i])})
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// tomlValue keeps native scalars. TOML has no null, so nil becomes "".
func tomlValue(raw any, formatted string) any {
	switch raw.(type) {
	case bool, int, int8, int16, int32, int64, uint8, uint16, uint32, float32, float64:
		return raw
	}
	return formatted
}
