package table

import (
	"encoding/json"
	"fmt"
)

// tableJSON is the wire form of a table: column names plus row-major cells.
type tableJSON struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// MarshalJSON renders the table as {"columns": [...], "rows": [[...]]} with
// missing cells as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = [][]Value{}
	}
	return json.Marshal(tableJSON{Columns: t.Columns(), Rows: rows})
}

// UnmarshalJSON parses the wire form, checking that every row matches the
// column count.
func (t *Table) UnmarshalJSON(data []byte) error {
	var wire tableJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	parsed := New(wire.Columns...)
	for i, row := range wire.Rows {
		if len(row) != len(wire.Columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(wire.Columns))
		}
		parsed.rows = append(parsed.rows, row)
	}
	*t = *parsed
	return nil
}
