package table

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError reports required columns absent from a table. Missing always
// lists every absent column, sorted.
type SchemaError struct {
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Missing, " "))
}

// RequireColumns verifies that every named column exists. On failure the
// returned *SchemaError lists all missing names sorted, not just the first.
// Duplicate requirements are collapsed.
func (t *Table) RequireColumns(names ...string) error {
	seen := make(map[string]bool, len(names))
	var missing []string
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &SchemaError{Missing: missing}
}
