package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"courtside/internal/table"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteTable writes a table to a CSV file, creating parent directories as
// needed.
func WriteTable(path string, t *table.Table, options WriteOptions) error {
	slog.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("cols", t.NumCols()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}
	return EncodeTable(file, t)
}

// EncodeTable streams a table as CSV: one header row, then the data rows.
// Missing cells render as empty fields.
func EncodeTable(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j := 0; j < t.NumCols(); j++ {
			record[j] = t.At(i, j).String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadTable loads a CSV file written by WriteTable.
func ReadTable(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()
	return DecodeTable(file)
}

// DecodeTable parses CSV into a table. The first row is the header. Cells
// are re-typed on the way in: empty fields become missing, parseable numbers
// become numeric cells, recognizable dates become date cells, everything
// else stays text.
func DecodeTable(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM left by Excel-compatible writers.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t := table.New(header...)
	for i, record := range records[1:] {
		row := make([]table.Value, len(record))
		for j, field := range record {
			row[j] = parseCell(field)
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return t, nil
}

func parseCell(field string) table.Value {
	if field == "" {
		return table.Missing
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return table.Float(f)
	}
	if d, ok := table.ParseDate(field); ok {
		return table.Time(d)
	}
	return table.String(field)
}
