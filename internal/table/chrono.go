package table

import (
	"strings"
	"time"
)

// dateFormats lists the date layouts accepted when coercing cells, in
// priority order.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
}

// ParseDate parses a date string in one of the supported layouts. ISO-8601
// timestamps are accepted by their date prefix.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		// ISO-8601 timestamp: only the date prefix matters here.
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceDate normalizes a cell to a date cell. Unparseable or non-date
// content becomes missing, never an error.
func coerceDate(v Value) Value {
	switch v.kind {
	case KindTime:
		return v
	case KindString:
		if t, ok := ParseDate(v.s); ok {
			return Time(t)
		}
		return Missing
	default:
		return Missing
	}
}

// SortChrono returns a copy of the table prepared for grouped chronological
// computation: the date column coerced to date cells (invalid values become
// missing), rows partitioned by entity in first-seen entity order, and each
// partition ordered by date ascending with missing dates last. Ties keep
// their original relative order. The input table is not mutated.
//
// Every windowed engine calls this first; windows downstream are defined by
// row position within an entity's slice, not by date arithmetic.
func SortChrono(t *Table, entityCol, dateCol string) (*Table, error) {
	if err := t.RequireColumns(entityCol, dateCol); err != nil {
		return nil, err
	}

	out := t.Clone()
	di := out.ColumnIndex(dateCol)
	for _, row := range out.rows {
		row[di] = coerceDate(row[di])
	}

	ei := out.ColumnIndex(entityCol)
	order := make(map[string]int)
	for _, row := range out.rows {
		key := row[ei].String()
		if _, ok := order[key]; !ok {
			order[key] = len(order)
		}
	}

	out.SortStable(func(i, j int) bool {
		a, b := out.rows[i], out.rows[j]
		ga, gb := order[a[ei].String()], order[b[ei].String()]
		if ga != gb {
			return ga < gb
		}
		da, okA := a[di].Date()
		db, okB := b[di].Date()
		if okA != okB {
			return okA // missing dates sort last within the entity
		}
		return okA && da.Before(db)
	})
	return out, nil
}

// EntityPartitions returns, for a table already ordered by SortChrono, the
// half-open row ranges [start, end) of each entity in first-seen order.
func EntityPartitions(t *Table, entityCol string) [][2]int {
	ei := t.ColumnIndex(entityCol)
	if ei < 0 {
		return nil
	}
	var parts [][2]int
	start := 0
	for i := 1; i <= len(t.rows); i++ {
		if i == len(t.rows) || !t.rows[i][ei].Equal(t.rows[start][ei]) {
			parts = append(parts, [2]int{start, i})
			start = i
		}
	}
	return parts
}
