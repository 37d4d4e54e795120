package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a cell value.
type Kind uint8

const (
	// KindMissing marks an explicitly absent value, distinct from zero.
	KindMissing Kind = iota
	// KindFloat is a numeric cell.
	KindFloat
	// KindString is a text cell (entity names, statuses).
	KindString
	// KindTime is a date cell, normalized to midnight UTC.
	KindTime
)

// Value is a single typed cell. The zero Value is missing.
type Value struct {
	kind Kind
	f    float64
	s    string
	t    time.Time
}

// Missing is the explicit absent-value marker.
var Missing = Value{}

// Float wraps a numeric cell value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Int wraps an integer as a numeric cell value.
func Int(i int) Value {
	return Value{kind: KindFloat, f: float64(i)}
}

// String wraps a text cell value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Time wraps a date cell value, truncated to the day in UTC.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t.UTC().Truncate(24 * time.Hour)}
}

// Kind returns the cell's kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float64 returns the numeric content. ok is false for non-numeric or
// missing cells.
func (v Value) Float64() (f float64, ok bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Str returns the text content. ok is false for non-text or missing cells.
func (v Value) Str() (s string, ok bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Date returns the date content. ok is false for non-date or missing cells.
func (v Value) Date() (t time.Time, ok bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Equal reports field equality between two cells. Missing equals missing.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Add returns v + o, or missing if either operand is not numeric.
func (v Value) Add(o Value) Value {
	a, okA := v.Float64()
	b, okB := o.Float64()
	if !okA || !okB {
		return Missing
	}
	return Float(a + b)
}

// Sub returns v - o, or missing if either operand is not numeric.
func (v Value) Sub(o Value) Value {
	a, okA := v.Float64()
	b, okB := o.Float64()
	if !okA || !okB {
		return Missing
	}
	return Float(a - b)
}

// Mul returns v * o, or missing if either operand is not numeric.
func (v Value) Mul(o Value) Value {
	a, okA := v.Float64()
	b, okB := o.Float64()
	if !okA || !okB {
		return Missing
	}
	return Float(a * b)
}

// Div returns v / o. A missing operand or a zero divisor yields missing;
// division never errors and never produces infinity.
func (v Value) Div(o Value) Value {
	a, okA := v.Float64()
	b, okB := o.Float64()
	if !okA || !okB || b == 0 {
		return Missing
	}
	return Float(a / b)
}

// String renders the cell for CSV export: empty string for missing, ISO date
// for dates, minimal decimal notation for numbers.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format("2006-01-02")
	default:
		return ""
	}
}

// MarshalJSON renders missing cells as null, dates as ISO strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindTime:
		return json.Marshal(v.t.Format("2006-01-02"))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers, and strings. Strings matching an ISO
// date become date cells.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Float(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unsupported cell value: %s", trimmed)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		*v = Time(t)
		return nil
	}
	*v = String(s)
	return nil
}

// Mean returns the arithmetic mean of the numeric values in vals, skipping
// missing and non-numeric cells. Returns missing when no numeric value is
// present.
func Mean(vals []Value) Value {
	var sum float64
	var n int
	for _, v := range vals {
		if f, ok := v.Float64(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return Missing
	}
	return Float(sum / float64(n))
}
