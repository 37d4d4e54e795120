// Package table implements the tabular data model shared by all analytics
// engines: an ordered collection of named columns over rows of typed cells
// with an explicit missing-value marker.
//
// The model reproduces two conventions the engines depend on:
//
//  1. Missing-value propagation: every cell is a Value that is either present
//     or missing. Arithmetic on a missing operand yields missing, and
//     division by zero yields missing rather than an error or infinity.
//  2. Chronological grouping: SortChrono partitions rows by entity
//     (preserving first-seen entity order) and orders each partition by date
//     ascending with a stable tie-break, which is the precondition for every
//     windowed computation downstream.
//
// Components:
//
//   - value.go: the nullable typed cell and its arithmetic
//   - table.go: the ordered-column row store
//   - schema.go: required-column validation (SchemaError)
//   - chrono.go: date coercion and (entity, date) ordering
package table
