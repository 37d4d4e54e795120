// Package metrics implements the derived-statistics engines: grouped rolling
// averages, pace-adjusted scoring, recent-versus-prior trend deltas, and
// dense entity rankings.
//
// Every engine is a pure function over a table.Table: required columns are
// validated up front (returning *table.SchemaError with all missing names),
// chronological grouping is applied where windows are involved, and a fresh
// table is returned without mutating the input. Numeric edge cases (division
// by zero, empty windows) resolve locally to missing values and are never
// raised as errors.
package metrics
