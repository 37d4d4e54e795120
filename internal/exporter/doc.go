// Package exporter serializes analytics tables for download and archival.
// CSV is the round-trippable interchange format (UTF-8, comma-separated,
// header row, no index column); XLSX is a convenience export for report
// consumers.
package exporter
