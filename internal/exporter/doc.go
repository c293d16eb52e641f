// Package exporter writes a finished report.
//
// WriteJSON produces the canonical output: two-space indented JSON, object
// keys in a fixed order and region keys sorted, so identical input always
// yields identical bytes.
//
// WriteXLSX renders the same report as a workbook with one sheet per metric
// group (Summary, TopProducts, Rolling7d) for readers who open it in a
// spreadsheet.
package exporter
