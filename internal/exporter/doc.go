// Package exporter writes tables as delimited text and Excel workbooks.
//
// WriteTable renders a table.Table as CSV. WekaOptions selects the dialect
// the classifier harness needs: every string quoted, numbers and booleans
// bare, and "?" for missing values.
//
//	w := exporter.NewCSVWriter(modelDir)
//	err := w.WriteFile("demographics_to_CaseSuccess_by_logistic.csv", data, exporter.WekaOptions)
//
// WriteXLSX writes one worksheet per table through excelize.
package exporter
