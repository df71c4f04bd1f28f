// Package dataprocessing turns the raw HMIS exports into cleaned tables.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Loader: reads a raw export (CSV, or an .xlsx workbook of the same name) and auxiliary files
// 2. Per-table rules: date parsing, category remapping, and derived columns for each export
// 3. Master: the case-record table built from the raw master export and the cleaned secondary tables
//
// # Usage
//
//	loader := dataprocessing.NewLoader(paths, logger)
//	cleaner := dataprocessing.NewCleaner(loader, tableStore, cfg.Cleaning)
//	if err := cleaner.CleanAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// A single table is cleaned with Clean; its cleaned dependencies must have
// been saved first. CleanOrder lists every table with dependencies first:
//
//	providers, entry_disabilities, ... , master_all, master
//
// # Data Flow
//
//	raw export → Loader → string table → rules → cleaned table → TableStore
//
// # Error Handling
//
// Failures are AppErrors from internal/errors: NOT_FOUND for a missing raw
// export, DEPENDENCY when a cleaned table the step needs was never saved,
// PARSING for unreadable files. Unparseable dates and numbers are not errors;
// they become null and are counted in the step log.
package dataprocessing
