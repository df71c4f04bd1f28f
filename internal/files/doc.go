// Package files locates raw HMIS exports on disk.
//
// Exports are looked up by base name inside one directory. A CSV is
// preferred over an Excel workbook with the same base name, and extensions
// match case-insensitively, so "Master.CSV" and "master.csv" are both
// found for the base name "Master".
//
//	d := files.NewDiscovery(paths.RawDir)
//	info, ok := d.Locate("EntryExitServices")
package files
