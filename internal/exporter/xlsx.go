package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"hmiscli/internal/table"
)

// Sheet is one named worksheet of a workbook export
type Sheet struct {
	Name  string
	Table *table.Table
}

// WriteXLSX writes each table to its own worksheet. Numbers and booleans are
// stored as typed cells, nulls as empty cells.
func WriteXLSX(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet) error {
	columns := sh.Table.Columns()
	header := make([]interface{}, len(columns))
	for j, c := range columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sh.Name, err)
	}
	row := make([]interface{}, len(columns))
	for i := 0; i < sh.Table.Len(); i++ {
		for j, c := range columns {
			v := sh.Table.Get(c, i)
			switch v.Kind() {
			case table.KindNull:
				row[j] = nil
			case table.KindFloat:
				row[j] = v.Num()
			case table.KindBool:
				row[j] = v.IsTrue()
			default:
				row[j] = v.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, sh.Name, err)
		}
	}
	return nil
}
