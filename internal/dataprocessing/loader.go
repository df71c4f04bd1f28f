package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"hmiscli/internal/config"
	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/files"
	"hmiscli/internal/table"
)

// NullToken is the marker the exports use for a missing value
const NullToken = "NA"

// Loader reads raw exports and auxiliary files
type Loader struct {
	paths  *config.Paths
	raw    *files.Discovery
	logger *slog.Logger
}

// NewLoader creates a loader over the resolved paths
func NewLoader(paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{paths: paths, raw: files.NewDiscovery(paths.RawDir), logger: logger}
}

// isRawNull reports whether a trimmed raw cell is missing
func isRawNull(s string) bool {
	return s == "" || s == NullToken
}

// LoadRaw reads the raw export behind a table name. A CSV is preferred;
// an .xlsx workbook with the same base name is read when no CSV exists.
func (l *Loader) LoadRaw(ctx context.Context, name string) (*table.Table, error) {
	base, err := RawName(name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	info, ok := l.raw.Locate(base)
	if !ok {
		return nil, apperrors.NewNotFoundError("raw export " + l.paths.RawFile(base, ".csv"))
	}

	var t *table.Table
	source := info.Path
	switch info.Format {
	case files.FormatXLSX:
		t, err = ReadXLSXFile(source, isRawNull)
	default:
		t, err = ReadCSVFile(source, isRawNull)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("read "+source, err)
	}

	l.logger.InfoContext(ctx, "Loaded raw table",
		slog.String("table", name),
		slog.String("source", source),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))
	return t, nil
}

// Inventory reports which raw exports are present
func (l *Loader) Inventory() ([]files.Entry, error) {
	return l.raw.Inventory(RawNames())
}

// LoadAuxiliary reads an auxiliary CSV. Every cell stays a string; only
// empty cells are null.
func (l *Loader) LoadAuxiliary(ctx context.Context, name string) (*table.Table, error) {
	path := l.paths.AuxFile(name)
	if !config.FileExists(path) {
		return nil, apperrors.NewNotFoundError("auxiliary file " + path)
	}
	t, err := ReadCSVFile(path, func(s string) bool { return s == "" })
	if err != nil {
		return nil, apperrors.NewParsingError("read "+path, err)
	}
	l.logger.DebugContext(ctx, "Loaded auxiliary table",
		slog.String("name", name),
		slog.Int("rows", t.Len()))
	return t, nil
}

// ReadCSVFile reads a CSV file into a string table
func ReadCSVFile(path string, isNull func(string) bool) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, isNull)
}

// ReadCSV reads a header row and records. A UTF-8 byte order mark is
// dropped, cells are trimmed, and cells for which isNull holds become null.
func ReadCSV(r io.Reader, isNull func(string) bool) (*table.Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(records)+1, err)
		}
		records = append(records, trimRecord(rec, len(header)))
	}
	return table.FromRecords(header, records, isNull)
}

// ReadXLSXFile reads the first sheet of a workbook into a string table
func ReadXLSXFile(path string, isNull func(string) bool) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, trimRecord(row, len(header)))
	}
	return table.FromRecords(header, records, isNull)
}

// trimRecord trims every cell and drops cells past the header width when
// they are blank, as spreadsheet exports often pad rows
func trimRecord(rec []string, width int) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	for len(rec) > width && rec[len(rec)-1] == "" {
		rec = rec[:len(rec)-1]
	}
	return rec
}
