package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hmiscli/internal/table"
)

// Quoting selects how cells are quoted
type Quoting int

const (
	// QuoteMinimal quotes only cells that need it (encoding/csv rules)
	QuoteMinimal Quoting = iota
	// QuoteNonNumeric quotes every string cell and header; numbers, booleans
	// and the null token are written bare
	QuoteNonNumeric
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Quoting   Quoting
	NullToken string // written for null cells, empty by default
	BOMPrefix bool   // Add UTF-8 BOM for Excel compatibility
}

// WekaOptions are the options Weka's CSV loader expects
var WekaOptions = WriteOptions{Quoting: QuoteNonNumeric, NullToken: "?"}

// CSVWriter writes tables under a base directory
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer rooted at dir
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteFile writes t to name (relative to the writer directory)
func (w *CSVWriter) WriteFile(name string, t *table.Table, opts WriteOptions) error {
	fullPath := name
	if !filepath.IsAbs(name) {
		fullPath = filepath.Join(w.dir, name)
	}

	slog.Debug("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", t.Len()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	if err := WriteTable(file, t, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteTable writes a header row and one record per table row
func WriteTable(out io.Writer, t *table.Table, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	if opts.Quoting == QuoteNonNumeric {
		return writeNonNumeric(out, t, opts.NullToken)
	}

	writer := csv.NewWriter(out)
	columns := t.Columns()
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, name := range columns {
			v := t.Get(name, i)
			if v.IsNull() {
				record[j] = opts.NullToken
				continue
			}
			record[j] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// writeNonNumeric is the quote-all-strings dialect; encoding/csv has no
// forced-quoting mode
func writeNonNumeric(out io.Writer, t *table.Table, nullToken string) error {
	bw := bufio.NewWriter(out)
	columns := t.Columns()
	for j, name := range columns {
		if j > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(quote(name))
	}
	bw.WriteByte('\n')
	for i := 0; i < t.Len(); i++ {
		for j, name := range columns {
			if j > 0 {
				bw.WriteByte(',')
			}
			v := t.Get(name, i)
			switch v.Kind() {
			case table.KindNull:
				bw.WriteString(nullToken)
			case table.KindFloat, table.KindBool:
				bw.WriteString(v.String())
			default:
				bw.WriteString(quote(v.String()))
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
