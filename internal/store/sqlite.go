package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"hmiscli/internal/table"
)

// SQLiteExporter writes tables into a SQLite database, one SQL table per
// saved table, replacing earlier copies
type SQLiteExporter struct {
	db *sql.DB
}

// NewSQLiteExporter opens (creating if needed) the database at path
func NewSQLiteExporter(path string) (*SQLiteExporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps the transaction and DDL on the same handle
	db.SetMaxOpenConns(1)
	return &SQLiteExporter{db: db}, nil
}

// DB exposes the handle for ad-hoc queries
func (e *SQLiteExporter) DB() *sql.DB { return e.db }

// Close closes the database
func (e *SQLiteExporter) Close() error { return e.db.Close() }

// Export replaces the SQL table name with the contents of t
func (e *SQLiteExporter) Export(ctx context.Context, name string, t *table.Table) (retErr error) {
	columns := t.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	defs := make([]string, len(columns))
	for j, c := range columns {
		defs[j] = quoteIdent(c) + " " + columnType(t.Column(c))
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			args[j] = sqlValue(t.Get(c, i))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, name, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// columnType picks the affinity from the first non-null cell
func columnType(col []table.Value) string {
	for _, v := range col {
		switch v.Kind() {
		case table.KindFloat:
			return "REAL"
		case table.KindBool:
			return "INTEGER"
		case table.KindString, table.KindTime:
			return "TEXT"
		}
	}
	return "TEXT"
}

func sqlValue(v table.Value) any {
	switch v.Kind() {
	case table.KindFloat:
		return v.Num()
	case table.KindBool:
		if v.IsTrue() {
			return 1
		}
		return 0
	case table.KindNull:
		return nil
	}
	return v.String()
}
