// Package store persists cleaned tables. Every table is saved twice: a gob
// cache that later cleaning steps load, and a CSV for people.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"hmiscli/internal/blob"
	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/exporter"
	"hmiscli/internal/table"
)

const (
	picklesPrefix = "pickles"
	csvPrefix     = "csvs"
)

// TableStore saves and loads named tables through a blob.Store
type TableStore struct {
	blobs  blob.Store
	sqlite *SQLiteExporter
	logger *slog.Logger
}

// Option configures a TableStore
type Option func(*TableStore)

// WithSQLite mirrors every saved table into a SQLite database
func WithSQLite(e *SQLiteExporter) Option {
	return func(s *TableStore) { s.sqlite = e }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *TableStore) { s.logger = l }
}

// New creates a TableStore on blobs
func New(blobs blob.Store, opts ...Option) *TableStore {
	s := &TableStore{blobs: blobs, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PickleKey is the blob key of a table's binary cache
func PickleKey(name string) string { return path.Join(picklesPrefix, name+".gob") }

// CSVKey is the blob key of a table's CSV rendering
func CSVKey(name string) string { return path.Join(csvPrefix, name+".csv") }

// Save writes the binary cache and the CSV for t, plus the SQLite mirror
// when configured
func (s *TableStore) Save(ctx context.Context, name string, t *table.Table) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return apperrors.NewStorageError("encode "+name, err)
	}
	if _, err := s.blobs.Put(ctx, PickleKey(name), bytes.NewReader(data), "application/octet-stream"); err != nil {
		return apperrors.NewStorageError("save "+PickleKey(name), err)
	}

	var buf bytes.Buffer
	if err := exporter.WriteTable(&buf, t, exporter.WriteOptions{}); err != nil {
		return apperrors.NewStorageError("render "+name, err)
	}
	if _, err := s.blobs.Put(ctx, CSVKey(name), &buf, "text/csv"); err != nil {
		return apperrors.NewStorageError("save "+CSVKey(name), err)
	}

	if s.sqlite != nil {
		if err := s.sqlite.Export(ctx, name, t); err != nil {
			return apperrors.NewStorageError("export "+name+" to sqlite", err)
		}
	}

	s.logger.InfoContext(ctx, "Saved table",
		slog.String("table", name),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())),
		slog.String("driver", string(s.blobs.Driver())))
	return nil
}

// Load reads a table saved by Save. A table that was never saved yields a
// NOT_FOUND AppError.
func (s *TableStore) Load(ctx context.Context, name string) (*table.Table, error) {
	rc, err := s.blobs.Get(ctx, PickleKey(name))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("cleaned table " + name)
		}
		return nil, apperrors.NewStorageError("load "+PickleKey(name), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.NewStorageError("read "+PickleKey(name), err)
	}
	var t table.Table
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, apperrors.NewParsingError("decode "+PickleKey(name), err)
	}
	return &t, nil
}

// Saved lists the names of the saved tables
func (s *TableStore) Saved(ctx context.Context) ([]string, error) {
	infos, err := s.blobs.List(ctx, picklesPrefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list saved tables: %w", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		base := path.Base(info.Key)
		if path.Ext(base) == ".gob" {
			names = append(names, base[:len(base)-len(".gob")])
		}
	}
	return names, nil
}

// Close releases the SQLite mirror, if any
func (s *TableStore) Close() error {
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	return nil
}
