package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmiscli/internal/config"
)

func readAll(t *testing.T, s Store, key string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	info, err := s.Put(ctx, "pickles/master.gob", strings.NewReader("v1"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size)
	assert.Equal(t, "v1", readAll(t, s, "pickles/master.gob"))

	_, err = s.Put(ctx, "pickles/master.gob", strings.NewReader("version2"), "")
	require.NoError(t, err, "put overwrites")
	assert.Equal(t, "version2", readAll(t, s, "pickles/master.gob"))

	_, err = s.Put(ctx, "csvs/master.csv", strings.NewReader("a,b\n"), "text/csv")
	require.NoError(t, err)

	list, err := s.List(ctx, "pickles/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pickles/master.gob", list[0].Key)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.Get(ctx, "pickles/missing.gob")
	assert.True(t, errors.Is(err, ErrNotFound))

	existed, err := s.Delete(ctx, "csvs/master.csv")
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = s.Delete(ctx, "csvs/master.csv")
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = s.Put(ctx, "  ", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	assert.Equal(t, DriverMemory, s.Driver())
	exerciseStore(t, s)
}

func TestFilesystemStore(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesystem(root)
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())
	exerciseStore(t, s)

	data, err := os.ReadFile(filepath.Join(root, "pickles", "master.gob"))
	require.NoError(t, err)
	assert.Equal(t, "version2", string(data), "keys map to plain files")
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	for _, key := range []string{"../escape", "/abs", "a/../../b"} {
		_, err := s.Put(ctx, key, strings.NewReader("x"), "")
		assert.Error(t, err, key)
	}
	_, err = NewFilesystem("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.StorageConfig{Driver: "memory"}, "")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, config.StorageConfig{}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, config.StorageConfig{Driver: "s3"}, "")
	assert.Error(t, err, "bucket required")

	_, err = Open(ctx, config.StorageConfig{Driver: "tape"}, "")
	assert.Error(t, err)
}
