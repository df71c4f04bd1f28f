package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		files  []string
		base   string
		want   string
		format Format
		found  bool
	}{
		{"csv preferred", []string{"Master.csv", "Master.xlsx"}, "Master", "Master.csv", FormatCSV, true},
		{"xlsx fallback", []string{"Master.xlsx"}, "Master", "Master.xlsx", FormatXLSX, true},
		{"upper case extension", []string{"Master.CSV"}, "Master", "Master.CSV", FormatCSV, true},
		{"base is case sensitive", []string{"master.csv"}, "Master", "", "", false},
		{"prefix does not match", []string{"MasterAll.csv"}, "Master", "", "", false},
		{"other formats ignored", []string{"Master.txt"}, "Master", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)
			info, ok := NewDiscovery(dir).Locate(tt.base)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, info.Name)
			assert.Equal(t, tt.format, info.Format)
			if ok {
				assert.Equal(t, filepath.Join(dir, tt.want), info.Path)
				assert.Equal(t, int64(1), info.Size)
			}
		})
	}
}

func TestLocateMissingDir(t *testing.T) {
	_, ok := NewDiscovery(filepath.Join(t.TempDir(), "nope")).Locate("Master")
	assert.False(t, ok)
}

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Master.csv", "Providers.xlsx")
	d := NewDiscovery(dir)

	entries, err := d.Inventory(map[string]string{
		"master":    "Master",
		"providers": "Providers",
		"services":  "EntryExitServices",
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "master", entries[0].Table)
	assert.True(t, entries[1].Found)
	assert.Equal(t, FormatXLSX, entries[1].File.Format)

	missing := Missing(entries)
	require.Len(t, missing, 1)
	assert.Equal(t, "EntryExitServices", missing[0].Base)

	_, err = NewDiscovery(filepath.Join(dir, "nope")).Inventory(nil)
	assert.Error(t, err)
}
