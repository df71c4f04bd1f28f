package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hmiscli/internal/config"
	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/table"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFEntryID , Name\n 1 ,  Alice \n2,NA\n3\n"
	got, err := ReadCSV(strings.NewReader(input), isRawNull)
	require.NoError(t, err)

	assert.Equal(t, []string{"EntryID", "Name"}, got.Columns(), "BOM stripped and header trimmed")
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, table.String("1"), got.Get("EntryID", 0))
	assert.Equal(t, table.String("Alice"), got.Get("Name", 0))
	assert.True(t, got.Get("Name", 1).IsNull())
	assert.True(t, got.Get("Name", 2).IsNull(), "short record padded")
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), isRawNull)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"), isRawNull)
	assert.Error(t, err)
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	p := &config.Paths{
		BaseDir: base,
		RawDir:  filepath.Join(base, "raw"),
		AuxDir:  filepath.Join(base, "aux"),
	}
	require.NoError(t, os.MkdirAll(p.RawDir, 0o755))
	require.NoError(t, os.MkdirAll(p.AuxDir, 0o755))
	return p
}

func TestLoaderCSV(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(filepath.Join(paths.RawDir, "ReviewDetail.csv"),
		[]byte("EntryID,ReviewDate\n1,1/2/2013\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.AuxDir, "zips.csv"),
		[]byte("zip\n00601\n"), 0o644))

	l := NewLoader(paths, nil)
	ctx := context.Background()

	got, err := l.LoadRaw(ctx, ReviewDetails)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	zips, err := l.LoadAuxiliary(ctx, Zips)
	require.NoError(t, err)
	assert.Equal(t, table.String("00601"), zips.Get("zip", 0), "leading zeros kept")
}

func TestLoaderXLSXFallback(t *testing.T) {
	paths := testPaths(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Provider", "ProgramTypeCode"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Shelter A(1)", "Emergency Shelter (HUD)"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Drop-in(2)", "NA"}))
	require.NoError(t, f.SaveAs(filepath.Join(paths.RawDir, "Providers.xlsx")))
	require.NoError(t, f.Close())

	got, err := NewLoader(paths, nil).LoadRaw(context.Background(), Providers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Provider", "ProgramTypeCode"}, got.Columns())
	assert.Equal(t, 2, got.Len())
	assert.True(t, got.Get("ProgramTypeCode", 1).IsNull())
}

func TestLoaderMissing(t *testing.T) {
	l := NewLoader(testPaths(t), nil)
	ctx := context.Background()

	_, err := l.LoadRaw(ctx, Services)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = l.LoadRaw(ctx, "unknown")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = l.LoadAuxiliary(ctx, Zips)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestLoaderInventory(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(filepath.Join(paths.RawDir, "Master.CSV"), []byte("EntryID\n1\n"), 0o644))

	l := NewLoader(paths, nil)
	entries, err := l.Inventory()
	require.NoError(t, err)
	assert.Len(t, entries, len(TableNames()))

	found := map[string]bool{}
	for _, e := range entries {
		found[e.Table] = e.Found
	}
	assert.True(t, found[Master])
	assert.True(t, found[MasterAll], "master_all reads the same export")
	assert.False(t, found[Services])

	got, err := l.LoadRaw(context.Background(), Master)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}
