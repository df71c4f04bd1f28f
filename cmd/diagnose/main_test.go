package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmiscli/internal/table"
)

func sample() *table.Table {
	t := table.New()
	t.Set("ProgramType", []table.Value{table.String("ES"), table.String("ES"), table.String("TH")})
	t.Set("CaseOutcome", []table.Value{table.String("Permanent"), table.String("Permanent"), table.Null()})
	return t
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	xlsx := filepath.Join(t.TempDir(), "d.xlsx")
	err := report(&buf, sample(), options{
		unique: []string{"ProgramType"},
		nulls:  true,
		sankey: "ProgramType,CaseOutcome",
		xlsx:   xlsx,
	})
	require.NoError(t, err)
	assert.Equal(t, "Total rows: 3\nUnique rows: 2\nUnaccounted-for rows: 1\n"+
		"ProgramType\n**NaNs:** 0 / 0%\nCaseOutcome\n**NaNs:** 1 / 33%\n"+
		"ES [2] Permanent\n", buf.String())
	assert.FileExists(t, xlsx)
}

func TestSankeyColumns(t *testing.T) {
	l, r, err := sankeyColumns("A, B")
	require.NoError(t, err)
	assert.Equal(t, "A", l)
	assert.Equal(t, "B", r)

	_, _, err = sankeyColumns("A")
	assert.Error(t, err)

	l, _, err = sankeyColumns("")
	require.NoError(t, err)
	assert.Empty(t, l)
}
