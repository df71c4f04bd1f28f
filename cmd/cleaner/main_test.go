package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hmiscli/internal/dataprocessing"
	"hmiscli/internal/files"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"providers", "master"}, splitList(" providers, ,master "))
}

func TestPrintTables(t *testing.T) {
	var buf bytes.Buffer
	printTables(&buf, []files.Entry{
		{Table: dataprocessing.Providers, Base: "Providers", Found: true, File: files.FileInfo{Name: "Providers.xlsx"}},
		{Table: dataprocessing.Master, Base: "Master"},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, len(dataprocessing.TableNames()))
	assert.Contains(t, lines, "providers\t[Providers.xlsx]")

	var master string
	for _, l := range lines {
		if strings.HasPrefix(l, "master\t") {
			master = l
		}
	}
	assert.Contains(t, master, "[missing Master]")
	assert.Contains(t, master, "needs ")
	assert.Contains(t, master, "master_all")
}
