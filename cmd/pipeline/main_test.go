package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"hmiscli/internal/features"
)

func TestCountFailed(t *testing.T) {
	assert.Equal(t, 2, countFailed(map[string]int{"a": 0, "b": 1, "c": -1}))
	assert.Zero(t, countFailed(nil))
}

func TestPrintCodes(t *testing.T) {
	var buf bytes.Buffer
	printCodes(&buf, map[string]int{"b": 1, "a": 0})
	assert.Equal(t, "a\t0\nb\t1\n", buf.String())
}

func TestPrintRegistry(t *testing.T) {
	var buf bytes.Buffer
	printRegistry(&buf, features.Default())
	out := buf.String()
	assert.Contains(t, out, "  program_location (1 columns)\n")
	assert.Contains(t, out, "  logistic_small: functions.Logistic -M 10\n")
}
