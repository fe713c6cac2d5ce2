package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "g.lp")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRunRequiresAtLeastOneFile(t *testing.T) {
	var out bytes.Buffer
	err := run(&runOptions{mus: true}, &out)
	assert.Error(t, err)
}

func TestRunRequiresAtLeastOneMode(t *testing.T) {
	path := writeProgram(t, "a.")
	var out bytes.Buffer
	err := run(&runOptions{files: []string{path}}, &out)
	assert.Error(t, err)
}

func TestRunMUSSingleCulprit(t *testing.T) {
	path := writeProgram(t, "a(1..5).\n:- a(3).\n")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, models: 1, assumptionSignatures: []string{"a/1"}, files: []string{path}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "MUS 1: a(3)\n", out.String())
}

func TestRunMUSSatisfiableYieldsEmptyLine(t *testing.T) {
	path := writeProgram(t, "a(1..5).\n")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, models: 1, assumptionSignatures: []string{"a/1"}, files: []string{path}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "MUS 1: \n", out.String())
}

func TestRunMUSEnumerateFindsAllThree(t *testing.T) {
	path := writeProgram(t, "a(1..10).\n:- a(3).\n:- a(5).\n:- a(9).\n")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, models: 0, assumptionSignatures: []string{"a/1"}, files: []string{path}}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	joined := strings.Join(lines, " ")
	assert.Contains(t, joined, "a(3)")
	assert.Contains(t, joined, "a(5)")
	assert.Contains(t, joined, "a(9)")
}

func TestRunMUSEnumerateWithASPExplorerFindsAllThree(t *testing.T) {
	path := writeProgram(t, "a(1..10).\n:- a(3).\n:- a(5).\n:- a(9).\n")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, models: 0, explorer: "asp", assumptionSignatures: []string{"a/1"}, files: []string{path}}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	joined := strings.Join(lines, " ")
	assert.Contains(t, joined, "a(3)")
	assert.Contains(t, joined, "a(5)")
	assert.Contains(t, joined, "a(9)")
}

func TestRunRejectsUnknownExplorer(t *testing.T) {
	path := writeProgram(t, "a(1..5).\n:- a(3).\n")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, models: 0, explorer: "bogus", assumptionSignatures: []string{"a/1"}, files: []string{path}}, &out)
	assert.Error(t, err)
}

func TestRunUnsatConstraintsReportsFiringLine(t *testing.T) {
	path := writeProgram(t, "a.\n:- a.\n:- not a.\n")
	var out bytes.Buffer
	err := run(&runOptions{unsatConstraints: true, files: []string{path}}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), ":- a.")
	assert.Contains(t, out.String(), "line 2")
}

func TestRunUnsatConstraintsSatisfiableIsEmpty(t *testing.T) {
	path := writeProgram(t, "a.\nb :- a.\n")
	var out bytes.Buffer
	err := run(&runOptions{unsatConstraints: true, files: []string{path}}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRunShowDecisionsPrintsDecisionStream(t *testing.T) {
	path := writeProgram(t, "{a}.\nb :- a.\n")
	var out bytes.Buffer
	err := run(&runOptions{showDecisions: true, files: []string{path}}, &out)
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}

func TestRunRejectsMalformedAssumptionSignature(t *testing.T) {
	path := writeProgram(t, "a.")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, assumptionSignatures: []string{"noarity"}, files: []string{path}}, &out)
	assert.Error(t, err)
}

func TestRunRejectsMalformedConstant(t *testing.T) {
	path := writeProgram(t, "a.")
	var out bytes.Buffer
	err := run(&runOptions{mus: true, constants: []string{"noequals"}, files: []string{path}}, &out)
	assert.Error(t, err)
}
