package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	caseA = filepath.Join("testdata", "cases", "case_a.yaml")
	caseB = filepath.Join("testdata", "cases", "case_b.yaml")
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(envDatabase, "")
	t.Setenv(envAssumptions, "")
	t.Setenv(envLawChange, "")
	return executeWithEnv(t, args...)
}

func executeWithEnv(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "anypia", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"calculate", "validate", "taxes", "batch", "compare", "history", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "anypia dev (commit none"))
}

func TestCalculateCommand_Console(t *testing.T) {
	out, _, err := execute(t, "calculate", caseA)
	require.NoError(t, err)
	assert.Contains(t, out, "PIA CALCULATION: case-a (present law)")
	assert.Contains(t, out, "Alex Example")
	assert.Contains(t, out, "Governing method:")
	assert.Contains(t, out, "Spouse Example")
}

func TestCalculateCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "calculate", "--format", "json", caseA, caseB)
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "case-a", reports[0]["case_id"])
	assert.Equal(t, "case-b", reports[1]["case_id"])
	assert.Equal(t, float64(1990), reports[0]["elig_year"])
	assert.NotEqual(t, "0", reports[0]["pia"])
}

func TestCalculateCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "calculate", "--format", "pdf", caseA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, _, err = execute(t, "calculate", filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, _, err = execute(t, "calculate")
	assert.Error(t, err, "needs at least one case file")
}

func TestCalculateCommand_AssumptionsOverride(t *testing.T) {
	out, _, err := execute(t, "calculate", "--assumptions", filepath.Join("testdata", "assumptions.yaml"), caseA)
	require.NoError(t, err)
	assert.Contains(t, out, "Average wage growth: 3.50%")
	assert.Contains(t, out, "Benefit increase:    2.00%")
}

func TestValidateCommand(t *testing.T) {
	out, _, err := execute(t, "validate", filepath.Join("testdata", "cases"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+caseA+": case case-a, old-age, 1 family members, present law")
	assert.Contains(t, out, "case case-b")

	out, _, err = execute(t, "validate", caseA, filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 case files failed validation")
	assert.Contains(t, out, "FAIL")
}

func TestTaxesCommand(t *testing.T) {
	out, _, err := execute(t, "taxes", caseA)
	require.NoError(t, err)
	assert.Contains(t, out, "Lifetime payroll taxes for Alex Example (net rates, present law)")
	assert.Contains(t, out, "OASDHI")
	assert.Contains(t, out, "1951")
	assert.Contains(t, out, "taxed over 39 years")

	gross, _, err := execute(t, "taxes", "--gross", caseA)
	require.NoError(t, err)
	assert.Contains(t, gross, "gross rates")
}

func TestBatchCommand(t *testing.T) {
	out, stderr, err := execute(t, "batch", "--workers", "2", filepath.Join("testdata", "cases"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 calculated, 0 failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "CaseID,"))
	assert.True(t, strings.HasPrefix(lines[1], "case-a,"), "Results keep input order")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "case-b,"))
}

var lowerFormula = filepath.Join("testdata", "lower_formula.yaml")

func TestCompareCommand_Table(t *testing.T) {
	out, _, err := execute(t, "compare", "--alternative", lowerFormula, caseA)
	require.NoError(t, err)
	assert.Contains(t, out, "LAW COMPARISON: case-a")
	assert.Contains(t, out, "Worker: Alex Example")
	assert.Contains(t, out, "present law (base)")
	assert.Contains(t, out, "law change: lower formula")
	assert.Contains(t, out, "Largest reduction: law change: lower formula")
}

func TestCompareCommand_CSV(t *testing.T) {
	out, _, err := execute(t, "compare", "-f", "csv", "-a", lowerFormula, "-a", lowerFormula, caseA, caseB)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "CaseID,Law,Type"))
	assert.True(t, strings.HasPrefix(lines[1], "case-a,present law,base,"))
	assert.True(t, strings.HasPrefix(lines[2], "case-a,law change: lower formula,alternative,"))
	assert.True(t, strings.HasPrefix(lines[4], "case-b,present law,base,"))
}

func TestCompareCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "compare", "--format", "json", "-a", lowerFormula, caseB)
	require.NoError(t, err)

	var sets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sets))
	require.Len(t, sets, 1)
	assert.Equal(t, "case-b", sets[0]["caseId"])
	assert.Equal(t, "Blair Example", sets[0]["worker"])
	assert.Len(t, sets[0]["alternativeResults"], 1)
}

func TestCompareCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "compare", caseA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to compare")

	_, _, err = execute(t, "compare", "--format", "xml", "-a", lowerFormula, caseA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, _, err = execute(t, "compare", "-a", filepath.Join("testdata", "missing.yaml"), caseA)
	require.Error(t, err)
}

func TestHistory_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, stderr, err := execute(t, "calculate", "--db", dbPath, caseA)
	require.NoError(t, err)
	require.Contains(t, stderr, "saved run ")
	runID := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(stderr), "saved run "))

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "case-a")

	out, _, err = execute(t, "history", "--db", dbPath, "--run", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "*")

	out, _, err = execute(t, "history", "--db", dbPath, "case-b")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs stored")
}

func TestHistory_DatabaseFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv(envDatabase, dbPath)
	t.Setenv(envAssumptions, "")
	t.Setenv(envLawChange, "")

	_, _, err := executeWithEnv(t, "calculate", caseB)
	require.NoError(t, err)
	_, statErr := os.Stat(dbPath)
	require.NoError(t, statErr, "ANYPIA_DB selects the database when --db is not given")

	out, _, err := executeWithEnv(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "case-b")
}

func TestHistory_NeedsDatabase(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a database")
}

func TestExpandInputs(t *testing.T) {
	files, err := expandInputs([]string{filepath.Join("testdata", "cases")})
	require.NoError(t, err)
	assert.Equal(t, []string{caseA, caseB}, files)

	_, err = expandInputs([]string{t.TempDir()})
	assert.Error(t, err)
}
