package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,age,state\nAlice,35,CA\nBob,28,NY\nCara,41,TX\nDan,abc,CA\n"

// runCLI executes a fresh root command with the given args and returns
// stdout plus the error, if any.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeCmd(t *testing.T) {
	in := writeInput(t, peopleCSV)

	out, err := runCLI(t, "decode", in)
	require.NoError(t, err)
	assert.Contains(t, out, "name, age, state")
	assert.Contains(t, out, "rows:      4")
}

func TestFilterCmd(t *testing.T) {
	in := writeInput(t, peopleCSV)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	out, err := runCLI(t, "filter", "--where", "age>30", "--where", "state IN (CA, TX)", in, outPath)
	require.NoError(t, err)
	// Dan's age is not numeric, so the age clause fails closed.
	assert.Contains(t, out, "2 of 4 rows retained (1 soft errors)")

	result, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "name,age,state\nAlice,35,CA\nCara,41,TX\n", string(result))
}

func TestFilterCmd_BadClause(t *testing.T) {
	in := writeInput(t, peopleCSV)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	_, err := runCLI(t, "filter", "--where", "nonsense", in, outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonsense")
	assert.NoFileExists(t, outPath)
}

func TestCrosstabCmd(t *testing.T) {
	in := writeInput(t, peopleCSV)

	out, err := runCLI(t, "crosstab", "--rows", "state", "--cols", "age", in)
	require.NoError(t, err)
	assert.Contains(t, out, "state")
	assert.Contains(t, out, "total")
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "people.csv")
	outPath := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(in, []byte(peopleCSV), 0o644))

	job := "input: " + in + "\nfilters:\n  age: \">30\"\noutput: " + outPath + "\n"
	jobPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobPath, []byte(job), 0o644))

	out, err := runCLI(t, "run", jobPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 4 rows retained (1 soft errors)")

	result, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "name,age,state\nAlice,35,CA\nCara,41,TX\n", string(result))
}

func TestRunCmd_MissingOutput(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobPath, []byte("input: in.csv\n"), 0o644))

	_, err := runCLI(t, "run", jobPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output is required")
}

func TestSplitWhere(t *testing.T) {
	tests := []struct {
		clause  string
		column  string
		expr    string
		wantErr bool
	}{
		{clause: "age>30", column: "age", expr: ">30"},
		{clause: "age >= 30", column: "age", expr: ">= 30"},
		{clause: "state IN (CA,NY)", column: "state", expr: "IN (CA,NY)"},
		{clause: "price BETWEEN 10 AND 20", column: "price", expr: "BETWEEN 10 AND 20"},
		{clause: "name!=bob", column: "name", expr: "!=bob"},
		{clause: "nonsense", wantErr: true},
		{clause: ">30", wantErr: true},
	}
	for _, tc := range tests {
		column, expr, err := splitWhere(tc.clause)
		if tc.wantErr {
			assert.Error(t, err, "clause %q", tc.clause)
			continue
		}
		require.NoError(t, err, "clause %q", tc.clause)
		assert.Equal(t, tc.column, column, "clause %q", tc.clause)
		assert.Equal(t, tc.expr, expr, "clause %q", tc.clause)
	}
}
