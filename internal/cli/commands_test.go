package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoreth/symreg/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = "x1,x2,y\n1,2,5\n2,3,8\n3,4,11\n4,5,14\n"

func TestRoot_RejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "inspect", "whatever.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSample_TextOutput(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "run.yaml", "seed: 1\ncreator: btc\ncount: 3\ntarget_length: 7\n")

	out, err := execute(t, "sample", config)
	require.NoError(t, err)
	assert.Contains(t, out, "len=")
	assert.Contains(t, out, "depth=")
}

func TestSample_WithDatasetAndStore(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "data.csv", sampleCSV)
	config := writeFile(t, dir, "run.yaml",
		"seed: 3\ncreator: ptc2\ncount: 5\ntarget_length: 9\ndataset: "+csv+"\ntarget: y\n")
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "--format", "json", "sample", config, "--db", db)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	runID, _ := data["run_id"].(string)
	require.NotEmpty(t, runID)

	s, err := store.Open(db)
	require.NoError(t, err)
	defer s.Close()

	count, err := s.CountIndividuals(context.Background(), runID)
	require.NoError(t, err)
	assert.Positive(t, count)

	inds, err := s.Individuals(context.Background(), runID)
	require.NoError(t, err)
	for _, ind := range inds {
		assert.Len(t, ind.Fitness, 2, "dataset runs store (mse, length) fitness")
		assert.NotContains(t, ind.Expression, "y", "target column must not appear as a leaf")
	}
}

func TestSample_CountOverride(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "run.yaml", "seed: 1\ncount: 2\ntarget_length: 5\n")

	out, err := execute(t, "--format", "json", "sample", config, "--count", "6")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]interface{})
	trees := data["trees"].([]interface{})
	assert.Len(t, trees, 6)
}

func TestSample_BadConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "run.yaml", "creator: bogus\n")

	_, err := execute(t, "sample", config)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInspect_Text(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "data.csv", sampleCSV)

	out, err := execute(t, "inspect", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "4 rows, 3 columns")
	assert.Contains(t, out, "x1")
	assert.Contains(t, out, "y")
}

func TestInspect_JSON(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "data.csv", sampleCSV)

	out, err := execute(t, "--format", "json", "inspect", csv)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	cols := data["columns"].([]interface{})
	require.Len(t, cols, 3)
	first := cols[0].(map[string]interface{})
	assert.Equal(t, "x1", first["name"])
	assert.InDelta(t, 2.5, first["mean"].(float64), 1e-12)
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRank_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")

	s, err := store.Open(db)
	require.NoError(t, err)
	ctx := context.Background()
	runID, err := s.CreateRun(ctx, store.Run{Seed: 1, Creator: "btc", TargetLength: 7, MaxDepth: 5})
	require.NoError(t, err)
	_, err = s.SaveIndividuals(ctx, []store.Individual{
		{RunID: runID, Expression: "(x1 + x2)", Length: 3, Depth: 2, Hash: 1, Fitness: []float64{1.0, 3}},
		{RunID: runID, Expression: "x1", Length: 1, Depth: 1, Hash: 2, Fitness: []float64{4.0, 1}},
		{RunID: runID, Expression: "((x1 + x2) * x1)", Length: 5, Depth: 3, Hash: 3, Fitness: []float64{2.0, 5}},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := execute(t, "--format", "json", "rank", "--db", db, "--run", runID)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	// (1.0, 3) and (4.0, 1) trade off; (2.0, 5) is dominated by (1.0, 3).
	assert.Equal(t, float64(2), data["fronts"].(float64))
}

func TestRank_UnknownRun(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")

	s, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = execute(t, "rank", "--db", db, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
