package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cms-cvs-history/trajfilter/state"
	"github.com/cms-cvs-history/trajfilter/trace"
	"github.com/cms-cvs-history/trajfilter/trajectory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	out, err := execute(t, "eval", "--threshold", "1", "--momentum", "10,0,0", "--sigma-qop", "0.01")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=above_threshold continue=true accept=false")

	out, err = execute(t, "eval", "--threshold", "1", "--momentum", "0.5,0,0", "--sigma-qop", "0.01", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"outcome":"below_threshold"`)
	assert.Contains(t, out, `"accept":true`)

	out, err = execute(t, "eval", "--threshold", "1", "--min-hits", "3", "--hits", "2", "--momentum", "0.001,0,0", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"outcome":"below_min_hits"`)
	assert.Contains(t, out, `"pt":0`)
}

func TestEval_Errors(t *testing.T) {
	_, err := execute(t, "eval", "--momentum", "1,0,0")
	assert.Error(t, err)

	_, err = execute(t, "eval", "--threshold", "1", "--momentum", "1,0")
	assert.ErrorContains(t, err, "3 values")

	_, err = execute(t, "eval", "--threshold=-1", "--momentum", "1,0,0")
	assert.ErrorContains(t, err, "thresholdPt")

	_, err = execute(t, "eval", "--threshold", "1", "--momentum", "1,0,0", "--cov", "1,2,3")
	assert.Error(t, err)
}

func measurement(pt float64) trajectory.Measurement {
	return trajectory.Measurement{
		Valid: true,
		UpdatedState: state.FreeState{
			Momentum: state.Vector{X: pt},
			Charge:   -1,
			Error:    state.DiagonalError([state.CurvilinearDim]float64{1e-4, 1e-6, 1e-6, 1e-4, 1e-4}),
		},
	}
}

func writeTraceFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := trace.NewWriter(f, trace.CompressionForName(path), nil)
	require.NoError(t, err)
	for id, pts := range [][]float64{{10, 10, 10}, {10, 0.5}, {0.005}} {
		var traj trajectory.TempTrajectory
		for _, pt := range pts {
			traj = traj.Push(measurement(pt))
		}
		require.NoError(t, w.Write(trace.RecordOf(uint32(id), traj.ToTrajectory())))
	}
	require.NoError(t, w.Close())
}

func TestReplay(t *testing.T) {
	root := t.TempDir()
	writeTraceFile(t, filepath.Join(root, "traces", "run.jsonl.zst"))

	cfgPath := filepath.Join(root, "ptfilter.yaml")
	cfg := "filter:\n  thresholdPt: 1\nstore:\n  kind: local\n  root: " + root + "\nledger:\n  kind: memory\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, err := execute(t, "replay", "--config", cfgPath, "--report", "reports/run.json", "traces/run.jsonl.zst")
	require.NoError(t, err)
	assert.Contains(t, out, "candidates=3 skipped=0 accepted=2 exhausted=1")
	assert.Contains(t, out, "report reports/run.json")

	_, err = os.Stat(filepath.Join(root, "reports", "run.json"))
	require.NoError(t, err)

	_, err = execute(t, "replay", "--config", cfgPath, "traces/missing.jsonl")
	assert.Error(t, err)

	_, err = execute(t, "replay", "--config", filepath.Join(root, "absent.yaml"), "traces/run.jsonl.zst")
	assert.Error(t, err)
}

func TestReplay_Rejects(t *testing.T) {
	cd, err := replayCodec("go-json")
	require.NoError(t, err)
	assert.Equal(t, "go-json", cd.Name())

	_, err = replayCodec("msgpack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown codec "msgpack"`)

	root := t.TempDir()
	store := filepath.Join(root, "store")
	writeTraceFile(t, filepath.Join(store, "traces", "run.jsonl"))
	cfgPath := filepath.Join(root, "ptfilter.yaml")
	cfg := "filter:\n  thresholdPt: 1\nstore:\n  kind: local\n  root: " + store + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, err = execute(t, "replay", "--config", cfgPath, "--report", "../escaped.json", "traces/run.jsonl")
	require.Error(t, err)
	_, err = os.Stat(filepath.Join(root, "escaped.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run.jsonl.lz4")
	writeTraceFile(t, src)

	dst := filepath.Join(dir, "run.jsonl")
	out, err := execute(t, "convert", "--to-codec", "json", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "converted 3 candidates")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"steps"`)

	_, err = execute(t, "convert", "--from-codec", "xml", src, dst)
	assert.ErrorContains(t, err, "unknown codec")

	_, err = execute(t, "convert", filepath.Join(dir, "missing.jsonl"), dst)
	assert.Error(t, err)
}
