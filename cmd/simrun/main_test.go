package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldsim/internal/scenario"
	"worldsim/internal/trace"
)

const (
	harbor  = "../../assets/scenarios/harbor.yaml"
	mission = "../../assets/missions/harbor.lua"
)

func TestParseOptionsEnvThenFlags(t *testing.T) {
	t.Setenv("WORLDSIM_FRAMES", "42")
	t.Setenv("WORLDSIM_SCRIPT", "env.lua")

	opts, err := parseOptions([]string{"-script", "flag.lua"})
	require.NoError(t, err)
	assert.Equal(t, 42, opts.Frames)
	assert.Equal(t, "flag.lua", opts.Script)
	assert.Equal(t, "assets/scenarios/harbor.yaml", opts.Scenario)

	_, err = parseOptions([]string{"-frames", "-1"})
	assert.Error(t, err)

	t.Setenv("WORLDSIM_FRAMES", "many")
	_, err = parseOptions(nil)
	assert.ErrorContains(t, err, "parse env")
}

func TestRunHarbor(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace", "harbor.jsonl.zst")
	savePath := filepath.Join(dir, "harbor-end.yaml")

	var logs bytes.Buffer
	sum, err := run(context.Background(), []string{
		"-scenario", harbor,
		"-script", mission,
		"-frames", "120",
		"-trace", tracePath,
		"-save", savePath,
	}, &logs)
	require.NoError(t, err)

	assert.Equal(t, 120, sum.Frames)
	assert.InDelta(t, 2.0, sum.GameTime, 1e-3)
	assert.Positive(t, sum.Objects)
	assert.Contains(t, logs.String(), "done")

	entries, err := trace.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Len(t, entries, sum.Traced)

	saved, err := scenario.Load(savePath)
	require.NoError(t, err)
	assert.Len(t, saved.Garages, 2)
	require.NotNil(t, saved.Player)
	assert.NotEmpty(t, saved.Player.Vehicle, "the player starts in the getaway car")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := run(ctx, []string{"-scenario", harbor, "-frames", "50"}, io.Discard)
	require.NoError(t, err)
	assert.Zero(t, sum.Frames)
}

func TestRunErrors(t *testing.T) {
	_, err := run(context.Background(), []string{"-scenario", filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)
	assert.Error(t, err)

	_, err = run(context.Background(), []string{"-scenario", harbor, "-script", filepath.Join(t.TempDir(), "nope.lua")}, io.Discard)
	assert.Error(t, err)
}
