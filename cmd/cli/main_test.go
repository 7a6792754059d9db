package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepgrid/internal/cli"
	"github.com/vk/stepgrid/internal/scheduler"
	"github.com/vk/stepgrid/internal/testutil"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func TestRun_CanonicalPlan(t *testing.T) {
	t.Parallel()

	path := writePlan(t, "input.txt", testutil.CanonicalSteps)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, logs, []string{"--workers", "2", "--base-duration", "0", path})
	require.NoError(t, err)

	assert.Equal(t, "[order] Step order: CABDFE\n[timed] Total time: 15\n", out.String())
}

func TestRun_Deadlock(t *testing.T) {
	t.Parallel()

	path := writePlan(t, "cycle.txt", "Step A must be finished before step B can begin.\nStep B must be finished before step A can begin.\n")
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{path})
	require.Error(t, err)
	assert.ErrorIs(t, err, scheduler.ErrDeadlock)

	var exitErr *cli.ExitError
	assert.NotErrorAs(t, err, &exitErr, "runtime failures exit with the generic code")
	assert.Empty(t, out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "USAGE:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
