package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A manifest with a syntax error makes app.NewApp panic while loading.
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "ftd.hcl"), []byte("package \"site\" {\n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	runErr := run(context.Background(), out, errOut, []string{"--root", root}, false)

	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"}, false)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"}, false)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_RendersAndReports(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.ftd"), []byte("-- ftd.text: hello\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.ftd"), []byte("-- ftd.text: hello\n\n-- ftd.row:\nspacing: lots\n"), 0600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, []string{"--root", root, "index"}, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"id": "index"`)
	assert.Contains(t, errOut.String(), "🏁 Rendering finished.")

	out.Reset()
	errOut.Reset()
	err = run(context.Background(), out, errOut, []string{"--root", root, "bad"}, false)
	require.ErrorIs(t, err, errReported)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "invalid spacing `lots`")
}
