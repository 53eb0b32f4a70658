package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"--root", "site",
		"--format", "YAML",
		"--tree", "nodes",
		"--workers", "8",
		"--query", "a=1",
		"--path-param", "slug=intro",
		"--path-param", "lang=en",
		"index", "blog/first.ftd",
	}, out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "site", cfg.Root)
	assert.Equal(t, filepath.Join("site", "ftd.hcl"), cfg.ManifestPath)
	assert.Equal(t, app.FormatYAML, cfg.Format)
	assert.Equal(t, app.TreeNodes, cfg.Tree)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, "a=1", cfg.Query)
	assert.Equal(t, []string{"slug=intro", "lang=en"}, cfg.PathParams)
	assert.Equal(t, []string{"index", "blog/first.ftd"}, cfg.Documents)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"unknown flag", []string{"--nope"}, "flag provided but not defined: -nope"},
		{"log format", []string{"--log-format", "xml"}, "invalid log-format"},
		{"log level", []string{"--log-level", "trace"}, "invalid log-level"},
		{"format", []string{"--format", "toml"}, "invalid format"},
		{"workers", []string{"--workers", "0"}, "invalid worker count"},
		{"path param", []string{"--path-param", "slug"}, "expected key=value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.message)
		})
	}
}
