package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.ftd", "b.txt", "sub/c.ftd", ".hidden/d.ftd")

	files, err := FindFilesByExtension(root, ".ftd")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.ftd"), filepath.Join(root, "sub", "c.ftd")}, files)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".ftd")
	assert.Error(t, err)
}

func TestDocumentIDs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "index.ftd", "about.ftd", "blog/index.ftd", "blog/first-post.ftd", "notes.md")

	ids, err := DocumentIDs(root, ".ftd")
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "blog", "blog/first-post", "index"}, ids)
}
