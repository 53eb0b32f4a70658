// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
// Directories starting with a dot are skipped.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// DocumentIDs lists the files under rootPath with the given extension as
// slash separated ids relative to rootPath, without the extension, sorted.
// `dir/index<ext>` is listed as `dir`, and the root index as `index`.
func DocumentIDs(rootPath string, extension string) ([]string, error) {
	files, err := FindFilesByExtension(rootPath, extension)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(rootPath, file)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.ToSlash(rel), extension)
		if dir, ok := strings.CutSuffix(id, "/index"); ok {
			id = dir
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
