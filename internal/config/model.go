package config

import (
	"path/filepath"
	"strings"
)

// Model is the unified, format-agnostic representation of a package
// manifest.
type Model struct {
	Package      Package
	Dependencies []Dependency
	// DocumentRoots are absolute directories searched for documents, in
	// order.
	DocumentRoots []string
	// Processors lists the processors the package's documents use. They
	// are checked against the registry at startup.
	Processors []string
	// Root is the directory holding the manifest.
	Root string
}

// Package is the package being rendered.
type Package struct {
	Name     string
	Endpoint string
}

// Dependency is another package whose API the `http` processor may call.
type Dependency struct {
	Name     string
	Endpoint string
}

// Default returns the model used when a root has no manifest: the package is
// named after the directory, and documents are looked up in root only.
func Default(root string) *Model {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Model{
		Package:       Package{Name: filepath.Base(abs)},
		DocumentRoots: []string{abs},
		Root:          abs,
	}
}

// Endpoint rewrites a `/-/<package>/<rest>` path to the endpoint of the named
// package or dependency. ok is false when path names no known package, and
// found is false when it names one without an endpoint.
func (m *Model) Endpoint(path string) (url string, found bool, ok bool) {
	rest, isPackagePath := strings.CutPrefix(path, "/-/")
	if !isPackagePath {
		return "", false, false
	}
	match := func(name, endpoint string) (string, bool, bool) {
		name = strings.Trim(strings.TrimSpace(name), "/")
		remaining, hit := strings.CutPrefix(rest, name)
		if !hit || name == "" || (remaining != "" && !strings.HasPrefix(remaining, "/") && !strings.HasPrefix(remaining, "?")) {
			return "", false, false
		}
		if endpoint == "" {
			return "", false, true
		}
		return strings.TrimSuffix(endpoint, "/") + remaining, true, true
	}
	if url, found, ok := match(m.Package.Name, m.Package.Endpoint); ok {
		return url, found, ok
	}
	for _, dep := range m.Dependencies {
		if url, found, ok := match(dep.Name, dep.Endpoint); ok {
			return url, found, ok
		}
	}
	return "", false, false
}
