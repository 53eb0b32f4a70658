// Package cargo_toml implements processors that read a Rust `Cargo.toml`
// from the package root: its version, its `[package]` table and its
// dependency list.
package cargo_toml

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
)

const (
	VersionProcessor = "read_version_from_cargo_toml"
	PackageProcessor = "read_package_from_cargo_toml"
	RecordsProcessor = "read_package_records_from_cargo_toml"
	DefaultFile      = "Cargo.toml"
	fileHeader       = "file"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the three processors with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor(VersionProcessor, &registry.RegisteredProcessor{
		Fn:          ReadVersion,
		Description: "`package.version` of Cargo.toml",
	})
	r.RegisterProcessor(PackageProcessor, &registry.RegisteredProcessor{
		Fn:          ReadPackage,
		Description: "the `[package]` table of Cargo.toml",
	})
	r.RegisterProcessor(RecordsProcessor, &registry.RegisteredProcessor{
		Fn:          ReadDependencies,
		Description: "the `[dependencies]` table of Cargo.toml as a list",
	})
}

type manifest struct {
	Package      Package        `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

// Package is the `[package]` table of a Cargo.toml.
type Package struct {
	Name        string   `toml:"name" cty:"name"`
	Version     string   `toml:"version" cty:"version"`
	Edition     string   `toml:"edition" cty:"edition"`
	Description string   `toml:"description" cty:"description"`
	License     string   `toml:"license" cty:"license"`
	Repository  string   `toml:"repository" cty:"repository"`
	Homepage    string   `toml:"homepage" cty:"homepage"`
	Authors     []string `toml:"authors" cty:"authors"`
	Keywords    []string `toml:"keywords" cty:"keywords"`
}

// Dependency is one entry of the `[dependencies]` table. Both the short
// `name = "1.0"` and the table forms are accepted.
type Dependency struct {
	Name     string   `cty:"name"`
	Version  string   `cty:"version"`
	Optional bool     `cty:"optional"`
	Features []string `cty:"features"`
}

// ReadVersion is the handler for `read_version_from_cargo_toml`.
func ReadVersion(ctx context.Context, req *registry.Request) (interpreter.Value, error) {
	m, err := load(ctx, req)
	if err != nil {
		return interpreter.Value{}, err
	}
	if m.Package.Version == "" {
		return interpreter.Value{}, fmt.Errorf("%s has no `package.version`", DefaultFile)
	}
	return interpreter.StringValue(m.Package.Version, interpreter.SourceHeader), nil
}

// ReadPackage is the handler for `read_package_from_cargo_toml`.
func ReadPackage(ctx context.Context, req *registry.Request) (interpreter.Value, error) {
	m, err := load(ctx, req)
	if err != nil {
		return interpreter.Value{}, err
	}
	pkg := m.Package
	pkg.Authors = nonNil(pkg.Authors)
	pkg.Keywords = nonNil(pkg.Keywords)
	return req.Doc.FromGo(pkg, req.Kind)
}

// ReadDependencies is the handler for `read_package_records_from_cargo_toml`.
// Dependencies are sorted by name.
func ReadDependencies(ctx context.Context, req *registry.Request) (interpreter.Value, error) {
	m, err := load(ctx, req)
	if err != nil {
		return interpreter.Value{}, err
	}

	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]Dependency, 0, len(names))
	for _, name := range names {
		dep, err := dependency(name, m.Dependencies[name])
		if err != nil {
			return interpreter.Value{}, err
		}
		deps = append(deps, dep)
	}
	return req.Doc.FromGo(deps, req.Kind)
}

func dependency(name string, raw any) (Dependency, error) {
	dep := Dependency{Name: name, Features: []string{}}
	switch spec := raw.(type) {
	case string:
		dep.Version = spec
	case map[string]any:
		if v, ok := spec["version"].(string); ok {
			dep.Version = v
		}
		if v, ok := spec["optional"].(bool); ok {
			dep.Optional = v
		}
		if features, ok := spec["features"].([]any); ok {
			for _, f := range features {
				s, ok := f.(string)
				if !ok {
					return Dependency{}, fmt.Errorf("dependency `%s`: features must be strings", name)
				}
				dep.Features = append(dep.Features, s)
			}
		}
	default:
		return Dependency{}, fmt.Errorf("dependency `%s`: unsupported specification %T", name, raw)
	}
	return dep, nil
}

// load decodes the Cargo.toml named by the `file` header, relative to the
// package root.
func load(ctx context.Context, req *registry.Request) (*manifest, error) {
	file, found, err := req.Header(fileHeader)
	if err != nil {
		return nil, err
	}
	if !found {
		file = DefaultFile
	}
	path := file
	if !filepath.IsAbs(path) && req.Config != nil {
		path = filepath.Join(req.Config.Root, path)
	}

	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		ctxlog.FromContext(ctx).Debug("Ignoring Cargo.toml keys.", "path", path, "count", len(undecoded))
	}
	return &m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
