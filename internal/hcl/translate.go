package hcl

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ftdgo/internal/config"
)

// translate converts the decoded manifest into the agnostic model. dir is
// the directory of the manifest; relative document roots resolve against it.
func translate(m *manifest, dir string) (*config.Model, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	model := config.Default(abs)

	if m.Package != nil {
		model.Package = config.Package{Name: m.Package.Name, Endpoint: deref(m.Package.Endpoint)}
		if m.Package.Name == "" {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Empty package name",
				Detail:   "The package block needs a non-empty name label.",
				Subject:  m.Package.DeclRange.Ptr(),
			})
		}
	}

	seen := map[string]hcl.Range{model.Package.Name: rangeOf(m.Package)}
	for _, dep := range m.Dependencies {
		if prev, dup := seen[dep.Name]; dup {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate package name",
				Detail:   fmt.Sprintf("The name %q is already used at %s.", dep.Name, prev),
				Subject:  dep.DeclRange.Ptr(),
			})
			continue
		}
		seen[dep.Name] = dep.DeclRange
		model.Dependencies = append(model.Dependencies, config.Dependency{Name: dep.Name, Endpoint: deref(dep.Endpoint)})
	}

	if len(m.DocumentRoots) > 0 {
		model.DocumentRoots = nil
		for _, root := range m.DocumentRoots {
			if !filepath.IsAbs(root) {
				root = filepath.Join(abs, root)
			}
			model.DocumentRoots = append(model.DocumentRoots, filepath.Clean(root))
		}
	}
	model.Processors = m.Processors
	return model, diags
}

func rangeOf(p *packageBlock) hcl.Range {
	if p == nil {
		return hcl.Range{}
	}
	return p.DeclRange
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
