// Package env_vars implements the `env-vars` processor: a string map of the
// process environment, optionally narrowed to the names the section lists.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
)

// Name is the `$processor$` value handled by this module.
const Name = "env-vars"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Environ supplies the environment; os.Environ when nil.
	Environ func() []string
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor(Name, &registry.RegisteredProcessor{
		Fn:          m.Process,
		Description: "environment variables as a string map",
	})
}

// Process is the handler for `$processor$: env-vars`. An `only` header
// holds a comma separated allow list of names.
func (m *Module) Process(_ context.Context, req *registry.Request) (interpreter.Value, error) {
	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}

	var allow map[string]bool
	if only, found, err := req.Header("only"); err != nil {
		return interpreter.Value{}, err
	} else if found {
		allow = map[string]bool{}
		for _, name := range strings.Split(only, ",") {
			allow[strings.TrimSpace(name)] = true
		}
	}

	envMap := make(map[string]string)
	for _, e := range environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || (allow != nil && !allow[pair[0]]) {
			continue
		}
		envMap[pair[0]] = pair[1]
	}

	kind := req.Kind
	if !kind.IsKnown() {
		kind = interpreter.MapKind(interpreter.StringKind())
	}
	return req.Doc.FromGo(envMap, kind)
}
