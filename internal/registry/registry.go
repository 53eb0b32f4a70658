package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// Module is the interface that all processor modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Request is everything a processor receives for one `$processor$` section.
type Request struct {
	// Section is the variable section carrying the `$processor$` header.
	Section *section.Section
	// Doc is the document being interpreted; processors use it to resolve
	// `$references` and to convert data into values.
	Doc *interpreter.TDoc
	// Kind is the declared kind of the variable, or the zero Kind.
	Kind interpreter.Kind
	// Config is the loaded package manifest.
	Config *config.Model
	// Data is the incoming request, when rendering serves one.
	Data *RequestData
}

// RequestData describes the request a document is rendered for.
type RequestData struct {
	Query      map[string][]string
	PathParams map[string]string
	Body       []byte
}

// ProcessorFunc computes the value of a `$processor$` section.
type ProcessorFunc func(ctx context.Context, req *Request) (interpreter.Value, error)

// RegisteredProcessor holds a compiled processor.
type RegisteredProcessor struct {
	Fn ProcessorFunc
	// Description is a one-line summary shown in debug logs.
	Description string
}

// Registry holds all the registered processors for a single application
// instance.
type Registry struct {
	ProcessorRegistry map[string]*RegisteredProcessor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		ProcessorRegistry: make(map[string]*RegisteredProcessor),
	}
}

// RegisterProcessor registers the Go function behind a processor name.
func (r *Registry) RegisterProcessor(name string, p *RegisteredProcessor) {
	if _, exists := r.ProcessorRegistry[name]; exists {
		panic(fmt.Sprintf("processor with name '%s' already registered", name))
	}
	if p == nil || p.Fn == nil {
		panic(fmt.Sprintf("processor '%s' has no function", name))
	}
	slog.Debug("Registering processor.", "name", name)
	r.ProcessorRegistry[name] = p
}

// Processor returns the processor registered under name.
func (r *Registry) Processor(name string) (*RegisteredProcessor, bool) {
	p, ok := r.ProcessorRegistry[name]
	return p, ok
}

// Names returns the registered processor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ProcessorRegistry))
	for name := range r.ProcessorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
