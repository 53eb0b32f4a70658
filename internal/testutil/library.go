package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// Library is an in-memory interpreter.Library. Documents are served from
// Docs, and processors are looked up in Processors by their `$processor$`
// header and called with Config and Data, the way the real library does.
type Library struct {
	Docs       map[string]string
	Processors map[string]registry.ProcessorFunc
	Config     *config.Model
	Data       *registry.RequestData

	mu    sync.Mutex
	gets  map[string]int
	calls int
}

// Get implements interpreter.Library.
func (l *Library) Get(_ context.Context, id string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gets == nil {
		l.gets = map[string]int{}
	}
	l.gets[id]++
	src, ok := l.Docs[id]
	if !ok {
		return "", fmt.Errorf("document %q not found", id)
	}
	return src, nil
}

// Process implements interpreter.Library.
func (l *Library) Process(ctx context.Context, sec *section.Section, doc *interpreter.TDoc, kind interpreter.Kind) (interpreter.Value, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	name, _ := sec.Header(interpreter.ProcessorHeader)
	fn, ok := l.Processors[name]
	if !ok {
		return interpreter.Value{}, fmt.Errorf("unknown processor %q", name)
	}
	cfg := l.Config
	if cfg == nil {
		cfg = config.Default(".")
	}
	return fn(ctx, &registry.Request{Section: sec, Doc: doc, Kind: kind, Config: cfg, Data: l.Data})
}

// Gets reports how many times id was requested.
func (l *Library) Gets(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gets[id]
}

// Calls reports how many processor sections were run.
func (l *Library) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
