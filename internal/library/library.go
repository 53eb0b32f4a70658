package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/doccache"
	"github.com/specialistvlad/ftdgo/internal/fsutil"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/internal/section"
	"golang.org/x/sync/singleflight"
)

// Extension is the file extension of documents.
const Extension = ".ftd"

// ErrNotFound is returned when no document root holds the requested id.
var ErrNotFound = errors.New("document not found")

// Library is the file system backed interpreter.Library.
type Library struct {
	config   *config.Model
	registry *registry.Registry
	cache    doccache.Cache
	data     *registry.RequestData

	group singleflight.Group
}

// Option configures a Library.
type Option func(*Library)

// WithCache replaces the default in-memory cache.
func WithCache(c doccache.Cache) Option {
	return func(l *Library) { l.cache = c }
}

// WithRequestData sets the request the documents are rendered for.
func WithRequestData(data *registry.RequestData) Option {
	return func(l *Library) { l.data = data }
}

// New creates a library over the document roots of cfg.
func New(cfg *config.Model, reg *registry.Registry, opts ...Option) *Library {
	l := &Library{config: cfg, registry: reg}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = doccache.NewMemory()
	}
	return l
}

// Get implements interpreter.Library.
func (l *Library) Get(ctx context.Context, id string) (string, error) {
	v, err, shared := l.group.Do(id, func() (any, error) {
		return l.fetch(ctx, id)
	})
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Document fetched.", "id", id, "shared", shared)
	return v.(string), nil
}

func (l *Library) fetch(ctx context.Context, id string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	file, info, err := l.locate(id)
	if err != nil {
		return "", err
	}

	cached, found, err := l.cache.Get(ctx, id)
	if err != nil {
		logger.Warn("Document cache read failed, reading from disk.", "id", id, "error", err)
	} else if found && cached.Path == file && cached.ModTime.Equal(info.ModTime()) {
		logger.Debug("Document cache hit.", "id", id, "path", file)
		return cached.Source, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read document %q: %w", id, err)
	}
	source := string(data)

	entry := doccache.Entry{ID: id, Path: file, ModTime: info.ModTime(), Source: source}
	if err := l.cache.Put(ctx, entry); err != nil {
		logger.Warn("Document cache write failed.", "id", id, "error", err)
	}
	logger.Debug("Document read from disk.", "id", id, "path", file)
	return source, nil
}

// locate finds the file of id in the document roots.
func (l *Library) locate(id string) (string, fs.FileInfo, error) {
	for _, candidate := range l.candidates(id) {
		for _, root := range l.config.DocumentRoots {
			file := filepath.Join(root, filepath.FromSlash(candidate))
			info, err := os.Stat(file)
			if err == nil && !info.IsDir() {
				return file, info, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %q in %s", ErrNotFound, id, strings.Join(l.config.DocumentRoots, ", "))
}

// candidates lists the relative file names that may hold id.
func (l *Library) candidates(id string) []string {
	clean := strings.Trim(path.Clean("/"+strings.TrimSuffix(id, Extension)), "/")
	if clean == "" {
		clean = "index"
	}
	ids := []string{clean}
	if rest, ok := strings.CutPrefix(clean, l.config.Package.Name+"/"); ok && l.config.Package.Name != "" {
		ids = append(ids, rest)
	}

	var files []string
	for _, c := range ids {
		files = append(files, c+Extension, c+"/index"+Extension)
	}
	return files
}

// Process implements interpreter.Library.
func (l *Library) Process(ctx context.Context, sec *section.Section, doc *interpreter.TDoc, kind interpreter.Kind) (interpreter.Value, error) {
	name, _ := sec.Header(interpreter.ProcessorHeader)
	p, ok := l.registry.Processor(name)
	if !ok {
		return interpreter.Value{}, fmt.Errorf("unknown processor `%s`, available: %s", name, strings.Join(l.registry.Names(), ", "))
	}
	ctxlog.FromContext(ctx).Debug("Dispatching processor.", "processor", name, "description", p.Description, "document", doc.Name)
	return p.Fn(ctx, &registry.Request{
		Section: sec,
		Doc:     doc,
		Kind:    kind,
		Config:  l.config,
		Data:    l.data,
	})
}

// Documents lists the ids of every document in the document roots. An id
// present in several roots is listed once.
func (l *Library) Documents() ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, root := range l.config.DocumentRoots {
		found, err := fsutil.DocumentIDs(root, Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents in %s: %w", root, err)
		}
		for _, id := range found {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
