package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/executor"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/library"
	"github.com/specialistvlad/ftdgo/internal/node"
	"golang.org/x/sync/errgroup"
)

// Rendered is the outcome of rendering one document.
type Rendered struct {
	ID string `json:"id"`
	// Bag holds the declarations of the document and its imports, without
	// the built-in namespace.
	Bag  interpreter.Bag `json:"bag"`
	Tree any             `json:"tree"`
	// Imports lists the documents this one imports directly.
	Imports []string `json:"imports,omitempty"`
	// ImportedBy maps every document pulled in by the render to the
	// documents importing it.
	ImportedBy map[string][]string `json:"imported_by,omitempty"`
}

// Run renders the configured documents, or every document of the package
// when none are configured, and writes them out.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	ids, err := a.documentIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		a.logger.Warn("No documents found, rendering not required.", "roots", a.model.DocumentRoots)
		return nil
	}

	a.logger.Info("🚀 Starting concurrent rendering...", "documents", len(ids), "workers", a.config.WorkerCount)
	start := time.Now()

	results := make([]*Rendered, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, id := range ids {
		g.Go(func() error {
			rendered, err := a.render(gctx, id)
			if err != nil {
				return err
			}
			results[i] = rendered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := a.write(results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("🏁 Rendering finished.", "documents", len(ids), "duration", time.Since(start))
	return nil
}

// render interprets and executes one document, each with its own bag.
func (a *App) render(ctx context.Context, id string) (*Rendered, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering document.", "id", id)

	source, err := a.library.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := interpreter.Interpret(ctx, id, source, a.library)
	if err != nil {
		return nil, err
	}
	res, err := executor.Execute(ctx, doc)
	if err != nil {
		return nil, err
	}

	bag := make(interpreter.Bag, len(doc.Bag))
	for name, thing := range doc.Bag {
		if !strings.HasPrefix(name, interpreter.BuiltinDocument+"#") {
			bag[name] = thing
		}
	}

	var tree any = res
	if a.config.Tree == TreeNodes {
		tree = node.FromResult(res)
	}
	imports, importedBy, err := importGraph(doc, id)
	if err != nil {
		return nil, err
	}
	logger.Debug("Document rendered.", "id", id, "declarations", len(bag), "imports", imports)
	return &Rendered{ID: id, Bag: bag, Tree: tree, Imports: imports, ImportedBy: importedBy}, nil
}

// importGraph returns the direct imports of id and, for every document
// reachable through them, its importers.
func importGraph(doc *interpreter.Document, id string) ([]string, map[string][]string, error) {
	direct, err := doc.Imports(id)
	if err != nil {
		return nil, nil, err
	}
	if len(direct) == 0 {
		return nil, nil, nil
	}

	importedBy := map[string][]string{}
	queue := append([]string(nil), direct...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := importedBy[current]; seen {
			continue
		}
		by, err := doc.ImportedBy(current)
		if err != nil {
			return nil, nil, err
		}
		importedBy[current] = by
		next, err := doc.Imports(current)
		if err != nil {
			return nil, nil, err
		}
		queue = append(queue, next...)
	}
	return direct, importedBy, nil
}

// documentIDs maps the configured documents to ids. Arguments ending in the
// document extension are file paths inside a document root.
func (a *App) documentIDs() ([]string, error) {
	if len(a.config.Documents) == 0 {
		return a.library.Documents()
	}
	ids := make([]string, 0, len(a.config.Documents))
	for _, arg := range a.config.Documents {
		if !strings.HasSuffix(arg, library.Extension) {
			ids = append(ids, arg)
			continue
		}
		id, err := a.pathID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *App) pathID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for _, root := range a.model.DocumentRoots {
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		id := strings.TrimSuffix(filepath.ToSlash(rel), library.Extension)
		if dir, ok := strings.CutSuffix(id, "/index"); ok {
			id = dir
		}
		return id, nil
	}
	return "", fmt.Errorf("document %s is outside the document roots %s", path, strings.Join(a.model.DocumentRoots, ", "))
}
