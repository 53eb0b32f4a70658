package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/doccache"
	"github.com/specialistvlad/ftdgo/internal/library"
	"github.com/specialistvlad/ftdgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	model    *config.Model
	cache    doccache.Cache
	library  *library.Library
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Documents are written to outW and logs to logW. A manifest that cannot be
// loaded, or that requires a processor no module provides, is a fatal
// startup error and panics.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loadManifest(ctx, appConfig, loader)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Manifest loaded.", "package", model.Package.Name, "document_roots", model.DocumentRoots)

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All processor modules registered.", "count", len(modules), "processors", reg.Names())

	if err := reg.Validate(ctx, model); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	var cache doccache.Cache = doccache.NewMemory()
	if appConfig.CacheDir != "" {
		bolt, err := doccache.OpenBolt(appConfig.CacheDir)
		if err != nil {
			panic(err)
		}
		cache = bolt
		logger.Debug("Persistent document cache opened.", "dir", appConfig.CacheDir)
	}

	data, err := requestData(appConfig)
	if err != nil {
		cache.Close()
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
		model:    model,
		cache:    cache,
		library:  library.New(model, reg, library.WithCache(cache), library.WithRequestData(data)),
	}
}

// loadManifest loads the manifest, falling back to the defaults of the
// package root when there is none.
func loadManifest(ctx context.Context, appConfig *Config, loader config.Loader) (*config.Model, error) {
	if appConfig.ManifestPath == "" {
		return config.Default(appConfig.Root), nil
	}
	model, err := loader.Load(ctx, appConfig.ManifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		ctxlog.FromContext(ctx).Warn("No manifest found, using defaults.", "path", appConfig.ManifestPath)
		return config.Default(appConfig.Root), nil
	}
	return model, err
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded package manifest.
func (a *App) Model() *config.Model {
	return a.model
}

// Close releases the document cache.
func (a *App) Close() error {
	return a.cache.Close()
}
