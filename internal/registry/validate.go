package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
)

// Validate checks that every processor the manifest declares is registered.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	if model == nil || len(model.Processors) == 0 {
		logger.Debug("Manifest declares no processors, skipping registry validation.")
		return nil
	}

	var errs []string
	seen := make(map[string]bool)
	for _, name := range model.Processors {
		if seen[name] {
			logger.Warn("Processor listed more than once in manifest.", "processor", name)
			continue
		}
		seen[name] = true
		if _, ok := r.ProcessorRegistry[name]; !ok {
			errs = append(errs, fmt.Sprintf("manifest requires processor '%s' which is not registered", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s\navailable processors: %s", strings.Join(errs, "\n- "), strings.Join(r.Names(), ", "))
	}
	return nil
}
