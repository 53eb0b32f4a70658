package app

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/registry"
)

// requestData builds the request documents are rendered for. It is nil when
// no request was described.
func requestData(cfg *Config) (*registry.RequestData, error) {
	if cfg.Query == "" && len(cfg.PathParams) == 0 && cfg.BodyPath == "" {
		return nil, nil
	}

	data := &registry.RequestData{PathParams: map[string]string{}}

	query, err := url.ParseQuery(strings.TrimPrefix(cfg.Query, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", cfg.Query, err)
	}
	data.Query = query

	for _, param := range cfg.PathParams {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid path parameter %q: expected key=value", param)
		}
		data.PathParams[key] = value
	}

	if cfg.BodyPath != "" {
		body, err := os.ReadFile(cfg.BodyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		data.Body = body
	}
	return data, nil
}
