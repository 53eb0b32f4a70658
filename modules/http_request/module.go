// Package http_request implements the `http` processor: it GETs a JSON API
// and decodes the response into the declared kind of the variable.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
)

// Name is the `$processor$` value handled by this module.
const Name = "http"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client performs the requests; http.DefaultClient when nil.
	Client *http.Client
}

// Register registers the processor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor(Name, &registry.RegisteredProcessor{
		Fn:          m.Process,
		Description: "GET a JSON API and decode the response",
	})
}

// Process is the handler for `$processor$: http`. Headers other than `url`
// and `method` become query parameters.
func (m *Module) Process(ctx context.Context, req *registry.Request) (interpreter.Value, error) {
	logger := ctxlog.FromContext(ctx)

	method, found, err := req.Header("method")
	if err != nil {
		return interpreter.Value{}, err
	}
	if found && strings.ToLower(method) != "get" {
		return interpreter.Value{}, fmt.Errorf("only GET method is allowed, found: %s", strings.ToLower(method))
	}

	raw, found, err := req.Header("url")
	if err != nil {
		return interpreter.Value{}, err
	}
	if !found {
		return interpreter.Value{}, fmt.Errorf("'url' key is required when using `$processor$: %s`", Name)
	}

	target, err := cleanURL(req.Config, raw)
	if err != nil {
		return interpreter.Value{}, fmt.Errorf("invalid url: %w", err)
	}

	query := target.Query()
	for _, h := range req.Arguments() {
		if h.Key == "url" || h.Key == "method" {
			continue
		}
		value, ok, err := req.Resolve(h)
		if err != nil {
			return interpreter.Value{}, err
		}
		if ok {
			query.Add(h.Key, value)
		}
	}
	target.RawQuery = query.Encode()

	logger.Info("Making HTTP request", "method", http.MethodGet, "url", target.String())
	body, err := m.get(ctx, target.String())
	if err != nil {
		return interpreter.Value{}, err
	}

	value, err := req.Doc.FromJSON(body, req.Kind)
	if err != nil {
		return interpreter.Value{}, fmt.Errorf("`%s` processor API response error: %w", Name, err)
	}
	return value, nil
}

func (m *Module) get(ctx context.Context, target string) ([]byte, error) {
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	ctxlog.FromContext(ctx).Debug("Received HTTP response", "status", resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP GET %s failed: %s", target, resp.Status)
	}
	return body, nil
}

// cleanURL accepts absolute http(s) URLs as they are and maps
// `/-/<package>/...` paths to the endpoint of that package.
func cleanURL(cfg *config.Model, raw string) (*url.URL, error) {
	if strings.HasPrefix(raw, "http") {
		return url.Parse(raw)
	}
	if cfg == nil {
		return nil, fmt.Errorf("end-point not found url: %s", raw)
	}
	endpoint, found, ok := cfg.Endpoint(raw)
	switch {
	case !ok:
		return nil, fmt.Errorf("end-point not found url: %s", raw)
	case !found:
		return nil, fmt.Errorf("package does not contain the endpoint: %s", raw)
	}
	return url.Parse(endpoint)
}
