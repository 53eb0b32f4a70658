// Package request_data implements the `request-data` processor. It exposes
// the request a document is rendered for as a value: query parameters, path
// parameters and the fields of a JSON body, later sources overriding earlier
// ones.
package request_data

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Name is the `$processor$` value handled by this module.
const Name = "request-data"

// ErrNoRequest is returned when the document is not rendered for a request.
var ErrNoRequest = errors.New("request data is not available: no request was given")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the processor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor(Name, &registry.RegisteredProcessor{
		Fn:          Process,
		Description: "query, path parameters and JSON body of the current request",
	})
}

// Process is the handler for `$processor$: request-data`. A query parameter
// given once is a string, one given several times a list of strings.
func Process(ctx context.Context, req *registry.Request) (interpreter.Value, error) {
	if req.Data == nil {
		return interpreter.Value{}, ErrNoRequest
	}
	data := req.Data

	attrs := make(map[string]cty.Value, len(data.Query)+len(data.PathParams))
	for key, values := range data.Query {
		switch len(values) {
		case 0:
		case 1:
			attrs[key] = cty.StringVal(values[0])
		default:
			items := make([]cty.Value, len(values))
			for i, v := range values {
				items[i] = cty.StringVal(v)
			}
			attrs[key] = cty.ListVal(items)
		}
	}
	for key, value := range data.PathParams {
		attrs[key] = cty.StringVal(value)
	}

	if len(data.Body) > 0 {
		ty, err := ctyjson.ImpliedType(data.Body)
		if err != nil {
			return interpreter.Value{}, fmt.Errorf("error while parsing request body: %w", err)
		}
		if !ty.IsObjectType() {
			return interpreter.Value{}, fmt.Errorf("request body must be a JSON object, found %s", ty.FriendlyName())
		}
		body, err := ctyjson.Unmarshal(data.Body, ty)
		if err != nil {
			return interpreter.Value{}, fmt.Errorf("error while parsing request body: %w", err)
		}
		for key, value := range body.AsValueMap() {
			attrs[key] = value
		}
	}

	ctxlog.FromContext(ctx).Debug("Request data collected.", "document", req.Doc.Name, "keys", len(attrs))
	return req.Doc.FromCty(cty.ObjectVal(attrs), req.Kind)
}
