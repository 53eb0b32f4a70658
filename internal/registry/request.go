package registry

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// Arguments returns the section's headers except `$processor$`.
func (r *Request) Arguments() section.Headers {
	var args section.Headers
	for _, h := range r.Section.Headers {
		if h.Key != interpreter.ProcessorHeader {
			args = append(args, h)
		}
	}
	return args
}

// Resolve returns the text of a header value. A `$name` value is looked up in
// the document; ok is false when it resolves to None. `\$` escapes a literal
// dollar.
func (r *Request) Resolve(h section.Header) (text string, ok bool, err error) {
	if strings.HasPrefix(h.Value, `\$`) {
		return h.Value[1:], true, nil
	}
	if !strings.HasPrefix(h.Value, "$") {
		return h.Value, true, nil
	}
	pv, err := r.Doc.PropertyValueFromString(h.Value, interpreter.Kind{}, nil, interpreter.SourceHeader, h.Line)
	if err != nil {
		return "", false, err
	}
	value, err := pv.Resolve(r.Doc, nil, h.Line)
	if err != nil {
		return "", false, err
	}
	if value.IsNull() {
		return "", false, nil
	}
	return value.String(), true, nil
}

// Header resolves the first header named key. found is false when the
// section has no such header.
func (r *Request) Header(key string) (text string, found bool, err error) {
	h, found := r.Section.Headers.Find(key)
	if !found {
		return "", false, nil
	}
	text, _, err = r.Resolve(h)
	return text, true, err
}
