// internal/elementid/ref.go
package elementid

import (
	"fmt"
	"regexp"
	"strings"
)

// MainRef is the `container:` value that returns to the root.
const MainRef = "ftd.main"

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ParseRef reads a `container:` id path.
func ParseRef(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, fmt.Errorf("container path cannot be empty")
	}
	if raw == MainRef {
		return Ref{Main: true}, nil
	}
	var ref Ref
	for _, id := range strings.Split(raw, ".") {
		if id == "" {
			return Ref{}, fmt.Errorf("container path %q contains an empty segment", raw)
		}
		if !idRegex.MatchString(id) {
			return Ref{}, fmt.Errorf("invalid id %q in container path %q", id, raw)
		}
		ref.IDs = append(ref.IDs, id)
	}
	return ref, nil
}

// String serializes the ref in its canonical form.
func (r Ref) String() string {
	if r.Main {
		return MainRef
	}
	return strings.Join(r.IDs, ".")
}
