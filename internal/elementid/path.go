// internal/elementid/path.go
package elementid

import (
	"fmt"
	"strconv"
	"strings"
)

// Child returns the path of the i-th child. The receiver is not modified.
func (p Path) Child(i int) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, i)
}

// String serializes the path as comma-separated indices.
func (p Path) String() string {
	var sb strings.Builder
	for i, idx := range p {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// Equal reports whether two paths hold the same indices.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// ParsePath reads a comma-separated path. The empty string is the empty path.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, nil
	}
	var p Path
	for _, part := range strings.Split(raw, ",") {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid path segment %q in %q", part, raw)
		}
		p = append(p, idx)
	}
	return p, nil
}

// DataID returns the data-id of an element at path below anchor. An element
// with its own id uses it in place of the path.
func DataID(anchor string, p Path, id string) string {
	local := id
	if local == "" {
		local = p.String()
	}
	if anchor == "" {
		return local
	}
	if local == "" {
		return anchor
	}
	return anchor + ":" + local
}
