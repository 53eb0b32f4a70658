// Package section reads the plain-text document format into an ordered list
// of sections. A section is a `-- name: caption` line, followed by `key: value`
// headers, a blank line, an optional body and `--- name:` subsections.
package section

import "strings"

// Header is a single `key: value` line of a section.
type Header struct {
	Line  int
	Key   string
	Value string
}

// Headers is the ordered header list of a section.
type Headers []Header

// Find returns the first header with the given key.
func (h Headers) Find(key string) (Header, bool) {
	for _, header := range h {
		if header.Key == key {
			return header, true
		}
	}
	return Header{}, false
}

// FindAll returns every header with the given key, in order.
func (h Headers) FindAll(key string) []Header {
	var found []Header
	for _, header := range h {
		if header.Key == key {
			found = append(found, header)
		}
	}
	return found
}

// Section is one `-- name:` block of a document.
type Section struct {
	Name        string
	Caption     *string
	Headers     Headers
	Body        *string
	BodyLine    int
	Subsections []*Section
	Line        int
	IsCommented bool
}

// CaptionText returns the caption, or an empty string when absent.
func (s *Section) CaptionText() string {
	if s.Caption == nil {
		return ""
	}
	return *s.Caption
}

// BodyText returns the body, or an empty string when absent.
func (s *Section) BodyText() string {
	if s.Body == nil {
		return ""
	}
	return *s.Body
}

// NameParts splits the section name on whitespace.
func (s *Section) NameParts() []string {
	return strings.Fields(s.Name)
}

// Header returns the value of the first header with the given key.
func (s *Section) Header(key string) (string, bool) {
	h, ok := s.Headers.Find(key)
	return h.Value, ok
}
