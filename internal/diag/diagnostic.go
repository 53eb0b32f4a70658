package diag

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
)

// Diagnostic converts the error to an hcl.Diagnostic. When src holds the
// document text the subject range spans the offending line, which lets the
// hcl text writer print a snippet.
func (e *Error) Diagnostic(src []byte) *hcl.Diagnostic {
	detail := e.Message
	if e.Err != nil {
		detail = fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  e.Kind.String(),
		Detail:   detail,
		Subject:  lineRange(e.DocID, e.Line, src),
	}
}

// lineRange returns the range of a 1-based line in src.
func lineRange(filename string, line int, src []byte) *hcl.Range {
	rng := &hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: line, Column: 1},
		End:      hcl.Pos{Line: line, Column: 1},
	}
	if line <= 0 || src == nil {
		return rng
	}

	offset := 0
	for current := 1; current < line; current++ {
		idx := bytes.IndexByte(src[offset:], '\n')
		if idx < 0 {
			return rng
		}
		offset += idx + 1
	}
	end := len(src)
	if idx := bytes.IndexByte(src[offset:], '\n'); idx >= 0 {
		end = offset + idx
	}

	rng.Start.Byte = offset
	rng.End.Byte = end
	rng.End.Column = end - offset + 1
	return rng
}

// Write renders err to w. Positioned errors go through the hcl diagnostic
// text writer; sources maps document ids to their text for snippets.
func Write(w io.Writer, err error, sources map[string][]byte, color bool) error {
	var de *Error
	if !errors.As(err, &de) {
		_, werr := fmt.Fprintln(w, err)
		return werr
	}

	files := make(map[string]*hcl.File, len(sources))
	for name, src := range sources {
		files[name] = &hcl.File{Bytes: src}
	}
	writer := hcl.NewDiagnosticTextWriter(w, files, 78, color)
	return writer.WriteDiagnostic(de.Diagnostic(sources[de.DocID]))
}
