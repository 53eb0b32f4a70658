package interpreter

import (
	"context"

	"github.com/specialistvlad/ftdgo/internal/section"
)

// Library supplies imported documents and runs processors. The driver calls
// it synchronously; implementations may do their own I/O and caching.
type Library interface {
	// Get returns the source text of the document id.
	Get(ctx context.Context, id string) (string, error)
	// Process runs the processor named by the section's `$processor$`
	// header. kind is the declared kind of the variable, or the zero Kind
	// when the processor should infer it.
	Process(ctx context.Context, sec *section.Section, doc *TDoc, kind Kind) (Value, error)
}
