package app

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/diag"
)

// ReportError writes err to w. Document errors are rendered as diagnostics
// with a snippet of the offending document.
func (a *App) ReportError(w io.Writer, err error, color bool) error {
	sources := map[string][]byte{}
	var de *diag.Error
	if errors.As(err, &de) {
		ctx := ctxlog.WithLogger(context.Background(), a.logger)
		if src, getErr := a.library.Get(ctx, de.DocID); getErr == nil {
			sources[de.DocID] = []byte(src)
		}
	}
	return diag.Write(w, err, sources, color)
}
