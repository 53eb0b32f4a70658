package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/section"
	"github.com/stretchr/testify/require"
)

type processorFunc func(sec *section.Section, doc *TDoc, kind Kind) (Value, error)

// testLibrary serves documents from a map and runs processors by name.
type testLibrary struct {
	docs       map[string]string
	processors map[string]processorFunc
	calls      int
}

func (l *testLibrary) Get(_ context.Context, id string) (string, error) {
	if src, ok := l.docs[id]; ok {
		return src, nil
	}
	return "", fmt.Errorf("document %q not found", id)
}

func (l *testLibrary) Process(_ context.Context, sec *section.Section, doc *TDoc, kind Kind) (Value, error) {
	l.calls++
	name, _ := sec.Header(ProcessorHeader)
	fn, ok := l.processors[name]
	if !ok {
		return Value{}, fmt.Errorf("unknown processor %q", name)
	}
	return fn(sec, doc, kind)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	var out io.Writer = io.Discard
	if os.Getenv("FTD_TEST_LOGS") == "true" {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func interpretWith(t *testing.T, source string, lib *testLibrary) (*Document, error) {
	t.Helper()
	if lib == nil {
		lib = &testLibrary{}
	}
	return Interpret(testContext(t), "main", source, lib)
}

func mustInterpret(t *testing.T, source string, docs map[string]string) *Document {
	t.Helper()
	doc, err := interpretWith(t, source, &testLibrary{docs: docs})
	require.NoError(t, err)
	return doc
}

func variableValue(t *testing.T, doc *Document, name string) Value {
	t.Helper()
	v, err := doc.TDoc().VariableValue(name, 0)
	require.NoError(t, err)
	return v
}
