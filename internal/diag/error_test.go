package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := Errorf(TypeError, "index", 3, "expected %s", "integer")
	assert.Equal(t, "TypeError: index:3: expected integer", err.Error())
	assert.True(t, Is(err, TypeError))
	assert.False(t, Is(err, NameError))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ProcessorError, "index", 7, cause, "processor `http` failed")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ProcessorError))

	inner := Errorf(NameError, "lib", 2, "unknown name")
	wrapped := Wrap(ImportError, "index", 1, fmt.Errorf("loading: %w", inner), "import failed")
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, NameError, kind, "the innermost positioned error wins")

	assert.Nil(t, Wrap(ParseError, "x", 1, nil, "unused"))
}

func TestDiagnostic_LineRange(t *testing.T) {
	src := []byte("-- $x: 10\n-- ftd.integer:\nvalue: $y\n")
	d := Errorf(NameError, "index", 3, "unknown variable `y`").Diagnostic(src)

	assert.Equal(t, hcl.DiagError, d.Severity)
	assert.Equal(t, "NameError", d.Summary)
	require.NotNil(t, d.Subject)
	assert.Equal(t, 26, d.Subject.Start.Byte)
	assert.Equal(t, 35, d.Subject.End.Byte)
	assert.Equal(t, "value: $y", string(src[d.Subject.Start.Byte:d.Subject.End.Byte]))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	src := []byte("-- ftd.text:\n")
	err := Errorf(EvaluationError, "index", 1, "text is required")

	require.NoError(t, Write(&buf, err, map[string][]byte{"index": src}, false))
	assert.Contains(t, buf.String(), "EvaluationError")
	assert.Contains(t, buf.String(), "text is required")

	buf.Reset()
	require.NoError(t, Write(&buf, errors.New("plain"), nil, false))
	assert.Equal(t, "plain\n", buf.String())
}
