package section

import (
	"testing"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `-- ftd.text: hello
if: $p
/color: red
padding: 10

-- record person:
caption name:
body bio:

-- component foo:
open: slot

--- ftd.row:

--- ftd.row:
id: slot

Body of the subsection
\-- escaped marker

/-- ftd.text: commented
`
	sections, err := Parse(src, "doc")
	require.NoError(t, err)
	require.Len(t, sections, 4)

	text := sections[0]
	assert.Equal(t, "ftd.text", text.Name)
	assert.Equal(t, "hello", text.CaptionText())
	assert.Equal(t, 1, text.Line)
	require.Len(t, text.Headers, 2, "commented headers are dropped")
	assert.Equal(t, Header{Line: 2, Key: "if", Value: "$p"}, text.Headers[0])
	assert.Equal(t, Header{Line: 4, Key: "padding", Value: "10"}, text.Headers[1])
	assert.Nil(t, text.Body)

	record := sections[1]
	assert.Equal(t, []string{"record", "person"}, record.NameParts())
	assert.Nil(t, record.Caption)
	assert.Len(t, record.Headers, 2)

	component := sections[2]
	require.Len(t, component.Subsections, 2)
	slot := component.Subsections[1]
	assert.Equal(t, "ftd.row", slot.Name)
	value, ok := slot.Header("id")
	assert.True(t, ok)
	assert.Equal(t, "slot", value)
	assert.Equal(t, "Body of the subsection\n-- escaped marker", slot.BodyText())
	assert.Equal(t, 18, slot.BodyLine)

	assert.True(t, sections[3].IsCommented)
}

func TestParse_CommentedParentMarksSubsections(t *testing.T) {
	sections, err := Parse("/-- foo:\n\n--- bar: x\n", "doc")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Subsections, 1)
	assert.True(t, sections[0].Subsections[0].IsCommented)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		line int
	}{
		{name: "content before first section", src: "hello\n-- foo:", line: 1},
		{name: "subsection without parent", src: "--- foo:", line: 1},
		{name: "missing colon on marker", src: "-- foo", line: 1},
		{name: "header without colon", src: "-- foo:\nbar", line: 2},
		{name: "empty name", src: "-- : caption", line: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src, "doc")
			require.Error(t, err)
			assert.True(t, diag.Is(err, diag.ParseError))

			var de *diag.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.line, de.Line)
			assert.Equal(t, "doc", de.DocID)
		})
	}
}

func TestHeaders_FindAll(t *testing.T) {
	h := Headers{
		{Line: 1, Key: "a", Value: "1"},
		{Line: 2, Key: "b", Value: "2"},
		{Line: 3, Key: "a", Value: "3"},
	}
	found := h.FindAll("a")
	require.Len(t, found, 2)
	assert.Equal(t, "3", found[1].Value)

	_, ok := h.Find("c")
	assert.False(t, ok)
}
