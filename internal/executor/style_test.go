package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
		css  string
	}{
		{"fill", Length{Type: LengthFill}, "100%"},
		{"hug-content", Length{Type: LengthHugContent}, "fit-content"},
		{"auto", Length{Type: LengthAuto}, "auto"},
		{"120", Length{Type: LengthPx, Value: 120}, "120px"},
		{"12.5px", Length{Type: LengthPx, Value: 12.5}, "12.5px"},
		{"50%", Length{Type: LengthPercent, Value: 50}, "50%"},
		{"percent 30", Length{Type: LengthPercent, Value: 30}, "30%"},
		{"calc 100% - 10px", Length{Type: LengthCalc, Expr: "100% - 10px"}, "calc(100% - 10px)"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLength(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.css, got.String())
		})
	}

	_, err := ParseLength("wide")
	assert.EqualError(t, err, "invalid length `wide`")
}

func TestParseRGBA(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"red", RGBA{255, 0, 0, 1}},
		{"Transparent", RGBA{0, 0, 0, 0}},
		{"#fff", RGBA{255, 255, 255, 1}},
		{"#1a2b3c", RGBA{0x1a, 0x2b, 0x3c, 1}},
		{"#ff000080", RGBA{255, 0, 0, 0.5}},
		{"#00000040", RGBA{0, 0, 0, 0.25}},
		{"#123456ff", RGBA{0x12, 0x34, 0x56, 1}},
		{"#12345600", RGBA{0x12, 0x34, 0x56, 0}},
		{"rgb(1, 2, 3)", RGBA{1, 2, 3, 1}},
		{"rgba(10,20,30,0.25)", RGBA{10, 20, 30, 0.25}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRGBA(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"#12", "#gggggg", "rgb(1,2)", "rgba(1,2,3,2)", "rgb(300,0,0)", "chartreuse-ish"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseRGBA(bad)
			assert.Error(t, err)
		})
	}

	assert.Equal(t, "rgba(255,0,0,0.5)", RGBA{255, 0, 0, 0.5}.String())
}

func TestParseAlignmentAndSpacing(t *testing.T) {
	a, err := ParseAlignment("top")
	require.NoError(t, err)
	assert.Equal(t, Alignment("top-center"), a)
	_, err = ParseAlignment("middle")
	assert.Error(t, err)

	s, err := ParseSpacing("space-between")
	require.NoError(t, err)
	assert.Equal(t, Spacing{Type: SpaceBetween}, s)
	s, err = ParseSpacing("8px")
	require.NoError(t, err)
	assert.Equal(t, Spacing{Type: SpaceAbsolute, Value: 8}, s)
	_, err = ParseSpacing("lots")
	assert.Error(t, err)
}

func TestEnumParser(t *testing.T) {
	parse := overflows.parser("overflow")
	got, err := parse(" hidden ")
	require.NoError(t, err)
	assert.Equal(t, "hidden", got)

	_, err = parse("clip")
	assert.EqualError(t, err, "invalid overflow `clip`")
}

func TestUnescapeCode(t *testing.T) {
	assert.Equal(t, "a\n-- b: c\nprice $5", unescapeCode("a\n\\-- b: c\nprice \\$5"))
}
