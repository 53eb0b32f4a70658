package executor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LengthType is the unit or keyword of a Length.
type LengthType string

const (
	LengthPx         LengthType = "px"
	LengthPercent    LengthType = "percent"
	LengthFill       LengthType = "fill"
	LengthHugContent LengthType = "hug-content"
	LengthAuto       LengthType = "auto"
	LengthFitContent LengthType = "fit-content"
	LengthCalc       LengthType = "calc"
)

// Length is a width, height or one of their bounds.
type Length struct {
	Type  LengthType `json:"type"`
	Value float64    `json:"value,omitempty"`
	Expr  string     `json:"expr,omitempty"`
}

// ParseLength accepts `N`, `N px`, `N %`, `percent N`, `calc <expr>` and the
// keywords fill, hug-content, auto and fit-content.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	switch LengthType(s) {
	case LengthFill, LengthHugContent, LengthAuto, LengthFitContent:
		return Length{Type: LengthType(s)}, nil
	}
	if expr, ok := strings.CutPrefix(s, "calc "); ok {
		return Length{Type: LengthCalc, Expr: strings.TrimSpace(expr)}, nil
	}
	if n, ok := strings.CutPrefix(s, "percent "); ok {
		return lengthNumber(strings.TrimSpace(n), LengthPercent, s)
	}
	if n, ok := strings.CutSuffix(s, "%"); ok {
		return lengthNumber(strings.TrimSpace(n), LengthPercent, s)
	}
	if n, ok := strings.CutSuffix(s, "px"); ok {
		return lengthNumber(strings.TrimSpace(n), LengthPx, s)
	}
	return lengthNumber(s, LengthPx, s)
}

func lengthNumber(n string, t LengthType, original string) (Length, error) {
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length `%s`", original)
	}
	return Length{Type: t, Value: f}, nil
}

func (l Length) String() string {
	switch l.Type {
	case LengthPx:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "px"
	case LengthPercent:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	case LengthCalc:
		return "calc(" + l.Expr + ")"
	case LengthHugContent:
		return "fit-content"
	case LengthFill:
		return "100%"
	}
	return string(l.Type)
}

// RGBA is one color with alpha in [0, 1].
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Color holds a color for light and dark color schemes.
type Color struct {
	Light RGBA `json:"light"`
	Dark  RGBA `json:"dark"`
}

var namedColors = map[string]RGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
}

// ParseRGBA accepts `#RGB`, `#RRGGBB`, `#RRGGBBAA`, `rgb(r, g, b)`,
// `rgba(r, g, b, a)` and a few named colors.
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex, s)
	}
	if args, ok := cutCall(s, "rgba"); ok {
		return parseRGBArgs(args, 4, s)
	}
	if args, ok := cutCall(s, "rgb"); ok {
		return parseRGBArgs(args, 3, s)
	}
	return RGBA{}, fmt.Errorf("invalid color `%s`", s)
}

func cutCall(s, fn string) (string, bool) {
	rest, ok := strings.CutPrefix(s, fn+"(")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}

func parseHex(hex, original string) (RGBA, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, fmt.Errorf("invalid color `%s`", original)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid color `%s`", original)
	}
	if len(hex) == 6 {
		return RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 1}, nil
	}
	alpha := math.Round(float64(uint8(n))/255*100) / 100
	return RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: alpha}, nil
}

func parseRGBArgs(args string, want int, original string) (RGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return RGBA{}, fmt.Errorf("invalid color `%s`", original)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid color `%s`", original)
		}
		channels[i] = uint8(v)
	}
	c := RGBA{R: channels[0], G: channels[1], B: channels[2], A: 1}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid color `%s`", original)
		}
		c.A = a
	}
	return c, nil
}

// Alignment places children inside a container.
type Alignment string

var alignments = map[string]Alignment{
	"top-left":      "top-left",
	"top-center":    "top-center",
	"top":           "top-center",
	"top-right":     "top-right",
	"left":          "left",
	"center":        "center",
	"right":         "right",
	"bottom-left":   "bottom-left",
	"bottom-center": "bottom-center",
	"bottom":        "bottom-center",
	"bottom-right":  "bottom-right",
}

// ParseAlignment accepts the nine positions of a 3x3 grid. `top` and
// `bottom` stand for their center positions.
func ParseAlignment(s string) (Alignment, error) {
	if a, ok := alignments[strings.TrimSpace(s)]; ok {
		return a, nil
	}
	return "", fmt.Errorf("invalid alignment `%s`", s)
}

// SpacingType is the distribution of children along the main axis.
type SpacingType string

const (
	SpaceBetween  SpacingType = "space-between"
	SpaceAround   SpacingType = "space-around"
	SpaceEvenly   SpacingType = "space-evenly"
	SpaceAbsolute SpacingType = "absolute"
)

type Spacing struct {
	Type  SpacingType `json:"type"`
	Value int64       `json:"value,omitempty"`
}

// ParseSpacing accepts space-between, space-around, space-evenly or a pixel
// gap.
func ParseSpacing(s string) (Spacing, error) {
	s = strings.TrimSpace(s)
	switch SpacingType(s) {
	case SpaceBetween, SpaceAround, SpaceEvenly:
		return Spacing{Type: SpacingType(s)}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(s, "px")), 10, 64)
	if err != nil {
		return Spacing{}, fmt.Errorf("invalid spacing `%s`", s)
	}
	return Spacing{Type: SpaceAbsolute, Value: n}, nil
}

// enum validates keyword-valued styles.
type enum map[string]bool

func newEnum(values ...string) enum {
	e := make(enum, len(values))
	for _, v := range values {
		e[v] = true
	}
	return e
}

func (e enum) parser(what string) func(string) (string, error) {
	return func(s string) (string, error) {
		s = strings.TrimSpace(s)
		if !e[s] {
			return "", fmt.Errorf("invalid %s `%s`", what, s)
		}
		return s, nil
	}
}

var (
	anchors        = newEnum("window", "parent")
	overflows      = newEnum("visible", "hidden", "auto", "scroll")
	resizes        = newEnum("horizontal", "vertical", "both")
	whiteSpaces    = newEnum("normal", "nowrap", "pre", "pre-wrap", "pre-line", "break-spaces")
	textTransforms = newEnum("none", "capitalize", "uppercase", "lowercase", "inherit", "initial")
	borderStyles   = newEnum("dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset")
	textAligns     = newEnum("left", "right", "center", "justify")
	regions        = newEnum("h0", "h1", "h2", "h3", "h4", "h5", "h6", "h7", "title", "main-title", "subtitle", "heading")
	loadings       = newEnum("lazy", "eager")
)
