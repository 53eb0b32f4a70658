package executor

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/elementid"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// Event is an action wired to a DOM event of an element. Targets and
// parameters are rebased: they name bag variables or component locals.
type Event struct {
	Name   string                     `json:"name"`
	Action interpreter.ActionType     `json:"action"`
	Target string                     `json:"target,omitempty"`
	Value  *interpreter.PropertyValue `json:"value,omitempty"`
	By     *interpreter.PropertyValue `json:"by,omitempty"`
	Min    *interpreter.PropertyValue `json:"min,omitempty"`
	Max    *interpreter.PropertyValue `json:"max,omitempty"`
}

// Common is the attribute bundle every element carries. A nil attribute was
// not set.
type Common struct {
	DataID       string               `json:"data-id"`
	ID           *Value[string]       `json:"id,omitempty"`
	IsNotVisible bool                 `json:"is-not-visible,omitempty"`
	Condition    *interpreter.Boolean `json:"condition,omitempty"`
	Events       []Event              `json:"events,omitempty"`

	Padding           *Value[int64] `json:"padding,omitempty"`
	PaddingLeft       *Value[int64] `json:"padding-left,omitempty"`
	PaddingRight      *Value[int64] `json:"padding-right,omitempty"`
	PaddingTop        *Value[int64] `json:"padding-top,omitempty"`
	PaddingBottom     *Value[int64] `json:"padding-bottom,omitempty"`
	PaddingHorizontal *Value[int64] `json:"padding-horizontal,omitempty"`
	PaddingVertical   *Value[int64] `json:"padding-vertical,omitempty"`
	MarginLeft        *Value[int64] `json:"margin-left,omitempty"`
	MarginRight       *Value[int64] `json:"margin-right,omitempty"`
	MarginTop         *Value[int64] `json:"margin-top,omitempty"`
	MarginBottom      *Value[int64] `json:"margin-bottom,omitempty"`

	BorderWidth             *Value[int64]  `json:"border-width,omitempty"`
	BorderRadius            *Value[int64]  `json:"border-radius,omitempty"`
	BorderTop               *Value[int64]  `json:"border-top,omitempty"`
	BorderBottom            *Value[int64]  `json:"border-bottom,omitempty"`
	BorderLeft              *Value[int64]  `json:"border-left,omitempty"`
	BorderRight             *Value[int64]  `json:"border-right,omitempty"`
	BorderTopLeftRadius     *Value[int64]  `json:"border-top-left-radius,omitempty"`
	BorderTopRightRadius    *Value[int64]  `json:"border-top-right-radius,omitempty"`
	BorderBottomLeftRadius  *Value[int64]  `json:"border-bottom-left-radius,omitempty"`
	BorderBottomRightRadius *Value[int64]  `json:"border-bottom-right-radius,omitempty"`
	BorderColor             *Value[Color]  `json:"border-color,omitempty"`
	BorderTopColor          *Value[Color]  `json:"border-top-color,omitempty"`
	BorderBottomColor       *Value[Color]  `json:"border-bottom-color,omitempty"`
	BorderLeftColor         *Value[Color]  `json:"border-left-color,omitempty"`
	BorderRightColor        *Value[Color]  `json:"border-right-color,omitempty"`
	BorderStyle             *Value[string] `json:"border-style,omitempty"`

	BackgroundColor *Value[Color] `json:"background-color,omitempty"`
	Color           *Value[Color] `json:"color,omitempty"`

	Width     *Value[Length] `json:"width,omitempty"`
	Height    *Value[Length] `json:"height,omitempty"`
	MinWidth  *Value[Length] `json:"min-width,omitempty"`
	MaxWidth  *Value[Length] `json:"max-width,omitempty"`
	MinHeight *Value[Length] `json:"min-height,omitempty"`
	MaxHeight *Value[Length] `json:"max-height,omitempty"`

	ZIndex *Value[int64]  `json:"z-index,omitempty"`
	Left   *Value[int64]  `json:"left,omitempty"`
	Right  *Value[int64]  `json:"right,omitempty"`
	Top    *Value[int64]  `json:"top,omitempty"`
	Bottom *Value[int64]  `json:"bottom,omitempty"`
	Anchor *Value[string] `json:"anchor,omitempty"`

	Role          *Value[string]    `json:"role,omitempty"`
	Region        *Value[string]    `json:"region,omitempty"`
	Cursor        *Value[string]    `json:"cursor,omitempty"`
	Classes       *Value[[]string]  `json:"classes,omitempty"`
	Link          *Value[string]    `json:"link,omitempty"`
	OpenInNewTab  *Value[bool]      `json:"open-in-new-tab,omitempty"`
	Align         *Value[Alignment] `json:"align,omitempty"`
	AlignSelf     *Value[Alignment] `json:"align-self,omitempty"`
	OverflowX     *Value[string]    `json:"overflow-x,omitempty"`
	OverflowY     *Value[string]    `json:"overflow-y,omitempty"`
	Resize        *Value[string]    `json:"resize,omitempty"`
	WhiteSpace    *Value[string]    `json:"white-space,omitempty"`
	TextTransform *Value[string]    `json:"text-transform,omitempty"`
	Sticky        *Value[bool]      `json:"sticky,omitempty"`
	Scale         *Value[float64]   `json:"scale,omitempty"`
	Rotate        *Value[int64]     `json:"rotate,omitempty"`

	anchor string
	path   elementid.Path
}

// argument is a resolved argument of a built-in invocation.
type argument struct {
	value     interpreter.Value
	line      int
	reference string
}

// arguments maps argument names to their values. None values are kept so
// that presence can be told apart from absence.
type arguments map[string]argument

// get returns a set, non-null argument.
func (a arguments) get(name string) (argument, bool) {
	arg, ok := a[name]
	if !ok || arg.value.IsNull() {
		return argument{}, false
	}
	return arg, true
}

// folder reads typed attributes from arguments, keeping the first error.
type folder struct {
	e    *executor
	args arguments
	err  error
}

func (f *folder) fail(arg argument, err error) {
	if f.err == nil {
		f.err = diag.Wrap(diag.ParseError, f.e.doc.Name, arg.line, err, "invalid value")
	}
}

func foldString(f *folder, name string) *Value[string] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	return newValue(arg.value.String(), arg)
}

func foldInt(f *folder, name string) *Value[int64] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	return newValue(arg.value.Integer, arg)
}

func foldBool(f *folder, name string) *Value[bool] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	return newValue(arg.value.Boolean, arg)
}

func foldDecimal(f *folder, name string) *Value[float64] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	return newValue(arg.value.Decimal, arg)
}

// foldParsed runs parse over a string argument.
func foldParsed[T any](f *folder, name string, parse func(string) (T, error)) *Value[T] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	v, err := parse(arg.value.String())
	if err != nil {
		f.fail(arg, err)
		return nil
	}
	return newValue(v, arg)
}

// lightDark reads a `{light, dark}` record, dark defaulting to light.
func (f *folder) lightDark(arg argument) (string, string, error) {
	light, err := f.e.field(arg.value, "light", arg.line)
	if err != nil {
		return "", "", err
	}
	dark, err := f.e.field(arg.value, "dark", arg.line)
	if err != nil {
		return "", "", err
	}
	if dark.IsNull() {
		return light.String(), light.String(), nil
	}
	return light.String(), dark.String(), nil
}

func foldColor(f *folder, name string) *Value[Color] {
	arg, ok := f.args.get(name)
	if !ok {
		return nil
	}
	light, dark, err := f.lightDark(arg)
	if err != nil {
		f.fail(arg, err)
		return nil
	}
	var c Color
	if c.Light, err = ParseRGBA(light); err == nil {
		c.Dark, err = ParseRGBA(dark)
	}
	if err != nil {
		f.fail(arg, err)
		return nil
	}
	return newValue(c, arg)
}

// foldCommon fills the attributes shared by all built-ins.
func (f *folder) foldCommon(c *Common) {
	c.ID = foldString(f, "id")

	c.Padding = foldInt(f, "padding")
	c.PaddingLeft = foldInt(f, "padding-left")
	c.PaddingRight = foldInt(f, "padding-right")
	c.PaddingTop = foldInt(f, "padding-top")
	c.PaddingBottom = foldInt(f, "padding-bottom")
	c.PaddingHorizontal = foldInt(f, "padding-horizontal")
	c.PaddingVertical = foldInt(f, "padding-vertical")
	c.MarginLeft = foldInt(f, "margin-left")
	c.MarginRight = foldInt(f, "margin-right")
	c.MarginTop = foldInt(f, "margin-top")
	c.MarginBottom = foldInt(f, "margin-bottom")

	c.BorderWidth = foldInt(f, "border-width")
	c.BorderRadius = foldInt(f, "border-radius")
	c.BorderTop = foldInt(f, "border-top")
	c.BorderBottom = foldInt(f, "border-bottom")
	c.BorderLeft = foldInt(f, "border-left")
	c.BorderRight = foldInt(f, "border-right")
	c.BorderTopLeftRadius = foldInt(f, "border-top-left-radius")
	c.BorderTopRightRadius = foldInt(f, "border-top-right-radius")
	c.BorderBottomLeftRadius = foldInt(f, "border-bottom-left-radius")
	c.BorderBottomRightRadius = foldInt(f, "border-bottom-right-radius")
	c.BorderColor = foldColor(f, "border-color")
	c.BorderTopColor = foldColor(f, "border-top-color")
	c.BorderBottomColor = foldColor(f, "border-bottom-color")
	c.BorderLeftColor = foldColor(f, "border-left-color")
	c.BorderRightColor = foldColor(f, "border-right-color")
	c.BorderStyle = foldParsed(f, "border-style", borderStyles.parser("border style"))

	c.BackgroundColor = foldColor(f, "background-color")
	c.Color = foldColor(f, "color")

	c.Width = foldParsed(f, "width", ParseLength)
	c.Height = foldParsed(f, "height", ParseLength)
	c.MinWidth = foldParsed(f, "min-width", ParseLength)
	c.MaxWidth = foldParsed(f, "max-width", ParseLength)
	c.MinHeight = foldParsed(f, "min-height", ParseLength)
	c.MaxHeight = foldParsed(f, "max-height", ParseLength)

	c.ZIndex = foldInt(f, "z-index")
	c.Left = foldInt(f, "left")
	c.Right = foldInt(f, "right")
	c.Top = foldInt(f, "top")
	c.Bottom = foldInt(f, "bottom")
	c.Anchor = foldParsed(f, "anchor", anchors.parser("anchor"))

	c.Role = foldString(f, "role")
	c.Region = foldParsed(f, "region", regions.parser("region"))
	c.Cursor = foldString(f, "cursor")
	c.Classes = foldParsed(f, "classes", func(s string) ([]string, error) {
		var classes []string
		for _, class := range strings.Split(s, ",") {
			if class = strings.TrimSpace(class); class != "" {
				classes = append(classes, class)
			}
		}
		return classes, nil
	})
	c.Link = foldString(f, "link")
	c.OpenInNewTab = foldBool(f, "open-in-new-tab")
	c.Align = foldParsed(f, "align", ParseAlignment)
	c.AlignSelf = foldParsed(f, "align-self", ParseAlignment)
	c.OverflowX = foldParsed(f, "overflow-x", overflows.parser("overflow"))
	c.OverflowY = foldParsed(f, "overflow-y", overflows.parser("overflow"))
	c.Resize = foldParsed(f, "resize", resizes.parser("resize"))
	c.WhiteSpace = foldParsed(f, "white-space", whiteSpaces.parser("white-space"))
	c.TextTransform = foldParsed(f, "text-transform", textTransforms.parser("text-transform"))
	c.Sticky = foldBool(f, "sticky")
	c.Scale = foldDecimal(f, "scale")
	c.Rotate = foldInt(f, "rotate")
}

func (f *folder) foldContainer(c *Container) {
	c.Wrap = foldBool(f, "wrap")
	c.AlignContent = foldParsed(f, "align-content", ParseAlignment)
	c.Spacing = foldParsed(f, "spacing", ParseSpacing)
	c.Open = foldString(f, "open")
}
