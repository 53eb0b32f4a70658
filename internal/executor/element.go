package executor

import (
	"encoding/json"

	"github.com/specialistvlad/ftdgo/internal/elementid"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// ElementType names the variant of an Element.
type ElementType string

const (
	TypeRow          ElementType = "row"
	TypeColumn       ElementType = "column"
	TypeScene        ElementType = "scene"
	TypeText         ElementType = "text"
	TypeInteger      ElementType = "integer"
	TypeDecimal      ElementType = "decimal"
	TypeBoolean      ElementType = "boolean"
	TypeImage        ElementType = "image"
	TypeIframe       ElementType = "iframe"
	TypeCode         ElementType = "code"
	TypeTextInput    ElementType = "input"
	TypeCheckBox     ElementType = "checkbox"
	TypeWebComponent ElementType = "web-component"
	TypeRaw          ElementType = "raw"
	TypeIterative    ElementType = "iterative"
	TypeNull         ElementType = "null"
)

// Element is a node of the emitted tree.
type Element interface {
	Type() ElementType
	GetCommon() *Common
}

// Children is an ordered list of elements. It serializes each element with
// its type tag.
type Children []Element

type taggedElement struct {
	Type    ElementType `json:"type"`
	Element Element     `json:"element"`
}

func (c Children) MarshalJSON() ([]byte, error) {
	tagged := make([]taggedElement, len(c))
	for i, el := range c {
		tagged[i] = taggedElement{Type: el.Type(), Element: el}
	}
	return json.Marshal(tagged)
}

// ExternalChildren records the children an invocation passed to a
// component with an open slot.
type ExternalChildren struct {
	// Slot is the id of the open descendant.
	Slot string `json:"slot"`
	// Paths are the positions of the slot below the component root.
	Paths []string `json:"paths,omitempty"`
	// Children hold the re-parented subtree, a column wrapping the inline
	// children of the invocation.
	Children Children `json:"-"`
	// ChildIDs are the data-ids of Children.
	ChildIDs []string `json:"children"`
	// Unsatisfied is set when the component has no descendant with the
	// slot id; the children are recorded but not placed.
	Unsatisfied bool `json:"unsatisfied,omitempty"`
}

// Container is the part of rows, columns and scenes holding children.
type Container struct {
	Children     Children          `json:"children"`
	AlignContent *Value[Alignment] `json:"align-content,omitempty"`
	Spacing      *Value[Spacing]   `json:"spacing,omitempty"`
	Wrap         *Value[bool]      `json:"wrap,omitempty"`
	Open         *Value[string]    `json:"open,omitempty"`
	IsSlot       bool              `json:"is-slot,omitempty"`
	External     *ExternalChildren `json:"external-children,omitempty"`
}

// isOpen reports whether later `container:` sections may insert here.
func (c *Container) isOpen() bool {
	return c.IsSlot || (c.Open != nil && c.Open.Value == "true")
}

type Row struct {
	Common
	Container
}

type Column struct {
	Common
	Container
}

// Scene positions its children freely with top, left, scale and rotate.
type Scene struct {
	Common
	Container
}

type Text struct {
	Common
	Text      Value[string]          `json:"text"`
	Source    interpreter.TextSource `json:"source"`
	TextAlign *Value[string]         `json:"text-align,omitempty"`
	LineClamp *Value[int64]          `json:"line-clamp,omitempty"`
	Style     *Value[string]         `json:"style,omitempty"`
}

type Integer struct {
	Common
	Value     Value[int64]   `json:"value"`
	Text      string         `json:"text"`
	Format    *Value[string] `json:"format,omitempty"`
	TextAlign *Value[string] `json:"text-align,omitempty"`
	LineClamp *Value[int64]  `json:"line-clamp,omitempty"`
}

type Decimal struct {
	Common
	Value     Value[float64] `json:"value"`
	Text      string         `json:"text"`
	Format    *Value[string] `json:"format,omitempty"`
	TextAlign *Value[string] `json:"text-align,omitempty"`
	LineClamp *Value[int64]  `json:"line-clamp,omitempty"`
}

type Boolean struct {
	Common
	Value     Value[bool]    `json:"value"`
	Text      string         `json:"text"`
	True      string         `json:"true"`
	False     string         `json:"false"`
	TextAlign *Value[string] `json:"text-align,omitempty"`
	LineClamp *Value[int64]  `json:"line-clamp,omitempty"`
}

// ImageSource holds the image for light and dark color schemes.
type ImageSource struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

type Image struct {
	Common
	Src         Value[ImageSource] `json:"src"`
	Description *Value[string]     `json:"description,omitempty"`
}

type Iframe struct {
	Common
	Src     Value[string] `json:"src"`
	SrcDoc  bool          `json:"srcdoc,omitempty"`
	Loading Value[string] `json:"loading"`
}

type Code struct {
	Common
	Text  Value[string] `json:"text"`
	Lang  Value[string] `json:"lang"`
	Theme Value[string] `json:"theme"`
}

type TextInput struct {
	Common
	Placeholder  *Value[string] `json:"placeholder,omitempty"`
	Value        *Value[string] `json:"value,omitempty"`
	DefaultValue *Value[string] `json:"default-value,omitempty"`
	Multiline    Value[bool]    `json:"multiline"`
	InputType    *Value[string] `json:"input-type,omitempty"`
	Enabled      *Value[bool]   `json:"enabled,omitempty"`
}

type CheckBox struct {
	Common
	Checked Value[bool]  `json:"checked"`
	Enabled *Value[bool] `json:"enabled,omitempty"`
}

// WebComponent is rendered by a custom element outside the tree.
type WebComponent struct {
	Common
	Name       string                       `json:"name"`
	Properties map[string]interpreter.Value `json:"properties"`
}

// RawElement is an invocation kept unexpanded, with its loop alias still
// bound as a scope variable.
type RawElement struct {
	Common
	Root       string                    `json:"root"`
	Properties interpreter.Properties    `json:"properties,omitempty"`
	Events     []Event                   `json:"events,omitempty"`
	Condition  *interpreter.Boolean      `json:"condition,omitempty"`
	Children   []interpreter.Instruction `json:"children,omitempty"`
}

// IterativeElement is recorded for a loop over a mutable list so that a
// renderer can instantiate items added later.
type IterativeElement struct {
	Common
	List     string      `json:"list"`
	Alias    string      `json:"alias"`
	Start    int         `json:"start"`
	Template *RawElement `json:"template"`
}

// Null keeps the index of an invocation whose condition is false.
type Null struct {
	Common
}

func (*Row) Type() ElementType              { return TypeRow }
func (*Column) Type() ElementType           { return TypeColumn }
func (*Scene) Type() ElementType            { return TypeScene }
func (*Text) Type() ElementType             { return TypeText }
func (*Integer) Type() ElementType          { return TypeInteger }
func (*Decimal) Type() ElementType          { return TypeDecimal }
func (*Boolean) Type() ElementType          { return TypeBoolean }
func (*Image) Type() ElementType            { return TypeImage }
func (*Iframe) Type() ElementType           { return TypeIframe }
func (*Code) Type() ElementType             { return TypeCode }
func (*TextInput) Type() ElementType        { return TypeTextInput }
func (*CheckBox) Type() ElementType         { return TypeCheckBox }
func (*WebComponent) Type() ElementType     { return TypeWebComponent }
func (*RawElement) Type() ElementType       { return TypeRaw }
func (*IterativeElement) Type() ElementType { return TypeIterative }
func (*Null) Type() ElementType             { return TypeNull }

func (c *Common) GetCommon() *Common { return c }

// ContainerOf returns the container of rows, columns and scenes.
func ContainerOf(el Element) (*Container, bool) {
	switch e := el.(type) {
	case *Row:
		return &e.Container, true
	case *Column:
		return &e.Container, true
	case *Scene:
		return &e.Container, true
	}
	return nil, false
}

// Walk visits el and its descendants in pre-order until fn returns false.
func Walk(el Element, fn func(Element) bool) bool {
	if !fn(el) {
		return false
	}
	if c, ok := ContainerOf(el); ok {
		for _, child := range c.Children {
			if !Walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// childAt returns the anchor and path of the i-th child of el.
func childAt(el Element, i int) (string, elementid.Path) {
	c := el.GetCommon()
	if c.ID != nil {
		return c.DataID, elementid.Path{i}
	}
	return c.anchor, c.path.Child(i)
}
