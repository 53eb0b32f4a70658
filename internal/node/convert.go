package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/executor"
)

// FromResult converts the tree of an executed document.
func FromResult(res *executor.Result) *Node {
	return FromElement(res.Main)
}

// FromElement converts el and its descendants.
func FromElement(el executor.Element) *Node {
	switch e := el.(type) {
	case *executor.Row:
		return fromContainer(&e.Common, &e.Container, "row")
	case *executor.Column:
		return fromContainer(&e.Common, &e.Container, "column")
	case *executor.Scene:
		n := fromContainer(&e.Common, &e.Container, "")
		n.Style["position"] = "relative"
		return n
	case *executor.Text:
		n := fromCommon("div", &e.Common)
		n.Classes = append(n.Classes, "ft_md")
		n.setText(e.Text.Value)
		textStyle(n, e.TextAlign, e.LineClamp)
		return n
	case *executor.Integer:
		n := fromCommon("div", &e.Common)
		n.setText(e.Text)
		textStyle(n, e.TextAlign, e.LineClamp)
		return n
	case *executor.Decimal:
		n := fromCommon("div", &e.Common)
		n.setText(e.Text)
		textStyle(n, e.TextAlign, e.LineClamp)
		return n
	case *executor.Boolean:
		n := fromCommon("div", &e.Common)
		n.setText(e.Text)
		textStyle(n, e.TextAlign, e.LineClamp)
		return n
	case *executor.Image:
		n := fromCommon("img", &e.Common)
		n.Attrs["src"] = e.Src.Value.Light
		if e.Src.Value.Dark != e.Src.Value.Light {
			n.Attrs["data-src-dark"] = e.Src.Value.Dark
		}
		if e.Description != nil {
			n.Attrs["alt"] = e.Description.Value
		}
		return n
	case *executor.Iframe:
		n := fromCommon("iframe", &e.Common)
		if e.SrcDoc {
			n.Attrs["srcdoc"] = e.Src.Value
		} else {
			n.Attrs["src"] = e.Src.Value
		}
		n.Attrs["loading"] = e.Loading.Value
		return n
	case *executor.Code:
		n := fromCommon("pre", &e.Common)
		n.Classes = append(n.Classes, "language-"+e.Lang.Value, e.Theme.Value)
		n.setText(e.Text.Value)
		return n
	case *executor.TextInput:
		n := fromCommon("input", &e.Common)
		if e.Multiline.Value {
			n.Kind = "textarea"
		}
		if e.Placeholder != nil {
			n.Attrs["placeholder"] = e.Placeholder.Value
		}
		if e.Value != nil {
			n.Attrs["value"] = e.Value.Value
		} else if e.DefaultValue != nil {
			n.Attrs["value"] = e.DefaultValue.Value
		}
		if e.InputType != nil {
			n.Attrs["type"] = e.InputType.Value
		}
		if e.Enabled != nil && !e.Enabled.Value {
			n.Attrs["disabled"] = "true"
		}
		return n
	case *executor.CheckBox:
		n := fromCommon("input", &e.Common)
		n.Attrs["type"] = "checkbox"
		if e.Checked.Value {
			n.Attrs["checked"] = "true"
		}
		if e.Enabled != nil && !e.Enabled.Value {
			n.Attrs["disabled"] = "true"
		}
		return n
	case *executor.WebComponent:
		n := newNode(tagName(e.Name), &e.Common)
		for name, v := range e.Properties {
			n.Attrs[name] = v.String()
		}
		return n
	case *executor.Null:
		n := newNode("div", &e.Common)
		n.Null = true
		return n
	}
	n := newNode("div", el.GetCommon())
	n.Null = true
	return n
}

// tagName turns `doc#word-count` into a custom element name.
func tagName(name string) string {
	if _, local, ok := strings.Cut(name, "#"); ok {
		name = local
	}
	if !strings.Contains(name, "-") {
		name = "ftd-" + name
	}
	return name
}

func fromContainer(c *executor.Common, ct *executor.Container, direction string) *Node {
	n := fromCommon("div", c)
	if !c.IsNotVisible {
		n.Style["display"] = "flex"
	}
	if direction != "" {
		n.Style["flex-direction"] = direction
	}
	n.Style["align-items"] = "flex-start"
	n.Style["justify-content"] = "flex-start"

	if ct.AlignContent != nil {
		vertical, horizontal := axes(ct.AlignContent.Value)
		if direction == "row" {
			n.Style["justify-content"], n.Style["align-items"] = horizontal, vertical
		} else {
			n.Style["justify-content"], n.Style["align-items"] = vertical, horizontal
		}
	}
	if ct.Spacing != nil {
		switch ct.Spacing.Value.Type {
		case executor.SpaceAbsolute:
			n.Style["gap"] = px(ct.Spacing.Value.Value)
		default:
			n.Style["justify-content"] = string(ct.Spacing.Value.Type)
		}
	}
	if ct.Wrap != nil && ct.Wrap.Value {
		n.Style["flex-wrap"] = "wrap"
	}
	if ct.IsSlot {
		n.Attrs["data-slot"] = "true"
	}
	for _, child := range ct.Children {
		n.Children = append(n.Children, FromElement(child))
	}
	return n
}

// axes splits an alignment into its vertical and horizontal flex values.
func axes(a executor.Alignment) (string, string) {
	vertical, horizontal := "center", "center"
	s := string(a)
	switch {
	case strings.HasPrefix(s, "top"):
		vertical = "flex-start"
	case strings.HasPrefix(s, "bottom"):
		vertical = "flex-end"
	}
	switch {
	case strings.HasSuffix(s, "left"):
		horizontal = "flex-start"
	case strings.HasSuffix(s, "right"):
		horizontal = "flex-end"
	}
	return vertical, horizontal
}

func textStyle(n *Node, align *executor.Value[string], clamp *executor.Value[int64]) {
	if align != nil {
		n.Style["text-align"] = align.Value
	}
	if clamp != nil {
		n.Style["display"] = "-webkit-box"
		n.Style["overflow"] = "hidden"
		n.Style["-webkit-line-clamp"] = strconv.FormatInt(clamp.Value, 10)
		n.Style["-webkit-box-orient"] = "vertical"
	}
}

func px(v int64) string {
	return strconv.FormatInt(v, 10) + "px"
}

// fromCommon maps the shared attributes. A link turns the node into an
// anchor.
func fromCommon(kind string, c *executor.Common) *Node {
	n := newNode(kind, c)
	if c.Link != nil {
		n.Kind = "a"
		n.Attrs["href"] = c.Link.Value
		if c.OpenInNewTab != nil && c.OpenInNewTab.Value {
			n.Attrs["target"] = "_blank"
		}
	}
	if c.ID != nil {
		n.Attrs["id"] = c.ID.Value
	}
	if c.Role != nil {
		n.Attrs["role"] = c.Role.Value
	}
	if c.Region != nil {
		n.Attrs["data-region"] = c.Region.Value
	}
	if c.Classes != nil {
		n.Classes = append(n.Classes, c.Classes.Value...)
	}
	if c.IsNotVisible {
		n.Style["display"] = "none"
	}

	ints := []struct {
		prop string
		v    *executor.Value[int64]
	}{
		{"padding", c.Padding},
		{"padding-left", c.PaddingLeft},
		{"padding-right", c.PaddingRight},
		{"padding-top", c.PaddingTop},
		{"padding-bottom", c.PaddingBottom},
		{"margin-left", c.MarginLeft},
		{"margin-right", c.MarginRight},
		{"margin-top", c.MarginTop},
		{"margin-bottom", c.MarginBottom},
		{"border-width", c.BorderWidth},
		{"border-radius", c.BorderRadius},
		{"border-top-width", c.BorderTop},
		{"border-bottom-width", c.BorderBottom},
		{"border-left-width", c.BorderLeft},
		{"border-right-width", c.BorderRight},
		{"border-top-left-radius", c.BorderTopLeftRadius},
		{"border-top-right-radius", c.BorderTopRightRadius},
		{"border-bottom-left-radius", c.BorderBottomLeftRadius},
		{"border-bottom-right-radius", c.BorderBottomRightRadius},
		{"left", c.Left},
		{"right", c.Right},
		{"top", c.Top},
		{"bottom", c.Bottom},
	}
	for _, i := range ints {
		if i.v != nil {
			n.Style[i.prop] = px(i.v.Value)
		}
	}
	if c.PaddingHorizontal != nil {
		n.Style["padding-left"] = px(c.PaddingHorizontal.Value)
		n.Style["padding-right"] = px(c.PaddingHorizontal.Value)
	}
	if c.PaddingVertical != nil {
		n.Style["padding-top"] = px(c.PaddingVertical.Value)
		n.Style["padding-bottom"] = px(c.PaddingVertical.Value)
	}
	if c.ZIndex != nil {
		n.Style["z-index"] = strconv.FormatInt(c.ZIndex.Value, 10)
	}

	colors := []struct {
		prop string
		v    *executor.Value[executor.Color]
	}{
		{"border-color", c.BorderColor},
		{"border-top-color", c.BorderTopColor},
		{"border-bottom-color", c.BorderBottomColor},
		{"border-left-color", c.BorderLeftColor},
		{"border-right-color", c.BorderRightColor},
		{"background-color", c.BackgroundColor},
		{"color", c.Color},
	}
	for _, col := range colors {
		if col.v == nil {
			continue
		}
		n.Style[col.prop] = col.v.Value.Light.String()
		if col.v.Value.Dark != col.v.Value.Light {
			if n.DarkStyle == nil {
				n.DarkStyle = map[string]string{}
			}
			n.DarkStyle[col.prop] = col.v.Value.Dark.String()
		}
	}

	lengths := []struct {
		prop string
		v    *executor.Value[executor.Length]
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"min-width", c.MinWidth},
		{"max-width", c.MaxWidth},
		{"min-height", c.MinHeight},
		{"max-height", c.MaxHeight},
	}
	for _, l := range lengths {
		if l.v != nil {
			n.Style[l.prop] = l.v.Value.String()
		}
	}

	strs := []struct {
		prop string
		v    *executor.Value[string]
	}{
		{"border-style", c.BorderStyle},
		{"cursor", c.Cursor},
		{"overflow-x", c.OverflowX},
		{"overflow-y", c.OverflowY},
		{"resize", c.Resize},
		{"white-space", c.WhiteSpace},
		{"text-transform", c.TextTransform},
	}
	for _, s := range strs {
		if s.v != nil {
			n.Style[s.prop] = s.v.Value
		}
	}

	switch {
	case c.Sticky != nil && c.Sticky.Value:
		n.Style["position"] = "sticky"
	case c.Anchor != nil && c.Anchor.Value == "window":
		n.Style["position"] = "fixed"
	case c.Anchor != nil:
		n.Style["position"] = "absolute"
	}
	if c.AlignSelf != nil {
		_, horizontal := axes(c.AlignSelf.Value)
		n.Style["align-self"] = horizontal
	}

	var transforms []string
	if c.Scale != nil {
		transforms = append(transforms, fmt.Sprintf("scale(%s)", strconv.FormatFloat(c.Scale.Value, 'f', -1, 64)))
	}
	if c.Rotate != nil {
		transforms = append(transforms, fmt.Sprintf("rotate(%ddeg)", c.Rotate.Value))
	}
	if len(transforms) > 0 {
		n.Style["transform"] = strings.Join(transforms, " ")
	}
	return n
}
