package executor

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/elementid"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/numfmt"
)

const youtubeEmbed = "https://www.youtube.com/embed/"

// collect resolves every argument of a built-in or web component.
func (e *executor) collect(def *interpreter.ComponentDefinition, inv invocation) (arguments, error) {
	args := make(arguments, len(def.Arguments))
	for _, arg := range def.Arguments {
		prop, err := e.selectProperty(inv.props, arg.Name, false)
		if err != nil {
			return nil, err
		}
		var (
			pv   interpreter.PropertyValue
			line = inv.line
		)
		switch {
		case prop != nil:
			pv, line = prop.Value, prop.Line
		case arg.Default != nil:
			pv = *arg.Default
		case arg.Kind.IsOptional():
			args[arg.Name] = argument{value: interpreter.NoneValue(arg.Kind), line: line}
			continue
		default:
			return nil, diag.Errorf(diag.ParseError, e.doc.Name, inv.line, "`%s` requires `%s`", def.Name, arg.Name)
		}

		value, err := pv.Resolve(e.doc, e.global, line)
		if err != nil {
			return nil, err
		}
		resolved := argument{value: value, line: line}
		if pv.Type == interpreter.PropertyReference {
			resolved.reference = pv.Name
		}
		args[arg.Name] = resolved
	}
	return args, nil
}

// field reads a field of a record value; a missing field is None.
func (e *executor) field(v interpreter.Value, name string, line int) (interpreter.Value, error) {
	pv, ok := v.Fields.Get(name)
	if !ok {
		return interpreter.NoneValue(interpreter.StringKind()), nil
	}
	return pv.Resolve(e.doc, e.global, line)
}

func (e *executor) buildBuiltin(def *interpreter.ComponentDefinition, inv invocation) (Element, error) {
	if def.Name == interpreter.NullComponent {
		return e.null(inv.anchor, inv.path), nil
	}
	args, err := e.collect(def, inv)
	if err != nil {
		return nil, err
	}

	f := &folder{e: e, args: args}
	var common Common
	f.foldCommon(&common)
	id := ""
	if common.ID != nil {
		id = common.ID.Value
	}
	common.DataID = elementid.DataID(inv.anchor, inv.path, id)
	common.anchor, common.path = inv.anchor, inv.path
	common.Events = inv.events

	var el Element
	switch def.Name {
	case interpreter.RowComponent:
		row := &Row{Common: common}
		f.foldContainer(&row.Container)
		el = row
	case interpreter.ColumnComponent:
		col := &Column{Common: common}
		f.foldContainer(&col.Container)
		el = col
	case interpreter.SceneComponent:
		scene := &Scene{Common: common}
		f.foldContainer(&scene.Container)
		el = scene
	case interpreter.TextComponent:
		el, err = e.text(f, common, inv)
	case interpreter.IntegerComponent:
		el, err = e.integer(f, common)
	case interpreter.DecimalComponent:
		el, err = e.decimal(f, common)
	case interpreter.BooleanComponent:
		arg := args["value"]
		b := &Boolean{
			Common:    common,
			Value:     *newValue(arg.value.Boolean, arg),
			True:      "true",
			False:     "false",
			TextAlign: foldParsed(f, "text-align", textAligns.parser("text-align")),
			LineClamp: foldInt(f, "line-clamp"),
		}
		if t := foldString(f, "true"); t != nil {
			b.True = t.Value
		}
		if t := foldString(f, "false"); t != nil {
			b.False = t.Value
		}
		b.Text = b.False
		if b.Value.Value {
			b.Text = b.True
		}
		el = b
	case interpreter.ImageComponent:
		arg := args["src"]
		light, dark, lerr := f.lightDark(arg)
		if lerr != nil {
			return nil, diag.Wrap(diag.EvaluationError, e.doc.Name, arg.line, lerr, "cannot read image source")
		}
		el = &Image{
			Common:      common,
			Src:         *newValue(ImageSource{Light: light, Dark: dark}, arg),
			Description: foldString(f, "description"),
		}
	case interpreter.IframeComponent:
		el, err = e.iframe(f, common, inv)
	case interpreter.CodeComponent:
		text, lang, theme := args["text"], args["lang"], args["theme"]
		el = &Code{
			Common: common,
			Text:   *newValue(unescapeCode(text.value.Text), text),
			Lang:   *newValue(lang.value.Text, lang),
			Theme:  *newValue(theme.value.Text, theme),
		}
	case interpreter.InputComponent:
		multiline := args["multiline"]
		el = &TextInput{
			Common:       common,
			Placeholder:  foldString(f, "placeholder"),
			Value:        foldString(f, "value"),
			DefaultValue: foldString(f, "default-value"),
			Multiline:    *newValue(multiline.value.Boolean, multiline),
			InputType:    foldString(f, "type"),
			Enabled:      foldBool(f, "enabled"),
		}
	case interpreter.CheckBoxComponent:
		checked := args["checked"]
		el = &CheckBox{
			Common:  common,
			Checked: *newValue(checked.value.Boolean, checked),
			Enabled: foldBool(f, "enabled"),
		}
	default:
		return nil, diag.Errorf(diag.EvaluationError, e.doc.Name, inv.line, "unknown built-in `%s`", def.Name)
	}
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}

	if len(inv.children) > 0 {
		if _, ok := ContainerOf(el); !ok {
			return nil, diag.Errorf(diag.ContainerError, e.doc.Name, inv.line, "`%s` cannot hold children", def.Name)
		}
		if err := e.run(el, inv.children, inv.scope, false); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// text needs `text` unless the invocation is guarded by a condition.
func (e *executor) text(f *folder, common Common, inv invocation) (Element, error) {
	t := &Text{
		Common:    common,
		TextAlign: foldParsed(f, "text-align", textAligns.parser("text-align")),
		LineClamp: foldInt(f, "line-clamp"),
		Style:     foldString(f, "style"),
	}
	arg, ok := f.args.get("text")
	if !ok {
		if !inv.conditioned {
			return nil, diag.Errorf(diag.ParseError, e.doc.Name, inv.line, "`%s` requires `text`", interpreter.TextComponent)
		}
		return t, nil
	}
	t.Text = *newValue(arg.value.Text, arg)
	t.Source = arg.value.Source
	return t, nil
}

func (e *executor) integer(f *folder, common Common) (Element, error) {
	arg := f.args["value"]
	n := &Integer{
		Common:    common,
		Value:     *newValue(arg.value.Integer, arg),
		Text:      strconv.FormatInt(arg.value.Integer, 10),
		Format:    foldString(f, "format"),
		TextAlign: foldParsed(f, "text-align", textAligns.parser("text-align")),
		LineClamp: foldInt(f, "line-clamp"),
	}
	if n.Format != nil {
		text, err := numfmt.FormatInt(n.Format.Value, arg.value.Integer)
		if err != nil {
			return nil, diag.Wrap(diag.EvaluationError, e.doc.Name, n.Format.Line, err, "cannot format %d", arg.value.Integer)
		}
		n.Text = text
	}
	return n, nil
}

func (e *executor) decimal(f *folder, common Common) (Element, error) {
	arg := f.args["value"]
	n := &Decimal{
		Common:    common,
		Value:     *newValue(arg.value.Decimal, arg),
		Text:      interpreter.CanonicalDecimal(arg.value.Decimal),
		Format:    foldString(f, "format"),
		TextAlign: foldParsed(f, "text-align", textAligns.parser("text-align")),
		LineClamp: foldInt(f, "line-clamp"),
	}
	if n.Format != nil {
		text, err := numfmt.Format(n.Format.Value, arg.value.Decimal)
		if err != nil {
			return nil, diag.Wrap(diag.EvaluationError, e.doc.Name, n.Format.Line, err, "cannot format %s", n.Text)
		}
		n.Text = text
	}
	return n, nil
}

// iframe takes exactly one of src, srcdoc and youtube.
func (e *executor) iframe(f *folder, common Common, inv invocation) (Element, error) {
	frame := &Iframe{Common: common}
	set := 0
	if arg, ok := f.args.get("src"); ok {
		frame.Src = *newValue(arg.value.Text, arg)
		set++
	}
	if arg, ok := f.args.get("srcdoc"); ok {
		frame.Src = *newValue(arg.value.Text, arg)
		frame.SrcDoc = true
		set++
	}
	if arg, ok := f.args.get("youtube"); ok {
		frame.Src = *newValue(youtubeEmbed+arg.value.Text, arg)
		set++
	}
	switch {
	case set == 0:
		return nil, diag.Errorf(diag.ParseError, e.doc.Name, inv.line, "Either srcdoc or src or youtube id is required")
	case set > 1:
		return nil, diag.Errorf(diag.ParseError, e.doc.Name, inv.line, "only one of src, srcdoc and youtube may be given")
	}
	if loading := foldParsed(f, "loading", loadings.parser("loading")); loading != nil {
		frame.Loading = *loading
	}
	return frame, nil
}

var codeUnescaper = strings.NewReplacer("\n\\-- ", "\n-- ", `\$`, "$")

func unescapeCode(s string) string {
	return codeUnescaper.Replace(s)
}

// buildWeb emits a web component with its resolved, non-null arguments.
func (e *executor) buildWeb(def *interpreter.ComponentDefinition, inv invocation) (Element, error) {
	if len(inv.children) > 0 {
		return nil, diag.Errorf(diag.ContainerError, e.doc.Name, inv.line, "web component `%s` cannot hold children", def.Name)
	}
	args, err := e.collect(def, inv)
	if err != nil {
		return nil, err
	}
	web := &WebComponent{
		Common:     Common{DataID: elementid.DataID(inv.anchor, inv.path, ""), Events: inv.events, anchor: inv.anchor, path: inv.path},
		Name:       def.Name,
		Properties: map[string]interpreter.Value{},
	}
	for name, arg := range args {
		if !arg.value.IsNull() {
			web.Properties[name] = arg.value
		}
	}
	return web, nil
}
