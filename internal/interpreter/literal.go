package interpreter

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

// Binding describes a name bound in a component definition or loop body.
type Binding struct {
	Kind    Kind
	Mutable bool
}

// Bindings maps argument and loop alias names to their declaration.
type Bindings map[string]Binding

// With returns a copy of b with name bound.
func (b Bindings) With(name string, binding Binding) Bindings {
	next := make(Bindings, len(b)+1)
	for k, v := range b {
		next[k] = v
	}
	next[name] = binding
	return next
}

// records whose fields accept a bare string as `{light: s, dark: s}`.
var lightDarkRecords = map[string]bool{
	BuiltinDocument + "#image-src": true,
	BuiltinDocument + "#color":     true,
}

// PropertyValueFromString compiles a header, caption or body value against
// an expected kind. `$name` and `$name.field` become Variables when name is
// bound, and References into the bag otherwise. `\$` escapes a literal
// dollar. A zero expected kind guesses the literal kind.
func (d *TDoc) PropertyValueFromString(text string, expected Kind, bindings Bindings, source TextSource, line int) (PropertyValue, error) {
	if strings.HasPrefix(text, "$") {
		pv, err := d.referenceFromString(text[1:], bindings, line)
		if err != nil {
			return PropertyValue{}, err
		}
		if err := d.checkAssignable(pv.Kind, expected, "`"+text+"`", line); err != nil {
			return PropertyValue{}, err
		}
		return pv, nil
	}
	if strings.HasPrefix(text, `\$`) {
		text = text[1:]
	}
	if !expected.IsKnown() {
		return Literal(guessLiteral(text, source)), nil
	}
	value, err := d.ParseLiteral(text, expected, source, line)
	if err != nil {
		return PropertyValue{}, err
	}
	return Literal(value), nil
}

// IsBound reports whether the root of a `$name.field` reference is bound.
func (b Bindings) IsBound(ref string) bool {
	root, _ := SplitPath(strings.TrimPrefix(ref, "$"))
	_, ok := b[root]
	return ok
}

func (d *TDoc) referenceFromString(ref string, bindings Bindings, line int) (PropertyValue, error) {
	root, fields := SplitPath(ref)
	if binding, ok := bindings[root]; ok {
		kind, err := d.KindOfPath(binding.Kind, fields, ref, line)
		if err != nil {
			return PropertyValue{}, err
		}
		return ScopeVariable(ref, kind), nil
	}

	variable, fields, err := d.GetVariable(ref, line)
	if err != nil {
		return PropertyValue{}, err
	}
	kind, err := d.KindOfPath(variable.Kind, fields, ref, line)
	if err != nil {
		return PropertyValue{}, err
	}
	name := variable.Name
	if len(fields) > 0 {
		name += "." + strings.Join(fields, ".")
	}
	return Reference(name, kind), nil
}

// ParseLiteral parses text as a value of kind.
func (d *TDoc) ParseLiteral(text string, kind Kind, source TextSource, line int) (Value, error) {
	base := kind.Strip()
	switch base.Type {
	case KindString:
		return StringValue(text, source), nil
	case KindInteger:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, diag.Errorf(diag.ParseError, d.Name, line, "cannot parse `%s` as integer", text)
		}
		return IntegerValue(i), nil
	case KindDecimal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, diag.Errorf(diag.ParseError, d.Name, line, "cannot parse `%s` as decimal", text)
		}
		return DecimalValue(f), nil
	case KindBoolean:
		switch text {
		case "true":
			return BooleanValue(true), nil
		case "false":
			return BooleanValue(false), nil
		}
		return Value{}, diag.Errorf(diag.ParseError, d.Name, line, "cannot parse `%s` as boolean", text)
	case KindRecord:
		if lightDarkRecords[base.Name] {
			return RecordValue(base.Name, Fields{
				{Name: "light", Value: Literal(StringValue(text, source))},
				{Name: "dark", Value: Literal(StringValue(text, source))},
			}), nil
		}
	}
	return Value{}, diag.Errorf(diag.TypeError, d.Name, line, "a value of kind `%s` must be a `$` reference, found `%s`", kind, text)
}

// guessLiteral infers the kind of a literal: integer, decimal, boolean, then
// string.
func guessLiteral(text string, source TextSource) Value {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntegerValue(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return DecimalValue(f)
	}
	switch text {
	case "true":
		return BooleanValue(true)
	case "false":
		return BooleanValue(false)
	}
	return StringValue(text, source)
}

// defaultValue returns the literal carried by a kind's default, if any.
func (d *TDoc) defaultValue(kind Kind, line int) (*PropertyValue, error) {
	def := kind.GetDefault()
	if def == nil {
		return nil, nil
	}
	if strings.HasPrefix(*def, "$") {
		pv, err := d.PropertyValueFromString(*def, kind, nil, SourceDefault, line)
		if err != nil {
			return nil, err
		}
		return &pv, nil
	}
	value, err := d.ParseLiteral(*def, kind, SourceDefault, line)
	if err != nil {
		return nil, err
	}
	pv := Literal(value)
	return &pv, nil
}
