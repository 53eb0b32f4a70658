package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// ConditionalValue is an alternate value used while Condition holds.
type ConditionalValue struct {
	Condition Boolean       `json:"condition"`
	Value     PropertyValue `json:"value"`
}

// Variable is a named, typed value in the bag.
type Variable struct {
	Name       string             `json:"name"`
	Kind       Kind               `json:"kind"`
	Value      PropertyValue      `json:"value"`
	Conditions []ConditionalValue `json:"conditions,omitempty"`
	Mutable    bool               `json:"mutable"`
	Line       int                `json:"line"`
}

func (v *Variable) ThingName() string { return v.Name }
func (v *Variable) ThingKind() string { return "variable" }

// Resolve returns the value of the first alternate whose condition holds,
// or the default value. A variable whose value depends on itself, directly
// or through other variables, is an EvaluationError.
func (v *Variable) Resolve(d *TDoc, line int) (Value, error) {
	if d.resolving[v.Name] {
		return Value{}, diag.Errorf(diag.EvaluationError, d.Name, line, "cyclic reference: `%s` depends on itself", v.Name)
	}
	if d.resolving == nil {
		d.resolving = map[string]bool{}
	}
	d.resolving[v.Name] = true
	defer delete(d.resolving, v.Name)

	for _, alt := range v.Conditions {
		ok, err := alt.Condition.Eval(d, nil)
		if err != nil {
			return Value{}, err
		}
		if ok {
			return alt.Value.Resolve(d, nil, line)
		}
	}
	return v.Value.Resolve(d, nil, line)
}

// valueFromSection reads a whole section as a value of kind: lists take one
// element per subsection, maps one entry per header, records and or-type
// variants one field per slot, primitives the caption or body.
func (d *TDoc) valueFromSection(sec *section.Section, kind Kind) (PropertyValue, error) {
	if ref, ok := referenceCaption(sec); ok {
		return d.PropertyValueFromString(ref, kind, nil, SourceCaption, sec.Line)
	}

	base := kind.Strip()
	switch base.Type {
	case KindList:
		element := kind.Element()
		items := make([]PropertyValue, 0, len(sec.Subsections))
		for _, sub := range sec.Subsections {
			if sub.IsCommented {
				continue
			}
			item, err := d.valueFromSection(sub, element)
			if err != nil {
				return PropertyValue{}, err
			}
			items = append(items, item)
		}
		return Literal(ListValue(element, items)), nil

	case KindMap:
		element := kind.Element()
		entries := make(Fields, 0, len(sec.Headers))
		for _, h := range sec.Headers {
			if isReservedHeader(h.Key) {
				continue
			}
			value, err := d.PropertyValueFromString(h.Value, element, nil, SourceHeader, h.Line)
			if err != nil {
				return PropertyValue{}, err
			}
			entries = append(entries, Field{Name: h.Key, Value: value})
		}
		return Literal(MapValue(element, entries)), nil

	case KindRecord:
		record, err := d.GetRecord(base.Name, sec.Line)
		if err != nil {
			return PropertyValue{}, err
		}
		if lightDarkRecords[record.Name] && len(sec.Headers) == 0 && sec.Caption != nil {
			value, err := d.ParseLiteral(*sec.Caption, base, SourceCaption, sec.Line)
			if err != nil {
				return PropertyValue{}, err
			}
			return Literal(value), nil
		}
		fields, err := d.createFields(sec, record.Fields, record.Name)
		if err != nil {
			return PropertyValue{}, err
		}
		return Literal(RecordValue(record.Name, fields)), nil

	case KindOrType:
		return PropertyValue{}, diag.Errorf(diag.TypeError, d.Name, sec.Line, "a value of or-type `%s` must name its variant, as in `%s.<variant>`", base.Name, base.Name)
	}

	if sec.Caption != nil {
		return d.PropertyValueFromString(*sec.Caption, kind, nil, SourceCaption, sec.Line)
	}
	if sec.Body != nil {
		return d.PropertyValueFromString(*sec.Body, kind, nil, SourceBody, sec.BodyLine)
	}
	def, err := d.defaultValue(kind, sec.Line)
	if err != nil {
		return PropertyValue{}, err
	}
	if def != nil {
		return *def, nil
	}
	if kind.IsOptional() {
		return Literal(NoneValue(kind)), nil
	}
	return PropertyValue{}, diag.Errorf(diag.EvaluationError, d.Name, sec.Line, "a value of kind `%s` is required for `%s`", kind, sec.Name)
}

// variantValue builds an or-type value for `-- <type>.<variant> $x: ...`.
func (d *TDoc) variantValue(sec *section.Section, variant *OrTypeVariant) (PropertyValue, error) {
	if ref, ok := referenceCaption(sec); ok {
		return d.PropertyValueFromString(ref, OrTypeKind(variant.OrType), nil, SourceCaption, sec.Line)
	}
	fields, err := d.createFields(sec, variant.Fields, variant.Name)
	if err != nil {
		return PropertyValue{}, err
	}
	return Literal(OrTypeValue(variant.OrType, variant.Variant, fields)), nil
}

// referenceCaption reports a section whose only content is a `$reference`
// caption.
func referenceCaption(sec *section.Section) (string, bool) {
	if sec.Caption == nil || !strings.HasPrefix(*sec.Caption, "$") || sec.Body != nil {
		return "", false
	}
	for _, h := range sec.Headers {
		if !isReservedHeader(h.Key) {
			return "", false
		}
	}
	return *sec.Caption, true
}

// guessKind infers the kind of `-- $x: ...` from its content.
func (d *TDoc) guessKind(sec *section.Section) (Kind, error) {
	if sec.Caption != nil {
		if strings.HasPrefix(*sec.Caption, "$") {
			pv, err := d.PropertyValueFromString(*sec.Caption, Kind{}, nil, SourceCaption, sec.Line)
			if err != nil {
				return Kind{}, err
			}
			return pv.Kind, nil
		}
		return guessLiteral(*sec.Caption, SourceCaption).Kind, nil
	}
	if sec.Body != nil {
		return StringKind(), nil
	}
	return Kind{}, diag.Errorf(diag.ParseError, d.Name, sec.Line, "cannot infer the kind of `%s`, declare it as `<kind> %s`", sec.Name, sec.Name)
}

// withoutHeader returns a shallow copy of sec without headers named key.
func withoutHeader(sec *section.Section, key string) *section.Section {
	clone := *sec
	clone.Headers = nil
	for _, h := range sec.Headers {
		if h.Key != key {
			clone.Headers = append(clone.Headers, h)
		}
	}
	return &clone
}
