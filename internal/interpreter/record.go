package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// RecordField is one typed field of a record or or-type variant.
type RecordField struct {
	Name    string         `json:"name"`
	Kind    Kind           `json:"kind"`
	Default *PropertyValue `json:"default,omitempty"`
	Line    int            `json:"line"`
}

// Record is a declared product type.
type Record struct {
	Name   string        `json:"name"`
	Fields []RecordField `json:"fields"`
	Line   int           `json:"line"`
}

func (r *Record) ThingName() string { return r.Name }
func (r *Record) ThingKind() string { return "record" }

// Field returns the field declaration with the given name.
func (r *Record) Field(name string) (RecordField, bool) {
	return findField(r.Fields, name)
}

func findField(fields []RecordField, name string) (RecordField, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return RecordField{}, false
}

// OrType is a tagged union with one record-like variant per subsection.
type OrType struct {
	Name     string           `json:"name"`
	Variants []*OrTypeVariant `json:"variants"`
	Line     int              `json:"line"`
}

func (o *OrType) ThingName() string { return o.Name }
func (o *OrType) ThingKind() string { return "or-type" }

// OrTypeVariant is registered in the bag as `doc#type.variant`.
type OrTypeVariant struct {
	Name    string        `json:"name"`
	OrType  string        `json:"or_type"`
	Variant string        `json:"variant"`
	Fields  []RecordField `json:"fields"`
	Line    int           `json:"line"`
}

func (v *OrTypeVariant) ThingName() string { return v.Name }
func (v *OrTypeVariant) ThingKind() string { return "or-type variant" }

// parseFields reads `<kind> <name>: <default>` headers into field
// declarations.
func (d *TDoc) parseFields(headers section.Headers, owner string) ([]RecordField, error) {
	fields := make([]RecordField, 0, len(headers))
	for _, h := range headers {
		parts := strings.Fields(h.Key)
		if len(parts) < 2 {
			return nil, diag.Errorf(diag.ParseError, d.Name, h.Line, "field of `%s` must be `<kind> <name>`, found `%s`", owner, h.Key)
		}
		name := parts[len(parts)-1]
		if _, dup := findField(fields, name); dup {
			return nil, diag.Errorf(diag.NameError, d.Name, h.Line, "field `%s` declared twice in `%s`", name, owner)
		}
		kind, err := d.ParseKind(strings.Join(parts[:len(parts)-1], " "), h.Line)
		if err != nil {
			return nil, err
		}

		field := RecordField{Name: name, Kind: kind, Line: h.Line}
		if h.Value != "" {
			def, err := d.PropertyValueFromString(h.Value, kind, nil, SourceDefault, h.Line)
			if err != nil {
				return nil, err
			}
			field.Default = &def
		} else if def, err := d.defaultValue(kind, h.Line); err != nil {
			return nil, err
		} else {
			field.Default = def
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// declareRecord handles `-- record <name>:`.
func (d *TDoc) declareRecord(sec *section.Section, name string) error {
	record := &Record{Name: d.Qualify(name), Line: sec.Line}
	// Register first so fields may refer to the record itself through
	// optional or list kinds.
	if err := d.declare(record, sec.Line); err != nil {
		return err
	}
	fields, err := d.parseFields(sec.Headers, record.Name)
	if err != nil {
		return err
	}
	record.Fields = fields
	return nil
}

// declareOrType handles `-- or-type <name>:` with one subsection per variant.
func (d *TDoc) declareOrType(sec *section.Section, name string) error {
	orType := &OrType{Name: d.Qualify(name), Line: sec.Line}
	if err := d.declare(orType, sec.Line); err != nil {
		return err
	}
	for _, sub := range sec.Subsections {
		if sub.IsCommented {
			continue
		}
		fields, err := d.parseFields(sub.Headers, orType.Name+"."+sub.Name)
		if err != nil {
			return err
		}
		variant := &OrTypeVariant{
			Name:    orType.Name + "." + sub.Name,
			OrType:  orType.Name,
			Variant: sub.Name,
			Fields:  fields,
			Line:    sub.Line,
		}
		if err := d.declare(variant, sub.Line); err != nil {
			return err
		}
		orType.Variants = append(orType.Variants, variant)
	}
	if len(orType.Variants) == 0 {
		return diag.Errorf(diag.ParseError, d.Name, sec.Line, "or-type `%s` has no variants", name)
	}
	return nil
}

// createFields builds field values of a record or variant from a section.
func (d *TDoc) createFields(sec *section.Section, fields []RecordField, owner string) (Fields, error) {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name] = true
	}
	for _, h := range sec.Headers {
		if !known[h.Key] && h.Key != ProcessorHeader {
			return nil, diag.Errorf(diag.ParseError, d.Name, h.Line, "`%s` has no field `%s`", owner, h.Key)
		}
	}

	values := make(Fields, 0, len(fields))
	for _, f := range fields {
		value, err := d.ReadFromSection(sec, f.Name, f.Kind, f.Default)
		if err != nil {
			return nil, err
		}
		values = append(values, Field{Name: f.Name, Value: value})
	}
	return values, nil
}

// ReadFromSection picks the value of one named slot of a section. The order
// is: an explicit header, then the caption or body when the kind accepts it,
// then the default, then None for optional kinds. Anything else is an error.
func (d *TDoc) ReadFromSection(sec *section.Section, name string, kind Kind, def *PropertyValue) (PropertyValue, error) {
	if kind.IsList() {
		return d.readListField(sec, name, kind)
	}

	if h, ok := sec.Headers.Find(name); ok {
		return d.PropertyValueFromString(h.Value, kind, nil, SourceHeader, h.Line)
	}
	for _, sub := range sec.Subsections {
		if sub.Name == name && !sub.IsCommented {
			return d.valueFromSection(sub, kind)
		}
	}

	if !(kind.IsOptional() && !kind.IsPrimitive()) {
		if kind.AcceptsCaption() && sec.Caption != nil {
			return d.PropertyValueFromString(*sec.Caption, kind, nil, SourceCaption, sec.Line)
		}
		if kind.AcceptsBody() && sec.Body != nil {
			return d.PropertyValueFromString(*sec.Body, kind, nil, SourceBody, sec.BodyLine)
		}
	}

	if def != nil {
		return *def, nil
	}
	if kind.IsOptional() {
		return Literal(NoneValue(kind)), nil
	}
	return PropertyValue{}, diag.Errorf(diag.EvaluationError, d.Name, sec.Line, "`%s` is required", name)
}

// readListField collects list items from repeated headers and same-named
// subsections.
func (d *TDoc) readListField(sec *section.Section, name string, kind Kind) (PropertyValue, error) {
	element := kind.Element()
	var items []PropertyValue
	for _, h := range sec.Headers.FindAll(name) {
		item, err := d.PropertyValueFromString(h.Value, element, nil, SourceHeader, h.Line)
		if err != nil {
			return PropertyValue{}, err
		}
		items = append(items, item)
	}
	for _, sub := range sec.Subsections {
		if sub.Name != name || sub.IsCommented {
			continue
		}
		item, err := d.valueFromSection(sub, element)
		if err != nil {
			return PropertyValue{}, err
		}
		items = append(items, item)
	}
	return Literal(ListValue(element, items)), nil
}
