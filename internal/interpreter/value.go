package interpreter

import (
	"strconv"

	"github.com/cockroachdb/apd"
)

// ValueType tags the variant of a Value.
type ValueType int

const (
	ValueNone ValueType = iota + 1
	ValueString
	ValueInteger
	ValueDecimal
	ValueBoolean
	ValueRecord
	ValueOrType
	ValueList
	ValueMap
	ValueUI
)

var valueTypeNames = map[ValueType]string{
	ValueNone:    "none",
	ValueString:  "string",
	ValueInteger: "integer",
	ValueDecimal: "decimal",
	ValueBoolean: "boolean",
	ValueRecord:  "record",
	ValueOrType:  "or-type",
	ValueList:    "list",
	ValueMap:     "map",
	ValueUI:      "ui",
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TextSource records where a string came from. Body text is rendered as a
// Markdown block downstream, everything else as inline Markdown.
type TextSource int

const (
	SourceCaption TextSource = iota + 1
	SourceHeader
	SourceBody
	SourceDefault
)

var textSourceNames = map[TextSource]string{
	SourceCaption: "caption",
	SourceHeader:  "header",
	SourceBody:    "body",
	SourceDefault: "default",
}

func (s TextSource) String() string {
	if name, ok := textSourceNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s TextSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Field is a named PropertyValue of a record, or-type or map.
type Field struct {
	Name  string        `json:"name"`
	Value PropertyValue `json:"value"`
}

// Fields keeps record fields in declaration order.
type Fields []Field

// Get returns the field with the given name.
func (f Fields) Get(name string) (PropertyValue, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return PropertyValue{}, false
}

// Value is a runtime instance of a Kind.
type Value struct {
	Type    ValueType       `json:"type"`
	Kind    Kind            `json:"kind"`
	Text    string          `json:"text,omitempty"`
	Source  TextSource      `json:"source,omitempty"`
	Integer int64           `json:"integer,omitempty"`
	Decimal float64         `json:"decimal,omitempty"`
	Boolean bool            `json:"boolean,omitempty"`
	Name    string          `json:"name,omitempty"`
	Variant string          `json:"variant,omitempty"`
	Fields  Fields          `json:"fields,omitempty"`
	Items   []PropertyValue `json:"items,omitempty"`
}

// NoneValue is the absent value of an optional kind.
func NoneValue(kind Kind) Value {
	return Value{Type: ValueNone, Kind: OptionalKind(kind)}
}

func StringValue(text string, source TextSource) Value {
	return Value{Type: ValueString, Kind: StringKind(), Text: text, Source: source}
}

func IntegerValue(i int64) Value {
	return Value{Type: ValueInteger, Kind: IntegerKind(), Integer: i}
}

func DecimalValue(f float64) Value {
	return Value{Type: ValueDecimal, Kind: DecimalKind(), Decimal: f}
}

func BooleanValue(b bool) Value {
	return Value{Type: ValueBoolean, Kind: BooleanKind(), Boolean: b}
}

func RecordValue(name string, fields Fields) Value {
	return Value{Type: ValueRecord, Kind: RecordKind(name), Name: name, Fields: fields}
}

func OrTypeValue(name, variant string, fields Fields) Value {
	return Value{Type: ValueOrType, Kind: OrTypeKind(name), Name: name, Variant: variant, Fields: fields}
}

func ListValue(element Kind, items []PropertyValue) Value {
	return Value{Type: ValueList, Kind: ListKind(element.WithoutDefault()), Items: items}
}

func MapValue(value Kind, entries Fields) Value {
	return Value{Type: ValueMap, Kind: MapKind(value.WithoutDefault()), Fields: entries}
}

// UIValue refers to a component definition by its qualified name.
func UIValue(component string) Value {
	return Value{Type: ValueUI, Kind: ElementKind(), Name: component}
}

// IsNull reports whether the value is None.
func (v Value) IsNull() bool {
	return v.Type == ValueNone
}

// IsEmpty reports whether a list or map has no entries, a string no text, or
// the value is None.
func (v Value) IsEmpty() bool {
	switch v.Type {
	case ValueNone:
		return true
	case ValueList:
		return len(v.Items) == 0
	case ValueMap:
		return len(v.Fields) == 0
	case ValueString:
		return v.Text == ""
	}
	return false
}

// String renders primitive values as text. Decimals use their canonical
// form, so 1.50 and 1.5 render identically.
func (v Value) String() string {
	switch v.Type {
	case ValueString:
		return v.Text
	case ValueInteger:
		return strconv.FormatInt(v.Integer, 10)
	case ValueDecimal:
		return CanonicalDecimal(v.Decimal)
	case ValueBoolean:
		return strconv.FormatBool(v.Boolean)
	case ValueNone:
		return ""
	case ValueUI:
		return v.Name
	}
	return v.Type.String()
}

// Equal compares two values of the same kind. Strings, integers and booleans
// compare structurally; decimals compare by canonical text.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValueNone:
		return true
	case ValueString:
		return v.Text == other.Text
	case ValueInteger:
		return v.Integer == other.Integer
	case ValueDecimal:
		return CanonicalDecimal(v.Decimal) == CanonicalDecimal(other.Decimal)
	case ValueBoolean:
		return v.Boolean == other.Boolean
	case ValueUI:
		return v.Name == other.Name
	case ValueRecord, ValueOrType:
		if v.Name != other.Name || v.Variant != other.Variant {
			return false
		}
		return fieldsEqual(v.Fields, other.Fields)
	case ValueMap:
		return fieldsEqual(v.Fields, other.Fields)
	case ValueList:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func fieldsEqual(a, b Fields) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// CanonicalDecimal renders f in its shortest exact decimal form without
// trailing zeros or exponent.
func CanonicalDecimal(f float64) string {
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	d.Reduce(d)
	return d.Text('f')
}
