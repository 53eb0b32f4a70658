package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

// KindType tags the variant of a Kind.
type KindType int

const (
	KindString KindType = iota + 1
	KindInteger
	KindDecimal
	KindBoolean
	KindRecord
	KindOrType
	KindList
	KindOptional
	KindMap
	KindElement
	KindElements
	KindMessage
	KindStringMessage
	KindIntMessage
)

var kindTypeNames = map[KindType]string{
	KindString:        "string",
	KindInteger:       "integer",
	KindDecimal:       "decimal",
	KindBoolean:       "boolean",
	KindRecord:        "record",
	KindOrType:        "or-type",
	KindList:          "list",
	KindOptional:      "optional",
	KindMap:           "map",
	KindElement:       "element",
	KindElements:      "elements",
	KindMessage:       "message",
	KindStringMessage: "string-message",
	KindIntMessage:    "int-message",
}

func (t KindType) String() string {
	if name, ok := kindTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind type by name.
func (t KindType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Kind is a recursive static type descriptor. The zero Kind is "unknown" and
// is only used to ask a processor to infer the kind of its result.
type Kind struct {
	Type    KindType `json:"type"`
	Caption bool     `json:"caption,omitempty"`
	Body    bool     `json:"body,omitempty"`
	Default *string  `json:"default,omitempty"`
	Name    string   `json:"name,omitempty"`
	Inner   *Kind    `json:"inner,omitempty"`
}

func StringKind() Kind        { return Kind{Type: KindString} }
func CaptionKind() Kind       { return Kind{Type: KindString, Caption: true} }
func BodyKind() Kind          { return Kind{Type: KindString, Body: true} }
func CaptionOrBodyKind() Kind { return Kind{Type: KindString, Caption: true, Body: true} }
func IntegerKind() Kind       { return Kind{Type: KindInteger} }
func DecimalKind() Kind       { return Kind{Type: KindDecimal} }
func BooleanKind() Kind       { return Kind{Type: KindBoolean} }
func ElementKind() Kind       { return Kind{Type: KindElement} }
func RecordKind(name string) Kind {
	return Kind{Type: KindRecord, Name: name}
}
func OrTypeKind(name string) Kind {
	return Kind{Type: KindOrType, Name: name}
}
func ListKind(element Kind) Kind {
	return Kind{Type: KindList, Inner: &element}
}
func MapKind(value Kind) Kind {
	return Kind{Type: KindMap, Inner: &value}
}

// OptionalKind wraps inner, never nesting two optionals.
func OptionalKind(inner Kind) Kind {
	if inner.Type == KindOptional {
		return inner
	}
	return Kind{Type: KindOptional, Inner: &inner}
}

// IsKnown reports whether the kind was set.
func (k Kind) IsKnown() bool { return k.Type != 0 }

func (k Kind) IsOptional() bool { return k.Type == KindOptional }
func (k Kind) IsList() bool     { return k.Strip().Type == KindList }
func (k Kind) IsString() bool   { return k.Strip().Type == KindString }
func (k Kind) IsRecord() bool   { return k.Strip().Type == KindRecord }
func (k Kind) IsBoolean() bool  { return k.Strip().Type == KindBoolean }
func (k Kind) IsInteger() bool  { return k.Strip().Type == KindInteger }

// IsPrimitive reports whether the kind (optional stripped) is a string,
// integer, decimal or boolean.
func (k Kind) IsPrimitive() bool {
	switch k.Strip().Type {
	case KindString, KindInteger, KindDecimal, KindBoolean:
		return true
	}
	return false
}

// Strip removes an outer Optional.
func (k Kind) Strip() Kind {
	if k.Type == KindOptional && k.Inner != nil {
		return *k.Inner
	}
	return k
}

// Element returns the element kind of a list or the value kind of a map.
func (k Kind) Element() Kind {
	base := k.Strip()
	if (base.Type == KindList || base.Type == KindMap) && base.Inner != nil {
		return *base.Inner
	}
	return Kind{}
}

// AcceptsCaption reports whether a caption can fill a slot of this kind.
func (k Kind) AcceptsCaption() bool {
	base := k.Strip()
	return base.Caption && base.IsPrimitive()
}

// AcceptsBody reports whether a body can fill a slot of this kind.
func (k Kind) AcceptsBody() bool {
	base := k.Strip()
	return base.Body && base.IsPrimitive()
}

// GetDefault returns the default literal, looking through Optional.
func (k Kind) GetDefault() *string {
	if k.Type == KindOptional && k.Inner != nil {
		return k.Inner.GetDefault()
	}
	return k.Default
}

// SetDefault returns a copy of k carrying the default. Only the primitive
// kinds carry defaults; Optional forwards it to its inner kind.
func (k Kind) SetDefault(def string) (Kind, bool) {
	switch k.Type {
	case KindString, KindInteger, KindDecimal, KindBoolean:
		k.Default = &def
		return k, true
	case KindOptional:
		inner, ok := k.Inner.SetDefault(def)
		if !ok {
			return k, false
		}
		k.Inner = &inner
		return k, true
	}
	return k, false
}

// WithoutDefault returns a deep copy of k with every default removed.
func (k Kind) WithoutDefault() Kind {
	k.Default = nil
	if k.Inner != nil {
		inner := k.Inner.WithoutDefault()
		k.Inner = &inner
	}
	return k
}

// SameAs compares two kinds structurally, ignoring defaults. Every string
// form matches every other string form.
func (k Kind) SameAs(other Kind) bool {
	if k.Type != other.Type {
		return false
	}
	switch k.Type {
	case KindString:
		return true
	case KindRecord, KindOrType:
		return k.Name == other.Name
	case KindList, KindOptional, KindMap:
		if k.Inner == nil || other.Inner == nil {
			return k.Inner == other.Inner
		}
		return k.Inner.SameAs(*other.Inner)
	}
	return true
}

// AssignableTo reports whether a value of kind k may be used where target is
// expected.
func (k Kind) AssignableTo(target Kind) bool {
	if !target.IsKnown() {
		return true
	}
	if k.SameAs(target) {
		return true
	}
	if target.Type == KindOptional && target.Inner != nil {
		if k.Type == KindOptional {
			return k.Inner.AssignableTo(*target.Inner)
		}
		return k.AssignableTo(*target.Inner)
	}
	return false
}

// String renders the kind the way it is written in documents.
func (k Kind) String() string {
	switch k.Type {
	case KindString:
		switch {
		case k.Caption && k.Body:
			return "caption or body"
		case k.Caption:
			return "caption"
		case k.Body:
			return "body"
		}
		return "string"
	case KindInteger, KindDecimal, KindBoolean:
		if k.Caption {
			return "caption " + k.Type.String()
		}
		return k.Type.String()
	case KindRecord, KindOrType:
		return k.Name
	case KindList:
		return k.Inner.String() + " list"
	case KindOptional:
		return "optional " + k.Inner.String()
	case KindMap:
		return k.Inner.String() + " map"
	case 0:
		return "unknown"
	}
	return k.Type.String()
}

var primitiveKinds = map[string]Kind{
	"string":          StringKind(),
	"caption":         CaptionKind(),
	"body":            BodyKind(),
	"caption or body": CaptionOrBodyKind(),
	"body or caption": CaptionOrBodyKind(),
	"integer":         IntegerKind(),
	"caption integer": {Type: KindInteger, Caption: true},
	"caption decimal": {Type: KindDecimal, Caption: true},
	"caption boolean": {Type: KindBoolean, Caption: true},
	"decimal":         DecimalKind(),
	"boolean":         BooleanKind(),
	"element":         ElementKind(),
	"elements":        {Type: KindElements},
	"message":         {Type: KindMessage},
	"string-message":  {Type: KindStringMessage},
	"int-message":     {Type: KindIntMessage},
	"map":             MapKind(StringKind()),
}

// ParseKind reads a kind expression such as `optional integer`,
// `person list`, `list person` or `integer with default 10`. Names that are
// not primitives are resolved through the bag to a record or or-type.
func (d *TDoc) ParseKind(text string, line int) (Kind, error) {
	text = strings.TrimSpace(text)
	if kindText, def, ok := strings.Cut(text, " with default "); ok {
		kind, err := d.ParseKind(kindText, line)
		if err != nil {
			return Kind{}, err
		}
		withDefault, ok := kind.SetDefault(strings.TrimSpace(def))
		if !ok {
			return Kind{}, diag.Errorf(diag.TypeError, d.Name, line, "only primitive kinds can have a default, found `%s`", kindText)
		}
		return withDefault, nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Kind{}, diag.Errorf(diag.ParseError, d.Name, line, "kind is empty")
	}
	if kind, ok := primitiveKinds[strings.Join(fields, " ")]; ok {
		return kind, nil
	}

	if len(fields) > 1 {
		rest := strings.Join(fields[1:], " ")
		switch fields[0] {
		case "optional":
			inner, err := d.ParseKind(rest, line)
			if err != nil {
				return Kind{}, err
			}
			return OptionalKind(inner), nil
		case "list":
			inner, err := d.ParseKind(rest, line)
			if err != nil {
				return Kind{}, err
			}
			return ListKind(inner), nil
		case "map":
			inner, err := d.ParseKind(rest, line)
			if err != nil {
				return Kind{}, err
			}
			return MapKind(inner), nil
		}

		head := strings.Join(fields[:len(fields)-1], " ")
		switch fields[len(fields)-1] {
		case "list":
			inner, err := d.ParseKind(head, line)
			if err != nil {
				return Kind{}, err
			}
			return ListKind(inner), nil
		case "map":
			inner, err := d.ParseKind(head, line)
			if err != nil {
				return Kind{}, err
			}
			return MapKind(inner), nil
		}
		return Kind{}, diag.Errorf(diag.ParseError, d.Name, line, "cannot parse kind `%s`", text)
	}

	thing, err := d.GetThing(text, line)
	if err != nil {
		return Kind{}, err
	}
	switch t := thing.(type) {
	case *Record:
		return RecordKind(t.Name), nil
	case *OrType:
		return OrTypeKind(t.Name), nil
	case *OrTypeVariant:
		return OrTypeKind(t.OrType), nil
	}
	return Kind{}, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is a %s, expected a record or or-type", text, thing.ThingKind())
}

// checkAssignable returns a TypeError when from cannot be used as to.
func (d *TDoc) checkAssignable(from, to Kind, what string, line int) error {
	if from.AssignableTo(to) {
		return nil
	}
	return diag.Errorf(diag.TypeError, d.Name, line, "%s: expected `%s`, found `%s`", what, to, from)
}
