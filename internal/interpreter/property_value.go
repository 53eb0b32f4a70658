package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

// PropertyValueType tags the variant of a PropertyValue.
type PropertyValueType int

const (
	// PropertyLiteral holds a Value.
	PropertyLiteral PropertyValueType = iota + 1
	// PropertyReference names a Variable in the bag (`doc#name.field`), or a
	// component local (`@name@data-id`).
	PropertyReference
	// PropertyVariable names a binding of the current argument or loop scope.
	PropertyVariable
)

var propertyValueTypeNames = map[PropertyValueType]string{
	PropertyLiteral:   "value",
	PropertyReference: "reference",
	PropertyVariable:  "variable",
}

func (t PropertyValueType) String() string {
	if name, ok := propertyValueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t PropertyValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// PropertyValue is a lazy expression yielding a Value.
type PropertyValue struct {
	Type  PropertyValueType `json:"type"`
	Value *Value            `json:"value,omitempty"`
	Name  string            `json:"name,omitempty"`
	Kind  Kind              `json:"kind"`
}

// Literal wraps a value.
func Literal(v Value) PropertyValue {
	return PropertyValue{Type: PropertyLiteral, Value: &v, Kind: v.Kind}
}

// Reference points at a bag variable or a component local.
func Reference(name string, kind Kind) PropertyValue {
	return PropertyValue{Type: PropertyReference, Name: name, Kind: kind}
}

// ScopeVariable points at an argument or loop alias binding.
func ScopeVariable(name string, kind Kind) PropertyValue {
	return PropertyValue{Type: PropertyVariable, Name: name, Kind: kind}
}

// IsLocal reports whether the property value references a component local.
func (p PropertyValue) IsLocal() bool {
	return p.Type == PropertyReference && strings.HasPrefix(p.Name, "@")
}

// Equal compares two property values without resolving them.
func (p PropertyValue) Equal(other PropertyValue) bool {
	if p.Type != other.Type {
		return false
	}
	if p.Type == PropertyLiteral {
		return p.Value.Equal(*other.Value)
	}
	return p.Name == other.Name
}

// Scope is the binding environment used to resolve Variables and component
// locals. The executor implements it; nil means an empty scope.
type Scope interface {
	Lookup(name string) (PropertyValue, bool)
}

// SplitPath separates the root of a dotted name from its field path. Local
// names (`@open@0,1`) keep their data-id intact, and qualified names only
// split after the `#`.
func SplitPath(name string) (string, []string) {
	search := name
	offset := 0
	if strings.HasPrefix(name, "@") {
		if idx := strings.Index(name[1:], "@"); idx >= 0 {
			offset = idx + 2
			search = name[offset:]
		}
	} else if idx := strings.Index(name, "#"); idx >= 0 {
		offset = idx + 1
		search = name[offset:]
	}
	idx := strings.Index(search, ".")
	if idx < 0 {
		return name, nil
	}
	return name[:offset+idx], strings.Split(search[idx+1:], ".")
}

// Resolve dereferences p against the bag and scope. The result's kind must
// be assignable to the declared kind of p.
func (p PropertyValue) Resolve(d *TDoc, scope Scope, line int) (Value, error) {
	var (
		value Value
		err   error
	)
	switch p.Type {
	case PropertyLiteral:
		if p.Value == nil {
			return Value{}, diag.Errorf(diag.EvaluationError, d.Name, line, "literal without a value")
		}
		return *p.Value, nil
	case PropertyReference:
		root, fields := SplitPath(p.Name)
		if strings.HasPrefix(root, "@") {
			value, err = d.resolveScoped(root, scope, line)
		} else {
			value, err = d.VariableValue(root, line)
		}
		if err != nil {
			return Value{}, err
		}
		value, err = d.followFields(value, fields, scope, p.Name, line)
	case PropertyVariable:
		root, fields := SplitPath(p.Name)
		value, err = d.resolveScoped(root, scope, line)
		if err != nil {
			return Value{}, err
		}
		value, err = d.followFields(value, fields, scope, p.Name, line)
	default:
		return Value{}, diag.Errorf(diag.EvaluationError, d.Name, line, "property value has no type")
	}
	if err != nil {
		return Value{}, err
	}

	if p.Kind.IsKnown() && !value.Kind.AssignableTo(p.Kind) {
		return Value{}, diag.Errorf(diag.TypeError, d.Name, line, "`%s` resolved to `%s`, expected `%s`", p.Name, value.Kind, p.Kind)
	}
	return value, nil
}

func (d *TDoc) resolveScoped(name string, scope Scope, line int) (Value, error) {
	if scope == nil {
		return Value{}, diag.Errorf(diag.NameError, d.Name, line, "`%s` is not bound in this scope", name)
	}
	bound, ok := scope.Lookup(name)
	if !ok {
		return Value{}, diag.Errorf(diag.NameError, d.Name, line, "`%s` is not bound in this scope", name)
	}
	return bound.Resolve(d, scope, line)
}

// followFields walks a record, or-type or map along fields.
func (d *TDoc) followFields(value Value, fields []string, scope Scope, name string, line int) (Value, error) {
	for _, field := range fields {
		switch value.Type {
		case ValueRecord, ValueOrType, ValueMap:
		case ValueNone:
			return Value{}, diag.Errorf(diag.EvaluationError, d.Name, line, "cannot read `%s` of null in `%s`", field, name)
		default:
			return Value{}, diag.Errorf(diag.TypeError, d.Name, line, "cannot read `%s` of %s in `%s`", field, value.Type, name)
		}
		next, ok := value.Fields.Get(field)
		if !ok {
			if value.Type == ValueMap {
				return NoneValue(value.Kind.Element()), nil
			}
			return Value{}, diag.Errorf(diag.NameError, d.Name, line, "`%s` has no field `%s`", value.Name, field)
		}
		resolved, err := next.Resolve(d, scope, line)
		if err != nil {
			return Value{}, err
		}
		value = resolved
	}
	return value, nil
}

// KindOfPath returns the kind reached by following fields from a value of
// kind root.
func (d *TDoc) KindOfPath(root Kind, fields []string, name string, line int) (Kind, error) {
	kind := root
	for _, field := range fields {
		base := kind.Strip()
		switch base.Type {
		case KindRecord:
			record, err := d.GetRecord(base.Name, line)
			if err != nil {
				return Kind{}, err
			}
			f, ok := record.Field(field)
			if !ok {
				return Kind{}, diag.Errorf(diag.NameError, d.Name, line, "record `%s` has no field `%s` (in `%s`)", base.Name, field, name)
			}
			kind = f.Kind
		case KindMap:
			kind = OptionalKind(*base.Inner)
		default:
			return Kind{}, diag.Errorf(diag.TypeError, d.Name, line, "cannot read field `%s` of `%s` (in `%s`)", field, kind, name)
		}
	}
	return kind.WithoutDefault(), nil
}
