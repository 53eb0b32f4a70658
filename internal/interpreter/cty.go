package interpreter

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromJSON decodes a JSON document into a value of kind. A zero kind is
// inferred from the data.
func (d *TDoc) FromJSON(data []byte, kind Kind) (Value, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return d.FromCty(v, kind)
}

// FromGo converts a Go value (structs with `cty` tags, maps, slices and
// primitives) into a value of kind.
func (d *TDoc) FromGo(v any, kind Kind) (Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return Value{}, err
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return Value{}, err
	}
	return d.FromCty(val, kind)
}

// FromCty converts a cty value into a value of kind. Objects fill records by
// attribute name; missing fields take their default, or None when optional.
func (d *TDoc) FromCty(v cty.Value, kind Kind) (Value, error) {
	return d.fromCty(v, kind, "$")
}

func (d *TDoc) fromCty(v cty.Value, kind Kind, path string) (Value, error) {
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("%s: value is unknown", path)
	}
	if !kind.IsKnown() {
		implied, err := impliedKind(v, path)
		if err != nil {
			return Value{}, err
		}
		kind = implied
	}
	if v.IsNull() {
		if kind.IsOptional() {
			return NoneValue(kind), nil
		}
		return Value{}, fmt.Errorf("%s: null where `%s` is required", path, kind)
	}

	base := kind.Strip()
	switch base.Type {
	case KindString:
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return StringValue(s.AsString(), SourceHeader), nil

	case KindInteger:
		n, err := convert.Convert(v, cty.Number)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		var i int64
		if err := gocty.FromCtyValue(n, &i); err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return IntegerValue(i), nil

	case KindDecimal:
		n, err := convert.Convert(v, cty.Number)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		var f float64
		if err := gocty.FromCtyValue(n, &f); err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return DecimalValue(f), nil

	case KindBoolean:
		b, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return BooleanValue(b.True()), nil

	case KindList:
		ty := v.Type()
		if !(ty.IsListType() || ty.IsTupleType() || ty.IsSetType()) {
			return Value{}, fmt.Errorf("%s: expected a list, found %s", path, ty.FriendlyName())
		}
		element := base.Element()
		items := make([]PropertyValue, 0, v.LengthInt())
		for i, it := 0, v.ElementIterator(); it.Next(); i++ {
			_, ev := it.Element()
			item, err := d.fromCty(ev, element, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items = append(items, Literal(item))
		}
		return ListValue(element, items), nil

	case KindMap:
		attrs, err := attributes(v, path)
		if err != nil {
			return Value{}, err
		}
		element := base.Element()
		entries := make(Fields, 0, len(attrs))
		for _, name := range sortedKeys(attrs) {
			entry, err := d.fromCty(attrs[name], element, path+"."+name)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Field{Name: name, Value: Literal(entry)})
		}
		return MapValue(element, entries), nil

	case KindRecord:
		record, err := d.GetRecord(base.Name, 0)
		if err != nil {
			return Value{}, err
		}
		attrs, err := attributes(v, path)
		if err != nil {
			return Value{}, err
		}
		fields := make(Fields, 0, len(record.Fields))
		for _, f := range record.Fields {
			av, ok := attrs[f.Name]
			switch {
			case ok:
				value, err := d.fromCty(av, f.Kind, path+"."+f.Name)
				if err != nil {
					return Value{}, err
				}
				fields = append(fields, Field{Name: f.Name, Value: Literal(value)})
			case f.Default != nil:
				fields = append(fields, Field{Name: f.Name, Value: *f.Default})
			case f.Kind.IsOptional():
				fields = append(fields, Field{Name: f.Name, Value: Literal(NoneValue(f.Kind))})
			default:
				return Value{}, fmt.Errorf("%s: missing field `%s` of `%s`", path, f.Name, record.Name)
			}
		}
		return RecordValue(record.Name, fields), nil
	}
	return Value{}, fmt.Errorf("%s: cannot build a value of kind `%s` from data", path, kind)
}

// attributes returns the entries of an object or map value.
func attributes(v cty.Value, path string) (map[string]cty.Value, error) {
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s: expected an object, found %s", path, ty.FriendlyName())
	}
	attrs := v.AsValueMap()
	if attrs == nil {
		attrs = map[string]cty.Value{}
	}
	return attrs, nil
}

func sortedKeys(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// impliedKind picks a kind for data with no declared kind. Numbers are
// integers when integral. Objects become maps of a single implied kind.
func impliedKind(v cty.Value, path string) (Kind, error) {
	ty := v.Type()
	switch {
	case v.IsNull():
		return OptionalKind(StringKind()), nil
	case ty == cty.String:
		return StringKind(), nil
	case ty == cty.Bool:
		return BooleanKind(), nil
	case ty == cty.Number:
		if v.AsBigFloat().IsInt() {
			return IntegerKind(), nil
		}
		return DecimalKind(), nil
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		element, err := commonKind(v, path)
		if err != nil {
			return Kind{}, err
		}
		return ListKind(element), nil
	case ty.IsObjectType(), ty.IsMapType():
		element, err := commonKind(v, path)
		if err != nil {
			return Kind{}, err
		}
		return MapKind(element), nil
	}
	return Kind{}, fmt.Errorf("%s: cannot infer a kind for %s", path, ty.FriendlyName())
}

// commonKind infers one kind for every element of a collection. Mixed
// integers and decimals widen to decimal; an empty collection holds strings.
func commonKind(v cty.Value, path string) (Kind, error) {
	var common Kind
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		kind, err := impliedKind(ev, path)
		if err != nil {
			return Kind{}, err
		}
		switch {
		case !common.IsKnown():
			common = kind
		case common.SameAs(kind):
		case isNumber(common) && isNumber(kind):
			common = DecimalKind()
		default:
			return Kind{}, fmt.Errorf("%s: elements of mixed kinds `%s` and `%s`", path, common, kind)
		}
	}
	if !common.IsKnown() {
		return StringKind(), nil
	}
	return common, nil
}

func isNumber(k Kind) bool {
	return k.Type == KindInteger || k.Type == KindDecimal
}
