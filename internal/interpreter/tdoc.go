package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

// BuiltinDocument is the id of the built-in namespace, always aliased as `ftd`.
const BuiltinDocument = "ftd"

// Thing is a named entry of the bag.
type Thing interface {
	ThingName() string
	ThingKind() string
}

// Bag maps fully qualified names (`doc#name`) to things.
type Bag map[string]Thing

// TDoc is the view of a single document during interpretation.
type TDoc struct {
	Name    string
	Aliases map[string]string
	Bag     Bag

	// resolving holds the variables whose value is being computed.
	resolving map[string]bool
}

// NewTDoc returns a document view over bag with the `ftd` alias in place.
func NewTDoc(name string, bag Bag) *TDoc {
	return &TDoc{
		Name:    name,
		Aliases: map[string]string{BuiltinDocument: BuiltinDocument},
		Bag:     bag,
	}
}

// Qualify returns the fully qualified name of a declaration in this document.
func (d *TDoc) Qualify(name string) string {
	return d.Name + "#" + name
}

// lookupPath finds the longest prefix of parts declared in doc.
func (d *TDoc) lookupPath(doc string, parts []string) (string, []string, bool) {
	for i := len(parts); i >= 1; i-- {
		candidate := doc + "#" + strings.Join(parts[:i], ".")
		if _, ok := d.Bag[candidate]; ok {
			return candidate, parts[i:], true
		}
	}
	return "", nil, false
}

// ResolvePath resolves a possibly dotted name to the fully qualified name of
// a thing plus the remaining field path. Unqualified names are looked up in
// the current document, then through the alias map, then in the built-in
// namespace.
func (d *TDoc) ResolvePath(name string, line int) (string, []string, error) {
	if doc, rest, ok := strings.Cut(name, "#"); ok {
		if fq, fields, found := d.lookupPath(doc, strings.Split(rest, ".")); found {
			return fq, fields, nil
		}
		return "", nil, diag.Errorf(diag.NameError, d.Name, line, "unknown name `%s`", name)
	}

	parts := strings.Split(name, ".")
	if fq, fields, ok := d.lookupPath(d.Name, parts); ok {
		return fq, fields, nil
	}
	if len(parts) > 1 {
		if doc, ok := d.Aliases[parts[0]]; ok {
			if fq, fields, found := d.lookupPath(doc, parts[1:]); found {
				return fq, fields, nil
			}
		}
	}
	if fq, fields, ok := d.lookupPath(BuiltinDocument, parts); ok {
		return fq, fields, nil
	}
	return "", nil, diag.Errorf(diag.NameError, d.Name, line, "unknown name `%s`", name)
}

// GetThing resolves name to a thing with no trailing field path.
func (d *TDoc) GetThing(name string, line int) (Thing, error) {
	fq, fields, err := d.ResolvePath(name, line)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, diag.Errorf(diag.NameError, d.Name, line, "unknown name `%s`", name)
	}
	return d.Bag[fq], nil
}

// GetRecord returns the record declared under name.
func (d *TDoc) GetRecord(name string, line int) (*Record, error) {
	thing, err := d.GetThing(name, line)
	if err != nil {
		return nil, err
	}
	record, ok := thing.(*Record)
	if !ok {
		return nil, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is a %s, expected a record", name, thing.ThingKind())
	}
	return record, nil
}

// GetComponent returns the component definition declared under name.
func (d *TDoc) GetComponent(name string, line int) (*ComponentDefinition, error) {
	thing, err := d.GetThing(name, line)
	if err != nil {
		return nil, err
	}
	component, ok := thing.(*ComponentDefinition)
	if !ok {
		return nil, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is a %s, expected a component", name, thing.ThingKind())
	}
	return component, nil
}

// GetVariable resolves name to a variable and the remaining field path.
func (d *TDoc) GetVariable(name string, line int) (*Variable, []string, error) {
	fq, fields, err := d.ResolvePath(name, line)
	if err != nil {
		return nil, nil, err
	}
	variable, ok := d.Bag[fq].(*Variable)
	if !ok {
		return nil, nil, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is a %s, expected a variable", name, d.Bag[fq].ThingKind())
	}
	return variable, fields, nil
}

// VariableValue returns the current value of a bag variable.
func (d *TDoc) VariableValue(name string, line int) (Value, error) {
	variable, fields, err := d.GetVariable(name, line)
	if err != nil {
		return Value{}, err
	}
	value, err := variable.Resolve(d, line)
	if err != nil {
		return Value{}, err
	}
	return d.followFields(value, fields, nil, name, line)
}

// declare adds a thing, failing on duplicates.
func (d *TDoc) declare(thing Thing, line int) error {
	name := thing.ThingName()
	if existing, ok := d.Bag[name]; ok {
		return diag.Errorf(diag.NameError, d.Name, line, "`%s` is already declared as a %s", name, existing.ThingKind())
	}
	d.Bag[name] = thing
	return nil
}
