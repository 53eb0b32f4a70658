package interpreter

import (
	"context"
	"errors"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/dag"
	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/section"
)

// ImportSection is the name of the import section.
const ImportSection = "import"

// Document is the result of interpreting a main document: the bag with every
// declaration of the document and its imports, and the top-level
// instructions of the main document.
type Document struct {
	Name         string            `json:"name"`
	Aliases      map[string]string `json:"aliases"`
	Bag          Bag               `json:"bag"`
	Instructions []Instruction     `json:"instructions"`

	imports *dag.Graph
}

// Imports returns the sorted ids of the documents id imports directly. id is
// the main document or one of the documents it pulled in.
func (d *Document) Imports(id string) ([]string, error) {
	return d.imports.Dependencies(id)
}

// ImportedBy returns the sorted ids of the documents of this run that
// import id directly.
func (d *Document) ImportedBy(id string) ([]string, error) {
	return d.imports.Dependents(id)
}

// TDoc returns the name resolution view of the main document.
func (d *Document) TDoc() *TDoc {
	return &TDoc{Name: d.Name, Aliases: d.Aliases, Bag: d.Bag}
}

type interpreter struct {
	lib     Library
	bag     Bag
	imports *dag.Graph
	parsed  map[string]bool
}

// Interpret parses and interprets the main document name with source text,
// loading imports through lib. Cancellation is checked between sections.
func Interpret(ctx context.Context, name, source string, lib Library) (*Document, error) {
	in := &interpreter{
		lib:     lib,
		bag:     NewBag(),
		imports: dag.New(),
		parsed:  map[string]bool{BuiltinDocument: true},
	}
	doc, instructions, err := in.document(ctx, name, source)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:         name,
		Aliases:      doc.Aliases,
		Bag:          in.bag,
		Instructions: instructions,
		imports:      in.imports,
	}, nil
}

func (in *interpreter) document(ctx context.Context, name, source string) (*TDoc, []Instruction, error) {
	logger := ctxlog.FromContext(ctx).With("document", name)
	in.parsed[name] = true
	in.imports.AddNode(name)

	sections, err := section.Parse(source, name)
	if err != nil {
		return nil, nil, err
	}

	d := NewTDoc(name, in.bag)
	var instructions []Instruction
	for _, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if sec.IsCommented {
			continue
		}
		instr, err := in.section(ctx, d, sec)
		if err != nil {
			return nil, nil, err
		}
		if instr != nil {
			instructions = append(instructions, *instr)
		}
	}

	logger.Debug("Document interpreted.", "sections", len(sections), "instructions", len(instructions))
	return d, instructions, nil
}

// section dispatches one top-level section.
func (in *interpreter) section(ctx context.Context, d *TDoc, sec *section.Section) (*Instruction, error) {
	switch sec.Name {
	case ImportSection:
		return nil, in.importDocument(ctx, d, sec)
	case ContainerSection:
		return &Instruction{Type: InstructionChangeContainer, Container: sec.CaptionText(), Line: sec.Line}, nil
	}

	parts := strings.Fields(sec.Name)
	if len(parts) == 2 {
		switch parts[0] {
		case "component":
			return nil, d.defineComponent(sec, parts[1])
		case "web-component":
			return nil, d.defineWebComponent(sec, parts[1])
		case "record":
			return nil, d.declareRecord(sec, parts[1])
		case "or-type":
			return nil, d.declareOrType(sec, parts[1])
		}
	}

	last := parts[len(parts)-1]
	switch {
	case len(parts) == 1 && strings.HasPrefix(last, "$"):
		return nil, in.variableSection(ctx, d, sec, last[1:])
	case len(parts) > 1:
		mutable := strings.HasPrefix(last, "$")
		return nil, in.declareVariable(ctx, d, sec, strings.Join(parts[:len(parts)-1], " "), strings.TrimPrefix(last, "$"), mutable)
	}

	instr, err := d.compileInvocation(sec, nil)
	if err != nil {
		return nil, err
	}
	return &instr, nil
}

// importDocument handles `-- import: <id> [as <alias>]`.
func (in *interpreter) importDocument(ctx context.Context, d *TDoc, sec *section.Section) error {
	id, alias, hasAlias := strings.Cut(sec.CaptionText(), " as ")
	id, alias = strings.TrimSpace(id), strings.TrimSpace(alias)
	if id == "" {
		return diag.Errorf(diag.ParseError, d.Name, sec.Line, "import needs a document id")
	}
	if !hasAlias {
		alias = id[strings.LastIndex(id, "/")+1:]
	}
	if existing, ok := d.Aliases[alias]; ok && existing != id {
		return diag.Errorf(diag.NameError, d.Name, sec.Line, "alias `%s` already refers to `%s`", alias, existing)
	}
	d.Aliases[alias] = id
	if id == BuiltinDocument {
		return nil
	}

	in.imports.AddNode(id)
	err := in.imports.AddEdge(id, d.Name)
	if err == nil {
		err = in.imports.DetectCycles()
	}
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return diag.Wrap(diag.ImportError, d.Name, sec.Line, err, "cannot import `%s`", id)
	}
	if err != nil {
		return err
	}
	if in.parsed[id] {
		return nil
	}

	ctxlog.FromContext(ctx).Debug("Importing document.", "document", d.Name, "import", id, "alias", alias)
	source, err := in.lib.Get(ctx, id)
	if err != nil {
		return diag.Wrap(diag.ImportError, d.Name, sec.Line, err, "cannot load `%s`", id)
	}
	_, _, err = in.document(ctx, id, source)
	return err
}

// declareVariable handles `-- <kind> [$]<name>: ...`.
func (in *interpreter) declareVariable(ctx context.Context, d *TDoc, sec *section.Section, kindText, name string, mutable bool) error {
	if _, ok := sec.Headers.Find(ConditionHeader); ok {
		return diag.Errorf(diag.ParseError, d.Name, sec.Line, "`if` needs an existing variable, `%s` is new", name)
	}

	var (
		kind  Kind
		value PropertyValue
		err   error
	)
	if thing, lookupErr := d.GetThing(kindText, sec.Line); lookupErr == nil {
		if variant, ok := thing.(*OrTypeVariant); ok {
			kind = OrTypeKind(variant.OrType)
			if _, isProcessed := sec.Headers.Find(ProcessorHeader); !isProcessed {
				value, err = d.variantValue(sec, variant)
				if err != nil {
					return err
				}
			}
		}
	}
	if !kind.IsKnown() {
		if kind, err = d.ParseKind(kindText, sec.Line); err != nil {
			return err
		}
	}

	if h, ok := sec.Headers.Find(ProcessorHeader); ok {
		value, err = in.process(ctx, d, sec, h, kind)
	} else if value.Type == 0 {
		value, err = d.valueFromSection(sec, kind)
	}
	if err != nil {
		return err
	}

	return d.declare(&Variable{
		Name:    d.Qualify(name),
		Kind:    kind,
		Value:   value,
		Mutable: mutable,
		Line:    sec.Line,
	}, sec.Line)
}

// variableSection handles `-- $<name>: ...`: a declaration with an inferred
// kind when name is new, an update otherwise.
func (in *interpreter) variableSection(ctx context.Context, d *TDoc, sec *section.Section, name string) error {
	variable, fields, err := d.GetVariable(name, sec.Line)
	if diag.Is(err, diag.NameError) {
		return in.declareInferred(ctx, d, sec, name)
	}
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return diag.Errorf(diag.TypeError, d.Name, sec.Line, "cannot update field `%s`, only whole variables", name)
	}

	if h, ok := sec.Headers.Find(ConditionHeader); ok {
		cond, err := d.ParseCondition(h.Value, nil, h.Line)
		if err != nil {
			return err
		}
		value, err := d.valueFromSection(withoutHeader(sec, ConditionHeader), variable.Kind)
		if err != nil {
			return err
		}
		variable.Conditions = append(variable.Conditions, ConditionalValue{Condition: cond, Value: value})
		return nil
	}

	if !variable.Mutable {
		return diag.Errorf(diag.TypeError, d.Name, sec.Line, "`%s` is not mutable, declare it as `$%s` to update it", variable.Name, name)
	}
	if h, ok := sec.Headers.Find(ProcessorHeader); ok {
		value, err := in.process(ctx, d, sec, h, variable.Kind)
		if err != nil {
			return err
		}
		variable.Value = value
		return nil
	}
	if variable.Kind.IsList() {
		return d.appendToList(variable, sec)
	}

	value, err := d.valueFromSection(sec, variable.Kind)
	if err != nil {
		return err
	}
	variable.Value = value
	return nil
}

func (in *interpreter) declareInferred(ctx context.Context, d *TDoc, sec *section.Section, name string) error {
	if _, ok := sec.Headers.Find(ConditionHeader); ok {
		return diag.Errorf(diag.ParseError, d.Name, sec.Line, "`if` needs an existing variable, `%s` is new", name)
	}
	variable := &Variable{Name: d.Qualify(name), Mutable: true, Line: sec.Line}
	if h, ok := sec.Headers.Find(ProcessorHeader); ok {
		value, err := in.process(ctx, d, sec, h, Kind{})
		if err != nil {
			return err
		}
		variable.Kind, variable.Value = value.Kind, value
		return d.declare(variable, sec.Line)
	}

	kind, err := d.guessKind(sec)
	if err != nil {
		return err
	}
	value, err := d.valueFromSection(sec, kind)
	if err != nil {
		return err
	}
	variable.Kind, variable.Value = kind, value
	return d.declare(variable, sec.Line)
}

// appendToList adds one element to a list variable. A `$reference` caption
// is appended as a Reference so later updates of the referenced variable
// are visible through the list.
func (d *TDoc) appendToList(variable *Variable, sec *section.Section) error {
	element := variable.Kind.Element()
	item, err := d.valueFromSection(sec, element)
	if err != nil {
		return err
	}
	list, err := variable.Value.Resolve(d, nil, sec.Line)
	if err != nil {
		return err
	}
	items := make([]PropertyValue, 0, len(list.Items)+1)
	items = append(items, list.Items...)
	items = append(items, item)
	variable.Value = Literal(ListValue(element, items))
	return nil
}

// process runs the section's processor and checks the result kind.
func (in *interpreter) process(ctx context.Context, d *TDoc, sec *section.Section, h section.Header, kind Kind) (PropertyValue, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running processor.", "document", d.Name, "processor", h.Value, "section", sec.Name, "line", sec.Line)

	value, err := in.lib.Process(ctx, sec, d, kind)
	if err != nil {
		return PropertyValue{}, diag.Wrap(diag.ProcessorError, d.Name, h.Line, err, "processor `%s` failed", h.Value)
	}
	if kind.IsKnown() && !value.Kind.AssignableTo(kind) {
		return PropertyValue{}, diag.Errorf(diag.ProcessorError, d.Name, h.Line, "processor `%s` returned `%s`, expected `%s`", h.Value, value.Kind, kind)
	}
	return Literal(value), nil
}
