package executor

import (
	"context"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/elementid"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// Result is the element tree of one document.
type Result struct {
	// Main is the root column, data-id `main`.
	Main *Column `json:"main"`
	// Locals holds the initial values of component locals by name,
	// `@<argument>@<instance data-id>`.
	Locals map[string]interpreter.Value `json:"locals"`
	// Dummies holds, per container data-id, the loops over mutable lists
	// that emitted into it.
	Dummies map[string][]*IterativeElement `json:"dummies,omitempty"`
}

// maxNesting bounds how deep invocations may nest inside each other.
const maxNesting = 256

type executor struct {
	ctx     context.Context
	doc     *interpreter.TDoc
	global  *scope
	locals  map[string]interpreter.Value
	dummies map[string][]*IterativeElement
	// expanding is the chain of invocations being built, outermost first.
	expanding []expansion
}

// expansion is one invocation on the build chain. guarded is set when the
// invocation has a condition or a loop.
type expansion struct {
	def     *interpreter.ComponentDefinition
	guarded bool
}

// Execute lowers the instructions of doc into an element tree. The bag of
// doc is only read.
func Execute(ctx context.Context, doc *interpreter.Document) (*Result, error) {
	e := &executor{
		ctx:     ctx,
		doc:     doc.TDoc(),
		locals:  map[string]interpreter.Value{},
		dummies: map[string][]*IterativeElement{},
	}
	e.global = newScope(nil, e.locals)

	main := &Column{Common: Common{DataID: elementid.Root}}
	if err := e.run(main, doc.Instructions, e.global, true); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Document executed.", "document", doc.Name, "children", len(main.Children), "locals", len(e.locals))
	return &Result{Main: main, Locals: e.locals, Dummies: e.dummies}, nil
}

// run appends the elements of instrs to root, following `container:`
// redirects. At the top level redirects must land on open containers.
func (e *executor) run(root Element, instrs []interpreter.Instruction, s *scope, topLevel bool) error {
	current := root
	for _, instr := range instrs {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		switch instr.Type {
		case interpreter.InstructionChangeContainer:
			target, err := e.changeContainer(root, instr, topLevel)
			if err != nil {
				return err
			}
			current = target
		case interpreter.InstructionChild:
			if err := e.appendChild(current, instr.Child, s); err != nil {
				return err
			}
		case interpreter.InstructionRecursiveChild:
			if err := e.appendLoop(current, instr.Child, s); err != nil {
				return err
			}
		default:
			return diag.Errorf(diag.EvaluationError, e.doc.Name, instr.Line, "unknown instruction %s", instr.Type)
		}
	}
	return nil
}

func (e *executor) appendChild(parent Element, child *interpreter.ChildComponent, s *scope) error {
	c, ok := ContainerOf(parent)
	if !ok {
		return diag.Errorf(diag.ContainerError, e.doc.Name, child.Line, "`%s` cannot hold children", parent.Type())
	}
	anchor, path := childAt(parent, len(c.Children))
	el, err := e.instantiate(child, s, anchor, path)
	if err != nil {
		return err
	}
	c.Children = append(c.Children, el)
	return nil
}

// appendLoop emits one element per list item, in list order.
func (e *executor) appendLoop(parent Element, child *interpreter.ChildComponent, s *scope) error {
	loop := child.Loop
	on, err := e.rebase(loop.On, s, loop.Line)
	if err != nil {
		return err
	}
	list, err := on.Resolve(e.doc, s, loop.Line)
	if err != nil {
		return err
	}
	if list.IsNull() {
		list = interpreter.ListValue(on.Kind.Element(), nil)
	}
	if list.Type != interpreter.ValueList {
		return diag.Errorf(diag.TypeError, e.doc.Name, loop.Line, "Expected list type data, `%s` is %s", loop.On.Name, list.Type)
	}

	c, ok := ContainerOf(parent)
	if !ok {
		return diag.Errorf(diag.ContainerError, e.doc.Name, child.Line, "`%s` cannot hold children", parent.Type())
	}
	if e.isMutable(on) {
		if err := e.recordDummy(parent, child, on, len(c.Children), s); err != nil {
			return err
		}
	}
	for _, item := range list.Items {
		if err := e.appendChild(parent, child, s.with(loop.Alias, item)); err != nil {
			return err
		}
	}
	return nil
}

// recordDummy keeps an unexpanded copy of a loop body for a renderer that
// adds items to the list later.
func (e *executor) recordDummy(parent Element, child *interpreter.ChildComponent, on interpreter.PropertyValue, start int, s *scope) error {
	alias := interpreter.ScopeVariable(child.Loop.Alias, on.Kind.Element())
	template, err := e.raw(child, s.with(child.Loop.Alias, alias))
	if err != nil {
		return err
	}
	parentID := parent.GetCommon().DataID
	template.DataID = elementid.DataID(parentID, elementid.Path{}, "dummy")
	dummy := &IterativeElement{
		Common:   Common{DataID: template.DataID},
		List:     on.Name,
		Alias:    child.Loop.Alias,
		Start:    start,
		Template: template,
	}
	e.dummies[parentID] = append(e.dummies[parentID], dummy)
	return nil
}

func (e *executor) raw(child *interpreter.ChildComponent, s *scope) (*RawElement, error) {
	props, err := e.rebaseProperties(child.Properties, s)
	if err != nil {
		return nil, err
	}
	events, err := e.rebaseEvents(child.Events, s)
	if err != nil {
		return nil, err
	}
	raw := &RawElement{Root: child.Root, Properties: props, Events: events, Children: child.Children}
	if child.Condition != nil {
		cond, err := e.rebaseCondition(*child.Condition, s)
		if err != nil {
			return nil, err
		}
		raw.Condition = &cond
	}
	return raw, nil
}

// instantiate builds the element of one invocation. A false condition on
// mutable state gives an invisible element; any other false condition gives
// Null so that sibling indices stay stable.
func (e *executor) instantiate(child *interpreter.ChildComponent, s *scope, anchor string, path elementid.Path) (Element, error) {
	def, err := e.doc.GetComponent(child.Root, child.Line)
	if err != nil {
		return nil, err
	}

	visible := true
	var dynamic *interpreter.Boolean
	if child.Condition != nil {
		cond, err := e.rebaseCondition(*child.Condition, s)
		if err != nil {
			return nil, err
		}
		ok, err := cond.Eval(e.doc, e.global)
		if err != nil {
			return nil, err
		}
		if e.isDynamic(cond) {
			dynamic = &cond
		} else if !ok {
			return e.null(anchor, path), nil
		}
		visible = ok
	}

	props, err := e.rebaseProperties(child.Properties, s)
	if err != nil {
		return nil, err
	}
	events, err := e.rebaseEvents(child.Events, s)
	if err != nil {
		return nil, err
	}

	if err := e.enter(def, child.Condition != nil || child.IsRecursive(), child.Line); err != nil {
		return nil, err
	}
	defer e.leave()

	el, err := e.build(def, invocation{
		props:       props,
		events:      events,
		children:    child.Children,
		scope:       s,
		anchor:      anchor,
		path:        path,
		conditioned: child.Condition != nil,
		line:        child.Line,
	})
	if err != nil {
		return nil, err
	}
	c := el.GetCommon()
	c.IsNotVisible = !visible
	if dynamic != nil {
		c.Condition = dynamic
	}
	return el, nil
}

// enter pushes def on the build chain. A user component that reaches itself
// again with no condition or loop on the way can never finish, and neither
// can a chain longer than maxNesting.
func (e *executor) enter(def *interpreter.ComponentDefinition, guarded bool, line int) error {
	if len(e.expanding) >= maxNesting {
		return diag.Errorf(diag.EvaluationError, e.doc.Name, line, "`%s` is nested more than %d levels deep", def.Name, maxNesting)
	}
	if def.Type != interpreter.ComponentBuiltin {
		reached := guarded
		for i := len(e.expanding) - 1; i >= 0; i-- {
			outer := e.expanding[i]
			if outer.def == def {
				if !reached {
					return diag.Errorf(diag.TypeError, e.doc.Name, line, "component `%s` includes itself unconditionally", def.Name)
				}
				break
			}
			reached = reached || outer.guarded
		}
	}
	e.expanding = append(e.expanding, expansion{def: def, guarded: guarded})
	return nil
}

func (e *executor) leave() {
	e.expanding = e.expanding[:len(e.expanding)-1]
}

func (e *executor) null(anchor string, path elementid.Path) *Null {
	return &Null{Common: Common{DataID: elementid.DataID(anchor, path, ""), anchor: anchor, path: path}}
}

// invocation is a component call with rebased properties and events.
// Children are still compiled against scope.
type invocation struct {
	props       interpreter.Properties
	events      []Event
	children    []interpreter.Instruction
	scope       *scope
	anchor      string
	path        elementid.Path
	conditioned bool
	line        int
}

func (e *executor) build(def *interpreter.ComponentDefinition, inv invocation) (Element, error) {
	switch def.Type {
	case interpreter.ComponentBuiltin:
		return e.buildBuiltin(def, inv)
	case interpreter.ComponentWeb:
		return e.buildWeb(def, inv)
	}
	return e.buildUser(def, inv)
}

// buildUser binds the arguments of def in a new scope, builds its root with
// the definition body as children, then places the invocation's children.
func (e *executor) buildUser(def *interpreter.ComponentDefinition, inv invocation) (Element, error) {
	instanceID, err := e.instanceID(inv)
	if err != nil {
		return nil, err
	}
	inner := newScope(inv.scope, e.locals)
	for _, arg := range def.Arguments {
		pv, err := e.argumentValue(arg, inv, inner)
		if err != nil {
			return nil, err
		}
		if arg.Mutable && !e.isMutable(pv) {
			value, err := pv.Resolve(e.doc, inner, arg.Line)
			if err != nil {
				return nil, err
			}
			name := "@" + arg.Name + "@" + instanceID
			e.locals[name] = value
			pv = interpreter.Reference(name, arg.Kind.WithoutDefault())
		}
		inner.bindings[arg.Name] = pv
	}

	root, err := e.doc.GetComponent(def.Root, def.Line)
	if err != nil {
		return nil, err
	}
	own, err := e.rebaseProperties(def.Properties, inner)
	if err != nil {
		return nil, err
	}
	var rootProps interpreter.Properties
	for _, prop := range append(forwarded(inv.props), own...) {
		_, isArg := root.Argument(prop.Name)
		prop.Forwarded = !isArg
		rootProps = append(rootProps, prop)
	}
	rootEvents, err := e.rebaseEvents(def.Events, inner)
	if err != nil {
		return nil, err
	}

	el, err := e.build(root, invocation{
		props:       rootProps,
		events:      append(rootEvents, inv.events...),
		children:    def.Instructions,
		scope:       inner,
		anchor:      inv.anchor,
		path:        inv.path,
		conditioned: inv.conditioned,
		line:        inv.line,
	})
	if err != nil {
		return nil, err
	}
	if len(inv.children) > 0 {
		if err := e.placeExternal(def, el, inv.children, inv.scope, inv.line); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// argumentValue picks the value of arg: inherited from a calling scope,
// then the invocation, then the default, then None when optional.
func (e *executor) argumentValue(arg interpreter.Argument, inv invocation, inner *scope) (interpreter.PropertyValue, error) {
	if arg.Inherit {
		if pv, ok := inv.scope.inherited(arg.Name); ok {
			return pv, nil
		}
	}
	prop, err := e.selectProperty(inv.props, arg.Name, false)
	if err != nil {
		return interpreter.PropertyValue{}, err
	}
	if prop != nil {
		return prop.Value, nil
	}
	if arg.Default != nil {
		return e.rebase(*arg.Default, inner, arg.Line)
	}
	if arg.Kind.IsOptional() {
		return interpreter.Literal(interpreter.NoneValue(arg.Kind)), nil
	}
	return interpreter.PropertyValue{}, diag.Errorf(diag.ParseError, e.doc.Name, inv.line, "argument `%s` is required", arg.Name)
}

// instanceID is the data-id an instance gets, honouring an `id` passed by
// the invocation.
func (e *executor) instanceID(inv invocation) (string, error) {
	prop, err := e.selectProperty(inv.props, "id", true)
	if err != nil || prop == nil {
		return elementid.DataID(inv.anchor, inv.path, ""), err
	}
	v, err := prop.Value.Resolve(e.doc, e.global, prop.Line)
	if err != nil {
		return "", err
	}
	return elementid.DataID(inv.anchor, inv.path, v.String()), nil
}

// selectProperty picks among the properties named name the first whose
// condition holds, else the first unconditional one.
func (e *executor) selectProperty(props interpreter.Properties, name string, withForwarded bool) (*interpreter.Property, error) {
	var named interpreter.Properties
	for _, prop := range props {
		if prop.Name == name && (withForwarded || !prop.Forwarded) {
			named = append(named, prop)
		}
	}
	return named.Select(e.doc, e.global)
}

// forwarded returns the properties aimed at the root of a definition.
func forwarded(props interpreter.Properties) interpreter.Properties {
	var out interpreter.Properties
	for _, prop := range props {
		if prop.Forwarded {
			out = append(out, prop)
		}
	}
	return out
}
