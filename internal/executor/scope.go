package executor

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// scope binds argument and loop alias names to rebased property values.
// Locals are shared by every scope of one execution.
type scope struct {
	caller   *scope
	bindings map[string]interpreter.PropertyValue
	locals   map[string]interpreter.Value
}

func newScope(caller *scope, locals map[string]interpreter.Value) *scope {
	return &scope{caller: caller, bindings: map[string]interpreter.PropertyValue{}, locals: locals}
}

// Lookup implements interpreter.Scope.
func (s *scope) Lookup(name string) (interpreter.PropertyValue, bool) {
	if s == nil {
		return interpreter.PropertyValue{}, false
	}
	if strings.HasPrefix(name, "@") {
		v, ok := s.locals[name]
		if !ok {
			return interpreter.PropertyValue{}, false
		}
		return interpreter.Literal(v), true
	}
	pv, ok := s.bindings[name]
	return pv, ok
}

// with returns a sibling scope with one more binding.
func (s *scope) with(name string, pv interpreter.PropertyValue) *scope {
	next := newScope(s.caller, s.locals)
	for k, v := range s.bindings {
		next.bindings[k] = v
	}
	next.bindings[name] = pv
	return next
}

// inherited finds name in s or the nearest scope it was called from.
func (s *scope) inherited(name string) (interpreter.PropertyValue, bool) {
	for c := s; c != nil; c = c.caller {
		if pv, ok := c.bindings[name]; ok {
			return pv, true
		}
	}
	return interpreter.PropertyValue{}, false
}

// rebase replaces a scope variable by what it is bound to, following field
// paths through literal records. The result names only bag variables,
// component locals or literals.
func (e *executor) rebase(pv interpreter.PropertyValue, s *scope, line int) (interpreter.PropertyValue, error) {
	if pv.Type != interpreter.PropertyVariable {
		return pv, nil
	}
	root, fields := interpreter.SplitPath(pv.Name)
	bound, ok := s.Lookup(root)
	if !ok {
		return interpreter.PropertyValue{}, diag.Errorf(diag.NameError, e.doc.Name, line, "`%s` is not bound in this scope", root)
	}
	out, err := e.follow(bound, fields, pv.Name, line)
	if err != nil {
		return interpreter.PropertyValue{}, err
	}
	if pv.Kind.IsKnown() {
		out.Kind = pv.Kind
	}
	return out, nil
}

func (e *executor) follow(pv interpreter.PropertyValue, fields []string, name string, line int) (interpreter.PropertyValue, error) {
	for i, field := range fields {
		if pv.Type != interpreter.PropertyLiteral {
			pv.Name += "." + strings.Join(fields[i:], ".")
			return pv, nil
		}
		v := *pv.Value
		switch v.Type {
		case interpreter.ValueRecord, interpreter.ValueOrType, interpreter.ValueMap:
		case interpreter.ValueNone:
			return interpreter.PropertyValue{}, diag.Errorf(diag.EvaluationError, e.doc.Name, line, "cannot read `%s` of null in `%s`", field, name)
		default:
			return interpreter.PropertyValue{}, diag.Errorf(diag.TypeError, e.doc.Name, line, "cannot read `%s` of %s in `%s`", field, v.Type, name)
		}
		next, ok := v.Fields.Get(field)
		if !ok {
			if v.Type != interpreter.ValueMap {
				return interpreter.PropertyValue{}, diag.Errorf(diag.NameError, e.doc.Name, line, "`%s` has no field `%s`", v.Name, field)
			}
			next = interpreter.Literal(interpreter.NoneValue(v.Kind.Element()))
		}
		pv = next
	}
	return pv, nil
}

func (e *executor) rebaseCondition(b interpreter.Boolean, s *scope) (interpreter.Boolean, error) {
	return b.Map(func(pv interpreter.PropertyValue) (interpreter.PropertyValue, error) {
		return e.rebase(pv, s, b.Line)
	})
}

func (e *executor) rebaseProperties(props interpreter.Properties, s *scope) (interpreter.Properties, error) {
	out := make(interpreter.Properties, 0, len(props))
	for _, prop := range props {
		value, err := e.rebase(prop.Value, s, prop.Line)
		if err != nil {
			return nil, err
		}
		prop.Value = value
		if prop.Condition != nil {
			cond, err := e.rebaseCondition(*prop.Condition, s)
			if err != nil {
				return nil, err
			}
			prop.Condition = &cond
		}
		out = append(out, prop)
	}
	return out, nil
}

func (e *executor) rebaseEvents(events []interpreter.Event, s *scope) ([]Event, error) {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		rebased := Event{Name: ev.Name, Action: ev.Action.Type}
		if ev.Action.Target != nil {
			target, err := e.rebase(*ev.Action.Target, s, ev.Line)
			if err != nil {
				return nil, err
			}
			if target.Type != interpreter.PropertyReference || !e.isMutable(target) {
				return nil, diag.Errorf(diag.TypeError, e.doc.Name, ev.Line, "`%s` target `%s` is not mutable", ev.Action.Type, ev.Action.Target.Name)
			}
			rebased.Target = target.Name
		}
		for _, p := range []struct {
			in  *interpreter.PropertyValue
			out **interpreter.PropertyValue
		}{
			{ev.Action.Value, &rebased.Value},
			{ev.Action.By, &rebased.By},
			{ev.Action.Min, &rebased.Min},
			{ev.Action.Max, &rebased.Max},
		} {
			if p.in == nil {
				continue
			}
			pv, err := e.rebase(*p.in, s, ev.Line)
			if err != nil {
				return nil, err
			}
			*p.out = &pv
		}
		out = append(out, rebased)
	}
	return out, nil
}

// isMutable reports whether pv names a component local or a mutable bag
// variable.
func (e *executor) isMutable(pv interpreter.PropertyValue) bool {
	if pv.Type != interpreter.PropertyReference {
		return false
	}
	if pv.IsLocal() {
		return true
	}
	root, _ := interpreter.SplitPath(pv.Name)
	variable, _, err := e.doc.GetVariable(root, 0)
	return err == nil && variable.Mutable
}

// isDynamic reports whether a condition reads mutable state, in which case
// a renderer may flip it later.
func (e *executor) isDynamic(b interpreter.Boolean) bool {
	for _, operand := range b.Operands() {
		if e.isMutable(operand) {
			return true
		}
	}
	return false
}
