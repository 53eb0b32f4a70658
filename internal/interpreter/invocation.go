package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/section"
)

const (
	// ProcessorHeader names the processor that computes a variable.
	ProcessorHeader = "$processor$"
	// LoopHeader turns an invocation into a loop: `$loop$: $list as $item`.
	LoopHeader = "$loop$"
	// ConditionHeader guards an invocation or a variable alternate.
	ConditionHeader = "if"
	// RootHeader names the root component of a definition.
	RootHeader = "root"
	// ContainerSection changes the insertion point.
	ContainerSection = "container"
	// MainContainer names the root of the element tree in `container:`.
	MainContainer = "ftd.main"
)

var eventNames = map[string]bool{
	"click":      true,
	"mouseenter": true,
	"mouseleave": true,
}

func isEventHeader(key string) bool {
	return strings.HasPrefix(key, "$event-") && strings.HasSuffix(key, "$") && len(key) > len("$event-$")
}

func isReservedHeader(key string) bool {
	return key == ProcessorHeader || key == LoopHeader || key == ConditionHeader || isEventHeader(key)
}

// compileInvocation turns an invocation section into an instruction.
func (d *TDoc) compileInvocation(sec *section.Section, bindings Bindings) (Instruction, error) {
	def, err := d.GetComponent(sec.Name, sec.Line)
	if err != nil {
		return Instruction{}, err
	}

	child := &ChildComponent{Root: def.Name, Line: sec.Line}
	scope := bindings
	if h, ok := sec.Headers.Find(LoopHeader); ok {
		loop, element, err := d.parseLoop(h.Value, bindings, h.Line)
		if err != nil {
			return Instruction{}, err
		}
		child.Loop = &loop
		scope = bindings.With(loop.Alias, Binding{Kind: element})
	}

	if h, ok := sec.Headers.Find(ConditionHeader); ok {
		cond, err := d.ParseCondition(h.Value, scope, h.Line)
		if err != nil {
			return Instruction{}, err
		}
		child.Condition = &cond
	}

	if child.Properties, err = d.compileProperties(def, sec, scope); err != nil {
		return Instruction{}, err
	}
	if child.Events, err = d.compileEvents(sec.Headers, scope); err != nil {
		return Instruction{}, err
	}

	for _, sub := range sec.Subsections {
		if sub.IsCommented {
			continue
		}
		if sub.Name == ContainerSection {
			return Instruction{}, diag.Errorf(diag.ParseError, d.Name, sub.Line, "`container` is only allowed at the top level or inside a component definition")
		}
		instr, err := d.compileInvocation(sub, scope)
		if err != nil {
			return Instruction{}, err
		}
		child.Children = append(child.Children, instr)
	}

	instr := Instruction{Type: InstructionChild, Child: child, Line: sec.Line}
	if child.IsRecursive() {
		instr.Type = InstructionRecursiveChild
	}
	return instr, nil
}

// compileProperties reads caption, body and plain headers of an invocation.
func (d *TDoc) compileProperties(def *ComponentDefinition, sec *section.Section, scope Bindings) (Properties, error) {
	var props Properties
	if sec.Caption != nil {
		arg, ok := def.captionArgument()
		if !ok {
			return nil, diag.Errorf(diag.ParseError, d.Name, sec.Line, "component `%s` does not take a caption", def.Name)
		}
		value, err := d.PropertyValueFromString(*sec.Caption, arg.Kind, scope, SourceCaption, sec.Line)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: arg.Name, Value: value, Source: PropertyFromCaption, Line: sec.Line})
	}
	if sec.Body != nil {
		arg, ok := def.bodyArgument()
		if !ok {
			return nil, diag.Errorf(diag.ParseError, d.Name, sec.BodyLine, "component `%s` does not take a body", def.Name)
		}
		value, err := d.PropertyValueFromString(*sec.Body, arg.Kind, scope, SourceBody, sec.BodyLine)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: arg.Name, Value: value, Source: PropertyFromBody, Line: sec.BodyLine})
	}

	for _, h := range sec.Headers {
		if isReservedHeader(h.Key) {
			continue
		}
		prop, err := d.compileHeaderProperty(def, h, scope)
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

// compileHeaderProperty handles `name: v`, `$name: v` and `name if cond: v`.
func (d *TDoc) compileHeaderProperty(def *ComponentDefinition, h section.Header, scope Bindings) (Property, error) {
	key := h.Key
	var cond *Boolean
	if name, condText, ok := strings.Cut(key, " if "); ok {
		parsed, err := d.ParseCondition(condText, scope, h.Line)
		if err != nil {
			return Property{}, err
		}
		cond = &parsed
		key = strings.TrimSpace(name)
	}
	if strings.Contains(key, " ") {
		return Property{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "unknown header `%s` for component `%s`", h.Key, def.Name)
	}

	mutable := strings.HasPrefix(key, "$")
	name := strings.TrimPrefix(key, "$")
	prop, err := d.compileProperty(def, name, mutable, h.Value, scope, h.Line)
	if err != nil {
		return Property{}, err
	}
	prop.Condition = cond
	return prop, nil
}

func (d *TDoc) compileProperty(def *ComponentDefinition, name string, mutable bool, value string, scope Bindings, line int) (Property, error) {
	if arg, ok := def.Argument(name); ok {
		if arg.Mutable != mutable {
			if arg.Mutable {
				return Property{}, diag.Errorf(diag.TypeError, d.Name, line, "argument `%s` of `%s` is mutable, pass it as `$%s`", name, def.Name, name)
			}
			return Property{}, diag.Errorf(diag.TypeError, d.Name, line, "argument `%s` of `%s` is not mutable, pass it as `%s`", name, def.Name, name)
		}
		pv, err := d.PropertyValueFromString(value, arg.Kind, scope, SourceHeader, line)
		if err != nil {
			return Property{}, err
		}
		return Property{Name: name, Value: pv, Source: PropertyFromHeader, Mutable: mutable, Line: line}, nil
	}

	if def.Type == ComponentUser && !mutable {
		arg, ok, err := d.rootArgument(def, name, line)
		if err != nil {
			return Property{}, err
		}
		if ok {
			pv, err := d.PropertyValueFromString(value, arg.Kind, scope, SourceHeader, line)
			if err != nil {
				return Property{}, err
			}
			return Property{Name: name, Value: pv, Source: PropertyFromHeader, Forwarded: true, Line: line}, nil
		}
	}
	return Property{}, diag.Errorf(diag.ParseError, d.Name, line, "unknown property `%s` for component `%s`", name, def.Name)
}

// rootArgument finds an immutable argument along the root chain of a user
// component.
func (d *TDoc) rootArgument(def *ComponentDefinition, name string, line int) (Argument, bool, error) {
	current := def
	for current.Type == ComponentUser {
		root, err := d.GetComponent(current.Root, line)
		if err != nil {
			return Argument{}, false, err
		}
		if arg, ok := root.Argument(name); ok && !arg.Mutable {
			return arg, true, nil
		}
		current = root
	}
	return Argument{}, false, nil
}

// parseLoop reads `$list as $alias`.
func (d *TDoc) parseLoop(value string, bindings Bindings, line int) (Loop, Kind, error) {
	listText, aliasText, ok := strings.Cut(value, " as ")
	listText, aliasText = strings.TrimSpace(listText), strings.TrimSpace(aliasText)
	if !ok || !strings.HasPrefix(listText, "$") || !strings.HasPrefix(aliasText, "$") || len(aliasText) < 2 {
		return Loop{}, Kind{}, diag.Errorf(diag.ParseError, d.Name, line, "loop must be `$<list> as $<alias>`, found `%s`", value)
	}
	on, err := d.PropertyValueFromString(listText, Kind{}, bindings, SourceHeader, line)
	if err != nil {
		return Loop{}, Kind{}, err
	}
	if !on.Kind.IsList() {
		return Loop{}, Kind{}, diag.Errorf(diag.TypeError, d.Name, line, "Expected list type data, `%s` is `%s`", listText, on.Kind)
	}
	return Loop{On: on, Alias: aliasText[1:], Line: line}, on.Kind.Element(), nil
}

// compileEvents reads every `$event-<name>$` header.
func (d *TDoc) compileEvents(headers section.Headers, scope Bindings) ([]Event, error) {
	var events []Event
	for _, h := range headers {
		if !isEventHeader(h.Key) {
			continue
		}
		event, err := d.parseEvent(h, scope)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// parseEvent reads `<action> <target> [by <v>] [clamp <min> <max>]`,
// `set-value <target> = <v>`, `<target> = <v>` or `stop-propagation`.
func (d *TDoc) parseEvent(h section.Header, scope Bindings) (Event, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(h.Key, "$event-"), "$")
	if !eventNames[name] {
		return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "unknown event `%s`", name)
	}
	event := Event{Name: name, Line: h.Line}

	text := strings.TrimSpace(h.Value)
	if rest, ok := strings.CutPrefix(text, string(ActionSetValue)+" "); ok {
		text = strings.TrimSpace(rest)
	}
	if targetText, valueText, ok := strings.Cut(text, "="); ok && strings.HasPrefix(text, "$") {
		target, err := d.eventTarget(strings.TrimSpace(targetText), scope, h.Line)
		if err != nil {
			return Event{}, err
		}
		value, err := d.PropertyValueFromString(strings.TrimSpace(valueText), target.Kind, scope, SourceHeader, h.Line)
		if err != nil {
			return Event{}, err
		}
		event.Action = Action{Type: ActionSetValue, Target: &target, Value: &value}
		return event, nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "event `%s` has no action", name)
	}
	action := ActionType(fields[0])
	switch action {
	case ActionStopPropagation:
		if len(fields) != 1 {
			return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "`stop-propagation` takes no arguments")
		}
		event.Action = Action{Type: action}
		return event, nil

	case ActionToggle:
		if len(fields) != 2 {
			return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "`toggle` takes exactly one target")
		}
		target, err := d.eventTarget(fields[1], scope, h.Line)
		if err != nil {
			return Event{}, err
		}
		if err := d.checkAssignable(target.Kind, BooleanKind(), "`toggle` target", h.Line); err != nil {
			return Event{}, err
		}
		event.Action = Action{Type: action, Target: &target}
		return event, nil

	case ActionIncrement, ActionDecrement:
		if len(fields) < 2 {
			return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "`%s` needs a target", action)
		}
		target, err := d.eventTarget(fields[1], scope, h.Line)
		if err != nil {
			return Event{}, err
		}
		if err := d.checkAssignable(target.Kind, IntegerKind(), "`"+string(action)+"` target", h.Line); err != nil {
			return Event{}, err
		}
		event.Action = Action{Type: action, Target: &target}
		return event, d.parseStep(&event.Action, fields[2:], scope, h.Line)
	}
	return Event{}, diag.Errorf(diag.ParseError, d.Name, h.Line, "unknown action `%s`", fields[0])
}

// parseStep reads the optional `by <v>` and `clamp <min> <max>` parts.
func (d *TDoc) parseStep(action *Action, fields []string, scope Bindings, line int) error {
	for len(fields) > 0 {
		switch {
		case fields[0] == "by" && len(fields) >= 2:
			by, err := d.PropertyValueFromString(fields[1], IntegerKind(), scope, SourceHeader, line)
			if err != nil {
				return err
			}
			action.By = &by
			fields = fields[2:]
		case fields[0] == "clamp" && len(fields) >= 3:
			minValue, err := d.PropertyValueFromString(fields[1], IntegerKind(), scope, SourceHeader, line)
			if err != nil {
				return err
			}
			maxValue, err := d.PropertyValueFromString(fields[2], IntegerKind(), scope, SourceHeader, line)
			if err != nil {
				return err
			}
			action.Min, action.Max = &minValue, &maxValue
			fields = fields[3:]
		default:
			return diag.Errorf(diag.ParseError, d.Name, line, "unexpected `%s` in %s action", strings.Join(fields, " "), action.Type)
		}
	}
	return nil
}

// eventTarget compiles the target of an action, which must be mutable.
func (d *TDoc) eventTarget(text string, scope Bindings, line int) (PropertyValue, error) {
	if !strings.HasPrefix(text, "$") {
		return PropertyValue{}, diag.Errorf(diag.ParseError, d.Name, line, "event target must be a `$` reference, found `%s`", text)
	}
	target, err := d.PropertyValueFromString(text, Kind{}, scope, SourceHeader, line)
	if err != nil {
		return PropertyValue{}, err
	}
	root, fields := SplitPath(text[1:])
	if len(fields) > 0 {
		return PropertyValue{}, diag.Errorf(diag.TypeError, d.Name, line, "cannot mutate field `%s`, only whole variables", text)
	}
	mutable := false
	if binding, ok := scope[root]; ok {
		mutable = binding.Mutable
	} else if variable, _, err := d.GetVariable(root, line); err == nil {
		mutable = variable.Mutable
	}
	if !mutable {
		return PropertyValue{}, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is not mutable", text)
	}
	return target, nil
}

// defineComponent handles `-- component <name>:`.
func (d *TDoc) defineComponent(sec *section.Section, name string) error {
	rootName := "ftd.column"
	if h, ok := sec.Headers.Find(RootHeader); ok {
		rootName = h.Value
	}
	root, err := d.GetComponent(rootName, sec.Line)
	if err != nil {
		return err
	}
	def := &ComponentDefinition{Name: d.Qualify(name), Type: ComponentUser, Root: root.Name, Line: sec.Line}
	if err := d.declare(def, sec.Line); err != nil {
		return err
	}

	if def.Arguments, err = d.parseArguments(sec.Headers, def.Name, true); err != nil {
		return err
	}
	bindings := def.Bindings()

	for _, h := range sec.Headers {
		switch {
		case h.Key == RootHeader, isEventHeader(h.Key), isArgumentHeader(h.Key):
		case h.Key == ProcessorHeader, h.Key == LoopHeader, h.Key == ConditionHeader:
			return diag.Errorf(diag.ParseError, d.Name, h.Line, "`%s` is not allowed on a component definition", h.Key)
		default:
			prop, err := d.compileHeaderProperty(root, h, bindings)
			if err != nil {
				return err
			}
			def.Properties = append(def.Properties, prop)
		}
	}
	if def.Events, err = d.compileEvents(sec.Headers, bindings); err != nil {
		return err
	}

	for _, sub := range sec.Subsections {
		if sub.IsCommented {
			continue
		}
		if sub.Name == ContainerSection {
			def.Instructions = append(def.Instructions, Instruction{
				Type:      InstructionChangeContainer,
				Container: sub.CaptionText(),
				Line:      sub.Line,
			})
			continue
		}
		instr, err := d.compileInvocation(sub, bindings)
		if err != nil {
			return err
		}
		def.Instructions = append(def.Instructions, instr)
	}
	return nil
}

// defineWebComponent handles `-- web-component <name>:`; every header
// declares an argument.
func (d *TDoc) defineWebComponent(sec *section.Section, name string) error {
	def := &ComponentDefinition{Name: d.Qualify(name), Type: ComponentWeb, Line: sec.Line}
	for _, h := range sec.Headers {
		if !isArgumentHeader(h.Key) {
			return diag.Errorf(diag.ParseError, d.Name, h.Line, "web-component headers must declare arguments, found `%s`", h.Key)
		}
	}
	args, err := d.parseArguments(sec.Headers, def.Name, false)
	if err != nil {
		return err
	}
	def.Arguments = args
	return d.declare(def, sec.Line)
}

// isArgumentHeader reports `<kind> [inherit] [$]<name>` keys.
func isArgumentHeader(key string) bool {
	return !strings.Contains(key, " if ") && len(strings.Fields(key)) >= 2
}

// parseArguments reads the argument declarations among headers.
func (d *TDoc) parseArguments(headers section.Headers, owner string, allowInherit bool) ([]Argument, error) {
	var args []Argument
	bindings := Bindings{}
	for _, h := range headers {
		if !isArgumentHeader(h.Key) {
			continue
		}
		fields := strings.Fields(h.Key)
		nameToken := fields[len(fields)-1]
		kindFields := fields[:len(fields)-1]

		arg := Argument{Name: strings.TrimPrefix(nameToken, "$"), Mutable: strings.HasPrefix(nameToken, "$"), Line: h.Line}
		if kindFields[0] == "inherit" {
			if !allowInherit {
				return nil, diag.Errorf(diag.ParseError, d.Name, h.Line, "`inherit` is not allowed in `%s`", owner)
			}
			arg.Inherit = true
			kindFields = kindFields[1:]
		}
		if len(kindFields) == 0 {
			return nil, diag.Errorf(diag.ParseError, d.Name, h.Line, "argument `%s` of `%s` has no kind", arg.Name, owner)
		}
		if _, dup := bindings[arg.Name]; dup {
			return nil, diag.Errorf(diag.NameError, d.Name, h.Line, "argument `%s` declared twice in `%s`", arg.Name, owner)
		}

		kind, err := d.ParseKind(strings.Join(kindFields, " "), h.Line)
		if err != nil {
			return nil, err
		}
		arg.Kind = kind
		if h.Value != "" {
			def, err := d.PropertyValueFromString(h.Value, kind, bindings, SourceDefault, h.Line)
			if err != nil {
				return nil, err
			}
			arg.Default = &def
		} else if arg.Default, err = d.defaultValue(kind, h.Line); err != nil {
			return nil, err
		}

		bindings[arg.Name] = Binding{Kind: arg.Kind, Mutable: arg.Mutable}
		args = append(args, arg)
	}
	return args, nil
}
