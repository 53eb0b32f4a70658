package interpreter

// Argument is a declared parameter of a component definition.
type Argument struct {
	Name    string         `json:"name"`
	Kind    Kind           `json:"kind"`
	Mutable bool           `json:"mutable"`
	Inherit bool           `json:"inherit,omitempty"`
	Default *PropertyValue `json:"default,omitempty"`
	Line    int            `json:"line"`
}

// PropertySource tells where an invocation property was written.
type PropertySource int

const (
	PropertyFromCaption PropertySource = iota + 1
	PropertyFromBody
	PropertyFromHeader
)

var propertySourceNames = map[PropertySource]string{
	PropertyFromCaption: "caption",
	PropertyFromBody:    "body",
	PropertyFromHeader:  "header",
}

func (s PropertySource) String() string {
	if name, ok := propertySourceNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s PropertySource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Property is one value passed to a component argument.
type Property struct {
	Name      string         `json:"name"`
	Value     PropertyValue  `json:"value"`
	Source    PropertySource `json:"source"`
	Mutable   bool           `json:"mutable,omitempty"`
	Condition *Boolean       `json:"condition,omitempty"`
	// Forwarded properties are not arguments of the invoked component and
	// apply to the root element of its definition.
	Forwarded bool `json:"forwarded,omitempty"`
	Line      int  `json:"line"`
}

// Properties keeps invocation properties in source order.
type Properties []Property

// Named returns the properties targeting the argument name.
func (p Properties) Named(name string) Properties {
	var found Properties
	for _, prop := range p {
		if prop.Name == name {
			found = append(found, prop)
		}
	}
	return found
}

// Select picks the first property whose condition holds, else the first
// unconditional one.
func (p Properties) Select(d *TDoc, scope Scope) (*Property, error) {
	var fallback *Property
	for i := range p {
		prop := &p[i]
		if prop.Condition == nil {
			if fallback == nil {
				fallback = prop
			}
			continue
		}
		ok, err := prop.Condition.Eval(d, scope)
		if err != nil {
			return nil, err
		}
		if ok {
			return prop, nil
		}
	}
	return fallback, nil
}

// Loop expands an invocation once per list element.
type Loop struct {
	On    PropertyValue `json:"on"`
	Alias string        `json:"alias"`
	Line  int           `json:"line"`
}

// ActionType is the action of an event.
type ActionType string

const (
	ActionToggle          ActionType = "toggle"
	ActionIncrement       ActionType = "increment"
	ActionDecrement       ActionType = "decrement"
	ActionSetValue        ActionType = "set-value"
	ActionStopPropagation ActionType = "stop-propagation"
)

// Action is what an event does to its target.
type Action struct {
	Type   ActionType     `json:"type"`
	Target *PropertyValue `json:"target,omitempty"`
	By     *PropertyValue `json:"by,omitempty"`
	Min    *PropertyValue `json:"min,omitempty"`
	Max    *PropertyValue `json:"max,omitempty"`
	Value  *PropertyValue `json:"value,omitempty"`
}

// Event binds an action to a DOM event name.
type Event struct {
	Name   string `json:"name"`
	Action Action `json:"action"`
	Line   int    `json:"line"`
}

// InstructionType tags the variant of an Instruction.
type InstructionType int

const (
	InstructionChild InstructionType = iota + 1
	InstructionRecursiveChild
	InstructionChangeContainer
)

var instructionTypeNames = map[InstructionType]string{
	InstructionChild:           "child-component",
	InstructionRecursiveChild:  "recursive-child-component",
	InstructionChangeContainer: "change-container",
}

func (t InstructionType) String() string {
	if name, ok := instructionTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t InstructionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Instruction is one step of a document or component body.
type Instruction struct {
	Type      InstructionType `json:"type"`
	Child     *ChildComponent `json:"child,omitempty"`
	Container string          `json:"container,omitempty"`
	Line      int             `json:"line"`
}

// ChildComponent is an invocation of a component definition.
type ChildComponent struct {
	Root       string         `json:"root"`
	Condition  *Boolean       `json:"condition,omitempty"`
	Properties Properties     `json:"properties,omitempty"`
	Events     []Event        `json:"events,omitempty"`
	Children   []Instruction  `json:"children,omitempty"`
	Loop       *Loop          `json:"loop,omitempty"`
	Line       int            `json:"line"`
}

// IsRecursive reports whether the invocation is loop-expanded.
func (c *ChildComponent) IsRecursive() bool {
	return c.Loop != nil
}

// ComponentType tells how a definition is instantiated.
type ComponentType int

const (
	// ComponentBuiltin is one of the `ftd#` primitives.
	ComponentBuiltin ComponentType = iota + 1
	// ComponentUser is built from a root component plus child instructions.
	ComponentUser
	// ComponentWeb is rendered by a custom element outside the tree.
	ComponentWeb
)

func (t ComponentType) MarshalText() ([]byte, error) {
	switch t {
	case ComponentBuiltin:
		return []byte("builtin"), nil
	case ComponentUser:
		return []byte("user"), nil
	case ComponentWeb:
		return []byte("web"), nil
	}
	return []byte("unknown"), nil
}

// ComponentDefinition is a reusable component.
type ComponentDefinition struct {
	Name         string        `json:"name"`
	Type         ComponentType `json:"type"`
	Arguments    []Argument    `json:"arguments"`
	Root         string        `json:"root,omitempty"`
	Properties   Properties    `json:"properties,omitempty"`
	Events       []Event       `json:"events,omitempty"`
	Instructions []Instruction `json:"instructions,omitempty"`
	Line         int           `json:"line"`
}

func (c *ComponentDefinition) ThingName() string { return c.Name }
func (c *ComponentDefinition) ThingKind() string { return "component" }

// Argument returns the argument declared under name.
func (c *ComponentDefinition) Argument(name string) (Argument, bool) {
	for _, arg := range c.Arguments {
		if arg.Name == name {
			return arg, true
		}
	}
	return Argument{}, false
}

// Children returns the invocations of the definition body in order.
func (c *ComponentDefinition) Children() []*ChildComponent {
	var children []*ChildComponent
	for _, instr := range c.Instructions {
		if instr.Child != nil {
			children = append(children, instr.Child)
		}
	}
	return children
}

// captionArgument returns the first argument that accepts a caption.
func (c *ComponentDefinition) captionArgument() (Argument, bool) {
	for _, arg := range c.Arguments {
		if arg.Kind.AcceptsCaption() {
			return arg, true
		}
	}
	return Argument{}, false
}

// bodyArgument returns the first argument that accepts a body.
func (c *ComponentDefinition) bodyArgument() (Argument, bool) {
	for _, arg := range c.Arguments {
		if arg.Kind.AcceptsBody() {
			return arg, true
		}
	}
	return Argument{}, false
}

// Bindings returns the names visible inside the definition body.
func (c *ComponentDefinition) Bindings() Bindings {
	b := make(Bindings, len(c.Arguments))
	for _, arg := range c.Arguments {
		b[arg.Name] = Binding{Kind: arg.Kind, Mutable: arg.Mutable}
	}
	return b
}
