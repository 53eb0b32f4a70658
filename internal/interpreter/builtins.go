package interpreter

// Built-in component and record names, fully qualified.
const (
	RowComponent      = BuiltinDocument + "#row"
	ColumnComponent   = BuiltinDocument + "#column"
	SceneComponent    = BuiltinDocument + "#scene"
	TextComponent     = BuiltinDocument + "#text"
	IntegerComponent  = BuiltinDocument + "#integer"
	DecimalComponent  = BuiltinDocument + "#decimal"
	BooleanComponent  = BuiltinDocument + "#boolean"
	ImageComponent    = BuiltinDocument + "#image"
	IframeComponent   = BuiltinDocument + "#iframe"
	CodeComponent     = BuiltinDocument + "#code"
	InputComponent    = BuiltinDocument + "#input"
	CheckBoxComponent = BuiltinDocument + "#checkbox"
	NullComponent     = BuiltinDocument + "#null"

	ImageSrcRecord = BuiltinDocument + "#image-src"
	ColorRecord    = BuiltinDocument + "#color"
)

type argSpec struct {
	name string
	kind Kind
}

func optional(k Kind) Kind { return OptionalKind(k) }

func withDefault(k Kind, def string) Kind {
	k, _ = k.SetDefault(def)
	return k
}

// commonArguments are accepted by every built-in component.
func commonArguments() []argSpec {
	color := optional(RecordKind(ColorRecord))
	integer := optional(IntegerKind())
	str := optional(StringKind())
	boolean := optional(BooleanKind())

	specs := []argSpec{
		{"id", str},
		{"padding", integer},
		{"padding-left", integer},
		{"padding-right", integer},
		{"padding-top", integer},
		{"padding-bottom", integer},
		{"padding-horizontal", integer},
		{"padding-vertical", integer},
		{"margin-left", integer},
		{"margin-right", integer},
		{"margin-top", integer},
		{"margin-bottom", integer},
		{"border-width", integer},
		{"border-radius", integer},
		{"border-top", integer},
		{"border-bottom", integer},
		{"border-left", integer},
		{"border-right", integer},
		{"border-top-left-radius", integer},
		{"border-top-right-radius", integer},
		{"border-bottom-left-radius", integer},
		{"border-bottom-right-radius", integer},
		{"border-color", color},
		{"border-top-color", color},
		{"border-bottom-color", color},
		{"border-left-color", color},
		{"border-right-color", color},
		{"border-style", str},
		{"background-color", color},
		{"color", color},
		{"width", str},
		{"height", str},
		{"min-width", str},
		{"max-width", str},
		{"min-height", str},
		{"max-height", str},
		{"z-index", integer},
		{"left", integer},
		{"right", integer},
		{"top", integer},
		{"bottom", integer},
		{"anchor", str},
		{"role", str},
		{"region", str},
		{"cursor", str},
		{"classes", str},
		{"link", str},
		{"open-in-new-tab", boolean},
		{"align", str},
		{"align-self", str},
		{"overflow-x", str},
		{"overflow-y", str},
		{"resize", str},
		{"white-space", str},
		{"text-transform", str},
		{"sticky", boolean},
		{"scale", optional(DecimalKind())},
		{"rotate", integer},
	}
	return specs
}

func containerArguments() []argSpec {
	return []argSpec{
		{"wrap", optional(BooleanKind())},
		{"align-content", optional(StringKind())},
		{"spacing", optional(StringKind())},
		{"open", optional(StringKind())},
	}
}

func textArguments() []argSpec {
	return []argSpec{
		{"text-align", optional(StringKind())},
		{"line-clamp", optional(IntegerKind())},
		{"style", optional(StringKind())},
	}
}

func numberArguments(value Kind) []argSpec {
	return append([]argSpec{
		{"value", value},
		{"format", optional(StringKind())},
	}, textArguments()...)
}

// builtinComponents lists the component-specific arguments of each built-in.
func builtinComponents() map[string][]argSpec {
	return map[string][]argSpec{
		RowComponent:    containerArguments(),
		ColumnComponent: containerArguments(),
		SceneComponent:  containerArguments(),
		TextComponent: append([]argSpec{
			{"text", optional(CaptionOrBodyKind())},
		}, textArguments()...),
		IntegerComponent: numberArguments(Kind{Type: KindInteger, Caption: true}),
		DecimalComponent: numberArguments(Kind{Type: KindDecimal, Caption: true}),
		BooleanComponent: append([]argSpec{
			{"value", Kind{Type: KindBoolean, Caption: true}},
			{"true", optional(StringKind())},
			{"false", optional(StringKind())},
		}, textArguments()...),
		ImageComponent: {
			{"src", RecordKind(ImageSrcRecord)},
			{"description", optional(StringKind())},
		},
		IframeComponent: {
			{"src", optional(CaptionKind())},
			{"srcdoc", optional(BodyKind())},
			{"youtube", optional(StringKind())},
			{"loading", withDefault(StringKind(), "lazy")},
		},
		CodeComponent: {
			{"text", CaptionOrBodyKind()},
			{"lang", withDefault(StringKind(), "txt")},
			{"theme", withDefault(StringKind(), "fastn-theme.dark")},
		},
		InputComponent: {
			{"placeholder", optional(StringKind())},
			{"value", optional(StringKind())},
			{"multiline", withDefault(BooleanKind(), "false")},
			{"default-value", optional(StringKind())},
			{"type", optional(StringKind())},
			{"enabled", optional(BooleanKind())},
		},
		CheckBoxComponent: {
			{"checked", withDefault(BooleanKind(), "false")},
			{"enabled", optional(BooleanKind())},
		},
	}
}

// NewBag returns a bag holding the built-in `ftd` namespace. Every run gets
// its own bag.
func NewBag() Bag {
	bag := Bag{}
	lightDark := func(name string) *Record {
		return &Record{
			Name: name,
			Fields: []RecordField{
				{Name: "light", Kind: CaptionKind()},
				{Name: "dark", Kind: optional(StringKind())},
			},
		}
	}
	bag[ImageSrcRecord] = lightDark(ImageSrcRecord)
	bag[ColorRecord] = lightDark(ColorRecord)

	d := NewTDoc(BuiltinDocument, bag)
	for name, specs := range builtinComponents() {
		def := &ComponentDefinition{Name: name, Type: ComponentBuiltin}
		for _, spec := range append(specs, commonArguments()...) {
			arg := Argument{Name: spec.name, Kind: spec.kind}
			// Defaults of built-in kinds are literals and always parse.
			arg.Default, _ = d.defaultValue(spec.kind, 0)
			def.Arguments = append(def.Arguments, arg)
		}
		bag[name] = def
	}
	bag[NullComponent] = &ComponentDefinition{Name: NullComponent, Type: ComponentBuiltin}
	return bag
}

// IsContainer reports whether a built-in component holds children.
func IsContainer(name string) bool {
	switch name {
	case RowComponent, ColumnComponent, SceneComponent:
		return true
	}
	return false
}
