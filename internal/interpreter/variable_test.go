package interpreter

import (
	"errors"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personRecord = `-- record person:
caption name:
body bio:
integer age: 30
optional string nick:
`

func TestVariable_Declarations(t *testing.T) {
	doc := mustInterpret(t, `-- $x: 10

-- decimal $ratio: 0.5

-- string greeting: hello

-- $quote: \$5 only

-- $copy: $x
`, nil)

	x, ok := doc.Bag["main#x"].(*Variable)
	require.True(t, ok)
	assert.True(t, x.Mutable)
	assert.Equal(t, IntegerKind(), x.Kind)
	assert.Equal(t, int64(10), variableValue(t, doc, "x").Integer)

	greeting := doc.Bag["main#greeting"].(*Variable)
	assert.False(t, greeting.Mutable)
	assert.Equal(t, "hello", variableValue(t, doc, "greeting").Text)
	assert.Equal(t, SourceCaption, variableValue(t, doc, "greeting").Source)

	assert.Equal(t, "$5 only", variableValue(t, doc, "quote").Text)
	assert.Equal(t, 0.5, variableValue(t, doc, "ratio").Decimal)

	copied := doc.Bag["main#copy"].(*Variable)
	assert.Equal(t, PropertyReference, copied.Value.Type)
	assert.Equal(t, "main#x", copied.Value.Name)
	assert.Equal(t, int64(10), variableValue(t, doc, "copy").Integer)
}

func TestVariable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errKind diag.Kind
	}{
		{"duplicate declaration", "-- integer y: 5\n\n-- integer y: 6\n", diag.NameError},
		{"update of immutable", "-- integer y: 5\n\n-- $y: 6\n", diag.TypeError},
		{"bad integer literal", "-- integer y: five\n", diag.ParseError},
		{"reference kind mismatch", "-- $s: hi\n\n-- integer n: $s\n", diag.TypeError},
		{"unknown reference", "-- integer n: $nope\n", diag.NameError},
		{"missing required value", "-- integer n:\n", diag.EvaluationError},
		{"condition on a new variable", "-- $n: 1\nif: true\n", diag.ParseError},
		{"inferred kind without value", "-- $n:\n", diag.ParseError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := interpretWith(t, tc.source, nil)
			require.Error(t, err)
			assert.True(t, diag.Is(err, tc.errKind), "got %v", err)
		})
	}
}

func TestVariable_ConditionalAlternate(t *testing.T) {
	doc := mustInterpret(t, `-- $flag: false

-- string $label: off

-- $label: on
if: $flag
`, nil)

	label := doc.Bag["main#label"].(*Variable)
	require.Len(t, label.Conditions, 1)
	assert.Equal(t, "off", variableValue(t, doc, "label").Text)

	flag := doc.Bag["main#flag"].(*Variable)
	flag.Value = Literal(BooleanValue(true))
	assert.Equal(t, "on", variableValue(t, doc, "label").Text)
}

func TestVariable_Overwrite(t *testing.T) {
	doc := mustInterpret(t, "-- $n: 1\n\n-- $n: 2\n", nil)
	assert.Equal(t, int64(2), variableValue(t, doc, "n").Integer)
}

func TestVariable_CyclicReference(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		variable string
	}{
		{"condition reads the variable itself", "-- integer $x: 0\n\n-- $x: 5\nif: $x == 0\n", "x"},
		{"update closes a reference loop", "-- integer $a: 0\n\n-- integer $b: $a\n\n-- $a: $b\n", "a"},
		{"loop through the other variable", "-- integer $a: 0\n\n-- integer $b: $a\n\n-- $a: $b\n", "b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustInterpret(t, tc.source, nil)
			_, err := doc.TDoc().VariableValue(tc.variable, 9)
			require.Error(t, err)
			assert.True(t, diag.Is(err, diag.EvaluationError), "got %v", err)
			assert.Contains(t, err.Error(), "cyclic reference")
			assert.Contains(t, err.Error(), "main:")
		})
	}

	// the guard is released after each resolution
	doc := mustInterpret(t, "-- integer $a: 1\n\n-- integer $b: $a\n", nil)
	d := doc.TDoc()
	for range 2 {
		v, err := d.VariableValue("b", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v.Integer)
	}
}

func TestRecord_Instance(t *testing.T) {
	doc := mustInterpret(t, personRecord+`
-- person $p: Alice

Likes Go.
`, nil)

	record, ok := doc.Bag["main#person"].(*Record)
	require.True(t, ok)
	require.Len(t, record.Fields, 4)

	p := variableValue(t, doc, "p")
	assert.Equal(t, ValueRecord, p.Type)
	assert.Equal(t, "main#person", p.Name)

	d := doc.TDoc()
	for field, want := range map[string]string{"name": "Alice", "bio": "Likes Go.", "age": "30"} {
		v, err := d.VariableValue("p."+field, 0)
		require.NoError(t, err)
		assert.Equal(t, want, v.String(), field)
	}
	nick, err := d.VariableValue("p.nick", 0)
	require.NoError(t, err)
	assert.True(t, nick.IsNull())

	bio, err := d.VariableValue("p.bio", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceBody, bio.Source)
}

func TestRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errKind diag.Kind
	}{
		{"missing required field", personRecord + "\n-- person $q:\n", diag.EvaluationError},
		{"unknown field header", personRecord + "\n-- person $r: Bob\ncolour: red\n", diag.ParseError},
		{"field kind mismatch", personRecord + "\n-- person $r: Bob\nage: old\n\nWrites Go.\n", diag.ParseError},
		{"duplicate field", "-- record x:\nstring a:\nstring a:\n", diag.NameError},
		{"malformed field", "-- record x:\na:\n", diag.ParseError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := interpretWith(t, tc.source, nil)
			require.Error(t, err)
			assert.True(t, diag.Is(err, tc.errKind), "got %v", err)
		})
	}
}

func TestList_AppendKeepsReference(t *testing.T) {
	doc := mustInterpret(t, personRecord+`
-- person list $people:

--- person: A

ab

--- person: B

cd

-- person $c: C

cc

-- $people: $c
`, nil)

	people := variableValue(t, doc, "people")
	require.Len(t, people.Items, 3)
	assert.Equal(t, PropertyLiteral, people.Items[0].Type)
	assert.Equal(t, PropertyReference, people.Items[2].Type)
	assert.Equal(t, "main#c", people.Items[2].Name)

	d := doc.TDoc()
	names := make([]string, 0, len(people.Items))
	for _, item := range people.Items {
		v, err := item.Resolve(d, nil, 0)
		require.NoError(t, err)
		name, ok := v.Fields.Get("name")
		require.True(t, ok)
		nv, err := name.Resolve(d, nil, 0)
		require.NoError(t, err)
		names = append(names, nv.Text)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestMap_Variable(t *testing.T) {
	doc := mustInterpret(t, "-- string map $m:\nen: hello\nfr: bonjour\n", nil)
	d := doc.TDoc()

	m := variableValue(t, doc, "m")
	assert.Equal(t, ValueMap, m.Type)
	require.Len(t, m.Fields, 2)

	fr, err := d.VariableValue("m.fr", 0)
	require.NoError(t, err)
	assert.Equal(t, "bonjour", fr.Text)

	missing, err := d.VariableValue("m.de", 0)
	require.NoError(t, err)
	assert.True(t, missing.IsNull())
}

func TestOrType_Instance(t *testing.T) {
	doc := mustInterpret(t, `-- or-type shape:

--- circle:
integer radius:

--- square:
integer side: 1

-- shape.circle $s:
radius: 5

-- shape.square $sq:
`, nil)

	_, ok := doc.Bag["main#shape.circle"].(*OrTypeVariant)
	require.True(t, ok)

	s := variableValue(t, doc, "s")
	assert.Equal(t, ValueOrType, s.Type)
	assert.Equal(t, "circle", s.Variant)
	radius, ok := s.Fields.Get("radius")
	require.True(t, ok)
	assert.Equal(t, int64(5), radius.Value.Integer)

	sq := variableValue(t, doc, "sq")
	side, _ := sq.Fields.Get("side")
	assert.Equal(t, int64(1), side.Value.Integer)

	assert.Equal(t, OrTypeKind("main#shape"), doc.Bag["main#s"].(*Variable).Kind)
}

func TestVariable_Processor(t *testing.T) {
	lib := &testLibrary{processors: map[string]processorFunc{
		"answer": func(*section.Section, *TDoc, Kind) (Value, error) {
			return IntegerValue(42), nil
		},
		"broken": func(*section.Section, *TDoc, Kind) (Value, error) {
			return Value{}, errors.New("backend down")
		},
	}}

	t.Run("typed", func(t *testing.T) {
		doc, err := interpretWith(t, "-- integer $a:\n$processor$: answer\n\n-- integer $b:\n$processor$: answer\n", lib)
		require.NoError(t, err)
		assert.True(t, variableValue(t, doc, "a").Equal(variableValue(t, doc, "b")))
	})

	t.Run("inferred", func(t *testing.T) {
		doc, err := interpretWith(t, "-- $c:\n$processor$: answer\n", lib)
		require.NoError(t, err)
		assert.Equal(t, IntegerKind(), doc.Bag["main#c"].(*Variable).Kind)
	})

	t.Run("overwrite", func(t *testing.T) {
		doc, err := interpretWith(t, "-- $d: 1\n\n-- $d:\n$processor$: answer\n", lib)
		require.NoError(t, err)
		assert.Equal(t, int64(42), variableValue(t, doc, "d").Integer)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		_, err := interpretWith(t, "-- string $e:\n$processor$: answer\n", lib)
		require.Error(t, err)
		assert.True(t, diag.Is(err, diag.ProcessorError))
		assert.ErrorContains(t, err, "expected `string`")
	})

	t.Run("processor failure", func(t *testing.T) {
		_, err := interpretWith(t, "-- string $f:\n$processor$: broken\n", lib)
		require.Error(t, err)
		assert.True(t, diag.Is(err, diag.ProcessorError))
		assert.ErrorContains(t, err, "backend down")
	})
}
