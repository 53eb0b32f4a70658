package interpreter

import (
	"testing"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conditionFixture = `-- $p: true

-- integer $n: 3

-- decimal ratio: 1.50

-- optional string $name:

-- integer list $xs:
`

func TestCondition_Eval(t *testing.T) {
	doc := mustInterpret(t, conditionFixture, nil)
	d := doc.TDoc()

	tests := []struct {
		expr string
		want bool
	}{
		{"$p", true},
		{"not $p", false},
		{"$n == 3", true},
		{"$n != 3", false},
		{"$ratio == 1.5", true},
		{"$name is null", true},
		{"$name is not null", false},
		{"$xs is empty", true},
		{"$xs is not empty", false},
		{"true", true},
		{"false", false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			cond, err := d.ParseCondition(tc.expr, nil, 1)
			require.NoError(t, err)
			got, err := cond.Eval(d, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCondition_Errors(t *testing.T) {
	doc := mustInterpret(t, conditionFixture, nil)
	d := doc.TDoc()

	tests := []struct {
		expr    string
		errKind diag.Kind
	}{
		{"p", diag.EvaluationError},
		{"$n is null", diag.TypeError},
		{"$n", diag.TypeError},
		{"$missing", diag.NameError},
		{"$n == abc", diag.ParseError},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := d.ParseCondition(tc.expr, nil, 1)
			require.Error(t, err)
			assert.True(t, diag.Is(err, tc.errKind), "got %v", err)
		})
	}
}

func TestCondition_ScopeVariables(t *testing.T) {
	doc := mustInterpret(t, conditionFixture, nil)
	d := doc.TDoc()
	bindings := Bindings{"open": {Kind: BooleanKind(), Mutable: true}}

	cond, err := d.ParseCondition("not $open", bindings, 4)
	require.NoError(t, err)
	require.NotNil(t, cond.Left)
	assert.Equal(t, PropertyVariable, cond.Left.Type)
	assert.Equal(t, "open", cond.Left.Name)

	scope := mapScope{"open": Literal(BooleanValue(false))}
	got, err := cond.Eval(d, scope)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = cond.Eval(d, nil)
	assert.True(t, diag.Is(err, diag.NameError))
}

type mapScope map[string]PropertyValue

func (s mapScope) Lookup(name string) (PropertyValue, bool) {
	pv, ok := s[name]
	return pv, ok
}
