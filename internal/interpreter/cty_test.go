package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromJSON_DeclaredKind(t *testing.T) {
	doc := mustInterpret(t, "-- record person:\ncaption name:\noptional integer age:\nstring role: member\n", nil)
	d := doc.TDoc()

	v, err := d.FromJSON([]byte(`[{"name": "A", "age": 3}, {"name": "B", "role": "admin"}]`), ListKind(RecordKind("main#person")))
	require.NoError(t, err)
	require.Len(t, v.Items, 2)

	first := v.Items[0].Value
	age, _ := first.Fields.Get("age")
	assert.Equal(t, int64(3), age.Value.Integer)
	role, _ := first.Fields.Get("role")
	assert.Equal(t, "member", role.Value.Text, "missing fields take the default")

	second := v.Items[1].Value
	age, _ = second.Fields.Get("age")
	assert.True(t, age.Value.IsNull())
	role, _ = second.Fields.Get("role")
	assert.Equal(t, "admin", role.Value.Text)
}

func TestFromJSON_Coercions(t *testing.T) {
	d := mustInterpret(t, "", nil).TDoc()

	tests := []struct {
		name string
		data string
		kind Kind
		want Value
	}{
		{"number to string", `12`, StringKind(), StringValue("12", SourceHeader)},
		{"string to integer", `"7"`, IntegerKind(), IntegerValue(7)},
		{"decimal", `2.25`, DecimalKind(), DecimalValue(2.25)},
		{"bool from string", `"true"`, BooleanKind(), BooleanValue(true)},
		{"null optional", `null`, OptionalKind(StringKind()), NoneValue(OptionalKind(StringKind()))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.FromJSON([]byte(tc.data), tc.kind)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %+v", got)
		})
	}
}

func TestFromJSON_Inferred(t *testing.T) {
	d := mustInterpret(t, "", nil).TDoc()

	v, err := d.FromJSON([]byte(`{"a": 1, "b": 2.5}`), Kind{})
	require.NoError(t, err)
	assert.Equal(t, MapKind(DecimalKind()), v.Kind)
	require.Len(t, v.Fields, 2)
	assert.Equal(t, "a", v.Fields[0].Name)

	v, err = d.FromJSON([]byte(`[1, 2, 3]`), Kind{})
	require.NoError(t, err)
	assert.Equal(t, ListKind(IntegerKind()), v.Kind)

	_, err = d.FromJSON([]byte(`[1, "x"]`), Kind{})
	assert.ErrorContains(t, err, "mixed kinds")
}

func TestFromJSON_Errors(t *testing.T) {
	doc := mustInterpret(t, "-- record person:\ncaption name:\n", nil)
	d := doc.TDoc()

	_, err := d.FromJSON([]byte(`{"age": 1}`), RecordKind("main#person"))
	assert.ErrorContains(t, err, "missing field `name`")

	_, err = d.FromJSON([]byte(`null`), StringKind())
	assert.ErrorContains(t, err, "null where `string` is required")

	_, err = d.FromJSON([]byte(`{`), StringKind())
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = d.FromJSON([]byte(`"x"`), ListKind(StringKind()))
	assert.ErrorContains(t, err, "expected a list")
}

func TestFromGo(t *testing.T) {
	d := mustInterpret(t, "", nil).TDoc()

	v, err := d.FromGo(map[string]string{"HOME": "/root", "USER": "ftd"}, MapKind(StringKind()))
	require.NoError(t, err)
	require.Len(t, v.Fields, 2)
	assert.Equal(t, "HOME", v.Fields[0].Name)

	v, err = d.FromCty(cty.ListVal([]cty.Value{cty.StringVal("x")}), Kind{})
	require.NoError(t, err)
	assert.Equal(t, ListKind(StringKind()), v.Kind)
}
