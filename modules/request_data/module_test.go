package request_data_test

import (
	"testing"

	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/internal/testutil"
	"github.com/specialistvlad/ftdgo/modules/request_data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const queryRecord = `-- record query:
integer id:
string slug:
string q:
string list tag:
boolean draft: false

-- query params:
$processor$: request-data
`

func library(data *registry.RequestData) *testutil.Library {
	return &testutil.Library{
		Processors: map[string]registry.ProcessorFunc{request_data.Name: request_data.Process},
		Data:       data,
	}
}

func field(t *testing.T, v interpreter.Value, name string) interpreter.Value {
	t.Helper()
	f, ok := v.Fields.Get(name)
	require.True(t, ok, "field %s", name)
	require.NotNil(t, f.Value)
	return *f.Value
}

func TestProcess_MergesSources(t *testing.T) {
	res := testutil.Render(t, queryRecord, library(&registry.RequestData{
		Query:      map[string][]string{"id": {"3"}, "q": {"from-query"}, "tag": {"a", "b"}},
		PathParams: map[string]string{"slug": "intro"},
		Body:       []byte(`{"q": "from-body"}`),
	}))
	require.NoError(t, res.Err)

	params, err := res.Document.TDoc().VariableValue("params", 0)
	require.NoError(t, err)

	assert.Equal(t, int64(3), field(t, params, "id").Integer)
	assert.Equal(t, "intro", field(t, params, "slug").Text)
	assert.Equal(t, "from-body", field(t, params, "q").Text)
	assert.Len(t, field(t, params, "tag").Items, 2)
	assert.False(t, field(t, params, "draft").Boolean)
}

func TestProcess_InferredMap(t *testing.T) {
	res := testutil.Render(t, "-- $params:\n$processor$: request-data\n", library(&registry.RequestData{
		Query: map[string][]string{"b": {"2"}, "a": {"1"}},
	}))
	require.NoError(t, res.Err)

	params, err := res.Document.TDoc().VariableValue("params", 0)
	require.NoError(t, err)
	assert.Equal(t, interpreter.ValueMap, params.Type)
	require.Len(t, params.Fields, 2)
	assert.Equal(t, "a", params.Fields[0].Name)
	assert.Equal(t, "1", params.Fields[0].Value.Value.Text)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    *registry.RequestData
		message string
	}{
		{"no request", nil, "no request was given"},
		{"body not json", &registry.RequestData{Body: []byte("id=1")}, "error while parsing request body"},
		{"body not object", &registry.RequestData{Body: []byte("[1]")}, "request body must be a JSON object"},
		{"missing field", &registry.RequestData{Query: map[string][]string{"id": {"1"}}}, "missing field `slug`"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.Render(t, queryRecord, library(tc.data))
			require.Error(t, res.Err)
			assert.True(t, diag.Is(res.Err, diag.ProcessorError))
			assert.Contains(t, res.Err.Error(), tc.message)
		})
	}
}
