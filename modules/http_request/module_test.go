package http_request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/internal/testutil"
	"github.com/specialistvlad/ftdgo/modules/http_request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoRecord = `-- record repo:
string name:
integer stars:
optional string license:

-- string repo-id: ftd
`

func newServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		switch r.URL.Path {
		case "/v1/repos":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name": "ftd", "stars": 42, "extra": true}`))
		case "/v1/broken":
			_, _ = w.Write([]byte(`{"name": `))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func library(srv *httptest.Server) *testutil.Library {
	m := &http_request.Module{Client: srv.Client()}
	return &testutil.Library{
		Processors: map[string]registry.ProcessorFunc{http_request.Name: m.Process},
		Config: &config.Model{
			Package:      config.Package{Name: "site", Endpoint: srv.URL + "/v1"},
			Dependencies: []config.Dependency{{Name: "no-api"}},
		},
	}
}

func TestProcess_DecodesIntoRecord(t *testing.T) {
	srv, queries := newServer(t)

	tests := []struct {
		name  string
		url   string
		query string
	}{
		{"absolute url", srv.URL + "/v1/repos", "/v1/repos?id=ftd&lang=go"},
		{"package endpoint", "/-/site/repos", "/v1/repos?id=ftd&lang=go"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			*queries = nil
			src := repoRecord + `
-- repo info:
$processor$: http
url: ` + tc.url + `
id: $repo-id
lang: go
`
			res := testutil.Render(t, src, library(srv))
			require.NoError(t, res.Err)

			info, err := res.Document.TDoc().VariableValue("info", 0)
			require.NoError(t, err)
			assert.Equal(t, interpreter.ValueRecord, info.Type)

			name, _ := info.Fields.Get("name")
			assert.Equal(t, "ftd", name.Value.Text)
			stars, _ := info.Fields.Get("stars")
			assert.Equal(t, int64(42), stars.Value.Integer)
			license, _ := info.Fields.Get("license")
			assert.True(t, license.Value.IsNull())

			assert.Equal(t, []string{tc.query}, *queries)
			assert.Contains(t, res.LogOutput, "Making HTTP request")
		})
	}
}

func TestProcess_InferredKind(t *testing.T) {
	srv, _ := newServer(t)
	res := testutil.Render(t, "-- $data:\n$processor$: http\nurl: "+srv.URL+"/v1/repos\n", library(srv))
	require.Error(t, res.Err)
	assert.True(t, diag.Is(res.Err, diag.ProcessorError))
	assert.Contains(t, res.Err.Error(), "mixed kinds")
}

func TestProcess_Errors(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name    string
		headers string
		message string
	}{
		{"post", "url: /-/site/repos\nmethod: POST", "only GET method is allowed, found: post"},
		{"no url", "id: 1", "'url' key is required when using `$processor$: http`"},
		{"unknown package", "url: /-/elsewhere/x", "end-point not found url: /-/elsewhere/x"},
		{"package without endpoint", "url: /-/no-api/x", "package does not contain the endpoint"},
		{"not found", "url: /-/site/missing", "404 Not Found"},
		{"invalid json", "url: /-/site/broken", "`http` processor API response error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := repoRecord + "\n-- repo info:\n$processor$: http\n" + tc.headers + "\n"
			res := testutil.Render(t, src, library(srv))
			require.Error(t, res.Err)
			assert.True(t, diag.Is(res.Err, diag.ProcessorError), res.Err.Error())
			assert.Contains(t, res.Err.Error(), tc.message)
			assert.False(t, strings.Contains(res.Err.Error(), "panicked"))
		})
	}
}
