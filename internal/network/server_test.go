package network

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/recordstore/internal/engine"
	storageengine "github.com/leengari/recordstore/internal/storage/engine"
	"github.com/leengari/recordstore/internal/storage/manager"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	se, err := storageengine.NewFileEngine(t.TempDir())
	assert.NilError(t, err)
	registry := manager.NewRegistry(se)
	t.Cleanup(func() { registry.Close() })

	s, err := NewServer(engine.New(registry), opts)
	assert.NilError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// do sends a request and decodes the JSON response into out when non-nil
func do(t *testing.T, ts *httptest.Server, method, path, body string, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	assert.NilError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	assert.NilError(t, err)
	defer resp.Body.Close()

	if out != nil {
		assert.NilError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func expectStatus(t *testing.T, ts *httptest.Server, method, path, body string, status int) {
	t.Helper()
	resp := do(t, ts, method, path, body, nil)
	assert.Equal(t, resp.StatusCode, status, "%s %s", method, path)
}

const usersTable = `{"table_name": "users", "schema": {"id": "integer", "name": "string"}}`

func TestDatabaseRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})

	var msg messageResponse
	resp := do(t, ts, "POST", "/create_database/testdb", "", &msg)
	assert.Equal(t, resp.StatusCode, http.StatusCreated)
	assert.Equal(t, msg.Message, "Database testdb created successfully")

	var fail errorResponse
	resp = do(t, ts, "POST", "/create_database/testdb", "", &fail)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(fail.Error, "already exists"), fail.Error)

	expectStatus(t, ts, "POST", "/create_database/other", "", http.StatusCreated)

	var names []string
	resp = do(t, ts, "GET", "/databases", "", &names)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.DeepEqual(t, names, []string{"other", "testdb"})

	expectStatus(t, ts, "DELETE", "/databases/other", "", http.StatusOK)
	expectStatus(t, ts, "DELETE", "/databases/other", "", http.StatusNotFound)

	expectStatus(t, ts, "POST", "/create_database/.hidden", "", http.StatusBadRequest)
}

func TestEmptyDatabaseList(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := ts.Client().Get(ts.URL + "/databases")
	assert.NilError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NilError(t, err)
	assert.Equal(t, strings.TrimSpace(string(body)), "[]")
}

func TestTableRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})
	expectStatus(t, ts, "POST", "/create_database/testdb", "", http.StatusCreated)

	var msg messageResponse
	resp := do(t, ts, "POST", "/testdb/tables", usersTable, &msg)
	assert.Equal(t, resp.StatusCode, http.StatusCreated)
	assert.Equal(t, msg.Message, "Table users added successfully")

	expectStatus(t, ts, "POST", "/testdb/tables", usersTable, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": "t"}`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"schema": {"id": "integer"}}`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": "t", "schema": {"id": "blob"}}`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": `, http.StatusBadRequest)

	var tables []string
	do(t, ts, "GET", "/testdb/tables_list", "", &tables)
	assert.DeepEqual(t, tables, []string{"users"})

	resp, err := ts.Client().Get(ts.URL + "/testdb/tables/users/schema")
	assert.NilError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NilError(t, err)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, strings.TrimSpace(string(raw)), `{"id":"integer","name":"string"}`)

	expectStatus(t, ts, "GET", "/testdb/tables/nonexistent/schema", "", http.StatusNotFound)

	expectStatus(t, ts, "DELETE", "/testdb/tables/users", "", http.StatusOK)
	expectStatus(t, ts, "DELETE", "/testdb/tables/users", "", http.StatusNotFound)

	do(t, ts, "GET", "/never/tables_list", "", &tables)
	assert.Equal(t, len(tables), 0)
}

func TestRowRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})
	expectStatus(t, ts, "POST", "/create_database/testdb", "", http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables", usersTable, http.StatusCreated)

	var msg messageResponse
	resp := do(t, ts, "POST", "/testdb/tables/users/rows", `{"id": "1", "name": "Alice"}`, &msg)
	assert.Equal(t, resp.StatusCode, http.StatusCreated)
	assert.Equal(t, msg.Message, "Row added successfully")

	// numbers are accepted as their literal text
	expectStatus(t, ts, "POST", "/testdb/tables/users/rows", `{"id": 2, "name": "Bob"}`, http.StatusCreated)

	var fail errorResponse
	resp = do(t, ts, "POST", "/testdb/tables/users/rows", `{"name": "Carol"}`, &fail)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Equal(t, fail.Error, "field id is missing")

	expectStatus(t, ts, "POST", "/testdb/tables/users/rows", `{"id": "abc", "name": "Bob"}`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables/users/rows", `{"id": [1], "name": "Bob"}`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables/users/rows", `not json`, http.StatusBadRequest)
	expectStatus(t, ts, "POST", "/testdb/tables/ghosts/rows", `{"id": "1"}`, http.StatusNotFound)

	var rows []map[string]string
	resp = do(t, ts, "GET", "/testdb/tables/users/rows", "", &rows)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.DeepEqual(t, rows, []map[string]string{
		{"id": "1", "name": "Alice"},
		{"id": "2", "name": "Bob"},
	})

	expectStatus(t, ts, "GET", "/testdb/tables/ghosts/rows", "", http.StatusNotFound)

	expectStatus(t, ts, "DELETE", "/testdb/tables/users/rows/abc", "", http.StatusNotFound)
	expectStatus(t, ts, "DELETE", "/testdb/tables/users/rows/5", "", http.StatusNotFound)
	expectStatus(t, ts, "DELETE", "/testdb/tables/users/rows/0", "", http.StatusOK)

	do(t, ts, "GET", "/testdb/tables/users/rows", "", &rows)
	assert.DeepEqual(t, rows, []map[string]string{{"id": "2", "name": "Bob"}})

	expectStatus(t, ts, "DELETE", "/testdb/tables/users/rows/0", "", http.StatusOK)
	expectStatus(t, ts, "DELETE", "/testdb/tables/users/rows/0", "", http.StatusNotFound)
}

func TestRowRoutesCompositeValues(t *testing.T) {
	ts := newTestServer(t, Options{})
	expectStatus(t, ts, "POST", "/create_database/testdb", "", http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables", usersTable, http.StatusCreated)

	// arrays and objects outside the schema are dropped like any extra field
	body := `{"id": "1", "name": "Alice", "tags": ["a"], "meta": {"k": "v"}}`
	expectStatus(t, ts, "POST", "/testdb/tables/users/rows", body, http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables/missing/rows", body, http.StatusNotFound)

	var rows []map[string]string
	do(t, ts, "GET", "/testdb/tables/users/rows", "", &rows)
	assert.DeepEqual(t, rows, []map[string]string{{"id": "1", "name": "Alice"}})

	var fail errorResponse
	resp := do(t, ts, "POST", "/testdb/tables/users/rows", `{"id": "2", "name": ["Bob"]}`, &fail)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Assert(t, strings.HasPrefix(fail.Error, "invalid value for field name"), fail.Error)
}

func TestIntersectRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	expectStatus(t, ts, "POST", "/create_database/testdb", "", http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": "table1", "schema": {"id": "integer", "name": "string"}}`, http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": "table2", "schema": {"name": "string", "id": "integer"}}`, http.StatusCreated)
	expectStatus(t, ts, "POST", "/testdb/tables", `{"table_name": "table3", "schema": {"id": "integer", "email": "string"}}`, http.StatusCreated)

	for _, r := range []struct{ table, body string }{
		{"table1", `{"id": "1", "name": "Alice"}`},
		{"table1", `{"id": "2", "name": "Bob"}`},
		{"table2", `{"id": "2", "name": "Bob"}`},
		{"table2", `{"id": "3", "name": "Charlie"}`},
	} {
		expectStatus(t, ts, "POST", "/testdb/tables/"+r.table+"/rows", r.body, http.StatusCreated)
	}

	var rows []map[string]string
	resp := do(t, ts, "GET", "/testdb/tables/table1/intersect/table2", "", &rows)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.DeepEqual(t, rows, []map[string]string{{"id": "2", "name": "Bob"}})

	var fail errorResponse
	resp = do(t, ts, "GET", "/testdb/tables/table1/intersect/table3", "", &fail)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(fail.Error, "not equal"), fail.Error)

	expectStatus(t, ts, "GET", "/testdb/tables/table1/intersect/nonexistent", "", http.StatusNotFound)
}

func TestFrontendRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := ts.Client().Get(ts.URL + "/")
	assert.NilError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Assert(t, strings.Contains(string(body), "/static/script.js"))

	expectStatus(t, ts, "GET", "/static/script.js", "", http.StatusOK)
	expectStatus(t, ts, "GET", "/static/missing.js", "", http.StatusNotFound)
	expectStatus(t, ts, "GET", "/static/../index.html", "", http.StatusNotFound)
}

func TestStaticDirOverride(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("custom"), 0644))

	ts := newTestServer(t, Options{StaticDir: dir})
	resp, err := ts.Client().Get(ts.URL + "/")
	assert.NilError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, string(body), "custom")
}

func TestBodyLimitAndRequestID(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 16})
	expectStatus(t, ts, "POST", "/create_database/testdb", "", http.StatusCreated)

	resp := do(t, ts, "POST", "/testdb/tables", usersTable, nil)
	assert.Equal(t, resp.StatusCode, http.StatusRequestEntityTooLarge)
	assert.Assert(t, resp.Header.Get("X-Request-ID") != "")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, Options{})
	expectStatus(t, ts, "PUT", "/databases", "", http.StatusMethodNotAllowed)
}
