package data

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"
)

func TestRowEqual(t *testing.T) {
	a := NewRow(map[string]string{"id": "2", "name": "Bob"})
	b := NewRow(map[string]string{"name": "Bob", "id": "2"})
	c := NewRow(map[string]string{"id": "2", "name": "bob"})
	d := NewRow(map[string]string{"id": "2"})

	assert.Assert(t, a.Equal(b))
	assert.Assert(t, !a.Equal(c))
	assert.Assert(t, !a.Equal(d))
	assert.Assert(t, !d.Equal(a))
}

func TestRowJSON(t *testing.T) {
	var r Row
	assert.NilError(t, json.Unmarshal([]byte(`{"id":"1","name":"Alice"}`), &r))
	assert.Equal(t, r.Data["name"], "Alice")

	out, err := json.Marshal(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), `{"id":"1","name":"Alice"}`)

	empty, err := json.Marshal(Row{})
	assert.NilError(t, err)
	assert.Equal(t, string(empty), `{}`)
}

func TestFieldsFromJSON(t *testing.T) {
	fields, err := FieldsFromJSON([]byte(`{"id": 12, "ratio": 1.50, "ok": true, "name": "Ann", "gone": null}`))
	assert.NilError(t, err)
	assert.DeepEqual(t, fields.Values, map[string]string{
		"id":    "12",
		"ratio": "1.50",
		"ok":    "true",
		"name":  "Ann",
	})
	assert.Equal(t, len(fields.Rejected), 0)

	fields, err = FieldsFromJSON([]byte(`{"id": "1", "tags": ["a"], "meta": {"k": 1}}`))
	assert.NilError(t, err)
	assert.DeepEqual(t, fields.Values, map[string]string{"id": "1"})
	assert.DeepEqual(t, fields.Rejected, map[string]string{
		"tags": `["a"]`,
		"meta": `{"k": 1}`,
	})

	_, err = FieldsFromJSON([]byte(`null`))
	assert.Assert(t, err != nil)

	_, err = FieldsFromJSON([]byte(`[1,2]`))
	assert.Assert(t, err != nil)
}
