package testutil

import (
	"testing"

	"github.com/leengari/recordstore/internal/domain/schema"
	"github.com/leengari/recordstore/internal/domain/types"
)

// IDNameSchema is the {id: integer, name: string} schema used across tests
func IDNameSchema() schema.Schema {
	return schema.NewSchema(
		schema.Column{Name: "id", Type: types.TypeInteger},
		schema.Column{Name: "name", Type: types.TypeString},
	)
}

// IDEmailSchema shares the id field with IDNameSchema but differs in the
// second field
func IDEmailSchema() schema.Schema {
	return schema.NewSchema(
		schema.Column{Name: "id", Type: types.TypeInteger},
		schema.Column{Name: "email", Type: types.TypeString},
	)
}

// AddTable creates a table and inserts the given rows, failing the test on
// any error
func AddTable(t *testing.T, db *schema.Database, name string, s schema.Schema, rows ...map[string]string) *schema.Table {
	t.Helper()
	table, err := db.AddTable(name, s)
	if err != nil {
		t.Fatalf("AddTable(%q) failed: %v", name, err)
	}
	for i, r := range rows {
		if _, err := table.Insert(r); err != nil {
			t.Fatalf("Insert into %q row %d failed: %v", name, i, err)
		}
	}
	return table
}

// Person builds an id/name row
func Person(id, name string) map[string]string {
	return map[string]string{"id": id, "name": name}
}
