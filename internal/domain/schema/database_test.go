package schema

import (
	stderrors "errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/recordstore/internal/domain/errors"
	"github.com/leengari/recordstore/internal/domain/types"
)

func TestDatabaseAddTable(t *testing.T) {
	db := NewDatabase("testdb")

	_, err := db.AddTable("users", idName())
	assert.NilError(t, err)

	_, err = db.AddTable("users", idName())
	assert.Assert(t, stderrors.Is(err, errors.ErrAlreadyExists))

	_, err = db.AddTable("", idName())
	assert.Assert(t, stderrors.Is(err, errors.ErrInvalidArgs))

	_, err = db.AddTable("empty", NewSchema())
	assert.Assert(t, stderrors.Is(err, errors.ErrInvalidArgs))

	_, err = db.AddTable("blobs", NewSchema(Column{Name: "data", Type: "blob"}))
	assert.Assert(t, stderrors.Is(err, errors.ErrInvalidArgs))

	assert.DeepEqual(t, db.TableNames(), []string{"users"})
}

func TestDatabaseAddTableCopiesSchema(t *testing.T) {
	db := NewDatabase("testdb")
	s := idName()
	_, err := db.AddTable("users", s)
	assert.NilError(t, err)

	s.Columns[0].Type = types.TypeReal
	table, err := db.Table("users")
	assert.NilError(t, err)
	typ, _ := table.Schema.Lookup("id")
	assert.Equal(t, typ, types.TypeInteger)
}

func TestDatabaseDeleteTable(t *testing.T) {
	db := NewDatabase("testdb")
	_, err := db.AddTable("users", idName())
	assert.NilError(t, err)

	assert.NilError(t, db.DeleteTable("users"))
	err = db.DeleteTable("users")
	assert.Assert(t, stderrors.Is(err, errors.ErrNotFound))
	assert.ErrorContains(t, err, "does not exist")

	_, err = db.Table("users")
	assert.Assert(t, stderrors.Is(err, errors.ErrNotFound))
}

func TestDatabaseTableNamesSorted(t *testing.T) {
	db := NewDatabase("testdb")
	for _, name := range []string{"users", "orders", "items"} {
		_, err := db.AddTable(name, idName())
		assert.NilError(t, err)
	}
	assert.DeepEqual(t, db.TableNames(), []string{"items", "orders", "users"})
}
