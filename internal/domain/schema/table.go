package schema

import (
	"fmt"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/errors"
	"github.com/leengari/recordstore/internal/validation"
)

// Table represents a database table with its schema and ordered rows.
// Rows carry no key: a row is identified by its position.
type Table struct {
	Name   string
	Schema Schema
	Rows   []data.Row
}

// NewTable creates an empty table with the given schema
func NewTable(name string, s Schema) *Table {
	return &Table{
		Name:   name,
		Schema: NewSchema(s.Columns...),
		Rows:   make([]data.Row, 0),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Insert validates values against the schema and appends a row holding
// only the schema's fields
func (t *Table) Insert(values map[string]string) (data.Row, error) {
	return t.InsertFields(data.FieldsOf(values))
}

// InsertFields is Insert for values decoded from a request body. Fields
// are checked in schema order, so the error names the first missing or
// invalid field. Extra fields are dropped, rejected ones included.
func (t *Table) InsertFields(f data.Fields) (data.Row, error) {
	row := make(map[string]string, len(t.Schema.Columns))

	for _, col := range t.Schema.Columns {
		if raw, rejected := f.Rejected[col.Name]; rejected {
			return data.Row{}, errors.NewInvalidValue(t.Name, col.Name, col.Type.String(), raw,
				fmt.Errorf("%s is not a valid %s", raw, col.Type))
		}
		val, exists := f.Values[col.Name]
		if !exists {
			return data.Row{}, errors.NewMissingField(t.Name, col.Name, col.Type.String())
		}
		if err := validation.Check(val, col.Type); err != nil {
			return data.Row{}, errors.NewInvalidValue(t.Name, col.Name, col.Type.String(), val, err)
		}
		row[col.Name] = val
	}

	inserted := data.NewRow(row)
	t.Rows = append(t.Rows, inserted)
	return inserted.Copy(), nil
}

// DeleteAt removes the row at index, shifting later rows down by one
func (t *Table) DeleteAt(index int) error {
	if index < 0 || index >= len(t.Rows) {
		return &errors.IndexOutOfRangeError{
			Table: t.Name,
			Index: index,
			Count: len(t.Rows),
		}
	}

	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return nil
}

// SelectAll returns copies of all rows in insertion order
func (t *Table) SelectAll() []data.Row {
	rows := make([]data.Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Copy()
	}
	return rows
}
