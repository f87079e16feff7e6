package schema

import (
	"sort"

	"github.com/leengari/recordstore/internal/domain/errors"
)

// Database is a named collection of tables. It is persisted and restored
// as a single snapshot.
type Database struct {
	Name   string
	Tables map[string]*Table
}

// NewDatabase creates an empty database
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		Tables: make(map[string]*Table),
	}
}

// AddTable creates an empty table. The name must be non-empty and the
// schema must pass Schema.Check.
func (db *Database) AddTable(name string, s Schema) (*Table, error) {
	if name == "" || s.IsEmpty() {
		return nil, errors.NewInvalidArgs("table_name and schema are required")
	}
	if err := s.Check(); err != nil {
		return nil, errors.NewInvalidArgs("invalid schema for table %s: %v", name, err)
	}
	if _, exists := db.Tables[name]; exists {
		return nil, &errors.AlreadyExistsError{Kind: errors.KindTable, Name: name}
	}

	t := NewTable(name, s)
	db.Tables[name] = t
	return t, nil
}

// DeleteTable removes a table and all of its rows
func (db *Database) DeleteTable(name string) error {
	if _, exists := db.Tables[name]; !exists {
		return &errors.NotFoundError{Kind: errors.KindTable, Name: name}
	}
	delete(db.Tables, name)
	return nil
}

// Table returns the named table
func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.Tables[name]
	if !ok {
		return nil, &errors.NotFoundError{Kind: errors.KindTable, Name: name}
	}
	return t, nil
}

// TableNames returns all table names, sorted
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.Tables))
	for name := range db.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
