package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/schema"
	"github.com/leengari/recordstore/internal/query/operations"
	"github.com/leengari/recordstore/internal/storage/manager"
)

// OpKind names an engine operation
type OpKind string

const (
	OpListDatabases  OpKind = "list_databases"
	OpCreateDatabase OpKind = "create_database"
	OpDropDatabase   OpKind = "drop_database"
	OpAddTable       OpKind = "add_table"
	OpDeleteTable    OpKind = "delete_table"
	OpListTables     OpKind = "list_tables"
	OpGetSchema      OpKind = "get_schema"
	OpAddRow         OpKind = "add_row"
	OpDeleteRow      OpKind = "delete_row"
	OpGetRows        OpKind = "get_rows"
	OpIntersect      OpKind = "intersect"
)

// Operation describes one call into the engine
type Operation struct {
	ID        string    // Unique operation identifier (UUID)
	Kind      OpKind    // Which operation ran
	Database  string    // Target database, empty for list_databases
	Table     string    // Target table, if any
	StartTime time.Time // When the operation began
}

func newOperation(kind OpKind, database, table string) *Operation {
	return &Operation{
		ID:        uuid.New().String(),
		Kind:      kind,
		Database:  database,
		Table:     table,
		StartTime: time.Now(),
	}
}

// Engine is the single logic layer of the record store. Every operation
// loads the database snapshot through the registry, works on the
// in-memory model and, when it mutates, saves the snapshot back.
type Engine struct {
	registry *manager.Registry

	mu        sync.RWMutex
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine instance
func New(registry *manager.Registry) *Engine {
	return &Engine{
		registry:  registry,
		observers: make([]Observer, 0),
	}
}

// ListDatabases returns the names of all databases, sorted
func (e *Engine) ListDatabases() ([]string, error) {
	var names []string
	err := e.run(newOperation(OpListDatabases, "", ""), func() error {
		var err error
		names, err = e.registry.List()
		return err
	})
	return names, err
}

// CreateDatabase persists a new empty database
func (e *Engine) CreateDatabase(name string) error {
	return e.run(newOperation(OpCreateDatabase, name, ""), func() error {
		return e.registry.Create(name)
	})
}

// DropDatabase deletes a database with all its tables
func (e *Engine) DropDatabase(name string) error {
	return e.run(newOperation(OpDropDatabase, name, ""), func() error {
		return e.registry.Drop(name)
	})
}

// AddTable creates an empty table with a fixed schema
func (e *Engine) AddTable(db, table string, s schema.Schema) error {
	return e.run(newOperation(OpAddTable, db, table), func() error {
		return e.registry.Update(db, func(d *schema.Database) error {
			_, err := d.AddTable(table, s)
			return err
		})
	})
}

// DeleteTable removes a table and all of its rows
func (e *Engine) DeleteTable(db, table string) error {
	return e.run(newOperation(OpDeleteTable, db, table), func() error {
		return e.registry.Update(db, func(d *schema.Database) error {
			return d.DeleteTable(table)
		})
	})
}

// ListTables returns the table names of a database, sorted
func (e *Engine) ListTables(db string) ([]string, error) {
	var names []string
	err := e.run(newOperation(OpListTables, db, ""), func() error {
		return e.registry.View(db, func(d *schema.Database) error {
			names = d.TableNames()
			return nil
		})
	})
	return names, err
}

// GetSchema returns a table's schema
func (e *Engine) GetSchema(db, table string) (schema.Schema, error) {
	var s schema.Schema
	err := e.run(newOperation(OpGetSchema, db, table), func() error {
		return e.registry.View(db, func(d *schema.Database) error {
			t, err := d.Table(table)
			if err != nil {
				return err
			}
			s = schema.NewSchema(t.Schema.Columns...)
			return nil
		})
	})
	return s, err
}

// AddRow validates values against the table schema and appends the row
func (e *Engine) AddRow(db, table string, values map[string]string) (data.Row, error) {
	return e.AddRowFields(db, table, data.FieldsOf(values))
}

// AddRowFields is AddRow for a decoded request body. The table is looked
// up before any field is checked.
func (e *Engine) AddRowFields(db, table string, f data.Fields) (data.Row, error) {
	var row data.Row
	err := e.run(newOperation(OpAddRow, db, table), func() error {
		return e.registry.Update(db, func(d *schema.Database) error {
			t, err := d.Table(table)
			if err != nil {
				return err
			}
			row, err = t.InsertFields(f)
			return err
		})
	})
	return row, err
}

// DeleteRow removes the row at index; later rows shift down by one
func (e *Engine) DeleteRow(db, table string, index int) error {
	return e.run(newOperation(OpDeleteRow, db, table), func() error {
		return e.registry.Update(db, func(d *schema.Database) error {
			t, err := d.Table(table)
			if err != nil {
				return err
			}
			return t.DeleteAt(index)
		})
	})
}

// GetRows returns all rows of a table in order
func (e *Engine) GetRows(db, table string) ([]data.Row, error) {
	var rows []data.Row
	err := e.run(newOperation(OpGetRows, db, table), func() error {
		return e.registry.View(db, func(d *schema.Database) error {
			t, err := d.Table(table)
			if err != nil {
				return err
			}
			rows = t.SelectAll()
			return nil
		})
	})
	return rows, err
}

// Intersect returns the rows of left that also appear in right
func (e *Engine) Intersect(db, left, right string) ([]data.Row, error) {
	var rows []data.Row
	err := e.run(newOperation(OpIntersect, db, left), func() error {
		return e.registry.View(db, func(d *schema.Database) error {
			var err error
			rows, err = operations.Intersect(d, left, right)
			return err
		})
	})
	return rows, err
}

// run wraps an operation with op_start and op_end notifications
func (e *Engine) run(op *Operation, fn func() error) error {
	e.notify(Event{Type: EventOpStart, OpID: op.ID, Data: op})
	err := fn()
	e.notify(Event{
		Type: EventOpEnd,
		OpID: op.ID,
		Data: Outcome{Operation: op, Err: err, Duration: time.Since(op.StartTime)},
	})
	return err
}

// AddObserver registers an observer
func (e *Engine) AddObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()

	e.mu.RLock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	for _, observer := range observers {
		observer.OnEvent(event)
	}
}
