package manager

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leengari/recordstore/internal/domain/errors"
	"github.com/leengari/recordstore/internal/domain/schema"
	"github.com/leengari/recordstore/internal/storage/engine"
	"github.com/leengari/recordstore/internal/storage/snapshot"
)

// Registry is the repository of named databases. It owns the persisted
// snapshots; every Load rebuilds a fresh in-memory Database and nothing is
// cached between calls.
//
// Update and View hold a per-database mutex for the whole
// load-mutate-save cycle, so concurrent writers to one database are
// serialised instead of silently losing updates. Load and Save on their
// own take no lock.
type Registry struct {
	mu            sync.Mutex
	locks         map[string]*dbLock
	storageEngine engine.StorageEngine
}

// dbLock is dropped from the registry once no caller holds or waits on it
type dbLock struct {
	mu   sync.Mutex
	refs int
}

// NewRegistry creates a new database registry with the given storage engine
func NewRegistry(storageEngine engine.StorageEngine) *Registry {
	return &Registry{
		locks:         make(map[string]*dbLock),
		storageEngine: storageEngine,
	}
}

// lock takes the mutex guarding one database name and returns its release
func (r *Registry) lock(name string) func() {
	r.mu.Lock()
	l, ok := r.locks[name]
	if !ok {
		l = &dbLock{}
		r.locks[name] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		defer r.mu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, name)
		}
	}
}

// List returns a list of all available databases, sorted. Stored names
// that ValidateName refuses are skipped since no operation can reach them.
func (r *Registry) List() ([]string, error) {
	stored, err := r.storageEngine.ListDatabases()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(stored))
	for _, name := range stored {
		if err := ValidateName(name); err != nil {
			slog.Warn("Skipping unusable database name", slog.String("name", name), slog.Any("error", err))
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Exists reports whether a database has been created
func (r *Registry) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return r.storageEngine.Exists(name)
}

// Create persists an empty database, failing if the name is taken
func (r *Registry) Create(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	unlock := r.lock(name)
	defer unlock()

	empty, err := snapshot.Empty(name)
	if err != nil {
		return err
	}
	if err := r.storageEngine.CreateDatabase(name, empty); err != nil {
		return err
	}

	slog.Info("Database created", slog.String("name", name))
	return nil
}

// Drop deletes a database and all of its tables
func (r *Registry) Drop(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	unlock := r.lock(name)
	defer unlock()

	if err := r.storageEngine.DropDatabase(name); err != nil {
		return err
	}

	slog.Info("Database dropped", slog.String("name", name))
	return nil
}

// Load rebuilds the named database from its snapshot. A database that was
// never created loads as an empty database rather than an error.
func (r *Registry) Load(name string) (*schema.Database, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	raw, err := r.storageEngine.ReadSnapshot(name)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return schema.NewDatabase(name), nil
		}
		return nil, err
	}

	db, err := snapshot.Decode(name, raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("Database loaded",
		slog.String("name", name),
		slog.Int("table_count", len(db.Tables)),
	)
	return db, nil
}

// Save overwrites the whole snapshot of db
func (r *Registry) Save(db *schema.Database) error {
	if db == nil {
		return fmt.Errorf("cannot save nil database")
	}
	if err := ValidateName(db.Name); err != nil {
		return err
	}

	raw, err := snapshot.Encode(db)
	if err != nil {
		return err
	}
	if err := r.storageEngine.WriteSnapshot(db.Name, raw); err != nil {
		return fmt.Errorf("failed to save database %s: %w", db.Name, err)
	}

	slog.Debug("Database saved",
		slog.String("name", db.Name),
		slog.Int("table_count", len(db.Tables)),
	)
	return nil
}

// Update loads the database, runs fn and saves the result. Nothing is
// written when fn fails.
func (r *Registry) Update(name string, fn func(db *schema.Database) error) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	unlock := r.lock(name)
	defer unlock()

	db, err := r.Load(name)
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return err
	}
	return r.Save(db)
}

// View loads the database and runs fn without saving
func (r *Registry) View(name string, fn func(db *schema.Database) error) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	unlock := r.lock(name)
	defer unlock()

	db, err := r.Load(name)
	if err != nil {
		return err
	}
	return fn(db)
}

// Close releases the storage engine
func (r *Registry) Close() error {
	return r.storageEngine.Close()
}
