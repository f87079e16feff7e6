package engine

import (
	"fmt"
	"strings"
)

// StorageEngine persists database snapshots by name. Implementations store
// opaque snapshot bytes; encoding is done by the caller.
type StorageEngine interface {
	// ListDatabases returns the names of all stored databases, sorted
	ListDatabases() ([]string, error)

	// Exists reports whether a snapshot is stored under name
	Exists(name string) (bool, error)

	// CreateDatabase stores the initial snapshot, failing with
	// AlreadyExistsError if name is taken
	CreateDatabase(name string, snapshot []byte) error

	// ReadSnapshot returns the stored snapshot, or NotFoundError
	ReadSnapshot(name string) ([]byte, error)

	// WriteSnapshot replaces the stored snapshot in full
	WriteSnapshot(name string, snapshot []byte) error

	// DropDatabase removes the snapshot, or fails with NotFoundError
	DropDatabase(name string) error

	Close() error
}

// Backend names accepted by New
const (
	BackendFile  = "file"
	BackendBBolt = "bbolt"
)

// New opens the named backend rooted at dir
func New(backend, dir string) (StorageEngine, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFileEngine(dir)
	case BackendBBolt:
		return NewBBoltEngine(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
