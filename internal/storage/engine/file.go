package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leengari/recordstore/internal/domain/errors"
	"github.com/leengari/recordstore/internal/storage/writer"
)

const snapshotExt = ".json"

// FileEngine keeps one JSON file per database, named after the database
type FileEngine struct {
	basePath string
}

// NewFileEngine creates the storage root if needed
func NewFileEngine(basePath string) (*FileEngine, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileEngine{basePath: basePath}, nil
}

func (f *FileEngine) path(name string) string {
	return filepath.Join(f.basePath, name+snapshotExt)
}

// ListDatabases returns a list of all available databases in the base path
func (f *FileEngine) ListDatabases() ([]string, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read databases directory: %w", err)
	}

	databases := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		databases = append(databases, strings.TrimSuffix(name, snapshotExt))
	}

	sort.Strings(databases)
	return databases, nil
}

func (f *FileEngine) Exists(name string) (bool, error) {
	_, err := os.Stat(f.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat database %s: %w", name, err)
}

// CreateDatabase writes the initial snapshot. O_EXCL makes the existence
// check and the creation a single step.
func (f *FileEngine) CreateDatabase(name string, snapshot []byte) error {
	file, err := os.OpenFile(f.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return &errors.AlreadyExistsError{Kind: errors.KindDatabase, Name: name}
		}
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}

	if _, err := file.Write(snapshot); err != nil {
		file.Close()
		os.Remove(f.path(name))
		return fmt.Errorf("failed to write database %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close database %s: %w", name, err)
	}
	return nil
}

func (f *FileEngine) ReadSnapshot(name string) ([]byte, error) {
	raw, err := os.ReadFile(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Kind: errors.KindDatabase, Name: name}
		}
		return nil, fmt.Errorf("failed to read database %s: %w", name, err)
	}
	return raw, nil
}

func (f *FileEngine) WriteSnapshot(name string, snapshot []byte) error {
	return writer.WriteFileAtomic(f.path(name), snapshot, 0644)
}

// DropDatabase removes a database file
func (f *FileEngine) DropDatabase(name string) error {
	if err := os.Remove(f.path(name)); err != nil {
		if os.IsNotExist(err) {
			return &errors.NotFoundError{Kind: errors.KindDatabase, Name: name}
		}
		return fmt.Errorf("failed to remove database %s: %w", name, err)
	}
	return nil
}

func (f *FileEngine) Close() error {
	return nil
}
