package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	domainerrors "github.com/leengari/recordstore/internal/domain/errors"
)

// BBoltFileName is the database file created inside the storage root
const BBoltFileName = "recordstore.bbolt"

var databasesBucket = []byte("databases")

// BBoltEngine keeps every snapshot as one value in a single bbolt file,
// keyed by database name
type BBoltEngine struct {
	db *bbolt.DB
}

// NewBBoltEngine opens (or creates) the bbolt file under dir
func NewBBoltEngine(dir string) (*BBoltEngine, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, BBoltFileName), 0644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt: open failed: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(databasesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt: create bucket failed: %w", err)
	}

	return &BBoltEngine{db: db}, nil
}

func bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bkt := tx.Bucket(databasesBucket)
	if bkt == nil {
		return nil, errors.New("bbolt: missing databases bucket")
	}
	return bkt, nil
}

// ListDatabases walks keys in byte order, which is sorted order
func (b *BBoltEngine) ListDatabases() ([]string, error) {
	databases := make([]string, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		return bkt.ForEach(func(k, _ []byte) error {
			databases = append(databases, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return databases, nil
}

func (b *BBoltEngine) Exists(name string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		exists = bkt.Get([]byte(name)) != nil
		return nil
	})
	return exists, err
}

func (b *BBoltEngine) CreateDatabase(name string, snapshot []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		if bkt.Get([]byte(name)) != nil {
			return &domainerrors.AlreadyExistsError{Kind: domainerrors.KindDatabase, Name: name}
		}
		return bkt.Put([]byte(name), snapshot)
	})
}

// ReadSnapshot copies the value out; bbolt memory is only valid inside the
// transaction
func (b *BBoltEngine) ReadSnapshot(name string) ([]byte, error) {
	var snapshot []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		val := bkt.Get([]byte(name))
		if val == nil {
			return &domainerrors.NotFoundError{Kind: domainerrors.KindDatabase, Name: name}
		}
		snapshot = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (b *BBoltEngine) WriteSnapshot(name string, snapshot []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(name), snapshot)
	})
}

func (b *BBoltEngine) DropDatabase(name string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := bucket(tx)
		if err != nil {
			return err
		}
		if bkt.Get([]byte(name)) == nil {
			return &domainerrors.NotFoundError{Kind: domainerrors.KindDatabase, Name: name}
		}
		return bkt.Delete([]byte(name))
	})
}

func (b *BBoltEngine) Close() error {
	return b.db.Close()
}
