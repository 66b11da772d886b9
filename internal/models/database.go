package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store holding all user records. The unit of
// durability is a whole UserRecord: every mutation writes the record back
// in one transaction.
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens (or creates) the database at path
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Load retrieves every user record. Returns an empty slice when the
// database has no users yet.
func (db *Database) Load() ([]*UserRecord, error) {
	var records []*UserRecord
	if err := db.store.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if records == nil {
		records = []*UserRecord{}
	}
	return records, nil
}

// FindUserByID retrieves one user record by id
func (db *Database) FindUserByID(id string) (*UserRecord, error) {
	var record UserRecord
	err := db.store.Get(id, &record)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &record, nil
}

// FindUserByEmail retrieves one user record by email
func (db *Database) FindUserByEmail(email string) (*UserRecord, error) {
	var record UserRecord
	err := db.store.FindOne(&record, bolthold.Where("Email").Eq(email).Index("Email"))
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &record, nil
}

// FindUserByUsername retrieves one user record by username
func (db *Database) FindUserByUsername(username string) (*UserRecord, error) {
	var record UserRecord
	err := db.store.FindOne(&record, bolthold.Where("Username").Eq(username).Index("Username"))
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &record, nil
}

// CreateUser inserts a new user record keyed by its ID
func (db *Database) CreateUser(record *UserRecord) error {
	record.CreatedAt = time.Now()
	if err := db.store.Insert(record.ID, record); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// SaveUser writes a whole user record back, replacing the stored one
func (db *Database) SaveUser(record *UserRecord) error {
	if err := db.store.Upsert(record.ID, record); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Backup writes a consistent snapshot of the database to path
func (db *Database) Backup(path string) error {
	err := db.store.Bolt().View(func(tx *bbolt.Tx) error {
		return tx.CopyFile(path, 0600)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
