package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/strato-sh/strato/pkg/log"
)

// Validate that BadgerStore implements the Store interface
var _ Store = &BadgerStore{}

// BadgerStore implements the Store interface using BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	path   string
	logger log.Logger
}

// NewBadgerStore creates a new BadgerDB-backed store.
func NewBadgerStore(logger log.Logger) *BadgerStore {
	if logger == nil {
		logger = log.GetDefaultLogger().WithComponent("store")
	} else {
		logger = logger.WithComponent("store")
	}
	return &BadgerStore{logger: logger}
}

// Open opens the BadgerDB database.
func (s *BadgerStore) Open(path string) error {
	s.path = path

	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogAdapter{logger: s.logger}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger db: %w", err)
	}
	s.db = db

	s.logger.Debug("Strato state store opened", log.Str("path", path))
	return nil
}

// Close closes the BadgerDB database.
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("Closing Strato state store", log.Str("path", s.path))
	return s.db.Close()
}

func makeKey(resourceType, name string) []byte {
	return []byte(fmt.Sprintf("%s/%s", resourceType, name))
}

// Create creates a new record.
func (s *BadgerStore) Create(ctx context.Context, resourceType, name string, resource interface{}) error {
	key := makeKey(resourceType, name)

	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if _, err := txn.Get(key); err == nil {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrAlreadyExists)
	} else if err != badger.ErrKeyNotFound {
		return fmt.Errorf("failed to check existing record: %w", err)
	}

	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a record.
func (s *BadgerStore) Get(ctx context.Context, resourceType, name string, resource interface{}) error {
	key := makeKey(resourceType, name)

	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, resource)
	})
}

// List retrieves all records of a given type into a slice pointer.
func (s *BadgerStore) List(ctx context.Context, resourceType string, resources interface{}) error {
	slicePtr := reflect.ValueOf(resources)
	if slicePtr.Kind() != reflect.Ptr || slicePtr.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("resources must be a pointer to a slice")
	}
	sliceVal := slicePtr.Elem()
	elemType := sliceVal.Type().Elem()

	prefix := []byte(resourceType + "/")
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				elem := reflect.New(elemType)
				if err := json.Unmarshal(val, elem.Interface()); err != nil {
					return fmt.Errorf("failed to deserialize record: %w", err)
				}
				sliceVal.Set(reflect.Append(sliceVal, elem.Elem()))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert creates or replaces a record.
func (s *BadgerStore) Upsert(ctx context.Context, resourceType, name string, resource interface{}) error {
	key := makeKey(resourceType, name)

	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Delete deletes a record.
func (s *BadgerStore) Delete(ctx context.Context, resourceType, name string) error {
	key := makeKey(resourceType, name)

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("failed to check existing record: %w", err)
	}

	if err := txn.Delete(key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return txn.Commit()
}

// badgerLogAdapter routes badger's internal logging through our logger.
type badgerLogAdapter struct {
	logger log.Logger
}

func (a *badgerLogAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Errorf(strings.TrimSpace(format), args...)
}

func (a *badgerLogAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warnf(strings.TrimSpace(format), args...)
}

func (a *badgerLogAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debugf(strings.TrimSpace(format), args...)
}

func (a *badgerLogAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debugf(strings.TrimSpace(format), args...)
}
