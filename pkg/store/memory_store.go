package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Validate that MemoryStore implements the Store interface
var _ Store = &MemoryStore{}

// MemoryStore is an in-memory Store used in tests and dry runs. Records are
// kept JSON-encoded so serialization behavior matches the badger store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

// Open is a no-op for the memory store.
func (s *MemoryStore) Open(path string) error {
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Create creates a new record.
func (s *MemoryStore) Create(ctx context.Context, resourceType, name string, resource interface{}) error {
	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	key := string(makeKey(resourceType, name))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrAlreadyExists)
	}
	s.data[key] = data
	return nil
}

// Get retrieves a record.
func (s *MemoryStore) Get(ctx context.Context, resourceType, name string, resource interface{}) error {
	key := string(makeKey(resourceType, name))
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrNotFound)
	}
	return json.Unmarshal(data, resource)
}

// List retrieves all records of a given type into a slice pointer.
func (s *MemoryStore) List(ctx context.Context, resourceType string, resources interface{}) error {
	slicePtr := reflect.ValueOf(resources)
	if slicePtr.Kind() != reflect.Ptr || slicePtr.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("resources must be a pointer to a slice")
	}
	sliceVal := slicePtr.Elem()
	elemType := sliceVal.Type().Elem()

	prefix := resourceType + "/"
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, 0, len(keys))
	for _, k := range keys {
		values = append(values, s.data[k])
	}
	s.mu.RUnlock()

	for _, val := range values {
		elem := reflect.New(elemType)
		if err := json.Unmarshal(val, elem.Interface()); err != nil {
			return fmt.Errorf("failed to deserialize record: %w", err)
		}
		sliceVal.Set(reflect.Append(sliceVal, elem.Elem()))
	}
	return nil
}

// Upsert creates or replaces a record.
func (s *MemoryStore) Upsert(ctx context.Context, resourceType, name string, resource interface{}) error {
	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(makeKey(resourceType, name))] = data
	return nil
}

// Delete deletes a record.
func (s *MemoryStore) Delete(ctx context.Context, resourceType, name string) error {
	key := string(makeKey(resourceType, name))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return fmt.Errorf("%s %q: %w", resourceType, name, ErrNotFound)
	}
	delete(s.data, key)
	return nil
}
