// Package store provides local state storage for the Strato CLI.
package store

import (
	"context"
)

// Store defines the interface for local state storage operations.
// Records are keyed by resource type and name and serialized as JSON.
type Store interface {
	// Open initializes and opens the store.
	Open(path string) error

	// Close closes the store and releases resources.
	Close() error

	// Create creates a new record. Fails if the record already exists.
	Create(ctx context.Context, resourceType, name string, resource interface{}) error

	// Get retrieves a record by type and name. Returns ErrNotFound when
	// the record does not exist.
	Get(ctx context.Context, resourceType, name string, resource interface{}) error

	// List retrieves all records of a given type into a slice pointer.
	List(ctx context.Context, resourceType string, resources interface{}) error

	// Upsert creates or replaces a record.
	Upsert(ctx context.Context, resourceType, name string, resource interface{}) error

	// Delete deletes a record. Returns ErrNotFound when absent.
	Delete(ctx context.Context, resourceType, name string) error
}

// Resource types stored by the CLI.
const (
	ResourceTypeCluster = "clusters"
	ResourceTypeWork    = "work"
)
