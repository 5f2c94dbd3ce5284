// Package registry implements the cluster registry over the local state
// store, plus the registry-side effects of lifecycle operations.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/store"
	"github.com/strato-sh/strato/pkg/types"
)

// StoreRegistry reads and writes cluster records in a state store.
// Reads are safe for concurrent use; each write is scoped to one name.
type StoreRegistry struct {
	store  store.Store
	logger log.Logger
}

// New creates a registry over the given store.
func New(s store.Store, logger log.Logger) *StoreRegistry {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &StoreRegistry{store: s, logger: logger.WithComponent("registry")}
}

// ListClusters returns every registered cluster record, sorted by name.
func (r *StoreRegistry) ListClusters(ctx context.Context) ([]*types.ClusterRef, error) {
	var refs []types.ClusterRef
	if err := r.store.List(ctx, store.ResourceTypeCluster, &refs); err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	out := make([]*types.ClusterRef, 0, len(refs))
	for i := range refs {
		out = append(out, &refs[i])
	}
	return out, nil
}

// GetCluster returns the record for name, or types.ErrClusterNotFound.
func (r *StoreRegistry) GetCluster(ctx context.Context, name string) (*types.ClusterRef, error) {
	var ref types.ClusterRef
	err := r.store.Get(ctx, store.ResourceTypeCluster, name, &ref)
	if store.IsNotFound(err) {
		return nil, types.ErrClusterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster %q: %w", name, err)
	}
	return &ref, nil
}

// SaveCluster creates or replaces a cluster record.
func (r *StoreRegistry) SaveCluster(ctx context.Context, ref *types.ClusterRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	r.logger.Debug("saving cluster record",
		log.Str("cluster", ref.Name),
		log.Str("status", string(ref.Status)))
	return r.store.Upsert(ctx, store.ResourceTypeCluster, ref.Name, ref)
}

// RemoveCluster deletes a cluster record. Removing an absent record is
// not an error.
func (r *StoreRegistry) RemoveCluster(ctx context.Context, name string) error {
	err := r.store.Delete(ctx, store.ResourceTypeCluster, name)
	if store.IsNotFound(err) {
		return nil
	}
	return err
}
