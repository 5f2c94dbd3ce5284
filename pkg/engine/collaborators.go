// Package engine implements the cluster lifecycle orchestration core:
// name resolution, reserved-cluster guarding, per-cluster legality checks
// and concurrent batch execution.
package engine

import (
	"context"

	"github.com/strato-sh/strato/pkg/types"
)

// Registry exposes lookup and enumeration of known clusters and their
// cached state. Implemented elsewhere (see pkg/registry); the engine only
// reads through it.
type Registry interface {
	// ListClusters returns every registered cluster record.
	ListClusters(ctx context.Context) ([]*types.ClusterRef, error)

	// GetCluster returns the record for name, or types.ErrClusterNotFound.
	GetCluster(ctx context.Context, name string) (*types.ClusterRef, error)
}

// Operations performs the actual per-cluster lifecycle calls. The engine
// decides legality and fan-out; Operations owns the side effects.
type Operations interface {
	Stop(ctx context.Context, name string, purge bool) error
	Down(ctx context.Context, name string, purge bool) error
	Start(ctx context.Context, name string, idleMinutes int, retryUntilUp, down, force bool) error
	SetAutostop(ctx context.Context, name string, idleMinutes int, down bool) error
}

// WorkLister queries the in-progress managed work tracked by a reserved
// controller cluster.
type WorkLister interface {
	NonTerminalWork(ctx context.Context, reservedName string) ([]types.WorkItem, error)
}

// LocalClassifier reports whether a name belongs to a local (on-prem)
// cluster. Local clusters support down but not stop/autostop/start.
type LocalClassifier interface {
	IsLocal(name string) bool
}

// ResourceComparator decides whether requested resources are satisfied by
// what a cluster was launched with.
type ResourceComparator interface {
	LessDemanding(requested, launched *types.Resources) bool
}

// LocalClassifierFunc adapts a function to the LocalClassifier interface.
type LocalClassifierFunc func(name string) bool

func (f LocalClassifierFunc) IsLocal(name string) bool {
	return f(name)
}

// defaultComparator applies the resource partial order from pkg/types.
type defaultComparator struct{}

func (defaultComparator) LessDemanding(requested, launched *types.Resources) bool {
	return requested.LessDemandingThan(launched)
}

// noWork is the WorkLister used when no controller work source is wired.
type noWork struct{}

func (noWork) NonTerminalWork(ctx context.Context, reservedName string) ([]types.WorkItem, error) {
	return nil, nil
}
