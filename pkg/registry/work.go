package registry

import (
	"context"
	"fmt"

	"github.com/strato-sh/strato/pkg/store"
	"github.com/strato-sh/strato/pkg/types"
)

// WorkIndex lists the managed work tracked for reserved controller
// clusters. Work records are keyed "<controller>/<work-id>" in the store.
type WorkIndex struct {
	store store.Store
}

// NewWorkIndex creates a work index over the given store.
func NewWorkIndex(s store.Store) *WorkIndex {
	return &WorkIndex{store: s}
}

// workRecord is the stored shape of one managed work item.
type workRecord struct {
	Controller string         `json:"controller"`
	Item       types.WorkItem `json:"item"`
}

// Add records a work item for a controller.
func (w *WorkIndex) Add(ctx context.Context, controller string, item types.WorkItem) error {
	key := fmt.Sprintf("%s/%s", controller, item.ID)
	return w.store.Upsert(ctx, store.ResourceTypeWork, key, &workRecord{Controller: controller, Item: item})
}

// NonTerminalWork returns the controller's work items that can still
// change state.
func (w *WorkIndex) NonTerminalWork(ctx context.Context, reservedName string) ([]types.WorkItem, error) {
	var records []workRecord
	if err := w.store.List(ctx, store.ResourceTypeWork, &records); err != nil {
		return nil, fmt.Errorf("failed to list managed work: %w", err)
	}
	var items []types.WorkItem
	for _, rec := range records {
		if rec.Controller != reservedName {
			continue
		}
		if rec.Item.Status.Terminal() {
			continue
		}
		items = append(items, rec.Item)
	}
	return items, nil
}
