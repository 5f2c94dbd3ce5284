package engine

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

const testController = "strato-jobs-controller"

// fakeRegistry is an in-memory Registry with deterministic list order.
type fakeRegistry struct {
	mu       sync.Mutex
	order    []string
	clusters map[string]*types.ClusterRef
}

func newFakeRegistry(refs ...*types.ClusterRef) *fakeRegistry {
	r := &fakeRegistry{clusters: map[string]*types.ClusterRef{}}
	for _, ref := range refs {
		r.order = append(r.order, ref.Name)
		r.clusters[ref.Name] = ref
	}
	return r
}

func (r *fakeRegistry) ListClusters(ctx context.Context) ([]*types.ClusterRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	refs := make([]*types.ClusterRef, 0, len(r.order))
	for _, name := range r.order {
		if ref, ok := r.clusters[name]; ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (r *fakeRegistry) GetCluster(ctx context.Context, name string) (*types.ClusterRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.clusters[name]
	if !ok {
		return nil, types.ErrClusterNotFound
	}
	return ref, nil
}

func (r *fakeRegistry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clusters, name)
}

// spyOps records every lifecycle call and optionally fails named targets.
type spyOps struct {
	mu        sync.Mutex
	stops     map[string]int
	downs     map[string]int
	starts    map[string]int
	autostops map[string]int

	// lastAutostop records the arguments of the most recent SetAutostop.
	lastAutostopMinutes int
	lastAutostopDown    bool

	// lastStartIdle records the idleMinutes of the most recent Start.
	lastStartIdle int

	// errs fails any operation on the named cluster.
	errs map[string]error
}

func newSpyOps() *spyOps {
	return &spyOps{
		stops:     map[string]int{},
		downs:     map[string]int{},
		starts:    map[string]int{},
		autostops: map[string]int{},
		errs:      map[string]error{},
	}
}

func (s *spyOps) Stop(ctx context.Context, name string, purge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops[name]++
	return s.errs[name]
}

func (s *spyOps) Down(ctx context.Context, name string, purge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downs[name]++
	return s.errs[name]
}

func (s *spyOps) Start(ctx context.Context, name string, idleMinutes int, retryUntilUp, down, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts[name]++
	s.lastStartIdle = idleMinutes
	return s.errs[name]
}

func (s *spyOps) SetAutostop(ctx context.Context, name string, idleMinutes int, down bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autostops[name]++
	s.lastAutostopMinutes = idleMinutes
	s.lastAutostopDown = down
	return s.errs[name]
}

func (s *spyOps) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, m := range []map[string]int{s.stops, s.downs, s.starts, s.autostops} {
		for _, n := range m {
			total += n
		}
	}
	return total
}

// fakeWork serves canned non-terminal work items for a controller.
type fakeWork struct {
	items []types.WorkItem
	err   error
}

func (w *fakeWork) NonTerminalWork(ctx context.Context, reservedName string) ([]types.WorkItem, error) {
	return w.items, w.err
}

type testHarness struct {
	engine   *Engine
	registry *fakeRegistry
	ops      *spyOps
	prompter *ScriptedPrompter
	out      *bytes.Buffer
}

func newTestHarness(t *testing.T, reg *fakeRegistry, opts ...func(*Config)) *testHarness {
	t.Helper()
	ops := newSpyOps()
	prompter := &ScriptedPrompter{}
	out := &bytes.Buffer{}
	cfg := Config{
		Registry:    reg,
		Operations:  ops,
		Prompter:    prompter,
		Output:      out,
		Logger:      log.NewTestLogger(),
		Parallelism: 4,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	eng, err := New(cfg)
	require.NoError(t, err)
	return &testHarness{engine: eng, registry: reg, ops: ops, prompter: prompter, out: out}
}

func upCluster(name string) *types.ClusterRef {
	return &types.ClusterRef{Name: name, Status: types.StatusUp, AutostopMinutes: types.AutostopCancel}
}

func stoppedCluster(name string) *types.ClusterRef {
	return &types.ClusterRef{Name: name, Status: types.StatusStopped, AutostopMinutes: types.AutostopCancel}
}

func initCluster(name string) *types.ClusterRef {
	return &types.ClusterRef{Name: name, Status: types.StatusInit, AutostopMinutes: types.AutostopCancel}
}

func reservedCluster(status types.ClusterStatus) *types.ClusterRef {
	return &types.ClusterRef{
		Name:            testController,
		Status:          status,
		ReservedGroup:   "job-controller",
		AutostopMinutes: types.AutostopCancel,
	}
}
