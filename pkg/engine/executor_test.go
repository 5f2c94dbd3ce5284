package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

func newTestExecutor(limit int) (*Executor, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewExecutor(limit, out, log.NewTestLogger(), false), out
}

func TestRunCollectsEveryOutcome(t *testing.T) {
	e, out := newTestExecutor(2)
	names := []string{"a", "b", "c", "d"}

	report := e.Run(context.Background(), "Stopping 4 clusters", names, func(ctx context.Context, name string) types.BatchOutcome {
		if name == "c" {
			err := errors.New("boom")
			return types.BatchOutcome{Name: name, Message: "failed", Err: err}
		}
		return types.BatchOutcome{Name: name, OK: true, Message: fmt.Sprintf("done %s", name)}
	})

	require.Len(t, report.Outcomes, 4)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.Successes())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "c", report.Failed()[0].Name)

	got := make([]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		got = append(got, o.Name)
	}
	sort.Strings(got)
	assert.Equal(t, names, got)
	assert.Contains(t, out.String(), "3 of 4 clusters succeeded.")
}

func TestRunBoundsParallelism(t *testing.T) {
	e, _ := newTestExecutor(2)

	var inFlight, peak int32
	var mu sync.Mutex
	report := e.Run(context.Background(), "Stopping", []string{"a", "b", "c", "d", "e"}, func(ctx context.Context, name string) types.BatchOutcome {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		defer atomic.AddInt32(&inFlight, -1)
		return types.BatchOutcome{Name: name, OK: true, Message: name}
	})

	assert.Len(t, report.Outcomes, 5)
	assert.LessOrEqual(t, peak, int32(2))
}

func TestRunEmptyTargets(t *testing.T) {
	e, out := newTestExecutor(0)

	report := e.Run(context.Background(), "Stopping", nil, func(ctx context.Context, name string) types.BatchOutcome {
		t.Fatal("operation must not run with no targets")
		return types.BatchOutcome{}
	})

	assert.Empty(t, report.Outcomes)
	assert.Empty(t, out.String())
}

func TestRunInFlightOperationFinishesAfterCancel(t *testing.T) {
	e, _ := newTestExecutor(1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	resume := make(chan struct{})
	go func() {
		<-started
		cancel()
		close(resume)
	}()

	report := e.Run(ctx, "Stopping", []string{"a"}, func(opCtx context.Context, name string) types.BatchOutcome {
		close(started)
		<-resume
		// The batch context is cancelled by now, but the operation's
		// own context must not be.
		select {
		case <-opCtx.Done():
			return types.BatchOutcome{Name: name, Message: "interrupted", Err: opCtx.Err()}
		default:
		}
		return types.BatchOutcome{Name: name, OK: true, Message: "done"}
	})

	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].OK)
	assert.NoError(t, report.Outcomes[0].Err)
}

func TestRunCancelledContextSkipsQueuedWork(t *testing.T) {
	e, _ := newTestExecutor(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	report := e.Run(ctx, "Stopping", []string{"a", "b", "c"}, func(ctx context.Context, name string) types.BatchOutcome {
		atomic.AddInt32(&calls, 1)
		return types.BatchOutcome{Name: name, OK: true, Message: name}
	})

	// Every target still gets an outcome, even when dispatch was refused.
	assert.Len(t, report.Outcomes, 3)
	assert.Zero(t, atomic.LoadInt32(&calls))
	for _, o := range report.Outcomes {
		assert.False(t, o.OK)
		assert.Contains(t, o.Message, "skipped (interrupted)")
	}
}
