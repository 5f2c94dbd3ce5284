package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
	"golang.org/x/sync/semaphore"
)

// DefaultParallelism bounds how many per-cluster operations run at once.
const DefaultParallelism = 8

// Operation is the validated per-cluster closure executed by the batch
// executor. It must not panic; failures are returned in the outcome.
type Operation func(ctx context.Context, name string) types.BatchOutcome

// Executor fans one operation out across many clusters. Completions are
// rendered as they land; a single consumer drains the result channel so
// concurrent completions never interleave on the terminal.
type Executor struct {
	limit    int64
	out      io.Writer
	logger   log.Logger
	progress bool
}

// NewExecutor creates a batch executor. limit <= 0 selects the default.
func NewExecutor(limit int, out io.Writer, logger log.Logger, progress bool) *Executor {
	if limit <= 0 {
		limit = DefaultParallelism
	}
	return &Executor{
		limit:    int64(limit),
		out:      out,
		logger:   logger.WithComponent("executor"),
		progress: progress,
	}
}

// Run executes fn once per name with bounded parallelism and returns the
// aggregated report. Order of outcomes is completion order. A cancelled
// context stops new dispatch; operations already in flight finish and are
// reported (cloud-side calls are not safely abortable mid-flight).
func (e *Executor) Run(ctx context.Context, title string, names []string, fn Operation) *types.BatchReport {
	report := &types.BatchReport{ID: uuid.NewString()}
	if len(names) == 0 {
		return report
	}

	e.logger.Debug("starting batch",
		log.Str("batch", report.ID),
		log.Str("title", title),
		log.Int("targets", len(names)))

	sem := semaphore.NewWeighted(e.limit)
	results := make(chan types.BatchOutcome, len(names))

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			// Acquire fails once the context is cancelled, which is what
			// stops new work from being dispatched.
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- types.BatchOutcome{
					Name:    name,
					Message: fmt.Sprintf("%s cluster %s...skipped (interrupted).", title, name),
					Err:     err,
				}
				return
			}
			defer sem.Release(1)
			// Cancellation only gates dispatch; an operation that already
			// started must run to completion, so it gets a context that
			// survives the batch context being cancelled.
			results <- fn(context.WithoutCancel(ctx), name)
		}(name)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var bar *pterm.ProgressbarPrinter
	if e.progress {
		bar, _ = pterm.DefaultProgressbar.
			WithTotal(len(names)).
			WithWriter(e.out).
			WithTitle(title).
			WithRemoveWhenDone(true).
			Start()
	}

	for outcome := range results {
		report.Outcomes = append(report.Outcomes, outcome)
		line := fmt.Sprintf("%s %s", format.StatusSymbol(outcome.OK), outcome.Message)
		if bar != nil {
			pterm.Fprintln(e.out, line)
			bar.Increment()
		} else {
			fmt.Fprintln(e.out, line)
		}
		e.logger.Debug("batch outcome",
			log.Str("batch", report.ID),
			log.Str("cluster", outcome.Name),
			log.Bool("ok", outcome.OK),
			log.Err(outcome.Err))
	}

	if bar != nil {
		bar.Stop()
	}
	// Leave a durable summary once the transient bar is gone.
	fmt.Fprintf(e.out, "%d of %d clusters succeeded.\n", report.Successes(), len(names))
	return report
}
