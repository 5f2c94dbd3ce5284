package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

// TeardownConfirmation is the literal the user must type to tear down a
// reserved cluster. A yes/no answer is not enough because the action
// destroys the controller's persisted operational history.
const TeardownConfirmation = "delete"

// ReservedTable maps reserved cluster names to their reserved group.
// Injected at construction so tests can register synthetic names.
type ReservedTable map[string]string

// DefaultReservedTable returns the built-in reserved cluster names.
func DefaultReservedTable() ReservedTable {
	return ReservedTable{
		"strato-jobs-controller": "job-controller",
	}
}

// Group returns the reserved group for name, if any.
func (t ReservedTable) Group(name string) (string, bool) {
	group, ok := t[name]
	return group, ok
}

// Names returns the reserved names in the table.
func (t ReservedTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return names
}

// Guard classifies targets as reserved or ordinary and enforces the
// reserved-cluster protocols.
type Guard struct {
	table    ReservedTable
	registry Registry
	work     WorkLister
	prompter Prompter
	out      io.Writer
	logger   log.Logger
}

// NewGuard creates a reserved-cluster guard.
func NewGuard(table ReservedTable, registry Registry, work WorkLister, prompter Prompter, out io.Writer, logger log.Logger) *Guard {
	if work == nil {
		work = noWork{}
	}
	return &Guard{
		table:    table,
		registry: registry,
		work:     work,
		prompter: prompter,
		out:      out,
		logger:   logger.WithComponent("guard"),
	}
}

// Partition splits names into reserved and ordinary, preserving order.
func (g *Guard) Partition(names []string) (reserved, ordinary []string) {
	for _, name := range names {
		if _, ok := g.table.Group(name); ok {
			reserved = append(reserved, name)
		} else {
			ordinary = append(ordinary, name)
		}
	}
	return reserved, ordinary
}

// CheckBatch enforces that reserved and ordinary clusters never share a
// batch, and that reserved clusters only accept teardown. The operation
// phrase is used in error messages ("Stopping", "Terminating", ...).
func (g *Guard) CheckBatch(reserved, ordinary []string, kind types.OperationKind, operation string) error {
	if len(reserved) == 0 {
		return nil
	}
	reservedStr := quoteJoin(reserved)
	if len(ordinary) > 0 {
		return types.NewUsageErrorf(
			"%s reserved cluster(s) %s with other cluster(s) %s is currently not supported.\n"+
				"Please omit the reserved cluster(s) %s.",
			operation, reservedStr, quoteJoin(ordinary), reservedStr)
	}
	if kind != types.OpDown {
		return types.NewUsageErrorf(
			"%s reserved cluster(s) %s is currently not supported. "+
				"It is auto-managed and will stop on its own once all of its managed work finishes.",
			operation, reservedStr)
	}
	// Only one reserved cluster exists per reserved group. More than one in
	// a batch means the table itself is broken, not a user mistake.
	if len(reserved) > 1 {
		return fmt.Errorf("internal error: multiple reserved clusters in one batch: %s", reservedStr)
	}
	return nil
}

// CheckTeardown runs the teardown safety protocol for one reserved
// cluster. It returns true when the teardown may proceed. A false return
// with nil error means the controller is already gone (no-op success).
func (g *Guard) CheckTeardown(ctx context.Context, name string) (bool, error) {
	// Decide from live state, not the batch's cached view.
	ref, err := g.registry.GetCluster(ctx, name)
	if errors.Is(err, types.ErrClusterNotFound) {
		fmt.Fprintf(g.out, "Reserved cluster %s has already been torn down.\n", name)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to refresh status of %q: %w", name, err)
	}

	if ref.Status == types.StatusInit {
		return false, &types.TeardownAbortedError{
			Name: name,
			Reason: "the controller is in INIT state (a launch is in progress or a previous " +
				"launch failed), so in-flight managed work cannot be accounted for; wait until " +
				"it is UP or repair it with " + fmt.Sprintf("`strato start %s`", name),
		}
	}

	fmt.Fprintf(g.out, "%s\n", format.Warning(
		"WARNING: Tearing down the reserved cluster %s (%s). All logs and status "+
			"information of its managed work will be lost.", name, ref.Status))

	if ref.Status == types.StatusUp {
		items, err := g.work.NonTerminalWork(ctx, name)
		if err != nil {
			var notUp *types.ClusterNotUpError
			if !errors.As(err, &notUp) {
				return false, fmt.Errorf("failed to query managed work of %q: %w", name, err)
			}
			// Status changed under us while querying; nothing is running.
			items = nil
		}
		if len(items) > 0 {
			lines := make([]string, 0, len(items))
			for _, item := range items {
				lines = append(lines, fmt.Sprintf("  %s\t%s\t%s", item.ID, item.Name, item.Status))
			}
			return false, &types.TeardownAbortedError{
				Name: name,
				Reason: fmt.Sprintf(
					"in-progress managed work found; cancel it first with `strato jobs cancel -a`:\n%s",
					strings.Join(lines, "\n")),
			}
		}
		fmt.Fprintln(g.out, " * No in-progress managed work found. It should be safe to terminate.")
	}

	answer, err := g.prompter.Ask(fmt.Sprintf(
		"To proceed, please check the warning above and type %s",
		format.Highlight("%q", TeardownConfirmation)))
	if err != nil {
		return false, err
	}
	if answer != TeardownConfirmation {
		g.logger.Debug("teardown confirmation mismatched", log.Str("cluster", name))
		return false, types.ErrPromptDeclined
	}
	return true, nil
}

func quoteJoin(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}
	return strings.Join(quoted, ", ")
}
