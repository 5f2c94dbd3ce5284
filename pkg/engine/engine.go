package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

// Config wires the engine's collaborators. Registry and Operations are
// required; the rest default to safe no-ops or stdio.
type Config struct {
	Registry    Registry
	Operations  Operations
	Work        WorkLister
	Local       LocalClassifier
	Comparator  ResourceComparator
	Prompter    Prompter
	Reserved    ReservedTable
	Output      io.Writer
	Logger      log.Logger
	Parallelism int
	Progress    bool
}

// Engine drives batch lifecycle operations end to end: resolve targets,
// guard reserved clusters, validate per-cluster legality, confirm once,
// then execute concurrently.
type Engine struct {
	registry  Registry
	ops       Operations
	local     LocalClassifier
	cmp       ResourceComparator
	prompter  Prompter
	reserved  ReservedTable
	out       io.Writer
	logger    log.Logger
	resolver  *Resolver
	guard     *Guard
	validator *Validator
	executor  *Executor
}

// New creates an engine from the given configuration.
func New(cfg Config) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("engine requires a registry")
	}
	if cfg.Operations == nil {
		return nil, fmt.Errorf("engine requires an operations collaborator")
	}
	if cfg.Work == nil {
		cfg.Work = noWork{}
	}
	if cfg.Comparator == nil {
		cfg.Comparator = defaultComparator{}
	}
	if cfg.Prompter == nil {
		cfg.Prompter = NewStdinPrompter()
	}
	if cfg.Reserved == nil {
		cfg.Reserved = DefaultReservedTable()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetDefaultLogger()
	}

	logger := cfg.Logger.WithComponent("engine")
	return &Engine{
		registry:  cfg.Registry,
		ops:       cfg.Operations,
		local:     cfg.Local,
		cmp:       cfg.Comparator,
		prompter:  cfg.Prompter,
		reserved:  cfg.Reserved,
		out:       cfg.Output,
		logger:    logger,
		resolver:  NewResolver(cfg.Registry, cfg.Local, cfg.Output),
		guard:     NewGuard(cfg.Reserved, cfg.Registry, cfg.Work, cfg.Prompter, cfg.Output, logger),
		validator: &Validator{},
		executor:  NewExecutor(cfg.Parallelism, cfg.Output, logger, cfg.Progress),
	}, nil
}

// operationPhrase is the gerund used in prompts and per-cluster messages.
func operationPhrase(req *types.OperationRequest) string {
	switch req.Kind {
	case types.OpDown:
		return "Terminating"
	case types.OpStart:
		return "Restarting"
	case types.OpSetAutostop:
		switch {
		case req.Cancel():
			return "Cancelling auto{stop,down} on"
		case req.Autodown:
			return "Scheduling autodown on"
		default:
			return "Scheduling autostop on"
		}
	default:
		return "Stopping"
	}
}

// DownOrStop runs a stop, down or autostop batch. The returned report has
// one outcome per executed target; usage errors and safety violations are
// returned before anything runs.
func (e *Engine) DownOrStop(ctx context.Context, req *types.OperationRequest) (*types.BatchReport, error) {
	if req.Kind != types.OpStop && req.Kind != types.OpDown && req.Kind != types.OpSetAutostop {
		return nil, fmt.Errorf("internal error: DownOrStop got kind %q", req.Kind)
	}
	if err := e.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	operation := operationPhrase(req)
	noConfirm := req.Yes

	names := append([]string(nil), req.Patterns...)
	if len(names) == 0 && !req.All {
		fallback, err := e.singleClusterFallback(ctx, string(req.Kind))
		if err != nil {
			return nil, err
		}
		names = fallback
	}

	if len(names) > 0 {
		reserved, _ := e.guard.Partition(names)

		resolved, err := e.resolver.Resolve(ctx, names, false)
		if err != nil {
			return nil, err
		}
		_, ordinary := e.guard.Partition(resolved)

		if req.Kind != types.OpDown {
			ordinary = e.filterLocal(ordinary, fmt.Sprintf(
				"Skipping local cluster %%s, as it does not support `strato %s`.", req.Kind))
		}

		if err := e.guard.CheckBatch(reserved, ordinary, req.Kind, operation); err != nil {
			return nil, err
		}
		if len(reserved) > 0 {
			proceed, err := e.guard.CheckTeardown(ctx, reserved[0])
			if err != nil {
				return nil, err
			}
			if !proceed {
				// Already torn down; nothing left to do for this batch.
				reserved = nil
			}
			noConfirm = true
		}
		names = append(ordinary, reserved...)
	}

	if req.All {
		if len(names) > 0 {
			fmt.Fprintf(e.out, "Both --all and cluster(s) specified for `strato %s`. Letting --all take effect.\n", req.Kind)
		}
		all, err := e.nonReservedNames(ctx)
		if err != nil {
			return nil, err
		}
		names = all
	}

	targets, err := e.registeredOnly(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		fmt.Fprintln(e.out, "Cluster(s) not found (tip: see `strato status`).")
		return &types.BatchReport{}, nil
	}

	if !noConfirm {
		if err := e.confirmBatch(operation, targets); err != nil {
			return nil, err
		}
	}

	title := fmt.Sprintf("%s %d %s", operation, len(targets), plural("cluster", len(targets)))
	return e.executor.Run(ctx, title, targets, e.downOrStopOperation(req, operation)), nil
}

// Start runs a start batch.
func (e *Engine) Start(ctx context.Context, req *types.OperationRequest) (*types.BatchReport, error) {
	if req.Kind != types.OpStart {
		return nil, fmt.Errorf("internal error: Start got kind %q", req.Kind)
	}
	if err := e.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	names := append([]string(nil), req.Patterns...)
	if len(names) == 0 && !req.All {
		fallback, err := e.singleClusterFallback(ctx, "start")
		if err != nil {
			return nil, err
		}
		names = fallback
	}

	if req.All {
		if len(names) > 0 {
			fmt.Fprintln(e.out, "Both --all and cluster(s) specified for `strato start`. Letting --all take effect.")
		}
		all, err := e.nonReservedNames(ctx)
		if err != nil {
			return nil, err
		}
		names = all
	} else {
		resolved, err := e.resolver.Resolve(ctx, names, false)
		if err != nil {
			return nil, err
		}
		names = resolved
	}

	names = e.filterLocal(names, "Skipping local cluster %s, as it does not support `strato start`.")

	if len(names) == 0 {
		fmt.Fprintln(e.out, "Cluster(s) not found (tip: see `strato status`). "+
			"Do you mean to use `strato launch` to provision a new cluster?")
		return &types.BatchReport{}, nil
	}

	var toStart []string
	for _, name := range names {
		ref, err := e.registry.GetCluster(ctx, name)
		if errors.Is(err, types.ErrClusterNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to refresh status of %q: %w", name, err)
		}
		v := e.validator.ValidateCluster(ref, req)
		if v.SkipMessage != "" {
			fmt.Fprintln(e.out, v.SkipMessage)
			continue
		}
		if v.Err != nil {
			return nil, v.Err
		}
		toStart = append(toStart, name)
	}
	if len(toStart) == 0 {
		return &types.BatchReport{}, nil
	}

	reserved, ordinary := e.guard.Partition(toStart)
	if len(reserved) > 0 {
		if len(ordinary) > 0 {
			return nil, types.NewUsageErrorf(
				"Starting the reserved cluster(s) %s with other cluster(s) is currently not supported.\n"+
					"Please start the former independently.", quoteJoin(reserved))
		}
		if req.IdleMinutesSet {
			return nil, types.NewUsageErrorf(
				"Autostop options are currently not allowed when starting the reserved cluster. "+
					"Use the default settings by directly calling: %s",
				format.Highlight("strato start %s", reserved[0]))
		}
	}

	if !req.Yes {
		if err := e.confirmBatch("Restarting", toStart); err != nil {
			return nil, err
		}
	}

	title := fmt.Sprintf("Restarting %d %s", len(toStart), plural("cluster", len(toStart)))
	return e.executor.Run(ctx, title, toStart, e.startOperation(req)), nil
}

func (e *Engine) downOrStopOperation(req *types.OperationRequest, operation string) Operation {
	return func(ctx context.Context, name string) types.BatchOutcome {
		ref, err := e.registry.GetCluster(ctx, name)
		if err != nil {
			return types.BatchOutcome{Name: name, Message: fmt.Sprintf(
				"%s cluster %s...failed.\nReason: %v", operation, name, err), Err: err}
		}
		v := e.validator.ValidateCluster(ref, req)
		if v.SkipMessage != "" {
			return types.BatchOutcome{Name: name, OK: true, Message: v.SkipMessage}
		}
		if v.Err != nil {
			return types.BatchOutcome{Name: name, Message: v.Err.Error(), Err: v.Err}
		}

		if req.Kind == types.OpSetAutostop {
			return e.applyAutostop(ctx, name, req, operation)
		}

		if req.Kind == types.OpDown {
			err = e.ops.Down(ctx, name, req.Purge)
		} else {
			err = e.ops.Stop(ctx, name, req.Purge)
		}
		if err != nil {
			if types.IsNotSupportedError(err) || types.IsClusterNotUpError(err) {
				return types.BatchOutcome{Name: name, Message: err.Error(), Err: err}
			}
			perr := types.NewProviderError(string(req.Kind), name, err)
			return types.BatchOutcome{Name: name, Message: fmt.Sprintf(
				"%s cluster %s...failed.\nReason: %v", operation, name, err), Err: perr}
		}

		message := format.Success("%s cluster %s...done.", operation, name)
		if req.Kind == types.OpStop {
			message += fmt.Sprintf("\n  To restart the cluster, run: %s", format.Highlight("strato start %s", name))
		}
		return types.BatchOutcome{Name: name, OK: true, Message: message}
	}
}

func (e *Engine) applyAutostop(ctx context.Context, name string, req *types.OperationRequest, operation string) types.BatchOutcome {
	err := e.ops.SetAutostop(ctx, name, req.IdleMinutes, req.Autodown)
	if err != nil {
		if types.IsNotSupportedError(err) || types.IsClusterNotUpError(err) {
			return types.BatchOutcome{Name: name, Message: err.Error(), Err: err}
		}
		perr := types.NewProviderError("autostop", name, err)
		return types.BatchOutcome{Name: name, Message: fmt.Sprintf(
			"%s cluster %s...failed.\nReason: %v", operation, name, err), Err: perr}
	}

	message := format.Success("%s cluster %s...done.", operation, name)
	if req.IdleMinutes >= 0 {
		option := "stop"
		passive := "stopped"
		if req.Autodown {
			option = "down"
			passive = "downed"
		}
		message += fmt.Sprintf(
			"\n  The cluster will be auto%s after %d %s of idleness."+
				"\n  To cancel the auto%s, run: %s",
			passive, req.IdleMinutes, plural("minute", req.IdleMinutes), option,
			format.Highlight("strato autostop %s --cancel", name))
	}
	return types.BatchOutcome{Name: name, OK: true, Message: message}
}

func (e *Engine) startOperation(req *types.OperationRequest) Operation {
	idleMinutes := types.AutostopCancel
	if req.IdleMinutesSet {
		idleMinutes = req.IdleMinutes
	}
	return func(ctx context.Context, name string) types.BatchOutcome {
		err := e.ops.Start(ctx, name, idleMinutes, req.RetryUntilUp, req.Autodown, req.Force)
		if err != nil {
			if types.IsNotSupportedError(err) {
				return types.BatchOutcome{Name: name, Message: err.Error(), Err: err}
			}
			perr := types.NewProviderError("start", name, err)
			return types.BatchOutcome{Name: name, Message: fmt.Sprintf(
				"Restarting cluster %s...failed.\nReason: %v", name, err), Err: perr}
		}
		return types.BatchOutcome{Name: name, OK: true, Message: format.Success("Cluster %s started.", name)}
	}
}

// singleClusterFallback implements the no-target UX: with at most one
// registered cluster, target it implicitly; otherwise demand targets.
func (e *Engine) singleClusterFallback(ctx context.Context, command string) ([]string, error) {
	all, err := e.resolver.AllNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) <= 1 {
		return all, nil
	}
	return nil, types.NewUsageErrorf(
		"`strato %s` requires either a cluster name or glob (see `strato status`), or the -a/--all flag", command)
}

func (e *Engine) nonReservedNames(ctx context.Context) ([]string, error) {
	all, err := e.resolver.AllNames(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range all {
		if _, ok := e.reserved.Group(name); !ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (e *Engine) registeredOnly(ctx context.Context, names []string) ([]string, error) {
	var targets []string
	for _, name := range names {
		_, err := e.registry.GetCluster(ctx, name)
		if errors.Is(err, types.ErrClusterNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up cluster %q: %w", name, err)
		}
		targets = append(targets, name)
	}
	return targets, nil
}

func (e *Engine) filterLocal(names []string, noticeFormat string) []string {
	if e.local == nil {
		return names
	}
	var kept []string
	for _, name := range names {
		if e.local.IsLocal(name) {
			fmt.Fprintf(e.out, noticeFormat+"\n", name)
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

func (e *Engine) confirmBatch(operation string, targets []string) error {
	prompt := fmt.Sprintf("%s %d %s: %s. Proceed?",
		operation, len(targets), plural("cluster", len(targets)), joinNames(targets))
	ok, err := e.prompter.Confirm(prompt, true)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrPromptDeclined
	}
	return nil
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
