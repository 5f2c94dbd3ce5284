package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/types"
)

// LaunchDecision is the computed confirmation requirement for bringing a
// cluster up. Pure data so the decision logic is testable without a
// terminal.
type LaunchDecision struct {
	// Prompt is the confirmation text, empty when no prompt is needed.
	Prompt string
}

// NeedsConfirm reports whether the user must be asked before proceeding.
func (d LaunchDecision) NeedsConfirm() bool {
	return d.Prompt != ""
}

// ComputeLaunchDecision decides whether bringing up the named cluster
// needs an interactive confirmation. ref is nil for unregistered names.
func ComputeLaunchDecision(name string, ref *types.ClusterRef, isLocal bool) LaunchDecision {
	if ref == nil {
		if isLocal {
			return LaunchDecision{Prompt: fmt.Sprintf("Initializing local cluster %q. Proceed?", name)}
		}
		return LaunchDecision{Prompt: fmt.Sprintf("Launching a new cluster %q. Proceed?", name)}
	}
	if ref.Status == types.StatusStopped {
		return LaunchDecision{Prompt: fmt.Sprintf("Restarting the stopped cluster %q. Proceed?", name)}
	}
	// Anything else is a plain reuse; nothing destructive or surprising.
	return LaunchDecision{}
}

// ConfirmLaunch runs the launch/attach confirmation flow for one cluster:
// resource compatibility against an existing record, then the prompt when
// one is required. It performs no provisioning itself.
func (e *Engine) ConfirmLaunch(ctx context.Context, name string, requested *types.Resources, noConfirm bool) error {
	ref, err := e.registry.GetCluster(ctx, name)
	if err != nil && !errors.Is(err, types.ErrClusterNotFound) {
		return fmt.Errorf("failed to look up cluster %q: %w", name, err)
	}

	if ref != nil && !requested.Empty() {
		if !e.cmp.LessDemanding(requested, ref.LaunchedResources) {
			return types.NewUsageErrorf(
				"Reusing cluster %q with mismatched resources.\n"+
					"    Requested resources: %s\n"+
					"    Launched resources:  %s\n"+
					"To reuse the cluster, drop the resource overrides: %s. "+
					"To launch with these resources, use a new name: %s",
				name, requested, ref.LaunchedResources,
				format.Highlight("strato launch %s", name),
				format.Highlight("strato launch -c NEW_NAME"))
		}
	}

	isLocal := e.local != nil && e.local.IsLocal(name)
	decision := ComputeLaunchDecision(name, ref, isLocal)
	if !decision.NeedsConfirm() || noConfirm {
		return nil
	}
	ok, err := e.prompter.Confirm(decision.Prompt, true)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrPromptDeclined
	}
	return nil
}
