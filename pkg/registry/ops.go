package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

// Provisioner performs the cloud-side part of a lifecycle operation.
// Implementations live in the provider layer; the pass-through default
// used by Ops does nothing, leaving only the registry bookkeeping.
type Provisioner interface {
	Stop(ctx context.Context, ref *types.ClusterRef) error
	Down(ctx context.Context, ref *types.ClusterRef) error
	Start(ctx context.Context, ref *types.ClusterRef, retryUntilUp bool) error
}

type nopProvisioner struct{}

func (nopProvisioner) Stop(ctx context.Context, ref *types.ClusterRef) error  { return nil }
func (nopProvisioner) Down(ctx context.Context, ref *types.ClusterRef) error  { return nil }
func (nopProvisioner) Start(ctx context.Context, ref *types.ClusterRef, retryUntilUp bool) error {
	return nil
}

// Ops applies lifecycle operations: it delegates the cloud round-trip to a
// Provisioner and records the resulting state transition in the registry.
type Ops struct {
	registry    *StoreRegistry
	provisioner Provisioner
	logger      log.Logger
}

// NewOps creates the operations collaborator. provisioner may be nil, in
// which case only registry bookkeeping happens.
func NewOps(registry *StoreRegistry, provisioner Provisioner, logger log.Logger) *Ops {
	if provisioner == nil {
		provisioner = nopProvisioner{}
	}
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Ops{registry: registry, provisioner: provisioner, logger: logger.WithComponent("ops")}
}

// Stop stops the cluster's instances and records the STOPPED status.
// With purge set, provider errors are suppressed and the transition is
// recorded anyway.
func (o *Ops) Stop(ctx context.Context, name string, purge bool) error {
	ref, err := o.registry.GetCluster(ctx, name)
	if err != nil {
		return err
	}
	if ref.LaunchedResources != nil && ref.LaunchedResources.Spot {
		return types.NewNotSupportedErrorf(
			"stopping cluster %q is not supported: spot instances cannot be stopped, only torn down", name)
	}

	if err := o.provisioner.Stop(ctx, ref); err != nil {
		if !purge {
			return err
		}
		o.logger.Warn("ignoring provider error (--purge)", log.Str("cluster", name), log.Err(err))
	}

	ref.Status = types.StatusStopped
	ref.AutostopMinutes = types.AutostopCancel
	ref.Autodown = false
	return o.registry.SaveCluster(ctx, ref)
}

// Down tears the cluster down and removes its registry record. With purge
// set, provider errors are suppressed and the record removed anyway.
func (o *Ops) Down(ctx context.Context, name string, purge bool) error {
	ref, err := o.registry.GetCluster(ctx, name)
	if err != nil {
		if errors.Is(err, types.ErrClusterNotFound) && purge {
			return nil
		}
		return err
	}

	if err := o.provisioner.Down(ctx, ref); err != nil {
		if !purge {
			return err
		}
		o.logger.Warn("ignoring provider error (--purge)", log.Str("cluster", name), log.Err(err))
	}

	return o.registry.RemoveCluster(ctx, name)
}

// Start brings the cluster up, optionally scheduling autostop/autodown.
// idleMinutes < 0 leaves any existing setting untouched.
func (o *Ops) Start(ctx context.Context, name string, idleMinutes int, retryUntilUp, down, force bool) error {
	ref, err := o.registry.GetCluster(ctx, name)
	if err != nil {
		return err
	}
	if ref.Status == types.StatusUp && !force {
		// Guarded upstream; kept as a defense for direct API use.
		return nil
	}

	if err := o.provisioner.Start(ctx, ref, retryUntilUp); err != nil {
		return fmt.Errorf("failed to start cluster %q: %w", name, err)
	}

	now := time.Now()
	ref.Status = types.StatusUp
	ref.LastActivity = now
	if ref.LaunchedAt.IsZero() {
		ref.LaunchedAt = now
	}
	if idleMinutes >= 0 {
		ref.AutostopMinutes = idleMinutes
		ref.Autodown = down
	}
	return o.registry.SaveCluster(ctx, ref)
}

// SetAutostop resets the cluster's idle timer setting. idleMinutes of
// types.AutostopCancel cancels any active setting.
func (o *Ops) SetAutostop(ctx context.Context, name string, idleMinutes int, down bool) error {
	ref, err := o.registry.GetCluster(ctx, name)
	if err != nil {
		return err
	}
	if ref.Status != types.StatusUp {
		return &types.ClusterNotUpError{Name: name, Status: ref.Status}
	}
	if ref.LaunchedResources != nil && ref.LaunchedResources.Spot {
		return types.NewNotSupportedErrorf(
			"autostop on cluster %q is not supported for spot instances", name)
	}

	if idleMinutes >= 0 && !ref.AutostopSet() {
		// Enabling autostop with no prior active setting restarts the
		// idle clock at the moment of setting.
		ref.LastActivity = time.Now()
	}
	if idleMinutes < 0 {
		ref.AutostopMinutes = types.AutostopCancel
		ref.Autodown = false
	} else {
		ref.AutostopMinutes = idleMinutes
		ref.Autodown = down
	}
	return o.registry.SaveCluster(ctx, ref)
}
