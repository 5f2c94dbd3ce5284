package engine

import (
	"fmt"

	"github.com/strato-sh/strato/pkg/types"
)

// Validation is the per-cluster legality decision for one operation.
// Exactly one of Proceed, Skip or Err applies.
type Validation struct {
	// Proceed means the collaborator call should be made.
	Proceed bool

	// SkipMessage, when non-empty, means the cluster is skipped as a
	// benign no-op (e.g. start on an already-UP cluster).
	SkipMessage string

	// Err is a hard per-cluster failure; no collaborator call is made.
	Err error
}

// Validator decides operation legality from cached cluster state.
type Validator struct{}

// ValidateRequest checks request-level consistency before any cluster is
// touched or any collaborator is called.
func (v *Validator) ValidateRequest(req *types.OperationRequest) error {
	if req.Autodown && !req.IdleMinutesSet {
		return types.NewUsageErrorf("--down requires --idle-minutes to be set")
	}
	if req.IdleMinutesSet && req.IdleMinutes < types.AutostopCancel {
		return types.NewUsageErrorf(
			"invalid idle minutes %d: must be non-negative, or %d to cancel",
			req.IdleMinutes, types.AutostopCancel)
	}
	return nil
}

// ValidateCluster decides whether the operation is legal for one cluster
// given its cached status. Unregistered clusters are filtered before this
// point and never reach the validator.
func (v *Validator) ValidateCluster(ref *types.ClusterRef, req *types.OperationRequest) Validation {
	switch req.Kind {
	case types.OpStop:
		if ref.Status == types.StatusStopped {
			return Validation{SkipMessage: fmt.Sprintf("Cluster %s is already stopped.", ref.Name)}
		}
		return Validation{Proceed: true}

	case types.OpDown:
		// Teardown is legal from any lifecycle point.
		return Validation{Proceed: true}

	case types.OpStart:
		if ref.Status == types.StatusUp && !req.Force {
			return Validation{SkipMessage: fmt.Sprintf("Cluster %s already has status UP.", ref.Name)}
		}
		return Validation{Proceed: true}

	case types.OpSetAutostop:
		// Resetting the idle timer is legal whenever the cluster is
		// known; unsupported cluster types are rejected by the
		// collaborator call itself and surfaced per cluster.
		return Validation{Proceed: true}

	default:
		return Validation{Err: fmt.Errorf("internal error: unknown operation kind %q", req.Kind)}
	}
}
