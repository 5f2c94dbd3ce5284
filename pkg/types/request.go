package types

// OperationKind identifies a batch lifecycle operation.
type OperationKind string

const (
	OpStop        OperationKind = "stop"
	OpDown        OperationKind = "down"
	OpStart       OperationKind = "start"
	OpSetAutostop OperationKind = "autostop"
)

// AutostopCancel is the idle-minutes sentinel meaning "cancel any active
// autostop/autodown setting". It is the only valid negative value.
const AutostopCancel = -1

// OperationRequest is one user-issued batch lifecycle command.
type OperationRequest struct {
	// Kind of operation to run.
	Kind OperationKind

	// Patterns are the cluster names or glob patterns given on the
	// command line. Empty when All is set or when the single-cluster
	// fallback applies.
	Patterns []string

	// All targets every registered non-reserved cluster. When both All
	// and Patterns are given, All takes effect and the patterns are
	// ignored with a notice.
	All bool

	// Yes skips the batch confirmation prompt.
	Yes bool

	// Purge suppresses cloud-provider errors. Only meaningful for down.
	Purge bool

	// IdleMinutes is the autostop idle threshold. AutostopCancel cancels
	// the setting. Only meaningful for autostop and start.
	IdleMinutes int

	// IdleMinutesSet distinguishes "not given" from an explicit zero.
	IdleMinutesSet bool

	// Autodown tears the cluster down instead of stopping it when the
	// idle timer fires. Requires IdleMinutesSet.
	Autodown bool

	// Force restarts a cluster even when it is already UP. Only
	// meaningful for start.
	Force bool

	// RetryUntilUp retries provisioning until the cluster comes up.
	// Only meaningful for start.
	RetryUntilUp bool
}

// Cancel reports whether the request cancels an autostop setting.
func (r *OperationRequest) Cancel() bool {
	return r.Kind == OpSetAutostop && r.IdleMinutes < 0
}
