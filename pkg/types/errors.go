package types

import (
	"errors"
	"fmt"
)

// ErrClusterNotFound is returned by registry lookups for unregistered names.
var ErrClusterNotFound = errors.New("cluster not found")

// ErrPromptDeclined is returned when the user declines a confirmation prompt.
var ErrPromptDeclined = errors.New("aborted by user")

// ValidationError represents an error that occurs during record validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UsageError is a malformed or contradictory request. It is reported before
// any per-cluster operation is attempted.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageErrorf creates a UsageError from a format string.
func NewUsageErrorf(format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// IsUsageError checks if an error is a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// NotSupportedError means the operation is illegal for this cluster's
// nature, e.g. stopping a reserved controller or autostop on a cluster type
// that never supports it.
type NotSupportedError struct {
	Message string
}

func (e *NotSupportedError) Error() string {
	return e.Message
}

// NewNotSupportedErrorf creates a NotSupportedError from a format string.
func NewNotSupportedErrorf(format string, args ...interface{}) *NotSupportedError {
	return &NotSupportedError{Message: fmt.Sprintf(format, args...)}
}

// IsNotSupportedError checks if an error is a NotSupportedError.
func IsNotSupportedError(err error) bool {
	var ne *NotSupportedError
	return errors.As(err, &ne)
}

// ClusterNotUpError means the operation required an up cluster but the
// cluster is not up.
type ClusterNotUpError struct {
	Name   string
	Status ClusterStatus
}

func (e *ClusterNotUpError) Error() string {
	return fmt.Sprintf("cluster %q is not up (status: %s)", e.Name, e.Status)
}

// IsClusterNotUpError checks if an error is a ClusterNotUpError.
func IsClusterNotUpError(err error) bool {
	var ce *ClusterNotUpError
	return errors.As(err, &ce)
}

// TeardownAbortedError blocks a reserved-cluster teardown before any
// destructive call is made: the controller is initializing, or it still
// tracks non-terminal managed work.
type TeardownAbortedError struct {
	Name   string
	Reason string
}

func (e *TeardownAbortedError) Error() string {
	return fmt.Sprintf("refusing to tear down %q: %s", e.Name, e.Reason)
}

// IsTeardownAbortedError checks if an error is a TeardownAbortedError.
func IsTeardownAbortedError(err error) bool {
	var te *TeardownAbortedError
	return errors.As(err, &te)
}

// ProviderError wraps an opaque failure from a per-cluster provider call.
// The original message is surfaced, never parsed.
type ProviderError struct {
	Op   string
	Name string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a provider failure for one cluster.
func NewProviderError(op, name string, err error) *ProviderError {
	return &ProviderError{Op: op, Name: name, Err: err}
}

// IsProviderError checks if an error is a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
