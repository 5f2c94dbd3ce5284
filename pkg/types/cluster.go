// Package types defines the core data structures for the Strato cluster CLI.
package types

import (
	"time"
)

// ClusterStatus describes where a cluster is in its lifecycle.
//
// A cluster that is not registered at all has no status; registry lookups
// for such names return ErrClusterNotFound instead of a record.
type ClusterStatus string

const (
	// StatusInit means provisioning or runtime setup is in flight, or a
	// previous launch failed partway through.
	StatusInit ClusterStatus = "INIT"

	// StatusUp means the cluster is provisioned and reachable.
	StatusUp ClusterStatus = "UP"

	// StatusStopped means the cluster's instances are stopped but its
	// disks and registry record are kept.
	StatusStopped ClusterStatus = "STOPPED"
)

// Valid reports whether s is a known lifecycle status.
func (s ClusterStatus) Valid() bool {
	switch s {
	case StatusInit, StatusUp, StatusStopped:
		return true
	}
	return false
}

// ClusterRef is the registry record for one managed cluster.
type ClusterRef struct {
	// Unique name of the cluster, the registry key.
	Name string `json:"name" yaml:"name"`

	// Current cached lifecycle status.
	Status ClusterStatus `json:"status" yaml:"status"`

	// ReservedGroup is non-empty for system-managed clusters
	// (e.g. "job-controller"). Ordinary clusters leave it empty.
	ReservedGroup string `json:"reservedGroup,omitempty" yaml:"reservedGroup,omitempty"`

	// Resources the cluster was actually launched with. Opaque to the
	// lifecycle engine except for compatibility comparison.
	LaunchedResources *Resources `json:"launchedResources,omitempty" yaml:"launchedResources,omitempty"`

	// AutostopMinutes is the configured idle minutes before automatic
	// stop/teardown. -1 means no active setting.
	AutostopMinutes int `json:"autostopMinutes" yaml:"autostopMinutes"`

	// Autodown selects teardown instead of stop when the idle timer fires.
	Autodown bool `json:"autodown" yaml:"autodown"`

	// LastActivity is the last moment the cluster had queued, running or
	// setting-up work. The idle timer measures from here.
	LastActivity time.Time `json:"lastActivity,omitempty" yaml:"lastActivity,omitempty"`

	// LaunchedAt is when the cluster was first provisioned.
	LaunchedAt time.Time `json:"launchedAt,omitempty" yaml:"launchedAt,omitempty"`
}

// IsReserved reports whether the cluster is system-managed.
func (c *ClusterRef) IsReserved() bool {
	return c.ReservedGroup != ""
}

// AutostopSet reports whether an autostop/autodown setting is active.
func (c *ClusterRef) AutostopSet() bool {
	return c.AutostopMinutes >= 0
}

// Validate validates the cluster record.
func (c *ClusterRef) Validate() error {
	if c.Name == "" {
		return NewValidationError("cluster name is required")
	}
	if !c.Status.Valid() {
		return NewValidationError("unknown cluster status: " + string(c.Status))
	}
	return nil
}

// WorkItemStatus is the state of one unit of managed work tracked by a
// reserved controller cluster.
type WorkItemStatus string

const (
	WorkPending   WorkItemStatus = "PENDING"
	WorkRunning   WorkItemStatus = "RUNNING"
	WorkSucceeded WorkItemStatus = "SUCCEEDED"
	WorkFailed    WorkItemStatus = "FAILED"
	WorkCancelled WorkItemStatus = "CANCELLED"
)

// Terminal reports whether the work item can no longer change state.
func (s WorkItemStatus) Terminal() bool {
	switch s {
	case WorkSucceeded, WorkFailed, WorkCancelled:
		return true
	}
	return false
}

// WorkItem is one unit of managed work owned by a reserved cluster.
type WorkItem struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Status WorkItemStatus `json:"status" yaml:"status"`
}
