package types

import (
	"fmt"
	"strings"
)

// Resources describes the compute shape a cluster was (or should be)
// launched with. The lifecycle engine treats it as opaque except for the
// LessDemandingThan comparison and for display in messages.
type Resources struct {
	Cloud            string `json:"cloud,omitempty" yaml:"cloud,omitempty"`
	Region           string `json:"region,omitempty" yaml:"region,omitempty"`
	InstanceType     string `json:"instanceType,omitempty" yaml:"instanceType,omitempty"`
	CPUs             int    `json:"cpus,omitempty" yaml:"cpus,omitempty"`
	MemoryGB         int    `json:"memoryGB,omitempty" yaml:"memoryGB,omitempty"`
	Accelerator      string `json:"accelerator,omitempty" yaml:"accelerator,omitempty"`
	AcceleratorCount int    `json:"acceleratorCount,omitempty" yaml:"acceleratorCount,omitempty"`
	Spot             bool   `json:"spot,omitempty" yaml:"spot,omitempty"`
}

// Empty reports whether no requirement was specified at all.
func (r *Resources) Empty() bool {
	return r == nil || *r == Resources{}
}

// LessDemandingThan reports whether every requirement in r is satisfied by
// the launched resources. Unset fields in r match anything; set fields must
// match or be dominated (counts less-or-equal, names equal).
func (r *Resources) LessDemandingThan(launched *Resources) bool {
	if r.Empty() {
		return true
	}
	if launched == nil {
		return false
	}
	if r.Cloud != "" && !strings.EqualFold(r.Cloud, launched.Cloud) {
		return false
	}
	if r.Region != "" && !strings.EqualFold(r.Region, launched.Region) {
		return false
	}
	if r.InstanceType != "" && r.InstanceType != launched.InstanceType {
		return false
	}
	if r.CPUs > launched.CPUs {
		return false
	}
	if r.MemoryGB > launched.MemoryGB {
		return false
	}
	if r.Accelerator != "" && !strings.EqualFold(r.Accelerator, launched.Accelerator) {
		return false
	}
	if r.AcceleratorCount > launched.AcceleratorCount {
		return false
	}
	// Spot is a demand only when asked for; an unset Spot reuses a
	// spot-launched cluster just fine.
	if r.Spot && !launched.Spot {
		return false
	}
	return true
}

// String renders the resource shape for prompts and error messages.
func (r *Resources) String() string {
	if r.Empty() {
		return "(any)"
	}
	parts := []string{}
	if r.Cloud != "" {
		parts = append(parts, r.Cloud)
	}
	if r.Region != "" {
		parts = append(parts, r.Region)
	}
	if r.InstanceType != "" {
		parts = append(parts, r.InstanceType)
	}
	if r.CPUs > 0 {
		parts = append(parts, fmt.Sprintf("%dxCPU", r.CPUs))
	}
	if r.MemoryGB > 0 {
		parts = append(parts, fmt.Sprintf("%dGB", r.MemoryGB))
	}
	if r.Accelerator != "" {
		count := r.AcceleratorCount
		if count == 0 {
			count = 1
		}
		parts = append(parts, fmt.Sprintf("%s:%d", r.Accelerator, count))
	}
	if r.Spot {
		parts = append(parts, "spot")
	}
	return strings.Join(parts, " ")
}
