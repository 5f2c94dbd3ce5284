package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessDemandingThan(t *testing.T) {
	launched := &Resources{Cloud: "aws", Region: "us-east-1", InstanceType: "p3.8xlarge",
		CPUs: 32, MemoryGB: 244, Accelerator: "V100", AcceleratorCount: 4}

	tests := []struct {
		name      string
		requested *Resources
		want      bool
	}{
		{name: "nil request matches anything", requested: nil, want: true},
		{name: "empty request matches anything", requested: &Resources{}, want: true},
		{name: "same cloud", requested: &Resources{Cloud: "aws"}, want: true},
		{name: "cloud case insensitive", requested: &Resources{Cloud: "AWS"}, want: true},
		{name: "different cloud", requested: &Resources{Cloud: "gcp"}, want: false},
		{name: "fewer cpus", requested: &Resources{CPUs: 8}, want: true},
		{name: "more cpus", requested: &Resources{CPUs: 64}, want: false},
		{name: "fewer accelerators", requested: &Resources{Accelerator: "V100", AcceleratorCount: 2}, want: true},
		{name: "more accelerators", requested: &Resources{Accelerator: "V100", AcceleratorCount: 8}, want: false},
		{name: "different accelerator", requested: &Resources{Accelerator: "A100", AcceleratorCount: 1}, want: false},
		{name: "different instance type", requested: &Resources{InstanceType: "m5.large"}, want: false},
		{name: "spot requested but launched on-demand", requested: &Resources{Spot: true}, want: false},
		{name: "fully dominated", requested: &Resources{Cloud: "aws", CPUs: 16, MemoryGB: 128}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.requested.LessDemandingThan(launched))
		})
	}
}

func TestLessDemandingThanSpotLaunched(t *testing.T) {
	launched := &Resources{Cloud: "aws", Accelerator: "V100", AcceleratorCount: 4, Spot: true}

	// Omitting spot is not a demand for on-demand instances.
	assert.True(t, (&Resources{Accelerator: "V100", AcceleratorCount: 2}).LessDemandingThan(launched))
	assert.True(t, (&Resources{Spot: true}).LessDemandingThan(launched))
}

func TestLessDemandingThanNilLaunched(t *testing.T) {
	assert.False(t, (&Resources{CPUs: 4}).LessDemandingThan(nil))
	assert.True(t, (&Resources{}).LessDemandingThan(nil))
}

func TestResourcesString(t *testing.T) {
	assert.Equal(t, "(any)", (&Resources{}).String())
	assert.Equal(t, "(any)", (*Resources)(nil).String())

	r := &Resources{Cloud: "aws", CPUs: 8, Accelerator: "V100", AcceleratorCount: 4, Spot: true}
	assert.Equal(t, "aws 8xCPU V100:4 spot", r.String())

	single := &Resources{Accelerator: "T4"}
	assert.Equal(t, "T4:1", single.String())
}
