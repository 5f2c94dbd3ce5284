package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/types"
)

func newTestGuard(reg Registry, work WorkLister, prompter Prompter) (*Guard, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewGuard(DefaultReservedTable(), reg, work, prompter, out, log.NewTestLogger()), out
}

func TestPartitionPreservesOrder(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	reserved, ordinary := g.Partition([]string{"a", testController, "b"})
	assert.Equal(t, []string{testController}, reserved)
	assert.Equal(t, []string{"a", "b"}, ordinary)
}

func TestCheckBatchOrdinaryOnly(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	err := g.CheckBatch(nil, []string{"a", "b"}, types.OpStop, "Stopping")
	assert.NoError(t, err)
}

func TestCheckBatchMixed(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	err := g.CheckBatch([]string{testController}, []string{"a"}, types.OpDown, "Terminating")
	require.Error(t, err)
	assert.True(t, types.IsUsageError(err))
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), testController)
}

func TestCheckBatchReservedNonDown(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	err := g.CheckBatch([]string{testController}, nil, types.OpStop, "Stopping")
	require.Error(t, err)
	assert.True(t, types.IsUsageError(err))
	assert.Contains(t, err.Error(), "auto-managed")
}

func TestCheckBatchReservedDownAllowed(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	err := g.CheckBatch([]string{testController}, nil, types.OpDown, "Terminating")
	assert.NoError(t, err)
}

func TestCheckTeardownAlreadyGone(t *testing.T) {
	g, out := newTestGuard(newFakeRegistry(), nil, &ScriptedPrompter{})

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Contains(t, out.String(), "already been torn down")
}

func TestCheckTeardownInitBlocked(t *testing.T) {
	g, _ := newTestGuard(newFakeRegistry(reservedCluster(types.StatusInit)), nil, &ScriptedPrompter{})

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.Error(t, err)
	assert.False(t, proceed)
	assert.True(t, types.IsTeardownAbortedError(err))
}

func TestCheckTeardownActiveWorkBlocked(t *testing.T) {
	work := &fakeWork{items: []types.WorkItem{
		{ID: "7", Name: "sweep", Status: types.WorkPending},
	}}
	g, _ := newTestGuard(newFakeRegistry(reservedCluster(types.StatusUp)), work, &ScriptedPrompter{})

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.Error(t, err)
	assert.False(t, proceed)
	assert.True(t, types.IsTeardownAbortedError(err))
	assert.Contains(t, err.Error(), "sweep")
}

func TestCheckTeardownWorkQueryRacesWithStop(t *testing.T) {
	// The controller stopped between the status read and the work query;
	// treat it as having nothing in flight.
	work := &fakeWork{err: &types.ClusterNotUpError{Name: testController, Status: types.StatusStopped}}
	prompter := &ScriptedPrompter{Answers: []string{TeardownConfirmation}}
	g, _ := newTestGuard(newFakeRegistry(reservedCluster(types.StatusUp)), work, prompter)

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestCheckTeardownStoppedControllerStillConfirms(t *testing.T) {
	prompter := &ScriptedPrompter{Answers: []string{TeardownConfirmation}}
	g, out := newTestGuard(newFakeRegistry(reservedCluster(types.StatusStopped)), nil, prompter)

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.NoError(t, err)
	assert.True(t, proceed)
	assert.Contains(t, out.String(), "WARNING")
}

func TestCheckTeardownConfirmationIsCaseSensitive(t *testing.T) {
	prompter := &ScriptedPrompter{Answers: []string{"Delete"}}
	g, _ := newTestGuard(newFakeRegistry(reservedCluster(types.StatusUp)), nil, prompter)

	proceed, err := g.CheckTeardown(context.Background(), testController)
	require.ErrorIs(t, err, types.ErrPromptDeclined)
	assert.False(t, proceed)
}
