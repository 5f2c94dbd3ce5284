package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/store"
	"github.com/strato-sh/strato/pkg/types"
)

func newTestRegistry(t *testing.T) *StoreRegistry {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.Open(""))
	t.Cleanup(func() { s.Close() })
	return New(s, log.NewTestLogger())
}

func TestSaveAndGetCluster(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	ref := &types.ClusterRef{
		Name:              "dev",
		Status:            types.StatusUp,
		LaunchedResources: &types.Resources{Cloud: "aws", CPUs: 8},
		AutostopMinutes:   types.AutostopCancel,
	}
	require.NoError(t, reg.SaveCluster(ctx, ref))

	got, err := reg.GetCluster(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev", got.Name)
	assert.Equal(t, types.StatusUp, got.Status)
	require.NotNil(t, got.LaunchedResources)
	assert.Equal(t, 8, got.LaunchedResources.CPUs)
}

func TestGetClusterNotFound(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.GetCluster(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrClusterNotFound)
}

func TestSaveClusterRejectsInvalidRecord(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.SaveCluster(context.Background(), &types.ClusterRef{Status: types.StatusUp})
	assert.Error(t, err)
}

func TestListClustersSorted(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.SaveCluster(ctx, &types.ClusterRef{
			Name: name, Status: types.StatusUp, AutostopMinutes: types.AutostopCancel,
		}))
	}

	refs, err := reg.ListClusters(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "alpha", refs[0].Name)
	assert.Equal(t, "mid", refs[1].Name)
	assert.Equal(t, "zeta", refs[2].Name)
}

func TestRemoveClusterIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.SaveCluster(ctx, &types.ClusterRef{
		Name: "dev", Status: types.StatusUp, AutostopMinutes: types.AutostopCancel,
	}))
	require.NoError(t, reg.RemoveCluster(ctx, "dev"))
	require.NoError(t, reg.RemoveCluster(ctx, "dev"))

	_, err := reg.GetCluster(ctx, "dev")
	assert.ErrorIs(t, err, types.ErrClusterNotFound)
}
