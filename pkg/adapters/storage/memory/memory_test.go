package memory

import (
	"context"
	"testing"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	store := NewSnapshotStore()

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snapshot := &domain.Snapshot{
		PlayState: domain.PlayStatePaused,
		Speed:     2,
	}
	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestSnapshotStore_SaveReplaces(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Snapshot{Speed: 1}))
	require.NoError(t, store.Save(ctx, &domain.Snapshot{Speed: 4}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(4), loaded.Speed)
}

func TestSnapshotStore_Delete(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Snapshot{Speed: 1}))
	require.NoError(t, store.Delete(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	// Deleting an empty store is fine
	assert.NoError(t, store.Delete(ctx))
}
