package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func manifestFor(platform targetrules.Platform, desc targetrules.TargetDescriptor) targetrules.Manifest {
	return targetrules.NewManifest(targetrules.TargetInfo{
		Name:          "GridTactics",
		Platform:      platform,
		Configuration: targetrules.Development,
	}, desc)
}

func TestSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)
	desc := targetrules.GridTacticsRules().Create(targetrules.TargetInfo{})

	changed, err := store.Save(ctx, manifestFor(targetrules.Win64, desc))
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = store.Save(ctx, manifestFor(targetrules.Win64, desc))
	require.NoError(t, err)
	require.False(t, changed)

	other := targetrules.NewTargetDescriptor(targetrules.Game, targetrules.V5, targetrules.Unreal5_4, "GridTactics")
	changed, err = store.Save(ctx, manifestFor(targetrules.Win64, other))
	require.NoError(t, err)
	require.True(t, changed)

	entry, err := store.Get(ctx, "GridTactics/Win64/Development")
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.NotEmpty(t, entry.RunID)
	require.False(t, entry.Recorded.IsZero())
	require.Equal(t, "Unreal5_4", entry.Manifest.Descriptor.IncludeOrderVersion)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	entry, err := openTestStore(t).Get(context.Background(), "GridTactics/Mac/Shipping")
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestListAndChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)
	desc := targetrules.GridTacticsRules().Create(targetrules.TargetInfo{})

	changed, err := store.Changed(ctx, manifestFor(targetrules.Linux, desc))
	require.NoError(t, err)
	require.True(t, changed)

	for _, platform := range []targetrules.Platform{targetrules.Win64, targetrules.Linux} {
		_, err := store.Save(ctx, manifestFor(platform, desc))
		require.NoError(t, err)
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "GridTactics/Linux/Development", entries[0].Manifest.Key())
	require.Equal(t, "GridTactics/Win64/Development", entries[1].Manifest.Key())
	require.NotEqual(t, entries[0].RunID, entries[1].RunID)

	changed, err = store.Changed(ctx, manifestFor(targetrules.Linux, desc))
	require.NoError(t, err)
	require.False(t, changed)

	editor := targetrules.NewTargetDescriptor(targetrules.Editor, targetrules.V5, targetrules.Unreal5_5, "GridTactics")
	changed, err = store.Changed(ctx, manifestFor(targetrules.Linux, editor))
	require.NoError(t, err)
	require.True(t, changed)

	// Changed doesn't record anything
	changed, err = store.Changed(ctx, manifestFor(targetrules.Linux, editor))
	require.NoError(t, err)
	require.True(t, changed)
}

func TestSaveCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	desc := targetrules.GridTacticsRules().Create(targetrules.TargetInfo{})
	_, err := openTestStore(t).Save(ctx, manifestFor(targetrules.Win64, desc))
	require.ErrorIs(t, err, context.Canceled)
}
