// Package snapshottest provides a behavioral contract shared by all
// snapshot.Store implementations.
package snapshottest

import (
	"context"
	"testing"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract exercises store against the snapshot.Store contract. The
// store must be empty.
func RunStoreContract(t *testing.T, store snapshot.Store) {
	t.Helper()

	ctx := context.Background()

	tree := core.NewRootState("supervisor", "summarize example.com").WithStatus(core.StatusRunning)
	child := core.NewChildState("websiteAnalyzer", "fetch the page").
		WithMessages(core.ToolCallMessage("", core.ToolCall{ID: "call-1", Name: "fetch", Arguments: `{"url":"https://example.com"}`})).
		WithStatus(core.StatusPaused)
	tree = tree.WithChildren(child)

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("SaveLoad", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "run-a", tree))

		loaded, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		assert.Equal(t, tree, loaded)
		assert.Equal(t, []core.Path{{0}}, loaded.PausedPaths())
	})

	t.Run("Overwrite", func(t *testing.T) {
		next, err := core.SupplyToolResult(tree, core.Path{0}, "call-1", "<html/>")
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "run-a", next))

		loaded, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		assert.Equal(t, core.StatusRunning, loaded.Children[0].Status)
		assert.Len(t, loaded.Children[0].Messages, 3)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "run-b", tree))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"run-a", "run-b"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "run-a"))
		require.NoError(t, store.Delete(ctx, "never-saved"))

		_, err := store.Load(ctx, "run-a")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"run-b"}, ids)
	})
}
