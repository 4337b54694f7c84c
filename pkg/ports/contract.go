package ports

import (
	"context"
	"testing"
	"time"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDefinitionStoreContract verifies that a DefinitionStore implementation
// honours the interface contract. Adapters call it from their own tests.
func RunDefinitionStoreContract(t *testing.T, store DefinitionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		def := domain.NewDefinition()
		def.SetName("move %1 steps")
		in := def.AddInput(domain.KindFieldDropdown)
		require.NoError(t, def.UpdateInput(in.ID, domain.PropOptions, "Left,LEFT\nRight"))
		def.AddInput(domain.KindInputValue)
		require.NoError(t, def.RemoveInput(in.ID))
		def.SetOutput(true)

		require.NoError(t, store.Save(ctx, sessionID, def), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, def, loaded)
		assert.Equal(t, 2, loaded.Inputs.NextID(), "the id counter survives persistence")
	})

	t.Run("Save isolates the caller", func(t *testing.T) {
		def := domain.NewDefinition()
		require.NoError(t, store.Save(ctx, sessionID, def))
		def.SetName("changed after save")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "new_block", loaded.Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewDefinition()))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is allowed")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewDefinition()))
		require.NoError(t, store.Save(ctx, id2, domain.NewDefinition()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
