package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/humanloop/interrupt"
)

func testSnapshot(id string) *interrupt.Snapshot {
	sess := interrupt.NewSession(interrupt.Descriptor{
		ID: id,
		ActionRequest: interrupt.ActionRequest{
			Action: "book_flight",
			Args:   map[string]any{"city": "NYC"},
		},
		Capabilities: interrupt.Capabilities{AllowAccept: true, AllowEdit: true},
	}, nil)
	return sess.Snapshot()
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSnapshot("int_1")))

		snap, err := s.Load(ctx, "int_1")
		require.NoError(t, err)
		assert.Equal(t, "int_1", snap.ID)
		assert.Equal(t, interrupt.KindAccept, snap.Selected)
	})

	t.Run("Load not found", func(t *testing.T) {
		_, err := s.Load(ctx, "nonexistent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSnapshot("int_2")))

		snaps, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "int_1"))
		_, err := s.Load(ctx, "int_1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete missing is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "nonexistent"))
	})
}

// Save → Load → RestoreSession round trip through the store.
func TestInMemoryStoreRestore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	sess := interrupt.NewSession(interrupt.Descriptor{
		ActionRequest: interrupt.ActionRequest{
			Action: "book_flight",
			Args:   map[string]any{"city": "NYC"},
		},
		Capabilities: interrupt.Capabilities{AllowAccept: true, AllowEdit: true},
	}, nil)
	require.NoError(t, sess.SetArg("city", "LA"))
	require.NoError(t, s.Save(ctx, sess.Snapshot()))

	snap, err := s.Load(ctx, sess.ID())
	require.NoError(t, err)

	restored := interrupt.RestoreSession(snap, nil)
	assert.True(t, restored.EditsMade())
	assert.Equal(t, interrupt.KindEdit, restored.SelectedSubmitType())
}
