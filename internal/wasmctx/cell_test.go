package wasmctx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/gas"
)

func TestMoveInMoveOutOwnership(t *testing.T) {
	c := New(gas.NewState(gas.DefaultConfig(), 1_000_000))
	store := backend.NewMemStore()
	c.MoveIn(store, nil, nil)

	_, err := c.WithStorage(func(s backend.Storage) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)

	c.MoveOut()

	_, err = c.WithStorage(func(s backend.Storage) (interface{}, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotAttached)
}

func TestBorrowConflictOnReentry(t *testing.T) {
	c := New(gas.NewState(gas.DefaultConfig(), 1_000_000))
	c.MoveIn(backend.NewMemStore(), nil, nil)

	_, outerErr := c.WithStorage(func(s backend.Storage) (interface{}, error) {
		_, innerErr := c.WithStorage(func(s2 backend.Storage) (interface{}, error) {
			return nil, nil
		})
		return nil, innerErr
	})
	require.ErrorIs(t, outerErr, ErrBorrowConflict)
}

func TestIteratorsDroppedBeforeStorageReleased(t *testing.T) {
	store := backend.NewMemStore()
	_, _ = store.Set([]byte("a"), []byte("1"))
	c := New(gas.NewState(gas.DefaultConfig(), 1_000_000))
	c.MoveIn(store, nil, nil)

	iter, _, err := store.Scan(nil, nil, backend.Ascending)
	require.NoError(t, err)
	id := c.RegisterIterator(iter)

	c.MoveOut()

	_, ok := c.Iterator(id)
	require.False(t, ok, "iterator must not survive move_out")
}

func TestUnknownIteratorIDReportsNotFoundNotPanic(t *testing.T) {
	c := New(gas.NewState(gas.DefaultConfig(), 1_000_000))
	_, ok := c.Iterator(999)
	require.False(t, ok)
}
