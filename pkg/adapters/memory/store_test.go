package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/surveyor/pkg/adapters/memory"
	"github.com/aretw0/surveyor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SnapshotStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, store.Save(ctx, "k", buf))
	buf[0] = 'X'

	loaded, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), loaded, "store must not alias the caller's buffer")

	loaded[1] = 'Y'
	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, store.Len())
}
