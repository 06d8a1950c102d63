package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/surveyor/internal/adapters/file"
	"github.com/aretw0/surveyor/internal/adapters/redis"
	"github.com/aretw0/surveyor/internal/config"
	"github.com/aretw0/surveyor/internal/testutils"
	"github.com/aretw0/surveyor/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	h, err := openStore(ctx, config.StoreConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, h.Store)
	assert.Nil(t, h.Locker)
	assert.NoError(t, h.Close())

	dir := testutils.SetupTempDir(t)
	h, err = openStore(ctx, config.StoreConfig{Backend: config.BackendFile, Path: dir})
	require.NoError(t, err)
	require.IsType(t, &file.Store{}, h.Store)
	assert.Equal(t, dir, h.Store.(*file.Store).BasePath)

	mr := miniredis.RunT(t)
	h, err = openStore(ctx, config.StoreConfig{
		Backend: config.BackendRedis,
		Redis:   config.RedisConfig{Addr: mr.Addr(), Prefix: "test:"},
	})
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, h.Store)
	assert.NotNil(t, h.Locker)
	require.NoError(t, h.Store.Save(ctx, "k", []byte("v")))
	assert.True(t, mr.Exists("test:k"))
	assert.NoError(t, h.Close())

	_, err = openStore(ctx, config.StoreConfig{Backend: "s3"})
	assert.Error(t, err)
}

func TestOpenStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	dir := testutils.SetupTempDir(t)
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))

	h, err := openStore(ctx, config.StoreConfig{Backend: config.BackendFile, Path: dir, EncryptionKey: key})
	require.NoError(t, err)
	require.NoError(t, h.Store.Save(ctx, "p", []byte("secret-state")))

	raw, err := file.New(dir).Load(ctx, "p")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-state")

	plain, err := h.Store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "secret-state", string(plain))
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := openStore(context.Background(), config.StoreConfig{
		Backend: config.BackendRedis,
		Redis:   config.RedisConfig{Addr: addr},
	})
	assert.ErrorContains(t, err, "failed to connect to redis")
}
