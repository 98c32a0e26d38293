package kv

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"milkrun/config"
	"milkrun/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewFileStore(path, newDiscardLogger())

	_, ok, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, repository.SessionKey, "2"))
	require.NoError(t, store.Set(ctx, "theme", "dark"))

	value, ok, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Delete(ctx, repository.SessionKey))
	require.NoError(t, store.Delete(ctx, repository.SessionKey), "deleting an absent key is not an error")

	_, ok, err = store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)

	theme, _, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, NewFileStore(path, newDiscardLogger()).Set(ctx, repository.SessionKey, "7"))

	value, ok, err := NewFileStore(path, newDiscardLogger()).Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", value)
}

func TestFileStore_UnreadableFileStartsOver(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("userId: [unterminated"), 0o600))

	store := NewFileStore(path, newDiscardLogger())

	_, ok, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, repository.SessionKey, "1"))
	value, _, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestFileStore_WritesReplaceFileWithoutLeftovers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newFileStore(filepath.Join(dir, "settings.yaml"), newDiscardLogger())

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.Set(ctx, repository.SessionKey, id))
	}
	require.NoError(t, store.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.yaml", entries[0].Name())

	// Closing only drops the handle; the store reopens on demand.
	value, ok, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)
	require.NoError(t, store.Close())
}

func TestRedisStore_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	store := NewRedisStore(client, "milkrun:", 200*time.Millisecond)

	_, _, err := store.Get(context.Background(), repository.SessionKey)
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), repository.SessionKey, "1"))
}

func TestRedisStore_PrefixesKeys(t *testing.T) {
	store := NewRedisStore(nil, "milkrun:", 0).(*redisStore)

	assert.Equal(t, "milkrun:userId", store.key(repository.SessionKey))
	assert.Equal(t, defaultRedisTimeout, store.timeout)
}

func TestNewKeyValueStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		session *config.SessionConfig
		wantErr bool
		want    any
	}{
		{
			name:    "file provider",
			session: &config.SessionConfig{Provider: config.SessionProviderFile, FilePath: filepath.Join(dir, "s.yaml")},
			want:    &fileStore{},
		},
		{
			name:    "redis provider",
			session: &config.SessionConfig{Provider: config.SessionProviderRedis, Redis: &config.RedisConfig{Addr: "127.0.0.1:6379"}},
			want:    &redisStore{},
		},
		{
			name:    "redis without address",
			session: &config.SessionConfig{Provider: config.SessionProviderRedis},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			session: &config.SessionConfig{Provider: "etcd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			store, err := NewKeyValueStore(Params{
				Lifecycle: lc,
				Config:    &config.Config{Session: tt.session},
				Logger:    newDiscardLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
			lc.RequireStart().RequireStop()
		})
	}
}
