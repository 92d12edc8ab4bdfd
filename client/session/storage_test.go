package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storageBackends(t *testing.T) map[string]Storage {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Storage{
		"memory":    NewMemoryStorage(),
		"file":      NewFileStorage(filepath.Join(t.TempDir(), "nested", "session.json")),
		"encrypted": NewEncryptedFileStorage(filepath.Join(t.TempDir(), "session.bin"), "passphrase"),
		"redis":     NewRedisStorage(client, "studio:", 0),
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			e, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, e.Empty())

			want := Entries{User: `{"_id":"u1"}`, Token: "tok"}
			require.NoError(t, store.Save(ctx, want))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, store.Clear(ctx))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())

			// Clearing twice is fine.
			require.NoError(t, store.Clear(ctx))
		})
	}
}

func TestFileStorageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorage(filepath.Join(dir, "session.json"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, Entries{User: `{"_id":"u1"}`, Token: "tok"}))
	}
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "session.json", files[0].Name())
}

func TestFileStorageRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load(context.Background())
	assert.Error(t, err)
}

func TestEncryptedFileStorageHidesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	ctx := context.Background()
	want := Entries{User: `{"_id":"u1"}`, Token: "secret-token"}

	require.NoError(t, NewEncryptedFileStorage(path, "passphrase").Save(ctx, want))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	got, err := NewEncryptedFileStorage(path, "passphrase").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = NewEncryptedFileStorage(path, "other").Load(ctx)
	assert.Error(t, err)
	_, err = NewFileStorage(path).Load(ctx)
	assert.Error(t, err, "plain reader cannot decode the sealed document")
}

func TestUnsealRejectsShortInput(t *testing.T) {
	_, err := unseal(deriveKey("k"), []byte("short"))
	assert.ErrorIs(t, err, errCiphertextTooShort)
}

func TestRedisStorageWritesBothKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStorage(client, "studio:", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Entries{User: `{"_id":"u1"}`, Token: "tok"}))
	assert.True(t, mr.Exists("studio:user"))
	assert.True(t, mr.Exists("studio:token"))
	assert.Equal(t, time.Hour, mr.TTL("studio:user"))
	assert.Equal(t, time.Hour, mr.TTL("studio:token"))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("studio:user"))
	assert.False(t, mr.Exists("studio:token"))
}
