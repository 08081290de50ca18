package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/rule"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	m := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
	if addr := os.Getenv("BOOLNET_TEST_REDIS_ADDR"); addr != "" {
		rs, err := NewRedisStore(context.Background(), RedisConfig{
			Addr:   addr,
			Prefix: "boolnet:test:" + t.Name() + ":",
			TTL:    time.Minute,
		})
		require.NoError(t, err)
		m["redis"] = rs
	}
	return m
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			s := loaded(t)
			require.NoError(t, s.Step(ctx, 2))
			require.NoError(t, Save(ctx, store, s))

			rec, err := store.Get(ctx, s.ID())
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, uint64(2), rec.Generation)

			r, err := Open(ctx, store, rule.Builtin(), s.ID())
			require.NoError(t, err)
			want, _ := s.Network()
			got, _ := r.Network()
			assert.True(t, got.Equal(want))
		})
	}
}

func TestStoreMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			rec, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, rec)

			_, err = Open(ctx, store, rule.Builtin(), "missing")
			assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

			assert.NoError(t, store.Delete(ctx, "missing"))
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			for _, id := range []string{"b", "a", "c"} {
				require.NoError(t, Save(ctx, store, func() *Session {
					s := loaded(t)
					s.id = id
					return s
				}()))
			}

			ids, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, ids)

			require.NoError(t, store.Delete(ctx, "b"))
			ids, err = store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, ids)

			for _, id := range ids {
				require.NoError(t, store.Delete(ctx, id))
			}
		})
	}
}

func TestStoreRejectsUnsafeIDs(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			for _, id := range []string{"", "../etc/passwd", "a/b", "with space"} {
				_, err := store.Get(ctx, id)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidName), "Get(%q)", id)
				assert.True(t, errors.Is(store.Set(ctx, &Record{ID: id}), errors.ErrCodeInvalidName), "Set(%q)", id)
				assert.True(t, errors.Is(store.Delete(ctx, id), errors.ErrCodeInvalidName), "Delete(%q)", id)
			}
		})
	}
}

func TestFileStoreDefaultsAndCorruption(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, fs.Path())

	require.NoError(t, os.WriteFile(fs.recordPath("bad"), []byte("{"), 0600))
	_, err = fs.Get(ctx, "bad")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0600))
	ids, err := fs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, ids)
}
