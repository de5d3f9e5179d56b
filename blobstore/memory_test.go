package blobstore

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	data := []byte("candidate trace")
	require.NoError(t, store.Put(ctx, "a/trace.jsonl", data))
	data[0] = 'X' // Put copies.

	w, err := store.Create(ctx, "b/trace.jsonl")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/trace.jsonl", "b/trace.jsonl"}, names)

	blob, err := store.Open(ctx, "a/trace.jsonl")
	require.NoError(t, err)
	defer blob.Close()

	r, err := Stream(ctx, blob)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "candidate trace", string(content))

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 10)
	require.NoError(t, err)
	assert.Equal(t, "trace", string(buf[:n]))

	_, err = blob.ReadRange(ctx, 100, 1)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, store.Delete(ctx, "a/trace.jsonl"))
	names, err = store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_CreateIsStagedUntilClose(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "traces/run-001.jsonl")
	require.NoError(t, err)
	_, err = w.Write([]byte("{\"id\":1}\n"))
	require.NoError(t, err)

	// Staged under a hidden name, invisible to readers.
	staged := store.staged()
	require.Len(t, staged, 1)
	assert.True(t, strings.HasPrefix(staged[0], "traces/.tmp-run-001.jsonl-"))

	_, err = store.Open(ctx, "traces/run-001.jsonl")
	require.ErrorIs(t, err, ErrNotFound)
	names, err := store.List(ctx, "traces/")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	assert.Empty(t, store.staged())

	names, err = store.List(ctx, "traces/")
	require.NoError(t, err)
	assert.Equal(t, []string{"traces/run-001.jsonl"}, names)

	blob, err := store.Open(ctx, "traces/run-001.jsonl")
	require.NoError(t, err)
	assert.Equal(t, int64(9), blob.Size())

	// Closed writers are done.
	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorIs(t, w.Close(), os.ErrClosed)
}

func TestMemoryStore_ConcurrentWritersPublishIndependently(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, "reports/run.json")
	require.NoError(t, err)
	second, err := store.Create(ctx, "reports/run.json")
	require.NoError(t, err)
	assert.Len(t, store.staged(), 2)

	_, _ = first.Write([]byte("first"))
	_, _ = second.Write([]byte("second"))
	require.NoError(t, second.Close())
	require.NoError(t, first.Close())

	blob, err := store.Open(ctx, "reports/run.json")
	require.NoError(t, err)
	r, err := Stream(ctx, blob)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestMemoryStore_HonoursContext(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "traces/run.jsonl", []byte("0123456789")))

	ctx, cancel := context.WithCancel(context.Background())
	blob, err := store.Open(ctx, "traces/run.jsonl")
	require.NoError(t, err)

	r, err := blob.ReadRange(ctx, 0, blob.Size())
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(buf[:n]))

	cancel()
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = blob.ReadRange(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = blob.ReadAt(ctx, buf, 0)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Create(ctx, "traces/other.jsonl")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Put(ctx, "traces/other.jsonl", nil), context.Canceled)
}

func TestStores_RejectNamesOutsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	stores := map[string]Store{
		"local":  NewLocalStore(root + "/store"),
		"memory": NewMemoryStore(),
	}
	bad := []string{"../escaped.json", "reports/../../escaped.json", "/abs/report.json", ""}

	for kind, store := range stores {
		t.Run(kind, func(t *testing.T) {
			for _, name := range bad {
				assert.ErrorIs(t, store.Put(ctx, name, []byte("x")), ErrInvalidName, name)
				_, err := store.Create(ctx, name)
				assert.ErrorIs(t, err, ErrInvalidName, name)
				_, err = store.Open(ctx, name)
				assert.ErrorIs(t, err, ErrInvalidName, name)
				assert.ErrorIs(t, store.Delete(ctx, name), ErrInvalidName, name)
			}
			_, err := os.Stat(root + "/escaped.json")
			assert.True(t, os.IsNotExist(err))

			// Dots inside a name are fine.
			require.NoError(t, store.Put(ctx, "reports/run..1.json", []byte("ok")))
		})
	}
}
