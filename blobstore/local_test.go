package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob
	blobName := "traces/run-001.jsonl"
	data := []byte("hello world, this is a test blob for the replay")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible before Close.
	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	// Verify file exists on disk
	_, err = os.Stat(filepath.Join(tmpDir, "traces", "run-001.jsonl"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange
	rangeReader, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	defer rangeReader.Close()

	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.Equal(t, "this", string(rangeContent))

	// 4. Put + List
	require.NoError(t, store.Put(ctx, "reports/run-001.json", []byte("{}")))

	blobs, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"reports/run-001.json", blobName}, blobs)

	blobs, err = store.List(ctx, "traces/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, blobs)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, "reports/run-001.json"))
	require.NoError(t, store.Delete(ctx, "reports/run-001.json"))

	blobsAfter, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, blobsAfter)

	_, err = store.Open(ctx, "reports/run-001.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	blobName := "boundary.bin"
	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, blobName, data))

	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	// Case 1: Read full range
	r, err := Stream(ctx, blob)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	// Case 2: Read past end
	r, err = blob.ReadRange(ctx, 8, 5) // Request 5 bytes starting at 8 (only 2 available: 8, 9)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	// Case 3: Offset past EOF
	r, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)
	if r != nil {
		r.Close()
	}
}

func TestLocalBlobStore_EmptyAndMissingRoot(t *testing.T) {
	ctx := context.Background()

	missing := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := missing.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, names)

	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty.jsonl", nil))
	blob, err := store.Open(ctx, "empty.jsonl")
	require.NoError(t, err)
	defer blob.Close()

	r, err := Stream(ctx, blob)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestLocalBlobStore_HonoursContext(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), "traces/run.jsonl", []byte("0123456789")))

	ctx, cancel := context.WithCancel(context.Background())
	blob, err := store.Open(ctx, "traces/run.jsonl")
	require.NoError(t, err)
	defer blob.Close()
	cancel()

	_, err = blob.ReadRange(ctx, 0, 4)
	require.ErrorIs(t, err, context.Canceled)
	_, err = blob.ReadAt(ctx, make([]byte, 4), 0)
	require.ErrorIs(t, err, context.Canceled)
}
