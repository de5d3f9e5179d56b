package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps traces and reports in memory. It backs tests and dry-run
// replays that should leave nothing on disk.
//
// Create stages data under a hidden ".tmp-" name and publishes it on Close, the
// way LocalStore renames its temp file into place: Open and List never see a
// partially written trace. Published blobs are immutable, so readers share them.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	staging map[string]*memoryWritableBlob
	seq     uint64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:   make(map[string][]byte),
		staging: make(map[string]*memoryWritableBlob),
	}
}

// Open opens a published blob.
func (m *MemoryStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckName(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.blobs[name]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &memoryBlob{data: data}, nil
}

// Create stages a blob that becomes visible under name on Close.
func (m *MemoryStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	dir, base := path.Split(name)
	w := &memoryWritableBlob{
		store: m,
		name:  name,
		tmp:   fmt.Sprintf("%s.tmp-%s-%d", dir, base, m.seq),
	}
	m.staging[w.tmp] = w
	return w, nil
}

// Put publishes a copy of data under name.
func (m *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckName(name); err != nil {
		return err
	}
	m.publish(name, bytes.Clone(data))
	return nil
}

// Delete removes a published blob. Staged writes are unaffected.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}

// List returns the sorted names of published blobs with the given prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// staged returns the temp names of writes that have not been closed.
func (m *MemoryStore) staged() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.staging))
	for tmp := range m.staging {
		names = append(names, tmp)
	}
	sort.Strings(names)
	return names
}

func (m *MemoryStore) publish(name string, data []byte) {
	if data == nil {
		data = []byte{}
	}
	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()
}

type memoryBlob struct {
	data []byte
}

func (b *memoryBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadRange streams a slice of the blob. The reader stops with ctx's error once
// ctx is done, so a cancelled replay does not drain the rest of the trace.
func (b *memoryBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := int64(len(b.data))
	if off < 0 || off >= size {
		return nil, io.EOF
	}
	end := min(off+length, size)
	return io.NopCloser(&ctxReader{ctx: ctx, r: bytes.NewReader(b.data[off:end])}), nil
}

func (b *memoryBlob) Close() error { return nil }

func (b *memoryBlob) Size() int64 { return int64(len(b.data)) }

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type memoryWritableBlob struct {
	store  *MemoryStore
	name   string
	tmp    string
	buf    bytes.Buffer
	closed bool
}

func (w *memoryWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memoryWritableBlob) Sync() error {
	if w.closed {
		return os.ErrClosed
	}
	return nil
}

// Close publishes the staged data under its final name.
func (w *memoryWritableBlob) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true

	w.store.mu.Lock()
	delete(w.store.staging, w.tmp)
	w.store.mu.Unlock()

	w.store.publish(w.name, w.buf.Bytes())
	return nil
}
