package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))

	assert.False(t, c.TryAcquireWorker())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.DeadlineExceeded)

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestController_DefaultsToOneWorker(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxWorkers)
	assert.True(t, c.TryAcquireWorker())
	assert.False(t, c.TryAcquireWorker())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	assert.True(t, c.TryAcquireWorker())
	require.NoError(t, c.AcquireWorker(context.Background()))
	c.ReleaseWorker()
	require.NoError(t, c.WaitRead(context.Background(), 1<<20))

	r := strings.NewReader("abc")
	assert.Same(t, io.Reader(r), c.Reader(context.Background(), r))
}

func TestController_Reader(t *testing.T) {
	c := NewController(Config{ReadBytesPerSec: 4})
	data := bytes.Repeat([]byte("x"), 10)

	r := c.Reader(context.Background(), bytes.NewReader(data))
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 4)

	// The burst is spent; a canceled context aborts the next wait.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Reader(ctx, bytes.NewReader(data)).Read(buf)
	assert.Error(t, err)
}

func TestController_ReaderReadsEverything(t *testing.T) {
	c := NewController(Config{ReadBytesPerSec: 1 << 20})
	data := bytes.Repeat([]byte("trace"), 1000)

	got, err := io.ReadAll(c.Reader(context.Background(), bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
