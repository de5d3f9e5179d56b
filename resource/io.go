package resource

import (
	"context"
	"io"
)

// RateLimitedReader wraps an io.Reader with the controller's read limit.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// Reader returns r throttled by c. Reads are split so a single call never
// waits for more than one second of budget.
func (c *Controller) Reader(ctx context.Context, r io.Reader) io.Reader {
	if c == nil || c.readLimiter == nil {
		return r
	}
	return &RateLimitedReader{ctx: ctx, r: r, rc: c}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	p = p[:r.rc.readChunk(len(p))]
	if err := r.rc.WaitRead(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
