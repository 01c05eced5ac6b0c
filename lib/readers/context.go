package readers

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ctxReader stops reading once its context is done
type ctxReader struct {
	ctx context.Context
	in  io.Reader
}

// NewContextReader wraps in so that reads fail once ctx is cancelled
// or times out. Use it for copies which run for a long time, like
// uploads and downloads.
func NewContextReader(ctx context.Context, in io.Reader) io.Reader {
	return ctxReader{ctx: ctx, in: in}
}

// Read implements io.Reader
func (r ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "transfer interrupted")
	}
	return r.in.Read(p)
}
