package transport

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/streaming"
)

// Backend executes requests. Both methods block the calling goroutine until
// they are done, callers take care of running them off the caller's
// goroutine.
type Backend interface {
	// Fetch performs the whole exchange.
	Fetch(ctx context.Context, r *model.Request) (*model.Response, error)
	// Open returns as soon as the status and headers are in. The body must
	// be closed by the caller.
	Open(ctx context.Context, r *model.Request) (*model.PartialResponse, streaming.Body, error)
}

// collect reads body to the end and completes head with it.
func collect(ctx context.Context, head *model.PartialResponse, body streaming.Body) (*model.Response, error) {
	defer body.Close()
	var buf bytes.Buffer
	for {
		chunk, err := body.Next(ctx)
		if err == io.EOF {
			return head.Complete(buf.Bytes()), nil
		}
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
}

// headEOF reports whether err is the end-of-stream that servers provoke by
// announcing a body length for HEAD and then not sending it. HEAD has no
// body, so it is treated as the end of an empty one on both backends.
func headEOF(m model.Method, err error) bool {
	return m == model.MethodHead && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF))
}

// emptyBody is the body of a response that has none.
type emptyBody struct{}

func (emptyBody) Next(context.Context) ([]byte, error) { return nil, io.EOF }
func (emptyBody) Close() error                         { return nil }
