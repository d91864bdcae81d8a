package internal

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/pool"
	"github.com/frankli0324/go-fetch/internal/streaming"
	"github.com/frankli0324/go-fetch/internal/transport"
)

type Request = model.Request
type Response = model.Response

type Handler = func(ctx context.Context, req *Request) (*Response, error)
type Middleware func(next Handler) Handler

// Client dispatches requests to the backend compiled into the binary. The
// zero value is ready to use; fields must not change after the first fetch.
type Client struct {
	// Timeout is the receive timeout of the native backend, see
	// [transport.Native.Timeout]. The browser enforces its own.
	Timeout time.Duration
	// MaxConcurrent bounds the number of running workers, 0 means no bound.
	// Callers are never blocked by it, queued workers are.
	MaxConcurrent uint
	Dialer        *dialer.CoreDialer
	Logger        *zerolog.Logger

	middlewares []Middleware

	once    sync.Once
	backend transport.Backend
	limiter *pool.Limiter
}

var DefaultClient = &Client{}

var nopLogger = zerolog.Nop()

// Use appends mws to the chain around non-streaming fetches. The first
// middleware added is the outermost one.
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

func (c *Client) init() {
	c.once.Do(func() {
		c.backend = newBackend(c)
		c.limiter = pool.NewLimiter(c.MaxConcurrent)
	})
}

func (c *Client) log() *zerolog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return &nopLogger
}

// Fetch runs req on a new worker and calls onDone exactly once with the
// outcome. onDone never runs on the caller's goroutine, not even for errors
// found before anything is sent. Any HTTP status is a *Response; err is an
// *model.Error and means no response was obtained.
func (c *Client) Fetch(ctx context.Context, req *Request, onDone func(*Response, error)) {
	c.init()
	c.spawn(ctx, func() {
		onDone(c.do(ctx, req))
	}, func(err error) {
		onDone(nil, err)
	})
}

type result struct {
	resp *Response
	err  error
}

// FetchAsync is Fetch for callers that would rather wait. The worker reports
// through a one-slot channel; if ctx ends first, ctx's error is returned and
// the late result is dropped.
func (c *Client) FetchAsync(ctx context.Context, req *Request) (*Response, error) {
	done := make(chan result, 1)
	c.Fetch(ctx, req, func(resp *Response, err error) {
		done <- result{resp, err}
	})
	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, model.NewError(ctx.Err())
	}
}

// Stream runs req on a new worker and feeds h the header, the body chunks
// and the terminating empty chunk, in that order, honouring the Flow h
// returns after each.
func (c *Client) Stream(ctx context.Context, req *Request, h streaming.Handler) {
	c.init()
	c.spawn(ctx, func() {
		c.stream(ctx, req, h)
	}, func(err error) {
		h(streaming.Part{}, err)
	})
}

// spawn starts a worker goroutine. On js/wasm goroutines are scheduled on
// the single event loop, so this queues a job without blocking the caller
// on both backends.
func (c *Client) spawn(ctx context.Context, job func(), failed func(error)) {
	go func() {
		if c.limiter != nil {
			start := time.Now()
			if err := c.limiter.Acquire(ctx); err != nil {
				failed(model.NewError(err))
				return
			}
			defer c.limiter.Release()
			c.log().Debug().
				Int("workers", c.limiter.InUse()).
				Dur("queued", time.Since(start)).
				Msg("worker started")
		}
		job()
	}()
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	l := c.log()
	next := func(ctx context.Context, req *Request) (*Response, error) {
		return c.backend.Fetch(withTrace(ctx, l), req)
	}
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i](next)
	}

	start := time.Now()
	resp, err := next(ctx, req)
	if err != nil {
		l.Warn().Err(err).
			Str("method", string(req.Method)).Str("url", req.URL).
			Dur("elapsed", time.Since(start)).
			Msg("fetch failed")
		return nil, model.NewError(err)
	}
	l.Debug().
		Str("method", string(req.Method)).Str("url", req.URL).
		Int("status", resp.Status).Int("bytes", len(resp.Bytes)).
		Dur("elapsed", time.Since(start)).
		Msg("fetch done")
	return resp, nil
}

func (c *Client) stream(ctx context.Context, req *Request, h streaming.Handler) {
	l := c.log()
	start := time.Now()
	chunks, size := 0, 0
	streaming.Run(withTrace(ctx, l), func(ctx context.Context) (*model.PartialResponse, streaming.Body, error) {
		return c.backend.Open(ctx, req)
	}, func(p streaming.Part, err error) streaming.Flow {
		switch {
		case err != nil:
			l.Warn().Err(err).
				Str("method", string(req.Method)).Str("url", req.URL).
				Int("chunks", chunks).Int("bytes", size).
				Msg("stream failed")
		case p.IsHeader():
			l.Debug().
				Str("method", string(req.Method)).Str("url", req.URL).
				Int("status", p.Header.Status).
				Dur("elapsed", time.Since(start)).
				Msg("stream header")
		case p.IsEnd():
			l.Debug().
				Str("url", req.URL).
				Int("chunks", chunks).Int("bytes", size).
				Dur("elapsed", time.Since(start)).
				Msg("stream done")
		default:
			chunks++
			size += len(p.Chunk)
		}
		return h(p, err)
	})
}
