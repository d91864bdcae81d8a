//go:build !js || !wasm
// +build !js !wasm

package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/streaming"
)

// ChunkSize is how much of the body a single streamed chunk holds at most.
const ChunkSize = 2048

var errReceiveTimeout = errors.New("timed out receiving response")

// Native executes requests with net/http. One transport is kept per TLS
// relaxation so relaxed and strict requests never share connections.
type Native struct {
	Dialer *dialer.CoreDialer
	// Timeout bounds a whole non-streaming exchange, and each single body
	// read of a streaming one. Zero means no limit.
	Timeout time.Duration

	mu      sync.Mutex
	clients map[dialer.Relax]*http.Client
}

var defaultDialer = &dialer.CoreDialer{}

func (n *Native) client(relax dialer.Relax) (*http.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.clients[relax]; ok {
		return c, nil
	}
	d := n.Dialer
	if d == nil {
		d = defaultDialer
	}
	t, err := d.NewTransport(relax)
	if err != nil {
		return nil, err
	}
	if n.clients == nil {
		n.clients = make(map[dialer.Relax]*http.Client)
	}
	c := &http.Client{Transport: t}
	n.clients[relax] = c
	return c, nil
}

// CloseIdleConnections drops pooled connections of every transport.
func (n *Native) CloseIdleConnections() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.clients {
		c.CloseIdleConnections()
	}
}

func (n *Native) Fetch(ctx context.Context, r *model.Request) (*model.Response, error) {
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	head, body, err := n.open(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	return collect(ctx, head, body)
}

func (n *Native) Open(ctx context.Context, r *model.Request) (*model.PartialResponse, streaming.Body, error) {
	return n.open(ctx, r, n.Timeout)
}

func (n *Native) open(ctx context.Context, r *model.Request, idle time.Duration) (*model.PartialResponse, streaming.Body, error) {
	pr, err := r.Prepare()
	if err != nil {
		return nil, nil, err
	}
	cl, err := n.client(dialer.RelaxFor(pr))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancelCause(dialer.WithRequest(ctx, pr))
	var timer *time.Timer
	if idle > 0 {
		timer = time.AfterFunc(idle, func() { cancel(errReceiveTimeout) })
	}
	fail := func(err error) (*model.PartialResponse, streaming.Body, error) {
		if timer != nil {
			timer.Stop()
		}
		if cause := context.Cause(ctx); cause == errReceiveTimeout {
			err = cause
		}
		cancel(nil)
		return nil, nil, err
	}

	req, err := newHTTPRequest(ctx, pr)
	if err != nil {
		return fail(err)
	}
	resp, err := cl.Do(req)
	if err != nil {
		return fail(err)
	}
	head, err := partialResponse(resp)
	if err != nil {
		resp.Body.Close()
		return fail(err)
	}
	// the body is read on demand; time spent by the consumer between reads
	// is not idle time
	if timer != nil {
		timer.Stop()
	}
	return head, &nativeBody{
		ctx: ctx, cancel: cancel,
		rc: resp.Body, method: pr.Method,
		buf:  make([]byte, ChunkSize),
		idle: idle, timer: timer,
	}, nil
}

func newHTTPRequest(ctx context.Context, pr *model.PreparedRequest) (*http.Request, error) {
	var body io.Reader
	if len(pr.Request.Body) > 0 {
		body = bytes.NewReader(pr.Request.Body)
	}
	req, err := http.NewRequestWithContext(ctx, string(pr.Method), pr.U.String(), body)
	if err != nil {
		return nil, err
	}
	req.Host = pr.HeaderHost
	for _, f := range pr.Header {
		req.Header.Add(f.Name, f.Value)
	}
	return req, nil
}

// partialResponse converts status and headers. Header names are lower-cased
// like the browser does, values are passed through untouched but must be
// text.
func partialResponse(resp *http.Response) (*model.PartialResponse, error) {
	var headers model.Headers
	for k, vs := range resp.Header {
		name := strings.ToLower(k)
		for _, v := range vs {
			if !model.ValidHeaderText(v) {
				return nil, errors.Errorf("failed to convert header value of %q to string", name)
			}
			headers.Insert(name, v)
		}
	}
	headers.Sort() // it reads nicer, and matches the browser backend

	return model.NewPartialResponse(
		resp.Request.URL.String(),
		resp.StatusCode,
		model.StatusText(resp.StatusCode, resp.Status),
		headers,
	), nil
}

type nativeBody struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	rc     io.ReadCloser
	method model.Method
	buf    []byte
	err    error // held back until the data read along with it is delivered

	idle  time.Duration
	timer *time.Timer
}

func (b *nativeBody) Next(ctx context.Context) ([]byte, error) {
	if b.err == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.timer != nil {
			b.timer.Reset(b.idle)
		}
		var n int
		n, b.err = b.rc.Read(b.buf)
		if b.timer != nil {
			b.timer.Stop()
		}
		if n > 0 {
			return append([]byte(nil), b.buf[:n]...), nil
		}
		if b.err == nil {
			return nil, nil
		}
	}
	switch err := b.err; {
	case err == io.EOF, headEOF(b.method, err):
		return nil, io.EOF
	case context.Cause(b.ctx) == errReceiveTimeout:
		return nil, errReceiveTimeout
	default:
		return nil, errors.Wrap(err, "failed to read response body")
	}
}

func (b *nativeBody) Close() error {
	if b.timer != nil {
		b.timer.Stop()
	}
	err := b.rc.Close()
	b.cancel(nil)
	return err
}
