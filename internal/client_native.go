//go:build !js || !wasm
// +build !js !wasm

package internal

import (
	"context"

	"github.com/frankli0324/go-fetch/internal/streaming"
	"github.com/frankli0324/go-fetch/internal/transport"
)

func newBackend(c *Client) transport.Backend {
	return &transport.Native{Dialer: c.Dialer, Timeout: c.Timeout}
}

// FetchBlocking performs req on the calling goroutine. It does not take a
// worker ticket. Native only: blocking the browser's event loop would stop
// the request from ever completing.
func (c *Client) FetchBlocking(ctx context.Context, req *Request) (*Response, error) {
	c.init()
	return c.do(ctx, req)
}

// StreamBlocking is Stream on the calling goroutine. It returns once h has
// seen the last part. Wait directives sleep this goroutine.
func (c *Client) StreamBlocking(ctx context.Context, req *Request, h streaming.Handler) {
	c.init()
	c.stream(ctx, req, h)
}

// CloseIdleConnections drops pooled keep-alive connections.
func (c *Client) CloseIdleConnections() {
	c.init()
	c.backend.(*transport.Native).CloseIdleConnections()
}
