// Package fetch performs HTTP requests with one API on native platforms and
// in the browser (GOOS=js GOARCH=wasm). Results are delivered to a callback
// on a separate goroutine; HTTP error statuses are responses, not errors.
package fetch

import (
	"context"

	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/multipart"
)

type Client = internal.Client
type Middleware = internal.Middleware
type Handler = internal.Handler

type Request = model.Request
type PreparedRequest = model.PreparedRequest
type Response = model.Response
type PartialResponse = model.PartialResponse
type Headers = model.Headers
type Field = model.Field
type Method = model.Method
type Mode = model.Mode

// Error is the only error type returned for failed fetches.
type Error = model.Error

const (
	MethodGet     = model.MethodGet
	MethodHead    = model.MethodHead
	MethodPost    = model.MethodPost
	MethodPut     = model.MethodPut
	MethodPatch   = model.MethodPatch
	MethodDelete  = model.MethodDelete
	MethodConnect = model.MethodConnect
	MethodOptions = model.MethodOptions
	MethodTrace   = model.MethodTrace
)

const (
	ModeCors       = model.ModeCors
	ModeSameOrigin = model.ModeSameOrigin
	ModeNoCors     = model.ModeNoCors
	ModeNavigate   = model.ModeNavigate
)

var DefaultClient = internal.DefaultClient

func NewHeaders(kv ...string) Headers { return model.NewHeaders(kv...) }

func Get(url string) *Request { return model.Get(url) }
func Head(url string) *Request { return model.Head(url) }
func Delete(url string) *Request { return model.Delete(url) }
func Post(url string, body []byte) *Request { return model.Post(url, body) }
func Put(url string, body []byte) *Request { return model.Put(url, body) }
func Patch(url string, body []byte) *Request { return model.Patch(url, body) }
func JSON(url string, v interface{}) (*Request, error) { return model.JSON(url, v) }

// Multipart finishes b and creates a POST request carrying it.
func Multipart(url string, b *multipart.Builder) (*Request, error) {
	ct, body, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return model.WithBody(url, ct, body), nil
}

// Fetch performs req with [DefaultClient]. onDone is called exactly once, on
// another goroutine.
func Fetch(ctx context.Context, req *Request, onDone func(*Response, error)) {
	DefaultClient.Fetch(ctx, req, onDone)
}

func FetchAsync(ctx context.Context, req *Request) (*Response, error) {
	return DefaultClient.FetchAsync(ctx, req)
}
