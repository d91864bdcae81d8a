package model

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Method is one of the nine request methods understood by both backends.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

var methods = [...]Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
	MethodDelete, MethodConnect, MethodOptions, MethodTrace,
}

// ParseMethod accepts any casing and returns the canonical upper-case method.
func ParseMethod(s string) (Method, error) {
	for _, m := range methods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", errors.Errorf("unsupported method %q", s)
}

// HasBody reports whether requests with this method may carry a body.
// POST, PUT and PATCH may still send an empty one.
func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// Mode controls cross-origin behaviour of the browser backend, see
// https://developer.mozilla.org/en-US/docs/Web/API/Request/mode.
// The native backend ignores it.
type Mode int

const (
	// ModeCors sends an Origin header and expects the server to allow it.
	ModeCors Mode = iota
	// ModeSameOrigin fails any request to another origin.
	ModeSameOrigin
	// ModeNoCors omits the Origin header; the response is opaque.
	ModeNoCors
	// ModeNavigate is used by navigations only.
	ModeNavigate
)

func (m Mode) String() string {
	switch m {
	case ModeSameOrigin:
		return "same-origin"
	case ModeNoCors:
		return "no-cors"
	case ModeNavigate:
		return "navigate"
	}
	return "cors"
}

// Request is consumed by a fetch and must not be changed afterwards.
type Request struct {
	Method Method
	URL    string
	// Body must be empty unless Method.HasBody.
	Body   []byte
	Header Headers

	// Mode is only honoured by the browser backend.
	Mode Mode

	// TLS relaxation, native backend only. The browser owns TLS.
	DangerAcceptInvalidHostnames bool
	DangerAcceptInvalidCerts     bool
}

func newRequest(method Method, url string, body []byte, header Headers) *Request {
	return &Request{Method: method, URL: url, Body: body, Header: header}
}

func Get(url string) *Request {
	return newRequest(MethodGet, url, nil, NewHeaders("Accept", "*/*"))
}

func Head(url string) *Request {
	return newRequest(MethodHead, url, nil, NewHeaders("Accept", "*/*"))
}

func Delete(url string) *Request {
	return newRequest(MethodDelete, url, nil, NewHeaders("Accept", "*/*"))
}

// Post creates a POST request with a plain-text content type.
func Post(url string, body []byte) *Request {
	return newRequest(MethodPost, url, body, NewHeaders(
		"Accept", "*/*",
		"Content-Type", "text/plain; charset=utf-8",
	))
}

func Put(url string, body []byte) *Request {
	r := Post(url, body)
	r.Method = MethodPut
	return r
}

func Patch(url string, body []byte) *Request {
	r := Post(url, body)
	r.Method = MethodPatch
	return r
}

// JSON creates a POST request whose body is v encoded as JSON.
func JSON(url string, v interface{}) (*Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode json body")
	}
	return newRequest(MethodPost, url, b, NewHeaders(
		"Accept", "*/*",
		"Content-Type", "application/json",
	)), nil
}

// WithBody creates a POST request with an explicit content type, e.g. for
// multipart form data.
func WithBody(url, contentType string, body []byte) *Request {
	return newRequest(MethodPost, url, body, NewHeaders(
		"Accept", "*/*",
		"Content-Type", contentType,
	))
}

func (r *Request) Clone() *Request {
	c := *r
	c.Body = append([]byte(nil), r.Body...)
	c.Header = r.Header.Clone()
	return &c
}

// WithDangerAcceptInvalidCerts returns a copy that skips certificate
// verification on the native backend.
func (r *Request) WithDangerAcceptInvalidCerts(accept bool) *Request {
	c := r.Clone()
	c.DangerAcceptInvalidCerts = accept
	return c
}

// WithDangerAcceptInvalidHostnames returns a copy that still verifies the
// certificate chain but not the host name it was issued for.
func (r *Request) WithDangerAcceptInvalidHostnames(accept bool) *Request {
	c := r.Clone()
	c.DangerAcceptInvalidHostnames = accept
	return c
}
