package model

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// Response is a completed exchange. Any status, 4xx and 5xx included, is a
// Response and never an error.
type Response struct {
	// URL is where the request ended up, after redirects.
	URL string
	// OK is true for a 2xx status.
	OK         bool
	Status     int
	StatusText string
	Header     Headers
	Bytes      []byte
}

// Text returns the body as a string if it is valid UTF-8.
func (r *Response) Text() (string, bool) {
	if !utf8.Valid(r.Bytes) {
		return "", false
	}
	return string(r.Bytes), true
}

func (r *Response) ContentType() (string, bool) {
	return r.Header.Get("Content-Type")
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Bytes, v)
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{url: %q, ok: %t, status: %d, status_text: %q, headers: %d, bytes: %d bytes}",
		r.URL, r.OK, r.Status, r.StatusText, len(r.Header), len(r.Bytes))
}

// PartialResponse is the status line and headers of a response whose body is
// still being streamed.
type PartialResponse struct {
	URL        string
	OK         bool
	Status     int
	StatusText string
	Header     Headers

	completed uint32
}

func NewPartialResponse(url string, status int, statusText string, header Headers) *PartialResponse {
	return &PartialResponse{
		URL:        url,
		OK:         IsSuccess(status),
		Status:     status,
		StatusText: statusText,
		Header:     header,
	}
}

// Complete turns the partial response into a full one with the given body.
// It may be called once; a second call panics.
func (p *PartialResponse) Complete(body []byte) *Response {
	if !atomic.CompareAndSwapUint32(&p.completed, 0, 1) {
		panic("fetch: PartialResponse completed twice")
	}
	return &Response{
		URL:        p.URL,
		OK:         p.OK,
		Status:     p.Status,
		StatusText: p.StatusText,
		Header:     p.Header,
		Bytes:      body,
	}
}

func IsSuccess(status int) bool { return status >= 200 && status < 300 }

// StatusText prefers the canonical reason phrase and falls back to the one
// sent by the server. status is the full "200 OK" status line part.
func StatusText(code int, status string) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	if _, reason, ok := strings.Cut(status, " "); ok && reason != "" {
		return reason
	}
	return "ERROR"
}
