//go:build !js || !wasm
// +build !js !wasm

package transport_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/transport"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.Header().Set("X-Method", r.Method)
		io.WriteString(w, "hello")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		io.WriteString(w, "missing")
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Got-Token", r.Header.Get("x-token"))
		io.Copy(w, r.Body)
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("0123456789", 1000))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "first")
		w.(http.Flusher).Flush()
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// rawServer answers every connection with resp verbatim and closes it.
func rawServer(t *testing.T, resp string) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				tp := bufio.NewReader(c)
				for {
					line, err := tp.ReadString('\n')
					if err != nil || line == "\r\n" {
						break
					}
				}
				io.WriteString(c, resp)
			}(c)
		}
	}()
	return "http://" + l.Addr().String()
}

func TestNativeOK(t *testing.T) {
	s := newServer(t)
	n := &transport.Native{}
	resp, err := n.Fetch(context.Background(), model.Get(s.URL+"/ok"))
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "OK", resp.StatusText)
	assert.Equal(t, "hello", string(resp.Bytes))
	assert.Equal(t, s.URL+"/ok", resp.URL)
	assert.Equal(t, []string{"a=1", "b=2"}, resp.Header.GetAll("Set-Cookie"))
	for i, f := range resp.Header {
		assert.Equal(t, strings.ToLower(f.Name), f.Name)
		if i > 0 {
			assert.LessOrEqual(t, resp.Header[i-1].Name, f.Name)
		}
	}
}

func TestNativeNotFoundIsResponse(t *testing.T) {
	s := newServer(t)
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Get(s.URL+"/missing"))
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, 404, resp.Status)
	assert.Equal(t, "missing", string(resp.Bytes))
}

func TestNativeUnresolvableHost(t *testing.T) {
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Get("http://nowhere.invalid/"))
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestNativeInvalidRequest(t *testing.T) {
	r := model.Get("http://example.com")
	r.Body = []byte("not allowed")
	_, err := (&transport.Native{}).Fetch(context.Background(), r)
	assert.Error(t, err)
}

func TestNativePostEcho(t *testing.T) {
	s := newServer(t)
	r := model.Post(s.URL+"/echo", []byte("payload"))
	r.Header.Insert("X-Token", "t0k")
	resp, err := (&transport.Native{}).Fetch(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(resp.Bytes))
	tok, _ := resp.Header.Get("X-Got-Token")
	assert.Equal(t, "t0k", tok)
}

func TestNativeRedirectFinalURL(t *testing.T) {
	s := newServer(t)
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Get(s.URL+"/redirect"))
	require.NoError(t, err)
	assert.Equal(t, s.URL+"/ok", resp.URL)
	assert.Equal(t, "hello", string(resp.Bytes))
}

func TestNativeHead(t *testing.T) {
	s := newServer(t)
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Head(s.URL+"/ok"))
	require.NoError(t, err)
	assert.Empty(t, resp.Bytes)
	m, _ := resp.Header.Get("x-method")
	assert.Equal(t, "HEAD", m)
}

func TestNativeHeadMissingBody(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 10\r\nContent-Encoding: gzip\r\n\r\n")
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Head(url))
	require.NoError(t, err)
	assert.Empty(t, resp.Bytes)
}

func TestNativeTruncatedBody(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nabc")
	_, err := (&transport.Native{}).Fetch(context.Background(), model.Get(url))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "failed to read response body")
}

func TestNativeHeaderNotText(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nX-Bin: \xff\xfe\r\nContent-Length: 0\r\n\r\n")
	_, err := (&transport.Native{}).Fetch(context.Background(), model.Get(url))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x-bin")
}

func TestNativeUnknownStatus(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 599 Custom Reason\r\nContent-Length: 0\r\n\r\n")
	resp, err := (&transport.Native{}).Fetch(context.Background(), model.Get(url))
	require.NoError(t, err)
	assert.Equal(t, 599, resp.Status)
	assert.Equal(t, "Custom Reason", resp.StatusText)
}

func TestNativeOpenChunksMatchFetch(t *testing.T) {
	s := newServer(t)
	n := &transport.Native{}
	full, err := n.Fetch(context.Background(), model.Get(s.URL+"/big"))
	require.NoError(t, err)

	head, body, err := n.Open(context.Background(), model.Get(s.URL+"/big"))
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, 200, head.Status)

	var got []byte
	for {
		chunk, err := body.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, len(chunk), transport.ChunkSize)
		got = append(got, chunk...)
	}
	assert.Equal(t, full.Bytes, got)
	assert.Equal(t, full.Bytes, head.Complete(got).Bytes)
}

func TestNativeReceiveTimeout(t *testing.T) {
	s := newServer(t)
	n := &transport.Native{Timeout: 50 * time.Millisecond}
	_, body, err := n.Open(context.Background(), model.Get(s.URL+"/slow"))
	require.NoError(t, err)
	defer body.Close()

	var got string
	for {
		chunk, err := body.Next(context.Background())
		if err != nil {
			assert.Contains(t, err.Error(), "timed out")
			break
		}
		got += string(chunk)
	}
	assert.Equal(t, "first", got)

	start := time.Now()
	_, err = n.Fetch(context.Background(), model.Get(s.URL+"/slow"))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNativeIdleTimeoutIgnoresPausesBetweenReads(t *testing.T) {
	const size = 8 << 20
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, size))
	}))
	defer s.Close()

	n := &transport.Native{Timeout: 100 * time.Millisecond}
	_, body, err := n.Open(context.Background(), model.Get(s.URL))
	require.NoError(t, err)
	defer body.Close()

	time.Sleep(300 * time.Millisecond)
	total := 0
	for reads := 0; ; reads++ {
		chunk, err := body.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		total += len(chunk)
		if reads == 10 {
			time.Sleep(300 * time.Millisecond)
		}
	}
	assert.Equal(t, size, total)
}

func TestNativeContextCancelled(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&transport.Native{}).Fetch(ctx, model.Get(s.URL+"/ok"))
	assert.True(t, errors.Is(err, context.Canceled))
}
