package dialer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frankli0324/go-fetch/internal/model"
)

type Request = model.PreparedRequest

type ProxyConfig struct {
	// ConnectHeader is sent with the CONNECT request to the proxy, e.g.
	// Proxy-Authorization. Credentials in the proxy URL are added for you.
	ConnectHeader model.Headers
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{ConnectHeader: c.ConnectHeader.Clone()}
}

func (c *ProxyConfig) connectHeader() http.Header {
	if c == nil || len(c.ConnectHeader) == 0 {
		return nil
	}
	h := make(http.Header, len(c.ConnectHeader))
	for _, f := range c.ConnectHeader {
		h.Add(f.Name, f.Value)
	}
	return h
}

type requestCtxKey struct{}

// WithRequest makes r visible to GetProxy for the exchange run under ctx.
func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, r)
}

func requestFrom(ctx context.Context) *Request {
	r, _ := ctx.Value(requestCtxKey{}).(*Request)
	return r
}

// proxy has the signature of [net/http.Transport.Proxy].
func (d *CoreDialer) proxy(r *http.Request) (*url.URL, error) {
	if d.GetProxy == nil {
		return http.ProxyFromEnvironment(r)
	}
	proxy, err := d.GetProxy(r.Context(), requestFrom(r.Context()))
	if err != nil || proxy == "" {
		return nil, err
	}
	return url.Parse(proxy)
}
