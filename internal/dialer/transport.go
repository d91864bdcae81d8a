package dialer

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewTransport builds the executor for requests with the given TLS
// relaxation. Each transport pools its own connections.
func (d *CoreDialer) NewTransport(relax Relax) (*http.Transport, error) {
	t := &http.Transport{
		Proxy:                 d.proxy,
		DialContext:           d.DialContext,
		TLSClientConfig:       d.tlsConfig(relax),
		ProxyConnectHeader:    d.ProxyConfig.connectHeader(),
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   80,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if d.DisableHTTP2 {
		// a non-nil empty map is how net/http is told not to negotiate h2
		t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		return t, nil
	}
	if _, err := http2.ConfigureTransports(t); err != nil {
		return nil, err
	}
	return t, nil
}
