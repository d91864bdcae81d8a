package dialer

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/pkg/errors"
)

// CoreDialer holds everything related to the connection underneath a
// request: name resolution, proxies, TLS and socket tuning. It keeps no
// connection state, so it can be swapped out between requests. Transports
// built from it own their connection pools.
type CoreDialer struct {
	ResolveConfig *ResolveConfig

	TLSConfig *tls.Config // the config to use, nil means defaults

	// GetProxy picks a proxy URL for a request, "" meaning a direct
	// connection. When nil, the HTTP_PROXY family of environment variables
	// is used.
	GetProxy    func(ctx context.Context, r *Request) (string, error)
	ProxyConfig *ProxyConfig

	DisableHTTP2 bool

	ConnectTimeout time.Duration // zero means no limit besides the context
	KeepAlive      time.Duration // zero means the net.Dialer default

	// socket buffer sizes applied before connecting, zero keeps the system
	// default. Only honoured on linux and darwin.
	ReceiveBuffer int
	SendBuffer    int
}

func (d *CoreDialer) Clone() *CoreDialer {
	if d == nil {
		return nil
	}
	return &CoreDialer{
		ResolveConfig:  d.ResolveConfig.Clone(),
		TLSConfig:      d.TLSConfig.Clone(),
		GetProxy:       d.GetProxy,
		ProxyConfig:    d.ProxyConfig.Clone(),
		DisableHTTP2:   d.DisableHTTP2,
		ConnectTimeout: d.ConnectTimeout,
		KeepAlive:      d.KeepAlive,
		ReceiveBuffer:  d.ReceiveBuffer,
		SendBuffer:     d.SendBuffer,
	}
}

var zeroDialer net.Dialer

// DialContext opens a TCP connection to addr, honouring the resolve config.
// It has the signature of [net/http.Transport.DialContext]. Names are
// resolved with LookupIP and the addresses are tried in order.
func (d *CoreDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	dialer := net.Dialer{
		Timeout:   d.ConnectTimeout,
		KeepAlive: d.KeepAlive,
		Control:   d.control,
	}
	cfg := d.ResolveConfig
	if cfg == nil {
		return dialer.DialContext(ctx, network, addr)
	}
	if cfg.Network == "ip4" {
		network = "tcp4"
	} else if cfg.Network == "ip6" {
		network = "tcp6"
	}
	if net.ParseIP(host) != nil {
		return dialer.DialContext(ctx, network, addr)
	}

	ips, err := d.LookupIP(ctx, host)
	if err != nil {
		return nil, err
	}
	var first error
	for _, ip := range ips {
		conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
		if err == nil {
			return conn, nil
		}
		if first == nil {
			first = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	if first == nil {
		first = errors.Errorf("no addresses found for %q", host)
	}
	return nil, first
}
