package dialer

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
)

// CoreDialer configures how the native backend reaches a server: name
// resolution, proxies, TLS and socket buffers. It holds no connection
// state; the transports built from it own their pools. A nil *CoreDialer on
// a [fetch.Client] means all defaults. The browser backend ignores it.
type CoreDialer = dialer.CoreDialer

// ProxyConfig carries extra headers sent with proxy CONNECT requests.
type ProxyConfig = dialer.ProxyConfig

// we need a dedicated resolver for two scenarios:
//
//  1. Resolve remote address locally in proxied requests
//  2. to customize the DNS server used for resolving hostname
//
// the standard library only follows the system configuration (e.g.
// /etc/resolv.conf), leaving us the [net.Resolver.Dial] hook with a Go
// Resolver as the one way of pointing it elsewhere.
type ResolveConfig = dialer.ResolveConfig

// Request is what [CoreDialer.GetProxy] sees: a validated request.
type Request = dialer.Request
