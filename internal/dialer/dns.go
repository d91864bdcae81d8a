package dialer

import (
	"context"
	"net"
)

// ResolveConfig overrides how host names are turned into addresses.
type ResolveConfig struct {
	CustomDNSServer string            // "host:port" of the DNS server to ask
	Network         string            // one of "ip4", "ip6", default is "ip"
	StaticHosts     map[string]string // resembles /etc/hosts
}

func (c *ResolveConfig) Clone() *ResolveConfig {
	if c == nil {
		return nil
	}
	hosts := make(map[string]string, len(c.StaticHosts))
	for k, v := range c.StaticHosts {
		hosts[k] = v
	}
	return &ResolveConfig{
		CustomDNSServer: c.CustomDNSServer,
		Network:         c.Network,
		StaticHosts:     hosts,
	}
}

// this type should not be used outside this file.
// prevents non-custom DNS server contexts to iterate through all keys
type dnsServerCtx struct {
	context.Context
	server string
}

var dnsServerCtxKey = &dnsServerCtx{nil, "dns-server"} // non-nil pointer to any object, definitely unique

func (c dnsServerCtx) Value(key interface{}) interface{} {
	if key == dnsServerCtxKey {
		return c.server
	}
	return c.Context.Value(key)
}

var customServerResolver = net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
		if v, ok := ctx.Value(dnsServerCtxKey).(string); ok && v != "" {
			return zeroDialer.DialContext(ctx, network, v)
		}
		return zeroDialer.DialContext(ctx, network, address)
	},
}

// LookupIP resolves host the way DialContext would, static hosts included.
func (d *CoreDialer) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	cfg := d.ResolveConfig
	if cfg == nil {
		return customServerResolver.LookupIP(ctx, "ip", host)
	}
	if static, ok := cfg.StaticHosts[host]; ok {
		if ip := net.ParseIP(static); ip != nil {
			return []net.IP{ip}, nil
		}
		host = static
	}
	network := cfg.Network
	if network == "" {
		network = "ip"
	}
	return customServerResolver.LookupIP(dnsServerCtx{ctx, cfg.CustomDNSServer}, network, host)
}
