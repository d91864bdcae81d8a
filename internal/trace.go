package internal

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"time"

	"github.com/rs/zerolog"
)

// withTrace logs connection events of the native backend at debug level.
// The browser backend never consults the trace.
func withTrace(ctx context.Context, l *zerolog.Logger) context.Context {
	if l.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return ctx
	}
	start := time.Now()
	since := func() time.Duration { return time.Since(start) }
	return httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		DNSDone: func(info httptrace.DNSDoneInfo) {
			l.Debug().Err(info.Err).Int("addrs", len(info.Addrs)).Dur("at", since()).Msg("dns done")
		},
		ConnectDone: func(network, addr string, err error) {
			l.Debug().Err(err).Str("network", network).Str("addr", addr).Dur("at", since()).Msg("connected")
		},
		TLSHandshakeDone: func(cs tls.ConnectionState, err error) {
			l.Debug().Err(err).Str("proto", cs.NegotiatedProtocol).Dur("at", since()).Msg("tls handshake done")
		},
		GotConn: func(info httptrace.GotConnInfo) {
			l.Debug().Bool("reused", info.Reused).Dur("at", since()).Msg("got conn")
		},
		GotFirstResponseByte: func() {
			l.Debug().Dur("at", since()).Msg("first response byte")
		},
	})
}
