// package transport turns a Request into a Response on one of two backends,
// exactly one of which is compiled in.
//
// the native backend drives [net/http.Transport], with HTTP/2 configured by
// golang.org/x/net/http2. message syntax (RFC9112, RFC9113) is entirely left
// to those packages; what lives here is the mapping between our model and
// theirs, timeouts, and the body reader used for streaming.
//
// the browser backend (js/wasm) hands the request to the host's fetch API
// and awaits its promises from a goroutine, which yields to the event loop
// while it waits.
//
// both backends report HTTP error statuses as responses. an error means no
// response could be obtained at all.

package transport
