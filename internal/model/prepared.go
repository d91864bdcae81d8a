package model

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// PreparedRequest is a Request checked and normalised for a backend. The
// original Request is left untouched.
type PreparedRequest struct {
	*Request

	Method     Method
	U          *url.URL
	Header     Headers
	HeaderHost string
}

// Prepare validates r for the native backend, which needs an absolute
// http(s) URL.
func (r *Request) Prepare() (*PreparedRequest, error) {
	return r.prepare(false)
}

// PrepareRelative is Prepare for the browser backend, where URLs may be
// relative to the document.
func (r *Request) PrepareRelative() (*PreparedRequest, error) {
	return r.prepare(true)
}

func (r *Request) prepare(relative bool) (*PreparedRequest, error) {
	method, err := ParseMethod(string(r.Method))
	if err != nil {
		return nil, err
	}
	if !method.HasBody() && len(r.Body) != 0 {
		return nil, errors.Errorf("%s request must not have a body", method)
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}
	if !relative || u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, errors.Errorf("unsupported protocol scheme %q", u.Scheme)
		}
		if u.Host, err = asciiHost(u.Host); err != nil {
			return nil, err
		}
	}

	headers := make(Headers, 0, len(r.Header))
	host := u.Host
	// user defined headers has higher priority
	for _, f := range r.Header {
		if !httpguts.ValidHeaderFieldName(f.Name) {
			return nil, errors.Errorf("invalid header field name %q", f.Name)
		}
		if !httpguts.ValidHeaderFieldValue(f.Value) {
			return nil, errors.Errorf("invalid header field value for %q", f.Name)
		}
		switch strings.ToLower(f.Name) {
		case "host":
			host = f.Value
			continue
		case "content-length":
			cl, err := strconv.ParseInt(f.Value, 10, 64)
			if err != nil || cl != int64(len(r.Body)) {
				return nil, errors.New("conflicting value between body size and content-length request header")
			}
			continue
		}
		headers = append(headers, f)
	}
	if host == "" && !relative {
		return nil, url.InvalidHostError("empty host")
	}

	return &PreparedRequest{
		Request: r,

		Method:     method,
		U:          u,
		Header:     headers,
		HeaderHost: host,
	}, nil
}

// asciiHost converts an internationalised host name to its punycode form.
// IP literals and plain ASCII hosts are returned as is.
func asciiHost(hostport string) (string, error) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = hostport, ""
	}
	if isASCII(host) || net.ParseIP(strings.Trim(host, "[]")) != nil {
		return hostport, nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", errors.Wrapf(err, "invalid host %q", host)
	}
	if port != "" {
		return net.JoinHostPort(ascii, port), nil
	}
	return ascii, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ValidHeaderText reports whether a received header value can be handed to
// callers as text: valid UTF-8 made of visible characters, spaces and tabs.
func ValidHeaderText(v string) bool {
	if !utf8.ValidString(v) {
		return false
	}
	for _, c := range v {
		if c < ' ' && c != '\t' || c == 0x7f {
			return false
		}
	}
	return true
}
