package fetch

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
)

type CoreDialer = dialer.CoreDialer
type ProxyConfig = dialer.ProxyConfig
type ResolveConfig = dialer.ResolveConfig
