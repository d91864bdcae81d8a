//go:build js && wasm
// +build js,wasm

package internal

import (
	"github.com/frankli0324/go-fetch/internal/transport"
)

func newBackend(*Client) transport.Backend {
	return transport.Web{}
}
