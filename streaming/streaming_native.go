//go:build !js || !wasm
// +build !js !wasm

package streaming

import (
	"context"

	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/model"
)

// FetchBlocking streams req on the calling goroutine and returns after the
// last part.
func FetchBlocking(ctx context.Context, client *internal.Client, req *model.Request, h Handler) {
	if client == nil {
		client = internal.DefaultClient
	}
	client.StreamBlocking(ctx, req, h)
}
