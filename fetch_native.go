//go:build !js || !wasm
// +build !js !wasm

package fetch

import "context"

// FetchBlocking performs req with [DefaultClient] on the calling goroutine.
// It is not available in the browser.
func FetchBlocking(ctx context.Context, req *Request) (*Response, error) {
	return DefaultClient.FetchBlocking(ctx, req)
}
