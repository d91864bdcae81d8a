// Package streaming fetches a response piece by piece. The handler first
// sees the header, then every body chunk, then an empty chunk marking the
// end. After each part it decides whether to go on, stop or pause.
package streaming

import (
	"context"

	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/streaming"
)

type Part = streaming.Part
type Flow = streaming.Flow

// Handler receives each part, or a non-nil err exactly once when the stream
// fails. Returning [Break] releases the connection and no further parts are
// delivered.
type Handler = streaming.Handler

var (
	Continue = streaming.Continue
	Break    = streaming.Break
)

var Wait = streaming.Wait

// Fetch streams req with client, or the default client when nil, on a
// new goroutine.
func Fetch(ctx context.Context, client *internal.Client, req *model.Request, h Handler) {
	if client == nil {
		client = internal.DefaultClient
	}
	client.Stream(ctx, req, h)
}
