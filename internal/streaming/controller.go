package streaming

import (
	"context"
	"io"
	"time"

	"github.com/frankli0324/go-fetch/internal/model"
)

// Body yields the response body of an opened stream.
type Body interface {
	// Next returns the next piece of the body, or io.EOF once it is
	// exhausted. Empty pieces are skipped by the controller.
	Next(ctx context.Context) ([]byte, error)
	// Close abandons the body, also when it was not read to the end.
	Close() error
}

// Opener starts the exchange and returns as soon as status and headers are
// known.
type Opener func(ctx context.Context) (*model.PartialResponse, Body, error)

// Run drives one stream to completion on the calling goroutine.
func Run(ctx context.Context, open Opener, h Handler) {
	head, body, err := open(ctx)
	if err != nil {
		h(Part{}, model.NewError(err))
		return
	}
	defer body.Close()

	if !deliver(ctx, h, Part{Header: head}) {
		return
	}
	for {
		chunk, err := body.Next(ctx)
		switch {
		case err == io.EOF:
			h(Part{Chunk: []byte{}}, nil)
			return
		case err != nil:
			h(Part{}, model.NewError(err))
			return
		case len(chunk) == 0:
			continue
		}
		if !deliver(ctx, h, Part{Chunk: chunk}) {
			return
		}
	}
}

// deliver hands p to h and applies the returned Flow. It reports whether the
// stream should go on.
func deliver(ctx context.Context, h Handler, p Part) bool {
	f := h(p, nil)
	switch f.action {
	case actionBreak:
		return false
	case actionWait:
		if err := sleep(ctx, f.delay); err != nil {
			h(Part{}, model.NewError(err))
			return false
		}
	}
	return true
}

// sleep pauses the calling goroutine. In the browser build this parks the
// goroutine and the event loop keeps running.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
