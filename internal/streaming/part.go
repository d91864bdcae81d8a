// package streaming delivers a response as an ordered sequence of parts: one
// header, any number of non-empty chunks, then one empty chunk marking the end
// of the body. The consumer paces the sequence with the Flow it returns.
package streaming

import (
	"fmt"
	"time"

	"github.com/frankli0324/go-fetch/internal/model"
)

// Part is either the response header or a piece of the body.
type Part struct {
	// Header is set on the first part only.
	Header *model.PartialResponse
	// Chunk is the next piece of the body. An empty chunk ends the body.
	Chunk []byte
}

func (p Part) IsHeader() bool { return p.Header != nil }

// IsEnd reports whether p is the terminating empty chunk.
func (p Part) IsEnd() bool { return p.Header == nil && len(p.Chunk) == 0 }

type action uint8

const (
	actionContinue action = iota
	actionBreak
	actionWait
)

// Flow is what a Handler returns after each part.
type Flow struct {
	action action
	delay  time.Duration
}

var (
	// Continue asks for the next part right away. It is the zero Flow.
	Continue = Flow{}
	// Break stops the stream. No further parts are delivered and the
	// connection is dropped.
	Break = Flow{action: actionBreak}
)

// Wait delays the next part by at least d.
func Wait(d time.Duration) Flow {
	return Flow{action: actionWait, delay: d}
}

func (f Flow) IsBreak() bool { return f.action == actionBreak }

// Delay returns the requested pause, zero unless f was made by Wait.
func (f Flow) Delay() time.Duration {
	if f.action == actionWait {
		return f.delay
	}
	return 0
}

func (f Flow) String() string {
	switch f.action {
	case actionBreak:
		return "Break"
	case actionWait:
		return fmt.Sprintf("Wait(%s)", f.delay)
	}
	return "Continue"
}

// Handler receives every part of a stream, or a single error in place of the
// part that could not be produced. It is never called concurrently with
// itself. After an error, or after the end chunk, its return value is
// ignored.
type Handler func(part Part, err error) Flow
