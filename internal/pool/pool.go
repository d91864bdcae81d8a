// package pool bounds how many fetch workers run at the same time.
package pool

import (
	"context"
)

// Limiter hands out tickets. A nil *Limiter never blocks.
type Limiter struct {
	tickets chan struct{}
}

// NewLimiter returns nil for max == 0, meaning no limit.
func NewLimiter(max uint) *Limiter {
	if max == 0 {
		return nil
	}
	return &Limiter{tickets: make(chan struct{}, max)}
}

// Acquire waits for a free ticket or for ctx to end.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case l.tickets <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a ticket taken by a successful Acquire.
func (l *Limiter) Release() {
	if l == nil {
		return
	}
	<-l.tickets
}

// InUse is the number of tickets currently held.
func (l *Limiter) InUse() int {
	if l == nil {
		return 0
	}
	return len(l.tickets)
}
