package ports

import (
	"context"
	"time"
)

// Clock abstracts wall-clock time so scene hold arithmetic is testable.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the given duration or until the context is done.
	// It returns the context error when interrupted, nil otherwise.
	Sleep(ctx context.Context, d time.Duration) error

	// NewTicker returns a ticker firing at the given interval.
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers periodic time signals until stopped.
type Ticker interface {
	// C returns the tick channel.
	C() <-chan time.Time

	// Stop releases the ticker's resources. It does not close C.
	Stop()
}
