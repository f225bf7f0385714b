package queue

import (
	"context"
	"time"
)

// Transport delivers job messages to consumers. A non-zero delay postpones
// visibility, which backs the retry backoff.
type Transport interface {
	Send(ctx context.Context, msg Message, delay time.Duration) error
}

// Receiver yields job messages as they become visible. Receive blocks until a
// message arrives or ctx is done.
type Receiver interface {
	Receive(ctx context.Context) (Message, error)
}
