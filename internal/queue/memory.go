package queue

import (
	"context"
	"time"
)

// MemoryTransport is a channel-backed transport for local runs and tests. It
// implements both Transport and Receiver so the API process can host the
// worker in the same binary.
type MemoryTransport struct {
	ch chan Message
}

// NewMemoryTransport constructs a MemoryTransport with the given buffer size.
func NewMemoryTransport(buffer int) *MemoryTransport {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemoryTransport{ch: make(chan Message, buffer)}
}

// Send makes the message visible after delay. Delayed sends fire from a timer
// goroutine so Send never blocks on the backoff.
func (t *MemoryTransport) Send(ctx context.Context, msg Message, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay <= 0 {
		t.ch <- msg
		return nil
	}
	time.AfterFunc(delay, func() {
		t.ch <- msg
	})
	return nil
}

// Receive blocks until a message is visible or ctx is done.
func (t *MemoryTransport) Receive(ctx context.Context) (Message, error) {
	select {
	case msg := <-t.ch:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

var (
	_ Transport = (*MemoryTransport)(nil)
	_ Receiver  = (*MemoryTransport)(nil)
)
