package progress

import "context"

// EventFunc is called for each event.
type EventFunc func(ctx context.Context, ev Event) error

// Callback delivers events via an in-process function call, zero
// serialisation. A nil handler discards events.
type Callback struct {
	fn EventFunc
}

func NewCallback(fn EventFunc) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, ev Event) error {
	if c.fn != nil {
		return c.fn(ctx, ev)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
