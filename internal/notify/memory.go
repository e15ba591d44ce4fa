package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryCenter keeps pending requests in process. It also records every
// schedule and cancel call so callers can inspect what was submitted.
type MemoryCenter struct {
	mu        sync.Mutex
	pending   map[string]Request
	scheduled []Request
	cancelled [][]string
}

var _ Center = (*MemoryCenter)(nil)

// NewMemoryCenter returns an empty center.
func NewMemoryCenter() *MemoryCenter {
	return &MemoryCenter{pending: make(map[string]Request)}
}

func (c *MemoryCenter) Schedule(ctx context.Context, r Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r = copyRequest(r)
	c.pending[r.ID] = r
	c.scheduled = append(c.scheduled, r)
	return nil
}

func (c *MemoryCenter) Cancel(ctx context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.pending, id)
	}
	c.cancelled = append(c.cancelled, append([]string(nil), ids...))
	return nil
}

func (c *MemoryCenter) Pending(ctx context.Context) ([]Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Request, 0, len(c.pending))
	for _, r := range c.pending {
		out = append(out, copyRequest(r))
	}
	sortRequests(out)
	return out, nil
}

func (c *MemoryCenter) Due(ctx context.Context, now time.Time) ([]Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Request
	for _, r := range c.pending {
		if !r.FireAt.After(now) {
			out = append(out, copyRequest(r))
		}
	}
	sortRequests(out)
	return out, nil
}

func (c *MemoryCenter) Ack(ctx context.Context, r Request, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.pending[r.ID]
	if !ok || !cur.FireAt.Equal(r.FireAt) {
		// replaced or cancelled since it was read
		return nil
	}
	if cur.Repeats && cur.Interval > 0 {
		cur.FireAt = NextFire(cur.FireAt, cur.Interval, now)
		c.pending[r.ID] = cur
		return nil
	}
	delete(c.pending, r.ID)
	return nil
}

// Get returns the pending request with the given id.
func (c *MemoryCenter) Get(id string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.pending[id]
	return copyRequest(r), ok
}

// Scheduled returns every request submitted so far, in call order.
func (c *MemoryCenter) Scheduled() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Request, len(c.scheduled))
	for i, r := range c.scheduled {
		out[i] = copyRequest(r)
	}
	return out
}

// Cancellations returns the id lists of every cancel call, in call order.
func (c *MemoryCenter) Cancellations() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]string, len(c.cancelled))
	for i, ids := range c.cancelled {
		out[i] = append([]string(nil), ids...)
	}
	return out
}

// ResetHistory clears the recorded calls but keeps pending requests.
func (c *MemoryCenter) ResetHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scheduled = nil
	c.cancelled = nil
}

func copyRequest(r Request) Request {
	if r.Payload.Metadata != nil {
		md := make(map[string]string, len(r.Payload.Metadata))
		for k, v := range r.Payload.Metadata {
			md[k] = v
		}
		r.Payload.Metadata = md
	}
	return r
}
