// Package notify defines the notification port the scheduler talks to and
// the local centers that implement it.
package notify

import (
	"context"
	"sort"
	"time"
)

// Metadata keys carried in Payload.Metadata.
const (
	MetaMemoID      = "memo_id"
	MetaSnoozeCount = "snooze_count"
	MetaCategory    = "category"
)

// Categories select the actions a delivered notification offers.
const (
	CategorySnooze     = "SNOOZE_CATEGORY"
	CategorySnoozeStop = "SNOOZE_STOP_CATEGORY"
)

// Payload is what the user sees when a trigger fires.
type Payload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Request is a single trigger: an id, a fire time and a payload. A repeating
// request fires at FireAt and then every Interval.
type Request struct {
	ID       string        `json:"id"`
	FireAt   time.Time     `json:"fire_at"`
	Payload  Payload       `json:"payload"`
	Repeats  bool          `json:"repeats"`
	Interval time.Duration `json:"interval,omitempty"`
}

// Port is the scheduling capability consumed by the engine.
type Port interface {
	// Schedule submits or replaces the request with the same id.
	Schedule(ctx context.Context, r Request) error

	// Cancel removes pending requests. Unknown ids are ignored.
	Cancel(ctx context.Context, ids []string) error

	// Pending lists pending requests ordered by fire time. Advisory only.
	Pending(ctx context.Context) ([]Request, error)
}

// Queue is implemented by centers that a Dispatcher can drain.
type Queue interface {
	// Due returns pending requests whose fire time is not after now.
	Due(ctx context.Context, now time.Time) ([]Request, error)

	// Ack marks a delivered request: one-shot requests are removed,
	// repeating ones move to their next fire time after now.
	Ack(ctx context.Context, r Request, now time.Time) error
}

// Center is a Port that can also be drained.
type Center interface {
	Port
	Queue
}

// NextFire returns the first occurrence of a repeating request strictly
// after now.
func NextFire(fireAt time.Time, interval time.Duration, now time.Time) time.Time {
	if interval <= 0 || fireAt.After(now) {
		return fireAt
	}
	steps := now.Sub(fireAt)/interval + 1
	return fireAt.Add(steps * interval)
}

func sortRequests(reqs []Request) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].FireAt.Equal(reqs[j].FireAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].FireAt.Before(reqs[j].FireAt)
	})
}
