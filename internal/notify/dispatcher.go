package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// DefaultTick is how often the dispatcher looks for due requests.
const DefaultTick = 20 * time.Second

// SnoozeHandler is told about every delivered snooze link so it can ask for
// the next one.
type SnoozeHandler func(ctx context.Context, memoID string, firedAt time.Time, count int)

// Dispatcher delivers due requests from a Queue to its sinks.
type Dispatcher struct {
	queue    Queue
	clk      clock.Clock
	logger   *zap.Logger
	tick     time.Duration
	sinks    []Sink
	onSnooze SnoozeHandler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTick sets the polling interval.
func WithTick(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.tick = d
		}
	}
}

// WithSinks adds delivery sinks.
func WithSinks(sinks ...Sink) Option {
	return func(dp *Dispatcher) {
		dp.sinks = append(dp.sinks, sinks...)
	}
}

// WithSnoozeHandler registers the callback for delivered snooze links.
func WithSnoozeHandler(h SnoozeHandler) Option {
	return func(dp *Dispatcher) {
		dp.onSnooze = h
	}
}

func NewDispatcher(q Queue, clk clock.Clock, logger *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:  q,
		clk:    clk,
		logger: logger,
		tick:   DefaultTick,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run delivers due requests every tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	d.logger.Info("dispatcher started", zap.Duration("tick", d.tick), zap.Int("sinks", len(d.sinks)))

	for {
		if _, err := d.Tick(ctx); err != nil {
			d.logger.Error("dispatch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick delivers everything due now and returns how many requests fired.
func (d *Dispatcher) Tick(ctx context.Context) (int, error) {
	now := d.clk.Now()
	due, err := d.queue.Due(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, r := range due {
		d.deliver(ctx, r)

		if err := d.queue.Ack(ctx, r, now); err != nil {
			d.logger.Error("failed to ack request", zap.String("id", r.ID), zap.Error(err))
		}

		d.continueSnooze(ctx, r, now)
	}
	return len(due), nil
}

func (d *Dispatcher) deliver(ctx context.Context, r Request) {
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, r); err != nil {
			d.logger.Warn("delivery failed",
				zap.String("sink", s.Name()),
				zap.String("id", r.ID),
				zap.Error(err))
		}
	}
}

func (d *Dispatcher) continueSnooze(ctx context.Context, r Request, firedAt time.Time) {
	if d.onSnooze == nil {
		return
	}
	raw, ok := r.Payload.Metadata[MetaSnoozeCount]
	if !ok {
		return
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		d.logger.Warn("bad snooze count", zap.String("id", r.ID), zap.String("value", raw))
		return
	}
	d.onSnooze(ctx, r.Payload.Metadata[MetaMemoID], firedAt, count)
}
