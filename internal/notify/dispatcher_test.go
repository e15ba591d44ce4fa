package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, r Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, r.ID)
	return s.err
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

type snoozeCall struct {
	memoID  string
	firedAt time.Time
	count   int
}

func TestDispatcherTick(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake()
	clk.Set(t0)

	c := NewMemoryCenter()
	require.NoError(t, c.Schedule(ctx, Request{ID: "m1", FireAt: t0.Add(-time.Minute)}))
	require.NoError(t, c.Schedule(ctx, Request{ID: "m1_repeat", FireAt: t0, Repeats: true, Interval: time.Hour}))
	require.NoError(t, c.Schedule(ctx, Request{ID: "m2", FireAt: t0.Add(time.Minute)}))

	sink := &recordingSink{}
	d := NewDispatcher(c, clk, zap.NewNop(), WithSinks(sink))

	n, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"m1", "m1_repeat"}, sink.delivered())

	pending, _ := c.Pending(ctx)
	require.Len(t, pending, 2)
	assert.Equal(t, "m2", pending[0].ID)
	assert.Equal(t, "m1_repeat", pending[1].ID)
	assert.True(t, t0.Add(time.Hour).Equal(pending[1].FireAt))

	// nothing new is due until the clock moves
	n, err = d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	clk.Add(time.Minute)
	n, _ = d.Tick(ctx)
	assert.Equal(t, 1, n)
}

func TestDispatcherContinuesSnoozeChain(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake()
	clk.Set(t0)

	c := NewMemoryCenter()
	require.NoError(t, c.Schedule(ctx, Request{
		ID:     "m1_snooze_4",
		FireAt: t0.Add(-30 * time.Second),
		Payload: Payload{Metadata: map[string]string{
			MetaMemoID:      "m1",
			MetaSnoozeCount: "4",
		}},
	}))
	require.NoError(t, c.Schedule(ctx, Request{ID: "m1", FireAt: t0,
		Payload: Payload{Metadata: map[string]string{MetaMemoID: "m1"}}}))

	var calls []snoozeCall
	d := NewDispatcher(c, clk, zap.NewNop(), WithSnoozeHandler(func(ctx context.Context, memoID string, firedAt time.Time, count int) {
		calls = append(calls, snoozeCall{memoID, firedAt, count})
	}))

	_, err := d.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, calls, 1, "only snooze links continue the chain")
	assert.Equal(t, "m1", calls[0].memoID)
	assert.Equal(t, 4, calls[0].count)
	assert.True(t, t0.Equal(calls[0].firedAt))
}

func TestDispatcherLogsSinkFailure(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake()
	clk.Set(t0)

	core, logs := observer.New(zapcore.WarnLevel)
	c := NewMemoryCenter()
	require.NoError(t, c.Schedule(ctx, Request{ID: "m1", FireAt: t0}))

	sink := &recordingSink{err: errors.New("offline")}
	d := NewDispatcher(c, clk, zap.New(core), WithSinks(sink))

	n, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, logs.FilterMessage("delivery failed").Len())

	// a failed delivery is still acknowledged
	pending, _ := c.Pending(ctx)
	assert.Empty(t, pending)
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(t0)

	c := NewMemoryCenter()
	require.NoError(t, c.Schedule(context.Background(), Request{ID: "m1", FireAt: t0}))

	sink := &recordingSink{}
	d := NewDispatcher(c, clk, zap.NewNop(), WithSinks(sink), WithTick(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sink.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
