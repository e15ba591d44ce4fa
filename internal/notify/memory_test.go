package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func runCenterTest(t *testing.T, newCenter func(t *testing.T) Center) {
	t.Helper()

	t.Run("schedule replaces by id", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0, Payload: Payload{Title: "one"}}))
		require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0.Add(time.Hour), Payload: Payload{Title: "two"}}))

		pending, err := c.Pending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "two", pending[0].Payload.Title)
		assert.True(t, t0.Add(time.Hour).Equal(pending[0].FireAt))
	})

	t.Run("pending is ordered by fire time", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "late", FireAt: t0.Add(2 * time.Hour)}))
		require.NoError(t, c.Schedule(ctx, Request{ID: "early", FireAt: t0}))

		pending, err := c.Pending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "early", pending[0].ID)
	})

	t.Run("cancel ignores unknown ids", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0}))
		require.NoError(t, c.Cancel(ctx, []string{"a", "never-scheduled"}))
		require.NoError(t, c.Cancel(ctx, nil))

		pending, err := c.Pending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("metadata survives", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		md := map[string]string{MetaMemoID: "m1", MetaSnoozeCount: "3"}
		require.NoError(t, c.Schedule(ctx, Request{ID: "m1_snooze_3", FireAt: t0, Payload: Payload{Metadata: md}}))

		pending, err := c.Pending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, md, pending[0].Payload.Metadata)
	})

	t.Run("due and ack one-shot", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "now", FireAt: t0}))
		require.NoError(t, c.Schedule(ctx, Request{ID: "later", FireAt: t0.Add(time.Minute)}))

		due, err := c.Due(ctx, t0)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "now", due[0].ID)

		require.NoError(t, c.Ack(ctx, due[0], t0))
		pending, _ := c.Pending(ctx)
		require.Len(t, pending, 1)
		assert.Equal(t, "later", pending[0].ID)
	})

	t.Run("ack advances repeating requests", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "r", FireAt: t0, Repeats: true, Interval: 30 * time.Minute}))

		now := t0.Add(65 * time.Minute)
		due, err := c.Due(ctx, now)
		require.NoError(t, err)
		require.Len(t, due, 1)
		require.NoError(t, c.Ack(ctx, due[0], now))

		pending, _ := c.Pending(ctx)
		require.Len(t, pending, 1)
		assert.True(t, t0.Add(90*time.Minute).Equal(pending[0].FireAt), "got %s", pending[0].FireAt)
		assert.Equal(t, 30*time.Minute, pending[0].Interval)
	})

	t.Run("ack skips rescheduled request", func(t *testing.T) {
		ctx := context.Background()
		c := newCenter(t)

		require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0}))
		due, _ := c.Due(ctx, t0)
		require.Len(t, due, 1)

		require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0.Add(time.Hour)}))
		require.NoError(t, c.Ack(ctx, due[0], t0))

		pending, _ := c.Pending(ctx)
		assert.Len(t, pending, 1)
	})
}

func TestMemoryCenter(t *testing.T) {
	runCenterTest(t, func(t *testing.T) Center { return NewMemoryCenter() })
}

func TestMemoryCenterHistory(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCenter()

	require.NoError(t, c.Schedule(ctx, Request{ID: "a", FireAt: t0}))
	require.NoError(t, c.Cancel(ctx, []string{"a", "b"}))

	assert.Len(t, c.Scheduled(), 1)
	assert.Equal(t, [][]string{{"a", "b"}}, c.Cancellations())

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.ResetHistory()
	assert.Empty(t, c.Scheduled())
	assert.Empty(t, c.Cancellations())
}

func TestNextFire(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"future fire time is kept", t0.Add(-time.Minute), t0},
		{"exactly at fire time moves one interval", t0, t0.Add(time.Hour)},
		{"skips missed occurrences", t0.Add(150 * time.Minute), t0.Add(3 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextFire(t0, time.Hour, tt.now)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
