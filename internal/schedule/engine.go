// Package schedule computes the trigger set of a memo and keeps the
// notification port in sync with it.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/notify"
)

// NotificationTitle heads every payload.
const NotificationTitle = "SmartMemo"

// Engine submits and cancels a memo's triggers through a notify.Port.
// Port failures are logged and swallowed.
type Engine struct {
	port   notify.Port
	clk    clock.Clock
	logger *zap.Logger
}

func NewEngine(port notify.Port, clk clock.Clock, logger *zap.Logger) *Engine {
	return &Engine{port: port, clk: clk, logger: logger}
}

// Schedule submits every trigger of m that lies in the future and returns
// the requests the port accepted. The stored notification time stays the
// reference instant even when the initial fire itself is already past.
func (e *Engine) Schedule(ctx context.Context, m model.Memo) []notify.Request {
	if m.NotificationAt == nil {
		return nil
	}
	ref := *m.NotificationAt
	now := e.clk.Now()
	ids := TriggerIDs(m.ID)

	var submitted []notify.Request

	if ref.After(now) {
		md := map[string]string{notify.MetaMemoID: m.ID}
		if m.SnoozeRule.IsNone() {
			md[notify.MetaCategory] = notify.CategorySnooze
		}
		submitted = e.submit(ctx, submitted, notify.Request{
			ID:      ids.Initial,
			FireAt:  ref,
			Payload: notify.Payload{Title: NotificationTitle, Body: m.Title, Metadata: md},
		})
	} else {
		e.logger.Debug("initial fire in the past, skipped",
			zap.String("memo_id", m.ID), zap.Time("notification_at", ref))
	}

	if !m.SnoozeRule.IsNone() {
		if at := ref.Add(m.SnoozeRule.Duration()); at.After(now) {
			submitted = e.submit(ctx, submitted, snoozeRequest(m, ids, at, 1))
		}
	}

	if interval, ok := m.RepeatRule.Interval(); ok {
		submitted = e.submit(ctx, submitted, notify.Request{
			ID:       ids.Repeat,
			FireAt:   notify.NextFire(ref.Add(interval), interval, now),
			Payload:  notify.Payload{Title: NotificationTitle, Body: m.Title, Metadata: map[string]string{notify.MetaMemoID: m.ID}},
			Repeats:  true,
			Interval: interval,
		})
	} else if m.RepeatRule == model.RepeatMonthly {
		for n := 1; n <= MonthlyHorizon; n++ {
			at := AddMonthsClamped(ref, n)
			if !at.After(now) {
				continue
			}
			submitted = e.submit(ctx, submitted, notify.Request{
				ID:      ids.Monthly[n-1],
				FireAt:  at,
				Payload: notify.Payload{Title: NotificationTitle, Body: m.Title, Metadata: map[string]string{notify.MetaMemoID: m.ID}},
			})
		}
	}

	return submitted
}

// ScheduleNextSnooze submits chain link currentCount+1 at the given time.
// It reports false once the chain is exhausted.
func (e *Engine) ScheduleNextSnooze(ctx context.Context, m model.Memo, at time.Time, currentCount int) bool {
	next := max(currentCount, 0) + 1
	if next > MaxSnoozeLinks {
		e.logger.Debug("snooze chain exhausted", zap.String("memo_id", m.ID), zap.Int("count", currentCount))
		return false
	}
	if !at.After(e.clk.Now()) {
		e.logger.Debug("snooze link in the past, skipped", zap.String("memo_id", m.ID), zap.Time("at", at))
		return false
	}
	r := snoozeRequest(m, TriggerIDs(m.ID), at, next)
	return len(e.submit(ctx, nil, r)) == 1
}

// HandleSnoozeAction seeds a fresh chain relative to now.
func (e *Engine) HandleSnoozeAction(ctx context.Context, m model.Memo, rule model.SnoozeRule) bool {
	if rule.IsNone() {
		return false
	}
	at := e.clk.Now().Add(rule.Duration())
	r := snoozeRequest(m, TriggerIDs(m.ID), at, 1)
	return len(e.submit(ctx, nil, r)) == 1
}

// Cancel removes every trigger the memo could own in one request.
func (e *Engine) Cancel(ctx context.Context, memoID string) {
	e.cancel(ctx, memoID, TriggerIDs(memoID).All())
}

// StopSnooze removes the snooze chain and leaves the other triggers alone.
func (e *Engine) StopSnooze(ctx context.Context, memoID string) {
	e.cancel(ctx, memoID, TriggerIDs(memoID).SnoozeIDs())
}

// RescheduleOnUpdate tears down the old trigger set and rebuilds it from
// the updated memo.
func (e *Engine) RescheduleOnUpdate(ctx context.Context, old, updated model.Memo) []notify.Request {
	e.Cancel(ctx, old.ID)
	return e.Schedule(ctx, updated)
}

// Pending lists the pending requests that belong to memoID.
func (e *Engine) Pending(ctx context.Context, memoID string) ([]notify.Request, error) {
	all, err := e.port.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var out []notify.Request
	for _, r := range all {
		if id, _, _ := ParseTriggerID(r.ID); id == memoID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (e *Engine) submit(ctx context.Context, acc []notify.Request, r notify.Request) []notify.Request {
	if err := e.port.Schedule(ctx, r); err != nil {
		e.logger.Warn("failed to schedule trigger",
			zap.String("trigger_id", r.ID),
			zap.Time("fire_at", r.FireAt),
			zap.Error(err))
		return acc
	}
	e.logger.Debug("trigger scheduled", zap.String("trigger_id", r.ID), zap.Time("fire_at", r.FireAt))
	return append(acc, r)
}

func (e *Engine) cancel(ctx context.Context, memoID string, ids []string) {
	if err := e.port.Cancel(ctx, ids); err != nil {
		e.logger.Warn("failed to cancel triggers",
			zap.String("memo_id", memoID),
			zap.Int("count", len(ids)),
			zap.Error(err))
	}
}

func snoozeRequest(m model.Memo, ids IDSet, at time.Time, n int) notify.Request {
	return notify.Request{
		ID:     ids.SnoozeID(n),
		FireAt: at,
		Payload: notify.Payload{
			Title: fmt.Sprintf("%s - snooze (%d/%d)", NotificationTitle, n, MaxSnoozeLinks),
			Body:  m.Title,
			Metadata: map[string]string{
				notify.MetaMemoID:      m.ID,
				notify.MetaSnoozeCount: strconv.Itoa(n),
				notify.MetaCategory:    notify.CategorySnoozeStop,
			},
		},
	}
}
