package memo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/store"
)

// OnSnoozeChainContinue is called after snooze link currentCount fired. The
// next link fires one snooze interval after firedAt while the memo is active
// and still has a snooze rule.
func (m *Manager) OnSnoozeChainContinue(ctx context.Context, memoID string, firedAt time.Time, currentCount int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findActive(memoID)
	if i < 0 {
		m.logger.Debug("snooze chain ends: memo not active", zap.String("memo_id", memoID))
		return false
	}
	memo := m.active[i]
	if memo.SnoozeRule.IsNone() {
		return false
	}

	at := firedAt.Add(memo.SnoozeRule.Duration())
	if !m.sched.ScheduleNextSnooze(ctx, memo.Clone(), at, currentCount) {
		return false
	}
	m.active[i].SnoozeCount = currentCount + 1
	m.persist(ctx, store.KeyMemos)

	m.emit(Event{Type: EventSnoozed, MemoID: memoID})
	return true
}

// OnSnoozeActionChosen starts a new chain when the user snoozes a delivered
// notification by hand.
func (m *Manager) OnSnoozeActionChosen(ctx context.Context, memoID string, rule model.SnoozeRule) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findActive(memoID)
	if i < 0 {
		return false
	}
	if !m.sched.HandleSnoozeAction(ctx, m.active[i].Clone(), rule) {
		return false
	}
	if m.active[i].SnoozeCount != 1 {
		m.active[i].SnoozeCount = 1
		m.persist(ctx, store.KeyMemos)
	}

	m.emit(Event{Type: EventSnoozed, MemoID: memoID})
	return true
}

// OnStopSnoozeChosen cancels the snooze chain of a memo.
func (m *Manager) OnStopSnoozeChosen(ctx context.Context, memoID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sched.StopSnooze(ctx, memoID)

	if i := m.findActive(memoID); i >= 0 && m.active[i].SnoozeCount != 0 {
		m.active[i].SnoozeCount = 0
		m.persist(ctx, store.KeyMemos)
	}
	m.emit(Event{Type: EventSnoozeStopped, MemoID: memoID})
}
