package memo

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/notify"
	"github.com/indicatorn/smartmemo/internal/store"
)

// CreateParams describes a new memo.
type CreateParams struct {
	Title          string
	NotificationAt *time.Time
	RepeatRule     model.RepeatRule
	SnoozeRule     model.SnoozeRule
	Genre          string
}

// UpdateParams replaces every editable field of a memo.
type UpdateParams struct {
	Title          string
	NotificationAt *time.Time
	RepeatRule     model.RepeatRule
	SnoozeRule     model.SnoozeRule
	Genre          string
}

func normalizeRules(repeat model.RepeatRule, snooze model.SnoozeRule) (model.RepeatRule, model.SnoozeRule) {
	if repeat.IsNone() {
		repeat = model.RepeatNone
	}
	if snooze.IsNone() {
		snooze = model.SnoozeNone
	}
	return repeat, snooze
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Create adds a memo to the active collection and schedules its reminder.
func (m *Manager) Create(ctx context.Context, p CreateParams) model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()

	genre, added := m.resolveGenre(p.Genre)
	repeat, snooze := normalizeRules(p.RepeatRule, p.SnoozeRule)
	memo := model.Memo{
		ID:             m.newID(),
		Title:          p.Title,
		CreatedAt:      m.clk.Now(),
		NotificationAt: copyTime(p.NotificationAt),
		RepeatRule:     repeat,
		SnoozeRule:     snooze,
		Genre:          genre,
	}
	m.active = append(m.active, memo)
	m.persist(ctx, withGenres(added, store.KeyMemos)...)

	i := len(m.active) - 1
	m.setSnoozeCount(ctx, i, m.sched.Schedule(ctx, memo.Clone()))

	m.logger.Debug("memo created", zap.String("memo_id", memo.ID), zap.String("genre", genre))
	m.emit(Event{Type: EventCreated, MemoID: memo.ID, Genre: genre})
	return m.active[i].Clone()
}

// Update replaces the editable fields of an active memo and rebuilds its
// triggers. It reports false when no active memo has the id.
func (m *Manager) Update(ctx context.Context, id string, p UpdateParams) (model.Memo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findActive(id)
	if i < 0 {
		return model.Memo{}, false
	}
	old := m.active[i].Clone()

	genre, added := m.resolveGenre(p.Genre)
	repeat, snooze := normalizeRules(p.RepeatRule, p.SnoozeRule)
	memo := &m.active[i]
	memo.Title = p.Title
	memo.NotificationAt = copyTime(p.NotificationAt)
	memo.RepeatRule = repeat
	memo.SnoozeRule = snooze
	memo.Genre = genre
	m.persist(ctx, withGenres(added, store.KeyMemos)...)

	m.setSnoozeCount(ctx, i, m.sched.RescheduleOnUpdate(ctx, old, m.active[i].Clone()))

	m.emit(Event{Type: EventUpdated, MemoID: id, Genre: genre})
	return m.active[i].Clone(), true
}

// ToggleCompletion flips the completed flag of an active memo.
func (m *Manager) ToggleCompletion(ctx context.Context, id string) (model.Memo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findActive(id)
	if i < 0 {
		return model.Memo{}, false
	}
	m.active[i].Completed = !m.active[i].Completed
	m.persist(ctx, store.KeyMemos)

	m.emit(Event{Type: EventCompletionToggled, MemoID: id})
	return m.active[i].Clone(), true
}

// Delete moves an active memo to the deleted collection and cancels its
// triggers.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(ctx, id)
}

// BulkDelete deletes each id in order and returns how many were deleted.
func (m *Manager) BulkDelete(ctx context.Context, ids []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, id := range ids {
		if m.delete(ctx, id) {
			n++
		}
	}
	return n
}

func (m *Manager) delete(ctx context.Context, id string) bool {
	i := m.findActive(id)
	if i < 0 {
		return false
	}
	memo := m.moveToDeleted(i)
	m.persist(ctx, store.KeyMemos, store.KeyDeletedMemos)
	m.sched.Cancel(ctx, memo.ID)

	m.emit(Event{Type: EventDeleted, MemoID: memo.ID, Genre: memo.Genre})
	return true
}

// moveToDeleted keeps every field except the deleted flag.
func (m *Manager) moveToDeleted(i int) model.Memo {
	memo := m.active[i]
	m.active = slices.Delete(m.active, i, i+1)
	memo.Deleted = true
	m.deleted = append(m.deleted, memo)
	return memo
}

// Restore moves a deleted memo back to the active collection. A genre that
// no longer exists is resolved again, and a reminder still in the future is
// scheduled again.
func (m *Manager) Restore(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restore(ctx, id)
}

// BulkRestore restores each id in order and returns how many were restored.
func (m *Manager) BulkRestore(ctx context.Context, ids []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, id := range ids {
		if m.restore(ctx, id) {
			n++
		}
	}
	return n
}

// RestoreAll restores the deleted memos visible under the current filter.
func (m *Manager) RestoreAll(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, memo := range filterGenre(m.deleted, m.selected) {
		if m.restore(ctx, memo.ID) {
			n++
		}
	}
	return n
}

func (m *Manager) restore(ctx context.Context, id string) bool {
	i := m.findDeleted(id)
	if i < 0 {
		return false
	}
	memo := m.deleted[i]
	m.deleted = slices.Delete(m.deleted, i, i+1)
	memo.Deleted = false

	added := false
	if !m.hasGenre(memo.Genre) {
		memo.Genre, added = m.resolveGenre(memo.Genre)
	}
	m.active = append(m.active, memo)
	m.persist(ctx, withGenres(added, store.KeyMemos, store.KeyDeletedMemos)...)

	if memo.NotificationAt != nil && memo.NotificationAt.After(m.clk.Now()) {
		m.setSnoozeCount(ctx, len(m.active)-1, m.sched.Schedule(ctx, memo.Clone()))
	}

	m.emit(Event{Type: EventRestored, MemoID: id, Genre: memo.Genre})
	return true
}

// Purge erases a deleted memo. Its triggers were cancelled on delete.
func (m *Manager) Purge(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purge(ctx, id)
}

// BulkPurge purges each id in order and returns how many were purged.
func (m *Manager) BulkPurge(ctx context.Context, ids []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, id := range ids {
		if m.purge(ctx, id) {
			n++
		}
	}
	return n
}

// PurgeAll purges the deleted memos visible under the current filter.
func (m *Manager) PurgeAll(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, memo := range filterGenre(m.deleted, m.selected) {
		if m.purge(ctx, memo.ID) {
			n++
		}
	}
	return n
}

func (m *Manager) purge(ctx context.Context, id string) bool {
	i := m.findDeleted(id)
	if i < 0 {
		return false
	}
	m.deleted = slices.Delete(m.deleted, i, i+1)
	m.persist(ctx, store.KeyDeletedMemos)

	m.emit(Event{Type: EventPurged, MemoID: id})
	return true
}

// Move reorders the active collection by moving the memo at index from to
// index to.
func (m *Manager) Move(ctx context.Context, from, to int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.active)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	memo := m.active[from]
	m.active = slices.Delete(m.active, from, from+1)
	m.active = slices.Insert(m.active, to, memo)
	m.persist(ctx, store.KeyMemos)

	m.emit(Event{Type: EventUpdated, MemoID: memo.ID})
	return true
}

// MoveToGenre retags the given active memos and returns how many changed.
func (m *Manager) MoveToGenre(ctx context.Context, ids []string, genre string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, added := m.resolveGenre(genre)
	var moved []string
	for _, id := range ids {
		i := m.findActive(id)
		if i < 0 {
			continue
		}
		m.active[i].Genre = name
		moved = append(moved, id)
	}
	if len(moved) == 0 && !added {
		return 0
	}
	m.persist(ctx, withGenres(added, store.KeyMemos)...)

	for _, id := range moved {
		m.emit(Event{Type: EventUpdated, MemoID: id, Genre: name})
	}
	return len(moved)
}

// setSnoozeCount resets the chain counter of active memo i from the requests
// that scheduling just submitted.
func (m *Manager) setSnoozeCount(ctx context.Context, i int, submitted []notify.Request) {
	count := 0
	if hasSnoozeSeed(submitted) {
		count = 1
	}
	if m.active[i].SnoozeCount == count {
		return
	}
	m.active[i].SnoozeCount = count
	m.persist(ctx, store.KeyMemos)
}

func withGenres(added bool, keys ...string) []string {
	if added {
		return append(keys, store.KeyGenres)
	}
	return keys
}
