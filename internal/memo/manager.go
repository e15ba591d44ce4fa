// Package memo owns the memo and genre collections and keeps the reminder
// engine in step with every change to them.
package memo

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/notify"
	"github.com/indicatorn/smartmemo/internal/store"
)

var (
	ErrDefaultGenre     = errors.New("default genres cannot be renamed or deleted")
	ErrGenreExists      = errors.New("a genre with that name already exists")
	ErrInvalidGenreName = errors.New("genre name must not be empty or the placeholder")
)

// Scheduler is the part of the reminder engine the manager drives.
type Scheduler interface {
	Schedule(ctx context.Context, m model.Memo) []notify.Request
	Cancel(ctx context.Context, memoID string)
	RescheduleOnUpdate(ctx context.Context, old, updated model.Memo) []notify.Request
	ScheduleNextSnooze(ctx context.Context, m model.Memo, at time.Time, currentCount int) bool
	HandleSnoozeAction(ctx context.Context, m model.Memo, rule model.SnoozeRule) bool
	StopSnooze(ctx context.Context, memoID string)
}

// Manager is the single writer of the memo state. All public methods are
// safe for concurrent use and return after the store write.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	sched   Scheduler
	clk     clock.Clock
	logger  *zap.Logger
	entropy *rand.Rand

	active   []model.Memo
	deleted  []model.Memo
	genres   []model.Genre
	selected string

	persistErr error

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func New(s store.Store, sched Scheduler, clk clock.Clock, logger *zap.Logger) *Manager {
	return &Manager{
		store:    s,
		sched:    sched,
		clk:      clk,
		logger:   logger,
		entropy:  rand.New(rand.NewSource(clk.Now().UnixNano())),
		selected: model.AllNotesGenre,
		subs:     make(map[int]chan Event),
	}
}

// Load reads every collection from the store and heals the genre list.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.store.LoadMemos(ctx, store.KeyMemos)
	if err != nil {
		return goerr.Wrap(err, "failed to load memos")
	}
	deleted, err := m.store.LoadMemos(ctx, store.KeyDeletedMemos)
	if err != nil {
		return goerr.Wrap(err, "failed to load deleted memos")
	}
	genres, err := m.store.LoadGenres(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load genres")
	}
	filter, err := m.store.LoadFilter(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load genre filter")
	}

	for i := range active {
		active[i].Deleted = false
	}
	for i := range deleted {
		deleted[i].Deleted = true
	}
	m.active, m.deleted = active, deleted

	healed, changed := healGenres(genres)
	m.genres = healed
	if changed {
		m.logger.Info("genre list healed", zap.Int("genres", len(healed)))
		m.persist(ctx, store.KeyGenres)
	}

	m.selected = model.AllNotesGenre
	if filter != "" && m.hasGenre(filter) {
		m.selected = filter
	}
	return nil
}

// PersistErr returns the most recent store failure, if any.
func (m *Manager) PersistErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistErr
}

func (m *Manager) newID() string {
	return ulid.MustNew(ulid.Timestamp(m.clk.Now()), m.entropy).String()
}

// persist writes the named collections. Failures leave the in-memory state
// authoritative and are reported through the log, an event and PersistErr.
func (m *Manager) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		var err error
		switch key {
		case store.KeyMemos:
			err = m.store.SaveMemos(ctx, key, m.active)
		case store.KeyDeletedMemos:
			err = m.store.SaveMemos(ctx, key, m.deleted)
		case store.KeyGenres:
			err = m.store.SaveGenres(ctx, m.genres)
		case store.KeyFilter:
			err = m.store.SaveFilter(ctx, m.selected)
		}
		if err == nil {
			continue
		}
		err = goerr.Wrap(err, "failed to persist collection", goerr.V("key", key))
		m.persistErr = err
		m.logger.Error("persist failed", zap.String("key", key), zap.Error(err))
		m.emit(Event{Type: EventPersistFailed, Err: err})
	}
}

func (m *Manager) findActive(id string) int {
	for i := range m.active {
		if m.active[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) findDeleted(id string) int {
	for i := range m.deleted {
		if m.deleted[i].ID == id {
			return i
		}
	}
	return -1
}

// hasSnoozeSeed reports whether the first snooze link was accepted.
func hasSnoozeSeed(reqs []notify.Request) bool {
	for _, r := range reqs {
		if r.Payload.Metadata[notify.MetaSnoozeCount] == "1" {
			return true
		}
	}
	return false
}
