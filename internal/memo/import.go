package memo

import (
	"context"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/store"
)

// ImportResult counts what Import added.
type ImportResult struct {
	Memos   int `json:"memos"`
	Deleted int `json:"deleted"`
	Genres  int `json:"genres"`
}

// Import merges a dump into the current state. Memo ids and genre names that
// already exist are skipped. Imported active memos are scheduled.
func (m *Manager) Import(ctx context.Context, d store.Dump) ImportResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res ImportResult
	for _, g := range d.Genres {
		if model.IsBlankGenre(g.Name) || m.hasGenre(g.Name) {
			continue
		}
		// defaults are fixed; imported genres are always user genres
		m.genres = append(m.genres, model.NewGenre(g.Name, false))
		res.Genres++
	}

	var scheduled []int
	for _, memo := range d.Memos {
		if memo.ID == "" || m.findActive(memo.ID) >= 0 || m.findDeleted(memo.ID) >= 0 {
			continue
		}
		memo = memo.Clone()
		memo.Deleted = false
		memo.RepeatRule, memo.SnoozeRule = normalizeRules(memo.RepeatRule, memo.SnoozeRule)
		var added bool
		memo.Genre, added = m.resolveGenre(memo.Genre)
		if added {
			res.Genres++
		}
		m.active = append(m.active, memo)
		scheduled = append(scheduled, len(m.active)-1)
		res.Memos++
	}

	for _, memo := range d.Deleted {
		if memo.ID == "" || m.findActive(memo.ID) >= 0 || m.findDeleted(memo.ID) >= 0 {
			continue
		}
		memo = memo.Clone()
		memo.Deleted = true
		memo.RepeatRule, memo.SnoozeRule = normalizeRules(memo.RepeatRule, memo.SnoozeRule)
		m.deleted = append(m.deleted, memo)
		res.Deleted++
	}

	if res == (ImportResult{}) {
		return res
	}
	m.persist(ctx, store.KeyGenres, store.KeyMemos, store.KeyDeletedMemos)

	for _, i := range scheduled {
		m.setSnoozeCount(ctx, i, m.sched.Schedule(ctx, m.active[i].Clone()))
		m.emit(Event{Type: EventCreated, MemoID: m.active[i].ID, Genre: m.active[i].Genre})
	}
	return res
}
