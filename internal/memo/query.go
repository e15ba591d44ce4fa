package memo

import (
	"strings"

	"github.com/indicatorn/smartmemo/internal/model"
)

// Get returns the memo with id from either collection.
func (m *Manager) Get(id string) (model.Memo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.findActive(id); i >= 0 {
		return m.active[i].Clone(), true
	}
	if i := m.findDeleted(id); i >= 0 {
		return m.deleted[i].Clone(), true
	}
	return model.Memo{}, false
}

// Active returns the active memos visible under the selected genre.
func (m *Manager) Active() []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterGenre(m.active, m.selected)
}

// Deleted returns the deleted memos visible under the selected genre.
func (m *Manager) Deleted() []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterGenre(m.deleted, m.selected)
}

// InGenre returns the memos visible under genre without changing the
// selected filter.
func (m *Manager) InGenre(genre string, deleted bool) []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()

	if deleted {
		return filterGenre(m.deleted, genre)
	}
	return filterGenre(m.active, genre)
}

func (m *Manager) AllActive() []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneMemos(m.active)
}

func (m *Manager) AllDeleted() []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneMemos(m.deleted)
}

func (m *Manager) Genres() []model.Genre {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Genre(nil), m.genres...)
}

func (m *Manager) SelectedGenre() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// GenreCounts returns the number of active memos per genre name.
func (m *Manager) GenreCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int, len(m.genres))
	for _, memo := range m.active {
		counts[memo.Genre]++
	}
	return counts
}

// Search returns memos whose title contains query, ignoring case, from the
// active or the deleted collection. The genre filter does not apply.
func (m *Manager) Search(query string, deleted bool) []model.Memo {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.active
	if deleted {
		src = m.deleted
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var out []model.Memo
	for _, memo := range src {
		if strings.Contains(strings.ToLower(memo.Title), q) {
			out = append(out, memo.Clone())
		}
	}
	return out
}

// filterGenre keeps memos tagged with genre. Memos tagged with the sentinel
// show under every genre.
func filterGenre(memos []model.Memo, genre string) []model.Memo {
	if genre == model.AllNotesGenre {
		return model.CloneMemos(memos)
	}
	var out []model.Memo
	for _, memo := range memos {
		if memo.Genre == genre || memo.Genre == model.AllNotesGenre {
			out = append(out, memo.Clone())
		}
	}
	return out
}
