package memo

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/store"
)

// healGenres seeds the defaults on first run, re-adds missing defaults and
// drops user genres with a blank or placeholder name.
func healGenres(genres []model.Genre) ([]model.Genre, bool) {
	if genres == nil {
		return model.DefaultGenres(), true
	}

	changed := false
	healed := make([]model.Genre, 0, len(genres))
	for _, g := range genres {
		if !g.IsDefault && model.IsBlankGenre(g.Name) {
			changed = true
			continue
		}
		healed = append(healed, g)
	}

	for _, name := range model.DefaultGenreNames() {
		if slices.ContainsFunc(healed, func(g model.Genre) bool { return g.Name == name }) {
			continue
		}
		healed = append(healed, model.NewGenre(name, true))
		changed = true
	}
	return healed, changed
}

func (m *Manager) findGenre(id string) int {
	for i := range m.genres {
		if m.genres[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) findGenreByName(name string) int {
	for i := range m.genres {
		if m.genres[i].Name == name {
			return i
		}
	}
	return -1
}

// hasGenre treats the sentinel as always present.
func (m *Manager) hasGenre(name string) bool {
	return name == model.AllNotesGenre || m.findGenreByName(name) >= 0
}

// resolveGenre maps a requested genre name onto one that exists, creating it
// when needed. The second result reports whether a genre was added.
func (m *Manager) resolveGenre(name string) (string, bool) {
	if model.IsBlankGenre(name) {
		return model.FallbackGenre, false
	}
	if m.hasGenre(name) {
		return name, false
	}
	m.genres = append(m.genres, model.NewGenre(name, false))
	m.logger.Debug("genre created implicitly", zap.String("genre", name))
	m.emit(Event{Type: EventGenreAdded, Genre: name})
	return name, true
}

// AddGenre creates a user genre. Adding a name that exists returns the
// existing genre.
func (m *Manager) AddGenre(ctx context.Context, name string) (model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if model.IsBlankGenre(name) {
		return model.Genre{}, ErrInvalidGenreName
	}
	if i := m.findGenreByName(name); i >= 0 {
		return m.genres[i], nil
	}

	g := model.NewGenre(name, false)
	m.genres = append(m.genres, g)
	m.persist(ctx, store.KeyGenres)

	m.emit(Event{Type: EventGenreAdded, Genre: name})
	return g, nil
}

// RenameGenre renames a user genre and retags every memo in both
// collections. An unknown id is a no-op.
func (m *Manager) RenameGenre(ctx context.Context, id, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findGenre(id)
	if i < 0 {
		return nil
	}
	g := m.genres[i]
	if g.IsDefault {
		return ErrDefaultGenre
	}
	newName = strings.TrimSpace(newName)
	if model.IsBlankGenre(newName) || newName == model.AllNotesGenre {
		return ErrInvalidGenreName
	}
	if newName == g.Name {
		return nil
	}
	if m.findGenreByName(newName) >= 0 {
		return ErrGenreExists
	}

	oldName := g.Name
	m.genres[i].Name = newName
	for k := range m.active {
		if m.active[k].Genre == oldName {
			m.active[k].Genre = newName
		}
	}
	for k := range m.deleted {
		if m.deleted[k].Genre == oldName {
			m.deleted[k].Genre = newName
		}
	}
	keys := []string{store.KeyGenres, store.KeyMemos, store.KeyDeletedMemos}
	if m.selected == oldName {
		m.selected = newName
		keys = append(keys, store.KeyFilter)
	}
	m.persist(ctx, keys...)

	m.logger.Debug("genre renamed", zap.String("from", oldName), zap.String("to", newName))
	m.emit(Event{Type: EventGenreRenamed, Genre: newName})
	return nil
}

// DeleteGenre removes a user genre. Active memos tagged with it are deleted
// as by Delete and keep the tag. An unknown id is a no-op.
func (m *Manager) DeleteGenre(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findGenre(id)
	if i < 0 {
		return nil
	}
	g := m.genres[i]
	if g.IsDefault {
		return ErrDefaultGenre
	}
	m.genres = slices.Delete(m.genres, i, i+1)

	var moved []model.Memo
	for k := 0; k < len(m.active); {
		if m.active[k].Genre != g.Name {
			k++
			continue
		}
		moved = append(moved, m.moveToDeleted(k))
	}

	keys := []string{store.KeyGenres, store.KeyMemos, store.KeyDeletedMemos}
	if m.selected == g.Name {
		m.selected = model.AllNotesGenre
		keys = append(keys, store.KeyFilter)
	}
	m.persist(ctx, keys...)

	for _, memo := range moved {
		m.sched.Cancel(ctx, memo.ID)
		m.emit(Event{Type: EventDeleted, MemoID: memo.ID, Genre: memo.Genre})
	}
	m.logger.Debug("genre deleted", zap.String("genre", g.Name), zap.Int("memos_deleted", len(moved)))
	m.emit(Event{Type: EventGenreDeleted, Genre: g.Name})
	return nil
}

// SelectGenre sets the list filter. An empty name selects every memo;
// unknown names are ignored and reported as false.
func (m *Manager) SelectGenre(ctx context.Context, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = model.AllNotesGenre
	}
	if !m.hasGenre(name) {
		return false
	}
	if m.selected == name {
		return true
	}
	m.selected = name
	m.persist(ctx, store.KeyFilter)

	m.emit(Event{Type: EventFilterChanged, Genre: name})
	return true
}
