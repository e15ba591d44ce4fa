package store

import (
	"context"
	"sync"
	"time"

	"github.com/indicatorn/smartmemo/internal/model"
)

// MemoryStore keeps collections in process. Nothing survives Close.
type MemoryStore struct {
	mu      sync.RWMutex
	values  map[string][]byte
	updated map[string]time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:  make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

func (s *MemoryStore) get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.updated[key] = time.Now().UTC()
	return nil
}

func (s *MemoryStore) LoadMemos(ctx context.Context, key string) ([]model.Memo, error) {
	return loadMemos(ctx, s, key)
}

func (s *MemoryStore) SaveMemos(ctx context.Context, key string, memos []model.Memo) error {
	return saveMemos(ctx, s, key, memos)
}

func (s *MemoryStore) LoadGenres(ctx context.Context) ([]model.Genre, error) {
	return loadGenres(ctx, s)
}

func (s *MemoryStore) SaveGenres(ctx context.Context, genres []model.Genre) error {
	return saveGenres(ctx, s, genres)
}

func (s *MemoryStore) LoadFilter(ctx context.Context) (string, error) {
	return loadFilter(ctx, s)
}

func (s *MemoryStore) SaveFilter(ctx context.Context, genre string) error {
	return saveJSON(ctx, s, KeyFilter, genre)
}

func (s *MemoryStore) Close() error {
	return nil
}
