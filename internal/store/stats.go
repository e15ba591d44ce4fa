package store

import (
	"context"
	"os"
	"sort"
	"time"
)

// Stats holds storage statistics.
type Stats struct {
	Driver      string            `json:"driver"`
	DBPath      string            `json:"db_path,omitempty"`
	DBSizeBytes int64             `json:"db_size_bytes,omitempty"`
	Collections []CollectionStats `json:"collections"`
}

// CollectionStats describes one stored collection.
type CollectionStats struct {
	Key       string `json:"key"`
	Bytes     int    `json:"bytes"`
	UpdatedAt string `json:"updated_at"`
}

// Stats returns storage statistics.
func (s *SQLStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Driver: s.driver, DBPath: s.path}

	// DB file size
	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, LENGTH(value), updated_at FROM collections ORDER BY key`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CollectionStats
		if err := rows.Scan(&c.Key, &c.Bytes, &c.UpdatedAt); err != nil {
			return st, err
		}
		st.Collections = append(st.Collections, c)
	}
	return st, rows.Err()
}

// Stats returns statistics for the in-process collections.
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Stats{Driver: DriverMemory}
	for k, v := range s.values {
		st.Collections = append(st.Collections, CollectionStats{
			Key:       k,
			Bytes:     len(v),
			UpdatedAt: s.updated[k].Format(time.RFC3339),
		})
	}
	sort.Slice(st.Collections, func(i, j int) bool {
		return st.Collections[i].Key < st.Collections[j].Key
	})
	return st, nil
}
