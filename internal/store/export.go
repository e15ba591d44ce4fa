package store

import (
	"context"

	"github.com/indicatorn/smartmemo/internal/model"
)

// Dump is the export format: every collection in one document.
type Dump struct {
	Memos   []model.Memo  `json:"memos"`
	Deleted []model.Memo  `json:"deleted"`
	Genres  []model.Genre `json:"genres"`
}

// ExportAll reads every collection from s.
func ExportAll(ctx context.Context, s Store) (*Dump, error) {
	memos, err := s.LoadMemos(ctx, KeyMemos)
	if err != nil {
		return nil, err
	}
	deleted, err := s.LoadMemos(ctx, KeyDeletedMemos)
	if err != nil {
		return nil, err
	}
	genres, err := s.LoadGenres(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dump{Memos: memos, Deleted: deleted, Genres: genres}
	if d.Memos == nil {
		d.Memos = []model.Memo{}
	}
	if d.Deleted == nil {
		d.Deleted = []model.Memo{}
	}
	if d.Genres == nil {
		d.Genres = []model.Genre{}
	}
	return d, nil
}
