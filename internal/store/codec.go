package store

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/indicatorn/smartmemo/internal/model"
)

// blobs is the key-value primitive every backend provides.
type blobs interface {
	// get returns nil when key has never been written.
	get(ctx context.Context, key string) ([]byte, error)
	put(ctx context.Context, key string, value []byte) error
}

func loadJSON(ctx context.Context, b blobs, key string, v any) (bool, error) {
	data, err := b.get(ctx, key)
	if err != nil {
		return false, goerr.Wrap(err, "read collection", goerr.V("key", key))
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, goerr.Wrap(err, "decode collection", goerr.V("key", key))
	}
	return true, nil
}

func saveJSON(ctx context.Context, b blobs, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "encode collection", goerr.V("key", key))
	}
	if err := b.put(ctx, key, data); err != nil {
		return goerr.Wrap(err, "write collection", goerr.V("key", key))
	}
	return nil
}

func loadMemos(ctx context.Context, b blobs, key string) ([]model.Memo, error) {
	var memos []model.Memo
	if _, err := loadJSON(ctx, b, key, &memos); err != nil {
		return nil, err
	}
	return memos, nil
}

func saveMemos(ctx context.Context, b blobs, key string, memos []model.Memo) error {
	if memos == nil {
		memos = []model.Memo{}
	}
	return saveJSON(ctx, b, key, memos)
}

func loadGenres(ctx context.Context, b blobs) ([]model.Genre, error) {
	var genres []model.Genre
	found, err := loadJSON(ctx, b, KeyGenres, &genres)
	if err != nil || !found {
		return nil, err
	}
	if genres == nil {
		genres = []model.Genre{}
	}
	return genres, nil
}

func saveGenres(ctx context.Context, b blobs, genres []model.Genre) error {
	if genres == nil {
		genres = []model.Genre{}
	}
	return saveJSON(ctx, b, KeyGenres, genres)
}

func loadFilter(ctx context.Context, b blobs) (string, error) {
	var name string
	if _, err := loadJSON(ctx, b, KeyFilter, &name); err != nil {
		return "", err
	}
	return name, nil
}
