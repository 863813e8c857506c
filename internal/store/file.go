// Package store persists record collections as a single JSON array file.
//
// Every mutation is load-all, change in memory, save-all. There is no locking:
// two concurrent writers that load the same snapshot will race and the last
// save wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	ErrReadFailed  = errors.New("store: read failed")
	ErrWriteFailed = errors.New("store: write failed")
)

// File is a JSON array of T on disk.
type File[T any] struct {
	path string
	log  *zap.Logger

	// OnReset, if set, is called after an unreadable-but-valid file has been
	// rewritten as an empty array.
	OnReset func(ctx context.Context, path string)
}

func NewFile[T any](path string, log *zap.Logger) *File[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &File[T]{path: path, log: log.With(zap.String("path", path))}
}

func (f *File[T]) Path() string { return f.path }

// Load returns every record in the file.
//
// A missing file is created as "[]". A blank file is treated as empty and left
// alone. Valid JSON that is not an array is replaced with "[]". Anything else
// that cannot be read or decoded is reported as ErrReadFailed.
func (f *File[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Info("store file not found, initializing with empty array")
		if err := f.Save(ctx, nil); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		f.log.Error("read store file", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		f.log.Warn("store file is empty or whitespace only, treating as empty array")
		return []T{}, nil
	}

	if !json.Valid(trimmed) {
		f.log.Error("store file is not valid JSON", zap.Int("size", len(b)))
		return nil, fmt.Errorf("%w: %s: invalid JSON", ErrReadFailed, f.path)
	}

	if trimmed[0] != '[' {
		f.log.Error("store file is not a JSON array, resetting", zap.Int("size", len(b)))
		if err := f.Save(ctx, nil); err != nil {
			return nil, err
		}
		if f.OnReset != nil {
			f.OnReset(ctx, f.path)
		}
		return []T{}, nil
	}

	out := []T{}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		f.log.Error("decode store file", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return out, nil
}

// Save overwrites the file with records. Parent directories are created as
// needed. A nil slice is written as "[]".
func (f *File[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		f.log.Error("encode store file", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		f.log.Error("create store dir", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		f.log.Error("write store file", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
