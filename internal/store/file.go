package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/models"
)

// FileStore persists alerts as a top-level JSON array in a single file.
// Writes go to a temp file in the same directory and are renamed into
// place, so a crash mid-write never leaves a partial state.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed alert store at the given path. The
// parent directory is created if missing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.NewStoreError("init", path, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns all persisted alerts. A missing file is an empty collection.
func (s *FileStore) Load(ctx context.Context) ([]models.PriceAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update runs fn under the store lock and durably persists its result.
func (s *FileStore) Update(ctx context.Context, fn func(alerts []models.PriceAlert) ([]models.PriceAlert, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.read()
	if err != nil {
		return err
	}

	updated, err := fn(alerts)
	if err != nil {
		return err
	}

	return s.write(updated)
}

func (s *FileStore) read() ([]models.PriceAlert, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewStoreError("read", s.path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var alerts []models.PriceAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, apperrors.NewStoreError("decode", s.path, apperrors.Wrap(err, apperrors.ErrStoreCorrupt.Error()))
	}
	return alerts, nil
}

func (s *FileStore) write(alerts []models.PriceAlert) error {
	if alerts == nil {
		alerts = []models.PriceAlert{}
	}

	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return apperrors.NewStoreError("encode", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".alerts-*.json")
	if err != nil {
		return apperrors.NewStoreError("write", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStoreError("write", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStoreError("sync", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreError("close", s.path, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreError("rename", s.path, err)
	}
	return nil
}
