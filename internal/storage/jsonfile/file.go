package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
)

// Save writes s to path, replacing any previous content. The document is
// written to a temporary file in the same directory and renamed into place,
// so a crash leaves either the old or the new file.
func Save(path string, s models.Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	// No-op once the rename has succeeded.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot stored at path. A missing file yields an error
// matching fs.ErrNotExist; a malformed one a *DecodeError.
func Load(path string) (models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FileStore is a SnapshotStore backed by a single JSON file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Save(ctx context.Context, s models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Save(f.Path, s)
}

func (f *FileStore) Load(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}
	return Load(f.Path)
}

var _ interfaces.SnapshotStore = (*FileStore)(nil)
