package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sleekspend/sleekspend/internal/model"
)

// FileStore keeps the snapshot in <dir>/<slot>.json.
type FileStore struct {
	dir  string
	slot string
}

// NewFileStore creates a FileStore. The directory is created on first save.
func NewFileStore(dir, slot string) *FileStore {
	return &FileStore{dir: dir, slot: slot}
}

// Path returns the slot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.slot+".json")
}

// Load reads the slot. A missing file is an empty ledger.
func (s *FileStore) Load() ([]model.Expense, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.Path(), err)
	}

	expenses, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.Path(), err)
	}
	return expenses, nil
}

// Save replaces the slot contents. The new snapshot is written to a temporary file and
// renamed into place, so readers never observe a partial write.
func (s *FileStore) Save(expenses []model.Expense) error {
	data, err := Encode(expenses)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp slot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp slot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing slot %s: %w", s.Path(), err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
