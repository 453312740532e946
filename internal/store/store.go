// Package store persists the whole expense list to a single named slot.
//
// Every backend stores the same JSON snapshot (see Encode). A save replaces the previous
// snapshot entirely; an absent slot loads as no expenses.
package store

import (
	"fmt"

	"github.com/sleekspend/sleekspend/internal/model"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultSlot is the slot name used when none is configured.
const DefaultSlot = "expenses"

// Slot is a durable key-value slot holding the expense snapshot.
type Slot interface {
	Load() ([]model.Expense, error)
	Save(expenses []model.Expense) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string // file backend directory
	Slot       string
	SQLitePath string
}

// Open returns the backend named by opts.Backend.
func Open(opts Options) (Slot, error) {
	slot := opts.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file backend: data directory is required")
		}
		return NewFileStore(opts.Dir, slot), nil
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend: database path is required")
		}
		return NewSQLiteStore(opts.SQLitePath, slot)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
