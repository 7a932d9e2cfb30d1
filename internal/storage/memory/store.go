package memory

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
)

// ErrNoSnapshot is returned by Load before anything has been saved.
// It matches fs.ErrNotExist, like a missing ledger file.
var ErrNoSnapshot = fmt.Errorf("no snapshot saved: %w", fs.ErrNotExist)

// SnapshotStore is an in-memory implementation of interfaces.SnapshotStore.
// It keeps a private copy of the last saved snapshot.
type SnapshotStore struct {
	mu       sync.Mutex       // protects snapshot and saves
	snapshot *models.Snapshot // last saved snapshot, nil until the first Save
	saves    int              // number of successful Save calls
}

// NewSnapshotStore creates an empty store; Load fails until Save is called.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save replaces the stored snapshot with a copy of s.
// Implements the SnapshotStore interface.
func (m *SnapshotStore) Save(ctx context.Context, s models.Snapshot) error {
	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits

	c := clone(s)   // copy so later changes to s don't leak into the store
	m.snapshot = &c // overwrite whatever was saved before
	m.saves++
	return nil // always succeeds in memory, so returns nil
}

// Load returns a copy of the last saved snapshot.
func (m *SnapshotStore) Load(ctx context.Context) (models.Snapshot, error) {
	m.mu.Lock()         // lock to prevent a concurrent Save while reading
	defer m.mu.Unlock() // unlock automatically at the end

	// nothing saved yet, behaves like a missing ledger file
	if m.snapshot == nil {
		return models.Snapshot{}, ErrNoSnapshot
	}
	// return a copy so callers can't modify the stored state
	return clone(*m.snapshot), nil
}

// Saves reports how many times Save has been called.
func (m *SnapshotStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// clone copies both slices; Account and Transaction hold no pointers of their own.
func clone(s models.Snapshot) models.Snapshot {
	return models.Snapshot{
		Accounts: slices.Clone(s.Accounts),
		Journal:  slices.Clone(s.Journal),
	}
}

var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)
