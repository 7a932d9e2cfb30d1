// Package session ties a ledger to the snapshot store it is saved to and
// loaded from. It is the entry point for callers such as the CLI and the
// HTTP API.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sirupsen/logrus"
)

type Session struct {
	ledger interfaces.LedgerStore
	store  interfaces.SnapshotStore
	log    *logrus.Entry

	// serializes Save and Load so a load never interleaves with a write
	mu sync.Mutex
}

func New(ledger interfaces.LedgerStore, store interfaces.SnapshotStore, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Session{ledger: ledger, store: store, log: log}
}

func (s *Session) Ledger() interfaces.LedgerStore {
	return s.ledger
}

// Open loads the stored snapshot. If nothing has been stored yet the ledger
// is left empty and no error is returned.
func (s *Session) Open(ctx context.Context) error {
	err := s.Load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no saved ledger found, starting empty")
		return nil
	}
	return err
}

// Save writes the full ledger to the store, replacing what was there.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.Snapshot()
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	s.log.WithFields(logrus.Fields{"accounts": len(snap.Accounts), "journal": len(snap.Journal)}).Info("ledger saved")
	return nil
}

// Load replaces the ledger with the stored snapshot. On any error the
// ledger keeps its current contents.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if err := s.ledger.Restore(snap); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	s.log.WithFields(logrus.Fields{"accounts": len(snap.Accounts), "journal": len(snap.Journal)}).Info("ledger loaded")
	return nil
}
