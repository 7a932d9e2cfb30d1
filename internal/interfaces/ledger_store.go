package interfaces

import (
	"context"
	"iter"

	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerStore is the chart of accounts plus the journal.
type LedgerStore interface {
	AddAccount(code, name string) error
	PostTransaction(ctx context.Context, debit, credit string, amount decimal.Decimal, description string) error
	Accounts() iter.Seq[models.Account]
	Journal() iter.Seq[models.Transaction]
	Len() (accounts, journal int)
	Snapshot() models.Snapshot
	Restore(s models.Snapshot) error
}

// SnapshotStore persists full ledger snapshots. Save overwrites whatever
// was stored before; Load returns either a complete snapshot or an error.
type SnapshotStore interface {
	Save(ctx context.Context, s models.Snapshot) error
	Load(ctx context.Context) (models.Snapshot, error)
}
