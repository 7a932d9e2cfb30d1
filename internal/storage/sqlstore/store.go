package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_accounts (
	position INTEGER PRIMARY KEY,
	code     TEXT NOT NULL UNIQUE,
	name     TEXT NOT NULL,
	balance  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger_journal (
	seq            INTEGER PRIMARY KEY,
	debit_account  TEXT NOT NULL,
	credit_account TEXT NOT NULL,
	amount         TEXT NOT NULL,
	description    TEXT NOT NULL
);`

// SnapshotStore keeps one ledger snapshot in two tables. Amounts are stored
// as decimal text so both postgres and sqlite keep full precision.
type SnapshotStore struct {
	db *sql.DB // shared connection pool, owned by the store once opened via Open
}

// NewSnapshotStore wraps an existing connection. The tables must already exist; see Migrate.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

// Open connects using driver "postgres" or "sqlite3" and creates the tables.
func Open(ctx context.Context, driver, dsn string) (*SnapshotStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sql.Open doesn't connect, so check the DSN actually works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := NewSnapshotStore(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (p *SnapshotStore) Close() error {
	return p.db.Close()
}

// Migrate creates the ledger tables if they don't exist yet.
func (p *SnapshotStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ledger tables: %w", err)
	}
	return nil
}

// saveAccount inserts one account row; position keeps the chart's insertion order.
func (p *SnapshotStore) saveAccount(ctx context.Context, position int, acc models.Account, dbTx *sql.Tx) error {
	const query = `INSERT INTO ledger_accounts (position, code, name, balance)
	VALUES ($1,$2,$3,$4)`

	_, err := dbTx.ExecContext(ctx, query, position, acc.Code, acc.Name, acc.Balance)
	return err
}

// saveTransaction inserts one journal row; seq keeps the posting order.
func (p *SnapshotStore) saveTransaction(ctx context.Context, seq int, tx models.Transaction, dbTx *sql.Tx) error {
	const query = `INSERT INTO ledger_journal (seq, debit_account, credit_account, amount, description)
	VALUES ($1,$2,$3,$4,$5)`

	_, err := dbTx.ExecContext(ctx, query, seq, tx.DebitAccount, tx.CreditAccount, tx.Amount, tx.Description)
	return err
}

// Save replaces the stored snapshot with s in a single database transaction.
func (p *SnapshotStore) Save(ctx context.Context, s models.Snapshot) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Any error below leaves the previous snapshot in place.
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	// Full overwrite: clear the old snapshot, journal first.
	if _, err = dbTx.ExecContext(ctx, `DELETE FROM ledger_journal`); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	if _, err = dbTx.ExecContext(ctx, `DELETE FROM ledger_accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	// Write accounts in chart order, then the journal in posting order.
	for i, acc := range s.Accounts {
		if err = p.saveAccount(ctx, i, acc, dbTx); err != nil {
			return fmt.Errorf("failed to save account %q: %w", acc.Code, err)
		}
	}
	for i, tx := range s.Journal {
		if err = p.saveTransaction(ctx, i, tx, dbTx); err != nil {
			return fmt.Errorf("failed to save journal entry #%d: %w", i, err)
		}
	}
	return dbTx.Commit()
}

// Load reads the stored snapshot. An empty database yields an empty snapshot.
func (p *SnapshotStore) Load(ctx context.Context) (models.Snapshot, error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Snapshot{}, err
	}
	// No-op after a successful Commit.
	defer dbTx.Rollback()

	// Both reads run in one transaction so they see the same snapshot.
	accounts, err := p.loadAccounts(ctx, dbTx)
	if err != nil {
		return models.Snapshot{}, err
	}
	journal, err := p.loadJournal(ctx, dbTx)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := dbTx.Commit(); err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{Accounts: accounts, Journal: journal}, nil
}

// loadAccounts reads the chart of accounts in insertion order.
func (p *SnapshotStore) loadAccounts(ctx context.Context, dbTx *sql.Tx) ([]models.Account, error) {
	const query = `SELECT code, name, balance FROM ledger_accounts ORDER BY position`

	rows, err := dbTx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	defer rows.Close()

	accounts := []models.Account{} // non-nil so an empty table yields an empty slice

	for rows.Next() {
		var acc models.Account
		// balance is stored as text; decimal.Decimal scans it back exactly
		if err := rows.Scan(&acc.Code, &acc.Name, &acc.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// loadJournal reads the journal in posting order.
func (p *SnapshotStore) loadJournal(ctx context.Context, dbTx *sql.Tx) ([]models.Transaction, error) {
	const query = `SELECT debit_account, credit_account, amount, description FROM ledger_journal ORDER BY seq`

	rows, err := dbTx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	defer rows.Close()

	journal := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.DebitAccount, &tx.CreditAccount, &tx.Amount, &tx.Description); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		journal = append(journal, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return journal, nil
}

var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)
