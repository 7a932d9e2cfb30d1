package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models/events"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrAccountExists  = errors.New("account already exists")
	ErrUnknownAccount = errors.New("unknown account")
)

// Ledger holds the chart of accounts and the journal.
// A single mutex guards both, so a snapshot never observes half a posting.
type Ledger struct {
	mu       sync.Mutex
	codes    []string                   // account codes in insertion order
	accounts map[string]*models.Account // keyed by code
	journal  []models.Transaction       // append-only, posting order

	publisher interfaces.EventPublisher // optional
	log       *logrus.Entry
	now       func() time.Time
}

type Option func(*Ledger)

// WithPublisher makes the ledger emit a TransactionPosted event after every posting.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(log *logrus.Entry) Option {
	return func(l *Ledger) { l.log = log }
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[string]*models.Account),
		log:      logrus.NewEntry(logrus.StandardLogger()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddAccount opens a new account with a zero balance. An existing account
// with the same code is left untouched and ErrAccountExists is returned.
func (l *Ledger) AddAccount(code, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[code]; exists {
		return fmt.Errorf("%w: %q", ErrAccountExists, code)
	}
	l.accounts[code] = &models.Account{Code: code, Name: name, Balance: decimal.Zero}
	l.codes = append(l.codes, code)

	l.log.WithFields(logrus.Fields{"account": code, "name": name}).Debug("account added")
	return nil
}

// PostTransaction debits one account and credits another by amount and
// records the transaction in the journal. Both codes are checked before
// anything is mutated. The amount is not validated: zero and negative
// amounts are posted as given.
func (l *Ledger) PostTransaction(ctx context.Context, debit, credit string, amount decimal.Decimal, description string) error {
	l.mu.Lock()

	debitAcc, ok := l.accounts[debit]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: debit %q", ErrUnknownAccount, debit)
	}
	creditAcc, ok := l.accounts[credit]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: credit %q", ErrUnknownAccount, credit)
	}

	debitAcc.Balance = debitAcc.Balance.Add(amount)
	creditAcc.Balance = creditAcc.Balance.Sub(amount)
	l.journal = append(l.journal, models.Transaction{
		DebitAccount:  debit,
		CreditAccount: credit,
		Amount:        amount,
		Description:   description,
	})
	seq := len(l.journal)
	l.mu.Unlock()

	fields := logrus.Fields{"debit": debit, "credit": credit, "amount": amount.String(), "sequence": seq}
	l.log.WithFields(fields).Debug("transaction posted")

	if l.publisher == nil {
		return nil
	}
	event := events.NewTransactionPosted(seq, debit, credit, amount, description, l.now())
	// The posting is already in the journal; a failed publish is reported but not undone.
	if err := l.publisher.Publish(ctx, debit, event); err != nil {
		l.log.WithFields(fields).WithError(err).Warn("failed to publish transaction event")
	}
	return nil
}

// Account returns a copy of the account with the given code.
func (l *Ledger) Account(code string) (models.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[code]
	if !ok {
		return models.Account{}, false
	}
	return *acc, true
}

// Len returns the number of accounts and the number of journal entries.
func (l *Ledger) Len() (accounts, journal int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.codes), len(l.journal)
}

// Accounts yields the chart of accounts in insertion order. Each range
// works on a copy taken when iteration starts.
func (l *Ledger) Accounts() iter.Seq[models.Account] {
	return func(yield func(models.Account) bool) {
		l.mu.Lock()
		accounts := l.accountsLocked()
		l.mu.Unlock()

		for _, acc := range accounts {
			if !yield(acc) {
				return
			}
		}
	}
}

// Journal yields the posted transactions in posting order.
func (l *Ledger) Journal() iter.Seq[models.Transaction] {
	return func(yield func(models.Transaction) bool) {
		l.mu.Lock()
		journal := slices.Clone(l.journal)
		l.mu.Unlock()

		for _, tx := range journal {
			if !yield(tx) {
				return
			}
		}
	}
}

// Snapshot returns a consistent copy of the whole ledger.
func (l *Ledger) Snapshot() models.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return models.Snapshot{Accounts: l.accountsLocked(), Journal: slices.Clone(l.journal)}
}

// Restore replaces the ledger contents with s. Balances are taken from the
// snapshot as stored, not recomputed from the journal. On error the current
// contents are kept.
func (l *Ledger) Restore(s models.Snapshot) error {
	codes := make([]string, 0, len(s.Accounts))
	accounts := make(map[string]*models.Account, len(s.Accounts))
	for _, acc := range s.Accounts {
		if _, exists := accounts[acc.Code]; exists {
			return fmt.Errorf("%w: %q", ErrAccountExists, acc.Code)
		}
		accounts[acc.Code] = &acc
		codes = append(codes, acc.Code)
	}
	journal := make([]models.Transaction, len(s.Journal))
	copy(journal, s.Journal)

	l.mu.Lock()
	l.codes, l.accounts, l.journal = codes, accounts, journal
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{"accounts": len(codes), "journal": len(journal)}).Debug("ledger restored")
	return nil
}

// accountsLocked copies the accounts in insertion order. l.mu must be held.
func (l *Ledger) accountsLocked() []models.Account {
	accounts := make([]models.Account, 0, len(l.codes))
	for _, code := range l.codes {
		accounts = append(accounts, *l.accounts[code])
	}
	return accounts
}

var _ interfaces.LedgerStore = (*Ledger)(nil)
