package ledger

import (
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// FoldBalances recomputes balances from a journal alone: every debit adds
// the amount to an account, every credit subtracts it.
func FoldBalances(journal []models.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, tx := range journal {
		balances[tx.DebitAccount] = balances[tx.DebitAccount].Add(tx.Amount)
		balances[tx.CreditAccount] = balances[tx.CreditAccount].Sub(tx.Amount)
	}
	return balances
}

// Mismatch is an account whose stored balance differs from the journal fold.
type Mismatch struct {
	Code     string
	Stored   decimal.Decimal
	Replayed decimal.Decimal
}

// Verify compares every account balance with the balance replayed from the
// journal. A ledger built only through AddAccount and PostTransaction never
// reports a mismatch; a restored snapshot may.
func (l *Ledger) Verify() []Mismatch {
	s := l.Snapshot()
	replayed := FoldBalances(s.Journal)

	var mismatches []Mismatch
	for _, acc := range s.Accounts {
		if r := replayed[acc.Code]; !acc.Balance.Equal(r) {
			mismatches = append(mismatches, Mismatch{Code: acc.Code, Stored: acc.Balance, Replayed: r})
		}
	}
	return mismatches
}
