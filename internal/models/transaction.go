package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable journal record moving Amount from the
// credit account to the debit account.
type Transaction struct {
	DebitAccount  string          // code of the account whose balance increases
	CreditAccount string          // code of the account whose balance decreases
	Amount        decimal.Decimal // not sign-checked, zero and negative amounts are valid
	Description   string
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s->%s: %s (%s)", t.DebitAccount, t.CreditAccount, t.Amount.StringFixed(2), t.Description)
}
