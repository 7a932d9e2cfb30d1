package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionPosted is emitted after a transaction has been recorded in the journal.
type TransactionPosted struct {
	EventID       string          `json:"event_id"`
	Sequence      int             `json:"sequence"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewTransactionPosted(seq int, debit, credit string, amount decimal.Decimal, description string, at time.Time) TransactionPosted {
	return TransactionPosted{
		EventID:       uuid.New().String(),
		Sequence:      seq,
		DebitAccount:  debit,
		CreditAccount: credit,
		Amount:        amount,
		Description:   description,
		OccurredAt:    at,
	}
}
