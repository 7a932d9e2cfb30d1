package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account is a single entry in the chart of accounts.
type Account struct {
	Code    string          // unique within a ledger
	Name    string          // display name
	Balance decimal.Decimal // running balance, may go negative
}

func (a Account) String() string {
	return fmt.Sprintf("%s %s: %s", a.Code, a.Name, a.Balance.StringFixed(2))
}
