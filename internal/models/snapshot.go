package models

// Snapshot is the full state of a ledger: the chart of accounts in
// insertion order and the journal in posting order.
type Snapshot struct {
	Accounts []Account
	Journal  []Transaction
}
