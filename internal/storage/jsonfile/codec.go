// Package jsonfile stores ledger snapshots as a single JSON document:
//
//	{
//	  "accounts": [{"code": "100", "name": "Cash", "balance": 150}],
//	  "journal":  [{"debit_account": "100", "credit_account": "200", "amount": 150, "description": "sale"}]
//	}
//
// Balances and amounts are written as JSON numbers at full precision.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// DecodeError reports a document that could not be turned into a snapshot.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid ledger document: %s: %v", e.Msg, e.Err)
	}
	return "invalid ledger document: " + e.Msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(format string, args ...any) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}

// number is a decimal that marshals as a bare JSON number. Unmarshaling
// accepts quoted decimals as well.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("amount is null")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = number(d)
	return nil
}

// Pointer fields distinguish a missing field from its zero value.
type accountRecord struct {
	Code    *string `json:"code"`
	Name    *string `json:"name"`
	Balance *number `json:"balance,omitempty"`
}

type transactionRecord struct {
	DebitAccount  *string `json:"debit_account"`
	CreditAccount *string `json:"credit_account"`
	Amount        *number `json:"amount"`
	Description   *string `json:"description"`
}

type document struct {
	Accounts []accountRecord     `json:"accounts"`
	Journal  []transactionRecord `json:"journal"`
}

// Encode writes s as an indented JSON document. Text is written as UTF-8
// without HTML escaping.
func Encode(w io.Writer, s models.Snapshot) error {
	doc := document{
		Accounts: make([]accountRecord, 0, len(s.Accounts)),
		Journal:  make([]transactionRecord, 0, len(s.Journal)),
	}
	for _, acc := range s.Accounts {
		balance := number(acc.Balance)
		doc.Accounts = append(doc.Accounts, accountRecord{
			Code:    &acc.Code,
			Name:    &acc.Name,
			Balance: &balance,
		})
	}
	for _, tx := range s.Journal {
		amount := number(tx.Amount)
		doc.Journal = append(doc.Journal, transactionRecord{
			DebitAccount:  &tx.DebitAccount,
			CreditAccount: &tx.CreditAccount,
			Amount:        &amount,
			Description:   &tx.Description,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return nil
}

// Decode reads a complete ledger document from r. It returns a
// *DecodeError if the document is malformed; no partial snapshot is
// returned in that case.
func Decode(r io.Reader) (models.Snapshot, error) {
	dec := json.NewDecoder(r)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return models.Snapshot{}, decodeErrorf("empty document")
		}
		return models.Snapshot{}, &DecodeError{Msg: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.Snapshot{}, decodeErrorf("unexpected data after document")
	}

	s := models.Snapshot{
		Accounts: make([]models.Account, 0, len(doc.Accounts)),
		Journal:  make([]models.Transaction, 0, len(doc.Journal)),
	}
	seen := make(map[string]bool, len(doc.Accounts))
	for i, rec := range doc.Accounts {
		switch {
		case rec.Code == nil:
			return models.Snapshot{}, decodeErrorf("account #%d: missing code", i)
		case rec.Name == nil:
			return models.Snapshot{}, decodeErrorf("account #%d: missing name", i)
		case seen[*rec.Code]:
			return models.Snapshot{}, decodeErrorf("account #%d: duplicate code %q", i, *rec.Code)
		}
		seen[*rec.Code] = true
		acc := models.Account{Code: *rec.Code, Name: *rec.Name, Balance: decimal.Zero}
		if rec.Balance != nil {
			acc.Balance = decimal.Decimal(*rec.Balance)
		}
		s.Accounts = append(s.Accounts, acc)
	}
	for i, rec := range doc.Journal {
		var missing string
		switch {
		case rec.DebitAccount == nil:
			missing = "debit_account"
		case rec.CreditAccount == nil:
			missing = "credit_account"
		case rec.Amount == nil:
			missing = "amount"
		case rec.Description == nil:
			missing = "description"
		}
		if missing != "" {
			return models.Snapshot{}, decodeErrorf("journal entry #%d: missing %s", i, missing)
		}
		s.Journal = append(s.Journal, models.Transaction{
			DebitAccount:  *rec.DebitAccount,
			CreditAccount: *rec.CreditAccount,
			Amount:        decimal.Decimal(*rec.Amount),
			Description:   *rec.Description,
		})
	}
	return s, nil
}

// Marshal is Encode into a byte slice.
func Marshal(s models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
