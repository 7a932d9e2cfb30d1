package jsonfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snapshotOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateEmpty(),
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Accounts: []models.Account{
			{Code: "100", Name: "Cash", Balance: dec("129.5")},
			{Code: "200", Name: "Revenue", Balance: dec("-150")},
			{Code: "300", Name: "Касса", Balance: dec("20.123456789012345678")},
		},
		Journal: []models.Transaction{
			{DebitAccount: "100", CreditAccount: "200", Amount: dec("150"), Description: "sale"},
			{DebitAccount: "300", CreditAccount: "100", Amount: dec("20.5"), Description: "<transfer> & co"},
			{DebitAccount: "300", CreditAccount: "100", Amount: dec("-0.376543210987654322"), Description: ""},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for name, s := range map[string]models.Snapshot{
		"empty":  {},
		"sample": sampleSnapshot(),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, s))

			got, err := Decode(&buf)
			require.NoError(t, err)
			if diff := cmp.Diff(s, got, snapshotOpts); diff != "" {
				t.Errorf("Decoded snapshot differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Marshal(models.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts": [], "journal": []}`, string(data))
}

func TestEncodeLayout(t *testing.T) {
	s := models.Snapshot{
		Accounts: []models.Account{{Code: "100", Name: "Касса", Balance: dec("150.10")}},
		Journal:  []models.Transaction{{DebitAccount: "100", CreditAccount: "200", Amount: dec("150.1"), Description: "a&b"}},
	}
	data, err := Marshal(s)
	require.NoError(t, err)

	want := `{
  "accounts": [
    {
      "code": "100",
      "name": "Касса",
      "balance": 150.1
    }
  ],
  "journal": [
    {
      "debit_account": "100",
      "credit_account": "200",
      "amount": 150.1,
      "description": "a&b"
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestDecodeMissingBalanceDefaultsToZero(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"accounts": [{"code": "100", "name": "Cash"}], "journal": []}`))
	require.NoError(t, err)
	require.Len(t, s.Accounts, 1)
	assert.True(t, s.Accounts[0].Balance.IsZero())
	assert.Equal(t, "Cash", s.Accounts[0].Name)
}

func TestDecodeAcceptsQuotedNumbers(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"accounts": [{"code": "1", "name": "A", "balance": "12.50"}],
		"journal": [{"debit_account": "1", "credit_account": "1", "amount": "1e2", "description": "x"}]}`))
	require.NoError(t, err)
	assert.True(t, s.Accounts[0].Balance.Equal(dec("12.5")))
	assert.True(t, s.Journal[0].Amount.Equal(dec("100")))
}

func TestDecodeMissingTopLevelFields(t *testing.T) {
	s, err := Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, s.Accounts)
	assert.Empty(t, s.Journal)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"empty input", ``, "empty document"},
		{"not json", `accounts: []`, "malformed JSON"},
		{"truncated", `{"accounts": [{"code": "1"`, "malformed JSON"},
		{"wrong top-level type", `[]`, "malformed JSON"},
		{"wrong field type", `{"accounts": [{"code": 1, "name": "A"}]}`, "malformed JSON"},
		{"bad amount", `{"journal": [{"debit_account": "1", "credit_account": "2", "amount": "ten", "description": ""}]}`, "malformed JSON"},
		{"trailing data", `{} {}`, "unexpected data"},
		{"account without code", `{"accounts": [{"name": "A"}]}`, "account #0: missing code"},
		{"account without name", `{"accounts": [{"code": "1"}]}`, "account #0: missing name"},
		{"duplicate code", `{"accounts": [{"code": "1", "name": "A"}, {"code": "1", "name": "B"}]}`, `account #1: duplicate code "1"`},
		{"missing debit", `{"journal": [{"credit_account": "2", "amount": 1, "description": ""}]}`, "journal entry #0: missing debit_account"},
		{"missing credit", `{"journal": [{"debit_account": "1", "amount": 1, "description": ""}]}`, "missing credit_account"},
		{"missing amount", `{"journal": [{"debit_account": "1", "credit_account": "2", "description": ""}]}`, "missing amount"},
		{"null amount", `{"journal": [{"debit_account": "1", "credit_account": "2", "amount": null, "description": ""}]}`, "missing amount"},
		{"missing description", `{"journal": [{"debit_account": "1", "credit_account": "2", "amount": 1}]}`, "missing description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr), "got %T", err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, models.Snapshot{}, s)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounting_data.json")
	ref := sampleSnapshot()
	require.NoError(t, Save(path, ref))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(ref, got, snapshotOpts); diff != "" {
		t.Errorf("Loaded snapshot differs (-want +got):\n%s", diff)
	}
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")
	require.NoError(t, Save(path, sampleSnapshot()))
	require.NoError(t, Save(path, models.Snapshot{}))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got.Accounts)
	assert.Empty(t, got.Journal)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestSaveUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "ledger.json")
	assert.Error(t, Save(path, sampleSnapshot()))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accounts": [`), 0644))

	_, err := Load(path)
	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
}
