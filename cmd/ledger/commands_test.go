package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()
	root, closeApp := newRootCmd()
	defer closeApp()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--file", file}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIWorkflow(t *testing.T) {
	t.Chdir(t.TempDir())
	file := filepath.Join(t.TempDir(), "accounting_data.json")

	_, err := run(t, file, "account", "add", "100", "Cash")
	require.NoError(t, err)
	_, err = run(t, file, "account", "add", "200", "Sales", "revenue")
	require.NoError(t, err)
	_, err = run(t, file, "post", "100", "200", "150.0", "first", "sale")
	require.NoError(t, err)

	out, err := run(t, file, "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "Chart of Accounts:\n100 Cash: 150.00\n200 Sales revenue: -150.00\n", out)

	out, err = run(t, file, "journal")
	require.NoError(t, err)
	assert.Equal(t, "Journal Entries:\n100->200: 150.00 (first sale)\n", out)

	out, err = run(t, file, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "all balances match")
}

func TestCLIErrorsLeaveFileUnchanged(t *testing.T) {
	t.Chdir(t.TempDir())
	file := filepath.Join(t.TempDir(), "ledger.json")

	_, err := run(t, file, "account", "add", "100", "Cash")
	require.NoError(t, err)
	before, err := os.ReadFile(file)
	require.NoError(t, err)

	_, err = run(t, file, "account", "add", "100", "Other")
	assert.ErrorContains(t, err, "account already exists")
	_, err = run(t, file, "post", "100", "999", "5")
	assert.ErrorContains(t, err, "unknown account")
	_, err = run(t, file, "post", "100", "100", "five")
	assert.ErrorContains(t, err, "invalid amount")

	after, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCLIVerifyReportsMismatch(t *testing.T) {
	t.Chdir(t.TempDir())
	file := filepath.Join(t.TempDir(), "ledger.json")
	doc := `{"accounts": [{"code": "100", "name": "Cash", "balance": 1}], "journal": []}`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0644))

	out, err := run(t, file, "verify")
	assert.Error(t, err)
	assert.Contains(t, out, "100: stored 1.00, journal 0.00")
}

func TestCLIMalformedFile(t *testing.T) {
	t.Chdir(t.TempDir())
	file := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"accounts": `), 0644))

	_, err := run(t, file, "account", "list")
	assert.ErrorContains(t, err, "invalid ledger document")
}

func TestCLIUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "x.json", "--backend", "mongo", "account", "list")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestCLINegativeAmount(t *testing.T) {
	t.Chdir(t.TempDir())
	file := filepath.Join(t.TempDir(), "ledger.json")

	_, err := run(t, file, "account", "add", "100", "Cash")
	require.NoError(t, err)
	_, err = run(t, file, "account", "add", "200", "Revenue")
	require.NoError(t, err)

	_, err = run(t, file, "post", "100", "200", "-5", "refund")
	require.NoError(t, err)
	_, err = run(t, file, "post", "100", "200", "-0.5", "-x")
	require.NoError(t, err)

	out, err := run(t, file, "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "Chart of Accounts:\n100 Cash: -5.50\n200 Revenue: 5.50\n", out)

	out, err = run(t, file, "journal")
	require.NoError(t, err)
	assert.Equal(t, "Journal Entries:\n100->200: -5.00 (refund)\n100->200: -0.50 (-x)\n", out)
}

func TestCLIFlagOverridesBackendFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEDGER_BACKEND", "postgres")
	file := filepath.Join(t.TempDir(), "ledger.json")

	_, err := run(t, file, "--backend", "file", "account", "add", "100", "Cash")
	require.NoError(t, err)

	out, err := run(t, file, "--backend", "file", "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "Chart of Accounts:\n100 Cash: 0.00\n", out)

	_, err = run(t, file, "account", "list")
	assert.ErrorContains(t, err, "LEDGER_DATABASE_URL")
}
