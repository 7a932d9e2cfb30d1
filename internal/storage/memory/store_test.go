package memory

import (
	"context"
	"io/fs"
	"testing"

	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBeforeSave(t *testing.T) {
	_, err := NewSnapshotStore().Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSaveLoadCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()
	s := models.Snapshot{
		Accounts: []models.Account{{Code: "100", Name: "Cash", Balance: decimal.NewFromInt(5)}},
	}
	require.NoError(t, store.Save(ctx, s))
	s.Accounts[0].Name = "mutated after save"

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Accounts[0].Name)

	got.Accounts[0].Name = "mutated after load"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cash", again.Accounts[0].Name)
	assert.Equal(t, 1, store.Saves())
}
