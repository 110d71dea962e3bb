package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/models"
)

func TestMemory_Accounts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.CreateAccount(ctx, "molly"))
	assert.Error(t, m.CreateAccount(ctx, "molly"))

	_, err := m.GetAccount(ctx, "ghost")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	require.NoError(t, m.SetBalance(ctx, "molly", 5000))
	require.NoError(t, m.SetOverdraftBalance(ctx, "molly", 100))

	acct, err := m.GetAccount(ctx, "molly")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), acct.BalancePennies)
	assert.Equal(t, int64(100), acct.OverdraftBalancePennies)
	assert.Equal(t, 3, acct.Version)

	// the returned account is a copy, not a live reference
	acct.BalancePennies = 0
	again, _ := m.GetAccount(ctx, "molly")
	assert.Equal(t, int64(5000), again.BalancePennies)

	count, err := m.IncrementReversalCount(ctx, "molly")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemory_RecentTransactions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Now().UTC().Truncate(time.Second)

	// same timestamp; insertion order breaks the tie
	for i, action := range []models.TransactionAction{models.ActionDeposit, models.ActionWithdraw, models.ActionDeposit, models.ActionSellAsset} {
		require.NoError(t, m.AppendTransaction(ctx, models.TransactionLogEntry{
			AccountID:     "molly",
			Timestamp:     at,
			Action:        action,
			AmountPennies: int64(i + 1),
		}))
	}

	txns, err := m.RecentTransactions(ctx, "molly", 3)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, models.ActionSellAsset, txns[0].Action)
	assert.Equal(t, int64(4), txns[0].AmountPennies)
	assert.Equal(t, int64(2), txns[2].AmountPennies)
}

func TestMemory_OverdraftLogs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, m.AppendOverdraftRepayment(ctx, models.OverdraftLogEntry{
		AccountID: "molly", Timestamp: at, RepaymentAmountPennies: 100,
	}))

	entry, err := m.OverdraftRepaymentAt(ctx, "molly", at)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(100), entry.RepaymentAmountPennies)

	miss, err := m.OverdraftRepaymentAt(ctx, "molly", at.Add(time.Second))
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, m.DeleteOverdraftRepayment(ctx, "molly", at))
	gone, err := m.OverdraftRepaymentAt(ctx, "molly", at)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemory_Transfers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Now().UTC()

	require.NoError(t, m.AppendTransfer(ctx, models.TransferLogEntry{
		ID: "t1", FromAccountID: "molly", ToAccountID: "desmond", Timestamp: at, AmountPennies: 500,
	}))

	for _, id := range []string{"molly", "desmond"} {
		transfers, err := m.RecentTransfers(ctx, id, 10)
		require.NoError(t, err)
		assert.Len(t, transfers, 1)
	}

	none, err := m.RecentTransfers(ctx, "stranger", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemory_Holdings(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	units, err := m.Holding(ctx, "molly", "ETH")
	require.NoError(t, err)
	assert.Equal(t, 0.0, units)

	require.NoError(t, m.SetHolding(ctx, "molly", "ETH", 2.5))
	require.NoError(t, m.SetHolding(ctx, "molly", "SOL", 10))

	holdings, err := m.Holdings(ctx, "molly")
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "ETH", holdings[0].AssetSymbol)

	require.NoError(t, m.SetHolding(ctx, "molly", "ETH", 0))
	holdings, _ = m.Holdings(ctx, "molly")
	require.Len(t, holdings, 1)
	assert.Equal(t, "SOL", holdings[0].AssetSymbol)
}
