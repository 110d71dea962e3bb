package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/models"
)

func TestPostgres_GetAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)
	ctx := context.Background()

	t.Run("existing account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, balance, overdraft_balance, reversal_count, version, updated_at FROM accounts").
			WithArgs("molly").
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "overdraft_balance", "reversal_count", "version", "updated_at"}).
				AddRow("molly", 12345, 0, 0, 1, time.Now()))

		acct, err := s.GetAccount(ctx, "molly")
		assert.NoError(t, err)
		assert.Equal(t, "molly", acct.ID)
		assert.Equal(t, int64(12345), acct.BalancePennies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, balance, overdraft_balance, reversal_count, version, updated_at FROM accounts").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "overdraft_balance", "reversal_count", "version", "updated_at"}))

		_, err := s.GetAccount(ctx, "ghost")
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_SetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)
	ctx := context.Background()

	t.Run("updates and bumps version", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance = \\$1, version = version \\+ 1, updated_at = \\$2 WHERE id = \\$3").
			WithArgs(int64(5000), sqlmock.AnyArg(), "molly").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetBalance(ctx, "molly", 5000))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(int64(5000), sqlmock.AnyArg(), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.SetBalance(ctx, "ghost", 5000)
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	})
}

func TestPostgres_IncrementReversalCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)

	mock.ExpectQuery("UPDATE accounts SET reversal_count = reversal_count \\+ 1").
		WithArgs(sqlmock.AnyArg(), "molly").
		WillReturnRows(sqlmock.NewRows([]string{"reversal_count"}).AddRow(1))

	count, err := s.IncrementReversalCount(context.Background(), "molly")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_TransactionHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)

	t.Run("append", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO transaction_history").
			WithArgs("molly", at, "Deposit", int64(1234)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := s.AppendTransaction(ctx, models.TransactionLogEntry{
			AccountID:     "molly",
			Timestamp:     at,
			Action:        models.ActionDeposit,
			AmountPennies: 1234,
		})
		assert.NoError(t, err)
	})

	t.Run("recent, most recent first", func(t *testing.T) {
		mock.ExpectQuery("SELECT account_id, timestamp, action, amount FROM transaction_history").
			WithArgs("molly", 3).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "timestamp", "action", "amount"}).
				AddRow("molly", at, "Withdraw", 500).
				AddRow("molly", at.Add(-time.Minute), "Deposit", 1234))

		txns, err := s.RecentTransactions(ctx, "molly", 3)
		assert.NoError(t, err)
		assert.Len(t, txns, 2)
		assert.Equal(t, models.ActionWithdraw, txns[0].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_OverdraftLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)

	t.Run("lookup by timestamp misses", func(t *testing.T) {
		mock.ExpectQuery("SELECT account_id, timestamp, repayment_amount, old_overdraft_balance, new_overdraft_balance FROM overdraft_logs").
			WithArgs("molly", at).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "timestamp", "repayment_amount", "old_overdraft_balance", "new_overdraft_balance"}))

		entry, err := s.OverdraftRepaymentAt(ctx, "molly", at)
		assert.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("delete by timestamp", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM overdraft_logs").
			WithArgs("molly", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.DeleteOverdraftRepayment(ctx, "molly", at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_Holdings(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db)
	ctx := context.Background()

	t.Run("no row means zero units", func(t *testing.T) {
		mock.ExpectQuery("SELECT units FROM crypto_holdings").
			WithArgs("molly", "ETH").
			WillReturnRows(sqlmock.NewRows([]string{"units"}))

		units, err := s.Holding(ctx, "molly", "ETH")
		assert.NoError(t, err)
		assert.Equal(t, 0.0, units)
	})

	t.Run("upsert on positive units", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO crypto_holdings").
			WithArgs("molly", "ETH", 1.5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetHolding(ctx, "molly", "ETH", 1.5))
	})

	t.Run("zero units deletes the row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM crypto_holdings").
			WithArgs("molly", "ETH").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetHolding(ctx, "molly", "ETH", 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
