package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/models"
)

// Postgres persists accounts and history logs through database/sql. The ledger
// engine serializes per-account access above this layer; the version column is
// kept as a tripwire against writes that slip around it.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, balance, overdraft_balance, reversal_count, version, updated_at)
		VALUES ($1, 0, 0, 0, 1, $2)`,
		id, time.Now())
	return err
}

func (s *Postgres) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var acct models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, balance, overdraft_balance, reversal_count, version, updated_at
		FROM accounts
		WHERE id = $1`, id).
		Scan(&acct.ID, &acct.BalancePennies, &acct.OverdraftBalancePennies,
			&acct.ReversalCount, &acct.Version, &acct.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *Postgres) SetBalance(ctx context.Context, id string, pennies int64) error {
	return s.updateAccount(ctx, id, `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3`, pennies)
}

func (s *Postgres) SetOverdraftBalance(ctx context.Context, id string, pennies int64) error {
	return s.updateAccount(ctx, id, `
		UPDATE accounts
		SET overdraft_balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3`, pennies)
}

func (s *Postgres) updateAccount(ctx context.Context, id, query string, pennies int64) error {
	result, err := s.db.ExecContext(ctx, query, pennies, time.Now(), id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

func (s *Postgres) IncrementReversalCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET reversal_count = reversal_count + 1, version = version + 1, updated_at = $1
		WHERE id = $2
		RETURNING reversal_count`,
		time.Now(), id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Postgres) AppendTransaction(ctx context.Context, e models.TransactionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transaction_history (account_id, timestamp, action, amount)
		VALUES ($1, $2, $3, $4)`,
		e.AccountID, e.Timestamp, string(e.Action), e.AmountPennies)
	return err
}

func (s *Postgres) RecentTransactions(ctx context.Context, accountID string, limit int) ([]models.TransactionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, timestamp, action, amount
		FROM transaction_history
		WHERE account_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransactionLogEntry
	for rows.Next() {
		var e models.TransactionLogEntry
		var action string
		if err := rows.Scan(&e.AccountID, &e.Timestamp, &action, &e.AmountPennies); err != nil {
			return nil, err
		}
		e.Action = models.TransactionAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) AppendOverdraftRepayment(ctx context.Context, e models.OverdraftLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO overdraft_logs (account_id, timestamp, repayment_amount, old_overdraft_balance, new_overdraft_balance)
		VALUES ($1, $2, $3, $4, $5)`,
		e.AccountID, e.Timestamp, e.RepaymentAmountPennies,
		e.OldOverdraftBalancePennies, e.NewOverdraftBalancePennies)
	return err
}

func (s *Postgres) OverdraftRepaymentAt(ctx context.Context, accountID string, at time.Time) (*models.OverdraftLogEntry, error) {
	var e models.OverdraftLogEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, timestamp, repayment_amount, old_overdraft_balance, new_overdraft_balance
		FROM overdraft_logs
		WHERE account_id = $1 AND timestamp = $2
		LIMIT 1`, accountID, at).
		Scan(&e.AccountID, &e.Timestamp, &e.RepaymentAmountPennies,
			&e.OldOverdraftBalancePennies, &e.NewOverdraftBalancePennies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Postgres) DeleteOverdraftRepayment(ctx context.Context, accountID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM overdraft_logs
		WHERE account_id = $1 AND timestamp = $2`, accountID, at)
	return err
}

func (s *Postgres) OverdraftRepayments(ctx context.Context, accountID string) ([]models.OverdraftLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, timestamp, repayment_amount, old_overdraft_balance, new_overdraft_balance
		FROM overdraft_logs
		WHERE account_id = $1
		ORDER BY timestamp DESC, id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OverdraftLogEntry
	for rows.Next() {
		var e models.OverdraftLogEntry
		if err := rows.Scan(&e.AccountID, &e.Timestamp, &e.RepaymentAmountPennies,
			&e.OldOverdraftBalancePennies, &e.NewOverdraftBalancePennies); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) AppendTransfer(ctx context.Context, e models.TransferLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfer_history (id, from_account_id, to_account_id, timestamp, amount)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.FromAccountID, e.ToAccountID, e.Timestamp, e.AmountPennies)
	return err
}

func (s *Postgres) RecentTransfers(ctx context.Context, accountID string, limit int) ([]models.TransferLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_account_id, to_account_id, timestamp, amount
		FROM transfer_history
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransferLogEntry
	for rows.Next() {
		var e models.TransferLogEntry
		if err := rows.Scan(&e.ID, &e.FromAccountID, &e.ToAccountID, &e.Timestamp, &e.AmountPennies); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) Holding(ctx context.Context, accountID, symbol string) (float64, error) {
	var units float64
	err := s.db.QueryRowContext(ctx, `
		SELECT units FROM crypto_holdings
		WHERE account_id = $1 AND asset_symbol = $2`, accountID, symbol).Scan(&units)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return units, nil
}

func (s *Postgres) SetHolding(ctx context.Context, accountID, symbol string, units float64) error {
	if units <= 0 {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM crypto_holdings
			WHERE account_id = $1 AND asset_symbol = $2`, accountID, symbol)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crypto_holdings (account_id, asset_symbol, units)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, asset_symbol) DO UPDATE SET units = $3`,
		accountID, symbol, units)
	return err
}

func (s *Postgres) Holdings(ctx context.Context, accountID string) ([]models.AssetHolding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, asset_symbol, units
		FROM crypto_holdings
		WHERE account_id = $1
		ORDER BY asset_symbol`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AssetHolding
	for rows.Next() {
		var h models.AssetHolding
		if err := rows.Scan(&h.AccountID, &h.AssetSymbol, &h.UnitsHeld); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Postgres) AppendAssetTransaction(ctx context.Context, e models.AssetTransactionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crypto_history (account_id, timestamp, action, asset_symbol, units)
		VALUES ($1, $2, $3, $4, $5)`,
		e.AccountID, e.Timestamp, string(e.Action), e.AssetSymbol, e.Units)
	return err
}

func (s *Postgres) AssetTransactions(ctx context.Context, accountID string) ([]models.AssetTransactionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, timestamp, action, asset_symbol, units
		FROM crypto_history
		WHERE account_id = $1
		ORDER BY timestamp DESC, id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AssetTransactionLogEntry
	for rows.Next() {
		var e models.AssetTransactionLogEntry
		var action string
		if err := rows.Scan(&e.AccountID, &e.Timestamp, &action, &e.AssetSymbol, &e.Units); err != nil {
			return nil, err
		}
		e.Action = models.AssetAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Migrate creates the schema. Raw DDL mirrors how the rest of this layer talks
// to Postgres; no migration framework is carried for five tables.
func (s *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0,
			overdraft_balance BIGINT NOT NULL DEFAULT 0,
			reversal_count INT NOT NULL DEFAULT 0,
			version INT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_history (
			id BIGSERIAL PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			timestamp TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			amount BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS overdraft_logs (
			id BIGSERIAL PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			timestamp TIMESTAMPTZ NOT NULL,
			repayment_amount BIGINT NOT NULL,
			old_overdraft_balance BIGINT NOT NULL,
			new_overdraft_balance BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transfer_history (
			id UUID PRIMARY KEY,
			from_account_id TEXT NOT NULL REFERENCES accounts(id),
			to_account_id TEXT NOT NULL REFERENCES accounts(id),
			timestamp TIMESTAMPTZ NOT NULL,
			amount BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crypto_holdings (
			account_id TEXT NOT NULL REFERENCES accounts(id),
			asset_symbol TEXT NOT NULL,
			units DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (account_id, asset_symbol)
		)`,
		`CREATE TABLE IF NOT EXISTS crypto_history (
			id BIGSERIAL PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			timestamp TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			asset_symbol TEXT NOT NULL,
			units DOUBLE PRECISION NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}
