package ledger

import (
	"context"
	"time"

	"github.com/terrapinbank/backend/internal/models"
)

// AccountStore is the atomic per-account record contract. Implementations must
// never surface a state that violates the balance invariants, even to a
// concurrent reader.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	SetBalance(ctx context.Context, id string, pennies int64) error
	SetOverdraftBalance(ctx context.Context, id string, pennies int64) error
	IncrementReversalCount(ctx context.Context, id string) (int, error)
}

// HistoryStore holds the append-only logs, queryable most-recent-first.
type HistoryStore interface {
	AppendTransaction(ctx context.Context, e models.TransactionLogEntry) error
	RecentTransactions(ctx context.Context, accountID string, limit int) ([]models.TransactionLogEntry, error)

	AppendOverdraftRepayment(ctx context.Context, e models.OverdraftLogEntry) error
	OverdraftRepaymentAt(ctx context.Context, accountID string, at time.Time) (*models.OverdraftLogEntry, error)
	DeleteOverdraftRepayment(ctx context.Context, accountID string, at time.Time) error
	OverdraftRepayments(ctx context.Context, accountID string) ([]models.OverdraftLogEntry, error)

	AppendTransfer(ctx context.Context, e models.TransferLogEntry) error
	RecentTransfers(ctx context.Context, accountID string, limit int) ([]models.TransferLogEntry, error)
}

// AssetStore holds the crypto sub-ledger: per-account holdings and trade log.
type AssetStore interface {
	Holding(ctx context.Context, accountID, symbol string) (float64, error)
	SetHolding(ctx context.Context, accountID, symbol string, units float64) error
	Holdings(ctx context.Context, accountID string) ([]models.AssetHolding, error)

	AppendAssetTransaction(ctx context.Context, e models.AssetTransactionLogEntry) error
	AssetTransactions(ctx context.Context, accountID string) ([]models.AssetTransactionLogEntry, error)
}

// Store is everything the engine persists through.
type Store interface {
	AccountStore
	HistoryStore
	AssetStore
}

// PriceOracle returns the current unit price for an asset symbol in dollars.
// Quotes may be cached and stale between calls; a non-positive price or an
// error means trading is rejected, never defaulted.
type PriceOracle interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// AuthGate verifies a credential before any mutating operation proceeds.
type AuthGate interface {
	Verify(ctx context.Context, accountID, credential string) (bool, error)
}
