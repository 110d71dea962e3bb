package ledger

import (
	"context"
	"log"

	"github.com/terrapinbank/backend/internal/models"
	"github.com/terrapinbank/backend/internal/money"
)

// Snapshot is the read-only view of an account: balances, derived states, and
// the recent history the account page shows. Reads work even when the account
// is frozen or the price oracle is down.
type Snapshot struct {
	Account             models.Account                    `json:"account"`
	Status              models.AccountStatus              `json:"status"`
	OverdraftState      models.OverdraftState             `json:"overdraft_state"`
	RecentTransactions  []models.TransactionLogEntry      `json:"recent_transactions"`
	RecentTransfers     []models.TransferLogEntry         `json:"recent_transfers"`
	OverdraftRepayments []models.OverdraftLogEntry        `json:"overdraft_repayments"`
	Holdings            []models.AssetHolding             `json:"holdings"`
	AssetTransactions   []models.AssetTransactionLogEntry `json:"asset_transactions"`
	AssetValuePennies   int64                             `json:"asset_value_pennies"`
}

// Snapshot assembles the account view under the account lock so a concurrent
// mutation can never expose a half-applied transition.
func (e *Engine) Snapshot(ctx context.Context, accountID string) (*Snapshot, error) {
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Account:        *acct,
		Status:         acct.Status(MaxDisputes),
		OverdraftState: acct.OverdraftState(),
	}
	if snap.RecentTransactions, err = e.store.RecentTransactions(ctx, accountID, maxTransactionsDisplayed); err != nil {
		return nil, err
	}
	if snap.RecentTransfers, err = e.store.RecentTransfers(ctx, accountID, maxTransfersDisplayed); err != nil {
		return nil, err
	}
	if snap.OverdraftRepayments, err = e.store.OverdraftRepayments(ctx, accountID); err != nil {
		return nil, err
	}
	if snap.Holdings, err = e.store.Holdings(ctx, accountID); err != nil {
		return nil, err
	}
	if snap.AssetTransactions, err = e.store.AssetTransactions(ctx, accountID); err != nil {
		return nil, err
	}

	// holdings are valued at current quotes; a bad quote leaves that holding
	// out of the total rather than failing the read
	for _, h := range snap.Holdings {
		price, err := e.oracle.Quote(ctx, h.AssetSymbol)
		if err != nil || price <= 0 {
			log.Printf("[LEDGER] No quote for %s while valuing account %s: %v", h.AssetSymbol, accountID, err)
			continue
		}
		snap.AssetValuePennies += money.DollarsToPennies(price * h.UnitsHeld)
	}
	return snap, nil
}
