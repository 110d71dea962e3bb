package models

import (
	"time"
)

// TransactionAction is the outward-facing effect of a ledger operation,
// independent of how the amount was split against the overdraft balance.
type TransactionAction string

const (
	ActionDeposit   TransactionAction = "Deposit"
	ActionWithdraw  TransactionAction = "Withdraw"
	ActionBuyAsset  TransactionAction = "BuyAsset"
	ActionSellAsset TransactionAction = "SellAsset"
)

// AssetAction is the direction of a crypto trade.
type AssetAction string

const (
	AssetBuy  AssetAction = "Buy"
	AssetSell AssetAction = "Sell"
)

type TransactionLogEntry struct {
	AccountID     string            `json:"account_id" db:"account_id"`
	Timestamp     time.Time         `json:"timestamp" db:"timestamp"`
	Action        TransactionAction `json:"action" db:"action"`
	AmountPennies int64             `json:"amount" db:"amount"` // in cents
}

// OverdraftLogEntry records a deposit (or transfer-in) paying down a nonzero
// overdraft balance. Dispute reversal consults and deletes these records.
type OverdraftLogEntry struct {
	AccountID               string    `json:"account_id" db:"account_id"`
	Timestamp               time.Time `json:"timestamp" db:"timestamp"`
	RepaymentAmountPennies  int64     `json:"repayment_amount" db:"repayment_amount"`
	OldOverdraftBalancePennies int64  `json:"old_overdraft_balance" db:"old_overdraft_balance"`
	NewOverdraftBalancePennies int64  `json:"new_overdraft_balance" db:"new_overdraft_balance"`
}

type TransferLogEntry struct {
	ID            string    `json:"id" db:"id"`
	FromAccountID string    `json:"from_account_id" db:"from_account_id"`
	ToAccountID   string    `json:"to_account_id" db:"to_account_id"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
	AmountPennies int64     `json:"amount" db:"amount"`
}

type AssetHolding struct {
	AccountID   string  `json:"account_id" db:"account_id"`
	AssetSymbol string  `json:"asset_symbol" db:"asset_symbol"`
	UnitsHeld   float64 `json:"units_held" db:"units_held"`
}

type AssetTransactionLogEntry struct {
	AccountID   string      `json:"account_id" db:"account_id"`
	Timestamp   time.Time   `json:"timestamp" db:"timestamp"`
	Action      AssetAction `json:"action" db:"action"`
	AssetSymbol string      `json:"asset_symbol" db:"asset_symbol"`
	Units       float64     `json:"units" db:"units"`
}
