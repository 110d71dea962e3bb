package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/terrapinbank/backend/internal/models"
	"github.com/terrapinbank/backend/internal/money"
)

const (
	// InterestRate is the one-time surcharge multiplier applied to the portion
	// of a withdrawal that exceeds the main balance. Engine arithmetic uses the
	// basis-point form below so repeated applications cannot drift.
	InterestRate    = 1.02
	interestRateBps = 10200

	// MaxOverdraftPennies caps the overdraft balance after interest.
	MaxOverdraftPennies int64 = 100000

	// MaxDisputes freezes the account for mutating operations once reached.
	MaxDisputes = 2

	// MaxReversableTransactionsAgo bounds how far back a dispute may reach.
	MaxReversableTransactionsAgo = 3

	maxTransactionsDisplayed = 3
	maxTransfersDisplayed    = 10
)

// SupportedAssets is the set of crypto symbols the bank trades.
var SupportedAssets = map[string]bool{
	"ETH": true,
	"SOL": true,
}

// Engine applies deposits, withdrawals, transfers, crypto trades, and dispute
// reversals as serialized state transitions over the account store and history
// logs. Every operation either commits in one pass or rejects with no effect.
type Engine struct {
	store  Store
	oracle PriceOracle
	gate   AuthGate
	locks  *accountLocks
	now    func() time.Time
}

func NewEngine(store Store, oracle PriceOracle, gate AuthGate) *Engine {
	return &Engine{
		store:  store,
		oracle: oracle,
		gate:   gate,
		locks:  newAccountLocks(),
		// second precision so every log row written by one operation carries
		// the same timestamp; reversal looks overdraft repayments up by it
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func applyInterest(pennies int64) int64 {
	return pennies * interestRateBps / 10000
}

func (e *Engine) authorize(ctx context.Context, accountID, credential string) error {
	ok, err := e.gate.Verify(ctx, accountID, credential)
	if err != nil {
		return fmt.Errorf("verifying credential: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) checkMutable(acct *models.Account) error {
	if acct.Status(MaxDisputes) == models.StatusFrozen {
		return ErrAccountFrozen
	}
	return nil
}

// depositPlan is the computed outcome of a deposit-side transition. Nothing is
// written until the plan is applied, so a rejection never leaves partial state.
type depositPlan struct {
	amount       int64
	repay        int64
	oldOverdraft int64
	newOverdraft int64
	newBalance   int64
}

func planDeposit(acct *models.Account, amount int64) depositPlan {
	p := depositPlan{
		amount:       amount,
		oldOverdraft: acct.OverdraftBalancePennies,
		newOverdraft: acct.OverdraftBalancePennies,
		newBalance:   acct.BalancePennies,
	}
	if acct.OverdraftBalancePennies > 0 {
		// deposit pays off overdraft first, remainder credits the main balance
		p.repay = amount
		if p.repay > acct.OverdraftBalancePennies {
			p.repay = acct.OverdraftBalancePennies
		}
		p.newOverdraft = acct.OverdraftBalancePennies - p.repay
		p.newBalance = acct.BalancePennies + (amount - p.repay)
	} else {
		p.newBalance = acct.BalancePennies + amount
	}
	return p
}

type withdrawPlan struct {
	amount         int64
	overdrew       bool
	excess         int64
	interestCharge int64
	newBalance     int64
	newOverdraft   int64
}

func planWithdraw(acct *models.Account, amount int64) (withdrawPlan, error) {
	p := withdrawPlan{
		amount:       amount,
		newBalance:   acct.BalancePennies,
		newOverdraft: acct.OverdraftBalancePennies,
	}
	if amount <= acct.BalancePennies {
		p.newBalance = acct.BalancePennies - amount
		return p, nil
	}
	p.overdrew = true
	p.excess = amount - acct.BalancePennies
	p.interestCharge = applyInterest(p.excess)
	p.newOverdraft = acct.OverdraftBalancePennies + p.interestCharge
	// the limit is checked AFTER interest is applied, not before
	if p.newOverdraft > MaxOverdraftPennies {
		return withdrawPlan{}, ErrOverdraftLimitExceeded
	}
	p.newBalance = 0
	return p, nil
}

func (e *Engine) applyDeposit(ctx context.Context, accountID string, p depositPlan, at time.Time) error {
	if p.repay > 0 {
		if err := e.store.SetOverdraftBalance(ctx, accountID, p.newOverdraft); err != nil {
			return err
		}
		err := e.store.AppendOverdraftRepayment(ctx, models.OverdraftLogEntry{
			AccountID:                  accountID,
			Timestamp:                  at,
			RepaymentAmountPennies:     p.repay,
			OldOverdraftBalancePennies: p.oldOverdraft,
			NewOverdraftBalancePennies: p.newOverdraft,
		})
		if err != nil {
			return err
		}
	}
	return e.store.SetBalance(ctx, accountID, p.newBalance)
}

func (e *Engine) applyWithdraw(ctx context.Context, accountID string, p withdrawPlan) error {
	if err := e.store.SetBalance(ctx, accountID, p.newBalance); err != nil {
		return err
	}
	if p.overdrew {
		return e.store.SetOverdraftBalance(ctx, accountID, p.newOverdraft)
	}
	return nil
}

// Deposit credits amountPennies to the account, paying down any overdraft
// balance first. Exactly one transaction log entry is written, plus one
// overdraft repayment entry when the deposit reduced a nonzero overdraft.
func (e *Engine) Deposit(ctx context.Context, accountID, credential string, amountPennies int64) (*models.Account, error) {
	if err := e.authorize(ctx, accountID, credential); err != nil {
		return nil, err
	}
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.checkMutable(acct); err != nil {
		return nil, err
	}
	if amountPennies <= 0 {
		return nil, ErrInvalidAmount
	}

	at := e.now()
	p := planDeposit(acct, amountPennies)
	if err := e.applyDeposit(ctx, accountID, p, at); err != nil {
		return nil, err
	}
	err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
		AccountID:     accountID,
		Timestamp:     at,
		Action:        models.ActionDeposit,
		AmountPennies: amountPennies,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Deposit %s to account %s (overdraft repaid %s)",
		money.FormatPennies(amountPennies), accountID, money.FormatPennies(p.repay))
	return e.store.GetAccount(ctx, accountID)
}

// Withdraw debits amountPennies from the account. A withdrawal beyond the main
// balance zeroes it and books the excess, plus interest, against the overdraft
// balance; the whole operation rejects if the post-interest overdraft would
// exceed the cap.
func (e *Engine) Withdraw(ctx context.Context, accountID, credential string, amountPennies int64) (*models.Account, error) {
	if err := e.authorize(ctx, accountID, credential); err != nil {
		return nil, err
	}
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.checkMutable(acct); err != nil {
		return nil, err
	}
	if amountPennies <= 0 {
		return nil, ErrInvalidAmount
	}

	p, err := planWithdraw(acct, amountPennies)
	if err != nil {
		return nil, err
	}
	if err := e.applyWithdraw(ctx, accountID, p); err != nil {
		return nil, err
	}
	at := e.now()
	err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
		AccountID:     accountID,
		Timestamp:     at,
		Action:        models.ActionWithdraw,
		AmountPennies: amountPennies,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Withdraw %s from account %s (overdraft now %s)",
		money.FormatPennies(amountPennies), accountID, money.FormatPennies(p.newOverdraft))
	return e.store.GetAccount(ctx, accountID)
}

// Transfer moves amountPennies between two accounts. The debit side follows the
// withdraw rules (interest, overdraft cap) and the credit side follows the
// deposit rules (overdraft repayment first), but neither side writes a
// transaction log entry; the transfer is logged once, visible to both parties.
// A debit-side rejection aborts the transfer with no partial effect.
func (e *Engine) Transfer(ctx context.Context, fromID, toID, credential string, amountPennies int64) (*models.Account, error) {
	if err := e.authorize(ctx, fromID, credential); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, ErrSelfTransferRejected
	}
	unlock := e.locks.lockPair(fromID, toID)
	defer unlock()

	from, err := e.store.GetAccount(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := e.store.GetAccount(ctx, toID)
	if err != nil {
		return nil, ErrRecipientNotFound
	}
	if err := e.checkMutable(from); err != nil {
		return nil, err
	}
	// a frozen recipient rejects the whole transfer up front; debiting the
	// sender and then dropping the credit would be a partial effect
	if err := e.checkMutable(to); err != nil {
		return nil, err
	}
	if amountPennies <= 0 {
		return nil, ErrInvalidAmount
	}

	wp, err := planWithdraw(from, amountPennies)
	if err != nil {
		return nil, err
	}
	dp := planDeposit(to, amountPennies)

	at := e.now()
	if err := e.applyWithdraw(ctx, fromID, wp); err != nil {
		return nil, err
	}
	if err := e.applyDeposit(ctx, toID, dp, at); err != nil {
		return nil, err
	}
	err = e.store.AppendTransfer(ctx, models.TransferLogEntry{
		ID:            uuid.NewString(),
		FromAccountID: fromID,
		ToAccountID:   toID,
		Timestamp:     at,
		AmountPennies: amountPennies,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Transfer %s from %s to %s",
		money.FormatPennies(amountPennies), fromID, toID)
	return e.store.GetAccount(ctx, fromID)
}

// Dispute reverses the numTransactionsAgo-th most recent transaction by
// applying its inverse operation and reconciling derived records, then bumps
// the reversal counter. The counter bump is irreversible and freezes the
// account once it reaches MaxDisputes. A rejected reversal changes nothing.
func (e *Engine) Dispute(ctx context.Context, accountID, credential string, numTransactionsAgo int) (*models.Account, error) {
	if err := e.authorize(ctx, accountID, credential); err != nil {
		return nil, err
	}
	if numTransactionsAgo < 1 || numTransactionsAgo > MaxReversableTransactionsAgo {
		return nil, ErrInvalidAmount
	}
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.checkMutable(acct); err != nil {
		return nil, err
	}

	txns, err := e.store.RecentTransactions(ctx, accountID, MaxReversableTransactionsAgo)
	if err != nil {
		return nil, err
	}
	if numTransactionsAgo > len(txns) {
		return nil, ErrInsufficientHistory
	}
	target := txns[numTransactionsAgo-1]

	at := e.now()
	switch target.Action {
	case models.ActionDeposit, models.ActionSellAsset:
		// money came in; reverse by withdrawing it back out
		if err := e.reverseInbound(ctx, acct, target, at); err != nil {
			return nil, err
		}
	case models.ActionWithdraw, models.ActionBuyAsset:
		// money went out; reverse by depositing it back
		p := planDeposit(acct, target.AmountPennies)
		if err := e.applyDeposit(ctx, accountID, p, at); err != nil {
			return nil, err
		}
		err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
			AccountID:     accountID,
			Timestamp:     at,
			Action:        models.ActionDeposit,
			AmountPennies: target.AmountPennies,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot reverse action %q", target.Action)
	}

	count, err := e.store.IncrementReversalCount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Reversed %s of %s for account %s (reversal %d of %d)",
		target.Action, money.FormatPennies(target.AmountPennies), accountID, count, MaxDisputes)
	return e.store.GetAccount(ctx, accountID)
}

// reverseInbound undoes a money-in transaction by running the withdraw
// transition, then reconciles the overdraft log: if the original transaction
// had repaid overdraft, the shortfall now being re-incurred was already charged
// interest once, so the surcharge the reversing withdrawal re-applied to the
// repaid portion is stripped and the stale repayment record deleted.
func (e *Engine) reverseInbound(ctx context.Context, acct *models.Account, target models.TransactionLogEntry, at time.Time) error {
	p, err := planWithdraw(acct, target.AmountPennies)
	if err != nil {
		return err
	}
	entry, err := e.store.OverdraftRepaymentAt(ctx, acct.ID, target.Timestamp)
	if err != nil {
		return err
	}
	if entry != nil && p.overdrew {
		repaid := entry.RepaymentAmountPennies
		if repaid > p.excess {
			repaid = p.excess
		}
		p.newOverdraft -= applyInterest(repaid) - repaid
	}
	if err := e.applyWithdraw(ctx, acct.ID, p); err != nil {
		return err
	}
	err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
		AccountID:     acct.ID,
		Timestamp:     at,
		Action:        models.ActionWithdraw,
		AmountPennies: target.AmountPennies,
	})
	if err != nil {
		return err
	}
	if entry != nil {
		return e.store.DeleteOverdraftRepayment(ctx, acct.ID, target.Timestamp)
	}
	return nil
}

// BuyAsset purchases units of a crypto asset at the oracle's current price.
// Purchases are blocked while the account is in overdraft; the cost must be
// covered by the main balance in full.
func (e *Engine) BuyAsset(ctx context.Context, accountID, credential, symbol string, units float64) (*models.Account, error) {
	if err := e.authorize(ctx, accountID, credential); err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, ErrInvalidAmount
	}
	if !SupportedAssets[symbol] {
		return nil, ErrPriceUnavailable
	}
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.checkMutable(acct); err != nil {
		return nil, err
	}
	if acct.OverdraftBalancePennies > 0 {
		return nil, ErrOverdraftActive
	}

	price, err := e.oracle.Quote(ctx, symbol)
	if err != nil || price <= 0 {
		return nil, ErrPriceUnavailable
	}
	costPennies := money.DollarsToPennies(price * units)
	if costPennies <= 0 {
		return nil, ErrInvalidAmount
	}
	if costPennies > acct.BalancePennies {
		return nil, ErrInsufficientFunds
	}

	held, err := e.store.Holding(ctx, accountID, symbol)
	if err != nil {
		return nil, err
	}
	at := e.now()
	if err := e.store.SetBalance(ctx, accountID, acct.BalancePennies-costPennies); err != nil {
		return nil, err
	}
	if err := e.store.SetHolding(ctx, accountID, symbol, held+units); err != nil {
		return nil, err
	}
	err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
		AccountID:     accountID,
		Timestamp:     at,
		Action:        models.ActionBuyAsset,
		AmountPennies: costPennies,
	})
	if err != nil {
		return nil, err
	}
	err = e.store.AppendAssetTransaction(ctx, models.AssetTransactionLogEntry{
		AccountID:   accountID,
		Timestamp:   at,
		Action:      models.AssetBuy,
		AssetSymbol: symbol,
		Units:       units,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Bought %f %s for account %s at %s",
		units, symbol, accountID, money.FormatPennies(costPennies))
	return e.store.GetAccount(ctx, accountID)
}

// SellAsset liquidates units of a crypto holding at the oracle's current
// price. Proceeds are credited through the deposit rules, so a sale can repay
// overdraft; selling is deliberately permitted while in overdraft.
func (e *Engine) SellAsset(ctx context.Context, accountID, credential, symbol string, units float64) (*models.Account, error) {
	if err := e.authorize(ctx, accountID, credential); err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, ErrInvalidAmount
	}
	if !SupportedAssets[symbol] {
		return nil, ErrPriceUnavailable
	}
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.checkMutable(acct); err != nil {
		return nil, err
	}

	held, err := e.store.Holding(ctx, accountID, symbol)
	if err != nil {
		return nil, err
	}
	if units > held {
		return nil, ErrInsufficientAssetHolding
	}

	price, err := e.oracle.Quote(ctx, symbol)
	if err != nil || price <= 0 {
		return nil, ErrPriceUnavailable
	}
	proceedsPennies := money.DollarsToPennies(price * units)
	if proceedsPennies <= 0 {
		return nil, ErrInvalidAmount
	}

	at := e.now()
	p := planDeposit(acct, proceedsPennies)
	if err := e.applyDeposit(ctx, accountID, p, at); err != nil {
		return nil, err
	}
	if err := e.store.SetHolding(ctx, accountID, symbol, held-units); err != nil {
		return nil, err
	}
	err = e.store.AppendTransaction(ctx, models.TransactionLogEntry{
		AccountID:     accountID,
		Timestamp:     at,
		Action:        models.ActionSellAsset,
		AmountPennies: proceedsPennies,
	})
	if err != nil {
		return nil, err
	}
	err = e.store.AppendAssetTransaction(ctx, models.AssetTransactionLogEntry{
		AccountID:   accountID,
		Timestamp:   at,
		Action:      models.AssetSell,
		AssetSymbol: symbol,
		Units:       units,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Sold %f %s for account %s, proceeds %s (overdraft repaid %s)",
		units, symbol, accountID, money.FormatPennies(proceedsPennies), money.FormatPennies(p.repay))
	return e.store.GetAccount(ctx, accountID)
}
