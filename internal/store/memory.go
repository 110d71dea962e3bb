package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/models"
)

// Memory is an in-process implementation of the engine's store contracts. It
// backs local development without Postgres and the ledger engine tests.
type Memory struct {
	mu            sync.RWMutex
	accounts      map[string]*models.Account
	transactions  map[string][]models.TransactionLogEntry
	overdraftLogs map[string][]models.OverdraftLogEntry
	transfers     []models.TransferLogEntry
	holdings      map[string]map[string]float64
	assetLogs     map[string][]models.AssetTransactionLogEntry
}

func NewMemory() *Memory {
	return &Memory{
		accounts:      make(map[string]*models.Account),
		transactions:  make(map[string][]models.TransactionLogEntry),
		overdraftLogs: make(map[string][]models.OverdraftLogEntry),
		holdings:      make(map[string]map[string]float64),
		assetLogs:     make(map[string][]models.AssetTransactionLogEntry),
	}
}

func (m *Memory) CreateAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; ok {
		return fmt.Errorf("account %s already exists", id)
	}
	m.accounts[id] = &models.Account{ID: id, Version: 1, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *Memory) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (m *Memory) SetBalance(ctx context.Context, id string, pennies int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[id]
	if !ok {
		return ledger.ErrAccountNotFound
	}
	acct.BalancePennies = pennies
	acct.Version++
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) SetOverdraftBalance(ctx context.Context, id string, pennies int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[id]
	if !ok {
		return ledger.ErrAccountNotFound
	}
	acct.OverdraftBalancePennies = pennies
	acct.Version++
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) IncrementReversalCount(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[id]
	if !ok {
		return 0, ledger.ErrAccountNotFound
	}
	acct.ReversalCount++
	acct.Version++
	acct.UpdatedAt = time.Now().UTC()
	return acct.ReversalCount, nil
}

func (m *Memory) AppendTransaction(ctx context.Context, e models.TransactionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[e.AccountID] = append(m.transactions[e.AccountID], e)
	return nil
}

// RecentTransactions returns up to limit entries, most recent first. Entries
// are appended in commit order, so ties on timestamp break by insertion order.
func (m *Memory) RecentTransactions(ctx context.Context, accountID string, limit int) ([]models.TransactionLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.transactions[accountID]
	out := make([]models.TransactionLogEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *Memory) AppendOverdraftRepayment(ctx context.Context, e models.OverdraftLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overdraftLogs[e.AccountID] = append(m.overdraftLogs[e.AccountID], e)
	return nil
}

func (m *Memory) OverdraftRepaymentAt(ctx context.Context, accountID string, at time.Time) (*models.OverdraftLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.overdraftLogs[accountID] {
		if e.Timestamp.Equal(at) {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Memory) DeleteOverdraftRepayment(ctx context.Context, accountID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.overdraftLogs[accountID][:0]
	for _, e := range m.overdraftLogs[accountID] {
		if !e.Timestamp.Equal(at) {
			kept = append(kept, e)
		}
	}
	m.overdraftLogs[accountID] = kept
	return nil
}

func (m *Memory) OverdraftRepayments(ctx context.Context, accountID string) ([]models.OverdraftLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.OverdraftLogEntry(nil), m.overdraftLogs[accountID]...), nil
}

func (m *Memory) AppendTransfer(ctx context.Context, e models.TransferLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, e)
	return nil
}

func (m *Memory) RecentTransfers(ctx context.Context, accountID string, limit int) ([]models.TransferLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.TransferLogEntry, 0, limit)
	for i := len(m.transfers) - 1; i >= 0 && len(out) < limit; i-- {
		t := m.transfers[i]
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) Holding(ctx context.Context, accountID, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holdings[accountID][symbol], nil
}

func (m *Memory) SetHolding(ctx context.Context, accountID, symbol string, units float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if units <= 0 {
		delete(m.holdings[accountID], symbol)
		return nil
	}
	if m.holdings[accountID] == nil {
		m.holdings[accountID] = make(map[string]float64)
	}
	m.holdings[accountID][symbol] = units
	return nil
}

func (m *Memory) Holdings(ctx context.Context, accountID string) ([]models.AssetHolding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.AssetHolding, 0, len(m.holdings[accountID]))
	for symbol, units := range m.holdings[accountID] {
		out = append(out, models.AssetHolding{AccountID: accountID, AssetSymbol: symbol, UnitsHeld: units})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetSymbol < out[j].AssetSymbol })
	return out, nil
}

func (m *Memory) AppendAssetTransaction(ctx context.Context, e models.AssetTransactionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetLogs[e.AccountID] = append(m.assetLogs[e.AccountID], e)
	return nil
}

func (m *Memory) AssetTransactions(ctx context.Context, accountID string) ([]models.AssetTransactionLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.assetLogs[accountID]
	out := make([]models.AssetTransactionLogEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
