package models

import (
	"time"
)

// AccountStatus is the mutability state of an account. Frozen accounts still
// answer reads and logins but reject every balance-changing operation.
type AccountStatus string

const (
	StatusActive AccountStatus = "Active"
	StatusFrozen AccountStatus = "Frozen"
)

// OverdraftState reports whether the account currently owes on its credit line.
type OverdraftState string

const (
	OverdraftNone   OverdraftState = "Normal"
	OverdraftActive OverdraftState = "Overdraft"
)

type Account struct {
	ID                      string    `json:"id" db:"id"`
	BalancePennies          int64     `json:"balance" db:"balance"`
	OverdraftBalancePennies int64     `json:"overdraft_balance" db:"overdraft_balance"`
	ReversalCount           int       `json:"reversal_count" db:"reversal_count"`
	Version                 int       `json:"version" db:"version"` // for optimistic locking
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// Status derives the account's tagged state from its reversal counter.
func (a *Account) Status(maxDisputes int) AccountStatus {
	if a.ReversalCount >= maxDisputes {
		return StatusFrozen
	}
	return StatusActive
}

// OverdraftState derives the credit-line state from the overdraft balance.
func (a *Account) OverdraftState() OverdraftState {
	if a.OverdraftBalancePennies > 0 {
		return OverdraftActive
	}
	return OverdraftNone
}
