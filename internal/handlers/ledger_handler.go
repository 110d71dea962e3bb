package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/middleware"
	"github.com/terrapinbank/backend/internal/models"
	"github.com/terrapinbank/backend/internal/money"
	"github.com/terrapinbank/backend/internal/services"
)

// LedgerHandler exposes the account ledger over HTTP. Every mutating
// endpoint re-confirms the account password in the request body before
// the engine touches balances.
type LedgerHandler struct {
	engine    *ledger.Engine
	validator *services.ValidationHelper
}

func NewLedgerHandler(engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{
		engine:    engine,
		validator: services.NewValidationHelper(),
	}
}

// AmountRequest carries a deposit or withdrawal amount in dollars.
// @Description Cash movement request structure
type AmountRequest struct {
	Password string  `json:"password" validate:"required" example:"password123"` // Account password
	Amount   float64 `json:"amount" validate:"required,gt=0" example:"123.45"`   // Amount in dollars
}

// TransferRequest moves money to another account.
// @Description Transfer request structure
type TransferRequest struct {
	Password    string  `json:"password" validate:"required" example:"password123"`     // Account password
	RecipientID string  `json:"recipientId" validate:"required,len=10" example:"987..."` // Recipient account ID
	Amount      float64 `json:"amount" validate:"required,gt=0" example:"123.45"`       // Amount in dollars
}

// DisputeRequest asks for a recent transaction to be reversed.
// @Description Dispute request structure
type DisputeRequest struct {
	Password           string `json:"password" validate:"required" example:"password123"` // Account password
	NumTransactionsAgo int    `json:"numTransactionsAgo" validate:"required,min=1,max=3" example:"1"` // 1 is the most recent transaction
}

// AssetRequest buys or sells units of a crypto asset.
// @Description Crypto trade request structure
type AssetRequest struct {
	Password    string  `json:"password" validate:"required" example:"password123"`     // Account password
	AssetSymbol string  `json:"assetSymbol" validate:"required,supportedasset" example:"ETH"` // Asset symbol
	Units       float64 `json:"units" validate:"required,gt=0" example:"0.5"`           // Units to trade
}

// AccountResponse is the balance state returned after a successful operation.
// @Description Account state response structure
type AccountResponse struct {
	AccountID        string `json:"accountId" example:"1234567890"` // Account ID
	Balance          string `json:"balance" example:"$123.45"`      // Cash balance
	OverdraftBalance string `json:"overdraftBalance" example:"$0.00"` // Owed overdraft balance
	OverdraftState   string `json:"overdraftState" example:"Normal"` // Normal or Overdraft
	Status           string `json:"status" example:"Active"`        // Active or Frozen
}

func accountResponse(acct *models.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acct.ID,
		Balance:          money.FormatPennies(acct.BalancePennies),
		OverdraftBalance: money.FormatPennies(acct.OverdraftBalancePennies),
		OverdraftState:   string(acct.OverdraftState()),
		Status:           string(acct.Status(ledger.MaxDisputes)),
	}
}

// decodeBody reads a single JSON object into dst and validates it.
func (h *LedgerHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := h.validator.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}

	return true
}

// handleEngineError maps engine rejections onto HTTP statuses. Rejected
// operations deliberately return a generic message; the typed cause only
// goes to the log.
func handleEngineError(w http.ResponseWriter, op string, err error) {
	log.Printf("[API] %s rejected: %v", op, err)

	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		services.SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
	case errors.Is(err, ledger.ErrAccountNotFound):
		services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
	case errors.Is(err, ledger.ErrAccountFrozen),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHistory),
		errors.Is(err, ledger.ErrOverdraftLimitExceeded),
		errors.Is(err, ledger.ErrSelfTransferRejected),
		errors.Is(err, ledger.ErrRecipientNotFound),
		errors.Is(err, ledger.ErrInsufficientAssetHolding),
		errors.Is(err, ledger.ErrOverdraftActive),
		errors.Is(err, ledger.ErrPriceUnavailable):
		services.SendErrorResponse(w, "Transaction rejected", http.StatusBadRequest, nil)
	default:
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
	}
}

func writeAccount(w http.ResponseWriter, acct *models.Account) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountResponse(acct))
}

func accountFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return "", false
	}
	return accountID, true
}

// Deposit credits cash to the authenticated account
// @Summary Deposit cash
// @Description Deposit a dollar amount; owed overdraft balance is repaid first
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AmountRequest true "Deposit request"
// @Success 200 {object} AccountResponse "Updated account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /ledger/deposit [post]
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.Deposit(r.Context(), accountID, req.Password, money.DollarsToPennies(req.Amount))
	if err != nil {
		handleEngineError(w, "deposit", err)
		return
	}

	writeAccount(w, acct)
}

// Withdraw debits cash from the authenticated account
// @Summary Withdraw cash
// @Description Withdraw a dollar amount; withdrawing past zero draws on the overdraft credit line
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AmountRequest true "Withdrawal request"
// @Success 200 {object} AccountResponse "Updated account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /ledger/withdraw [post]
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.Withdraw(r.Context(), accountID, req.Password, money.DollarsToPennies(req.Amount))
	if err != nil {
		handleEngineError(w, "withdraw", err)
		return
	}

	writeAccount(w, acct)
}

// Transfer moves cash to another account
// @Summary Transfer cash
// @Description Transfer a dollar amount to another account atomically
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "Transfer request"
// @Success 200 {object} AccountResponse "Sender account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /ledger/transfer [post]
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.Transfer(r.Context(), accountID, req.RecipientID, req.Password, money.DollarsToPennies(req.Amount))
	if err != nil {
		handleEngineError(w, "transfer", err)
		return
	}

	writeAccount(w, acct)
}

// Dispute reverses a recent transaction
// @Summary Dispute a transaction
// @Description Reverse one of the three most recent transactions by replaying its opposite
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DisputeRequest true "Dispute request"
// @Success 200 {object} AccountResponse "Updated account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /ledger/dispute [post]
func (h *LedgerHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req DisputeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.Dispute(r.Context(), accountID, req.Password, req.NumTransactionsAgo)
	if err != nil {
		handleEngineError(w, "dispute", err)
		return
	}

	writeAccount(w, acct)
}

// BuyAsset purchases crypto units with account cash
// @Summary Buy crypto
// @Description Buy units of a supported crypto asset at the current oracle price
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssetRequest true "Buy request"
// @Success 200 {object} AccountResponse "Updated account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /crypto/buy [post]
func (h *LedgerHandler) BuyAsset(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req AssetRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.BuyAsset(r.Context(), accountID, req.Password, req.AssetSymbol, req.Units)
	if err != nil {
		handleEngineError(w, "crypto buy", err)
		return
	}

	writeAccount(w, acct)
}

// SellAsset sells crypto units for account cash
// @Summary Sell crypto
// @Description Sell held units of a crypto asset at the current oracle price
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssetRequest true "Sell request"
// @Success 200 {object} AccountResponse "Updated account state"
// @Failure 400 {object} services.ErrorResponse "Transaction rejected"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Router /crypto/sell [post]
func (h *LedgerHandler) SellAsset(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	var req AssetRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	acct, err := h.engine.SellAsset(r.Context(), accountID, req.Password, req.AssetSymbol, req.Units)
	if err != nil {
		handleEngineError(w, "crypto sell", err)
		return
	}

	writeAccount(w, acct)
}

// GetAccount returns the full account snapshot
// @Summary Get account snapshot
// @Description Current balances, recent history, overdraft repayments and crypto holdings
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ledger.Snapshot "Account snapshot"
// @Failure 401 {object} services.ErrorResponse "Unauthorized"
// @Failure 404 {object} services.ErrorResponse "Account not found"
// @Router /ledger/account [get]
func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(w, r)
	if !ok {
		return
	}

	snapshot, err := h.engine.Snapshot(r.Context(), accountID)
	if err != nil {
		handleEngineError(w, "snapshot", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}
