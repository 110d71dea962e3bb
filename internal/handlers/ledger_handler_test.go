package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapinbank/backend/internal/ledger"
	"github.com/terrapinbank/backend/internal/middleware"
	"github.com/terrapinbank/backend/internal/store"
)

type stubGate struct{}

func (stubGate) Verify(_ context.Context, _ string, credential string) (bool, error) {
	return credential == "password123", nil
}

type stubOracle struct{ prices map[string]float64 }

func (o stubOracle) Quote(_ context.Context, symbol string) (float64, error) {
	return o.prices[symbol], nil
}

func newTestHandler(t *testing.T) (*LedgerHandler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	engine := ledger.NewEngine(mem, stubOracle{prices: map[string]float64{"ETH": 2000, "SOL": 100}}, stubGate{})
	return NewLedgerHandler(engine), mem
}

func doRequest(t *testing.T, h http.HandlerFunc, accountID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if accountID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.AccountIDKey, accountID))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func seed(t *testing.T, mem *store.Memory, id string, balance int64) {
	t.Helper()
	require.NoError(t, mem.CreateAccount(context.Background(), id))
	require.NoError(t, mem.SetBalance(context.Background(), id, balance))
}

func TestLedgerHandler_Deposit(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 0)

	rec := doRequest(t, h.Deposit, "1234567890", `{"password":"password123","amount":123.45}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "1234567890", resp.AccountID)
	assert.Equal(t, "$123.45", resp.Balance)
	assert.Equal(t, "Normal", resp.OverdraftState)
}

func TestLedgerHandler_Deposit_Rejections(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 0)

	t.Run("no auth context", func(t *testing.T) {
		rec := doRequest(t, h.Deposit, "", `{"password":"password123","amount":10}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad password", func(t *testing.T) {
		rec := doRequest(t, h.Deposit, "1234567890", `{"password":"nope-wrong","amount":10}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-positive amount fails validation", func(t *testing.T) {
		rec := doRequest(t, h.Deposit, "1234567890", `{"password":"password123","amount":-5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		rec := doRequest(t, h.Deposit, "1234567890", `{"password":"password123","amount":10,"extra":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := doRequest(t, h.Deposit, "0000000000", `{"password":"password123","amount":10}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLedgerHandler_Withdraw(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 10000)

	t.Run("simple withdrawal", func(t *testing.T) {
		rec := doRequest(t, h.Withdraw, "1234567890", `{"password":"password123","amount":50}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "$50.00", resp.Balance)
	})

	t.Run("overdraft past the cap is a generic rejection", func(t *testing.T) {
		rec := doRequest(t, h.Withdraw, "1234567890", `{"password":"password123","amount":5000}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Transaction rejected")
	})
}

func TestLedgerHandler_Transfer(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 10000)
	seed(t, mem, "9876543210", 0)

	rec := doRequest(t, h.Transfer, "1234567890",
		`{"password":"password123","recipientId":"9876543210","amount":25}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "$75.00", resp.Balance)

	recipient, err := mem.GetAccount(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), recipient.BalancePennies)
}

func TestLedgerHandler_Dispute(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 0)

	rec := doRequest(t, h.Deposit, "1234567890", `{"password":"password123","amount":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h.Dispute, "1234567890", `{"password":"password123","numTransactionsAgo":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "$0.00", resp.Balance)

	t.Run("out of range index fails validation", func(t *testing.T) {
		rec := doRequest(t, h.Dispute, "1234567890", `{"password":"password123","numTransactionsAgo":4}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLedgerHandler_Crypto(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 500000)

	t.Run("buy", func(t *testing.T) {
		rec := doRequest(t, h.BuyAsset, "1234567890", `{"password":"password123","assetSymbol":"ETH","units":1.5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "$2000.00", resp.Balance)
	})

	t.Run("unsupported symbol fails validation", func(t *testing.T) {
		rec := doRequest(t, h.BuyAsset, "1234567890", `{"password":"password123","assetSymbol":"DOGE","units":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sell", func(t *testing.T) {
		rec := doRequest(t, h.SellAsset, "1234567890", `{"password":"password123","assetSymbol":"ETH","units":0.5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "$3000.00", resp.Balance)
	})

	t.Run("selling more than held is rejected", func(t *testing.T) {
		rec := doRequest(t, h.SellAsset, "1234567890", `{"password":"password123","assetSymbol":"SOL","units":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLedgerHandler_GetAccount(t *testing.T) {
	h, mem := newTestHandler(t)
	seed(t, mem, "1234567890", 1000)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.AccountIDKey, "1234567890"))
	rec := httptest.NewRecorder()
	h.GetAccount(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot ledger.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, int64(1000), snapshot.Account.BalancePennies)
	assert.Empty(t, snapshot.Holdings)
}
