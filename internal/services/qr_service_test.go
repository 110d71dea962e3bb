package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapinbank/backend/internal/models"
)

func TestQRService_GenerateQRCode(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	s := NewQRService(redisClient, nil)
	ctx := context.Background()

	mock.Regexp().ExpectSet(`qr:.+`, `.+`, 5*time.Minute).SetVal("OK")

	code, image, err := s.GenerateQRCode(ctx, "1234567890", 2500)
	require.NoError(t, err)
	assert.NotEmpty(t, image)

	// the code round-trips to the request it encodes
	raw, err := base64.URLEncoding.DecodeString(code)
	require.NoError(t, err)
	var req paymentRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, "1234567890", req.RequesterID)
	assert.Equal(t, int64(2500), req.AmountPennies)
	assert.NotEmpty(t, req.Nonce)
}

func TestQRService_GenerateQRCode_Rejects(t *testing.T) {
	redisClient, _ := redismock.NewClientMock()
	s := NewQRService(redisClient, nil)

	_, _, err := s.GenerateQRCode(context.Background(), "1234567890", 0)
	assert.Error(t, err)

	noRedis := NewQRService(nil, nil)
	_, _, err = noRedis.GenerateQRCode(context.Background(), "1234567890", 2500)
	assert.Error(t, err)
}

func TestQRService_RedeemQRCode(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	ctx := context.Background()

	payload, err := json.Marshal(paymentRequest{
		RequesterID:   "1234567890",
		AmountPennies: 2500,
		Timestamp:     time.Now().Unix(),
		Nonce:         "abc",
	})
	require.NoError(t, err)
	code := base64.URLEncoding.EncodeToString(payload)

	var gotFrom, gotTo string
	var gotAmount int64
	s := NewQRService(redisClient, func(ctx context.Context, fromID, toID, credential string, amountPennies int64) (*models.Account, error) {
		gotFrom, gotTo, gotAmount = fromID, toID, amountPennies
		return &models.Account{ID: fromID}, nil
	})

	mock.ExpectGet("qr:" + code).SetVal(string(payload))
	mock.ExpectDel("qr:" + code).SetVal(1)

	acct, err := s.RedeemQRCode(ctx, "9876543210", "opensesame", code)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", acct.ID)
	assert.Equal(t, "9876543210", gotFrom)
	assert.Equal(t, "1234567890", gotTo)
	assert.Equal(t, int64(2500), gotAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRService_RedeemQRCode_Expired(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	s := NewQRService(redisClient, nil)

	mock.ExpectGet("qr:stale").RedisNil()

	_, err := s.RedeemQRCode(context.Background(), "9876543210", "opensesame", "stale")
	assert.ErrorContains(t, err, "invalid or expired")
}
