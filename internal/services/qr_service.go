package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"

	"github.com/terrapinbank/backend/internal/models"
)

// ErrPaymentRequestExpired rejects a code that was never issued, already
// redeemed, or past its TTL.
var ErrPaymentRequestExpired = errors.New("invalid or expired payment request")

// TransferFunc is the settlement hook a redeemed payment request runs
// through. It matches the ledger engine's Transfer method.
type TransferFunc func(ctx context.Context, fromID, toID, credential string, amountPennies int64) (*models.Account, error)

// QRService issues short-lived payment request codes. A requester generates
// a code for an amount; when a payer scans and redeems it, the owed amount
// moves from payer to requester as an ordinary transfer.
type QRService struct {
	redis    *redis.Client
	transfer TransferFunc
}

type paymentRequest struct {
	RequesterID   string `json:"requesterId"`
	AmountPennies int64  `json:"amountPennies"`
	Timestamp     int64  `json:"timestamp"`
	Nonce         string `json:"nonce"`
}

func NewQRService(redisClient *redis.Client, transfer TransferFunc) *QRService {
	return &QRService{
		redis:    redisClient,
		transfer: transfer,
	}
}

// GenerateQRCode creates a payment request for the given amount. It returns
// the opaque code and a base64 PNG rendering of it. Requests expire after
// five minutes.
func (s *QRService) GenerateQRCode(ctx context.Context, requesterID string, amountPennies int64) (string, string, error) {
	if amountPennies <= 0 {
		return "", "", fmt.Errorf("payment request amount must be positive")
	}
	if s.redis == nil {
		return "", "", fmt.Errorf("payment requests require redis")
	}

	req := paymentRequest{
		RequesterID:   requesterID,
		AmountPennies: amountPennies,
		Timestamp:     time.Now().Unix(),
		Nonce:         generateNonce(),
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", "", err
	}

	code := base64.URLEncoding.EncodeToString(jsonData)

	key := fmt.Sprintf("qr:%s", code)
	if err := s.redis.Set(ctx, key, jsonData, 5*time.Minute).Err(); err != nil {
		return "", "", err
	}

	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	return code, qrImage, nil
}

// RedeemQRCode settles a payment request: the payer's account is debited
// and the requester's credited. The code is single-use; it is consumed
// before settlement so a retry cannot double-pay.
func (s *QRService) RedeemQRCode(ctx context.Context, payerID, credential, code string) (*models.Account, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("payment requests require redis")
	}

	key := fmt.Sprintf("qr:%s", code)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrPaymentRequestExpired
	}
	if err != nil {
		return nil, err
	}

	var req paymentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}

	s.redis.Del(ctx, key)

	return s.transfer(ctx, payerID, req.RequesterID, credential, req.AmountPennies)
}

func generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
