package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/payment"
)

// RazorpayConfig holds the Razorpay credentials and endpoint
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	// PendingTTL is how long an unresolved attempt may sit before the
	// sweep evicts it (default 30m)
	PendingTTL time.Duration
}

// RazorpayAdapter implements the gateway port against the Razorpay orders
// API. InitiatePayment creates a provider order and parks the attempt until
// the browser posts the payment callback (or a dismissal) back to us.
type RazorpayAdapter struct {
	cfg    RazorpayConfig
	client *http.Client
	logger *zap.Logger

	// bootstrap mirrors the one-time checkout script load on the web side:
	// it runs at most once per adapter lifetime however many payments run.
	bootstrapOnce sync.Once
	bootstrapped  atomic.Int32

	pending *attemptTable // keyed by provider order id
}

// NewRazorpayAdapter creates a Razorpay gateway adapter
func NewRazorpayAdapter(cfg RazorpayConfig, logger *zap.Logger) *RazorpayAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RazorpayAdapter{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		pending: newAttemptTable(),
	}
}

// Provider identifies the adapter
func (a *RazorpayAdapter) Provider() payment.Provider {
	return payment.ProviderRazorpay
}

func (a *RazorpayAdapter) bootstrap() {
	a.bootstrapOnce.Do(func() {
		a.bootstrapped.Add(1)
		a.logger.Info("razorpay adapter initialized", zap.String("key_id", a.cfg.KeyID))
	})
}

// BootstrapCount reports how many times initialization ran
func (a *RazorpayAdapter) BootstrapCount() int {
	return int(a.bootstrapped.Load())
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// InitiatePayment creates a Razorpay order and returns a pending attempt.
// A provider that cannot be reached yields ErrGatewayUnavailable without
// retrying; the user retries by checking out again.
func (a *RazorpayAdapter) InitiatePayment(ctx context.Context, req *payment.Request) (*payment.Attempt, error) {
	a.bootstrap()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   toMinorUnits(req.Amount),
		Currency: req.Currency,
		Receipt:  req.OrderRef,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(a.cfg.KeyID, a.cfg.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		a.logger.Warn("razorpay order creation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("razorpay order creation rejected", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}

	var orderResp razorpayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidResponse, err)
	}
	if orderResp.ID == "" {
		return nil, payment.ErrInvalidResponse
	}

	a.evictStale()

	attempt := payment.NewAttempt(payment.ProviderRazorpay, req.OrderRef)
	attempt.SetProviderRef(orderResp.ID)

	entry := &pendingAttempt{
		attempt:   attempt,
		expiresAt: time.Now().Add(a.cfg.PendingTTL),
	}
	a.pending.put(orderResp.ID, entry)
	a.pending.watchCancellation(ctx, orderResp.ID, entry)

	a.logger.Info("razorpay order created",
		zap.String("order_ref", req.OrderRef),
		zap.String("provider_order_id", orderResp.ID))

	return attempt, nil
}

// evictStale resolves and drops attempts older than the pending TTL so
// abandoned checkouts do not accumulate for the process lifetime
func (a *RazorpayAdapter) evictStale() {
	for _, entry := range a.pending.sweep(time.Now()) {
		a.logger.Info("razorpay attempt expired",
			zap.String("order_ref", entry.attempt.OrderRef()))
		entry.attempt.Resolve(payment.FailureOutcome(
			payment.ErrAttemptExpired, "Payment attempt expired"))
	}
}

// Callback is the payload the browser posts after the hosted checkout
type Callback struct {
	ProviderOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID       string `json:"razorpay_payment_id"`
	Signature       string `json:"razorpay_signature"`
}

// HandleCallback resolves a pending attempt from the provider callback.
// The signature is HMAC-SHA256 of "order_id|payment_id" under the key
// secret; a mismatch resolves the attempt as a verification failure rather
// than dropping it, so the waiting checkout is released either way.
func (a *RazorpayAdapter) HandleCallback(cb Callback) error {
	attempt, err := a.take(cb.ProviderOrderID)
	if err != nil {
		return err
	}

	if !a.verifySignature(cb) {
		a.logger.Error("razorpay signature verification failed",
			zap.String("provider_order_id", cb.ProviderOrderID))
		attempt.Resolve(payment.FailureOutcome(payment.ErrInvalidResponse, "payment verification failed"))
		return nil
	}

	// Identifiers pass through as received; success-shaped payloads with
	// missing ids must surface downstream as invalid, not be repaired here.
	attempt.Resolve(payment.Outcome{
		Success:         true,
		PaymentID:       cb.PaymentID,
		ProviderOrderID: cb.ProviderOrderID,
	})
	return nil
}

// HandleDismissal resolves a pending attempt as cancelled by the user
func (a *RazorpayAdapter) HandleDismissal(providerOrderID string) error {
	attempt, err := a.take(providerOrderID)
	if err != nil {
		return err
	}
	attempt.Resolve(payment.FailureOutcome(payment.ErrCancelledByUser, "Payment cancelled by user"))
	return nil
}

func (a *RazorpayAdapter) take(providerOrderID string) (*payment.Attempt, error) {
	entry, err := a.pending.take(providerOrderID)
	if err != nil {
		return nil, err
	}
	return entry.attempt, nil
}

func (a *RazorpayAdapter) verifySignature(cb Callback) bool {
	if cb.Signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(a.cfg.KeySecret))
	mac.Write([]byte(cb.ProviderOrderID + "|" + cb.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(cb.Signature)) == 1
}

// toMinorUnits converts a currency amount to integer minor units (paise)
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
