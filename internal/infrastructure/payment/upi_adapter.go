package payment

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/payment"
)

// UPIConfig holds the merchant identity rendered into QR payloads
type UPIConfig struct {
	MerchantName string
	MerchantVPA  string
	// SettleAfter is the minimum time the QR must be on screen before a
	// confirmation is accepted (default 8s)
	SettleAfter time.Duration
	// PendingTTL is how long an unconfirmed attempt may sit before the
	// sweep evicts it (default 30m)
	PendingTTL time.Duration
}

// UPIAdapter implements the gateway port as a simulated UPI QR flow: it
// renders a upi://pay payload for the client to display and settles purely
// on the user's self-attestation, a confirmation posted back after the QR
// has been on screen for at least SettleAfter. There is no provider
// verification; this path exists for demos and offline development.
type UPIAdapter struct {
	cfg    UPIConfig
	logger *zap.Logger

	pending *attemptTable // keyed by order ref
}

// NewUPIAdapter creates a simulated UPI QR gateway
func NewUPIAdapter(cfg UPIConfig, logger *zap.Logger) *UPIAdapter {
	if cfg.SettleAfter <= 0 {
		cfg.SettleAfter = 8 * time.Second
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UPIAdapter{cfg: cfg, logger: logger, pending: newAttemptTable()}
}

// Provider identifies the adapter
func (a *UPIAdapter) Provider() payment.Provider {
	return payment.ProviderUPIQR
}

// InitiatePayment builds the QR payload and parks the attempt until the
// user confirms or dismisses it. Cancelling ctx before either action
// resolves the attempt as cancelled.
func (a *UPIAdapter) InitiatePayment(ctx context.Context, req *payment.Request) (*payment.Attempt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if a.cfg.MerchantVPA == "" {
		return nil, payment.ErrGatewayUnavailable
	}

	a.evictStale()

	attempt := payment.NewAttempt(payment.ProviderUPIQR, req.OrderRef)
	attempt.SetDisplay(a.qrPayload(req))
	attempt.SetProviderRef(req.OrderRef)

	now := time.Now()
	entry := &pendingAttempt{
		attempt:   attempt,
		readyAt:   now.Add(a.cfg.SettleAfter),
		expiresAt: now.Add(a.cfg.PendingTTL),
	}
	a.pending.put(req.OrderRef, entry)
	a.pending.watchCancellation(ctx, req.OrderRef, entry)

	a.logger.Info("upi qr issued",
		zap.String("order_ref", req.OrderRef),
		zap.String("amount", req.Amount.StringFixed(2)))

	return attempt, nil
}

// HandleConfirmation settles a pending attempt on the user's word that the
// transfer went through. A confirmation before the QR's minimum display
// time reports ErrConfirmationEarly and leaves the attempt pending, so the
// user retries once the delay elapses.
func (a *UPIAdapter) HandleConfirmation(orderRef string) error {
	entry, err := a.pending.takeReady(orderRef, time.Now())
	if err != nil {
		return err
	}

	paymentID := "upi_" + uuid.NewString()
	a.logger.Info("upi payment confirmed",
		zap.String("order_ref", orderRef),
		zap.String("payment_id", paymentID))
	entry.attempt.Resolve(payment.SuccessOutcome(paymentID, orderRef))
	return nil
}

// HandleDismissal resolves a pending attempt as cancelled by the user
func (a *UPIAdapter) HandleDismissal(orderRef string) error {
	entry, err := a.pending.take(orderRef)
	if err != nil {
		return err
	}
	entry.attempt.Resolve(payment.FailureOutcome(payment.ErrCancelledByUser, "Payment cancelled by user"))
	return nil
}

// evictStale resolves and drops attempts older than the pending TTL
func (a *UPIAdapter) evictStale() {
	for _, entry := range a.pending.sweep(time.Now()) {
		a.logger.Info("upi attempt expired",
			zap.String("order_ref", entry.attempt.OrderRef()))
		entry.attempt.Resolve(payment.FailureOutcome(
			payment.ErrAttemptExpired, "Payment attempt expired"))
	}
}

func (a *UPIAdapter) qrPayload(req *payment.Request) string {
	q := url.Values{}
	q.Set("pa", a.cfg.MerchantVPA)
	q.Set("pn", a.cfg.MerchantName)
	q.Set("am", req.Amount.StringFixed(2))
	q.Set("cu", req.Currency)
	q.Set("tr", req.OrderRef)
	if req.Note != "" {
		q.Set("tn", req.Note)
	}
	return fmt.Sprintf("upi://pay?%s", q.Encode())
}
