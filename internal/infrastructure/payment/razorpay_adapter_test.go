package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstore/backend/internal/domain/payment"
)

func testRequest() *payment.Request {
	return &payment.Request{
		Amount:   decimal.NewFromInt(350),
		Currency: "INR",
		Customer: payment.Customer{Name: "ramesh", Email: "ramesh@example.com", Contact: "9876543210"},
		OrderRef: "order_1_abc",
	}
}

func newOrderServer(t *testing.T, providerOrderID string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_test", user)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"` + providerOrderID + `","amount":35000,"currency":"INR","status":"created"}`))
	}))
}

func signCallback(secret string, cb Callback) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(cb.ProviderOrderID + "|" + cb.PaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayInitiateAndCallback(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_1")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	attempt, err := adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "order_1_abc", attempt.OrderRef())
	assert.Equal(t, payment.ProviderRazorpay, attempt.Provider())
	assert.Equal(t, "order_rzp_1", attempt.ProviderRef())

	cb := Callback{ProviderOrderID: "order_rzp_1", PaymentID: "pay_123"}
	cb.Signature = signCallback("secret_test", cb)
	require.NoError(t, adapter.HandleCallback(cb))

	outcome := <-attempt.Outcome()
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "pay_123", outcome.PaymentID)
	assert.Equal(t, "order_rzp_1", outcome.ProviderOrderID)
}

func TestRazorpayCallbackBadSignature(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_2")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	attempt, err := adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)

	require.NoError(t, adapter.HandleCallback(Callback{
		ProviderOrderID: "order_rzp_2",
		PaymentID:       "pay_123",
		Signature:       "forged",
	}))

	outcome := <-attempt.Outcome()
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, payment.ErrInvalidResponse)
}

func TestRazorpayCallbackMissingPaymentID(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_3")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	attempt, err := adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)

	// A success-shaped callback without a payment id passes through and
	// must read as invalid downstream rather than as a clean success.
	cb := Callback{ProviderOrderID: "order_rzp_3", PaymentID: ""}
	cb.Signature = signCallback("secret_test", cb)
	require.NoError(t, adapter.HandleCallback(cb))

	outcome := <-attempt.Outcome()
	assert.True(t, outcome.Success)
	assert.True(t, outcome.Invalid())
	assert.False(t, outcome.Succeeded())
}

func TestRazorpayDismissal(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_4")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	attempt, err := adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)

	require.NoError(t, adapter.HandleDismissal("order_rzp_4"))

	outcome := <-attempt.Outcome()
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, payment.ErrCancelledByUser)

	// The attempt is consumed; a late callback finds nothing
	assert.ErrorIs(t, adapter.HandleDismissal("order_rzp_4"), payment.ErrUnknownAttempt)
}

func TestRazorpayAbandonedAttemptEvicted(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_6")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	attempt, err := adapter.InitiatePayment(ctx, testRequest())
	require.NoError(t, err)
	cancel()

	// The checkout walking away resolves the attempt as cancelled and
	// removes it from the pending table instead of leaking it
	outcome := <-attempt.Outcome()
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, payment.ErrCancelledByUser)

	cb := Callback{ProviderOrderID: "order_rzp_6", PaymentID: "pay_123"}
	cb.Signature = signCallback("secret_test", cb)
	assert.ErrorIs(t, adapter.HandleCallback(cb), payment.ErrUnknownAttempt)
}

func TestRazorpayStaleAttemptEvicted(t *testing.T) {
	ids := []string{"order_rzp_old", "order_rzp_new"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ids[0]
		if len(ids) > 1 {
			ids = ids[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"` + id + `","amount":35000,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
		PendingTTL: time.Millisecond,
	}, nil)

	stale, err := adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// The next initiation sweeps the expired attempt out of the table
	_, err = adapter.InitiatePayment(context.Background(), testRequest())
	require.NoError(t, err)

	outcome := <-stale.Outcome()
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, payment.ErrAttemptExpired)
	assert.ErrorIs(t, adapter.HandleDismissal("order_rzp_old"), payment.ErrUnknownAttempt)
}

func TestRazorpayUnknownCallback(t *testing.T) {
	adapter := NewRazorpayAdapter(RazorpayConfig{KeyID: "k", KeySecret: "s"}, nil)
	err := adapter.HandleCallback(Callback{ProviderOrderID: "missing", PaymentID: "pay_1"})
	assert.ErrorIs(t, err, payment.ErrUnknownAttempt)
}

func TestRazorpayGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use, so the dial fails

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	_, err := adapter.InitiatePayment(context.Background(), testRequest())
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}

func TestRazorpayRejectsInvalidRequest(t *testing.T) {
	adapter := NewRazorpayAdapter(RazorpayConfig{KeyID: "k", KeySecret: "s"}, nil)
	req := testRequest()
	req.Amount = decimal.Zero
	_, err := adapter.InitiatePayment(context.Background(), req)
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)
}

func TestRazorpayBootstrapRunsOnce(t *testing.T) {
	srv := newOrderServer(t, "order_rzp_5")
	defer srv.Close()

	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL,
	}, nil)

	for i := 0; i < 5; i++ {
		attempt, err := adapter.InitiatePayment(context.Background(), testRequest())
		require.NoError(t, err)
		require.NoError(t, adapter.HandleDismissal("order_rzp_5"))
		<-attempt.Outcome()
	}
	assert.Equal(t, 1, adapter.BootstrapCount())
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(35000), toMinorUnits(decimal.NewFromInt(350)))
	assert.Equal(t, int64(9950), toMinorUnits(decimal.NewFromFloat(99.50)))
	assert.Equal(t, int64(100), toMinorUnits(decimal.NewFromInt(1)))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	adapter := NewRazorpayAdapter(RazorpayConfig{KeyID: "k", KeySecret: "s"}, nil)
	registry.Register(adapter)

	got, err := registry.Resolve(payment.ProviderRazorpay)
	require.NoError(t, err)
	assert.Same(t, payment.Gateway(adapter), got)

	_, err = registry.Resolve(payment.ProviderUPIQR)
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}
