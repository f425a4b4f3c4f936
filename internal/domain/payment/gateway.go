package payment

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Payment gateway errors
var (
	ErrInvalidAmount      = errors.New("payment: amount must be positive")
	ErrInvalidCurrency    = errors.New("payment: invalid currency code")
	ErrInvalidCustomer    = errors.New("payment: customer name and email are required")
	ErrInvalidOrderRef    = errors.New("payment: order reference cannot be empty")
	ErrGatewayUnavailable = errors.New("payment: gateway unavailable")
	ErrCancelledByUser    = errors.New("payment: cancelled by user")
	ErrDeclined           = errors.New("payment: declined by provider")
	ErrInvalidResponse    = errors.New("payment: invalid gateway response")
	ErrUnknownAttempt     = errors.New("payment: unknown payment attempt")
	ErrAttemptExpired     = errors.New("payment: attempt expired")
	ErrConfirmationEarly  = errors.New("payment: confirmation before minimum display time")
)

// Provider identifies a gateway implementation
type Provider string

const (
	ProviderRazorpay Provider = "RAZORPAY"
	ProviderUPIQR    Provider = "UPI_QR"
)

// String returns the string representation of Provider
func (p Provider) String() string {
	return string(p)
}

// Customer carries the prefill info handed to the provider's checkout UI
type Customer struct {
	Name    string
	Email   string
	Contact string
}

// Request describes one checkout attempt handed to a gateway
type Request struct {
	// Amount is the payment amount in currency units (not minor units)
	Amount decimal.Decimal
	// Currency is the ISO 4217 currency code (default INR)
	Currency string
	// Customer is the paying customer
	Customer Customer
	// OrderRef is the caller-generated reference correlating this attempt.
	// It is idempotency-style only: the gateway does not enforce uniqueness.
	OrderRef string
	// Note is an optional free-text payment note
	Note string
}

// Validate checks the request invariants
func (r *Request) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if len(r.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if strings.TrimSpace(r.Customer.Name) == "" || strings.TrimSpace(r.Customer.Email) == "" {
		return ErrInvalidCustomer
	}
	if r.OrderRef == "" {
		return ErrInvalidOrderRef
	}
	return nil
}

// Outcome is the single terminal result of one payment attempt
type Outcome struct {
	// Success reports whether the provider claims the payment succeeded
	Success bool
	// PaymentID is the provider payment identifier (success only)
	PaymentID string
	// ProviderOrderID is the provider-side order identifier (success only)
	ProviderOrderID string
	// Reason is a human-readable failure reason
	Reason string
	// Err classifies the failure (ErrCancelledByUser, ErrDeclined, ...)
	Err error
}

// Invalid reports a success-shaped outcome with malformed identifiers.
// Such outcomes are a distinct, suspicious failure mode and must never be
// accepted as success.
func (o Outcome) Invalid() bool {
	return o.Success && (o.PaymentID == "" || o.ProviderOrderID == "")
}

// Succeeded reports a success outcome that also passed identifier validation
func (o Outcome) Succeeded() bool {
	return o.Success && !o.Invalid()
}

// SuccessOutcome builds a success outcome carrying provider identifiers
func SuccessOutcome(paymentID, providerOrderID string) Outcome {
	return Outcome{
		Success:         true,
		PaymentID:       paymentID,
		ProviderOrderID: providerOrderID,
	}
}

// FailureOutcome builds a failure outcome with a classification and reason
func FailureOutcome(err error, reason string) Outcome {
	if reason == "" && err != nil {
		reason = err.Error()
	}
	return Outcome{Reason: reason, Err: err}
}

// Attempt is one in-flight payment. Its outcome channel yields exactly one
// terminal Outcome; the checkout sequence suspends on it until the provider
// callback, a dismissal, or ctx cancellation. No timeout is imposed here.
type Attempt struct {
	orderRef    string
	provider    Provider
	providerRef string
	display     string

	once    sync.Once
	outcome chan Outcome
}

// NewAttempt creates a pending attempt for an order reference
func NewAttempt(provider Provider, orderRef string) *Attempt {
	return &Attempt{
		orderRef: orderRef,
		provider: provider,
		outcome:  make(chan Outcome, 1),
	}
}

// OrderRef returns the caller-supplied order reference
func (a *Attempt) OrderRef() string {
	return a.orderRef
}

// Provider returns the gateway that owns this attempt
func (a *Attempt) Provider() Provider {
	return a.provider
}

// ProviderRef returns the provider-side identifier for this attempt. The
// client correlates its callback, confirmation, or dismissal with this
// value, so it must be handed to the client before the wait begins.
func (a *Attempt) ProviderRef() string {
	return a.providerRef
}

// SetProviderRef attaches the provider-side identifier
func (a *Attempt) SetProviderRef(ref string) {
	a.providerRef = ref
}

// Display returns provider-specific data the UI must render to collect the
// payment (a QR payload for the UPI path, empty for hosted checkouts).
func (a *Attempt) Display() string {
	return a.display
}

// SetDisplay attaches renderable payload data to the attempt
func (a *Attempt) SetDisplay(display string) {
	a.display = display
}

// Resolve delivers the terminal outcome. Later calls are ignored, so a
// provider callback racing a user dismissal cannot double-settle.
func (a *Attempt) Resolve(o Outcome) {
	a.once.Do(func() {
		a.outcome <- o
		close(a.outcome)
	})
}

// Outcome returns the channel carrying the single terminal outcome
func (a *Attempt) Outcome() <-chan Outcome {
	return a.outcome
}

// Gateway is the port every payment provider adapter implements
type Gateway interface {
	// Provider identifies the adapter
	Provider() Provider
	// InitiatePayment starts one payment attempt. It returns
	// ErrGatewayUnavailable (without retrying) if the provider cannot be
	// reached; retry is left to the caller re-triggering checkout.
	InitiatePayment(ctx context.Context, req *Request) (*Attempt, error)
}
