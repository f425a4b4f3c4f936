package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/history"
	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/domain/payment"
	"github.com/smartstore/backend/internal/domain/shared"
)

// ErrPostPaymentProcessing is surfaced when payment succeeded but a later
// settlement step failed. The order record, if persisted, stands; support
// reconciles stock and cart state from the logs.
var ErrPostPaymentProcessing = shared.NewDomainError(
	"POST_PAYMENT_FAILURE",
	"Payment received but order processing failed. Please contact support with your payment reference.",
)

// runRetention is how long a settled run stays claimable after completion
const runRetention = time.Hour

// GatewayResolver selects the payment adapter for a provider code
type GatewayResolver interface {
	Resolve(provider payment.Provider) (payment.Gateway, error)
}

// Notifier delivers a confirmation message out of band. Failures must be
// swallowed by the implementation or the caller; settlement never depends
// on delivery.
type Notifier interface {
	SendSMS(ctx context.Context, mobile, message string) error
}

// run is one in-flight settlement parked between Begin and Await
type run struct {
	userID uuid.UUID
	done   chan struct{}
	result *Result
	err    error
}

// Service runs the settlement sequence: validate stock, collect payment,
// persist the order, adjust stock, clear the cart, record history, notify.
// Begin starts a run and hands the client what it needs to complete the
// payment; Await blocks until that run's outcome lands.
type Service struct {
	users    identity.UserRepository
	products catalog.ProductRepository
	carts    cart.Repository
	orders   order.Repository
	history  history.Repository
	gateways GatewayResolver
	notifier Notifier
	currency string
	logger   *zap.Logger

	mu   sync.Mutex
	runs map[uuid.UUID]*run
}

// NewService creates a checkout service
func NewService(
	users identity.UserRepository,
	products catalog.ProductRepository,
	carts cart.Repository,
	orders order.Repository,
	hist history.Repository,
	gateways GatewayResolver,
	notifier Notifier,
	currency string,
	logger *zap.Logger,
) *Service {
	if currency == "" {
		currency = "INR"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		products: products,
		carts:    carts,
		orders:   orders,
		history:  hist,
		gateways: gateways,
		notifier: notifier,
		currency: currency,
		logger:   logger,
		runs:     make(map[uuid.UUID]*run),
	}
}

// Begin validates the caller's cart, initiates the payment, and parks the
// rest of the settlement server-side. The returned handoff carries the
// provider order id and any display payload; the client needs both before
// it can produce the callback, confirmation, or dismissal that resolves
// the attempt, so they are surfaced before anything blocks. Nothing is
// mutated until the payment outcome arrives.
func (s *Service) Begin(ctx context.Context, req Request) (*Handoff, error) {
	log := s.logger.With(zap.String("user_id", req.UserID.String()))

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	entries, err := s.carts.GetCart(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, shared.ErrEmptyCart
	}

	products, err := s.loadProducts(ctx, entries)
	if err != nil {
		return nil, err
	}
	lines := resolveLines(entries, products)
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}

	if violations := validateStock(lines); len(violations) > 0 {
		log.Info("checkout rejected on stock validation",
			zap.String("state", string(StateValidatingStock)),
			zap.Int("violations", len(violations)))
		return nil, &StockError{Violations: violations}
	}

	total := settlementTotal(lines)
	orderRef := newOrderRef()

	provider := req.Provider
	if provider == "" {
		provider = payment.ProviderRazorpay
	}
	gateway, err := s.gateways.Resolve(provider)
	if err != nil {
		return nil, err
	}

	// The attempt and its settlement outlive the initiating request: the
	// client disconnects after the handoff and resolves the attempt from
	// another request entirely.
	runCtx := context.WithoutCancel(ctx)

	attempt, err := gateway.InitiatePayment(runCtx, &payment.Request{
		Amount:   total,
		Currency: s.currency,
		Customer: payment.Customer{
			Name:    user.Username,
			Email:   user.Email,
			Contact: user.Mobile,
		},
		OrderRef: orderRef,
		Note:     fmt.Sprintf("SmartStore order, %d items", len(lines)),
	})
	if err != nil {
		log.Warn("payment initiation failed",
			zap.String("state", string(StateAwaitingPayment)),
			zap.String("provider", string(provider)),
			zap.Error(err))
		return nil, err
	}

	checkoutID := uuid.New()
	r := &run{userID: req.UserID, done: make(chan struct{})}
	s.mu.Lock()
	s.runs[checkoutID] = r
	s.mu.Unlock()

	go func() {
		r.result, r.err = s.settle(runCtx, user, lines, attempt, log)
		close(r.done)
		time.AfterFunc(runRetention, func() {
			s.mu.Lock()
			delete(s.runs, checkoutID)
			s.mu.Unlock()
		})
	}()

	log.Info("checkout initiated",
		zap.String("checkout_id", checkoutID.String()),
		zap.String("order_ref", orderRef),
		zap.String("provider", string(provider)))

	return &Handoff{
		CheckoutID:      checkoutID,
		OrderRef:        orderRef,
		Provider:        provider,
		ProviderOrderID: attempt.ProviderRef(),
		Display:         attempt.Display(),
		State:           StateAwaitingPayment,
	}, nil
}

// Await blocks until the run started by Begin settles, then returns its
// result. A settled run is claimed exactly once; asking again, or asking
// for another user's run, reports not found. Cancelling ctx abandons the
// wait, not the run.
func (s *Service) Await(ctx context.Context, userID, checkoutID uuid.UUID) (*Result, error) {
	s.mu.Lock()
	r, ok := s.runs[checkoutID]
	s.mu.Unlock()
	if !ok || r.userID != userID {
		return nil, shared.ErrNotFound
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
	}

	s.mu.Lock()
	delete(s.runs, checkoutID)
	s.mu.Unlock()
	return r.result, r.err
}

// Checkout settles the caller's cart in one call: Begin plus Await. The
// call suspends while the payment adapter waits for its outcome.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	handoff, err := s.Begin(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Await(ctx, req.UserID, handoff.CheckoutID)
}

// settle waits for the payment outcome and runs the post-payment steps:
// persist the order, adjust stock, clear the cart, record history, notify.
// The cart is cleared only after the order row exists.
func (s *Service) settle(
	ctx context.Context,
	user *identity.User,
	lines []line,
	attempt *payment.Attempt,
	log *zap.Logger,
) (*Result, error) {
	orderRef := attempt.OrderRef()

	var outcome payment.Outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case outcome = <-attempt.Outcome():
	}

	if !outcome.Success {
		log.Info("payment not completed",
			zap.String("order_ref", orderRef),
			zap.String("reason", outcome.Reason))
		return nil, &PaymentError{Reason: outcome.Reason, Err: outcome.Err}
	}
	if outcome.Invalid() {
		// Success shape with missing provider ids is a gateway fault,
		// not a decline. Treated as a failed settlement either way.
		log.Error("payment outcome missing provider ids",
			zap.String("order_ref", orderRef))
		return nil, &PaymentError{
			Reason: "payment verification failed",
			Err:    payment.ErrInvalidResponse,
		}
	}

	state := StatePersistingOrder
	orderLines := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		orderLines = append(orderLines, order.Line{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
		})
	}
	settled, err := order.NewSettledOrder(user.ID, orderLines, outcome.PaymentID)
	if err != nil {
		log.Error("order construction failed after payment",
			zap.String("state", string(state)),
			zap.String("payment_id", outcome.PaymentID),
			zap.Error(err))
		return nil, ErrPostPaymentProcessing
	}
	if err := s.orders.Save(ctx, settled); err != nil {
		log.Error("order persistence failed after payment",
			zap.String("state", string(state)),
			zap.String("payment_id", outcome.PaymentID),
			zap.Error(err))
		return nil, ErrPostPaymentProcessing
	}

	state = StateAdjustingStock
	for _, l := range lines {
		if _, err := s.products.AdjustStock(ctx, l.Product.ID, -l.Quantity); err != nil {
			// The order stands; stock is reconciled from this log line.
			log.Error("stock adjustment failed after order persisted",
				zap.String("state", string(state)),
				zap.String("order_id", settled.ID.String()),
				zap.String("product_id", l.Product.ID.String()),
				zap.Int("quantity", l.Quantity),
				zap.Error(err))
			return nil, ErrPostPaymentProcessing
		}
	}

	if err := s.carts.ClearCart(ctx, user.ID); err != nil {
		log.Error("cart clear failed after order persisted",
			zap.String("order_id", settled.ID.String()),
			zap.Error(err))
		return nil, ErrPostPaymentProcessing
	}

	state = StateCompleted
	s.recordPurchase(ctx, user, settled)
	s.notify(ctx, user, settled)

	log.Info("checkout settled",
		zap.String("order_id", settled.ID.String()),
		zap.String("payment_id", outcome.PaymentID),
		zap.String("total", settled.Total.String()))

	return &Result{
		Order:      settled,
		PaymentRef: outcome.PaymentID,
		Display:    attempt.Display(),
		State:      state,
	}, nil
}

// loadProducts fetches the product snapshot for every distinct cart entry
func (s *Service) loadProducts(ctx context.Context, entries []cart.Entry) (map[uuid.UUID]*catalog.Product, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(entries))
	for _, e := range entries {
		if _, seen := products[e.ProductID]; seen {
			continue
		}
		p, err := s.products.FindByID(ctx, e.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("cart references removed product",
					zap.String("product_id", e.ProductID.String()))
				continue
			}
			return nil, err
		}
		products[e.ProductID] = p
	}
	return products, nil
}

// recordPurchase appends the history entry. Append failures are logged and
// never surfaced; the settlement already succeeded. The item count is the
// number of distinct order lines, not the summed quantity.
func (s *Service) recordPurchase(ctx context.Context, user *identity.User, settled *order.Order) {
	details := fmt.Sprintf("Purchased %d items for %s - Payment ID: %s",
		len(settled.Lines), formatAmount(settled.Total), settled.PaymentRef)
	entry, err := history.NewEntry(user.ID, user.Username, "Order placed", details, history.TypePurchase)
	if err == nil {
		err = s.history.Append(ctx, entry)
	}
	if err != nil {
		s.logger.Error("history append failed",
			zap.String("order_id", settled.ID.String()),
			zap.Error(err))
	}
}

// notify sends the confirmation SMS once. Delivery failure is logged only.
func (s *Service) notify(ctx context.Context, user *identity.User, settled *order.Order) {
	if user.Mobile == "" {
		return
	}
	names := make([]string, 0, len(settled.Lines))
	for _, l := range settled.Lines {
		names = append(names, fmt.Sprintf("%s x%d", l.ProductName, l.Quantity))
	}
	message := fmt.Sprintf(
		"Hi %s, your SmartStore order is confirmed! Items: %s. Total: %s. Payment ID: %s. Thank you for shopping with us!",
		user.Username, strings.Join(names, ", "), formatAmount(settled.Total), settled.PaymentRef)
	if err := s.notifier.SendSMS(ctx, user.Mobile, message); err != nil {
		s.logger.Warn("confirmation sms failed",
			zap.String("order_id", settled.ID.String()),
			zap.Error(err))
	}
}

func settlementTotal(lines []line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Subtotal(l.Quantity))
	}
	return total
}

// newOrderRef builds the provider-facing receipt reference
func newOrderRef() string {
	return fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
