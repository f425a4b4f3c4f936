package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/history"
	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/domain/payment"
	"github.com/smartstore/backend/internal/domain/shared"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByMobile(ctx context.Context, mobile string) (*identity.User, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*catalog.Product, error) {
	args := m.Called(ctx, productID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Entry), args.Error(1)
}

func (m *MockCartRepository) ReplaceCart(ctx context.Context, userID uuid.UUID, entries []cart.Entry) error {
	args := m.Called(ctx, userID, entries)
	return args.Error(0)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCompletedByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]order.Order), args.Error(1)
}

// MockHistoryRepository is a mock implementation of history.Repository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindAll(ctx context.Context) ([]history.Entry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Entry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]history.Entry), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendSMS(ctx context.Context, mobile, message string) error {
	args := m.Called(ctx, mobile, message)
	return args.Error(0)
}

// fakeGateway resolves every attempt immediately with a scripted outcome
type fakeGateway struct {
	provider    payment.Provider
	initErr     error
	outcomes    []payment.Outcome
	display     string
	providerRef string
	hold        bool // leave the attempt unresolved

	calls    int
	requests []*payment.Request
	attempts []*payment.Attempt
}

func (g *fakeGateway) Provider() payment.Provider {
	return g.provider
}

func (g *fakeGateway) InitiatePayment(ctx context.Context, req *payment.Request) (*payment.Attempt, error) {
	g.calls++
	g.requests = append(g.requests, req)
	if g.initErr != nil {
		return nil, g.initErr
	}
	attempt := payment.NewAttempt(g.provider, req.OrderRef)
	if g.display != "" {
		attempt.SetDisplay(g.display)
	}
	if g.providerRef != "" {
		attempt.SetProviderRef(g.providerRef)
	}
	g.attempts = append(g.attempts, attempt)
	if !g.hold {
		idx := g.calls - 1
		if idx >= len(g.outcomes) {
			idx = len(g.outcomes) - 1
		}
		attempt.Resolve(g.outcomes[idx])
	}
	return attempt, nil
}

type fakeResolver struct {
	gateways map[payment.Provider]payment.Gateway
}

func (r *fakeResolver) Resolve(p payment.Provider) (payment.Gateway, error) {
	g, ok := r.gateways[p]
	if !ok {
		return nil, payment.ErrGatewayUnavailable
	}
	return g, nil
}

type serviceFixture struct {
	users    *MockUserRepository
	products *MockProductRepository
	carts    *MockCartRepository
	orders   *MockOrderRepository
	history  *MockHistoryRepository
	notifier *MockNotifier
	gateway  *fakeGateway
	service  *Service

	user     *identity.User
	keyboard *catalog.Product
	mouse    *catalog.Product
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	user, err := identity.NewUser("ramesh", "ramesh@example.com", "9876543210", "secret123")
	require.NoError(t, err)

	keyboard, err := catalog.NewProduct("Keyboard", decimal.NewFromInt(100), 10)
	require.NoError(t, err)
	mouse, err := catalog.NewProduct("Mouse", decimal.NewFromInt(50), 5)
	require.NoError(t, err)

	f := &serviceFixture{
		users:    new(MockUserRepository),
		products: new(MockProductRepository),
		carts:    new(MockCartRepository),
		orders:   new(MockOrderRepository),
		history:  new(MockHistoryRepository),
		notifier: new(MockNotifier),
		gateway: &fakeGateway{
			provider:    payment.ProviderRazorpay,
			providerRef: "order_rzp_1",
			outcomes:    []payment.Outcome{payment.SuccessOutcome("pay_123", "order_rzp_1")},
		},
		user:     user,
		keyboard: keyboard,
		mouse:    mouse,
	}
	resolver := &fakeResolver{gateways: map[payment.Provider]payment.Gateway{
		payment.ProviderRazorpay: f.gateway,
	}}
	f.service = NewService(
		f.users, f.products, f.carts, f.orders, f.history,
		resolver, f.notifier, "INR", nil,
	)
	return f
}

func (f *serviceFixture) expectUser() {
	f.users.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
}

func (f *serviceFixture) expectCart(entries []cart.Entry) {
	f.carts.On("GetCart", mock.Anything, f.user.ID).Return(entries, nil)
}

func (f *serviceFixture) expectProducts(products ...*catalog.Product) {
	for _, p := range products {
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	}
}

func (f *serviceFixture) twoLineCart() []cart.Entry {
	return []cart.Entry{
		{ProductID: f.keyboard.ID, Quantity: 2},
		{ProductID: f.mouse.ID, Quantity: 3},
	}
}

func TestCheckout_SettlesCart(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)

	// The settlement order matters: persist, then stock, then cart clear.
	var steps []string
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(mock.Arguments) { steps = append(steps, "save_order") }).
		Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -2).
		Run(func(mock.Arguments) { steps = append(steps, "adjust_keyboard") }).
		Return(f.keyboard, nil)
	f.products.On("AdjustStock", mock.Anything, f.mouse.ID, -3).
		Run(func(mock.Arguments) { steps = append(steps, "adjust_mouse") }).
		Return(f.mouse, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).
		Run(func(mock.Arguments) { steps = append(steps, "clear_cart") }).
		Return(nil)
	f.history.On("Append", mock.Anything, mock.AnythingOfType("*history.Entry")).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, "9876543210", mock.AnythingOfType("string")).Return(nil)

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StateCompleted, result.State)
	assert.Equal(t, "pay_123", result.PaymentRef)
	require.NotNil(t, result.Order)
	assert.True(t, result.Order.Total.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, order.StatusCompleted, result.Order.Status)
	assert.Equal(t, order.PaymentCompleted, result.Order.PaymentStatus)
	assert.Len(t, result.Order.Lines, 2)

	assert.Equal(t,
		[]string{"save_order", "adjust_keyboard", "adjust_mouse", "clear_cart"},
		steps)

	f.orders.AssertNumberOfCalls(t, "Save", 1)
	f.history.AssertNumberOfCalls(t, "Append", 1)
	f.notifier.AssertNumberOfCalls(t, "SendSMS", 1)

	// Unit prices are the catalog prices captured at settlement time
	require.Len(t, f.gateway.requests, 1)
	assert.True(t, f.gateway.requests[0].Amount.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, "INR", f.gateway.requests[0].Currency)
	assert.Equal(t, "ramesh", f.gateway.requests[0].Customer.Name)
}

func TestCheckout_RecordsPurchaseHistory(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	// One product line with quantity 3: the history entry counts lines
	f.expectCart([]cart.Entry{{ProductID: f.keyboard.ID, Quantity: 3}})
	f.expectProducts(f.keyboard)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -3).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var recorded *history.Entry
	f.history.On("Append", mock.Anything, mock.AnythingOfType("*history.Entry")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*history.Entry) }).
		Return(nil)

	_, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, history.TypePurchase, recorded.Type)
	assert.Equal(t, f.user.ID, recorded.UserID)
	assert.Equal(t, "ramesh", recorded.UserName)
	assert.Contains(t, recorded.Details, "Purchased 1 items")
	assert.Contains(t, recorded.Details, "Payment ID: pay_123")
	assert.Contains(t, recorded.Details, "₹300.00")
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart([]cart.Entry{})

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
	assert.Zero(t, f.gateway.calls)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart([]cart.Entry{
		{ProductID: f.keyboard.ID, Quantity: 1},
		{ProductID: f.mouse.ID, Quantity: 6}, // only 5 available
	})
	f.expectProducts(f.keyboard, f.mouse)

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Violations, 1)
	assert.Equal(t, f.mouse.ID, stockErr.Violations[0].ProductID)
	assert.Equal(t, "Mouse", stockErr.Violations[0].ProductName)
	assert.Equal(t, 6, stockErr.Violations[0].Requested)
	assert.Equal(t, 5, stockErr.Violations[0].Available)
	assert.Contains(t, err.Error(), "Mouse")

	// Payment was never invoked and nothing was mutated
	assert.Zero(t, f.gateway.calls)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestCheckout_ReportsAllViolations(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart([]cart.Entry{
		{ProductID: f.keyboard.ID, Quantity: 11},
		{ProductID: f.mouse.ID, Quantity: 6},
	})
	f.expectProducts(f.keyboard, f.mouse)

	_, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Len(t, stockErr.Violations, 2)
}

func TestCheckout_CancelledByUser(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.outcomes = []payment.Outcome{
		payment.FailureOutcome(payment.ErrCancelledByUser, "Payment cancelled by user"),
	}

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.ErrorIs(t, err, payment.ErrCancelledByUser)
	assert.Contains(t, err.Error(), "cancelled")

	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_RetryAfterCancellation(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.outcomes = []payment.Outcome{
		payment.FailureOutcome(payment.ErrCancelledByUser, "Payment cancelled by user"),
		payment.SuccessOutcome("pay_retry", "order_rzp_2"),
	}
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, mock.Anything, mock.Anything).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})
	require.Error(t, err)

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Equal(t, "pay_retry", result.PaymentRef)
	assert.Equal(t, 2, f.gateway.calls)
	f.orders.AssertNumberOfCalls(t, "Save", 1)
}

func TestCheckout_GatewayUnavailable(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.initErr = payment.ErrGatewayUnavailable

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	// Initiation is attempted once; there is no automatic retry
	assert.Equal(t, 1, f.gateway.calls)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestCheckout_UnknownProvider(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)

	_, err := f.service.Checkout(context.Background(), Request{
		UserID:   f.user.ID,
		Provider: payment.ProviderUPIQR,
	})

	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}

func TestCheckout_InvalidSuccessPayload(t *testing.T) {
	cases := []struct {
		name    string
		outcome payment.Outcome
	}{
		{"missing payment id", payment.Outcome{Success: true, ProviderOrderID: "order_rzp_1"}},
		{"missing provider order id", payment.Outcome{Success: true, PaymentID: "pay_123"}},
		{"both missing", payment.Outcome{Success: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.expectUser()
			f.expectCart(f.twoLineCart())
			f.expectProducts(f.keyboard, f.mouse)
			f.gateway.outcomes = []payment.Outcome{tc.outcome}

			result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, payment.ErrInvalidResponse)
			f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			f.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
			f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckout_OrderPersistFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPostPaymentProcessing)
	// The cart survives so support can reconstruct the purchase
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_StockAdjustFailureLeavesOrder(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -2).Return(f.keyboard, nil)
	f.products.On("AdjustStock", mock.Anything, f.mouse.ID, -3).
		Return(nil, errors.New("connection reset"))

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPostPaymentProcessing)
	// The order row stands and already-applied decrements are not undone
	f.orders.AssertNumberOfCalls(t, "Save", 1)
	f.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestCheckout_SkipsRemovedProducts(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	ghost := uuid.New()
	f.expectCart([]cart.Entry{
		{ProductID: ghost, Quantity: 1},
		{ProductID: f.keyboard.ID, Quantity: 1},
	})
	f.products.On("FindByID", mock.Anything, ghost).Return(nil, shared.ErrNotFound)
	f.expectProducts(f.keyboard)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -1).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	require.Len(t, result.Order.Lines, 1)
	assert.Equal(t, f.keyboard.ID, result.Order.Lines[0].ProductID)
}

func TestCheckout_OnlyRemovedProductsMeansEmptyCart(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	ghost := uuid.New()
	f.expectCart([]cart.Entry{{ProductID: ghost, Quantity: 2}})
	f.products.On("FindByID", mock.Anything, ghost).Return(nil, shared.ErrNotFound)

	_, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	assert.ErrorIs(t, err, shared.ErrEmptyCart)
	assert.Zero(t, f.gateway.calls)
}

func TestCheckout_ContextCancelledWhileAwaitingPayment(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.hold = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.service.Checkout(ctx, Request{UserID: f.user.ID})
		done <- err
	}()
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestBegin_SurfacesHandoffBeforeSettlement(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.hold = true
	f.gateway.display = "upi://pay?pa=smartstore%40upi"

	handoff, err := f.service.Begin(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	require.NotNil(t, handoff)
	// The client gets everything it needs to produce the callback or
	// dismissal while the attempt is still unresolved
	assert.NotEqual(t, uuid.Nil, handoff.CheckoutID)
	assert.Equal(t, "order_rzp_1", handoff.ProviderOrderID)
	assert.Equal(t, "upi://pay?pa=smartstore%40upi", handoff.Display)
	assert.NotEmpty(t, handoff.OrderRef)
	assert.Equal(t, StateAwaitingPayment, handoff.State)

	// Nothing settles until the outcome lands
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestBegin_ThenAwaitSettles(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.hold = true
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, mock.Anything, mock.Anything).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handoff, err := f.service.Begin(context.Background(), Request{UserID: f.user.ID})
	require.NoError(t, err)

	// The payment resolves from another request, then the await returns
	require.Len(t, f.gateway.attempts, 1)
	f.gateway.attempts[0].Resolve(payment.SuccessOutcome("pay_123", "order_rzp_1"))

	result, err := f.service.Await(context.Background(), f.user.ID, handoff.CheckoutID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StateCompleted, result.State)
	assert.Equal(t, "pay_123", result.PaymentRef)
	f.orders.AssertNumberOfCalls(t, "Save", 1)

	// A settled run is claimed exactly once
	_, err = f.service.Await(context.Background(), f.user.ID, handoff.CheckoutID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAwait_UnknownRun(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.service.Await(context.Background(), f.user.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAwait_OtherUsersRun(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart(f.twoLineCart())
	f.expectProducts(f.keyboard, f.mouse)
	f.gateway.hold = true

	handoff, err := f.service.Begin(context.Background(), Request{UserID: f.user.ID})
	require.NoError(t, err)

	_, err = f.service.Await(context.Background(), uuid.New(), handoff.CheckoutID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckout_HistoryFailureDoesNotFailSettlement(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart([]cart.Entry{{ProductID: f.keyboard.ID, Quantity: 1}})
	f.expectProducts(f.keyboard)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -1).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, result.State)
}

func TestCheckout_NotifierFailureDoesNotFailSettlement(t *testing.T) {
	f := newServiceFixture(t)
	f.expectUser()
	f.expectCart([]cart.Entry{{ProductID: f.keyboard.ID, Quantity: 1}})
	f.expectProducts(f.keyboard)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.products.On("AdjustStock", mock.Anything, f.keyboard.ID, -1).Return(f.keyboard, nil)
	f.carts.On("ClearCart", mock.Anything, f.user.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("provider timeout"))

	result, err := f.service.Checkout(context.Background(), Request{UserID: f.user.ID})

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, result.State)
	f.notifier.AssertNumberOfCalls(t, "SendSMS", 1)
}

func TestValidateStock(t *testing.T) {
	keyboard, err := catalog.NewProduct("Keyboard", decimal.NewFromInt(100), 3)
	require.NoError(t, err)

	assert.Empty(t, validateStock([]line{{Product: keyboard, Quantity: 3}}))

	violations := validateStock([]line{{Product: keyboard, Quantity: 4}})
	require.Len(t, violations, 1)
	assert.Equal(t, 4, violations[0].Requested)
	assert.Equal(t, 3, violations[0].Available)
}
