package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/history"
	"github.com/smartstore/backend/internal/domain/shared"
)

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

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

// MockSupplierRepository is a mock implementation of catalog.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
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

type productFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	suppliers  *MockSupplierRepository
	history    *MockHistoryRepository
	service    *ProductService
	admin      appHistory.Actor
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		suppliers:  new(MockSupplierRepository),
		history:    new(MockHistoryRepository),
		admin:      appHistory.Actor{ID: uuid.New(), Name: "admin"},
	}
	recorder := appHistory.NewRecorder(f.history, nil)
	f.service = NewProductService(f.products, f.categories, f.suppliers, recorder)
	return f
}

func TestProductCreate_RecordsAdminAction(t *testing.T) {
	f := newProductFixture()

	f.products.On("FindByName", mock.Anything, "Wireless Keyboard").Return(nil, shared.ErrNotFound)
	f.products.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.Name == "Wireless Keyboard" && p.Stock == 25
	})).Return(nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool {
		return e.Action == "Product added" && e.Type == history.TypeAdminAction && e.UserID == f.admin.ID
	})).Return(nil)

	resp, err := f.service.Create(context.Background(), f.admin, CreateProductRequest{
		Name:  "Wireless Keyboard",
		Price: decimal.NewFromInt(1499),
		Stock: 25,
	})

	require.NoError(t, err)
	assert.Equal(t, "Wireless Keyboard", resp.Name)
	f.products.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestProductCreate_DuplicateName(t *testing.T) {
	f := newProductFixture()

	existing, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 25)
	require.NoError(t, err)
	f.products.On("FindByName", mock.Anything, "Wireless Keyboard").Return(existing, nil)

	_, err = f.service.Create(context.Background(), f.admin, CreateProductRequest{
		Name:  "Wireless Keyboard",
		Price: decimal.NewFromInt(999),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	f := newProductFixture()

	categoryID := uuid.New()
	f.products.On("FindByName", mock.Anything, "Mouse").Return(nil, shared.ErrNotFound)
	f.categories.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(context.Background(), f.admin, CreateProductRequest{
		Name:       "Mouse",
		Price:      decimal.NewFromInt(499),
		CategoryID: &categoryID,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	f := newProductFixture()

	product, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 25)
	require.NoError(t, err)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)

	newPrice := decimal.NewFromInt(1299)
	resp, err := f.service.Update(context.Background(), f.admin, product.ID, UpdateProductRequest{
		Price: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, "Wireless Keyboard", resp.Name)
	assert.True(t, resp.Price.Equal(newPrice))
}

func TestProductRestock(t *testing.T) {
	f := newProductFixture()

	product, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 5)
	require.NoError(t, err)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool {
		return e.Action == "Product restocked"
	})).Return(nil)

	resp, err := f.service.Restock(context.Background(), f.admin, product.ID, RestockRequest{Quantity: 20})

	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)
	assert.False(t, resp.LowStock)
}

func TestProductDelete_RecordsAdminAction(t *testing.T) {
	f := newProductFixture()

	product, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 25)
	require.NoError(t, err)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Delete", mock.Anything, product.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool {
		return e.Action == "Product deleted"
	})).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), f.admin, product.ID))
	f.history.AssertExpectations(t)
}

func TestProductDelete_HistoryFailureDoesNotFailDelete(t *testing.T) {
	f := newProductFixture()

	product, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 25)
	require.NoError(t, err)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Delete", mock.Anything, product.ID).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NoError(t, f.service.Delete(context.Background(), f.admin, product.ID))
}

func TestProductList_ByCategory(t *testing.T) {
	f := newProductFixture()

	categoryID := uuid.New()
	product, err := catalog.NewProduct("Wireless Keyboard", decimal.NewFromInt(1499), 25)
	require.NoError(t, err)

	f.products.On("FindByCategory", mock.Anything, categoryID, mock.Anything).
		Return([]catalog.Product{*product}, nil)
	f.products.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, total, err := f.service.List(context.Background(), ProductListFilter{CategoryID: &categoryID})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, out, 1)
	assert.Equal(t, "Wireless Keyboard", out[0].Name)
}

func TestListLowStock_FlagsResponses(t *testing.T) {
	f := newProductFixture()

	product, err := catalog.NewProduct("Mouse", decimal.NewFromInt(499), 3)
	require.NoError(t, err)
	f.products.On("FindLowStock", mock.Anything, catalog.LowStockThreshold).
		Return([]catalog.Product{*product}, nil)

	out, err := f.service.ListLowStock(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].LowStock)
}
