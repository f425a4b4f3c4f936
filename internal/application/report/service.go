package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/domain/shared"
)

// Stats is the admin dashboard summary
type Stats struct {
	Products     int64           `json:"products"`
	Categories   int64           `json:"categories"`
	Suppliers    int64           `json:"suppliers"`
	Users        int64           `json:"users"`
	Orders       int64           `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	TotalStock   int             `json:"total_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	LowStock     int             `json:"low_stock"`
	LowStockList []LowStockItem  `json:"low_stock_list"`
}

// LowStockItem flags a product at or below the reorder threshold
type LowStockItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// Service aggregates store-wide numbers for the admin dashboard
type Service struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository
	users      identity.UserRepository
	orders     order.Repository
}

// NewService creates a report service
func NewService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	users identity.UserRepository,
	orders order.Repository,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		users:      users,
		orders:     orders,
	}
}

// Stats computes the dashboard summary. Revenue sums completed orders.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	f := shared.DefaultFilter()

	stats := &Stats{Revenue: decimal.Zero, StockValue: decimal.Zero}

	var err error
	if stats.Products, err = s.products.Count(ctx, f); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.categories.Count(ctx, f); err != nil {
		return nil, err
	}
	if stats.Suppliers, err = s.suppliers.Count(ctx, f); err != nil {
		return nil, err
	}
	if stats.Users, err = s.users.Count(ctx, f); err != nil {
		return nil, err
	}
	if stats.Orders, err = s.orders.Count(ctx, f); err != nil {
		return nil, err
	}

	completed := shared.DefaultFilter()
	completed.PageSize = 1000
	completed.Filters["status"] = string(order.StatusCompleted)
	orders, err := s.orders.FindAll(ctx, completed)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		stats.Revenue = stats.Revenue.Add(orders[i].Total)
	}

	all := shared.DefaultFilter()
	all.PageSize = 1000
	products, err := s.products.FindAll(ctx, all)
	if err != nil {
		return nil, err
	}
	for i := range products {
		stats.TotalStock += products[i].Stock
		stats.StockValue = stats.StockValue.Add(
			products[i].Price.Mul(decimal.NewFromInt(int64(products[i].Stock))))
	}

	lowStock, err := s.products.FindLowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	stats.LowStock = len(lowStock)
	for i := range lowStock {
		stats.LowStockList = append(stats.LowStockList, LowStockItem{
			ProductID: lowStock[i].ID.String(),
			Name:      lowStock[i].Name,
			Stock:     lowStock[i].Stock,
		})
	}

	return stats, nil
}
