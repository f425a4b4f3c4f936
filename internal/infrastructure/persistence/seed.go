package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/shared"
)

// Seeder populates an empty database with the admin account and starter
// catalog. Seeding is idempotent: rows that already exist are left alone.
type Seeder struct {
	users      identity.UserRepository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository
	products   catalog.ProductRepository
	logger     *zap.Logger
}

// NewSeeder creates a seeder
func NewSeeder(
	users identity.UserRepository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		users:      users,
		categories: categories,
		suppliers:  suppliers,
		products:   products,
		logger:     logger,
	}
}

// Seed inserts the admin account, starter categories, suppliers and products
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	categoryIDs, err := s.seedCategories(ctx)
	if err != nil {
		return err
	}
	if err := s.seedSuppliers(ctx); err != nil {
		return err
	}
	return s.seedProducts(ctx, categoryIDs)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if _, err := s.users.FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	admin, err := identity.NewAdmin("admin", "admin@smartstore.local", "9999999999", "admin123")
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("seeded admin account", zap.String("username", admin.Username))
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context) (map[string]*catalog.Category, error) {
	seeds := []struct {
		name, description string
	}{
		{"Electronics", "Gadgets, devices and accessories"},
		{"Groceries", "Everyday food and household items"},
		{"Clothing", "Apparel for all seasons"},
		{"Books", "Fiction, non-fiction and reference"},
	}

	out := make(map[string]*catalog.Category, len(seeds))
	for _, seed := range seeds {
		existing, err := s.categories.FindByName(ctx, seed.name)
		if err == nil {
			out[seed.name] = existing
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		category, err := catalog.NewCategory(seed.name, seed.description)
		if err != nil {
			return nil, err
		}
		if err := s.categories.Save(ctx, category); err != nil {
			return nil, err
		}
		out[seed.name] = category
	}
	return out, nil
}

func (s *Seeder) seedSuppliers(ctx context.Context) error {
	count, err := s.suppliers.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		name, email, phone, address string
	}{
		{"TechCorp", "sales@techcorp.example.com", "9800000001", "Industrial Area, Bengaluru"},
		{"FreshMart", "orders@freshmart.example.com", "9800000002", "Market Road, Pune"},
		{"Fashion Hub", "contact@fashionhub.example.com", "9800000003", "Textile Lane, Surat"},
	}
	for _, seed := range seeds {
		supplier, err := catalog.NewSupplier(seed.name, seed.email, seed.phone, seed.address)
		if err != nil {
			return err
		}
		if err := s.suppliers.Save(ctx, supplier); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, categories map[string]*catalog.Category) error {
	count, err := s.products.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		name        string
		category    string
		price       int64
		stock       int
		description string
	}{
		{"Wireless Keyboard", "Electronics", 1499, 25, "Compact 2.4GHz wireless keyboard"},
		{"Basmati Rice 5kg", "Groceries", 599, 40, "Premium long-grain basmati rice"},
		{"Cotton T-Shirt", "Clothing", 399, 60, "Plain cotton round-neck t-shirt"},
		{"The Pragmatic Shopper", "Books", 899, 15, "A field guide to smart buying"},
	}
	for _, seed := range seeds {
		product, err := catalog.NewProduct(seed.name, decimal.NewFromInt(seed.price), seed.stock)
		if err != nil {
			return err
		}
		if err := product.Update(seed.name, seed.description, ""); err != nil {
			return err
		}
		if category, ok := categories[seed.category]; ok {
			id := category.ID
			product.SetCategory(&id)
		}
		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
	}
	s.logger.Info("seeded starter catalog", zap.Int("products", len(seeds)))
	return nil
}
