package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository
	recorder   *appHistory.Recorder
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	recorder *appHistory.Recorder,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		recorder:   recorder,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, actor appHistory.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.products.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.Image != "" {
		if err := product.Update(req.Name, req.Description, req.Image); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetSupplier(req.SupplierID)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Product added",
		fmt.Sprintf("Added product '%s' (stock %d)", product.Name, product.Stock))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, actor appHistory.Actor, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	image := product.Image
	if req.Image != nil {
		image = *req.Image
	}
	if err := product.Update(name, description, image); err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetSupplier(req.SupplierID)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Product updated",
		fmt.Sprintf("Updated product '%s'", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Restock adds stock to a product
func (s *ProductService) Restock(ctx context.Context, actor appHistory.Actor, id uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Product restocked",
		fmt.Sprintf("Restocked '%s' by %d (now %d)", product.Name, req.Quantity, product.Stock))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, actor appHistory.Actor, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Product deleted",
		fmt.Sprintf("Deleted product '%s'", product.Name))

	return nil
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search

	var (
		products []catalog.Product
		err      error
	)
	if filter.CategoryID != nil {
		products, err = s.products.FindByCategory(ctx, *filter.CategoryID, f)
	} else {
		products, err = s.products.FindAll(ctx, f)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.products.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out, total, nil
}

// ListLowStock returns products at or below the reorder threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.products.FindLowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) checkSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_SUPPLIER", "Supplier not found")
		}
		return err
	}
	return nil
}
