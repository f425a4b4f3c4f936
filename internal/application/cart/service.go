package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/shared"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateItemRequest represents a request to change a line's quantity.
// Zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ItemResponse represents one cart line joined with its product
type ItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Stock     int             `json:"stock"`
}

// CartResponse represents a user's cart in API responses
type CartResponse struct {
	Items []ItemResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Service handles cart operations. Stock is not enforced here; the cart
// may hold more than is in stock and checkout validation catches it.
type Service struct {
	carts    cart.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewService creates a cart service
func NewService(carts cart.Repository, products catalog.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, products: products, logger: logger}
}

// Get returns the user's cart joined with current product data. Lines
// whose product was removed from the catalog are dropped from the view.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	entries, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: make([]ItemResponse, 0, len(entries)), Total: decimal.Zero}
	for _, e := range entries {
		product, err := s.products.FindByID(ctx, e.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("cart references removed product",
					zap.String("user_id", userID.String()),
					zap.String("product_id", e.ProductID.String()))
				continue
			}
			return nil, err
		}
		subtotal := product.Subtotal(e.Quantity)
		resp.Items = append(resp.Items, ItemResponse{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  e.Quantity,
			Subtotal:  subtotal,
			Stock:     product.Stock,
		})
		resp.Total = resp.Total.Add(subtotal)
		resp.Count += e.Quantity
	}
	return resp, nil
}

// AddItem adds a product to the cart, merging with an existing line
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(req.ProductID, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.ReplaceCart(ctx, userID, c.Entries); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem sets a line's quantity; zero removes the line
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.ReplaceCart(ctx, userID, c.Entries); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.carts.ReplaceCart(ctx, userID, c.Entries); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.ClearCart(ctx, userID)
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	entries, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart.Load(userID, entries), nil
}
