package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/smartstore/backend/internal/application/cart"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the authenticated user's cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the caller's cart joined with current product data
func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.cartService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem adds a product to the caller's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateItem changes a cart line's quantity. Zero removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), middleware.UserID(c), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem deletes a line from the caller's cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Clear empties the caller's cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
