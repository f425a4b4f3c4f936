package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/smartstore/backend/internal/application/checkout"
	orderapp "github.com/smartstore/backend/internal/application/order"
	"github.com/smartstore/backend/internal/domain/payment"
	paymentinfra "github.com/smartstore/backend/internal/infrastructure/payment"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles cart settlement and gateway callback endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
	razorpay        *paymentinfra.RazorpayAdapter
	upi             *paymentinfra.UPIAdapter
	defaultProvider payment.Provider
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(
	checkoutService *checkoutapp.Service,
	razorpay *paymentinfra.RazorpayAdapter,
	upi *paymentinfra.UPIAdapter,
	defaultProvider payment.Provider,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		razorpay:        razorpay,
		upi:             upi,
		defaultProvider: defaultProvider,
	}
}

// CheckoutRequest selects the payment provider for a settlement run
type CheckoutRequest struct {
	Provider string `json:"provider" binding:"omitempty,oneof=RAZORPAY UPI_QR"`
}

// CheckoutInitiatedResponse hands the client what it needs to complete the
// payment: the id to fetch the result with, the provider order id that
// keys the callback and dismissal endpoints, and the QR payload for the
// UPI path.
type CheckoutInitiatedResponse struct {
	CheckoutID      uuid.UUID         `json:"checkout_id"`
	OrderRef        string            `json:"order_ref"`
	Provider        payment.Provider  `json:"provider"`
	ProviderOrderID string            `json:"provider_order_id,omitempty"`
	Display         string            `json:"display,omitempty"`
	State           checkoutapp.State `json:"state"`
}

// CheckoutResponse is the settled order plus payment references
type CheckoutResponse struct {
	Order      orderapp.OrderResponse `json:"order"`
	PaymentRef string                 `json:"payment_ref"`
	State      checkoutapp.State      `json:"state"`
}

// DismissalRequest reports that the user closed the payment widget
type DismissalRequest struct {
	ProviderOrderID string `json:"provider_order_id" binding:"required"`
}

// UPIActionRequest identifies a pending UPI attempt by its order reference
type UPIActionRequest struct {
	OrderRef string `json:"order_ref" binding:"required"`
}

// Checkout begins a settlement run and returns immediately with the
// payment handoff. The client completes the payment against the provider
// endpoints, then fetches the settled order from Result.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	provider := payment.Provider(req.Provider)
	if provider == "" {
		provider = h.defaultProvider
	}

	handoff, err := h.checkoutService.Begin(c.Request.Context(), checkoutapp.Request{
		UserID:   middleware.UserID(c),
		Provider: provider,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CheckoutInitiatedResponse{
		CheckoutID:      handoff.CheckoutID,
		OrderRef:        handoff.OrderRef,
		Provider:        handoff.Provider,
		ProviderOrderID: handoff.ProviderOrderID,
		Display:         handoff.Display,
		State:           handoff.State,
	})
}

// Result blocks until the checkout run settles, then returns the order.
// The client typically opens this request alongside the payment widget.
func (h *CheckoutHandler) Result(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.checkoutService.Await(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CheckoutResponse{
		Order:      orderapp.ToOrderResponse(result.Order),
		PaymentRef: result.PaymentRef,
		State:      result.State,
	})
}

// RazorpayCallback resolves a pending attempt from the provider's
// checkout form. Field names follow the Razorpay handler contract.
func (h *CheckoutHandler) RazorpayCallback(c *gin.Context) {
	var cb paymentinfra.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.razorpay.HandleCallback(cb); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"acknowledged": true})
}

// RazorpayDismissal resolves a pending attempt as cancelled by the user
func (h *CheckoutHandler) RazorpayDismissal(c *gin.Context) {
	var req DismissalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.razorpay.HandleDismissal(req.ProviderOrderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"acknowledged": true})
}

// UPIConfirmation settles a pending UPI attempt on the user's attestation
// that the transfer went through
func (h *CheckoutHandler) UPIConfirmation(c *gin.Context) {
	var req UPIActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upi.HandleConfirmation(req.OrderRef); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"acknowledged": true})
}

// UPIDismissal resolves a pending UPI attempt as cancelled by the user
func (h *CheckoutHandler) UPIDismissal(c *gin.Context) {
	var req UPIActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upi.HandleDismissal(req.OrderRef); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"acknowledged": true})
}
