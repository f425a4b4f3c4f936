package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appCheckout "github.com/smartstore/backend/internal/application/checkout"
	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/payment"
	"github.com/smartstore/backend/internal/domain/shared"
	"github.com/smartstore/backend/internal/interfaces/http/dto"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// HandleDomainError maps an application error to an HTTP response
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var stockErr *appCheckout.StockError
	if errors.As(err, &stockErr) {
		resp := dto.NewErrorResponse("INSUFFICIENT_STOCK", stockErr.Error())
		resp.Data = gin.H{"violations": stockErr.Violations}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	var payErr *appCheckout.PaymentError
	if errors.As(err, &payErr) {
		c.JSON(http.StatusPaymentRequired, dto.NewErrorResponse("PAYMENT_FAILED", payErr.Error()))
		return
	}

	if errors.Is(err, payment.ErrGatewayUnavailable) {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse("GATEWAY_UNAVAILABLE", "Payment gateway is unavailable"))
		return
	}

	if errors.Is(err, payment.ErrConfirmationEarly) {
		c.JSON(http.StatusConflict,
			dto.NewErrorResponse("CONFIRMATION_TOO_EARLY", "Please wait for the QR display time before confirming"))
		return
	}

	if errors.Is(err, payment.ErrUnknownAttempt) {
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.ErrCodeNotFound, "No pending payment attempt for that order"))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
}

// pathID parses the ":id" path parameter
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid id in path"))
		return uuid.Nil, false
	}
	return id, true
}

// actor builds the history attribution for the authenticated caller
func actor(c *gin.Context) appHistory.Actor {
	return appHistory.Actor{ID: middleware.UserID(c), Name: middleware.Username(c)}
}
