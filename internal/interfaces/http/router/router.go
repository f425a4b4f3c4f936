package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/infrastructure/auth"
	"github.com/smartstore/backend/internal/infrastructure/logger"
	"github.com/smartstore/backend/internal/interfaces/http/handler"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// Handlers collects every handler the router wires up
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Supplier *handler.SupplierHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	History  *handler.HistoryHandler
	Feedback *handler.FeedbackHandler
	Chat     *handler.ChatHandler
	Stats    *handler.StatsHandler
}

// Config carries router dependencies
type Config struct {
	Logger       *zap.Logger
	JWTService   *auth.JWTService
	AllowOrigins []string
	Handlers     Handlers
}

// New builds the gin engine with all middleware and routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORS(cfg.AllowOrigins),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	h := cfg.Handlers

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/categories", h.Category.List)
	api.GET("/categories/:id", h.Category.Get)
	api.GET("/chat/welcome", h.Chat.Welcome)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTService))
	{
		authed.GET("/auth/profile", h.Auth.Profile)

		authed.GET("/cart", h.Cart.Get)
		authed.POST("/cart/items", h.Cart.AddItem)
		authed.PUT("/cart/items/:id", h.Cart.UpdateItem)
		authed.DELETE("/cart/items/:id", h.Cart.RemoveItem)
		authed.DELETE("/cart", h.Cart.Clear)

		authed.POST("/checkout", h.Checkout.Checkout)
		authed.GET("/checkout/:id/result", h.Checkout.Result)
		authed.POST("/payments/razorpay/callback", h.Checkout.RazorpayCallback)
		authed.POST("/payments/razorpay/dismiss", h.Checkout.RazorpayDismissal)
		authed.POST("/payments/upi/confirm", h.Checkout.UPIConfirmation)
		authed.POST("/payments/upi/dismiss", h.Checkout.UPIDismissal)

		authed.GET("/orders", h.Order.ListMine)
		authed.GET("/orders/:id", h.Order.Get)

		authed.GET("/history", h.History.ListMine)

		authed.POST("/feedback", h.Feedback.Submit)
		authed.GET("/feedback", h.Feedback.ListMine)

		authed.POST("/chat/message", h.Chat.Message)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(cfg.JWTService), middleware.AdminOnly())
	{
		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.POST("/products/:id/restock", h.Product.Restock)
		admin.DELETE("/products/:id", h.Product.Delete)
		admin.GET("/products/low-stock", h.Product.ListLowStock)

		admin.POST("/categories", h.Category.Create)
		admin.PUT("/categories/:id", h.Category.Update)
		admin.DELETE("/categories/:id", h.Category.Delete)

		admin.GET("/suppliers", h.Supplier.List)
		admin.GET("/suppliers/:id", h.Supplier.Get)
		admin.POST("/suppliers", h.Supplier.Create)
		admin.PUT("/suppliers/:id", h.Supplier.Update)
		admin.DELETE("/suppliers/:id", h.Supplier.Delete)

		admin.GET("/orders", h.Order.List)
		admin.GET("/history", h.History.List)
		admin.GET("/feedback/pending", h.Feedback.ListPending)
		admin.POST("/feedback/:id/reply", h.Feedback.Reply)
		admin.GET("/stats", h.Stats.Stats)
	}

	return engine
}
