package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/smartstore/backend/internal/application/cart"
	catalogapp "github.com/smartstore/backend/internal/application/catalog"
	chatapp "github.com/smartstore/backend/internal/application/chat"
	checkoutapp "github.com/smartstore/backend/internal/application/checkout"
	feedbackapp "github.com/smartstore/backend/internal/application/feedback"
	historyapp "github.com/smartstore/backend/internal/application/history"
	identityapp "github.com/smartstore/backend/internal/application/identity"
	orderapp "github.com/smartstore/backend/internal/application/order"
	reportapp "github.com/smartstore/backend/internal/application/report"
	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/domain/payment"
	"github.com/smartstore/backend/internal/infrastructure/auth"
	"github.com/smartstore/backend/internal/infrastructure/cache"
	"github.com/smartstore/backend/internal/infrastructure/config"
	"github.com/smartstore/backend/internal/infrastructure/logger"
	"github.com/smartstore/backend/internal/infrastructure/notification"
	paymentinfra "github.com/smartstore/backend/internal/infrastructure/payment"
	"github.com/smartstore/backend/internal/infrastructure/persistence"
	"github.com/smartstore/backend/internal/interfaces/http/handler"
	"github.com/smartstore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SmartStore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	historyRepo := persistence.NewGormHistoryRepository(db.DB)
	feedbackRepo := persistence.NewGormFeedbackRepository(db.DB)

	var cartRepo cart.Repository = persistence.NewGormCartRepository(db.DB)
	if cfg.Redis.Enabled {
		redisCarts, err := cache.NewRedisCartRepository(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCarts.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		cartRepo = redisCarts
		log.Info("Carts stored in Redis")
	}

	// Seed data
	seeder := persistence.NewSeeder(userRepo, categoryRepo, supplierRepo, productRepo, log)
	if err := seeder.Seed(context.Background()); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}

	// Payment gateways
	razorpay := paymentinfra.NewRazorpayAdapter(paymentinfra.RazorpayConfig{
		KeyID:      cfg.Payment.KeyID,
		KeySecret:  cfg.Payment.KeySecret,
		BaseURL:    cfg.Payment.BaseURL,
		PendingTTL: cfg.Payment.PendingTTL,
	}, log)
	upi := paymentinfra.NewUPIAdapter(paymentinfra.UPIConfig{
		MerchantName: cfg.Payment.MerchantName,
		MerchantVPA:  cfg.Payment.MerchantVPA,
		SettleAfter:  cfg.Payment.UPISettleAfter,
		PendingTTL:   cfg.Payment.PendingTTL,
	}, log)
	gateways := paymentinfra.NewRegistry()
	gateways.Register(razorpay)
	gateways.Register(upi)

	smsService := notification.NewSMSService(cfg.Notification.SenderID, cfg.Notification.Enabled, log)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	// Application services
	recorder := historyapp.NewRecorder(historyRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, recorder)
	categoryService := catalogapp.NewCategoryService(categoryRepo, recorder)
	supplierService := catalogapp.NewSupplierService(supplierRepo, recorder)
	cartService := cartapp.NewService(cartRepo, productRepo, log)
	checkoutService := checkoutapp.NewService(
		userRepo, productRepo, cartRepo, orderRepo, historyRepo,
		gateways, smsService, cfg.Payment.Currency, log,
	)
	orderService := orderapp.NewService(orderRepo)
	historyService := historyapp.NewService(historyRepo)
	feedbackService := feedbackapp.NewService(feedbackRepo, productRepo, recorder)
	chatService := chatapp.NewService(orderRepo, log)
	reportService := reportapp.NewService(productRepo, categoryRepo, supplierRepo, userRepo, orderRepo)

	engine := router.New(router.Config{
		Logger:       log,
		JWTService:   jwtService,
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		Handlers: router.Handlers{
			Auth:     handler.NewAuthHandler(authService),
			Product:  handler.NewProductHandler(productService),
			Category: handler.NewCategoryHandler(categoryService),
			Supplier: handler.NewSupplierHandler(supplierService),
			Cart:     handler.NewCartHandler(cartService),
			Checkout: handler.NewCheckoutHandler(checkoutService, razorpay, upi, payment.Provider(cfg.Payment.Provider)),
			Order:    handler.NewOrderHandler(orderService),
			History:  handler.NewHistoryHandler(historyService),
			Feedback: handler.NewFeedbackHandler(feedbackService),
			Chat:     handler.NewChatHandler(chatService),
			Stats:    handler.NewStatsHandler(reportService),
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
