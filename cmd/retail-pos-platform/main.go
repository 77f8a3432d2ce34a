package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/api/handlers"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/cache"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/config"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/health"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/metrics"
	repository "github.com/aaravmahajanofficial/retail-pos-platform/internal/repositories"
	service "github.com/aaravmahajanofficial/retail-pos-platform/internal/services"
	sendgridClient "github.com/aaravmahajanofficial/retail-pos-platform/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr(),
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	var receipts sendgridClient.ReceiptSender
	if cfg.SendGrid.APIKey != "" {
		receipts = sendgridClient.NewReceiptService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	sessions := service.NewSessionStore()
	taxRate := cfg.POS.TaxRate()

	catalogService := service.NewCatalogService(repos.Product, productCache, cfg.Cache.ProductTTL)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartService := service.NewCartService(sessions, catalogService, taxRate)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutService := service.NewCheckoutService(sessions, repos.Sale, receipts, taxRate, cfg.POS.CurrencyCode, cfg.POS.FinalizeTimeout)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating the health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(catalogHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(catalogHandler.GetProduct()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.BeginCheckout()))
	routerMux.HandleFunc("GET /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.GetCheckout()))
	routerMux.HandleFunc("POST /api/v1/checkout/payment-method", authMiddleware.Authenticate(checkoutHandler.SelectPaymentMethod()))
	routerMux.HandleFunc("POST /api/v1/checkout/cash", authMiddleware.Authenticate(checkoutHandler.SubmitCash()))
	routerMux.HandleFunc("POST /api/v1/checkout/finalize", authMiddleware.Authenticate(checkoutHandler.Finalize()))
	routerMux.HandleFunc("POST /api/v1/checkout/cancel", authMiddleware.Authenticate(checkoutHandler.Cancel()))
	routerMux.HandleFunc("GET /api/v1/sales/{id}", authMiddleware.Authenticate(checkoutHandler.GetSale()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
