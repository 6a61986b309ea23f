package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/api"
	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	handler, cleanup := newServer(cfg, database)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.L().Info("server starting",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("cache", cfg.CacheDriver),
	)
	return startServerFunc(ctx, srv)
}

// serve blocks until the server fails or ctx is cancelled, then drains
// in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServer wires the stores, services and middleware chain. The returned
// func releases background resources.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, func()) {
	cache, closeCache := newProductCache(cfg)

	categoryRepo := category.NewRepository(database)
	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database, cfg.DBLockTimeout)

	checkoutMetrics := metrics.NewCheckout()

	router := api.NewRouter(api.NewHandler(api.Deps{
		Users:      user.NewService(user.NewRepository(database), cfg.JWTSecret, cfg.JWTTTL),
		Categories: category.NewService(categoryRepo),
		Products:   product.NewService(productRepo, categoryRepo, cache),
		Carts:      cart.NewService(cart.NewRepository(database), productRepo),
		Checkout: order.NewEngine(orderRepo,
			order.WithTimeout(cfg.DBQueryTimeout),
			order.WithMetrics(checkoutMetrics),
			order.WithProductCache(cache),
		),
		Orders:       order.NewService(orderRepo, cache, order.WithQueryTimeout(cfg.DBQueryTimeout)),
		DB:           database,
		Metrics:      checkoutMetrics,
		QueryTimeout: cfg.DBQueryTimeout,
	}), middleware.CORS(cfg.CORSAllowedOrigin))

	limiter := middleware.NewRateLimiter()

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = logger.LoggingMiddleware(h)
	h = middleware.NewAuthMiddleware(cfg.JWTSecret)(h)
	h = logger.RequestIDMiddleware(h)

	return h, func() {
		limiter.Stop()
		closeCache()
	}
}

func newProductCache(cfg *config.Config) (product.Cache, func()) {
	switch cfg.CacheDriver {
	case "none":
		return product.NewNoopCache(), func() {}
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.L().Warn("invalid REDIS_URL, falling back to in-process cache", zap.Error(err))
			break
		}
		client := redis.NewClient(opts)
		return product.NewGuardedCache(product.NewRedisCache(client, cfg.CacheTTL)), func() { _ = client.Close() }
	}

	return product.NewGuardedCache(product.NewLRUCache(cfg.CacheSize, cfg.CacheTTL)), func() {}
}
