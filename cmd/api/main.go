package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopworks/storefront-backend/api/routes"
	"github.com/shopworks/storefront-backend/internal/auth"
	"github.com/shopworks/storefront-backend/internal/cart"
	"github.com/shopworks/storefront-backend/internal/catalog"
	"github.com/shopworks/storefront-backend/internal/checkout"
	"github.com/shopworks/storefront-backend/internal/coupons"
	"github.com/shopworks/storefront-backend/internal/orders"
	"github.com/shopworks/storefront-backend/internal/reviews"
	"github.com/shopworks/storefront-backend/internal/users"
	"github.com/shopworks/storefront-backend/internal/wishlist"
	"github.com/shopworks/storefront-backend/pkg/auth/session"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/db"
	"github.com/shopworks/storefront-backend/pkg/logger"
	"github.com/shopworks/storefront-backend/pkg/metrics"
	"github.com/shopworks/storefront-backend/pkg/migrate"
	"github.com/shopworks/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.SessionTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	reviewRepo := reviews.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	couponRepo := coupons.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)
	wishlistRepo := wishlist.NewRepository(gdb)
	productLoader := cart.NewProductLoader(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo: userRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		CatalogRepo: catalogRepo,
		ReviewRepo:  reviewRepo,
		Wishlist:    wishlistRepo,
		Config:      cfg.Catalog,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo: cartRepo,
		Products: productLoader,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:         dbClient,
		CartRepo:   cartRepo,
		CouponRepo: couponRepo,
		OrderRepo:  orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		OrderRepo: orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		Products:     productLoader,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo: reviewRepo,
		Products:   catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTP()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:          cfg,
			Logger:          logg,
			Metrics:         httpMetrics,
			DB:              dbClient,
			Sessions:        sessionManager,
			Store:           redisClient,
			AuthService:     authService,
			CatalogService:  catalogService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrderService:    orderService,
			WishlistService: wishlistService,
			ReviewService:   reviewService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
