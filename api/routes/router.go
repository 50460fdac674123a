package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopworks/storefront-backend/api/controllers"
	"github.com/shopworks/storefront-backend/api/middleware"
	"github.com/shopworks/storefront-backend/internal/auth"
	"github.com/shopworks/storefront-backend/internal/cart"
	"github.com/shopworks/storefront-backend/internal/catalog"
	"github.com/shopworks/storefront-backend/internal/checkout"
	"github.com/shopworks/storefront-backend/internal/orders"
	"github.com/shopworks/storefront-backend/internal/reviews"
	"github.com/shopworks/storefront-backend/internal/wishlist"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/logger"
	"github.com/shopworks/storefront-backend/pkg/metrics"
)

// Dependencies carries everything the router needs. Nil services degrade to
// 500s on their routes instead of panicking at startup.
type Dependencies struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTP

	DB       controllers.Pinger
	Sessions middleware.SessionChecker
	Store    controllers.Pinger

	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkout.Service
	OrderService    orders.Service
	WishlistService wishlist.Service
	ReviewService   reviews.Service
}

func NewRouter(deps Dependencies) http.Handler {
	logg := deps.Logger
	jwtCfg := deps.Config.JWT

	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(deps.Metrics))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(logg))
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Store, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(deps.AuthService, logg))
			r.Post("/login", controllers.Login(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(jwtCfg, deps.Sessions, logg))
				r.Post("/logout", controllers.Logout(deps.AuthService, logg))
				r.Get("/me", controllers.Profile(deps.AuthService, logg))
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/home", controllers.Home(deps.CatalogService, logg))
			r.Get("/categories", controllers.ListCategories(deps.CatalogService, logg))
			r.Get("/products", controllers.ListProducts(deps.CatalogService, logg))
			r.With(middleware.OptionalAuth(jwtCfg, deps.Sessions, logg)).
				Get("/products/{slug}", controllers.GetProduct(deps.CatalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtCfg, deps.Sessions, logg))

			r.Post("/reviews/{slug}", controllers.CreateReview(deps.ReviewService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.CartService, logg))
				r.Post("/items", controllers.AddCartItem(deps.CartService, logg))
				r.Put("/items", controllers.UpdateCartItems(deps.CartService, logg))
				r.Patch("/items/{itemId}", controllers.SetCartItemQuantity(deps.CartService, logg))
				r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.CartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderHistory(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
				r.Post("/{orderId}/cancel", controllers.CancelOrder(deps.OrderService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.GetWishlist(deps.WishlistService, logg))
				r.Post("/toggle", controllers.ToggleWishlist(deps.WishlistService, logg))
			})
		})
	})

	return r
}
