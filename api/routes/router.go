package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bodegonapp/bodegon-backend/api/controllers"
	"github.com/bodegonapp/bodegon-backend/api/middleware"
	"github.com/bodegonapp/bodegon-backend/internal/cart"
	"github.com/bodegonapp/bodegon-backend/internal/catalog"
	"github.com/bodegonapp/bodegon-backend/pkg/config"
	"github.com/bodegonapp/bodegon-backend/pkg/db"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	categoryService catalog.CategoryService,
	cartService cart.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// Catalog reads are public; browsing needs no account.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.ListBodegonProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/products/{productId}/inventory", controllers.GetProductInventory(catalogService, logg))
		r.Get("/restaurants/{restaurantId}/products", controllers.ListRestaurantProducts(catalogService, logg))
		r.Get("/categories", controllers.ListCategories(categoryService, logg))
		r.Get("/categories/{categoryId}/subcategories", controllers.ListSubcategories(categoryService, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Post("/products", controllers.AdminCreateProduct(catalogService, logg))
		r.Patch("/products/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
		r.Delete("/products/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
		r.Post("/categories", controllers.AdminCreateCategory(categoryService, logg))
		r.Post("/subcategories", controllers.AdminCreateSubcategory(categoryService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/", controllers.GetCart(cartService, logg))
		r.Post("/lines", controllers.AddToCart(cartService, logg))
		r.Patch("/lines/{lineId}", controllers.SetCartLineQuantity(cartService, logg))
		r.Delete("/lines/{lineId}", controllers.RemoveCartLine(cartService, logg))
		r.Delete("/", controllers.ClearCart(cartService, logg))
		r.Post("/refresh", controllers.RefreshCart(cartService, logg))
	})

	return r
}
