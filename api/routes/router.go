package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codewithtechdev/storefront-backend/api/controllers"
	"github.com/codewithtechdev/storefront-backend/api/middleware"
	"github.com/codewithtechdev/storefront-backend/internal/cart"
	"github.com/codewithtechdev/storefront-backend/internal/catalog"
	checkoutsvc "github.com/codewithtechdev/storefront-backend/internal/checkout"
	downloadsvc "github.com/codewithtechdev/storefront-backend/internal/downloads"
	"github.com/codewithtechdev/storefront-backend/internal/orders"
	"github.com/codewithtechdev/storefront-backend/internal/payments"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DBPinger     controllers.Pinger
	RedisPinger  controllers.Pinger
	OrderPointer controllers.OrderPointer

	Catalog   catalog.Service
	Cart      cart.Service
	Orders    orders.Service
	Checkout  checkoutsvc.Service
	Downloads downloadsvc.Service
	Gateway   payments.Gateway
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", controllers.SessionCreate(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/featured", controllers.ProductFeatured(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		})
		r.Get("/categories", controllers.ProductCategories(deps.Catalog, logg))

		// Token-bearing download links work without a session so a link
		// pasted into another browser still resolves until it expires.
		r.Get("/downloads", controllers.DownloadResolve(deps.Downloads, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartSetQuantity(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/current", controllers.OrderCurrent(deps.Orders, deps.OrderPointer, logg))
				r.Delete("/current", controllers.OrderClearCurrent(deps.OrderPointer, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Get("/{orderId}/downloads", controllers.OrderDownloads(deps.Orders, deps.Downloads, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/{transactionId}/verify", controllers.PaymentVerify(deps.Gateway, logg))
				r.Post("/{transactionId}/refund", controllers.PaymentRefund(deps.Gateway, deps.Orders, logg))
			})
		})
	})

	return r
}
