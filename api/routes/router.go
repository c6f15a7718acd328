package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shoplytics-backend/api/controllers"
	"github.com/angelmondragon/shoplytics-backend/api/middleware"
	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/internal/orders"
	"github.com/angelmondragon/shoplytics-backend/internal/products"
	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	cachePinger controllers.Pinger,
	productsService products.Service,
	ordersService orders.Service,
	analyticsService analytics.Service,
	metricsGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"cache":    cachePinger,
		}))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(productsService, logg))
			r.Get("/top", controllers.TopSellingProducts(analyticsService, logg))
			r.Get("/{productID}", controllers.GetProduct(productsService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(ordersService, logg))
		})

		r.Route("/customers/{customerID}", func(r chi.Router) {
			r.Get("/orders", controllers.CustomerOrders(ordersService, logg))
			r.Get("/spending", controllers.CustomerSpending(analyticsService, logg))
		})

		r.Get("/analytics/sales", controllers.SalesAnalytics(analyticsService, logg))
	})

	return r
}
