package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dealerhub/dealerhub-backend/api/controllers"
	"github.com/dealerhub/dealerhub-backend/api/middleware"
	"github.com/dealerhub/dealerhub-backend/internal/auth"
	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	category "github.com/dealerhub/dealerhub-backend/internal/categories"
	client "github.com/dealerhub/dealerhub-backend/internal/clients"
	"github.com/dealerhub/dealerhub-backend/internal/export"
	"github.com/dealerhub/dealerhub-backend/internal/media"
	order "github.com/dealerhub/dealerhub-backend/internal/orders"
	stock "github.com/dealerhub/dealerhub-backend/internal/stock"
	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/metrics"
	"github.com/dealerhub/dealerhub-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	DBPinger    controllers.Pinger
	Sessions    middleware.SessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth       auth.Service
	Cars       car.Service
	Categories category.Service
	Clients    client.Service
	Orders     order.Service
	Stock      stock.Service
	Media      media.Service
	Export     export.Service
}

// NewRouter assembles the full route tree. Login throttling lives inside the
// auth service; the refresh endpoint gets an IP-only middleware policy so
// token grinding is bounded without double counting login attempts.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DBPinger,
			"redis":    d.Redis,
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	refreshPolicy := middleware.NewAuthRateLimitPolicy(
		"refresh",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		0,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.AuthRateLimit(refreshPolicy, d.Redis, logg)).
				Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
				r.Get("/me", controllers.AuthMe(logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Route("/cars", func(r chi.Router) {
				r.Get("/", controllers.CarsList(d.Cars, logg))
				r.Post("/", controllers.CarsCreate(d.Cars, logg))
				r.Get("/filter/options", controllers.CarsFilterOptions(d.Cars, logg))
				r.Put("/bulk/status", controllers.CarsBulkStatus(d.Cars, logg))
				r.Get("/export/pdf", controllers.CarsExportPDF(d.Export, logg))
				r.Get("/export/excel", controllers.CarsExportExcel(d.Export, logg))
				r.Post("/import/excel", controllers.CarsImportExcel(d.Export, logg))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", controllers.CarsGet(d.Cars, logg))
					r.Put("/", controllers.CarsUpdate(d.Cars, logg))
					r.Delete("/", controllers.CarsDelete(d.Cars, logg))
					r.Put("/photos", controllers.CarsReplacePhotos(d.Cars, logg))
					r.Put("/details", controllers.CarsReplaceDetails(d.Cars, logg))
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.CategoriesList(d.Categories, logg))
				r.Post("/", controllers.CategoriesCreate(d.Categories, logg))
				r.Get("/{id}", controllers.CategoriesGet(d.Categories, logg))
				r.Put("/{id}", controllers.CategoriesUpdate(d.Categories, logg))
				r.Delete("/{id}", controllers.CategoriesDelete(d.Categories, logg))
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", controllers.ClientsList(d.Clients, logg))
				r.Post("/", controllers.ClientsCreate(d.Clients, logg))
				r.Get("/{id}", controllers.ClientsGet(d.Clients, logg))
				r.Put("/{id}", controllers.ClientsUpdate(d.Clients, logg))
				r.Delete("/{id}", controllers.ClientsDelete(d.Clients, logg))
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", controllers.SalesList(d.Clients, logg))
				r.Post("/", controllers.SalesRecord(d.Clients, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(d.Orders, logg))
				r.Post("/", controllers.OrdersCreate(d.Orders, logg))
				r.Get("/{id}", controllers.OrdersGet(d.Orders, logg))
				r.Post("/{id}/transition", controllers.OrdersTransition(d.Orders, logg))
				r.Post("/{id}/invoice", controllers.InvoicesIssue(d.Orders, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", controllers.InvoicesList(d.Orders, logg))
				r.Get("/{id}", controllers.InvoicesGet(d.Orders, logg))
				r.Post("/{id}/pay", controllers.InvoicesMarkPaid(d.Orders, logg))
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/", controllers.StockList(d.Stock, logg))
				r.Put("/", controllers.StockUpsert(d.Stock, logg))
				r.Get("/{carID}", controllers.StockGetByCar(d.Stock, logg))
				r.Delete("/{carID}", controllers.StockDelete(d.Stock, logg))
			})

			r.Post("/media/upload", controllers.MediaUpload(d.Media, logg))
		})
	})

	return r
}
