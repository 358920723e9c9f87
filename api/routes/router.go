package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/briankemboi/dukapos-backend/api/controllers"
	"github.com/briankemboi/dukapos-backend/api/middleware"
	"github.com/briankemboi/dukapos-backend/internal/auth"
	"github.com/briankemboi/dukapos-backend/internal/categories"
	"github.com/briankemboi/dukapos-backend/internal/earnings"
	"github.com/briankemboi/dukapos-backend/internal/expenses"
	"github.com/briankemboi/dukapos-backend/internal/products"
	"github.com/briankemboi/dukapos-backend/internal/salaries"
	"github.com/briankemboi/dukapos-backend/internal/sales"
	"github.com/briankemboi/dukapos-backend/internal/shops"
	"github.com/briankemboi/dukapos-backend/internal/users"
	"github.com/briankemboi/dukapos-backend/pkg/auth/session"
	"github.com/briankemboi/dukapos-backend/pkg/config"
	"github.com/briankemboi/dukapos-backend/pkg/db"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
	"github.com/briankemboi/dukapos-backend/pkg/metrics"
	"github.com/briankemboi/dukapos-backend/pkg/redis"
)

// Services groups the domain services mounted on the router.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Shops      shops.Service
	Categories categories.Service
	Products   products.Service
	Sales      sales.Service
	Earnings   earnings.Service
	Expenses   expenses.Service
	Salaries   salaries.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager session.AccessSessionChecker,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/me", controllers.Me(svcs.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleWorker.String(), logg))

			r.Get("/catalog", controllers.WorkerCatalog(svcs.Products, logg))
			r.Post("/sales", controllers.SaleRecord(svcs.Sales, logg))
			r.Get("/sales/mine", controllers.MySales(svcs.Sales, logg))
			r.Get("/earnings/me", controllers.MyEarnings(svcs.Earnings, logg))
			r.Post("/expense-requests", controllers.ExpenseRequestCreate(svcs.Expenses, logg))
			r.Get("/expense-requests/mine", controllers.MyExpenseRequests(svcs.Expenses, logg))
			r.Get("/salary-payments/mine", controllers.MySalaryPayments(svcs.Salaries, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

			r.Route("/shops", func(r chi.Router) {
				r.Post("/", controllers.ShopCreate(svcs.Shops, logg))
				r.Get("/", controllers.ShopList(svcs.Shops, logg))
				r.Get("/{shopId}", controllers.ShopGet(svcs.Shops, logg))
				r.Put("/{shopId}", controllers.ShopUpdate(svcs.Shops, logg))
				r.Delete("/{shopId}", controllers.ShopDelete(svcs.Shops, logg))
			})

			r.Route("/workers", func(r chi.Router) {
				r.Post("/", controllers.WorkerCreate(svcs.Users, logg))
				r.Get("/", controllers.WorkerList(svcs.Users, logg))
				r.Get("/{workerId}", controllers.WorkerGet(svcs.Users, logg))
				r.Put("/{workerId}", controllers.WorkerUpdate(svcs.Users, logg))
				r.Delete("/{workerId}", controllers.WorkerDeactivate(svcs.Users, logg))
				r.Get("/{workerId}/earnings", controllers.WorkerEarnings(svcs.Earnings, logg))
				r.Get("/{workerId}/salary-payments", controllers.WorkerSalaryPayments(svcs.Salaries, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Get("/", controllers.ProductList(svcs.Products, logg))
				r.Get("/{productId}", controllers.ProductGet(svcs.Products, logg))
				r.Put("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.CategoryCreate(svcs.Categories, logg))
				r.Get("/", controllers.CategoryList(svcs.Categories, logg))
				r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Categories, logg))
				r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))
			})

			r.Get("/sales", controllers.AdminSales(svcs.Sales, logg))

			r.Route("/expense-requests", func(r chi.Router) {
				r.Get("/", controllers.AdminExpenseRequests(svcs.Expenses, logg))
				r.Post("/{requestId}/decision", controllers.ExpenseRequestDecision(svcs.Expenses, logg))
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", controllers.ExpenseRecord(svcs.Expenses, logg))
				r.Get("/", controllers.ExpenseList(svcs.Expenses, logg))
				r.Delete("/{expenseId}", controllers.ExpenseDelete(svcs.Expenses, logg))
			})

			r.Post("/salary-payments", controllers.SalaryPaymentCreate(svcs.Salaries, logg))

			r.Get("/dashboard", controllers.AdminDashboard(svcs.Earnings, logg))
		})

		r.Route("/dev", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleDeveloper.String(), logg))

			r.Route("/admins", func(r chi.Router) {
				r.Post("/", controllers.AdminCreate(svcs.Users, logg))
				r.Get("/", controllers.AdminList(svcs.Users, logg))
				r.Delete("/{adminId}", controllers.AdminDeactivate(svcs.Users, logg))
			})
		})
	})

	return r
}
