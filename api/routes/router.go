package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mongkol7/E-Bookstore/api/controllers"
	"github.com/Mongkol7/E-Bookstore/api/middleware"
	"github.com/Mongkol7/E-Bookstore/internal/admin"
	"github.com/Mongkol7/E-Bookstore/internal/cart"
	"github.com/Mongkol7/E-Bookstore/internal/catalog"
	"github.com/Mongkol7/E-Bookstore/internal/checkout"
	"github.com/Mongkol7/E-Bookstore/internal/orders"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	"github.com/Mongkol7/E-Bookstore/pkg/config"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
	"github.com/Mongkol7/E-Bookstore/pkg/metrics"
)

// Deps carries everything the router wires into controllers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
	Sessions  *session.Manager
	Carts     *cart.Registry
	Checkouts *checkout.Registry
	Catalog   *catalog.Service
	Orders    *orders.Service
	Admin     *admin.Service
	Auth      controllers.AuthClient
	StorePing controllers.Pinger
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger
	secure := cfg.Session.CookieSecure

	teardown := &controllers.Teardown{
		Sessions:  d.Sessions,
		Carts:     d.Carts,
		Checkouts: d.Checkouts,
		Secure:    secure,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.StorePing))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(d.Auth, d.Sessions, secure, logg))
		r.Post("/signup", controllers.AuthSignup(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(d.Sessions, logg, secure))
			r.Post("/logout", controllers.AuthLogout(d.Auth, teardown, logg))
			r.Get("/profile", controllers.AuthProfile(d.Auth, d.Sessions, teardown, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(d.Sessions, logg, secure))

		r.Route("/api/books", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(d.Catalog, teardown, logg))
			r.Get("/{bookID}", controllers.CatalogDetail(d.Catalog, teardown, logg))
		})
		r.Get("/api/reference", controllers.CatalogReference(d.Catalog, teardown, logg))

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(d.Carts, teardown, logg))
			r.Post("/add", controllers.CatalogAddToCart(d.Catalog, teardown, logg))
			r.Post("/draft", controllers.CartEditDraft(d.Carts, teardown, logg))
			r.Post("/draft/commit", controllers.CartCommitDraft(d.Carts, teardown, logg))
			r.Post("/step", controllers.CartStep(d.Carts, teardown, logg))
			r.Post("/remove", controllers.CartRemove(d.Carts, teardown, logg))
		})

		r.Route("/api/checkout", func(r chi.Router) {
			r.Post("/start", controllers.CheckoutStart(d.Carts, d.Checkouts, teardown, logg))
			r.Get("/", controllers.CheckoutView(d.Checkouts, logg))
			r.Post("/field", controllers.CheckoutField(d.Checkouts, logg))
			r.Post("/billing", controllers.CheckoutBillingToggle(d.Checkouts, logg))
			r.Post("/next", controllers.CheckoutNext(d.Checkouts, logg))
			r.Post("/back", controllers.CheckoutBack(d.Checkouts, logg))
			r.Post("/jump", controllers.CheckoutJump(d.Checkouts, logg))
			r.Post("/place-order", controllers.CheckoutPlaceOrder(d.Checkouts, d.Sessions, d.Carts, teardown, logg))
		})

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersHistory(d.Orders, teardown, logg))
			r.Get("/{orderID}", controllers.OrderDetail(d.Orders, teardown, logg))
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/dashboard", controllers.AdminDashboard(d.Admin, teardown, logg))
			r.Post("/{resource}/post", controllers.AdminCreate(d.Admin, teardown, logg))
			r.Put("/{resource}/put", controllers.AdminUpdate(d.Admin, teardown, logg))
			r.Delete("/{resource}/delete", controllers.AdminDelete(d.Admin, teardown, logg))
		})
	})

	return r
}
