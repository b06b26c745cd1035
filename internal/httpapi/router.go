package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/settings"
)

// Catalog is what the storefront reads and the admin edits.
type Catalog interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	Product(ctx context.Context, id string) (catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.CategoryRecord, error)
	Sections(ctx context.Context) ([]catalog.Section, error)
	SaveProducts(ctx context.Context, products []catalog.Product) error
	SaveCategories(ctx context.Context, records []catalog.CategoryRecord) error
	Reset(ctx context.Context) error
}

type Deps struct {
	Logger           *zap.Logger
	Catalog          Catalog
	Sessions         *session.Manager
	Settings         *settings.Service
	Numbers          order.NumberGenerator
	Now              func() time.Time
	CORSAllowOrigins []string
}

type Handler struct {
	logger   *zap.Logger
	catalog  Catalog
	sessions *session.Manager
	settings *settings.Service
	numbers  order.NumberGenerator
	now      func() time.Time
}

func NewHandler(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	numbers := d.Numbers
	if numbers == nil {
		numbers = order.RandomNumbers{}
	}
	return &Handler{
		logger:   d.Logger.Named("http"),
		catalog:  d.Catalog,
		sessions: d.Sessions,
		settings: d.Settings,
		numbers:  numbers,
		now:      now,
	}
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(correlationID)
	r.Use(requestLogger(h.logger))
	r.Use(recoverer(h.logger))
	r.Use(cors(d.CORSAllowOrigins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		// public reads
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)
		r.Get("/menu/sections", h.MenuSections)
		r.Post("/menu/active-category", h.ComputeActiveCategory)
		r.Get("/store-name", h.GetStoreName)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddItem)
			r.Put("/cart/items/quantity", h.SetQuantity)
			r.Post("/cart/items/increment", h.Increment)
			r.Post("/cart/items/decrement", h.Decrement)
			r.Post("/cart/items/remove", h.RequestRemoval)
			r.Post("/cart/removals/{id}/confirm", h.ConfirmRemoval)
			r.Post("/cart/removals/{id}/cancel", h.CancelRemoval)

			r.Post("/checkout", h.Checkout)
			r.Get("/orders/current", h.CurrentOrder)
			r.Post("/orders/current/close", h.CloseOrder)

			r.Post("/menu/scroll", h.TrackScroll)
			r.Get("/menu/active-category", h.TrackedActiveCategory)
			r.Post("/menu/sticky", h.Sticky)

			r.Post("/admin/login", h.Login)
			r.Post("/admin/logout", h.Logout)
			r.Get("/admin/me", h.Me)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Put("/store-name", h.SetStoreName)
				r.Put("/admin/products", h.SaveProducts)
				r.Put("/admin/categories", h.SaveCategories)
				r.Post("/admin/catalog/reset", h.ResetCatalog)
				r.Get("/admin/business-info", h.GetBusinessInfo)
				r.Put("/admin/business-info", h.SetBusinessInfo)
				r.Get("/admin/theme-colors", h.GetThemeColors)
				r.Put("/admin/theme-colors", h.SetThemeColors)
				r.Get("/admin/panel", h.GetAdminPanel)
				r.Put("/admin/panel", h.SetAdminPanel)
			})
		})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
