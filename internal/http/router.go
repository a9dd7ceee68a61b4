package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Scan     *ScanHandler
	Cart     *CartHandler
	Sales    *SaleHandler
	Products *ProductHandler
	Settings *SettingsHandler
}

func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", h.Scan.Offer)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items/{barcode}/adjust", h.Cart.AdjustQuantity)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/checkout", h.Cart.Checkout)
			r.Post("/restore", h.Cart.RestorePending)
		})

		r.Route("/sales", func(r chi.Router) {
			// The SSE stream must not inherit the request timeout.
			r.Get("/stream", h.Sales.StreamSales)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(requestTimeout))
				r.Get("/", h.Sales.ListSales)
				r.Delete("/", h.Sales.ResetSales)
				r.Get("/export", h.Sales.ExportCSV)
				r.Get("/{id}/lines", h.Sales.GetSaleLines)
				r.Post("/{id}/cancel", h.Sales.CancelSale)
				r.Post("/{id}/uncancel", h.Sales.UncancelSale)
				r.Delete("/{id}", h.Sales.DeleteSale)
				r.Post("/{id}/reproduce", h.Sales.RequestReproduction)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/{barcode}", h.Products.GetProduct)
			r.Post("/import", h.Products.ImportCSV)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/scan-cooldown", h.Settings.GetScanCooldown)
			r.Put("/scan-cooldown", h.Settings.PutScanCooldown)
		})
	})

	return r
}
