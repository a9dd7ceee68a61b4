package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/repository"
)

type ProductHandler struct {
	catalog *catalog.Service
}

func NewProductHandler(cat *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "invalid_barcode", "barcode must not be empty")
		return
	}

	product, err := h.catalog.Lookup(r.Context(), barcode)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// ImportCSV bulk-replaces the catalog from a CSV request body. Rows that
// fail to parse are skipped and counted, never fatal to the batch.
func (h *ProductHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	products, skipped, err := catalog.ParseProductsCSV(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_csv", err.Error())
		return
	}

	imported, err := h.catalog.BulkReplace(r.Context(), products)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, catalog.ImportResult{
		Imported: imported,
		Skipped:  skipped,
	})
}
