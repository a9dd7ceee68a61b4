package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/modybick/pos/internal/export"
	"github.com/modybick/pos/internal/handoff"
	"github.com/modybick/pos/internal/repository"
	"github.com/modybick/pos/internal/service"
)

type SaleHandler struct {
	ledger   *service.Ledger
	exporter *export.Exporter
	handoff  *handoff.Store
}

func NewSaleHandler(ledger *service.Ledger, exporter *export.Exporter, hs *handoff.Store) *SaleHandler {
	return &SaleHandler{ledger: ledger, exporter: exporter, handoff: hs}
}

func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *SaleHandler) GetSaleLines(w http.ResponseWriter, r *http.Request) {
	saleID, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	lines, err := h.ledger.Lines(r.Context(), saleID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

func (h *SaleHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.ledger.Cancel)
}

func (h *SaleHandler) UncancelSale(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.ledger.Uncancel)
}

func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.ledger.Delete)
}

func (h *SaleHandler) ResetSales(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestReproduction snapshots a sale's lines for one-time restoration into
// a fresh cart, overwriting any earlier pending snapshot.
func (h *SaleHandler) RequestReproduction(w http.ResponseWriter, r *http.Request) {
	saleID, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	lines, err := h.ledger.Lines(r.Context(), saleID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if len(lines) == 0 {
		respondError(w, http.StatusNotFound, "sale_not_found", "sale has no lines")
		return
	}

	if err := h.handoff.Request(r.Context(), lines); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *SaleHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	content, err := h.exporter.Export(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// StreamSales pushes aggregator snapshots to the client as server-sent
// events, one event per ledger mutation, starting with the current state.
func (h *SaleHandler) StreamSales(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	updates, cancel := h.ledger.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	snapshot, err := h.ledger.Snapshot(r.Context())
	if err == nil {
		writeSSE(w, snapshot)
		flusher.Flush()
	}

	for {
		select {
		case snapshot, open := <-updates:
			if !open {
				return
			}
			writeSSE(w, snapshot)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, snapshot service.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func (h *SaleHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, saleID int64) error) {
	saleID, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	err := op(r.Context(), saleID)
	if errors.Is(err, repository.ErrSaleNotFound) {
		respondError(w, http.StatusNotFound, "sale_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func saleIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_sale_id", "sale id must be a positive integer")
		return 0, false
	}
	return saleID, true
}
