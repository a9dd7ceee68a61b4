package http

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"time"

	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/repository"
	"github.com/modybick/pos/internal/scanner"
	"github.com/modybick/pos/internal/service"
)

// ScanHandler is the boundary the camera adapter posts decoded detections
// to. Debouncing and the cart mutation both happen here, server side, so the
// adapter stays a dumb pipe.
type ScanHandler struct {
	debouncer *scanner.Debouncer
	session   *service.Session
}

func NewScanHandler(debouncer *scanner.Debouncer, session *service.Session) *ScanHandler {
	return &ScanHandler{debouncer: debouncer, session: session}
}

type ScanRequestDTO struct {
	Barcode string `json:"barcode"`
	// Bounding box of the detected code in frame coordinates, optional.
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
	// Frame timestamp in unix milliseconds; 0 means "now".
	AtMillis int64 `json:"at_millis"`
}

type ScanResponseDTO struct {
	Accepted     bool              `json:"accepted"`
	ProductFound bool              `json:"product_found"`
	Entry        *domain.CartEntry `json:"entry,omitempty"`
	CartTotal    int64             `json:"cart_total"`
}

func (h *ScanHandler) Offer(w http.ResponseWriter, r *http.Request) {
	var req ScanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Barcode == "" {
		respondError(w, http.StatusBadRequest, "invalid_barcode", "barcode must not be empty")
		return
	}

	det := scanner.Detection{
		Barcode: req.Barcode,
		Bounds:  image.Rect(req.MinX, req.MinY, req.MaxX, req.MaxY),
	}
	if req.AtMillis > 0 {
		det.At = time.UnixMilli(req.AtMillis)
	}

	if !h.debouncer.Offer(det) {
		respondJSON(w, http.StatusOK, ScanResponseDTO{
			Accepted:  false,
			CartTotal: h.session.Total(),
		})
		return
	}

	entry, err := h.session.OnScan(r.Context(), req.Barcode)
	if errors.Is(err, repository.ErrProductNotFound) {
		// Accepted scan of an unregistered barcode: cart unchanged, the
		// adapter plays the error feedback.
		respondJSON(w, http.StatusOK, ScanResponseDTO{
			Accepted:     true,
			ProductFound: false,
			CartTotal:    h.session.Total(),
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ScanResponseDTO{
		Accepted:     true,
		ProductFound: true,
		Entry:        &entry,
		CartTotal:    h.session.Total(),
	})
}
