package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/modybick/pos/internal/settings"
)

type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

type ScanCooldownDTO struct {
	CooldownMillis int64 `json:"cooldown_millis"`
}

func (h *SettingsHandler) GetScanCooldown(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ScanCooldownDTO{
		CooldownMillis: h.store.ScanCooldown().Milliseconds(),
	})
}

func (h *SettingsHandler) PutScanCooldown(w http.ResponseWriter, r *http.Request) {
	var req ScanCooldownDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CooldownMillis <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_cooldown", "cooldown_millis must be positive")
		return
	}

	if err := h.store.SetScanCooldown(r.Context(), time.Duration(req.CooldownMillis)*time.Millisecond); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ScanCooldownDTO{
		CooldownMillis: h.store.ScanCooldown().Milliseconds(),
	})
}
