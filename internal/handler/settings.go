package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// SettingsStore defines the database methods needed by settings handlers.
type SettingsStore interface {
	GetSettings(ctx context.Context) (database.Setting, error)
	UpdateSettings(ctx context.Context, arg database.UpdateSettingsParams) (database.Setting, error)
}

// SettingsHandler handles the singleton restaurant settings.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers the read endpoint on the given Chi router.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// RegisterAdminRoutes registers the admin-only settings endpoint.
func (h *SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/", h.Update)
}

type updateSettingsRequest struct {
	AdultPriceGross *string `json:"adult_price_gross"`
	VatRate         *string `json:"vat_rate"`
	PromptPayTarget *string `json:"prompt_pay_target"`
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "settings not found")
			return
		}
		log.Printf("ERROR: get settings: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbSettingsToResponse(settings))
}

// Update handles PATCH /settings. Only the provided fields change; price and
// VAT edits affect new pricing computations, never already-snapshotted bills.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	var params database.UpdateSettingsParams

	if req.AdultPriceGross != nil {
		price, err := decimal.NewFromString(*req.AdultPriceGross)
		if err != nil || price.IsNegative() {
			writeError(w, http.StatusBadRequest, codeValidation, "adult_price_gross must be a non-negative number")
			return
		}
		params.AdultPriceGross = decimalToNumeric(price)
	}

	if req.VatRate != nil {
		rate, err := decimal.NewFromString(*req.VatRate)
		if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			writeError(w, http.StatusBadRequest, codeValidation, "vat_rate must be in [0, 1)")
			return
		}
		var n pgtype.Numeric
		_ = n.Scan(rate.String())
		params.VatRate = n
	}

	if req.PromptPayTarget != nil {
		params.PromptPayTarget = pgtype.Text{String: *req.PromptPayTarget, Valid: true}
	}

	settings, err := h.store.UpdateSettings(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "settings not found")
			return
		}
		log.Printf("ERROR: update settings: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbSettingsToResponse(settings))
}
