package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/validate"
	"github.com/shopspring/decimal"
)

// PromotionStore defines the database methods needed by promotion handlers.
type PromotionStore interface {
	ListPromotions(ctx context.Context) ([]database.Promotion, error)
	ListActivePromotions(ctx context.Context, now time.Time) ([]database.Promotion, error)
	GetPromotion(ctx context.Context, id uuid.UUID) (database.Promotion, error)
	CreatePromotion(ctx context.Context, arg database.CreatePromotionParams) (database.Promotion, error)
	UpdatePromotion(ctx context.Context, arg database.UpdatePromotionParams) (database.Promotion, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// PromotionHandler handles promotion management endpoints.
type PromotionHandler struct {
	store PromotionStore
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(store PromotionStore) *PromotionHandler {
	return &PromotionHandler{store: store}
}

// RegisterRoutes registers read endpoints on the given Chi router.
// Expected to be mounted at /promotions.
func (h *PromotionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/active", h.ListActive)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers the admin-only promotion endpoints.
func (h *PromotionHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request types ---

type createPromotionRequest struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Value      string   `json:"value"`
	DaysOfWeek []string `json:"days_of_week"`
	Active     *bool    `json:"active"`
	ExpiresAt  *string  `json:"expires_at"`
}

type updatePromotionRequest struct {
	Name       *string   `json:"name"`
	Type       *string   `json:"type"`
	Value      *string   `json:"value"`
	DaysOfWeek *[]string `json:"days_of_week"`
	Active     *bool     `json:"active"`
	ExpiresAt  *string   `json:"expires_at"`
}

// --- Handlers ---

// List handles GET /promotions.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.store.ListPromotions(r.Context())
	if err != nil {
		log.Printf("ERROR: list promotions: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]promotionResponse, len(promos))
	for i, p := range promos {
		resp[i] = dbPromotionToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListActive handles GET /promotions/active: unexpired active promotions.
func (h *PromotionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	promos, err := h.store.ListActivePromotions(r.Context(), time.Now())
	if err != nil {
		log.Printf("ERROR: list active promotions: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]promotionResponse, len(promos))
	for i, p := range promos {
		resp[i] = dbPromotionToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /promotions/{id}.
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid promotion ID")
		return
	}

	promo, err := h.store.GetPromotion(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "promotion not found")
			return
		}
		log.Printf("ERROR: get promotion: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbPromotionToResponse(promo))
}

// Create handles POST /promotions.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	if req.Key == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "key and name are required")
		return
	}
	if !validate.PromotionType(req.Type) {
		writeError(w, http.StatusBadRequest, codeValidation, "type must be PERCENT or AMOUNT")
		return
	}
	value, verr := parsePromotionValue(req.Type, req.Value)
	if verr != "" {
		writeError(w, http.StatusBadRequest, codeValidation, verr)
		return
	}
	if !validate.Days(req.DaysOfWeek) {
		writeError(w, http.StatusBadRequest, codeValidation, "days_of_week entries must be MON..SUN")
		return
	}

	expiresAt, verr := parseExpiry(req.ExpiresAt)
	if verr != "" {
		writeError(w, http.StatusBadRequest, codeValidation, verr)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	days := req.DaysOfWeek
	if days == nil {
		days = []string{}
	}

	promo, err := h.store.CreatePromotion(r.Context(), database.CreatePromotionParams{
		Key:        req.Key,
		Name:       req.Name,
		Type:       database.PromotionType(req.Type),
		Value:      decimalToNumeric(value),
		DaysOfWeek: days,
		Active:     active,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, codeConflict, "promotion key already exists")
			return
		}
		log.Printf("ERROR: create promotion: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusCreated, dbPromotionToResponse(promo))
}

// Update handles PATCH /promotions/{id}. The key is immutable; closed bills
// reference it as an audit snapshot.
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid promotion ID")
		return
	}

	var req updatePromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	promo, err := h.store.GetPromotion(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "promotion not found")
			return
		}
		log.Printf("ERROR: get promotion for update: %v", err)
		writeInternalError(w)
		return
	}

	params := database.UpdatePromotionParams{
		ID:         id,
		Name:       promo.Name,
		Type:       promo.Type,
		Value:      promo.Value,
		DaysOfWeek: promo.DaysOfWeek,
		Active:     promo.Active,
		ExpiresAt:  promo.ExpiresAt,
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "name cannot be empty")
			return
		}
		params.Name = *req.Name
	}
	if req.Type != nil {
		if !validate.PromotionType(*req.Type) {
			writeError(w, http.StatusBadRequest, codeValidation, "type must be PERCENT or AMOUNT")
			return
		}
		params.Type = database.PromotionType(*req.Type)
	}
	if req.Value != nil {
		value, verr := parsePromotionValue(string(params.Type), *req.Value)
		if verr != "" {
			writeError(w, http.StatusBadRequest, codeValidation, verr)
			return
		}
		params.Value = decimalToNumeric(value)
	}
	if req.DaysOfWeek != nil {
		if !validate.Days(*req.DaysOfWeek) {
			writeError(w, http.StatusBadRequest, codeValidation, "days_of_week entries must be MON..SUN")
			return
		}
		params.DaysOfWeek = *req.DaysOfWeek
	}
	if req.Active != nil {
		params.Active = *req.Active
	}
	if req.ExpiresAt != nil {
		expiresAt, verr := parseExpiry(req.ExpiresAt)
		if verr != "" {
			writeError(w, http.StatusBadRequest, codeValidation, verr)
			return
		}
		params.ExpiresAt = expiresAt
	}

	updated, err := h.store.UpdatePromotion(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "promotion not found")
			return
		}
		log.Printf("ERROR: update promotion: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbPromotionToResponse(updated))
}

// Delete handles DELETE /promotions/{id}.
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid promotion ID")
		return
	}

	if _, err := h.store.DeletePromotion(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "promotion not found")
			return
		}
		log.Printf("ERROR: delete promotion: %v", err)
		writeInternalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// parsePromotionValue validates value against its type. Returns a user
// message when invalid.
func parsePromotionValue(promoType, raw string) (decimal.Decimal, string) {
	if raw == "" {
		return decimal.Zero, "value is required"
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return decimal.Zero, "value must be a non-negative number"
	}
	if promoType == "PERCENT" && value.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, "percent value cannot exceed 100"
	}
	return value, ""
}

func parseExpiry(raw *string) (pgtype.Timestamptz, string) {
	if raw == nil || *raw == "" {
		return pgtype.Timestamptz{}, ""
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return pgtype.Timestamptz{}, "expires_at must be RFC3339"
	}
	return pgtype.Timestamptz{Time: t, Valid: true}, ""
}
