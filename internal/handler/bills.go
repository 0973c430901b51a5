package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/loyalty"
	"github.com/mookrata-pos/api/internal/middleware"
	"github.com/mookrata-pos/api/internal/service"
	"github.com/mookrata-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

// BillReadStore defines the read-only database methods the bill handlers
// use outside the state machine. Mutations all go through the service.
type BillReadStore interface {
	GetBill(ctx context.Context, id uuid.UUID) (database.Bill, error)
	ListBills(ctx context.Context, arg database.ListBillsParams) ([]database.Bill, error)
}

// BillHandler handles bill lifecycle endpoints.
type BillHandler struct {
	store BillReadStore
	bills *service.BillService
	hub   *ws.Hub
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(store BillReadStore, bills *service.BillService, hub *ws.Hub) *BillHandler {
	return &BillHandler{store: store, bills: bills, hub: hub}
}

// RegisterRoutes registers bill endpoints on the given Chi router.
// Expected to be mounted at /bills.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating bill endpoints. The router
// mounts these behind a cashier-or-admin role check.
func (h *BillHandler) RegisterWriteRoutes(r chi.Router) {
	r.Patch("/{id}", h.Edit)
	r.Post("/{id}/apply-promotion", h.ApplyPromotion)
	r.Post("/{id}/apply-loyalty", h.ApplyLoyalty)
	r.Post("/{id}/pay", h.Pay)
}

// RegisterAdminRoutes registers the admin-only bill endpoints.
func (h *BillHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/{id}/void", h.Void)
}

// --- Request types ---

type editBillRequest struct {
	AdultCount    *int32  `json:"adult_count"`
	ChildCount    *int32  `json:"child_count"`
	DiscountType  *string `json:"discount_type"`
	DiscountValue *string `json:"discount_value"`
	CustomerID    *string `json:"customer_id"`
}

type payBillRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// --- Handlers ---

// List handles GET /bills?status=OPEN&limit=50&offset=0.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	params := database.ListBillsParams{Limit: 50}

	if s := r.URL.Query().Get("status"); s != "" {
		switch database.BillStatus(s) {
		case database.BillStatusOPEN, database.BillStatusCLOSED, database.BillStatusVOID:
			params.Status = pgtype.Text{String: s, Valid: true}
		default:
			writeError(w, http.StatusBadRequest, codeValidation, "invalid status filter")
			return
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, codeValidation, "limit must be between 1 and 200")
			return
		}
		params.Limit = int32(n)
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeValidation, "offset must be non-negative")
			return
		}
		params.Offset = int32(n)
	}

	bills, err := h.store.ListBills(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list bills: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = dbBillToResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /bills/{id}.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "bill not found")
			return
		}
		log.Printf("ERROR: get bill: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbBillToResponse(bill))
}

// Edit handles PATCH /bills/{id}: head counts, manual discount, customer.
func (h *BillHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	var req editBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	svcReq := service.EditBillRequest{
		BillID:       id,
		AdultCount:   req.AdultCount,
		ChildCount:   req.ChildCount,
		DiscountType: req.DiscountType,
	}
	if req.DiscountValue != nil {
		v, err := decimal.NewFromString(*req.DiscountValue)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "discount_value must be a number")
			return
		}
		svcReq.DiscountValue = &v
	}
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid customer_id")
			return
		}
		svcReq.CustomerID = &cid
	}

	bill, err := h.bills.Edit(r.Context(), svcReq)
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventBillUpdated, dbBillToResponse(*bill))
	writeJSON(w, http.StatusOK, dbBillToResponse(*bill))
}

// ApplyPromotion handles POST /bills/{id}/apply-promotion.
func (h *BillHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	result, err := h.bills.ApplyPromotion(r.Context(), id)
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventBillUpdated, dbBillToResponse(result.Bill))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bill":            dbBillToResponse(result.Bill),
		"promotion_name":  result.PromotionName,
		"discount_amount": result.DiscountAmount.StringFixed(2),
	})
}

// ApplyLoyalty handles POST /bills/{id}/apply-loyalty.
func (h *BillHandler) ApplyLoyalty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	result, err := h.bills.ApplyLoyalty(r.Context(), id)
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventBillUpdated, dbBillToResponse(result.Bill))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bill":        dbBillToResponse(result.Bill),
		"customer":    dbCustomerToResponse(result.Customer),
		"free_amount": result.FreeAmount.StringFixed(2),
	})
}

// Pay handles POST /bills/{id}/pay.
func (h *BillHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeValidation, "not authenticated")
		return
	}

	var req payBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		writeError(w, http.StatusBadRequest, codeValidation, "amount must be a non-negative number")
		return
	}

	result, err := h.bills.Pay(r.Context(), service.PayBillRequest{
		BillID:   id,
		Amount:   amount,
		Method:   database.PaymentMethod(req.PaymentMethod),
		ClosedBy: claims.UserID,
	})
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventBillClosed, dbBillToResponse(result.Bill))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bill":         dbBillToResponse(result.Bill),
		"total_amount": result.TotalAmount.StringFixed(2),
		"paid_amount":  result.PaidAmount.StringFixed(2),
		"change":       result.Change.StringFixed(2),
	})
}

// Void handles POST /bills/{id}/void. Admin only; enforced by the router.
func (h *BillHandler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid bill ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeValidation, "not authenticated")
		return
	}

	bill, err := h.bills.Void(r.Context(), id, claims.UserID)
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventBillVoided, dbBillToResponse(*bill))
	writeJSON(w, http.StatusOK, dbBillToResponse(*bill))
}

// --- Helpers ---

// writeBillServiceError maps bill service errors to stable codes. Unknown
// errors are logged and reported as internal.
func writeBillServiceError(w http.ResponseWriter, err error) {
	var insufficientErr *loyalty.InsufficientStampsError
	switch {
	case errors.Is(err, service.ErrBillNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrSettingsNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, service.ErrTableOccupied):
		writeError(w, http.StatusConflict, codeTableOccupied, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusConflict, codeInvalidState, err.Error())
	case errors.Is(err, service.ErrLoyaltyAlreadyApplied):
		writeError(w, http.StatusConflict, codeAlreadyApplied, err.Error())
	case errors.Is(err, service.ErrNoPromotion):
		writeError(w, http.StatusUnprocessableEntity, codeNoPromotion, err.Error())
	case errors.Is(err, service.ErrNoCustomer):
		writeError(w, http.StatusUnprocessableEntity, codeNoCustomer, err.Error())
	case errors.Is(err, service.ErrInsufficientPayment):
		writeError(w, http.StatusUnprocessableEntity, codeInsufficientPayment, err.Error())
	case errors.As(err, &insufficientErr):
		writeError(w, http.StatusUnprocessableEntity, codeInsufficientStamps, err.Error())
	case errors.Is(err, service.ErrNegativeCount),
		errors.Is(err, service.ErrNegativeDiscount),
		errors.Is(err, service.ErrInvalidDiscountType),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	default:
		log.Printf("ERROR: bill service: %v", err)
		writeInternalError(w)
	}
}
