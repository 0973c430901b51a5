package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/loyalty"
	"github.com/mookrata-pos/api/internal/validate"
)

// CustomerStore defines the database methods needed by customer handlers.
type CustomerStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (database.Customer, error)
	UpsertCustomerByPhone(ctx context.Context, phone string) (database.Customer, error)
	UpdateCustomerName(ctx context.Context, arg database.UpdateCustomerNameParams) (database.Customer, error)
	SetCustomerStamps(ctx context.Context, arg database.SetCustomerStampsParams) (database.Customer, error)
	ListRecentClosedBillsByCustomer(ctx context.Context, arg database.ListRecentClosedBillsByCustomerParams) ([]database.Bill, error)
}

// CustomerHandler handles customer and loyalty-ledger endpoints.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Expected to be mounted at /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Lookup)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/bills", h.RecentBills)
}

// RegisterWriteRoutes registers the mutating customer endpoints. The router
// mounts these behind a cashier-or-admin role check.
func (h *CustomerHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Register)
	r.Patch("/{id}", h.UpdateName)
}

// RegisterAdminRoutes registers the admin-only customer endpoints.
func (h *CustomerHandler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/{id}/stamps", h.SetStamps)
}

// --- Request types ---

type registerCustomerRequest struct {
	Phone string  `json:"phone"`
	Name  *string `json:"name"`
}

type updateCustomerRequest struct {
	Name string `json:"name"`
}

type setStampsRequest struct {
	LoyaltyStamps int32 `json:"loyalty_stamps"`
}

// --- Handlers ---

// Lookup handles GET /customers?phone=0812345678. The cashier flow: punch in
// the phone, see the stamp count.
func (h *CustomerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if !validate.Phone(phone) {
		writeError(w, http.StatusBadRequest, codeValidation, "phone must be a 10-digit number starting with 0")
		return
	}

	customer, err := h.store.GetCustomerByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: lookup customer: %v", err)
		writeInternalError(w)
		return
	}

	resp := dbCustomerToResponse(customer)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customer":   resp,
		"can_redeem": loyalty.CanRedeem(customer.LoyaltyStamps),
	})
}

// Register handles POST /customers. Idempotent on phone.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if !validate.Phone(req.Phone) {
		writeError(w, http.StatusBadRequest, codeValidation, "phone must be a 10-digit number starting with 0")
		return
	}

	customer, err := h.store.UpsertCustomerByPhone(r.Context(), req.Phone)
	if err != nil {
		log.Printf("ERROR: register customer: %v", err)
		writeInternalError(w)
		return
	}

	if req.Name != nil && *req.Name != "" {
		customer, err = h.store.UpdateCustomerName(r.Context(), database.UpdateCustomerNameParams{
			ID:   customer.ID,
			Name: pgtype.Text{String: *req.Name, Valid: true},
		})
		if err != nil {
			log.Printf("ERROR: set customer name: %v", err)
			writeInternalError(w)
			return
		}
	}

	writeJSON(w, http.StatusCreated, dbCustomerToResponse(customer))
}

// Get handles GET /customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid customer ID")
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbCustomerToResponse(customer))
}

// RecentBills handles GET /customers/{id}/bills, the visit history.
func (h *CustomerHandler) RecentBills(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid customer ID")
		return
	}

	if _, err := h.store.GetCustomer(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: get customer for bills: %v", err)
		writeInternalError(w)
		return
	}

	bills, err := h.store.ListRecentClosedBillsByCustomer(r.Context(), database.ListRecentClosedBillsByCustomerParams{
		CustomerID: pgtype.UUID{Bytes: id, Valid: true},
		Limit:      20,
	})
	if err != nil {
		log.Printf("ERROR: list customer bills: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = dbBillToResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateName handles PATCH /customers/{id}.
func (h *CustomerHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid customer ID")
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "name is required")
		return
	}

	customer, err := h.store.UpdateCustomerName(r.Context(), database.UpdateCustomerNameParams{
		ID:   id,
		Name: pgtype.Text{String: req.Name, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: update customer name: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbCustomerToResponse(customer))
}

// SetStamps handles PATCH /customers/{id}/stamps. Manual correction by an
// admin; the normal path is accrual on payment and redemption on bills.
func (h *CustomerHandler) SetStamps(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid customer ID")
		return
	}

	var req setStampsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if req.LoyaltyStamps < 0 {
		writeError(w, http.StatusBadRequest, codeValidation, "loyalty_stamps must be non-negative")
		return
	}

	customer, err := h.store.SetCustomerStamps(r.Context(), database.SetCustomerStampsParams{
		ID:            id,
		LoyaltyStamps: req.LoyaltyStamps,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: set customer stamps: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbCustomerToResponse(customer))
}
