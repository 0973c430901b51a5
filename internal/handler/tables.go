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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/middleware"
	"github.com/mookrata-pos/api/internal/qr"
	"github.com/mookrata-pos/api/internal/service"
	"github.com/mookrata-pos/api/internal/validate"
	"github.com/mookrata-pos/api/internal/ws"
)

// TableStore defines the database methods needed by table handlers.
type TableStore interface {
	ListTables(ctx context.Context) ([]database.Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (database.Table, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (database.Table, error)
	UpdateTable(ctx context.Context, arg database.UpdateTableParams) (database.Table, error)
}

// TableHandler handles table endpoints including the open-bill entry point.
type TableHandler struct {
	store   TableStore
	bills   *service.BillService
	hub     *ws.Hub
	baseURL string
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore, bills *service.BillService, hub *ws.Hub, baseURL string) *TableHandler {
	return &TableHandler{store: store, bills: bills, hub: hub, baseURL: baseURL}
}

// RegisterRoutes registers table endpoints on the given Chi router.
// Expected to be mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/qr", h.QR)
}

// RegisterWriteRoutes registers the mutating table endpoints. The router
// mounts these behind a cashier-or-admin role check.
func (h *TableHandler) RegisterWriteRoutes(r chi.Router) {
	r.Patch("/{id}", h.Update)
	r.Post("/{id}/open", h.Open)
}

// RegisterAdminRoutes registers the admin-only table endpoints.
func (h *TableHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
}

// --- Request types ---

type createTableRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type updateTableRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

type openBillRequest struct {
	AdultCount    int32  `json:"adult_count"`
	ChildCount    int32  `json:"child_count"`
	CustomerPhone string `json:"customer_phone"`
}

// --- Handlers ---

// List handles GET /tables. This is the floor view.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		log.Printf("ERROR: list tables: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = dbTableToResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /tables/{id}.
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid table ID")
		return
	}

	table, err := h.store.GetTable(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "table not found")
			return
		}
		log.Printf("ERROR: get table: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbTableToResponse(table))
}

// Create handles POST /tables.
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if !validate.TableCode(req.Code) {
		writeError(w, http.StatusBadRequest, codeValidation, "code must match TABLE-01 through TABLE-50")
		return
	}
	name := req.Name
	if name == "" {
		name = req.Code
	}

	secret, err := qr.NewSecret()
	if err != nil {
		log.Printf("ERROR: generate qr secret: %v", err)
		writeInternalError(w)
		return
	}

	table, err := h.store.CreateTable(r.Context(), database.CreateTableParams{
		Code:     req.Code,
		Name:     name,
		Status:   database.TableStatusAVAILABLE,
		QrSecret: secret,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, codeConflict, "table code already exists")
			return
		}
		log.Printf("ERROR: create table: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusCreated, dbTableToResponse(table))
}

// Update handles PATCH /tables/{id}. Occupancy is owned by the bill state
// machine; this endpoint only covers name edits and the manual
// AVAILABLE/RESERVED/MAINTENANCE states.
func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid table ID")
		return
	}

	var req updateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	table, err := h.store.GetTable(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "table not found")
			return
		}
		log.Printf("ERROR: get table for update: %v", err)
		writeInternalError(w)
		return
	}

	name := table.Name
	if req.Name != nil {
		name = *req.Name
	}
	status := table.Status
	if req.Status != nil {
		if !validate.TableStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid table status")
			return
		}
		if *req.Status == string(database.TableStatusOCCUPIED) {
			writeError(w, http.StatusConflict, codeInvalidState, "occupancy is controlled by bills")
			return
		}
		status = database.TableStatus(*req.Status)
	}

	updated, err := h.store.UpdateTable(r.Context(), database.UpdateTableParams{
		ID:     id,
		Name:   name,
		Status: status,
	})
	if err != nil {
		// The update refuses tables with an open bill.
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusConflict, codeInvalidState, "table has an open bill")
			return
		}
		log.Printf("ERROR: update table: %v", err)
		writeInternalError(w)
		return
	}

	h.hub.BroadcastJSON(ws.EventTableUpdated, dbTableToResponse(updated))
	writeJSON(w, http.StatusOK, dbTableToResponse(updated))
}

// QR handles GET /tables/{id}/qr, returning the signed check-in link that
// front-of-house prints for the table.
func (h *TableHandler) QR(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid table ID")
		return
	}

	table, err := h.store.GetTable(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "table not found")
			return
		}
		log.Printf("ERROR: get table for qr: %v", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"code": table.Code,
		"url":  qr.CheckInURL(h.baseURL, table.Code, table.QrSecret),
	})
}

// Open handles POST /tables/{id}/open, starting a new bill on the table.
func (h *TableHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid table ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeValidation, "not authenticated")
		return
	}

	var req openBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if req.CustomerPhone != "" && !validate.Phone(req.CustomerPhone) {
		writeError(w, http.StatusBadRequest, codeValidation, "customer_phone must be a 10-digit number starting with 0")
		return
	}

	result, err := h.bills.Open(r.Context(), service.OpenBillRequest{
		TableID:       id,
		AdultCount:    req.AdultCount,
		ChildCount:    req.ChildCount,
		CustomerPhone: req.CustomerPhone,
		OpenedBy:      claims.UserID,
	})
	if err != nil {
		writeBillServiceError(w, err)
		return
	}

	h.hub.BroadcastJSON(ws.EventTableUpdated, dbTableToResponse(result.Table))
	h.hub.BroadcastJSON(ws.EventBillOpened, dbBillToResponse(result.Bill))

	resp := map[string]interface{}{
		"bill":  dbBillToResponse(result.Bill),
		"table": dbTableToResponse(result.Table),
	}
	if result.Customer != nil {
		resp["customer"] = dbCustomerToResponse(*result.Customer)
	}
	writeJSON(w, http.StatusCreated, resp)
}
