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
	"github.com/mookrata-pos/api/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// UserStore defines the database methods needed by user handlers.
type UserStore interface {
	ListUsers(ctx context.Context) ([]database.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	UpdateUser(ctx context.Context, arg database.UpdateUserParams) (database.User, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// UserHandler handles staff account management. All routes are admin-only.
type UserHandler struct {
	store UserStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// RegisterRoutes registers user endpoints on the given Chi router.
// Expected to be mounted at /users behind an ADMIN role check.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Deactivate)
}

// --- Request types ---

type createUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

// --- Handlers ---

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("ERROR: list users: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = dbUserToResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user ID")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		log.Printf("ERROR: get user: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbUserToResponse(user))
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	if req.Username == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "username and full_name are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, codeValidation, "password must be at least 8 characters")
		return
	}
	if !validate.Role(req.Role) {
		writeError(w, http.StatusBadRequest, codeValidation, "role must be ADMIN, CASHIER or READ_ONLY")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash password: %v", err)
		writeInternalError(w)
		return
	}

	user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
		Username:       req.Username,
		FullName:       req.FullName,
		HashedPassword: string(hashed),
		Role:           database.UserRole(req.Role),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, codeConflict, "username already taken")
			return
		}
		log.Printf("ERROR: create user: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusCreated, dbUserToResponse(user))
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user ID")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		log.Printf("ERROR: get user for update: %v", err)
		writeInternalError(w)
		return
	}

	params := database.UpdateUserParams{
		ID:       id,
		FullName: user.FullName,
		Role:     user.Role,
	}
	if req.FullName != nil {
		if *req.FullName == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "full_name cannot be empty")
			return
		}
		params.FullName = *req.FullName
	}
	if req.Role != nil {
		if !validate.Role(*req.Role) {
			writeError(w, http.StatusBadRequest, codeValidation, "role must be ADMIN, CASHIER or READ_ONLY")
			return
		}
		params.Role = database.UserRole(*req.Role)
	}

	updated, err := h.store.UpdateUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		log.Printf("ERROR: update user: %v", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dbUserToResponse(updated))
}

// Deactivate handles DELETE /users/{id}. Soft delete so closed bills keep
// their closed_by reference.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user ID")
		return
	}

	if _, err := h.store.DeactivateUser(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		log.Printf("ERROR: deactivate user: %v", err)
		writeInternalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
