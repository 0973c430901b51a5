package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/handler"
	"golang.org/x/crypto/bcrypt"
)

// --- Mock store ---

type mockUserStore struct {
	users map[uuid.UUID]database.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]database.User)}
}

func (m *mockUserStore) ListUsers(_ context.Context) ([]database.User, error) {
	var result []database.User
	for _, u := range m.users {
		if u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	for _, u := range m.users {
		if u.Username == arg.Username {
			return database.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u := database.User{
		ID:             uuid.New(),
		Username:       arg.Username,
		FullName:       arg.FullName,
		HashedPassword: arg.HashedPassword,
		Role:           arg.Role,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserStore) UpdateUser(_ context.Context, arg database.UpdateUserParams) (database.User, error) {
	u, ok := m.users[arg.ID]
	if !ok || !u.IsActive {
		return database.User{}, pgx.ErrNoRows
	}
	u.FullName = arg.FullName
	u.Role = arg.Role
	m.users[arg.ID] = u
	return u, nil
}

func (m *mockUserStore) DeactivateUser(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	u.IsActive = false
	m.users[id] = u
	return id, nil
}

// --- Helpers ---

func setupUserRouter(store *mockUserStore) *chi.Mux {
	h := handler.NewUserHandler(store)
	r := chi.NewRouter()
	r.Route("/users", h.RegisterRoutes)
	return r
}

func addStaff(store *mockUserStore, username string, role database.UserRole) database.User {
	u := database.User{
		ID:        uuid.New(),
		Username:  username,
		FullName:  "Staff " + username,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	store.users[u.ID] = u
	return u
}

// --- Tests ---

func TestUserList(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)
	addStaff(store, "admin1", database.UserRoleADMIN)
	addStaff(store, "cashier1", database.UserRoleCASHIER)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeList(t, rr)
	if len(resp) != 2 {
		t.Errorf("expected 2 users, got %d", len(resp))
	}
	for _, u := range resp {
		if _, leaked := u["hashed_password"]; leaked {
			t.Error("hashed_password must never appear in responses")
		}
	}
}

func TestUserCreate(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)

	body, _ := json.Marshal(map[string]string{
		"username":  "cashier2",
		"full_name": "Second Cashier",
		"password":  "a-long-password",
		"role":      "CASHIER",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["username"] != "cashier2" {
		t.Errorf("username: got %v, want cashier2", resp["username"])
	}
	if resp["role"] != "CASHIER" {
		t.Errorf("role: got %v, want CASHIER", resp["role"])
	}

	// Stored password must be a bcrypt hash of the plaintext.
	var stored database.User
	for _, u := range store.users {
		stored = u
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("a-long-password")); err != nil {
		t.Errorf("stored password is not a valid bcrypt hash of the input: %v", err)
	}
}

func TestUserCreateShortPassword(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)

	body, _ := json.Marshal(map[string]string{
		"username":  "weak",
		"full_name": "Weak Password",
		"password":  "short",
		"role":      "CASHIER",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestUserCreateInvalidRole(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)

	body, _ := json.Marshal(map[string]string{
		"username":  "boss",
		"full_name": "The Boss",
		"password":  "a-long-password",
		"role":      "SUPERUSER",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)
	addStaff(store, "cashier1", database.UserRoleCASHIER)

	body, _ := json.Marshal(map[string]string{
		"username":  "cashier1",
		"full_name": "Duplicate",
		"password":  "a-long-password",
		"role":      "CASHIER",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestUserUpdateRole(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)
	user := addStaff(store, "cashier1", database.UserRoleCASHIER)

	body, _ := json.Marshal(map[string]string{"role": "READ_ONLY"})
	req := httptest.NewRequest(http.MethodPatch, "/users/"+user.ID.String(), bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["role"] != "READ_ONLY" {
		t.Errorf("role: got %v, want READ_ONLY", resp["role"])
	}
	// Full name untouched by a role-only patch.
	if resp["full_name"] != user.FullName {
		t.Errorf("full_name: got %v, want %s", resp["full_name"], user.FullName)
	}
}

func TestUserDeactivate(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)
	user := addStaff(store, "leaver", database.UserRoleCASHIER)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+user.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rr.Code)
	}
	if store.users[user.ID].IsActive {
		t.Error("expected user to be deactivated")
	}
}

func TestUserDeactivateNotFound(t *testing.T) {
	store := newMockUserStore()
	router := setupUserRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}
