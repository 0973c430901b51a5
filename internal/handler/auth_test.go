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
	"github.com/mookrata-pos/api/internal/auth"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/handler"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	users map[uuid.UUID]database.User
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{users: make(map[uuid.UUID]database.User)}
}

func (m *mockAuthStore) GetUserByUsername(_ context.Context, username string) (database.User, error) {
	for _, u := range m.users {
		if u.Username == username && u.IsActive {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (m *mockAuthStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

// --- Helpers ---

func setupAuthRouter(store *mockAuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func addUser(t *testing.T, store *mockAuthStore, username, password string, role database.UserRole) database.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := database.User{
		ID:             uuid.New(),
		Username:       username,
		FullName:       "Test User",
		HashedPassword: string(hashed),
		Role:           role,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	store.users[u.ID] = u
	return u
}

// --- Tests ---

func TestLogin(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)
	addUser(t, store, "cashier1", "secret-password", database.UserRoleCASHIER)

	body, _ := json.Marshal(map[string]string{
		"username": "cashier1",
		"password": "secret-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["access_token"] == "" {
		t.Error("expected access_token in response")
	}
	if resp["refresh_token"] == "" {
		t.Error("expected refresh_token in response")
	}
	user := resp["user"].(map[string]interface{})
	if user["username"] != "cashier1" {
		t.Errorf("username: got %v, want cashier1", user["username"])
	}
	if user["role"] != "CASHIER" {
		t.Errorf("role: got %v, want CASHIER", user["role"])
	}

	// The issued access token must validate against the same secret.
	claims, err := auth.ValidateToken(testJWTSecret, resp["access_token"].(string))
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.Role != "CASHIER" {
		t.Errorf("token role: got %s, want CASHIER", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)
	addUser(t, store, "cashier1", "secret-password", database.UserRoleCASHIER)

	body, _ := json.Marshal(map[string]string{
		"username": "cashier1",
		"password": "wrong",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	body, _ := json.Marshal(map[string]string{
		"username": "ghost",
		"password": "whatever",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	body, _ := json.Marshal(map[string]string{"username": "cashier1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "VALIDATION_ERROR" {
		t.Errorf("error code: got %s, want VALIDATION_ERROR", code)
	}
}

func TestRefresh(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)
	user := addUser(t, store, "admin1", "secret-password", database.UserRoleADMIN)

	refreshToken, err := auth.GenerateRefreshToken(testJWTSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"refresh_token": refreshToken})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["access_token"] == "" {
		t.Error("expected new access_token in response")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	body, _ := json.Marshal(map[string]string{"refresh_token": "not-a-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestRefreshDeactivatedUser(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)
	user := addUser(t, store, "gone", "secret-password", database.UserRoleCASHIER)
	user.IsActive = false
	store.users[user.ID] = user

	refreshToken, err := auth.GenerateRefreshToken(testJWTSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"refresh_token": refreshToken})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}
