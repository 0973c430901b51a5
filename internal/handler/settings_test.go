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
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/handler"
)

// --- Mock store ---

type mockSettingsStore struct {
	settings database.Setting
}

func newMockSettingsStore(t *testing.T) *mockSettingsStore {
	t.Helper()
	return &mockSettingsStore{
		settings: database.Setting{
			ID:              "singleton",
			AdultPriceGross: testNumeric(t, "299.00"),
			VatRate:         testNumeric(t, "0.07"),
			Currency:        "THB",
			RoundingMode:    database.RoundingModeNONE,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		},
	}
}

func (m *mockSettingsStore) GetSettings(_ context.Context) (database.Setting, error) {
	return m.settings, nil
}

func (m *mockSettingsStore) UpdateSettings(_ context.Context, arg database.UpdateSettingsParams) (database.Setting, error) {
	// Null params keep the stored value, mirroring the COALESCE update.
	if arg.AdultPriceGross.Valid {
		m.settings.AdultPriceGross = arg.AdultPriceGross
	}
	if arg.VatRate.Valid {
		m.settings.VatRate = arg.VatRate
	}
	if arg.PromptPayTarget.Valid {
		m.settings.PromptPayTarget = arg.PromptPayTarget
	}
	return m.settings, nil
}

// --- Helpers ---

func setupSettingsRouter(store *mockSettingsStore) *chi.Mux {
	h := handler.NewSettingsHandler(store)
	r := chi.NewRouter()
	r.Route("/settings", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

// --- Tests ---

func TestSettingsGet(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeObject(t, rr)
	if resp["adult_price_gross"] != "299.00" {
		t.Errorf("adult_price_gross: got %v, want 299.00", resp["adult_price_gross"])
	}
	if resp["vat_rate"] != "0.07" {
		t.Errorf("vat_rate: got %v, want 0.07", resp["vat_rate"])
	}
	if resp["currency"] != "THB" {
		t.Errorf("currency: got %v, want THB", resp["currency"])
	}
}

func TestSettingsUpdatePrice(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	body, _ := json.Marshal(map[string]string{"adult_price_gross": "329.00"})
	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["adult_price_gross"] != "329.00" {
		t.Errorf("adult_price_gross: got %v, want 329.00", resp["adult_price_gross"])
	}
	// VAT untouched by a price-only patch.
	if resp["vat_rate"] != "0.07" {
		t.Errorf("vat_rate: got %v, want 0.07", resp["vat_rate"])
	}
}

func TestSettingsUpdatePromptPayTarget(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	body, _ := json.Marshal(map[string]string{"prompt_pay_target": "0812345678"})
	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if resp := decodeObject(t, rr); resp["prompt_pay_target"] != "0812345678" {
		t.Errorf("prompt_pay_target: got %v, want 0812345678", resp["prompt_pay_target"])
	}
}

func TestSettingsUpdateInvalidPrice(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	body, _ := json.Marshal(map[string]string{"adult_price_gross": "-10"})
	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestSettingsUpdateVatRateBounds(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	for _, rate := range []string{"1", "1.5", "-0.01", "seven"} {
		body, _ := json.Marshal(map[string]string{"vat_rate": rate})
		req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("vat_rate %q: expected status 400, got %d", rate, rr.Code)
		}
	}
}

func TestSettingsUpdateVatRateKeepsPrecision(t *testing.T) {
	store := newMockSettingsStore(t)
	router := setupSettingsRouter(store)

	body, _ := json.Marshal(map[string]string{"vat_rate": "0.075"})
	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if resp := decodeObject(t, rr); resp["vat_rate"] != "0.075" {
		t.Errorf("vat_rate: got %v, want 0.075 (rate must not be rounded to 2 places)", resp["vat_rate"])
	}
}
