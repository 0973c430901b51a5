package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// --- Shared test helpers ---

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// errorCode extracts the stable error code from an error envelope.
func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeObject(t, rr)
	errObj, ok := resp["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %v", resp)
	}
	code, _ := errObj["code"].(string)
	return code
}

func testNumeric(t *testing.T, value string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(value); err != nil {
		t.Fatalf("scan numeric %q: %v", value, err)
	}
	return n
}
