package qr

import (
	"strings"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	secret, err := NewSecret()
	if err != nil {
		t.Fatalf("new secret: %v", err)
	}

	sig := Sign(secret, "TABLE-01")
	if !Verify(secret, "TABLE-01", sig) {
		t.Error("valid signature should verify")
	}
}

func TestVerifyRejectsWrongTable(t *testing.T) {
	secret, _ := NewSecret()
	sig := Sign(secret, "TABLE-01")
	if Verify(secret, "TABLE-02", sig) {
		t.Error("signature for one table must not verify for another")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	secretA, _ := NewSecret()
	secretB, _ := NewSecret()
	sig := Sign(secretA, "TABLE-01")
	if Verify(secretB, "TABLE-01", sig) {
		t.Error("signature must be bound to the table secret")
	}
}

func TestSecretsAreUnique(t *testing.T) {
	a, _ := NewSecret()
	b, _ := NewSecret()
	if a == b {
		t.Error("two secrets should not collide")
	}
	if len(a) != 32 {
		t.Errorf("secret length: got %d, want 32 hex chars", len(a))
	}
}

func TestCheckInURL(t *testing.T) {
	secret, _ := NewSecret()
	u := CheckInURL("https://pos.example.com", "TABLE-07", secret)

	if !strings.HasPrefix(u, "https://pos.example.com/checkin?table=TABLE-07&sig=") {
		t.Errorf("unexpected url: %s", u)
	}
	sig := u[strings.LastIndex(u, "=")+1:]
	if !Verify(secret, "TABLE-07", sig) {
		t.Error("url signature should verify")
	}
}
