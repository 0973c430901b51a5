package loyalty

import (
	"errors"
	"testing"
)

func TestCanRedeem(t *testing.T) {
	cases := []struct {
		stamps int32
		want   bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{23, true},
	}
	for _, c := range cases {
		if got := CanRedeem(c.stamps); got != c.want {
			t.Errorf("CanRedeem(%d): got %v, want %v", c.stamps, got, c.want)
		}
	}
}

func TestRedeem_Spends(t *testing.T) {
	got, err := Redeem(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("stamps after redeem: got %d, want 2", got)
	}
}

func TestRedeem_Insufficient(t *testing.T) {
	_, err := Redeem(9)
	var insufficientErr *InsufficientStampsError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientStampsError, got: %v", err)
	}
	if insufficientErr.Stamps != 9 {
		t.Errorf("error stamps: got %d, want 9", insufficientErr.Stamps)
	}
}

func TestAccrue_FlatPerBill(t *testing.T) {
	if got := Accrue(7, false); got != 8 {
		t.Errorf("Accrue(7): got %d, want 8", got)
	}
}

func TestAccrue_SkippedAfterRedemption(t *testing.T) {
	if got := Accrue(2, true); got != 2 {
		t.Errorf("Accrue after redemption: got %d, want 2", got)
	}
}
