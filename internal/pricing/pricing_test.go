package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertMoney compares at 2 decimal places, the precision persisted on bills.
func assertMoney(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s: got %s, want %s", name, got.StringFixed(2), want)
	}
}

func TestCompute_FourAdults(t *testing.T) {
	r := Compute(Input{
		AdultCount:      4,
		ChildCount:      2,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
		DiscountType:    DiscountNone,
	})

	assertMoney(t, "base", r.BaseGross, "1196.00")
	assertMoney(t, "subtotal", r.SubtotalGross, "1196.00")
	assertMoney(t, "vat", r.VatAmount, "78.24")
	assertMoney(t, "total", r.TotalGross, "1196.00")
}

func TestCompute_ChildrenAreFree(t *testing.T) {
	withKids := Compute(Input{
		AdultCount: 2, ChildCount: 5,
		AdultPriceGross: dec("299.00"), VatRate: dec("0.07"),
	})
	noKids := Compute(Input{
		AdultCount: 2, ChildCount: 0,
		AdultPriceGross: dec("299.00"), VatRate: dec("0.07"),
	})
	if !withKids.TotalGross.Equal(noKids.TotalGross) {
		t.Errorf("children changed the total: %v vs %v", withKids.TotalGross, noKids.TotalGross)
	}
}

func TestCompute_PromotionDiscount(t *testing.T) {
	// 10% weekend promo on 1196 = 119.60 off.
	r := Compute(Input{
		AdultCount:        4,
		AdultPriceGross:   dec("299.00"),
		VatRate:           dec("0.07"),
		PromotionDiscount: dec("119.60"),
	})

	assertMoney(t, "after promo", r.AfterPromoGross, "1076.40")
	assertMoney(t, "subtotal", r.SubtotalGross, "1076.40")
	assertMoney(t, "total", r.TotalGross, "1076.40")
	assertMoney(t, "vat", r.VatAmount, "70.42")
}

func TestCompute_LoyaltyFreeHead(t *testing.T) {
	r := Compute(Input{
		AdultCount:         4,
		AdultPriceGross:    dec("299.00"),
		VatRate:            dec("0.07"),
		LoyaltyFreeApplied: true,
	})

	// One of four adults free: 1196 - 299 = 897.
	assertMoney(t, "loyalty free", r.LoyaltyFree, "299.00")
	assertMoney(t, "subtotal", r.SubtotalGross, "897.00")
	assertMoney(t, "total", r.TotalGross, "897.00")
}

func TestCompute_ManualPercentDiscount(t *testing.T) {
	r := Compute(Input{
		AdultCount:      4,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
		DiscountType:    DiscountPercent,
		DiscountValue:   dec("50"),
	})
	assertMoney(t, "subtotal", r.SubtotalGross, "598.00")
}

func TestCompute_ManualAmountDiscount(t *testing.T) {
	r := Compute(Input{
		AdultCount:      4,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
		DiscountType:    DiscountAmount,
		DiscountValue:   dec("96.00"),
	})
	assertMoney(t, "subtotal", r.SubtotalGross, "1100.00")
}

func TestCompute_OrderPromotionBeforeManualDiscount(t *testing.T) {
	// Percent discount applies to the post-promo amount, not the base.
	r := Compute(Input{
		AdultCount:        4,
		AdultPriceGross:   dec("299.00"),
		VatRate:           dec("0.07"),
		DiscountType:      DiscountPercent,
		DiscountValue:     dec("10"),
		PromotionDiscount: dec("119.60"),
	})
	// (1196 - 119.60) * 0.9 = 968.76
	assertMoney(t, "subtotal", r.SubtotalGross, "968.76")
}

func TestCompute_NegativeClampedToZero(t *testing.T) {
	r := Compute(Input{
		AdultCount:      1,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
		DiscountType:    DiscountAmount,
		DiscountValue:   dec("999999"),
	})
	if !r.SubtotalGross.IsZero() {
		t.Errorf("subtotal should clamp to zero, got %v", r.SubtotalGross)
	}
	if !r.VatAmount.IsZero() {
		t.Errorf("vat on zero subtotal should be zero, got %v", r.VatAmount)
	}
	if !r.TotalGross.IsZero() {
		t.Errorf("total should clamp to zero, got %v", r.TotalGross)
	}
}

func TestCompute_ZeroAdults(t *testing.T) {
	r := Compute(Input{
		AdultCount:      0,
		ChildCount:      3,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
	})
	if !r.TotalGross.IsZero() {
		t.Errorf("zero adults should cost nothing, got %v", r.TotalGross)
	}
}

func TestCompute_TotalAlwaysEqualsSubtotal(t *testing.T) {
	// VAT is included in the gross price, never added on top.
	cases := []Input{
		{AdultCount: 4, AdultPriceGross: dec("299.00"), VatRate: dec("0.07")},
		{AdultCount: 4, AdultPriceGross: dec("299.00"), VatRate: dec("0.07"), PromotionDiscount: dec("119.60")},
		{AdultCount: 4, AdultPriceGross: dec("299.00"), VatRate: dec("0.07"), LoyaltyFreeApplied: true},
		{AdultCount: 2, AdultPriceGross: dec("350.00"), VatRate: dec("0.07"), DiscountType: DiscountPercent, DiscountValue: dec("15")},
	}
	for i, in := range cases {
		r := Compute(in)
		if !r.TotalGross.Equal(r.SubtotalGross) {
			t.Errorf("case %d: total %v != subtotal %v", i, r.TotalGross, r.SubtotalGross)
		}
	}
}

func TestCompute_VatBackOutFormula(t *testing.T) {
	r := Compute(Input{
		AdultCount:      4,
		AdultPriceGross: dec("299.00"),
		VatRate:         dec("0.07"),
	})
	want := r.SubtotalGross.Sub(r.SubtotalGross.Div(dec("1.07")))
	if !r.VatAmount.Equal(want) {
		t.Errorf("vat: got %v, want %v", r.VatAmount, want)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := Input{
		AdultCount:        3,
		ChildCount:        1,
		AdultPriceGross:   dec("299.00"),
		VatRate:           dec("0.07"),
		DiscountType:      DiscountPercent,
		DiscountValue:     dec("5"),
		PromotionDiscount: dec("44.85"),
	}
	a := Compute(in)
	b := Compute(in)
	if !a.TotalGross.Equal(b.TotalGross) || !a.VatAmount.Equal(b.VatAmount) {
		t.Error("same input must produce the same breakdown")
	}
}
