// Package pricing computes the monetary breakdown of a buffet bill.
// All functions are pure: same inputs, same outputs, no clock or store access.
package pricing

import "github.com/shopspring/decimal"

// Discount types as stored on a bill.
const (
	DiscountNone    = "NONE"
	DiscountPercent = "PERCENT"
	DiscountAmount  = "AMOUNT"
)

// Input carries everything Compute needs. PromotionDiscount is an absolute
// amount already derived from the selected promotion (see promotion.Discount).
type Input struct {
	AdultCount         int32
	ChildCount         int32
	AdultPriceGross    decimal.Decimal
	VatRate            decimal.Decimal
	DiscountType       string
	DiscountValue      decimal.Decimal
	PromotionDiscount  decimal.Decimal
	LoyaltyFreeApplied bool
}

// Result is the full breakdown persisted onto the bill. TotalGross always
// equals SubtotalGross: VAT is included in the price, not added on top.
type Result struct {
	BaseGross          decimal.Decimal
	PromoGrossDiscount decimal.Decimal
	AfterPromoGross    decimal.Decimal
	LoyaltyFree        decimal.Decimal
	DiscountedGross    decimal.Decimal
	SubtotalGross      decimal.Decimal
	VatAmount          decimal.Decimal
	TotalGross         decimal.Decimal
	AdultPayingCount   int32
}

var oneHundred = decimal.NewFromInt(100)

// Compute runs the pricing pipeline in its fixed order: base, promotion,
// loyalty free head, manual discount, clamp, VAT back-out. The order is
// load-bearing; reordering the steps changes the bill total.
func Compute(in Input) Result {
	// Children eat free; only adults are charged.
	base := in.AdultPriceGross.Mul(decimal.NewFromInt32(in.AdultCount))

	afterPromo := base.Sub(in.PromotionDiscount)

	loyaltyFree := decimal.Zero
	if in.LoyaltyFreeApplied {
		loyaltyFree = in.AdultPriceGross
	}
	afterLoyalty := afterPromo.Sub(loyaltyFree)

	discounted := afterLoyalty
	switch in.DiscountType {
	case DiscountPercent:
		// DiscountValue is a percentage number 0..100, not a fraction.
		discounted = afterLoyalty.Mul(decimal.NewFromInt(1).Sub(in.DiscountValue.Div(oneHundred)))
	case DiscountAmount:
		discounted = afterLoyalty.Sub(in.DiscountValue)
	}

	// Stacked discounts may drive the value negative; clamp, never error.
	subtotal := discounted
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	// VAT is included in the gross price: vat = gross - gross/(1+rate).
	vat := subtotal.Sub(subtotal.Div(decimal.NewFromInt(1).Add(in.VatRate)))

	return Result{
		BaseGross:          base,
		PromoGrossDiscount: in.PromotionDiscount,
		AfterPromoGross:    afterPromo,
		LoyaltyFree:        loyaltyFree,
		DiscountedGross:    discounted,
		SubtotalGross:      subtotal,
		VatAmount:          vat,
		TotalGross:         subtotal,
		AdultPayingCount:   in.AdultCount,
	}
}
