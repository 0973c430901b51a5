// Package promotion selects the promotion applicable to a bill and turns it
// into an absolute discount. The caller injects "today" and "now" so
// selection never reads the wall clock.
package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion types.
const (
	TypePercent = "PERCENT"
	TypeAmount  = "AMOUNT"
)

// Promotion is the read-only view of a promotion record the selector needs.
type Promotion struct {
	Key        string
	Name       string
	Type       string
	Value      decimal.Decimal
	DaysOfWeek []string
	Active     bool
	ExpiresAt  *time.Time
}

// Eligible reports whether p may apply on the given day code at the given
// instant. An empty day set means every day.
func Eligible(p Promotion, today string, now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	if len(p.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range p.DaysOfWeek {
		if d == today {
			return true
		}
	}
	return false
}

// Select returns the first eligible promotion, or nil if none applies.
// Exactly one promotion applies per bill; callers pass promotions in
// creation order so the tie-break is deterministic.
func Select(promos []Promotion, today string, now time.Time) *Promotion {
	for i := range promos {
		if Eligible(promos[i], today, now) {
			return &promos[i]
		}
	}
	return nil
}

// Discount converts a promotion into an absolute gross discount on base.
// PERCENT scales with base, AMOUNT is flat and independent of it.
func Discount(p Promotion, base decimal.Decimal) decimal.Decimal {
	switch p.Type {
	case TypePercent:
		return base.Mul(p.Value).Div(decimal.NewFromInt(100))
	case TypeAmount:
		return p.Value
	}
	return decimal.Zero
}
