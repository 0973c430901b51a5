// Package loyalty implements the stamp ledger rules: ten stamps buy one free
// adult head, one stamp accrues per paid bill.
package loyalty

import "fmt"

// RedeemCost is the number of stamps one free adult head costs.
const RedeemCost = 10

// InsufficientStampsError reports a redemption attempt below the threshold.
// It carries the current count for the user-facing message.
type InsufficientStampsError struct {
	Stamps int32
}

func (e *InsufficientStampsError) Error() string {
	return fmt.Sprintf("customer needs %d stamps to redeem, has %d", RedeemCost, e.Stamps)
}

// CanRedeem reports whether the customer has enough stamps for a free head.
func CanRedeem(stamps int32) bool {
	return stamps >= RedeemCost
}

// Redeem returns the stamp count after spending a redemption.
func Redeem(stamps int32) (int32, error) {
	if !CanRedeem(stamps) {
		return stamps, &InsufficientStampsError{Stamps: stamps}
	}
	return stamps - RedeemCost, nil
}

// Accrue returns the stamp count after a successfully paid bill: +1 flat,
// unless the bill already redeemed a free head (no double-dipping).
func Accrue(stamps int32, loyaltyFreeApplied bool) int32 {
	if loyaltyFreeApplied {
		return stamps
	}
	return stamps + 1
}
