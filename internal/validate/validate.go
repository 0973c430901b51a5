// Package validate holds input checks shared by handlers: formats that are
// not enforced by database constraints.
package validate

import (
	"regexp"

	"github.com/mookrata-pos/api/internal/enum"
)

// Thai mobile numbers: leading zero plus nine digits.
var phoneRe = regexp.MustCompile(`^0[0-9]{9}$`)

// Table codes from the bootstrap pool: TABLE-01 through TABLE-50.
var tableCodeRe = regexp.MustCompile(`^TABLE-(0[1-9]|[1-4][0-9]|50)$`)

func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

func TableCode(s string) bool {
	return tableCodeRe.MatchString(s)
}

func PromotionType(s string) bool {
	return s == "PERCENT" || s == "AMOUNT"
}

func DiscountType(s string) bool {
	return s == "NONE" || s == "PERCENT" || s == "AMOUNT"
}

// Days reports whether every entry is a valid day code.
func Days(days []string) bool {
	for _, d := range days {
		if !enum.IsValidDay(d) {
			return false
		}
	}
	return true
}

func Role(s string) bool {
	return s == "ADMIN" || s == "CASHIER" || s == "READ_ONLY"
}

func TableStatus(s string) bool {
	switch s {
	case "AVAILABLE", "OCCUPIED", "RESERVED", "MAINTENANCE":
		return true
	}
	return false
}
