package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// Stable error codes clients branch on. The message is for humans, the code
// is the contract.
const (
	codeNotFound            = "NOT_FOUND"
	codeValidation          = "VALIDATION_ERROR"
	codeInvalidState        = "INVALID_STATE"
	codeTableOccupied       = "TABLE_OCCUPIED"
	codeNoPromotion         = "NO_PROMOTION"
	codeNoCustomer          = "NO_CUSTOMER"
	codeAlreadyApplied      = "ALREADY_APPLIED"
	codeInsufficientStamps  = "INSUFFICIENT_STAMPS"
	codeInsufficientPayment = "INSUFFICIENT_PAYMENT"
	codeConflict            = "CONFLICT"
	codeInternal            = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
}

// --- Money / numeric helpers ---

func numericToString(n pgtype.Numeric) string {
	d := numericToDecimal(n)
	return d.StringFixed(2)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func pgUUIDToPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func pgTextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func pgTimeToPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// --- Response types shared across handlers ---

type billResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TableID            uuid.UUID  `json:"table_id"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	Status             string     `json:"status"`
	AdultCount         int32      `json:"adult_count"`
	ChildCount         int32      `json:"child_count"`
	AdultPriceGross    string     `json:"adult_price_gross"`
	DiscountType       string     `json:"discount_type"`
	DiscountValue      string     `json:"discount_value"`
	PromoApplied       *string    `json:"promo_applied,omitempty"`
	LoyaltyFreeApplied bool       `json:"loyalty_free_applied"`
	SubtotalGross      string     `json:"subtotal_gross"`
	VatAmount          string     `json:"vat_amount"`
	TotalGross         string     `json:"total_gross"`
	PaidAmount         string     `json:"paid_amount"`
	PaymentMethod      *string    `json:"payment_method,omitempty"`
	OpenedBy           uuid.UUID  `json:"opened_by"`
	ClosedBy           *uuid.UUID `json:"closed_by,omitempty"`
	OpenedAt           time.Time  `json:"opened_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
}

func dbBillToResponse(b database.Bill) billResponse {
	resp := billResponse{
		ID:                 b.ID,
		TableID:            b.TableID,
		CustomerID:         pgUUIDToPtr(b.CustomerID),
		Status:             string(b.Status),
		AdultCount:         b.AdultCount,
		ChildCount:         b.ChildCount,
		AdultPriceGross:    numericToString(b.AdultPriceGross),
		DiscountType:       string(b.DiscountType),
		DiscountValue:      numericToString(b.DiscountValue),
		PromoApplied:       pgTextToPtr(b.PromoApplied),
		LoyaltyFreeApplied: b.LoyaltyFreeApplied,
		SubtotalGross:      numericToString(b.SubtotalGross),
		VatAmount:          numericToString(b.VatAmount),
		TotalGross:         numericToString(b.TotalGross),
		PaidAmount:         numericToString(b.PaidAmount),
		OpenedBy:           b.OpenedBy,
		ClosedBy:           pgUUIDToPtr(b.ClosedBy),
		OpenedAt:           b.OpenedAt,
		ClosedAt:           pgTimeToPtr(b.ClosedAt),
	}
	if b.PaymentMethod.Valid {
		method := string(b.PaymentMethod.PaymentMethod)
		resp.PaymentMethod = &method
	}
	return resp
}

type tableResponse struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	CurrentBillID *uuid.UUID `json:"current_bill_id,omitempty"`
}

func dbTableToResponse(t database.Table) tableResponse {
	return tableResponse{
		ID:            t.ID,
		Code:          t.Code,
		Name:          t.Name,
		Status:        string(t.Status),
		CurrentBillID: pgUUIDToPtr(t.CurrentBillID),
	}
}

type customerResponse struct {
	ID            uuid.UUID `json:"id"`
	Phone         string    `json:"phone"`
	Name          *string   `json:"name,omitempty"`
	LoyaltyStamps int32     `json:"loyalty_stamps"`
	CreatedAt     time.Time `json:"created_at"`
}

func dbCustomerToResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:            c.ID,
		Phone:         c.Phone,
		Name:          pgTextToPtr(c.Name),
		LoyaltyStamps: c.LoyaltyStamps,
		CreatedAt:     c.CreatedAt,
	}
}

type promotionResponse struct {
	ID         uuid.UUID  `json:"id"`
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Value      string     `json:"value"`
	DaysOfWeek []string   `json:"days_of_week"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func dbPromotionToResponse(p database.Promotion) promotionResponse {
	days := p.DaysOfWeek
	if days == nil {
		days = []string{}
	}
	return promotionResponse{
		ID:         p.ID,
		Key:        p.Key,
		Name:       p.Name,
		Type:       string(p.Type),
		Value:      numericToString(p.Value),
		DaysOfWeek: days,
		Active:     p.Active,
		ExpiresAt:  pgTimeToPtr(p.ExpiresAt),
	}
}

type settingsResponse struct {
	AdultPriceGross string  `json:"adult_price_gross"`
	VatRate         string  `json:"vat_rate"`
	Currency        string  `json:"currency"`
	RoundingMode    string  `json:"rounding_mode"`
	PromptPayTarget *string `json:"prompt_pay_target,omitempty"`
}

func dbSettingsToResponse(s database.Setting) settingsResponse {
	return settingsResponse{
		AdultPriceGross: numericToString(s.AdultPriceGross),
		VatRate:         numericToDecimal(s.VatRate).String(),
		Currency:        s.Currency,
		RoundingMode:    string(s.RoundingMode),
		PromptPayTarget: pgTextToPtr(s.PromptPayTarget),
	}
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

func dbUserToResponse(u database.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}
