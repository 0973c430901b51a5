package database

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BillStatus string

const (
	BillStatusOPEN   BillStatus = "OPEN"
	BillStatusCLOSED BillStatus = "CLOSED"
	BillStatusVOID   BillStatus = "VOID"
)

type TableStatus string

const (
	TableStatusAVAILABLE   TableStatus = "AVAILABLE"
	TableStatusOCCUPIED    TableStatus = "OCCUPIED"
	TableStatusRESERVED    TableStatus = "RESERVED"
	TableStatusMAINTENANCE TableStatus = "MAINTENANCE"
)

type DiscountType string

const (
	DiscountTypeNONE    DiscountType = "NONE"
	DiscountTypePERCENT DiscountType = "PERCENT"
	DiscountTypeAMOUNT  DiscountType = "AMOUNT"
)

type PromotionType string

const (
	PromotionTypePERCENT PromotionType = "PERCENT"
	PromotionTypeAMOUNT  PromotionType = "AMOUNT"
)

type PaymentMethod string

const (
	PaymentMethodCASH      PaymentMethod = "CASH"
	PaymentMethodPROMPTPAY PaymentMethod = "PROMPTPAY"
)

type UserRole string

const (
	UserRoleADMIN    UserRole = "ADMIN"
	UserRoleCASHIER  UserRole = "CASHIER"
	UserRoleREADONLY UserRole = "READ_ONLY"
)

type RoundingMode string

const (
	RoundingModeNONE    RoundingMode = "NONE"
	RoundingModeUP      RoundingMode = "UP"
	RoundingModeDOWN    RoundingMode = "DOWN"
	RoundingModeNEAREST RoundingMode = "NEAREST"
)

// NullPaymentMethod wraps PaymentMethod for the nullable bills.payment_method column.
type NullPaymentMethod struct {
	PaymentMethod PaymentMethod
	Valid         bool
}

func (n *NullPaymentMethod) Scan(value any) error {
	if value == nil {
		n.PaymentMethod, n.Valid = "", false
		return nil
	}
	switch v := value.(type) {
	case string:
		n.PaymentMethod = PaymentMethod(v)
	case []byte:
		n.PaymentMethod = PaymentMethod(v)
	default:
		return fmt.Errorf("unsupported scan type for NullPaymentMethod: %T", value)
	}
	n.Valid = true
	return nil
}

func (n NullPaymentMethod) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return string(n.PaymentMethod), nil
}

type Setting struct {
	ID              string
	AdultPriceGross pgtype.Numeric
	VatRate         pgtype.Numeric
	Currency        string
	RoundingMode    RoundingMode
	PromptPayTarget pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type User struct {
	ID             uuid.UUID
	Username       string
	FullName       string
	HashedPassword string
	Role           UserRole
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Customer struct {
	ID            uuid.UUID
	Phone         string
	Name          pgtype.Text
	LoyaltyStamps int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Promotion struct {
	ID         uuid.UUID
	Key        string
	Name       string
	Type       PromotionType
	Value      pgtype.Numeric
	DaysOfWeek []string
	Active     bool
	ExpiresAt  pgtype.Timestamptz
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Table struct {
	ID            uuid.UUID
	Code          string
	Name          string
	Status        TableStatus
	CurrentBillID pgtype.UUID
	QrSecret      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Bill struct {
	ID                 uuid.UUID
	TableID            uuid.UUID
	CustomerID         pgtype.UUID
	Status             BillStatus
	AdultCount         int32
	ChildCount         int32
	AdultPriceGross    pgtype.Numeric
	DiscountType       DiscountType
	DiscountValue      pgtype.Numeric
	PromoApplied       pgtype.Text
	LoyaltyFreeApplied bool
	SubtotalGross      pgtype.Numeric
	VatAmount          pgtype.Numeric
	TotalGross         pgtype.Numeric
	PaidAmount         pgtype.Numeric
	PaymentMethod      NullPaymentMethod
	OpenedBy           uuid.UUID
	ClosedBy           pgtype.UUID
	OpenedAt           time.Time
	ClosedAt           pgtype.Timestamptz
}
