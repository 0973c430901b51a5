package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/enum"
	"github.com/mookrata-pos/api/internal/loyalty"
	"github.com/mookrata-pos/api/internal/pricing"
	"github.com/mookrata-pos/api/internal/promotion"
	"github.com/shopspring/decimal"
)

// Errors returned by the bill service. All are expected, recoverable
// conditions the handler layer maps to stable error codes.
var (
	ErrBillNotFound          = errors.New("bill not found")
	ErrTableNotFound         = errors.New("table not found")
	ErrSettingsNotFound      = errors.New("settings not found")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrTableOccupied         = errors.New("table is not available")
	ErrInvalidState          = errors.New("bill is not open")
	ErrNoPromotion           = errors.New("no active promotion available today")
	ErrNoCustomer            = errors.New("no customer associated with this bill")
	ErrLoyaltyAlreadyApplied = errors.New("loyalty free already applied to this bill")
	ErrInsufficientPayment   = errors.New("payment amount is less than the bill total")
	ErrInvalidDiscountType   = errors.New("invalid discount type")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrNegativeCount         = errors.New("head counts must be non-negative")
	ErrNegativeDiscount      = errors.New("discount value must be non-negative")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BillStore defines the DB methods the bill state machine needs.
// Satisfied by *database.Queries (and its WithTx variant).
type BillStore interface {
	GetSettings(ctx context.Context) (database.Setting, error)
	GetTableForUpdate(ctx context.Context, id uuid.UUID) (database.Table, error)
	SetTableOccupancy(ctx context.Context, arg database.SetTableOccupancyParams) (database.Table, error)
	GetBillForUpdate(ctx context.Context, id uuid.UUID) (database.Bill, error)
	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
	UpdateBillSnapshot(ctx context.Context, arg database.UpdateBillSnapshotParams) (database.Bill, error)
	ApplyBillPromotion(ctx context.Context, arg database.ApplyBillPromotionParams) (database.Bill, error)
	ApplyBillLoyalty(ctx context.Context, arg database.ApplyBillLoyaltyParams) (database.Bill, error)
	CloseBill(ctx context.Context, arg database.CloseBillParams) (database.Bill, error)
	VoidBill(ctx context.Context, arg database.VoidBillParams) (database.Bill, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetCustomerForUpdate(ctx context.Context, id uuid.UUID) (database.Customer, error)
	UpsertCustomerByPhone(ctx context.Context, phone string) (database.Customer, error)
	SetCustomerStamps(ctx context.Context, arg database.SetCustomerStampsParams) (database.Customer, error)
	ListEligiblePromotions(ctx context.Context, arg database.ListEligiblePromotionsParams) ([]database.Promotion, error)
}

// NewBillStore creates a BillStore from a DBTX (pool or tx).
type NewBillStore func(db database.DBTX) BillStore

// BillService owns the OPEN -> CLOSED/VOID lifecycle of bills and keeps
// table occupancy consistent with it. Every transition that touches more
// than one record runs in a single transaction with row locks.
type BillService struct {
	pool     TxBeginner
	newStore NewBillStore
	now      func() time.Time
}

// NewBillService creates a new BillService using the real clock.
func NewBillService(pool TxBeginner, newStore NewBillStore) *BillService {
	return &BillService{pool: pool, newStore: newStore, now: time.Now}
}

// --- Requests / Results ---

type OpenBillRequest struct {
	TableID       uuid.UUID
	AdultCount    int32
	ChildCount    int32
	CustomerPhone string
	OpenedBy      uuid.UUID
}

type OpenBillResult struct {
	Bill     database.Bill
	Table    database.Table
	Customer *database.Customer
	Pricing  pricing.Result
}

// EditBillRequest carries the mutable fields of an open bill. Nil pointers
// keep the stored value.
type EditBillRequest struct {
	BillID        uuid.UUID
	AdultCount    *int32
	ChildCount    *int32
	DiscountType  *string
	DiscountValue *decimal.Decimal
	CustomerID    *uuid.UUID
}

type ApplyPromotionResult struct {
	Bill           database.Bill
	PromotionName  string
	DiscountAmount decimal.Decimal
}

type ApplyLoyaltyResult struct {
	Bill       database.Bill
	Customer   database.Customer
	FreeAmount decimal.Decimal
}

type PayBillRequest struct {
	BillID   uuid.UUID
	Amount   decimal.Decimal
	Method   database.PaymentMethod
	ClosedBy uuid.UUID
}

type PayBillResult struct {
	Bill        database.Bill
	Change      decimal.Decimal
	PaidAmount  decimal.Decimal
	TotalAmount decimal.Decimal
}

// --- Operations ---

// Open creates an OPEN bill on an AVAILABLE table, snapshots the adult price
// from settings, applies today's promotion if one is eligible and moves the
// table to OCCUPIED. Bill and table commit together or not at all.
func (s *BillService) Open(ctx context.Context, req OpenBillRequest) (*OpenBillResult, error) {
	if req.AdultCount < 0 || req.ChildCount < 0 {
		return nil, ErrNegativeCount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	settings, err := store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	// Lock the table row so two concurrent opens cannot both see AVAILABLE.
	table, err := store.GetTableForUpdate(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	if table.Status != database.TableStatusAVAILABLE {
		return nil, ErrTableOccupied
	}

	var customer *database.Customer
	customerID := pgtype.UUID{}
	if req.CustomerPhone != "" {
		c, err := store.UpsertCustomerByPhone(ctx, req.CustomerPhone)
		if err != nil {
			return nil, fmt.Errorf("upsert customer: %w", err)
		}
		customer = &c
		customerID = pgtype.UUID{Bytes: c.ID, Valid: true}
	}

	adultPrice := numericToDecimal(settings.AdultPriceGross)
	vatRate := numericToDecimal(settings.VatRate)

	promo, promoDiscount, err := s.selectPromotion(ctx, store, req.AdultCount, adultPrice)
	if err != nil {
		return nil, err
	}
	promoApplied := pgtype.Text{}
	if promo != nil {
		promoApplied = pgtype.Text{String: promo.Key, Valid: true}
	}

	result := pricing.Compute(pricing.Input{
		AdultCount:        req.AdultCount,
		ChildCount:        req.ChildCount,
		AdultPriceGross:   adultPrice,
		VatRate:           vatRate,
		DiscountType:      pricing.DiscountNone,
		PromotionDiscount: promoDiscount,
	})

	bill, err := store.CreateBill(ctx, database.CreateBillParams{
		TableID:         table.ID,
		CustomerID:      customerID,
		AdultCount:      req.AdultCount,
		ChildCount:      req.ChildCount,
		AdultPriceGross: decimalToNumeric(adultPrice),
		PromoApplied:    promoApplied,
		SubtotalGross:   decimalToNumeric(result.SubtotalGross),
		VatAmount:       decimalToNumeric(result.VatAmount),
		TotalGross:      decimalToNumeric(result.TotalGross),
		OpenedBy:        req.OpenedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}

	table, err = store.SetTableOccupancy(ctx, database.SetTableOccupancyParams{
		ID:            table.ID,
		Status:        database.TableStatusOCCUPIED,
		CurrentBillID: pgtype.UUID{Bytes: bill.ID, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("occupy table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OpenBillResult{Bill: bill, Table: table, Customer: customer, Pricing: result}, nil
}

// Edit updates head counts, manual discount or the linked customer of an
// OPEN bill and recomputes the snapshot. Promotion eligibility is
// re-evaluated unless a loyalty free head has been applied.
func (s *BillService) Edit(ctx context.Context, req EditBillRequest) (*database.Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	bill, err := store.GetBillForUpdate(ctx, req.BillID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status != database.BillStatusOPEN {
		return nil, ErrInvalidState
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	adultCount := bill.AdultCount
	if req.AdultCount != nil {
		adultCount = *req.AdultCount
	}
	childCount := bill.ChildCount
	if req.ChildCount != nil {
		childCount = *req.ChildCount
	}
	if adultCount < 0 || childCount < 0 {
		return nil, ErrNegativeCount
	}

	discountType := bill.DiscountType
	if req.DiscountType != nil {
		discountType = database.DiscountType(*req.DiscountType)
	}
	if !isValidDiscountType(discountType) {
		return nil, ErrInvalidDiscountType
	}

	discountValue := numericToDecimal(bill.DiscountValue)
	if req.DiscountValue != nil {
		discountValue = *req.DiscountValue
	}
	if discountValue.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	customerID := bill.CustomerID
	if req.CustomerID != nil {
		if _, err := store.GetCustomer(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("get customer: %w", err)
		}
		customerID = pgtype.UUID{Bytes: *req.CustomerID, Valid: true}
	}

	adultPrice := numericToDecimal(settings.AdultPriceGross)
	vatRate := numericToDecimal(settings.VatRate)

	// Loyalty-applied bills keep their snapshot free of promotions.
	promoDiscount := decimal.Zero
	promoApplied := pgtype.Text{}
	if !bill.LoyaltyFreeApplied {
		promo, discount, err := s.selectPromotion(ctx, store, adultCount, adultPrice)
		if err != nil {
			return nil, err
		}
		if promo != nil {
			promoDiscount = discount
			promoApplied = pgtype.Text{String: promo.Key, Valid: true}
		}
	}

	result := pricing.Compute(pricing.Input{
		AdultCount:         adultCount,
		ChildCount:         childCount,
		AdultPriceGross:    adultPrice,
		VatRate:            vatRate,
		DiscountType:       string(discountType),
		DiscountValue:      discountValue,
		PromotionDiscount:  promoDiscount,
		LoyaltyFreeApplied: bill.LoyaltyFreeApplied,
	})

	updated, err := store.UpdateBillSnapshot(ctx, database.UpdateBillSnapshotParams{
		ID:              bill.ID,
		CustomerID:      customerID,
		AdultCount:      adultCount,
		ChildCount:      childCount,
		AdultPriceGross: decimalToNumeric(adultPrice),
		DiscountType:    discountType,
		DiscountValue:   decimalToNumeric(discountValue),
		PromoApplied:    promoApplied,
		SubtotalGross:   decimalToNumeric(result.SubtotalGross),
		VatAmount:       decimalToNumeric(result.VatAmount),
		TotalGross:      decimalToNumeric(result.TotalGross),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("update bill: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &updated, nil
}

// ApplyPromotion applies today's eligible promotion to an OPEN bill.
func (s *BillService) ApplyPromotion(ctx context.Context, billID uuid.UUID) (*ApplyPromotionResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	bill, err := store.GetBillForUpdate(ctx, billID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status != database.BillStatusOPEN {
		return nil, ErrInvalidState
	}
	if bill.LoyaltyFreeApplied {
		return nil, ErrLoyaltyAlreadyApplied
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	adultPrice := numericToDecimal(settings.AdultPriceGross)
	vatRate := numericToDecimal(settings.VatRate)

	promo, promoDiscount, err := s.selectPromotion(ctx, store, bill.AdultCount, adultPrice)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrNoPromotion
	}

	result := pricing.Compute(pricing.Input{
		AdultCount:        bill.AdultCount,
		ChildCount:        bill.ChildCount,
		AdultPriceGross:   adultPrice,
		VatRate:           vatRate,
		DiscountType:      string(bill.DiscountType),
		DiscountValue:     numericToDecimal(bill.DiscountValue),
		PromotionDiscount: promoDiscount,
	})

	updated, err := store.ApplyBillPromotion(ctx, database.ApplyBillPromotionParams{
		ID:            bill.ID,
		PromoApplied:  pgtype.Text{String: promo.Key, Valid: true},
		SubtotalGross: decimalToNumeric(result.SubtotalGross),
		VatAmount:     decimalToNumeric(result.VatAmount),
		TotalGross:    decimalToNumeric(result.TotalGross),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("apply promotion: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ApplyPromotionResult{Bill: updated, PromotionName: promo.Name, DiscountAmount: promoDiscount}, nil
}

// ApplyLoyalty redeems ten stamps from the bill's customer for one free
// adult head. Stamp decrement and bill snapshot commit atomically.
func (s *BillService) ApplyLoyalty(ctx context.Context, billID uuid.UUID) (*ApplyLoyaltyResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	bill, err := store.GetBillForUpdate(ctx, billID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status != database.BillStatusOPEN {
		return nil, ErrInvalidState
	}
	if !bill.CustomerID.Valid {
		return nil, ErrNoCustomer
	}
	if bill.LoyaltyFreeApplied {
		return nil, ErrLoyaltyAlreadyApplied
	}

	customer, err := store.GetCustomerForUpdate(ctx, uuid.UUID(bill.CustomerID.Bytes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	newStamps, err := loyalty.Redeem(customer.LoyaltyStamps)
	if err != nil {
		return nil, err
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	adultPrice := numericToDecimal(settings.AdultPriceGross)
	vatRate := numericToDecimal(settings.VatRate)

	// A loyalty bill never stacks with a promotion.
	result := pricing.Compute(pricing.Input{
		AdultCount:         bill.AdultCount,
		ChildCount:         bill.ChildCount,
		AdultPriceGross:    adultPrice,
		VatRate:            vatRate,
		DiscountType:       string(bill.DiscountType),
		DiscountValue:      numericToDecimal(bill.DiscountValue),
		LoyaltyFreeApplied: true,
	})

	customer, err = store.SetCustomerStamps(ctx, database.SetCustomerStampsParams{
		ID:            customer.ID,
		LoyaltyStamps: newStamps,
	})
	if err != nil {
		return nil, fmt.Errorf("set customer stamps: %w", err)
	}

	updated, err := store.ApplyBillLoyalty(ctx, database.ApplyBillLoyaltyParams{
		ID:            bill.ID,
		SubtotalGross: decimalToNumeric(result.SubtotalGross),
		VatAmount:     decimalToNumeric(result.VatAmount),
		TotalGross:    decimalToNumeric(result.TotalGross),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("apply loyalty: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ApplyLoyaltyResult{Bill: updated, Customer: customer, FreeAmount: adultPrice}, nil
}

// Pay closes an OPEN bill against a tendered amount, frees the table and
// accrues a loyalty stamp. Bill, table and customer commit atomically.
func (s *BillService) Pay(ctx context.Context, req PayBillRequest) (*PayBillResult, error) {
	method := req.Method
	if method == "" {
		method = database.PaymentMethodCASH
	}
	if method != database.PaymentMethodCASH && method != database.PaymentMethodPROMPTPAY {
		return nil, ErrInvalidPaymentMethod
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// Lock before reading the total so two concurrent pays cannot both close
	// the bill or accrue twice.
	bill, err := store.GetBillForUpdate(ctx, req.BillID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status != database.BillStatusOPEN {
		return nil, ErrInvalidState
	}

	total := numericToDecimal(bill.TotalGross)
	if req.Amount.LessThan(total) {
		return nil, ErrInsufficientPayment
	}
	change := req.Amount.Sub(total)

	closed, err := store.CloseBill(ctx, database.CloseBillParams{
		ID:            bill.ID,
		PaidAmount:    decimalToNumeric(req.Amount),
		PaymentMethod: database.NullPaymentMethod{PaymentMethod: method, Valid: true},
		ClosedBy:      pgtype.UUID{Bytes: req.ClosedBy, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("close bill: %w", err)
	}

	if _, err := store.SetTableOccupancy(ctx, database.SetTableOccupancyParams{
		ID:     bill.TableID,
		Status: database.TableStatusAVAILABLE,
	}); err != nil {
		return nil, fmt.Errorf("free table: %w", err)
	}

	// One stamp per paid bill; skipped when the bill redeemed a free head.
	if bill.CustomerID.Valid && !bill.LoyaltyFreeApplied {
		customer, err := store.GetCustomerForUpdate(ctx, uuid.UUID(bill.CustomerID.Bytes))
		if err != nil {
			return nil, fmt.Errorf("get customer: %w", err)
		}
		if _, err := store.SetCustomerStamps(ctx, database.SetCustomerStampsParams{
			ID:            customer.ID,
			LoyaltyStamps: loyalty.Accrue(customer.LoyaltyStamps, bill.LoyaltyFreeApplied),
		}); err != nil {
			return nil, fmt.Errorf("accrue stamp: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PayBillResult{
		Bill:        closed,
		Change:      change,
		PaidAmount:  req.Amount,
		TotalAmount: total,
	}, nil
}

// Void cancels an OPEN bill without payment and frees the table. Closed
// bills cannot be voided; refunds are not modeled.
func (s *BillService) Void(ctx context.Context, billID, voidedBy uuid.UUID) (*database.Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	bill, err := store.GetBillForUpdate(ctx, billID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status != database.BillStatusOPEN {
		return nil, ErrInvalidState
	}

	voided, err := store.VoidBill(ctx, database.VoidBillParams{
		ID:       bill.ID,
		ClosedBy: pgtype.UUID{Bytes: voidedBy, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("void bill: %w", err)
	}

	if _, err := store.SetTableOccupancy(ctx, database.SetTableOccupancyParams{
		ID:     bill.TableID,
		Status: database.TableStatusAVAILABLE,
	}); err != nil {
		return nil, fmt.Errorf("free table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &voided, nil
}

// --- Helpers ---

// selectPromotion picks today's applicable promotion and its absolute
// discount on the bill's base amount. Returns (nil, 0, nil) when none apply.
func (s *BillService) selectPromotion(ctx context.Context, store BillStore, adultCount int32, adultPrice decimal.Decimal) (*promotion.Promotion, decimal.Decimal, error) {
	now := s.now()
	today := enum.DayCodeFor(now)

	rows, err := store.ListEligiblePromotions(ctx, database.ListEligiblePromotionsParams{
		Day: today,
		Now: now,
	})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list promotions: %w", err)
	}

	promos := make([]promotion.Promotion, len(rows))
	for i, p := range rows {
		promos[i] = promotionFromDB(p)
	}

	selected := promotion.Select(promos, today, now)
	if selected == nil {
		return nil, decimal.Zero, nil
	}

	base := adultPrice.Mul(decimal.NewFromInt32(adultCount))
	return selected, promotion.Discount(*selected, base), nil
}

func promotionFromDB(p database.Promotion) promotion.Promotion {
	out := promotion.Promotion{
		Key:        p.Key,
		Name:       p.Name,
		Type:       string(p.Type),
		Value:      numericToDecimal(p.Value),
		DaysOfWeek: p.DaysOfWeek,
		Active:     p.Active,
	}
	if p.ExpiresAt.Valid {
		t := p.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out
}

func isValidDiscountType(t database.DiscountType) bool {
	switch t {
	case database.DiscountTypeNONE, database.DiscountTypePERCENT, database.DiscountTypeAMOUNT:
		return true
	}
	return false
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
