package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const billColumns = `id, table_id, customer_id, status, adult_count, child_count, adult_price_gross,
	discount_type, discount_value, promo_applied, loyalty_free_applied,
	subtotal_gross, vat_amount, total_gross, paid_amount, payment_method,
	opened_by, closed_by, opened_at, closed_at`

func scanBill(row pgx.Row) (Bill, error) {
	var b Bill
	err := row.Scan(
		&b.ID,
		&b.TableID,
		&b.CustomerID,
		&b.Status,
		&b.AdultCount,
		&b.ChildCount,
		&b.AdultPriceGross,
		&b.DiscountType,
		&b.DiscountValue,
		&b.PromoApplied,
		&b.LoyaltyFreeApplied,
		&b.SubtotalGross,
		&b.VatAmount,
		&b.TotalGross,
		&b.PaidAmount,
		&b.PaymentMethod,
		&b.OpenedBy,
		&b.ClosedBy,
		&b.OpenedAt,
		&b.ClosedAt,
	)
	return b, err
}

func (q *Queries) listBills(ctx context.Context, sql string, args ...any) ([]Bill, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (q *Queries) GetBill(ctx context.Context, id uuid.UUID) (Bill, error) {
	row := q.db.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	return scanBill(row)
}

// GetBillForUpdate locks the bill row (FOR NO KEY UPDATE) so concurrent
// mutations on the same bill serialize inside their transactions.
func (q *Queries) GetBillForUpdate(ctx context.Context, id uuid.UUID) (Bill, error) {
	row := q.db.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR NO KEY UPDATE`, id)
	return scanBill(row)
}

type ListBillsParams struct {
	Status pgtype.Text
	Limit  int32
	Offset int32
}

// ListBills returns bills newest first with an optional status filter.
func (q *Queries) ListBills(ctx context.Context, arg ListBillsParams) ([]Bill, error) {
	return q.listBills(ctx, `
		SELECT `+billColumns+` FROM bills
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY opened_at DESC
		LIMIT $2 OFFSET $3`,
		arg.Status, arg.Limit, arg.Offset)
}

type ListRecentClosedBillsByCustomerParams struct {
	CustomerID pgtype.UUID
	Limit      int32
}

// ListRecentClosedBillsByCustomer returns a customer's latest paid bills.
func (q *Queries) ListRecentClosedBillsByCustomer(ctx context.Context, arg ListRecentClosedBillsByCustomerParams) ([]Bill, error) {
	return q.listBills(ctx, `
		SELECT `+billColumns+` FROM bills
		WHERE customer_id = $1 AND status = 'CLOSED'
		ORDER BY opened_at DESC
		LIMIT $2`,
		arg.CustomerID, arg.Limit)
}

type CreateBillParams struct {
	TableID         uuid.UUID
	CustomerID      pgtype.UUID
	AdultCount      int32
	ChildCount      int32
	AdultPriceGross pgtype.Numeric
	PromoApplied    pgtype.Text
	SubtotalGross   pgtype.Numeric
	VatAmount       pgtype.Numeric
	TotalGross      pgtype.Numeric
	OpenedBy        uuid.UUID
}

// CreateBill inserts a new OPEN bill with no manual discount yet.
func (q *Queries) CreateBill(ctx context.Context, arg CreateBillParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO bills (
			table_id, customer_id, status, adult_count, child_count, adult_price_gross,
			discount_type, discount_value, promo_applied, loyalty_free_applied,
			subtotal_gross, vat_amount, total_gross, paid_amount, opened_by
		) VALUES ($1, $2, 'OPEN', $3, $4, $5, 'NONE', 0, $6, false, $7, $8, $9, 0, $10)
		RETURNING `+billColumns,
		arg.TableID, arg.CustomerID, arg.AdultCount, arg.ChildCount, arg.AdultPriceGross,
		arg.PromoApplied, arg.SubtotalGross, arg.VatAmount, arg.TotalGross, arg.OpenedBy)
	return scanBill(row)
}

type UpdateBillSnapshotParams struct {
	ID              uuid.UUID
	CustomerID      pgtype.UUID
	AdultCount      int32
	ChildCount      int32
	AdultPriceGross pgtype.Numeric
	DiscountType    DiscountType
	DiscountValue   pgtype.Numeric
	PromoApplied    pgtype.Text
	SubtotalGross   pgtype.Numeric
	VatAmount       pgtype.Numeric
	TotalGross      pgtype.Numeric
}

// UpdateBillSnapshot persists the result of an edit recomputation.
// The status guard is part of the query so a closed bill never mutates.
func (q *Queries) UpdateBillSnapshot(ctx context.Context, arg UpdateBillSnapshotParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE bills SET
			customer_id = $2, adult_count = $3, child_count = $4, adult_price_gross = $5,
			discount_type = $6, discount_value = $7, promo_applied = $8,
			subtotal_gross = $9, vat_amount = $10, total_gross = $11
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+billColumns,
		arg.ID, arg.CustomerID, arg.AdultCount, arg.ChildCount, arg.AdultPriceGross,
		arg.DiscountType, arg.DiscountValue, arg.PromoApplied,
		arg.SubtotalGross, arg.VatAmount, arg.TotalGross)
	return scanBill(row)
}

type ApplyBillPromotionParams struct {
	ID            uuid.UUID
	PromoApplied  pgtype.Text
	SubtotalGross pgtype.Numeric
	VatAmount     pgtype.Numeric
	TotalGross    pgtype.Numeric
}

func (q *Queries) ApplyBillPromotion(ctx context.Context, arg ApplyBillPromotionParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE bills SET
			promo_applied = $2, subtotal_gross = $3, vat_amount = $4, total_gross = $5
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+billColumns,
		arg.ID, arg.PromoApplied, arg.SubtotalGross, arg.VatAmount, arg.TotalGross)
	return scanBill(row)
}

type ApplyBillLoyaltyParams struct {
	ID            uuid.UUID
	SubtotalGross pgtype.Numeric
	VatAmount     pgtype.Numeric
	TotalGross    pgtype.Numeric
}

func (q *Queries) ApplyBillLoyalty(ctx context.Context, arg ApplyBillLoyaltyParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE bills SET
			loyalty_free_applied = true, subtotal_gross = $2, vat_amount = $3, total_gross = $4
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+billColumns,
		arg.ID, arg.SubtotalGross, arg.VatAmount, arg.TotalGross)
	return scanBill(row)
}

type CloseBillParams struct {
	ID            uuid.UUID
	PaidAmount    pgtype.Numeric
	PaymentMethod NullPaymentMethod
	ClosedBy      pgtype.UUID
}

// CloseBill transitions an OPEN bill to CLOSED recording the payment.
func (q *Queries) CloseBill(ctx context.Context, arg CloseBillParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE bills SET
			status = 'CLOSED', paid_amount = $2, payment_method = $3,
			closed_by = $4, closed_at = now()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+billColumns,
		arg.ID, arg.PaidAmount, arg.PaymentMethod, arg.ClosedBy)
	return scanBill(row)
}

type VoidBillParams struct {
	ID       uuid.UUID
	ClosedBy pgtype.UUID
}

// VoidBill transitions an OPEN bill to VOID.
func (q *Queries) VoidBill(ctx context.Context, arg VoidBillParams) (Bill, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE bills SET status = 'VOID', closed_by = $2, closed_at = now()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING `+billColumns,
		arg.ID, arg.ClosedBy)
	return scanBill(row)
}
