package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type ReportRangeParams struct {
	Start time.Time
	End   time.Time
}

type GetDailySummaryRow struct {
	ClosedBills     int64
	VoidBills       int64
	TotalSalesGross pgtype.Numeric
	TotalVat        pgtype.Numeric
	TotalAdults     int64
	TotalChildren   int64
	TableTurns      int64
	LoyaltyRedeemed int64
}

// GetDailySummary aggregates closed and voided bills opened inside the range.
func (q *Queries) GetDailySummary(ctx context.Context, arg ReportRangeParams) (GetDailySummaryRow, error) {
	var r GetDailySummaryRow
	err := q.db.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'CLOSED'),
			count(*) FILTER (WHERE status = 'VOID'),
			COALESCE(sum(total_gross) FILTER (WHERE status = 'CLOSED'), 0),
			COALESCE(sum(vat_amount) FILTER (WHERE status = 'CLOSED'), 0),
			COALESCE(sum(adult_count) FILTER (WHERE status = 'CLOSED'), 0),
			COALESCE(sum(child_count) FILTER (WHERE status = 'CLOSED'), 0),
			count(DISTINCT table_id) FILTER (WHERE status = 'CLOSED'),
			count(*) FILTER (WHERE status = 'CLOSED' AND loyalty_free_applied)
		FROM bills
		WHERE opened_at >= $1 AND opened_at < $2 AND status IN ('CLOSED', 'VOID')`,
		arg.Start, arg.End).Scan(
		&r.ClosedBills,
		&r.VoidBills,
		&r.TotalSalesGross,
		&r.TotalVat,
		&r.TotalAdults,
		&r.TotalChildren,
		&r.TableTurns,
		&r.LoyaltyRedeemed,
	)
	return r, err
}

type ListHourlySalesRow struct {
	Hour      int32
	Sales     pgtype.Numeric
	Bills     int64
	Customers int64
}

// ListHourlySales breaks closed-bill sales down by opening hour.
func (q *Queries) ListHourlySales(ctx context.Context, arg ReportRangeParams) ([]ListHourlySalesRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT
			EXTRACT(HOUR FROM opened_at)::int,
			sum(total_gross),
			count(*),
			sum(adult_count + child_count)
		FROM bills
		WHERE opened_at >= $1 AND opened_at < $2 AND status = 'CLOSED'
		GROUP BY 1
		ORDER BY 1`,
		arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListHourlySalesRow
	for rows.Next() {
		var r ListHourlySalesRow
		if err := rows.Scan(&r.Hour, &r.Sales, &r.Bills, &r.Customers); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

type ListPaymentMethodBreakdownRow struct {
	PaymentMethod NullPaymentMethod
	TotalGross    pgtype.Numeric
	PaidAmount    pgtype.Numeric
	Bills         int64
}

func (q *Queries) ListPaymentMethodBreakdown(ctx context.Context, arg ReportRangeParams) ([]ListPaymentMethodBreakdownRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT payment_method, sum(total_gross), sum(paid_amount), count(*)
		FROM bills
		WHERE opened_at >= $1 AND opened_at < $2 AND status = 'CLOSED'
		GROUP BY payment_method
		ORDER BY payment_method`,
		arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListPaymentMethodBreakdownRow
	for rows.Next() {
		var r ListPaymentMethodBreakdownRow
		if err := rows.Scan(&r.PaymentMethod, &r.TotalGross, &r.PaidAmount, &r.Bills); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

type ListPromotionUsageRow struct {
	PromoApplied string
	TotalGross   pgtype.Numeric
	Bills        int64
}

func (q *Queries) ListPromotionUsage(ctx context.Context, arg ReportRangeParams) ([]ListPromotionUsageRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT promo_applied, sum(total_gross), count(*)
		FROM bills
		WHERE opened_at >= $1 AND opened_at < $2 AND status = 'CLOSED' AND promo_applied IS NOT NULL
		GROUP BY promo_applied
		ORDER BY promo_applied`,
		arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListPromotionUsageRow
	for rows.Next() {
		var r ListPromotionUsageRow
		if err := rows.Scan(&r.PromoApplied, &r.TotalGross, &r.Bills); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

type ListMonthlyStatusSummaryRow struct {
	Status        BillStatus
	TotalGross    pgtype.Numeric
	TotalVat      pgtype.Numeric
	Bills         int64
	AvgBill       pgtype.Numeric
	TotalAdults   int64
	TotalChildren int64
}

// ListMonthlyStatusSummary aggregates all bills in the range per status.
func (q *Queries) ListMonthlyStatusSummary(ctx context.Context, arg ReportRangeParams) ([]ListMonthlyStatusSummaryRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT status,
			COALESCE(sum(total_gross), 0),
			COALESCE(sum(vat_amount), 0),
			count(*),
			COALESCE(avg(total_gross), 0),
			COALESCE(sum(adult_count), 0),
			COALESCE(sum(child_count), 0)
		FROM bills
		WHERE opened_at >= $1 AND opened_at < $2
		GROUP BY status
		ORDER BY status`,
		arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListMonthlyStatusSummaryRow
	for rows.Next() {
		var r ListMonthlyStatusSummaryRow
		if err := rows.Scan(&r.Status, &r.TotalGross, &r.TotalVat, &r.Bills, &r.AvgBill, &r.TotalAdults, &r.TotalChildren); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
