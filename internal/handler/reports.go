package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// ReportStore defines the aggregate queries needed by report handlers.
type ReportStore interface {
	GetDailySummary(ctx context.Context, arg database.ReportRangeParams) (database.GetDailySummaryRow, error)
	ListHourlySales(ctx context.Context, arg database.ReportRangeParams) ([]database.ListHourlySalesRow, error)
	ListPaymentMethodBreakdown(ctx context.Context, arg database.ReportRangeParams) ([]database.ListPaymentMethodBreakdownRow, error)
	ListPromotionUsage(ctx context.Context, arg database.ReportRangeParams) ([]database.ListPromotionUsageRow, error)
	ListMonthlyStatusSummary(ctx context.Context, arg database.ReportRangeParams) ([]database.ListMonthlyStatusSummaryRow, error)
}

// ReportHandler serves the end-of-day and monthly sales reports.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted at /reports.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily", h.Daily)
	r.Get("/monthly", h.Monthly)
}

// --- Response types ---

type dailySummaryResponse struct {
	Date            string `json:"date"`
	ClosedBills     int64  `json:"closed_bills"`
	VoidBills       int64  `json:"void_bills"`
	TotalSalesGross string `json:"total_sales_gross"`
	TotalVat        string `json:"total_vat"`
	AvgBill         string `json:"avg_bill"`
	TotalAdults     int64  `json:"total_adults"`
	TotalChildren   int64  `json:"total_children"`
	TableTurns      int64  `json:"table_turns"`
	LoyaltyRedeemed int64  `json:"loyalty_redeemed"`
}

type hourlySalesResponse struct {
	Hour      int32  `json:"hour"`
	Sales     string `json:"sales"`
	Bills     int64  `json:"bills"`
	Customers int64  `json:"customers"`
}

type paymentMethodResponse struct {
	Method     string `json:"method"`
	TotalGross string `json:"total_gross"`
	PaidAmount string `json:"paid_amount"`
	Bills      int64  `json:"bills"`
}

type promotionUsageResponse struct {
	Key        string `json:"key"`
	TotalGross string `json:"total_gross"`
	Bills      int64  `json:"bills"`
}

type dailyReportResponse struct {
	Summary        dailySummaryResponse     `json:"summary"`
	HourlySales    []hourlySalesResponse    `json:"hourly_sales"`
	PaymentMethods []paymentMethodResponse  `json:"payment_methods"`
	Promotions     []promotionUsageResponse `json:"promotions"`
}

type monthlyStatusResponse struct {
	Status        string `json:"status"`
	Bills         int64  `json:"bills"`
	TotalGross    string `json:"total_gross"`
	TotalVat      string `json:"total_vat"`
	AvgBill       string `json:"avg_bill"`
	TotalAdults   int64  `json:"total_adults"`
	TotalChildren int64  `json:"total_children"`
}

type monthlyReportResponse struct {
	Month    string                  `json:"month"`
	Statuses []monthlyStatusResponse `json:"statuses"`
}

// --- Handlers ---

// Daily handles GET /reports/daily?date=2026-03-07. Defaults to today.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	rng := database.ReportRangeParams{Start: day, End: day.Add(24 * time.Hour)}

	summary, err := h.store.GetDailySummary(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: daily summary: %v", err)
		writeInternalError(w)
		return
	}
	hourly, err := h.store.ListHourlySales(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: hourly sales: %v", err)
		writeInternalError(w)
		return
	}
	methods, err := h.store.ListPaymentMethodBreakdown(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: payment breakdown: %v", err)
		writeInternalError(w)
		return
	}
	promos, err := h.store.ListPromotionUsage(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: promotion usage: %v", err)
		writeInternalError(w)
		return
	}

	avgBill := decimal.Zero
	if summary.ClosedBills > 0 {
		avgBill = numericToDecimal(summary.TotalSalesGross).
			Div(decimal.NewFromInt(summary.ClosedBills)).Round(2)
	}

	resp := dailyReportResponse{
		Summary: dailySummaryResponse{
			Date:            day.Format("2006-01-02"),
			ClosedBills:     summary.ClosedBills,
			VoidBills:       summary.VoidBills,
			TotalSalesGross: numericToString(summary.TotalSalesGross),
			TotalVat:        numericToString(summary.TotalVat),
			AvgBill:         avgBill.StringFixed(2),
			TotalAdults:     summary.TotalAdults,
			TotalChildren:   summary.TotalChildren,
			TableTurns:      summary.TableTurns,
			LoyaltyRedeemed: summary.LoyaltyRedeemed,
		},
		HourlySales:    make([]hourlySalesResponse, len(hourly)),
		PaymentMethods: make([]paymentMethodResponse, len(methods)),
		Promotions:     make([]promotionUsageResponse, len(promos)),
	}
	for i, row := range hourly {
		resp.HourlySales[i] = hourlySalesResponse{
			Hour:      row.Hour,
			Sales:     numericToString(row.Sales),
			Bills:     row.Bills,
			Customers: row.Customers,
		}
	}
	for i, row := range methods {
		method := "UNKNOWN"
		if row.PaymentMethod.Valid {
			method = string(row.PaymentMethod.PaymentMethod)
		}
		resp.PaymentMethods[i] = paymentMethodResponse{
			Method:     method,
			TotalGross: numericToString(row.TotalGross),
			PaidAmount: numericToString(row.PaidAmount),
			Bills:      row.Bills,
		}
	}
	for i, row := range promos {
		resp.Promotions[i] = promotionUsageResponse{
			Key:        row.PromoApplied,
			TotalGross: numericToString(row.TotalGross),
			Bills:      row.Bills,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Monthly handles GET /reports/monthly?month=2026-03. Defaults to the
// current month.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "month must be YYYY-MM")
			return
		}
		start = parsed
	}
	rng := database.ReportRangeParams{Start: start, End: start.AddDate(0, 1, 0)}

	rows, err := h.store.ListMonthlyStatusSummary(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: monthly summary: %v", err)
		writeInternalError(w)
		return
	}

	resp := monthlyReportResponse{
		Month:    start.Format("2006-01"),
		Statuses: make([]monthlyStatusResponse, len(rows)),
	}
	for i, row := range rows {
		resp.Statuses[i] = monthlyStatusResponse{
			Status:        string(row.Status),
			Bills:         row.Bills,
			TotalGross:    numericToString(row.TotalGross),
			TotalVat:      numericToString(row.TotalVat),
			AvgBill:       numericToString(row.AvgBill),
			TotalAdults:   row.TotalAdults,
			TotalChildren: row.TotalChildren,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
