package dto

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardParams selects the display currency and, for admins, the company.
type DashboardParams struct {
	Currency  string `form:"currency" binding:"omitempty,iso4217"`
	CompanyID *int64 `form:"company_id" binding:"omitempty,gt=0"`
}

// ChartParams extends DashboardParams with the chart window.
type ChartParams struct {
	DashboardParams
	Period string `form:"period" binding:"omitempty,oneof=weekly monthly yearly 6months"`
}

// DashboardResponse is the summary card data.
type DashboardResponse struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	PendingInvoices int             `json:"pending_invoices"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	Currency        string          `json:"currency"`
}

// ChartPoint is one bucket of the income/expense series.
type ChartPoint struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategoryPoint is one slice of the expense breakdown.
type CategoryPoint struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ChartResponse is the payload behind the dashboard charts.
type ChartResponse struct {
	Period     string          `json:"period"`
	Currency   string          `json:"currency"`
	Series     []ChartPoint    `json:"series"`
	Categories []CategoryPoint `json:"expense_categories"`
}

// ToDashboardResponse converts a domain.DashboardSummary to its DTO.
func ToDashboardResponse(s *domain.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		TotalIncome:     s.TotalIncome,
		TotalExpenses:   s.TotalExpenses,
		NetProfit:       s.NetProfit,
		PendingInvoices: s.PendingInvoices,
		InventoryValue:  s.InventoryValue,
		Currency:        s.Currency,
	}
}

// ToChartResponse converts domain.ChartData to its DTO.
func ToChartResponse(c *domain.ChartData) ChartResponse {
	series := make([]ChartPoint, len(c.Series))
	for i, p := range c.Series {
		series[i] = ChartPoint{Period: p.Period, Income: p.Income, Expenses: p.Expenses}
	}
	cats := make([]CategoryPoint, len(c.Categories))
	for i, ct := range c.Categories {
		cats[i] = CategoryPoint{Category: ct.Category, Amount: ct.Amount}
	}
	return ChartResponse{
		Period:     string(c.Period),
		Currency:   c.Currency,
		Series:     series,
		Categories: cats,
	}
}
