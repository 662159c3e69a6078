package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary holds company totals expressed in a display currency.
type DashboardSummary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetProfit       decimal.Decimal `json:"netProfit"`
	PendingInvoices int             `json:"pendingInvoices"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
	Currency        string          `json:"currency"`
}

// ChartPeriod selects the window and bucket size of the dashboard charts.
type ChartPeriod string

const (
	PeriodWeekly    ChartPeriod = "weekly"
	PeriodMonthly   ChartPeriod = "monthly"
	PeriodSixMonths ChartPeriod = "6months"
	PeriodYearly    ChartPeriod = "yearly"
)

const defaultChartSpan = 30 * 24 * time.Hour

// Window returns the start of the period ending at now and whether buckets are monthly.
func (p ChartPeriod) Window(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), false
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0), true
	case PeriodYearly:
		return now.AddDate(-1, 0, 0), true
	default:
		return now.Add(-defaultChartSpan), false
	}
}

// PeriodTotal is one bucket of the income/expense series.
type PeriodTotal struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ChartData is the payload behind the dashboard charts.
type ChartData struct {
	Period     ChartPeriod     `json:"period"`
	Currency   string          `json:"currency"`
	Series     []PeriodTotal   `json:"series"`
	Categories []CategoryTotal `json:"categories"`
}

// DailyTotal is the base-currency income and expense of a single day, used by
// aggregate queries.
type DailyTotal struct {
	Day      time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}
