package services

import (
	"context"
	"io"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardSvc computes company totals in a display currency.
type DashboardSvc interface {
	Summary(ctx context.Context, actorID string, companyID *int64, currency string) (*domain.DashboardSummary, error)
	Charts(ctx context.Context, actorID string, companyID *int64, period domain.ChartPeriod, currency string) (*domain.ChartData, error)
}

// ImportSvc turns uploaded files into transactions.
type ImportSvc interface {
	// ImportFile parses a .csv, .xlsx or .json upload named filename.
	ImportFile(ctx context.Context, actorID string, companyID *int64, filename string, r io.Reader) (*domain.ImportResult, error)
}

// InsightSvc provides heuristic categorization and spending analysis.
type InsightSvc interface {
	Categorize(ctx context.Context, description string, amount decimal.Decimal) domain.CategorySuggestion
	Insights(ctx context.Context, actorID string, companyID *int64) (*domain.Insights, error)
}

// HealthSvc reports reachability of the database and cache.
type HealthSvc interface {
	Check(ctx context.Context) domain.HealthStatus
}
