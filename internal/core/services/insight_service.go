package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	anomalyLookbackDays  = 90
	forecastWindowDays   = 30
	minAnomalySample     = 3
	maxSpendingInsights  = 5
	anomalyStdDevFactor  = 2
	spendingShareDecimal = 4
)

// InsightService provides heuristic categorization and spending analysis over
// base-currency amounts.
type InsightService struct {
	BaseService
	txnRepo     insightTransactionReader
	categorizer Categorizer
	baseCcy     string
	now         Clock
}

type insightTransactionReader interface {
	portsrepo.TransactionReader
	portsrepo.TransactionAggregator
}

// InsightServiceOption is a functional option for configuring the insight service
type InsightServiceOption func(*InsightService)

// WithInsightCategorizer replaces the keyword categorizer.
func WithInsightCategorizer(c Categorizer) InsightServiceOption {
	return func(s *InsightService) {
		if c != nil {
			s.categorizer = c
		}
	}
}

// WithInsightClock replaces time.Now.
func WithInsightClock(c Clock) InsightServiceOption {
	return func(s *InsightService) {
		if c != nil {
			s.now = c
		}
	}
}

// NewInsightService creates a new InsightService. Amounts are reported in baseCurrency.
func NewInsightService(txnRepo portsrepo.TransactionRepositoryFacade, access portssvc.AccessAuthorizerSvc, baseCurrency string, options ...InsightServiceOption) *InsightService {
	s := &InsightService{
		BaseService: BaseService{Access: access},
		txnRepo:     txnRepo,
		categorizer: NewKeywordCategorizer(),
		baseCcy:     normalizeCurrency(baseCurrency, domain.ReferenceCurrency),
		now:         time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.InsightSvc = (*InsightService)(nil)

// Categorize suggests a category for a description.
func (s *InsightService) Categorize(ctx context.Context, description string, amount decimal.Decimal) domain.CategorySuggestion {
	suggestion := s.categorizer.Suggest(description, amount)
	s.LogDebug(ctx, "Categorized description",
		slog.String("category", suggestion.Category),
		slog.Float64("confidence", suggestion.Confidence))
	return suggestion
}

// Insights flags unusual expenses, projects the next 30 days of net cash flow and ranks
// the largest expense categories.
func (s *InsightService) Insights(ctx context.Context, actorID string, companyID *int64) (*domain.Insights, error) {
	_, cid, err := s.Access.ResolveCompany(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	end := today.AddDate(0, 0, 1)
	windowStart := end.AddDate(0, 0, -forecastWindowDays)

	var (
		expenses []domain.Transaction
		daily    []domain.DailyTotal
		cats     []domain.CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.txnRepo.ListExpensesSince(gctx, cid, today.AddDate(0, 0, -anomalyLookbackDays))
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.txnRepo.DailyTotals(gctx, cid, windowStart, end)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.txnRepo.ExpenseTotalsByCategory(gctx, cid, windowStart, end)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load insight data", slog.Int64("company_id", cid))
		return nil, fmt.Errorf("failed to compute insights: %w", err)
	}

	avg := averageDailyNet(daily, forecastWindowDays)
	return &domain.Insights{
		Anomalies:       detectAnomalies(expenses),
		AverageDailyNet: avg.Round(2),
		ForecastNet30d:  avg.Mul(decimal.NewFromInt(forecastWindowDays)).Round(2),
		Spending:        spendingShares(cats),
		Currency:        s.baseCcy,
	}, nil
}

// detectAnomalies returns expenses above mean + 2 standard deviations. Small samples
// yield nothing.
func detectAnomalies(expenses []domain.Transaction) []domain.Anomaly {
	if len(expenses) < minAnomalySample {
		return []domain.Anomaly{}
	}

	n := decimal.NewFromInt(int64(len(expenses)))
	sum := decimal.Zero
	for _, t := range expenses {
		sum = sum.Add(t.AmountBase)
	}
	mean := sum.Div(n)

	variance := decimal.Zero
	for _, t := range expenses {
		d := t.AmountBase.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(n)
	stddev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	threshold := mean.Add(stddev.Mul(decimal.NewFromInt(anomalyStdDevFactor))).Round(2)

	anomalies := []domain.Anomaly{}
	for _, t := range expenses {
		if t.AmountBase.GreaterThan(threshold) {
			anomalies = append(anomalies, domain.Anomaly{
				TransactionID: t.TransactionID,
				Description:   t.Description,
				AmountBase:    t.AmountBase,
				Threshold:     threshold,
			})
		}
	}
	return anomalies
}

// averageDailyNet divides net income over the window by its length in days.
func averageDailyNet(daily []domain.DailyTotal, days int) decimal.Decimal {
	net := decimal.Zero
	for _, d := range daily {
		net = net.Add(d.Income).Sub(d.Expenses)
	}
	return net.Div(decimal.NewFromInt(int64(days)))
}

// spendingShares returns the largest categories with their share of total expenses.
// cats must be sorted largest first.
func spendingShares(cats []domain.CategoryTotal) []domain.SpendingInsight {
	total := decimal.Zero
	for _, c := range cats {
		total = total.Add(c.Amount)
	}
	out := []domain.SpendingInsight{}
	if !total.IsPositive() {
		return out
	}
	for i, c := range cats {
		if i == maxSpendingInsights {
			break
		}
		name := c.Category
		if name == "" {
			name = DefaultCategory
		}
		out = append(out, domain.SpendingInsight{
			Category: name,
			Amount:   c.Amount.Round(2),
			Share:    c.Amount.Div(total).Round(spendingShareDecimal),
		})
	}
	return out
}
