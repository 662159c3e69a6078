package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dayBucketLayout   = "2006-01-02"
	monthBucketLayout = "2006-01"
)

// DashboardService computes company totals from base-currency aggregates and converts
// them into the display currency.
type DashboardService struct {
	BaseService
	txnRepo       portsrepo.TransactionAggregator
	invoiceRepo   portsrepo.InvoiceReader
	inventoryRepo portsrepo.InventoryReader
	normalizer    portssvc.CurrencyNormalizerSvc
	now           Clock
}

// DashboardServiceOption is a functional option for configuring the dashboard service
type DashboardServiceOption func(*DashboardService)

// WithDashboardClock replaces time.Now.
func WithDashboardClock(c Clock) DashboardServiceOption {
	return func(s *DashboardService) {
		if c != nil {
			s.now = c
		}
	}
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	txnRepo portsrepo.TransactionAggregator,
	invoiceRepo portsrepo.InvoiceReader,
	inventoryRepo portsrepo.InventoryReader,
	normalizer portssvc.CurrencyNormalizerSvc,
	access portssvc.AccessAuthorizerSvc,
	options ...DashboardServiceOption,
) *DashboardService {
	s := &DashboardService{
		BaseService:   BaseService{Access: access},
		txnRepo:       txnRepo,
		invoiceRepo:   invoiceRepo,
		inventoryRepo: inventoryRepo,
		normalizer:    normalizer,
		now:           time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.DashboardSvc = (*DashboardService)(nil)

// Summary returns income, expenses, profit, pending invoices and stock value in currency.
func (s *DashboardService) Summary(ctx context.Context, actorID string, companyID *int64, currency string) (*domain.DashboardSummary, error) {
	_, cid, err := s.Access.ResolveCompany(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}
	currency = normalizeCurrency(currency, s.normalizer.BaseCurrency())

	var (
		income, expenses, stock decimal.Decimal
		pending                 int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, expenses, err = s.txnRepo.SumByType(gctx, cid)
		if err != nil {
			return fmt.Errorf("sum transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pending, err = s.invoiceRepo.CountInvoicesByStatus(gctx, cid, domain.InvoicePending)
		if err != nil {
			return fmt.Errorf("count pending invoices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stock, err = s.inventoryRepo.TotalValueBase(gctx, cid)
		if err != nil {
			return fmt.Errorf("sum inventory value: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to compute dashboard", slog.Int64("company_id", cid))
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}

	return &domain.DashboardSummary{
		TotalIncome:     s.display(ctx, income, currency),
		TotalExpenses:   s.display(ctx, expenses, currency),
		NetProfit:       s.display(ctx, income.Sub(expenses), currency),
		PendingInvoices: pending,
		InventoryValue:  s.display(ctx, stock, currency),
		Currency:        currency,
	}, nil
}

// Charts returns the income/expense series and expense categories of period. Weekly and
// monthly windows use daily buckets; longer ones use calendar months.
func (s *DashboardService) Charts(ctx context.Context, actorID string, companyID *int64, period domain.ChartPeriod, currency string) (*domain.ChartData, error) {
	_, cid, err := s.Access.ResolveCompany(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}
	currency = normalizeCurrency(currency, s.normalizer.BaseCurrency())
	if period == "" {
		period = domain.PeriodMonthly
	}

	today := startOfDay(s.now())
	start, monthly := period.Window(today)
	end := today.AddDate(0, 0, 1)

	var (
		daily []domain.DailyTotal
		cats  []domain.CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = s.txnRepo.DailyTotals(gctx, cid, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.txnRepo.ExpenseTotalsByCategory(gctx, cid, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load chart data", slog.Int64("company_id", cid), slog.String("period", string(period)))
		return nil, fmt.Errorf("failed to load chart data: %w", err)
	}

	series := bucketTotals(daily, start, today, monthly)
	for i := range series {
		series[i].Income = s.display(ctx, series[i].Income, currency)
		series[i].Expenses = s.display(ctx, series[i].Expenses, currency)
	}

	categories := make([]domain.CategoryTotal, 0, len(cats))
	for _, c := range cats {
		name := c.Category
		if name == "" {
			name = DefaultCategory
		}
		categories = append(categories, domain.CategoryTotal{Category: name, Amount: s.display(ctx, c.Amount, currency)})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount.GreaterThan(categories[j].Amount)
	})

	return &domain.ChartData{
		Period:     period,
		Currency:   currency,
		Series:     series,
		Categories: categories,
	}, nil
}

// display converts a base-currency amount and rounds it to cents.
func (s *DashboardService) display(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal {
	return s.normalizer.Convert(ctx, amount, s.normalizer.BaseCurrency(), currency).Round(2)
}

// bucketTotals spreads daily totals over contiguous day or month buckets from start to
// last, so gaps show up as zeros.
func bucketTotals(daily []domain.DailyTotal, start, last time.Time, monthly bool) []domain.PeriodTotal {
	layout := dayBucketLayout
	step := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	cursor := startOfDay(start)
	if monthly {
		layout = monthBucketLayout
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		cursor = time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	var series []domain.PeriodTotal
	index := make(map[string]int)
	for ; !cursor.After(last); cursor = step(cursor) {
		key := cursor.Format(layout)
		index[key] = len(series)
		series = append(series, domain.PeriodTotal{Period: key, Income: decimal.Zero, Expenses: decimal.Zero})
	}

	for _, d := range daily {
		i, ok := index[d.Day.UTC().Format(layout)]
		if !ok {
			continue
		}
		series[i].Income = series[i].Income.Add(d.Income)
		series[i].Expenses = series[i].Expenses.Add(d.Expenses)
	}
	return series
}
