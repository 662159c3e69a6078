package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	mockTxnRepo       *MockTransactionRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockInventoryRepo *MockInventoryRepository
	service           *services.DashboardService
	today             time.Time
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	clock := &fakeClock{now: time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)}
	suite.today = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewDashboardService(suite.mockTxnRepo, suite.mockInvoiceRepo, suite.mockInventoryRepo,
		staticNormalizer(), accessFor(fixtureUsers()), services.WithDashboardClock(clock.Now))
}

func (suite *DashboardServiceTestSuite) TestSummary_ConvertsToDisplayCurrency() {
	suite.mockTxnRepo.On("SumByType", mock.Anything, int64(1)).Return(decimal.NewFromInt(2024), decimal.NewFromInt(1012), nil).Once()
	suite.mockInvoiceRepo.On("CountInvoicesByStatus", mock.Anything, int64(1), domain.InvoicePending).Return(3, nil).Once()
	suite.mockInventoryRepo.On("TotalValueBase", mock.Anything, int64(1)).Return(decimal.NewFromInt(506), nil).Once()

	summary, err := suite.service.Summary(context.Background(), memberID, nil, "usd")

	suite.Require().NoError(err)
	suite.Equal("USD", summary.Currency)
	suite.Equal("200.00", summary.TotalIncome.StringFixed(2))
	suite.Equal("100.00", summary.TotalExpenses.StringFixed(2))
	suite.Equal("100.00", summary.NetProfit.StringFixed(2))
	suite.Equal("50.00", summary.InventoryValue.StringFixed(2))
	suite.Equal(3, summary.PendingInvoices)
}

func (suite *DashboardServiceTestSuite) TestSummary_DefaultsToBaseCurrency() {
	suite.mockTxnRepo.On("SumByType", mock.Anything, int64(1)).Return(decimal.NewFromInt(500), decimal.NewFromInt(700), nil).Once()
	suite.mockInvoiceRepo.On("CountInvoicesByStatus", mock.Anything, int64(1), domain.InvoicePending).Return(0, nil).Once()
	suite.mockInventoryRepo.On("TotalValueBase", mock.Anything, int64(1)).Return(decimal.Zero, nil).Once()

	summary, err := suite.service.Summary(context.Background(), memberID, nil, "")

	suite.Require().NoError(err)
	suite.Equal("MAD", summary.Currency)
	suite.Equal("-200.00", summary.NetProfit.StringFixed(2))
}

func (suite *DashboardServiceTestSuite) TestSummary_AggregateFailure() {
	suite.mockTxnRepo.On("SumByType", mock.Anything, int64(1)).Return(decimal.Zero, decimal.Zero, assert.AnError).Once()
	suite.mockInvoiceRepo.On("CountInvoicesByStatus", mock.Anything, int64(1), domain.InvoicePending).Return(0, nil).Maybe()
	suite.mockInventoryRepo.On("TotalValueBase", mock.Anything, int64(1)).Return(decimal.Zero, nil).Maybe()

	_, err := suite.service.Summary(context.Background(), memberID, nil, "MAD")

	suite.ErrorIs(err, assert.AnError)
}

func (suite *DashboardServiceTestSuite) TestSummary_OtherCompanyForbidden() {
	other := int64(2)
	_, err := suite.service.Summary(context.Background(), memberID, &other, "MAD")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DashboardServiceTestSuite) TestCharts_WeeklyZeroFillsDays() {
	start := suite.today.AddDate(0, 0, -7)
	end := suite.today.AddDate(0, 0, 1)
	daily := []domain.DailyTotal{
		{Day: time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(1000), Expenses: decimal.NewFromInt(200)},
		{Day: suite.today, Expenses: decimal.NewFromInt(50), Income: decimal.Zero},
	}
	cats := []domain.CategoryTotal{
		{Category: "", Amount: decimal.NewFromInt(50)},
		{Category: "Fuel", Amount: decimal.NewFromInt(200)},
	}
	suite.mockTxnRepo.On("DailyTotals", mock.Anything, int64(1), start, end).Return(daily, nil).Once()
	suite.mockTxnRepo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), start, end).Return(cats, nil).Once()

	charts, err := suite.service.Charts(context.Background(), memberID, nil, domain.PeriodWeekly, "")

	suite.Require().NoError(err)
	suite.Require().Len(charts.Series, 8)
	suite.Equal("2025-05-26", charts.Series[0].Period)
	suite.Equal("2025-06-02", charts.Series[7].Period)
	suite.Equal("1000.00", charts.Series[2].Income.StringFixed(2))
	suite.True(charts.Series[1].Income.IsZero())
	suite.Equal("50.00", charts.Series[7].Expenses.StringFixed(2))
	suite.Require().Len(charts.Categories, 2)
	suite.Equal("Fuel", charts.Categories[0].Category)
	suite.Equal(services.DefaultCategory, charts.Categories[1].Category)
}

func (suite *DashboardServiceTestSuite) TestCharts_SixMonthsUsesMonthBuckets() {
	start := suite.today.AddDate(0, -6, 0)
	end := suite.today.AddDate(0, 0, 1)
	daily := []domain.DailyTotal{
		{Day: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(100), Expenses: decimal.Zero},
		{Day: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(50), Expenses: decimal.NewFromInt(30)},
	}
	suite.mockTxnRepo.On("DailyTotals", mock.Anything, int64(1), start, end).Return(daily, nil).Once()
	suite.mockTxnRepo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), start, end).Return(nil, nil).Once()

	charts, err := suite.service.Charts(context.Background(), memberID, nil, domain.PeriodSixMonths, "MAD")

	suite.Require().NoError(err)
	suite.Require().Len(charts.Series, 7)
	suite.Equal("2024-12", charts.Series[0].Period)
	suite.Equal("2025-01", charts.Series[1].Period)
	suite.Equal("150.00", charts.Series[1].Income.StringFixed(2))
	suite.Equal("30.00", charts.Series[1].Expenses.StringFixed(2))
	suite.Equal("2025-06", charts.Series[6].Period)
	suite.Empty(charts.Categories)
}

func (suite *DashboardServiceTestSuite) TestCharts_DefaultsToMonthly() {
	suite.mockTxnRepo.On("DailyTotals", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Once()

	charts, err := suite.service.Charts(context.Background(), memberID, nil, "", "")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodMonthly, charts.Period)
	suite.Len(charts.Series, 31)
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
