package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expense(id string, amount int64) domain.Transaction {
	return domain.Transaction{TransactionID: id, Description: "expense " + id, Type: domain.Expense, AmountBase: decimal.NewFromInt(amount)}
}

func TestInsightService_Insights(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)}
	today := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1)
	windowStart := end.AddDate(0, 0, -30)

	repo := new(MockTransactionRepository)
	repo.On("ListExpensesSince", mock.Anything, int64(1), today.AddDate(0, 0, -90)).Return([]domain.Transaction{
		expense("a", 100), expense("b", 100), expense("c", 100), expense("d", 100), expense("e", 100), expense("f", 2000),
	}, nil).Once()
	repo.On("DailyTotals", mock.Anything, int64(1), windowStart, end).Return([]domain.DailyTotal{
		{Day: today.AddDate(0, 0, -3), Income: decimal.NewFromInt(3000), Expenses: decimal.NewFromInt(400)},
		{Day: today, Income: decimal.Zero, Expenses: decimal.NewFromInt(200)},
	}, nil).Once()
	repo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), windowStart, end).Return([]domain.CategoryTotal{
		{Category: "Fuel", Amount: decimal.NewFromInt(300)},
		{Category: "Transport", Amount: decimal.NewFromInt(100)},
		{Category: "", Amount: decimal.NewFromInt(100)},
	}, nil).Once()

	svc := services.NewInsightService(repo, accessFor(fixtureUsers()), "mad", services.WithInsightClock(clock.Now))
	insights, err := svc.Insights(ctx, memberID, nil)

	require.NoError(t, err)
	assert.Equal(t, "MAD", insights.Currency)
	require.Len(t, insights.Anomalies, 1)
	assert.Equal(t, "f", insights.Anomalies[0].TransactionID)
	assert.True(t, insights.Anomalies[0].Threshold.GreaterThan(decimal.NewFromInt(1800)))
	assert.True(t, insights.Anomalies[0].Threshold.LessThan(decimal.NewFromInt(2000)))
	assert.Equal(t, "80.00", insights.AverageDailyNet.StringFixed(2))
	assert.Equal(t, "2400.00", insights.ForecastNet30d.StringFixed(2))
	require.Len(t, insights.Spending, 3)
	assert.Equal(t, "Fuel", insights.Spending[0].Category)
	assert.Equal(t, "0.6", insights.Spending[0].Share.String())
	assert.Equal(t, services.DefaultCategory, insights.Spending[2].Category)
	repo.AssertExpectations(t)
}

func TestInsightService_SmallSampleHasNoAnomalies(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("ListExpensesSince", mock.Anything, int64(1), mock.Anything).Return([]domain.Transaction{expense("a", 10), expense("b", 5000)}, nil).Once()
	repo.On("DailyTotals", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Once()
	repo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Once()

	svc := services.NewInsightService(repo, accessFor(fixtureUsers()), "MAD")
	insights, err := svc.Insights(context.Background(), adminID, nil)

	require.NoError(t, err)
	assert.NotNil(t, insights.Anomalies)
	assert.Empty(t, insights.Anomalies)
	assert.NotNil(t, insights.Spending)
	assert.True(t, insights.ForecastNet30d.IsZero())
}

func TestInsightService_RepositoryError(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("ListExpensesSince", mock.Anything, int64(1), mock.Anything).Return(nil, assert.AnError).Once()
	repo.On("DailyTotals", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	repo.On("ExpenseTotalsByCategory", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	_, err := services.NewInsightService(repo, accessFor(fixtureUsers()), "MAD").Insights(context.Background(), memberID, nil)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestKeywordCategorizer_Suggest(t *testing.T) {
	c := services.NewKeywordCategorizer()
	tests := []struct {
		description string
		category    string
		confident   bool
	}{
		{description: "Diesel refill Tanger Med", category: "Fuel", confident: true},
		{description: "Autoroute toll A1", category: "Transport", confident: true},
		{description: "Office paper and toner", category: "Office", confident: true},
		{description: "Birthday cake", category: services.DefaultCategory, confident: false},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := c.Suggest(tt.description, decimal.NewFromInt(100))
			assert.Equal(t, tt.category, got.Category)
			if tt.confident {
				assert.GreaterOrEqual(t, got.Confidence, 0.6)
				assert.LessOrEqual(t, got.Confidence, 0.95)
			} else {
				assert.Zero(t, got.Confidence)
			}
		})
	}
}

func TestInsightService_CategorizeDelegates(t *testing.T) {
	svc := services.NewInsightService(new(MockTransactionRepository), accessFor(), "MAD")
	got := svc.Categorize(context.Background(), "fuel for truck", decimal.NewFromInt(400))
	assert.Equal(t, "Fuel", got.Category)
}
