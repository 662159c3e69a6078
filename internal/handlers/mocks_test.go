package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, time.Time, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", time.Time{}, args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, code string) (*domain.User, string, time.Time, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, "", time.Time{}, args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock AccessService ---
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) ResolveActor(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccessService) ResolveCompany(ctx context.Context, userID string, requested *int64) (*domain.User, int64, error) {
	args := m.Called(ctx, userID, requested)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccessService) RequireAdmin(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.AccessAuthorizerSvc = (*MockAccessService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, actorID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, actorID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, actorID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, actorID, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, actorID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, actorID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, actorID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, actorID string, transactionID string) error {
	args := m.Called(ctx, actorID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionService) BulkImport(ctx context.Context, actorID string, req dto.BulkImportRequest) (*domain.ImportResult, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func (m *MockTransactionService) ImportDrafts(ctx context.Context, actorID string, companyID *int64, drafts []domain.TransactionDraft, rejected []domain.ImportRowError, totalRows int, source domain.TransactionSource) (*domain.ImportResult, error) {
	args := m.Called(ctx, actorID, companyID, drafts, rejected, totalRows, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, actorID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, actorID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, actorID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, actorID string, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, actorID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, actorID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, actorID string, invoiceID string) error {
	args := m.Called(ctx, actorID, invoiceID)
	return args.Error(0)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) BaseCurrency() string {
	return m.Called().String(0)
}

func (m *MockExchangeRateService) GetRates(ctx context.Context, base string) map[string]decimal.Decimal {
	return m.Called(ctx, base).Get(0).(map[string]decimal.Decimal)
}

func (m *MockExchangeRateService) GetSnapshot(ctx context.Context, base string) domain.RateSnapshot {
	return m.Called(ctx, base).Get(0).(domain.RateSnapshot)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return m.Called(ctx, amount, from, to).Get(0).(decimal.Decimal)
}

func (m *MockExchangeRateService) ConvertDetailed(ctx context.Context, amount decimal.Decimal, from, to string) domain.ConversionResult {
	return m.Called(ctx, amount, from, to).Get(0).(domain.ConversionResult)
}

func (m *MockExchangeRateService) ListHistory(ctx context.Context, base string, target *string, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock ImportService ---
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportFile(ctx context.Context, actorID string, companyID *int64, filename string, r io.Reader) (*domain.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, actorID, companyID, filename, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

var _ portssvc.ImportSvc = (*MockImportService)(nil)

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, actorID string, companyID *int64, currency string) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, actorID, companyID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockDashboardService) Charts(ctx context.Context, actorID string, companyID *int64, period domain.ChartPeriod, currency string) (*domain.ChartData, error) {
	args := m.Called(ctx, actorID, companyID, period, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartData), args.Error(1)
}

var _ portssvc.DashboardSvc = (*MockDashboardService)(nil)

// --- Mock HealthService ---
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) domain.HealthStatus {
	return m.Called(ctx).Get(0).(domain.HealthStatus)
}

var _ portssvc.HealthSvc = (*MockHealthService)(nil)
