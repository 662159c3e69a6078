package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/handlers"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
)

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	userID    string

	mockAuth      *MockAuthService
	mockAccess    *MockAccessService
	mockTxn       *MockTransactionService
	mockInvoice   *MockInvoiceService
	mockRates     *MockExchangeRateService
	mockImport    *MockImportService
	mockDashboard *MockDashboardService
	mockHealth    *MockHealthService
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockAuth = new(MockAuthService)
	suite.mockAccess = new(MockAccessService)
	suite.mockTxn = new(MockTransactionService)
	suite.mockInvoice = new(MockInvoiceService)
	suite.mockRates = new(MockExchangeRateService)
	suite.mockImport = new(MockImportService)
	suite.mockDashboard = new(MockDashboardService)
	suite.mockHealth = new(MockHealthService)

	suite.router = suite.newRouter(nil)
}

func (suite *HandlerTestSuite) newRouter(loginLimiter *limiter.Limiter) *gin.Engine {
	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{
		Access:       suite.mockAccess,
		Auth:         suite.mockAuth,
		Transaction:  suite.mockTxn,
		Invoice:      suite.mockInvoice,
		ExchangeRate: suite.mockRates,
		Import:       suite.mockImport,
		Dashboard:    suite.mockDashboard,
		Health:       suite.mockHealth,
	}
	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container, nil, loginLimiter)
	return r
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "erp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) do(router *gin.Engine, method, url string, body any, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleTransaction(userID string) *domain.Transaction {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		TransactionID:    uuid.NewString(),
		CompanyID:        1,
		UserID:           userID,
		Date:             date,
		Description:      "Fuel",
		Amount:           decimal.NewFromInt(100),
		Currency:         "EUR",
		OriginalCurrency: "EUR",
		AmountBase:       decimal.NewFromInt(1080),
		ExchangeRate:     decimal.RequireFromString("10.8"),
		ExchangeRateDate: date,
		Type:             domain.Expense,
		Category:         "Transport",
		Source:           domain.SourceManual,
	}
}

// --- Health ---

func (suite *HandlerTestSuite) TestHealth_Healthy() {
	suite.mockHealth.On("Check", mock.Anything).Return(domain.HealthStatus{
		Healthy: true, Database: "up", Cache: "disabled", CheckedAt: time.Now(),
	}).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/health", nil, false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.HealthResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("healthy", resp.Status)
	suite.Equal("disabled", resp.Cache)
}

func (suite *HandlerTestSuite) TestHealth_DegradedReturns503() {
	suite.mockHealth.On("Check", mock.Anything).Return(domain.HealthStatus{
		Healthy: false, Database: "down: connection refused", Cache: "up", CheckedAt: time.Now(),
	}).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/health", nil, false)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	var resp dto.HealthResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("degraded", resp.Status)
}

// --- Auth ---

func (suite *HandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: suite.userID, Email: "admin@hdtransit.ma", Role: domain.RoleAdmin, CompanyID: 1, Status: domain.StatusActive}
	expires := time.Now().Add(time.Hour)
	req := dto.LoginRequest{Email: "admin@hdtransit.ma", Password: "secret"}
	suite.mockAuth.On("Login", mock.Anything, req).Return(user, "signed-token", expires, nil).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/login", req, false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed-token", resp.AccessToken)
	suite.Equal(expires.Unix(), resp.ExpiresAt)
	suite.Equal(suite.userID, resp.User.ID)
	suite.mockAuth.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	req := dto.LoginRequest{Email: "admin@hdtransit.ma", Password: "wrong"}
	suite.mockAuth.On("Login", mock.Anything, req).
		Return(nil, "", time.Time{}, apperrors.NewUnauthorizedError("invalid email or password")).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/login", req, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("invalid email or password", resp.Error)
}

func (suite *HandlerTestSuite) TestLogin_MalformedBody() {
	w := suite.do(suite.router, http.MethodPost, "/api/login", map[string]string{"email": "not-an-email"}, false)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "Login")
}

func (suite *HandlerTestSuite) TestLogin_RateLimited() {
	l, err := middleware.NewLoginLimiter("1-M")
	suite.Require().NoError(err)
	router := suite.newRouter(l)
	req := dto.LoginRequest{Email: "admin@hdtransit.ma", Password: "wrong"}
	suite.mockAuth.On("Login", mock.Anything, req).
		Return(nil, "", time.Time{}, apperrors.NewUnauthorizedError("invalid email or password")).Once()

	first := suite.do(router, http.MethodPost, "/api/login", req, false)
	second := suite.do(router, http.MethodPost, "/api/login", req, false)

	suite.Equal(http.StatusUnauthorized, first.Code)
	suite.Equal(http.StatusTooManyRequests, second.Code)
	suite.mockAuth.AssertNumberOfCalls(suite.T(), "Login", 1)
}

func (suite *HandlerTestSuite) TestProfile_RequiresToken() {
	w := suite.do(suite.router, http.MethodGet, "/api/user/profile", nil, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccess.AssertNotCalled(suite.T(), "ResolveActor")
}

func (suite *HandlerTestSuite) TestProfile_Success() {
	user := &domain.User{UserID: suite.userID, Name: "Driver", Role: domain.RoleUser, CompanyID: 1, Status: domain.StatusActive}
	suite.mockAccess.On("ResolveActor", mock.Anything, suite.userID).Return(user, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/user/profile", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Driver", resp.Name)
}

// --- Transactions ---

func (suite *HandlerTestSuite) TestCreateTransaction_Success() {
	txn := sampleTransaction(suite.userID)
	body := map[string]any{
		"date":        "2024-03-01",
		"description": "Fuel",
		"amount":      "100",
		"currency":    "EUR",
		"type":        "expense",
	}
	suite.mockTxn.On("CreateTransaction", mock.Anything, suite.userID,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.Description == "Fuel" && r.Amount.Equal(decimal.NewFromInt(100)) && r.Currency == "EUR"
		}),
	).Return(txn, nil).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/transactions", body, true)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(txn.TransactionID, resp.ID)
	suite.Equal("EUR", resp.OriginalCurrency)
	suite.True(resp.AmountMAD.Equal(decimal.NewFromInt(1080)))
	suite.Equal("2024-03-01", resp.Date)
	suite.mockTxn.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateTransaction_RejectsUnknownType() {
	body := map[string]any{
		"date":        "2024-03-01",
		"description": "Transfer",
		"amount":      "100",
		"type":        "transfer",
	}

	w := suite.do(suite.router, http.MethodPost, "/api/transactions", body, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxn.AssertNotCalled(suite.T(), "CreateTransaction")
}

func (suite *HandlerTestSuite) TestCreateTransaction_ServiceValidationError() {
	body := map[string]any{
		"date":        "2024-03-01",
		"description": "Fuel",
		"amount":      "-5",
		"type":        "expense",
	}
	suite.mockTxn.On("CreateTransaction", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.NewValidationError("amount must be greater than zero")).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/transactions", body, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("amount must be greater than zero", resp.Error)
}

func (suite *HandlerTestSuite) TestListTransactions_PassesFiltersAndToken() {
	txn := sampleTransaction(suite.userID)
	next := "next-page-token"
	suite.mockTxn.On("ListTransactions", mock.Anything, suite.userID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.PageSize == 10 && p.Type != nil && *p.Type == "expense" && p.NextToken == nil
		}),
	).Return([]domain.Transaction{*txn}, &next, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/transactions?type=expense&page_size=10", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListTransactions_DefaultPageSize() {
	suite.mockTxn.On("ListTransactions", mock.Anything, suite.userID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool { return p.PageSize == 50 }),
	).Return([]domain.Transaction{}, nil, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/transactions", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "next_token")
}

func (suite *HandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockTxn.On("GetTransaction", mock.Anything, suite.userID, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/transactions/missing", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteTransaction_Forbidden() {
	suite.mockTxn.On("DeleteTransaction", mock.Anything, suite.userID, "t-1").
		Return(apperrors.NewForbiddenError("access denied to this company")).Once()

	w := suite.do(suite.router, http.MethodDelete, "/api/transactions/t-1", nil, true)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestBulkImport_ReportsRowErrors() {
	body := dto.BulkImportRequest{Transactions: []dto.BulkTransactionRow{
		{Date: "2024-03-01", Description: "Fuel", Amount: "100", Type: "expense"},
		{Date: "2024-03-01", Description: "", Amount: "abc", Type: "expense"},
	}}
	suite.mockTxn.On("BulkImport", mock.Anything, suite.userID, body).Return(&domain.ImportResult{
		BatchID: "batch-1", Imported: 1, TotalRows: 2, ErrorCount: 1,
		Errors: []domain.ImportRowError{{Row: 2, Error: "missing required fields (description, amount)"}},
	}, nil).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/transactions/bulk-import", body, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ImportResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Imported)
	suite.Require().Len(resp.Errors, 1)
	suite.Equal(2, resp.Errors[0].Row)
}

func (suite *HandlerTestSuite) TestImportFile_Uploads() {
	content := "date,description,amount\n2024-03-01,Fuel,100\n"
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "march.csv")
	suite.Require().NoError(err)
	_, err = fw.Write([]byte(content))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	suite.mockImport.On("ImportFile", mock.Anything, suite.userID, (*int64)(nil), "march.csv", content).
		Return(&domain.ImportResult{BatchID: "batch-2", Imported: 1, TotalRows: 1}, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ImportResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("batch-2", resp.BatchID)
	suite.NotNil(resp.Errors)
	suite.mockImport.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestImportFile_MissingFile() {
	w := suite.do(suite.router, http.MethodPost, "/api/import-csv", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockImport.AssertNotCalled(suite.T(), "ImportFile")
}

// --- Invoices ---

func (suite *HandlerTestSuite) TestCreateInvoice_DuplicateNumber() {
	body := map[string]any{"invoice_number": "INV-001-0001", "client_name": "Atlas Freight", "amount": "1200"}
	suite.mockInvoice.On("CreateInvoice", mock.Anything, suite.userID,
		mock.MatchedBy(func(r dto.CreateInvoiceRequest) bool { return r.InvoiceNumber == "INV-001-0001" }),
	).Return(nil, apperrors.NewDuplicateError("invoice number already exists")).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/invoices", body, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListInvoices_RejectsUnknownStatus() {
	w := suite.do(suite.router, http.MethodGet, "/api/invoices?status=draft", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoice.AssertNotCalled(suite.T(), "ListInvoices")
}

func (suite *HandlerTestSuite) TestListInvoices_StatusFilter() {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := domain.Invoice{
		InvoiceID: "inv-1", CompanyID: 1, InvoiceNumber: "INV-001-0001", ClientName: "Atlas Freight",
		Amount: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(200), TotalAmount: decimal.NewFromInt(1200),
		TotalBase: decimal.NewFromInt(1200), Currency: "MAD", Status: domain.InvoicePaid,
		DateCreated: created, DateDue: created.AddDate(0, 0, 30),
	}
	suite.mockInvoice.On("ListInvoices", mock.Anything, suite.userID,
		mock.MatchedBy(func(p dto.ListInvoicesParams) bool { return p.Status != nil && *p.Status == "paid" }),
	).Return([]domain.Invoice{inv}, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/invoices?status=paid", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.InvoiceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("2024-03-31", resp[0].DateDue)
}

// --- Exchange rates ---

func (suite *HandlerTestSuite) TestGetRates() {
	snap := domain.RateSnapshot{
		Base:      "MAD",
		Rates:     map[string]decimal.Decimal{"MAD": decimal.NewFromInt(1), "EUR": decimal.RequireFromString("0.0926")},
		Source:    "static",
		FetchedAt: time.Now().UTC(),
	}
	suite.mockRates.On("GetSnapshot", mock.Anything, "MAD").Return(snap).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/exchange-rates?base=MAD", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRatesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("MAD", resp.BaseCurrency)
	suite.True(resp.Rates["EUR"].Equal(decimal.RequireFromString("0.0926")))
}

func (suite *HandlerTestSuite) TestGetRates_AcceptsAnyThreeLetterBase() {
	for _, base := range []string{"mad", "ABC"} {
		snap := domain.RateSnapshot{
			Base:  strings.ToUpper(base),
			Rates: map[string]decimal.Decimal{strings.ToUpper(base): decimal.NewFromInt(1)},
		}
		suite.mockRates.On("GetSnapshot", mock.Anything, base).Return(snap).Once()

		w := suite.do(suite.router, http.MethodGet, "/api/exchange-rates?base="+base, nil, true)

		suite.Equal(http.StatusOK, w.Code, base)
		var resp dto.ExchangeRatesResponse
		suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		suite.Equal(strings.ToUpper(base), resp.BaseCurrency)
	}
}

func (suite *HandlerTestSuite) TestGetRates_MalformedBase() {
	w := suite.do(suite.router, http.MethodGet, "/api/exchange-rates?base=M4D", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "GetSnapshot", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestConvert_InvalidAmount() {
	w := suite.do(suite.router, http.MethodGet, "/api/exchange-rates/convert?amount=ten&from=EUR&to=MAD", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "ConvertDetailed")
}

func (suite *HandlerTestSuite) TestConvert_DegradedStillSucceeds() {
	suite.mockRates.On("ConvertDetailed", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		"XYZ", "MAD",
	).Return(domain.ConversionResult{
		Amount: decimal.NewFromInt(100), From: "XYZ", To: "MAD", Rate: decimal.NewFromInt(1),
		Status: domain.ConversionDegraded, Reason: "missing rate for XYZ",
	}).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/exchange-rates/convert?amount=100&from=XYZ&to=MAD", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("degraded", resp.Status)
	suite.True(resp.Converted.Equal(decimal.NewFromInt(100)))
}

// --- Dashboard ---

func (suite *HandlerTestSuite) TestDashboardCharts_RejectsUnknownPeriod() {
	w := suite.do(suite.router, http.MethodGet, "/api/dashboard/charts?period=daily", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDashboard.AssertNotCalled(suite.T(), "Charts")
}

func (suite *HandlerTestSuite) TestDashboardSummary_InternalErrorIsMasked() {
	suite.mockDashboard.On("Summary", mock.Anything, suite.userID, (*int64)(nil), "EUR").
		Return(nil, assertErr("connection reset by peer")).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/dashboard?currency=EUR", nil, true)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.False(strings.Contains(w.Body.String(), "connection reset"))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
