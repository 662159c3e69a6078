package services_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

// captureImporter records what the file parser hands over.
type captureImporter struct {
	drafts   []domain.TransactionDraft
	rejected []domain.ImportRowError
	total    int
	source   domain.TransactionSource
	result   *domain.ImportResult
	err      error
}

func (c *captureImporter) BulkImport(context.Context, string, dto.BulkImportRequest) (*domain.ImportResult, error) {
	return nil, fmt.Errorf("not used")
}

func (c *captureImporter) ImportDrafts(_ context.Context, _ string, _ *int64, drafts []domain.TransactionDraft, rejected []domain.ImportRowError, totalRows int, source domain.TransactionSource) (*domain.ImportResult, error) {
	c.drafts, c.rejected, c.total, c.source = drafts, rejected, totalRows, source
	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	return &domain.ImportResult{BatchID: "batch", Imported: len(drafts), TotalRows: totalRows, ErrorCount: len(rejected), Errors: rejected}, nil
}

type ImportServiceTestSuite struct {
	suite.Suite
	importer *captureImporter
	service  *services.ImportService
	today    time.Time
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.importer = &captureImporter{}
	clock := &fakeClock{now: time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)}
	suite.today = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewImportService(suite.importer, "MAD", services.WithImportClock(clock.Now))
}

func (suite *ImportServiceTestSuite) TestCSV_ParsesAndRejectsRows() {
	csv := "\xef\xbb\xbfDate,Description,Amount,Currency,Type,Category\n" +
		"2025-05-01,Diesel Tanger,\"1,200.50\",usd,expense,\n" +
		"2025-05-02,Missing amount,,,expense,\n" +
		",,,,,\n" +
		"02/05/2025,Client payment,5000,,income,Sales\n" +
		"2025-05-03,Weird,10,,refund,\n"

	result, err := suite.service.ImportFile(context.Background(), memberID, nil, "ledger.CSV", strings.NewReader(csv))

	suite.Require().NoError(err)
	suite.Equal(domain.SourceCSVImport, suite.importer.source)
	suite.Equal(4, suite.importer.total)
	suite.Require().Len(suite.importer.drafts, 2)

	first := suite.importer.drafts[0]
	suite.Equal(2, first.Row)
	suite.Equal("1200.5", first.Amount.String())
	suite.Equal("USD", first.Currency)
	suite.Equal("Fuel", first.Category)
	suite.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), first.Date)

	second := suite.importer.drafts[1]
	suite.Equal(4, second.Row)
	suite.Equal(domain.Income, second.Type)
	suite.Equal("MAD", second.Currency)
	suite.Equal("Sales", second.Category)
	suite.Equal(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), second.Date)

	suite.Require().Len(suite.importer.rejected, 2)
	suite.Equal(3, suite.importer.rejected[0].Row)
	suite.Contains(suite.importer.rejected[0].Error, "missing required fields")
	suite.Equal(5, suite.importer.rejected[1].Row)
	suite.Equal(2, result.Imported)
}

func (suite *ImportServiceTestSuite) TestCSV_Latin1AndDefaults() {
	raw := []byte("description,amount,date\nCaf\xe9 fournitures,45,not-a-date\n")

	_, err := suite.service.ImportFile(context.Background(), memberID, nil, "latin.csv", bytes.NewReader(raw))

	suite.Require().NoError(err)
	suite.Require().Len(suite.importer.drafts, 1)
	draft := suite.importer.drafts[0]
	suite.Equal("Café fournitures", draft.Description)
	suite.Equal(domain.Expense, draft.Type)
	suite.Equal("Office", draft.Category)
	suite.Equal(suite.today, draft.Date)
}

func (suite *ImportServiceTestSuite) TestJSON() {
	body := `[{"Date":"2025-05-10T08:30:00Z","Description":"Toll A7","Amount":12.5,"Type":"expense"},{"description":"","amount":1}]`

	_, err := suite.service.ImportFile(context.Background(), memberID, nil, "rows.json", strings.NewReader(body))

	suite.Require().NoError(err)
	suite.Equal(2, suite.importer.total)
	suite.Require().Len(suite.importer.drafts, 1)
	suite.Equal("12.5", suite.importer.drafts[0].Amount.String())
	suite.Equal("Transport", suite.importer.drafts[0].Category)
	suite.Equal(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), suite.importer.drafts[0].Date)
	suite.Require().Len(suite.importer.rejected, 1)
	suite.Equal(3, suite.importer.rejected[0].Row)
}

func (suite *ImportServiceTestSuite) TestXLSX() {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	suite.Require().NoError(f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount", "Currency"}))
	suite.Require().NoError(f.SetSheetRow(sheet, "A2", &[]any{"2025-04-30", "Garage repair", "300", "EUR"}))
	buf, err := f.WriteToBuffer()
	suite.Require().NoError(err)

	_, err = suite.service.ImportFile(context.Background(), memberID, nil, "book.xlsx", buf)

	suite.Require().NoError(err)
	suite.Require().Len(suite.importer.drafts, 1)
	draft := suite.importer.drafts[0]
	suite.Equal("Maintenance", draft.Category)
	suite.Equal("EUR", draft.Currency)
	suite.Equal("300", draft.Amount.String())
}

func (suite *ImportServiceTestSuite) TestRejectsUnsupportedAndEmptyFiles() {
	_, err := suite.service.ImportFile(context.Background(), memberID, nil, "rows.xls", strings.NewReader("x"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "invalid file type")

	_, err = suite.service.ImportFile(context.Background(), memberID, nil, "empty.csv", strings.NewReader("description,amount\n"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "no data found")

	_, err = suite.service.ImportFile(context.Background(), memberID, nil, "bad.json", strings.NewReader(`{"a":1}`))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ImportServiceTestSuite) TestTruncatesReportedErrors() {
	errs := make([]domain.ImportRowError, 15)
	for i := range errs {
		errs[i] = domain.ImportRowError{Row: i + 2, Error: "bad"}
	}
	suite.importer.result = &domain.ImportResult{TotalRows: 15, ErrorCount: 15, Errors: errs}

	result, err := suite.service.ImportFile(context.Background(), memberID, nil, "x.csv", strings.NewReader("description,amount\na,1\n"))

	suite.Require().NoError(err)
	suite.Len(result.Errors, 10)
	suite.Equal(15, result.ErrorCount)
}

func (suite *ImportServiceTestSuite) TestImporterErrorPropagates() {
	suite.importer.err = apperrors.NewForbiddenError("access to this company is not allowed")

	_, err := suite.service.ImportFile(context.Background(), memberID, nil, "x.csv", strings.NewReader("description,amount\na,1\n"))

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestImportService(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}

// TestImportService_EndToEnd runs a CSV through the real transaction importer.
func TestImportService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	var saved []domain.Transaction
	repo.On("SaveTransactions", ctx, mock.AnythingOfType("[]domain.Transaction")).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.Transaction)
	}).Return(nil).Once()

	txnSvc := services.NewTransactionService(repo, staticNormalizer(), accessFor(fixtureUsers()))
	svc := services.NewImportService(txnSvc, "MAD")

	result, err := svc.ImportFile(ctx, memberID, nil, "ledger.csv", strings.NewReader("date,description,amount,currency\n2025-05-01,Diesel,100,USD\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, saved, 1)
	assert.Equal(t, "1012.00", saved[0].AmountBase.Round(2).StringFixed(2))
	assert.Equal(t, domain.SourceCSVImport, saved[0].Source)
	assert.NotNil(t, saved[0].ImportBatchID)
}
