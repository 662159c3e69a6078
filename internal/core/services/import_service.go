package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	maxReportedImportErrors = 10
	// firstDataRow is the row number of the first record, counting the header as row 1.
	firstDataRow = 2
)

// importDateLayouts are tried in order; a date matching none falls back to today.
var importDateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2006/01/02"}

// ImportService parses uploaded spreadsheets into transaction drafts and hands them to
// the transaction importer.
type ImportService struct {
	BaseService
	importer    portssvc.TransactionImporterSvc
	categorizer Categorizer
	baseCcy     string
	now         Clock
}

// ImportServiceOption is a functional option for configuring the import service
type ImportServiceOption func(*ImportService)

// WithImportCategorizer replaces the keyword categorizer.
func WithImportCategorizer(c Categorizer) ImportServiceOption {
	return func(s *ImportService) {
		if c != nil {
			s.categorizer = c
		}
	}
}

// WithImportClock replaces time.Now.
func WithImportClock(c Clock) ImportServiceOption {
	return func(s *ImportService) {
		if c != nil {
			s.now = c
		}
	}
}

// NewImportService creates a new ImportService. Rows without a currency use baseCurrency.
func NewImportService(importer portssvc.TransactionImporterSvc, baseCurrency string, options ...ImportServiceOption) *ImportService {
	s := &ImportService{
		importer:    importer,
		categorizer: NewKeywordCategorizer(),
		baseCcy:     normalizeCurrency(baseCurrency, domain.ReferenceCurrency),
		now:         time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.ImportSvc = (*ImportService)(nil)

// ImportFile parses a .csv, .xlsx or .json upload and imports its rows. Only the first
// rejected rows are reported; ErrorCount has the total.
func (s *ImportService) ImportFile(ctx context.Context, actorID string, companyID *int64, filename string, r io.Reader) (*domain.ImportResult, error) {
	records, err := s.parse(filename, r)
	if err != nil {
		s.LogWarn(ctx, "Rejected import file", slog.String("filename", filename), slog.String("error", err.Error()))
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("no data found in file")
	}

	drafts := make([]domain.TransactionDraft, 0, len(records))
	var rejected []domain.ImportRowError
	for i, rec := range records {
		row := i + firstDataRow
		draft, msg := s.draftFromRecord(row, rec)
		if msg != "" {
			rejected = append(rejected, domain.ImportRowError{Row: row, Error: msg})
			continue
		}
		drafts = append(drafts, draft)
	}

	result, err := s.importer.ImportDrafts(ctx, actorID, companyID, drafts, rejected, len(records), domain.SourceCSVImport)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > maxReportedImportErrors {
		result.Errors = result.Errors[:maxReportedImportErrors]
	}
	s.LogInfo(ctx, "File imported",
		slog.String("filename", filename),
		slog.Int("rows", len(records)),
		slog.Int("imported", result.Imported))
	return result, nil
}

// parse dispatches on the file extension and returns records keyed by lower-cased header.
func (s *ImportService) parse(filename string, r io.Reader) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		return parseCSV(raw)
	case ".xlsx":
		return parseXLSX(r)
	case ".json":
		return parseJSONRecords(r)
	default:
		return nil, apperrors.NewValidationError("invalid file type, allowed: csv, xlsx, json")
	}
}

func parseCSV(raw []byte) ([]map[string]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("file is neither UTF-8 nor Latin-1 text")
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("failed to process file: %v", err))
	}
	return recordsFromRows(rows), nil
}

func parseXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("failed to process file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("failed to process file: %v", err))
	}
	return recordsFromRows(rows), nil
}

func parseJSONRecords(r io.Reader) ([]map[string]string, error) {
	var items []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, apperrors.NewValidationError("json upload must be an array of objects")
	}

	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rec := make(map[string]string, len(item))
		for k, v := range item {
			if v == nil {
				continue
			}
			if val := strings.TrimSpace(fmt.Sprint(v)); val != "" {
				rec[strings.ToLower(strings.TrimSpace(k))] = val
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

// recordsFromRows uses the first row as headers and drops blank rows.
func recordsFromRows(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if val := strings.TrimSpace(cell); val != "" {
				rec[headers[i]] = val
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// draftFromRecord applies the lenient file rules: thousands separators are stripped,
// unparseable dates become today and missing types become expenses.
func (s *ImportService) draftFromRecord(row int, rec map[string]string) (domain.TransactionDraft, string) {
	desc, rawAmount := rec["description"], rec["amount"]
	if desc == "" || rawAmount == "" {
		return domain.TransactionDraft{}, "missing required fields (description, amount)"
	}

	cleaned := strings.NewReplacer(",", "", " ", "", " ", "").Replace(rawAmount)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return domain.TransactionDraft{}, fmt.Sprintf("invalid amount %q", rawAmount)
	}

	txType := domain.Expense
	if t := strings.ToLower(rec["type"]); t != "" {
		txType = domain.TransactionType(t)
		if !txType.IsValid() {
			return domain.TransactionDraft{}, "type must be 'income' or 'expense'"
		}
	}

	category := rec["category"]
	if category == "" {
		category = s.categorizer.Suggest(desc, amount).Category
	}

	return domain.TransactionDraft{
		Row:         row,
		Date:        s.parseImportDate(rec["date"]),
		Description: desc,
		Amount:      amount,
		Currency:    normalizeCurrency(rec["currency"], s.baseCcy),
		Type:        txType,
		Category:    category,
	}, ""
}

func (s *ImportService) parseImportDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// spreadsheets often export full timestamps
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return startOfDay(t)
	}
	if len(value) > len("2006-01-02") {
		if t, err := time.Parse("2006-01-02", value[:len("2006-01-02")]); err == nil {
			return t
		}
	}
	return startOfDay(s.now())
}
