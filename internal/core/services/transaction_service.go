package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/utils/pagination"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	maxCategoryLength    = 100
	defaultPageSize      = 50
)

// TransactionService records income and expenses. Every amount is normalized into the
// base currency when written.
type TransactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	normalizer  portssvc.CurrencyNormalizerSvc
	categorizer Categorizer
	publisher   gateways.EventPublisher
	now         Clock
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*TransactionService)

// WithTransactionCategorizer replaces the keyword categorizer used for empty categories.
func WithTransactionCategorizer(c Categorizer) TransactionServiceOption {
	return func(s *TransactionService) {
		if c != nil {
			s.categorizer = c
		}
	}
}

// WithTransactionEventPublisher announces created and imported transactions.
func WithTransactionEventPublisher(p gateways.EventPublisher) TransactionServiceOption {
	return func(s *TransactionService) {
		s.publisher = p
	}
}

// WithTransactionClock replaces time.Now.
func WithTransactionClock(c Clock) TransactionServiceOption {
	return func(s *TransactionService) {
		if c != nil {
			s.now = c
		}
	}
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	normalizer portssvc.CurrencyNormalizerSvc,
	access portssvc.AccessAuthorizerSvc,
	options ...TransactionServiceOption,
) *TransactionService {
	s := &TransactionService{
		BaseService: BaseService{Access: access},
		txnRepo:     txnRepo,
		normalizer:  normalizer,
		categorizer: NewKeywordCategorizer(),
		now:         time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// CreateTransaction validates, normalizes and stores a manual transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, actorID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must use the YYYY-MM-DD format")
	}

	draft := domain.TransactionDraft{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
	}
	if msg := validateDraft(draft); msg != "" {
		return nil, apperrors.NewValidationError(msg)
	}

	txn := s.buildTransaction(ctx, actorID, companyID, draft, domain.SourceManual, nil, s.now())
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.Int64("company_id", companyID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("company_id", companyID),
		slog.String("currency", txn.Currency),
		slog.String("amount_base", txn.AmountBase.String()))
	s.publish(ctx, s.publisher, gateways.EventTransactionCreated, txn.TransactionID, txn)
	return &txn, nil
}

// GetTransaction returns a transaction the actor may access.
func (s *TransactionService) GetTransaction(ctx context.Context, actorID string, transactionID string) (*domain.Transaction, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.findAccessible(ctx, actor, transactionID)
}

// ListTransactions returns one page of the company's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, actorID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, params.CompanyID)
	if err != nil {
		return nil, nil, err
	}

	filter := domain.TransactionFilter{
		CompanyID: companyID,
		Category:  params.Category,
		Limit:     params.PageSize,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if params.Type != nil {
		t := domain.TransactionType(*params.Type)
		if !t.IsValid() {
			return nil, nil, apperrors.NewValidationError("type must be income or expense")
		}
		filter.Type = &t
	}
	if filter.StartDate, err = parseOptionalDate(params.StartDate, "start_date"); err != nil {
		return nil, nil, err
	}
	if filter.EndDate, err = parseOptionalDate(params.EndDate, "end_date"); err != nil {
		return nil, nil, err
	}
	if filter.NextToken != nil {
		if _, err := pagination.DecodeToken(*filter.NextToken); err != nil {
			return nil, nil, apperrors.NewValidationError("invalid next_token")
		}
	}

	txns, next, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("company_id", companyID))
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}

// UpdateTransaction applies the provided fields. A changed amount or currency is
// normalized again at current rates.
func (s *TransactionService) UpdateTransaction(ctx context.Context, actorID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	txn, err := s.findAccessible(ctx, actor, transactionID)
	if err != nil {
		return nil, err
	}

	renormalize := false
	if req.Date != nil {
		date, err := time.Parse(dto.DateLayout, *req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("date must use the YYYY-MM-DD format")
		}
		txn.Date = date
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, apperrors.NewValidationError("description is required")
		}
		txn.Description = truncateRunes(desc, maxDescriptionLength)
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationError("amount must be positive")
		}
		renormalize = renormalize || !req.Amount.Equal(txn.Amount)
		txn.Amount = *req.Amount
	}
	if req.Currency != nil {
		currency := normalizeCurrency(*req.Currency, s.normalizer.BaseCurrency())
		renormalize = renormalize || currency != txn.Currency
		txn.Currency = currency
		txn.OriginalCurrency = currency
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("type must be income or expense")
		}
		txn.Type = t
	}
	if req.Category != nil {
		txn.Category = truncateRunes(strings.TrimSpace(*req.Category), maxCategoryLength)
	}

	now := s.now()
	if renormalize {
		s.normalize(ctx, txn, now)
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.Bool("renormalized", renormalize))
	return txn, nil
}

// DeleteTransaction removes a transaction the actor may access.
func (s *TransactionService) DeleteTransaction(ctx context.Context, actorID string, transactionID string) error {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.findAccessible(ctx, actor, transactionID); err != nil {
		return err
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID), slog.String("deleted_by", actorID))
	return nil
}

// BulkImport parses loosely typed rows and imports the valid ones. Rows are numbered
// from 1.
func (s *TransactionService) BulkImport(ctx context.Context, actorID string, req dto.BulkImportRequest) (*domain.ImportResult, error) {
	drafts := make([]domain.TransactionDraft, 0, len(req.Transactions))
	var rejected []domain.ImportRowError

	for i, row := range req.Transactions {
		draft, msg := draftFromBulkRow(i+1, row)
		if msg != "" {
			rejected = append(rejected, domain.ImportRowError{Row: i + 1, Error: msg})
			continue
		}
		drafts = append(drafts, draft)
	}

	return s.ImportDrafts(ctx, actorID, req.CompanyID, drafts, rejected, len(req.Transactions), domain.SourceBulkImport)
}

// ImportDrafts validates and normalizes drafts and saves the valid ones in one
// database transaction under a shared batch ID.
func (s *TransactionService) ImportDrafts(
	ctx context.Context,
	actorID string,
	companyID *int64,
	drafts []domain.TransactionDraft,
	rejected []domain.ImportRowError,
	totalRows int,
	source domain.TransactionSource,
) (*domain.ImportResult, error) {
	_, cid, err := s.Access.ResolveCompany(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batchID := ulid.Make().String()
	errs := append([]domain.ImportRowError(nil), rejected...)
	txns := make([]domain.Transaction, 0, len(drafts))

	for _, d := range drafts {
		if msg := validateDraft(d); msg != "" {
			errs = append(errs, domain.ImportRowError{Row: d.Row, Error: msg})
			continue
		}
		txns = append(txns, s.buildTransaction(ctx, actorID, cid, d, source, &batchID, now))
	}

	if len(txns) > 0 {
		if err := s.txnRepo.SaveTransactions(ctx, txns); err != nil {
			s.LogError(ctx, err, "Failed to save imported transactions",
				slog.String("batch_id", batchID),
				slog.Int("rows", len(txns)))
			return nil, fmt.Errorf("failed to import transactions: %w", err)
		}
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
	result := &domain.ImportResult{
		BatchID:    batchID,
		Imported:   len(txns),
		TotalRows:  totalRows,
		ErrorCount: len(errs),
		Errors:     errs,
	}

	s.LogInfo(ctx, "Transactions imported",
		slog.String("batch_id", batchID),
		slog.String("source", string(source)),
		slog.Int("imported", result.Imported),
		slog.Int("rejected", len(errs)))
	if result.Imported > 0 {
		s.publish(ctx, s.publisher, gateways.EventTransactionsImported, batchID, result)
	}
	return result, nil
}

func (s *TransactionService) findAccessible(ctx context.Context, actor *domain.User, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if err := authorizeCompany(actor, txn.CompanyID, "transaction"); err != nil {
		return nil, err
	}
	return txn, nil
}

// buildTransaction turns a validated draft into a normalized transaction.
func (s *TransactionService) buildTransaction(ctx context.Context, actorID string, companyID int64, d domain.TransactionDraft, source domain.TransactionSource, batchID *string, now time.Time) domain.Transaction {
	currency := normalizeCurrency(d.Currency, s.normalizer.BaseCurrency())
	category := truncateRunes(strings.TrimSpace(d.Category), maxCategoryLength)
	if category == "" {
		category = s.categorizer.Suggest(d.Description, d.Amount).Category
	}

	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		CompanyID:        companyID,
		UserID:           actorID,
		Date:             d.Date,
		Description:      truncateRunes(strings.TrimSpace(d.Description), maxDescriptionLength),
		Amount:           d.Amount,
		Currency:         currency,
		OriginalCurrency: currency,
		Type:             d.Type,
		Category:         category,
		Source:           source,
		ImportBatchID:    batchID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	s.normalize(ctx, &txn, now)
	return txn
}

// normalize fills AmountBase and the rate used. A degraded conversion stores the
// original amount with rate 1.
func (s *TransactionService) normalize(ctx context.Context, txn *domain.Transaction, now time.Time) {
	res := s.normalizer.ConvertDetailed(ctx, txn.Amount, txn.Currency, s.normalizer.BaseCurrency())
	if res.Degraded() {
		s.LogWarn(ctx, "Stored transaction with unconverted amount",
			slog.String("currency", txn.Currency),
			slog.String("reason", res.Reason))
	}
	txn.AmountBase = res.Amount
	txn.ExchangeRate = res.Rate
	txn.ExchangeRateDate = startOfDay(now)
}

// validateDraft returns a client-facing message for the first problem found.
func validateDraft(d domain.TransactionDraft) string {
	switch {
	case d.Date.IsZero():
		return "date is required"
	case strings.TrimSpace(d.Description) == "":
		return "description is required"
	case !d.Amount.IsPositive():
		return "amount must be positive"
	case !d.Type.IsValid():
		return "type must be income or expense"
	}
	return ""
}

func draftFromBulkRow(row int, r dto.BulkTransactionRow) (domain.TransactionDraft, string) {
	if strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.Description) == "" ||
		strings.TrimSpace(r.Amount) == "" || strings.TrimSpace(r.Type) == "" {
		return domain.TransactionDraft{}, "missing required fields"
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return domain.TransactionDraft{}, fmt.Sprintf("invalid amount %q", r.Amount)
	}
	date, err := time.Parse(dto.DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return domain.TransactionDraft{}, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", r.Date)
	}

	return domain.TransactionDraft{
		Row:         row,
		Date:        date,
		Description: r.Description,
		Amount:      amount,
		Currency:    r.Currency,
		Type:        domain.TransactionType(strings.ToLower(strings.TrimSpace(r.Type))),
		Category:    r.Category,
	}, ""
}

func parseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, *value)
	if err != nil {
		return nil, apperrors.NewValidationError(field + " must use the YYYY-MM-DD format")
	}
	return &t, nil
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
