package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// InvoiceService manages invoices. Totals are kept in the invoice currency and in the
// base currency.
type InvoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	normalizer  portssvc.CurrencyNormalizerSvc
	publisher   gateways.EventPublisher
	now         Clock
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*InvoiceService)

// WithInvoiceEventPublisher announces created invoices.
func WithInvoiceEventPublisher(p gateways.EventPublisher) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.publisher = p
	}
}

// WithInvoiceClock replaces time.Now.
func WithInvoiceClock(c Clock) InvoiceServiceOption {
	return func(s *InvoiceService) {
		if c != nil {
			s.now = c
		}
	}
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	normalizer portssvc.CurrencyNormalizerSvc,
	access portssvc.AccessAuthorizerSvc,
	options ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		BaseService: BaseService{Access: access},
		invoiceRepo: invoiceRepo,
		normalizer:  normalizer,
		now:         time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// CreateInvoice issues an invoice. The number is generated per company unless given,
// and the due date defaults to 30 days after creation.
func (s *InvoiceService) CreateInvoice(ctx context.Context, actorID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return nil, apperrors.NewValidationError("client_name is required")
	}
	if err := validateInvoiceAmounts(req.Amount, req.TaxAmount); err != nil {
		return nil, err
	}

	status := domain.InvoicePending
	if req.Status != "" {
		status = domain.InvoiceStatus(req.Status)
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status must be one of pending, paid, cancelled, overdue")
	}

	now := s.now()
	created := startOfDay(now)
	due := created.Add(domain.DefaultInvoiceTerm)
	if req.DateDue != nil {
		if due, err = time.Parse(dto.DateLayout, *req.DateDue); err != nil {
			return nil, apperrors.NewValidationError("date_due must use the YYYY-MM-DD format")
		}
		if due.Before(created) {
			return nil, apperrors.NewValidationError("date_due cannot be before the creation date")
		}
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		count, err := s.invoiceRepo.CountInvoicesByCompany(ctx, companyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to count invoices", slog.Int64("company_id", companyID))
			return nil, fmt.Errorf("failed to generate invoice number: %w", err)
		}
		number = fmt.Sprintf("INV-%03d-%04d", companyID, count+1)
	}

	inv := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     companyID,
		UserID:        actorID,
		InvoiceNumber: number,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		Amount:        req.Amount,
		Currency:      normalizeCurrency(req.Currency, s.normalizer.BaseCurrency()),
		TaxAmount:     req.TaxAmount,
		DateCreated:   created,
		DateDue:       due,
		Status:        status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	s.computeTotals(ctx, &inv)

	if err := s.invoiceRepo.SaveInvoice(ctx, inv); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError("invoice number already exists")
		}
		s.LogError(ctx, err, "Failed to save invoice", slog.String("invoice_number", number))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", number),
		slog.Int64("company_id", companyID))
	s.publish(ctx, s.publisher, gateways.EventInvoiceCreated, inv.InvoiceID, inv)
	return &inv, nil
}

// GetInvoice returns an invoice the actor may access.
func (s *InvoiceService) GetInvoice(ctx context.Context, actorID string, invoiceID string) (*domain.Invoice, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.findAccessible(ctx, actor, invoiceID)
}

// ListInvoices returns the company's invoices, optionally filtered by status.
func (s *InvoiceService) ListInvoices(ctx context.Context, actorID string, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, params.CompanyID)
	if err != nil {
		return nil, err
	}

	var status *domain.InvoiceStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.InvoiceStatus(*params.Status)
		if !st.IsValid() {
			return nil, apperrors.NewValidationError("status must be one of pending, paid, cancelled, overdue")
		}
		status = &st
	}

	invoices, err := s.invoiceRepo.ListInvoices(ctx, companyID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.Int64("company_id", companyID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

// UpdateInvoice applies the provided fields and recomputes totals.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, actorID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	inv, err := s.findAccessible(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil {
		name := strings.TrimSpace(*req.ClientName)
		if name == "" {
			return nil, apperrors.NewValidationError("client_name is required")
		}
		inv.ClientName = name
	}
	if req.ClientEmail != nil {
		inv.ClientEmail = strings.TrimSpace(*req.ClientEmail)
	}
	if req.Amount != nil {
		inv.Amount = *req.Amount
	}
	if req.TaxAmount != nil {
		inv.TaxAmount = *req.TaxAmount
	}
	if err := validateInvoiceAmounts(inv.Amount, inv.TaxAmount); err != nil {
		return nil, err
	}
	if req.Currency != nil {
		inv.Currency = normalizeCurrency(*req.Currency, s.normalizer.BaseCurrency())
	}
	if req.DateDue != nil {
		due, err := time.Parse(dto.DateLayout, *req.DateDue)
		if err != nil {
			return nil, apperrors.NewValidationError("date_due must use the YYYY-MM-DD format")
		}
		if due.Before(inv.DateCreated) {
			return nil, apperrors.NewValidationError("date_due cannot be before the creation date")
		}
		inv.DateDue = due
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("status must be one of pending, paid, cancelled, overdue")
		}
		inv.Status = status
	}

	s.computeTotals(ctx, inv)
	inv.LastUpdatedAt = s.now()
	inv.LastUpdatedBy = actorID

	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID), slog.String("status", string(inv.Status)))
	return inv, nil
}

// DeleteInvoice removes an invoice the actor may access.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, actorID string, invoiceID string) error {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.findAccessible(ctx, actor, invoiceID); err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID), slog.String("deleted_by", actorID))
	return nil
}

func (s *InvoiceService) findAccessible(ctx context.Context, actor *domain.User, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	if err := authorizeCompany(actor, inv.CompanyID, "invoice"); err != nil {
		return nil, err
	}
	return inv, nil
}

// computeTotals sets TotalAmount = Amount + TaxAmount and its base-currency value.
func (s *InvoiceService) computeTotals(ctx context.Context, inv *domain.Invoice) {
	inv.TotalAmount = inv.Amount.Add(inv.TaxAmount)
	inv.TotalBase = s.normalizer.Convert(ctx, inv.TotalAmount, inv.Currency, s.normalizer.BaseCurrency())
}

func validateInvoiceAmounts(amount, tax decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount must be positive")
	}
	if tax.IsNegative() {
		return apperrors.NewValidationError("tax_amount cannot be negative")
	}
	return nil
}
