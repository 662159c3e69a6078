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
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/utils"
)

// UserService handles admin management of users.
type UserService struct {
	BaseService
	userRepo      portsrepo.UserRepositoryFacade
	companyRepo   portsrepo.CompanyReader
	txnRepo       portsrepo.TransactionReader
	invoiceRepo   portsrepo.InvoiceReader
	dataEntryRepo portsrepo.DataEntryReader
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*UserService)

// WithUserCompanyReader validates company IDs on create and update.
func WithUserCompanyReader(repo portsrepo.CompanyReader) UserServiceOption {
	return func(s *UserService) {
		s.companyRepo = repo
	}
}

// WithUserActivityReaders enables the activity counts of GetUserSummary.
func WithUserActivityReaders(txns portsrepo.TransactionReader, invoices portsrepo.InvoiceReader, entries portsrepo.DataEntryReader) UserServiceOption {
	return func(s *UserService) {
		s.txnRepo = txns
		s.invoiceRepo = invoices
		s.dataEntryRepo = entries
	}
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, access portssvc.AccessAuthorizerSvc, options ...UserServiceOption) *UserService {
	s := &UserService{
		BaseService: BaseService{Access: access},
		userRepo:    userRepo,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of all users. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actorID string, params dto.ListUsersParams) ([]domain.User, error) {
	if _, err := s.Access.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	users, err := s.userRepo.FindUsers(ctx, nil, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// GetUserSummary returns a user together with their activity counts. Admin only.
func (s *UserService) GetUserSummary(ctx context.Context, actorID string, userID string) (*domain.UserSummary, error) {
	if _, err := s.Access.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.UserSummary{User: *user}
	if s.txnRepo != nil {
		if summary.TransactionCount, err = s.txnRepo.CountTransactionsByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to count transactions: %w", err)
		}
	}
	if s.invoiceRepo != nil {
		if summary.InvoiceCount, err = s.invoiceRepo.CountInvoicesByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to count invoices: %w", err)
		}
	}
	if s.dataEntryRepo != nil {
		if summary.DataEntryCount, err = s.dataEntryRepo.CountDataEntriesByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to count data entries: %w", err)
		}
	}
	return summary, nil
}

// CreateUser provisions a new user. Admin only; emails are unique.
func (s *UserService) CreateUser(ctx context.Context, actorID string, req dto.CreateUserRequest) (*domain.User, error) {
	actor, err := s.Access.RequireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	companyID := actor.CompanyID
	if req.CompanyID != nil {
		companyID = *req.CompanyID
	}
	if err := s.ensureCompanyExists(ctx, companyID); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.UserRole(req.Role)
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("role must be admin or user")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CompanyID:    companyID,
		Status:       domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("email", email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("created_by", actorID))
	return &user, nil
}

// UpdateUser applies the provided fields to a user. Admin only.
func (s *UserService) UpdateUser(ctx context.Context, actorID string, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.Access.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.UserID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, apperrors.NewValidationError("role must be admin or user")
		}
		user.Role = role
	}
	if req.Status != nil {
		status := domain.EntityStatus(*req.Status)
		if status != domain.StatusActive && status != domain.StatusInactive {
			return nil, apperrors.NewValidationError("status must be active or inactive")
		}
		user.Status = status
	}
	if req.CompanyID != nil && *req.CompanyID != user.CompanyID {
		if err := s.ensureCompanyExists(ctx, *req.CompanyID); err != nil {
			return nil, err
		}
		user.CompanyID = *req.CompanyID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = actorID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID), slog.String("updated_by", actorID))
	return user, nil
}

// DeleteUser removes a user. Admins cannot delete themselves or other admins.
func (s *UserService) DeleteUser(ctx context.Context, actorID string, userID string) error {
	actor, err := s.Access.RequireAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.UserID == userID {
		return apperrors.NewForbiddenError("cannot delete your own account")
	}

	target, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return apperrors.NewForbiddenError("cannot delete other administrator accounts")
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID), slog.String("deleted_by", actorID))
	return nil
}

// ensureEmailFree fails with a duplicate error when email belongs to a user other than exceptID.
func (s *UserService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to check email uniqueness", slog.String("email", email))
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.UserID != exceptID {
		return apperrors.NewDuplicateError("email already exists")
	}
	return nil
}

func (s *UserService) ensureCompanyExists(ctx context.Context, companyID int64) error {
	if s.companyRepo == nil {
		return nil
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError(fmt.Sprintf("company %d does not exist", companyID))
		}
		return fmt.Errorf("failed to check company: %w", err)
	}
	return nil
}
