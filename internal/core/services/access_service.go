package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/middleware"
)

// AccessService resolves the caller behind a token and decides which company data
// they may touch.
type AccessService struct {
	userRepo portsrepo.UserReader
}

// NewAccessService creates a new AccessService.
func NewAccessService(userRepo portsrepo.UserReader) *AccessService {
	return &AccessService{userRepo: userRepo}
}

var _ portssvc.AccessAuthorizerSvc = (*AccessService)(nil)

// ResolveActor loads the user behind userID. Unknown users are unauthorized, inactive
// ones forbidden.
func (s *AccessService) ResolveActor(ctx context.Context, userID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Token subject does not match any user", slog.String("user_id", userID))
			return nil, apperrors.NewUnauthorizedError("user no longer exists")
		}
		logger.Error("Failed to load acting user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !user.IsActive() {
		logger.Warn("Inactive user attempted an action", slog.String("user_id", userID))
		return nil, apperrors.NewForbiddenError("user account is inactive")
	}
	return user, nil
}

// ResolveCompany returns the company the actor operates on. Admins may target any
// company; everyone else is limited to their own.
func (s *AccessService) ResolveCompany(ctx context.Context, userID string, requested *int64) (*domain.User, int64, error) {
	actor, err := s.ResolveActor(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if requested == nil || *requested == actor.CompanyID {
		return actor, actor.CompanyID, nil
	}
	if !actor.CanAccessCompany(*requested) {
		middleware.GetLoggerFromCtx(ctx).Warn("Authorization failed: company outside user scope",
			slog.String("user_id", userID),
			slog.Int64("company_id", *requested))
		return nil, 0, apperrors.NewForbiddenError("access to this company is not allowed")
	}
	return actor, *requested, nil
}

// RequireAdmin fails with a forbidden error unless the actor is an admin.
func (s *AccessService) RequireAdmin(ctx context.Context, userID string) (*domain.User, error) {
	actor, err := s.ResolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		middleware.GetLoggerFromCtx(ctx).Warn("Authorization failed: admin role required", slog.String("user_id", userID))
		return nil, apperrors.NewForbiddenError("admin role required")
	}
	return actor, nil
}

// authorizeCompany checks that actor may reach companyID. Not found is returned instead of
// forbidden so other tenants' IDs are not revealed.
func authorizeCompany(actor *domain.User, companyID int64, what string) error {
	if actor.CanAccessCompany(companyID) {
		return nil
	}
	return apperrors.NewNotFoundError(what + " not found")
}
