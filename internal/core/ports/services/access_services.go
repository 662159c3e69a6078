package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// AccessAuthorizerSvc resolves the calling user and enforces company scoping.
type AccessAuthorizerSvc interface {
	// ResolveActor loads the active user behind a token subject.
	ResolveActor(ctx context.Context, userID string) (*domain.User, error)

	// ResolveCompany returns the company the actor operates on: the requested one when
	// given and permitted, otherwise the actor's own company.
	ResolveCompany(ctx context.Context, userID string, requested *int64) (*domain.User, int64, error)

	// RequireAdmin fails with apperrors.ErrForbidden unless the actor is an admin.
	RequireAdmin(ctx context.Context, userID string) (*domain.User, error)
}
