package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// UserReaderSvc defines read operations for users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, actorID string, params dto.ListUsersParams) ([]domain.User, error)
	GetUserSummary(ctx context.Context, actorID string, userID string) (*domain.UserSummary, error)
}

// UserWriterSvc defines admin write operations for users.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, actorID string, req dto.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, actorID string, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID string, userID string) error
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
