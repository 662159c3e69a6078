package services

import (
	"context"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade signs users in.
type AuthSvcFacade interface {
	// Login checks credentials, stamps last_login and issues an access token.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, time.Time, error)

	// LoginWithGoogle exchanges an authorization code and signs in the matching user.
	LoginWithGoogle(ctx context.Context, code string) (*domain.User, string, time.Time, error)
}

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
