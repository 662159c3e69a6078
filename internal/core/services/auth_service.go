package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/platform/config"
	"github.com/hdtransit/erp_backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const invalidCredentialsMsg = "invalid email or password"

// tokenService implements the TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, now: time.Now}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	accessToken, expiryTime, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration, s.now())
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).ErrorContext(ctx, "Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// --- GoogleOAuthHandlerSvcFacade Implementation ---

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg *config.Config
	// oauth2Config is configured at initialization time
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}

// AuthService signs users in with a password or a Google account.
type AuthService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tokens   portssvc.TokenSvcFacade
	google   portssvc.GoogleOAuthHandlerSvcFacade
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, tokens portssvc.TokenSvcFacade, google portssvc.GoogleOAuthHandlerSvcFacade) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
		now:      time.Now,
	}
}

var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

// Login checks email and password. Unknown emails, wrong passwords and inactive
// accounts all answer with the same unauthorized error.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Login attempt for unknown email", slog.String("email", email))
			return nil, "", time.Time{}, apperrors.NewUnauthorizedError(invalidCredentialsMsg)
		}
		s.LogError(ctx, err, "Failed to look up user for login", slog.String("email", email))
		return nil, "", time.Time{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogInfo(ctx, "Login attempt with wrong password", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError(invalidCredentialsMsg)
	}

	return s.signIn(ctx, user)
}

// LoginWithGoogle signs in the existing active user whose email matches the verified
// Google account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*domain.User, string, time.Time, error) {
	token, err := s.google.ExchangeCodeForToken(ctx, code)
	if err != nil {
		s.LogWarn(ctx, "Google code exchange failed", slog.String("error", err.Error()))
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError("invalid authorization code")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		s.LogWarn(ctx, "Google token response carried no id_token")
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError("google did not return an identity token")
	}

	payload, err := s.google.ValidateGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		s.LogWarn(ctx, "Google ID token rejected", slog.String("error", err.Error()))
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError("invalid identity token")
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError("google account email is not verified")
	}
	email = strings.ToLower(email)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Google sign-in for unregistered email", slog.String("email", email))
			return nil, "", time.Time{}, apperrors.NewUnauthorizedError("no account is registered for this email")
		}
		s.LogError(ctx, err, "Failed to look up user for google sign-in", slog.String("email", email))
		return nil, "", time.Time{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.signIn(ctx, user)
}

// signIn finishes a successful credential check: active check, last_login, token.
func (s *AuthService) signIn(ctx context.Context, user *domain.User) (*domain.User, string, time.Time, error) {
	if !user.IsActive() {
		s.LogInfo(ctx, "Login attempt for inactive user", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, apperrors.NewUnauthorizedError("account is inactive")
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
	} else {
		user.LastLogin = &now
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.LogInfo(ctx, "User signed in", slog.String("user_id", user.UserID))
	return user, accessToken, expiresAt, nil
}
