package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/utils"
)

// authHandler handles sign-in and the current user's profile.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	access      portssvc.AccessAuthorizerSvc
	posthog     *utils.PosthogClientWrapper
}

func newAuthHandler(as portssvc.AuthSvcFacade, access portssvc.AccessAuthorizerSvc, posthog *utils.PosthogClientWrapper) *authHandler {
	return &authHandler{authService: as, access: access, posthog: posthog}
}

// registerAuthRoutes sets up the public sign-in routes. loginLimit may be nil.
func registerAuthRoutes(api *gin.RouterGroup, authService portssvc.AuthSvcFacade, access portssvc.AccessAuthorizerSvc, posthog *utils.PosthogClientWrapper, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(authService, access, posthog)

	login := []gin.HandlerFunc{h.login}
	if loginLimit != nil {
		login = append([]gin.HandlerFunc{loginLimit}, login...)
	}
	api.POST("/login", login...)
	api.POST("/auth/google/exchange-code", h.googleExchangeCode)
}

// registerProfileRoutes sets up the authenticated profile route.
func registerProfileRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, access portssvc.AccessAuthorizerSvc) {
	h := newAuthHandler(authService, access, nil)
	rg.GET("/user/profile", h.profile)
}

// login godoc
// @Summary User login
// @Description Authenticates a user by email and password and returns a JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, token, expiresAt, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}
	h.respondLogin(c, user, token, expiresAt, "password")
}

// googleExchangeCode godoc
// @Summary Sign in with Google
// @Description Exchanges a Google authorization code and signs in the user with the matching email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *authHandler) googleExchangeCode(c *gin.Context) {
	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, token, expiresAt, err := h.authService.LoginWithGoogle(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}
	h.respondLogin(c, user, token, expiresAt, "google")
}

func (h *authHandler) respondLogin(c *gin.Context, user *domain.User, token string, expiresAt time.Time, method string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User signed in", slog.String("user_id", user.UserID), slog.String("method", method))
	h.posthog.Enqueue(user.UserID, "user_signed_in", map[string]any{"method": method, "company_id": user.CompanyID})
	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		User:        dto.ToUserResponse(user),
	})
}

// profile godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /user/profile [get]
func (h *authHandler) profile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	user, err := h.access.ResolveActor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
