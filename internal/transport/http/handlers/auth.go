package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-messaging/internal/infra/security"
	"github.com/arklim/social-platform-messaging/internal/transport/http/middleware"
	"github.com/arklim/social-platform-messaging/internal/usecase"
)

// AuthHandler exposes registration and authentication endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

// RegisterRoutes binds authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/logout", middleware.RequireAuth(h.auth), h.logout)
}

func (h *AuthHandler) register(c *gin.Context) {
	if h.registration == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "registration service unavailable"))
		return
	}

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.RegisterUser(c.Request.Context(), usecase.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid registration payload"},
			{Err: usecase.ErrPasswordPolicy, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
			{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username already taken"},
		}, http.StatusInternalServerError, "failed to register user")
		return
	}

	token, err := h.auth.IssueToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue token"))
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.computeExpiresIn(c, token),
		User:      newUserPayload(user),
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "username and password are required"},
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "authentication failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.computeExpiresIn(c, token),
		User:      newUserPayload(user),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	claims := getAccessTokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke token"))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) computeExpiresIn(c *gin.Context, token string) int {
	claims, err := h.auth.ParseAccessToken(c.Request.Context(), token)
	if err != nil || claims == nil || claims.ExpiresAt == nil {
		return 0
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return 0
	}

	return int(remaining.Seconds())
}

func getAccessTokenClaims(c *gin.Context) *security.AccessTokenClaims {
	raw, exists := c.Get("claims")
	if !exists {
		return nil
	}

	claims, ok := raw.(*security.AccessTokenClaims)
	if !ok {
		return nil
	}

	return claims
}
