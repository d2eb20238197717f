package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/dto"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/httpresp"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	authuc "github.com/BruksfildServices01/salon-pos/internal/usecase/auth"
)

type AuthHandler struct {
	login   *authuc.Login
	users   domain.UserRepository
	revoker auth.Revoker
}

func NewAuthHandler(login *authuc.Login, users domain.UserRepository, revoker auth.Revoker) *AuthHandler {
	return &AuthHandler{login: login, users: users, revoker: revoker}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	out, err := h.login.Execute(c.Request.Context(), authuc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, authuc.ErrInvalidCredentials) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if err != nil {
		respondError(c, "user", err)
		return
	}

	httpresp.OK(c, dto.LoginResponse{
		Message:   "Login successful",
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
	})
}

// Logout revokes the presented token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
		return
	}

	if h.revoker != nil && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(c.Request.Context(), claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			respondError(c, "token", err)
			return
		}
	}

	httpresp.Message(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
		return
	}

	user, err := h.users.Get(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, "user", err)
		return
	}
	httpresp.OK(c, user)
}
