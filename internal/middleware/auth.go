package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClaims   = "claims"
)

// AuthMiddleware admits requests carrying a valid bearer token. A missing or
// malformed header is 401; a token that fails verification or was revoked
// is 403. revoker may be nil.
func AuthMiddleware(tokens *auth.TokenCodec, revoker auth.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Authorization header must be 'Bearer <token>'.")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, http.StatusForbidden, "invalid_token", "Token is invalid or expired.")
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				Logger(c).Error("token revocation lookup failed", zap.Error(err))
				httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Internal server error.")
				return
			}
			if revoked {
				httperr.Abort(c, http.StatusForbidden, "token_revoked", "Token has been revoked.")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetUserID returns the authenticated caller, if any.
func GetUserID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
