// Package middleware provides gin middleware for the relay's HTTP surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

// RequireAuth is a middleware that validates hosted-auth JWT tokens.
// A nil validator means auth is disabled and every request passes.
func RequireAuth(validator *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil {
			c.Next()
			return
		}

		// Get token from Authorization header
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "No authorization token provided")
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// Set user session in context
		c.Set(constants.ContextKeyUser, claims.Session())
		c.Set(constants.ContextKeyToken, tokenString)

		c.Next()
	}
}

// UserFromContext returns the authenticated user, or nil when auth is
// disabled or the route is public.
func UserFromContext(c *gin.Context) *auth.UserSession {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := v.(auth.UserSession)
	if !ok {
		return nil
	}
	return &user
}

func abortUnauthorized(c *gin.Context, reason string) {
	err := apperrors.NewUnauthorizedError(reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Success: false,
		Error:   reason,
		Code:    err.Code(),
	})
}
